package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/iudanet/mazadlive/internal/client/api"
	"github.com/iudanet/mazadlive/internal/client/realtime"
	"github.com/iudanet/mazadlive/internal/models"
)

// feedSubscriptionKey - ключ идентичности обработчиков Feed в реестре канала
const feedSubscriptionKey = "notification-feed"

// NotificationSource - backend CRUD уведомлений
type NotificationSource interface {
	ListNotifications(ctx context.Context, accessToken, userID string) ([]models.NotificationEvent, error)
	MarkNotificationRead(ctx context.Context, accessToken, notificationID string) error
	MarkAllNotificationsRead(ctx context.Context, accessToken, userID string) error
}

// Subscriber - источник realtime событий (realtime.Channel)
type Subscriber interface {
	Subscribe(event, key string, fn realtime.Handler) *realtime.Subscription
}

// Snapshot - объединенный список для UI
type Snapshot struct {
	UpdatedAt           time.Time
	Chats               []ChatNotification
	Notifications       []models.NotificationEvent
	TotalUnread         int
	UnreadNotifications int
}

// Feed поддерживает актуальный Snapshot: полная переагрегация при
// подключении и на каждое newMessage/messageRead, слияние уведомлений
// с дедупликацией по ключу события.
type Feed struct {
	aggregator *Aggregator
	source     NotificationSource
	logger     *slog.Logger
	onUpdate   func(Snapshot)
	cancel     context.CancelFunc
	events     map[string]models.NotificationEvent
	userID     string
	token      string
	subs       []*realtime.Subscription
	snapshot   Snapshot
	wg         sync.WaitGroup
	refreshMu  sync.Mutex
	mu         sync.Mutex
}

// NewFeed создает Feed; onUpdate вызывается после каждого изменения
func NewFeed(aggregator *Aggregator, source NotificationSource, onUpdate func(Snapshot), logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}

	return &Feed{
		aggregator: aggregator,
		source:     source,
		logger:     logger,
		onUpdate:   onUpdate,
		events:     make(map[string]models.NotificationEvent),
	}
}

// Attach подписывается на события канала и выполняет первичную агрегацию.
// Повторный Attach сначала выполняет Detach.
func (f *Feed) Attach(ctx context.Context, ch Subscriber, userID, accessToken string) Snapshot {
	f.Detach()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	f.mu.Lock()
	f.userID = userID
	f.token = accessToken
	f.cancel = cancel

	trigger := func(ev realtime.Event) {
		f.logger.Debug("re-aggregating notifications", "event", ev.Name)
		f.refreshAsync(runCtx)
	}

	f.subs = []*realtime.Subscription{
		ch.Subscribe(realtime.EventNewMessage, feedSubscriptionKey, trigger),
		ch.Subscribe(realtime.EventMessageRead, feedSubscriptionKey, trigger),
		ch.Subscribe(realtime.EventNotification, feedSubscriptionKey, f.handleNotification),
	}
	f.mu.Unlock()

	return f.Refresh(runCtx)
}

// Detach снимает подписки, ждет фоновых обновлений и очищает состояние
func (f *Feed) Detach() {
	f.mu.Lock()
	subs, cancel := f.subs, f.cancel
	f.subs, f.cancel = nil, nil
	f.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	f.wg.Wait()

	f.mu.Lock()
	f.userID, f.token = "", ""
	f.events = make(map[string]models.NotificationEvent)
	f.snapshot = Snapshot{}
	f.mu.Unlock()
}

// Snapshot возвращает последний опубликованный снимок
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return cloneSnapshot(f.snapshot)
}

// Refresh выполняет полную агрегацию и перечитывает уведомления backend.
// Ошибки деградируют до пустых списков и нулевых счетчиков.
func (f *Feed) Refresh(ctx context.Context) Snapshot {
	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()

	f.mu.Lock()
	userID, token := f.userID, f.token
	f.mu.Unlock()

	if userID == "" || token == "" {
		return f.Snapshot()
	}

	result, err := f.aggregator.Aggregate(ctx, userID, token)
	if err != nil {
		f.logger.Warn("chat aggregation failed", "user_id", userID, "error", err)
		result = Result{}
	}

	listed, err := f.source.ListNotifications(ctx, token, userID)
	if err != nil {
		f.logger.Warn("failed to list notifications", "user_id", userID, "error", err)
	}

	f.mu.Lock()
	if f.userID != userID {
		// Сессия сменилась во время запроса
		f.mu.Unlock()
		return f.Snapshot()
	}
	for _, ev := range listed {
		f.events[ev.Key()] = ev
	}
	f.snapshot.Chats = result.Items
	f.snapshot.TotalUnread = result.TotalUnread
	snapshot := f.rebuildLocked()
	f.mu.Unlock()

	f.publish(snapshot)
	return snapshot
}

// MarkRead отмечает уведомление прочитанным на backend и локально
func (f *Feed) MarkRead(ctx context.Context, notificationID string) error {
	f.mu.Lock()
	token := f.token
	f.mu.Unlock()

	if token == "" {
		return api.ErrAuthRequired
	}

	if err := f.source.MarkNotificationRead(ctx, token, notificationID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	f.mu.Lock()
	if ev, ok := f.events[notificationID]; ok {
		ev.Read = true
		f.events[notificationID] = ev
	}
	snapshot := f.rebuildLocked()
	f.mu.Unlock()

	f.publish(snapshot)
	return nil
}

// MarkAllRead отмечает все уведомления пользователя прочитанными
func (f *Feed) MarkAllRead(ctx context.Context) error {
	f.mu.Lock()
	userID, token := f.userID, f.token
	f.mu.Unlock()

	if token == "" {
		return api.ErrAuthRequired
	}

	if err := f.source.MarkAllNotificationsRead(ctx, token, userID); err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}

	f.mu.Lock()
	for key, ev := range f.events {
		ev.Read = true
		f.events[key] = ev
	}
	snapshot := f.rebuildLocked()
	f.mu.Unlock()

	f.publish(snapshot)
	return nil
}

// handleNotification добавляет push-уведомление без полной переагрегации
func (f *Feed) handleNotification(ev realtime.Event) {
	var event models.NotificationEvent
	if err := ev.Decode(&event); err != nil {
		f.logger.Warn("invalid notification payload", "error", err)
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = f.aggregator.clock.Now()
	}

	f.mu.Lock()
	if f.userID == "" {
		f.mu.Unlock()
		return
	}

	key := event.Key()
	if _, seen := f.events[key]; seen {
		f.mu.Unlock()
		f.logger.Debug("duplicate notification ignored", "key", key)
		return
	}
	f.events[key] = event
	snapshot := f.rebuildLocked()
	f.mu.Unlock()

	f.publish(snapshot)
}

// refreshAsync запускает Refresh вне goroutine чтения канала
func (f *Feed) refreshAsync(ctx context.Context) {
	f.mu.Lock()
	if f.cancel == nil || ctx.Err() != nil {
		f.mu.Unlock()
		return
	}
	f.wg.Add(1)
	f.mu.Unlock()

	go func() {
		defer f.wg.Done()
		f.Refresh(ctx)
	}()
}

// rebuildLocked пересчитывает список уведомлений. Требует f.mu.
func (f *Feed) rebuildLocked() Snapshot {
	list := make([]models.NotificationEvent, 0, len(f.events))
	unread := 0
	for _, ev := range f.events {
		list = append(list, ev)
		if !ev.Read {
			unread++
		}
	}

	// Новые сверху; при равном времени - стабильный порядок по ключу
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].Key() < list[j].Key()
	})

	f.snapshot.Notifications = list
	f.snapshot.UnreadNotifications = unread
	f.snapshot.UpdatedAt = f.aggregator.clock.Now()

	return cloneSnapshot(f.snapshot)
}

func (f *Feed) publish(snapshot Snapshot) {
	if f.onUpdate != nil {
		f.onUpdate(snapshot)
	}
}

func cloneSnapshot(s Snapshot) Snapshot {
	s.Chats = append([]ChatNotification(nil), s.Chats...)
	s.Notifications = append([]models.NotificationEvent(nil), s.Notifications...)
	return s
}
