package realtime

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Имена событий, которые публикует backend
const (
	EventNotification = "notification"
	EventNewMessage   = "newMessage"
	EventMessageRead  = "messageRead"
)

// Event - один кадр realtime канала
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Decode разбирает Data в v
func (e Event) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("event %q has no data", e.Name)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("failed to decode %q event: %w", e.Name, err)
	}
	return nil
}

// Handler обрабатывает событие; вызывается из goroutine чтения
type Handler func(Event)

// Subscription - handle одной регистрации обработчика
type Subscription struct {
	registry *Registry
	fn       Handler
	event    string
	key      string
	once     sync.Once
}

// Event возвращает имя события подписки
func (s *Subscription) Event() string {
	return s.event
}

// Key возвращает ключ идентичности обработчика
func (s *Subscription) Key() string {
	return s.key
}

// Unsubscribe удаляет только эту регистрацию. Повторный вызов ничего не делает.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.registry.remove(s)
	})
}

// Registry хранит подписчиков по имени события.
// Живет отдельно от соединения, поэтому подписки переживают reconnect.
type Registry struct {
	logger   *slog.Logger
	handlers map[string]map[string]*Subscription
	mu       sync.RWMutex
}

// NewRegistry создает пустой реестр
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		logger:   logger,
		handlers: make(map[string]map[string]*Subscription),
	}
}

// Subscribe регистрирует fn для event под ключом key.
// Регистрация с тем же key на том же event сначала снимает предыдущую.
// Пустой key означает анонимную подписку с уникальным ключом.
func (r *Registry) Subscribe(event, key string, fn Handler) *Subscription {
	if key == "" {
		key = uuid.NewString()
	}

	sub := &Subscription{
		registry: r,
		fn:       fn,
		event:    event,
		key:      key,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	subs, ok := r.handlers[event]
	if !ok {
		subs = make(map[string]*Subscription)
		r.handlers[event] = subs
	}

	if _, exists := subs[key]; exists {
		r.logger.Debug("replacing realtime subscription", "event", event, "key", key)
	}
	subs[key] = sub

	return sub
}

// remove удаляет sub, если она все еще актуальна для своего ключа
func (r *Registry) remove(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, ok := r.handlers[sub.event]
	if !ok {
		return
	}

	// Ключ мог быть перерегистрирован: старый handle не трогает новую подписку
	if current, ok := subs[sub.key]; ok && current == sub {
		delete(subs, sub.key)
	}

	if len(subs) == 0 {
		delete(r.handlers, sub.event)
	}
}

// Dispatch вызывает всех подписчиков события.
// Список снимается под RLock, обработчики вызываются без блокировки.
func (r *Registry) Dispatch(ev Event) int {
	r.mu.RLock()
	subs := make([]*Subscription, 0, len(r.handlers[ev.Name]))
	for _, sub := range r.handlers[ev.Name] {
		subs = append(subs, sub)
	}
	r.mu.RUnlock()

	for _, sub := range subs {
		r.invoke(sub, ev)
	}

	return len(subs)
}

// invoke изолирует панику одного обработчика от остальных
func (r *Registry) invoke(sub *Subscription, ev Event) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("realtime handler panic", "event", ev.Name, "key", sub.key, "panic", rec)
		}
	}()

	sub.fn(ev)
}

// Counts возвращает количество подписчиков по событиям
func (r *Registry) Counts() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int, len(r.handlers))
	for event, subs := range r.handlers {
		counts[event] = len(subs)
	}
	return counts
}
