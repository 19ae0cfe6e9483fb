// Package notifications builds the unified notification list: chat-derived
// entries with unread counts and backend-pushed notification events.
package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	pkgapi "github.com/iudanet/mazadlive/pkg/api"
)

// ChatSource - часть backend API для чатов
type ChatSource interface {
	ListChats(ctx context.Context, accessToken, userID string) ([]pkgapi.Chat, error)
	ListMessages(ctx context.Context, accessToken, chatID string) ([]pkgapi.Message, error)
}

// ChatNotification - производная запись по одному чату
type ChatNotification struct {
	At      time.Time `json:"-"`
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Message string    `json:"message"`
	Time    string    `json:"time"`
	Avatar  string    `json:"avatar"`
	Unread  int       `json:"unread"`
}

// Result - итог одного прохода агрегации
type Result struct {
	Items       []ChatNotification `json:"items"`
	TotalUnread int                `json:"totalUnread"`
}

// Aggregator строит ChatNotification из чатов и сообщений
type Aggregator struct {
	source ChatSource
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewAggregator создает Aggregator. clock может быть nil.
func NewAggregator(source ChatSource, clock clockwork.Clock, logger *slog.Logger) *Aggregator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Aggregator{
		source: source,
		clock:  clock,
		logger: logger,
	}
}

// Aggregate загружает чаты пользователя и сообщения каждого чата.
// Ошибка загрузки сообщений одного чата дает ему ноль сообщений и не
// прерывает остальных. Ошибка списка чатов возвращается вызывающему.
func (a *Aggregator) Aggregate(ctx context.Context, userID, accessToken string) (Result, error) {
	// 1. Список чатов
	chats, err := a.source.ListChats(ctx, accessToken, userID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list chats: %w", err)
	}

	// 2. Fan-out: все запросы запускаются до ожидания
	messages := make([][]pkgapi.Message, len(chats))

	var g errgroup.Group

	for i, chat := range chats {
		g.Go(func() error {
			msgs, err := a.source.ListMessages(ctx, accessToken, chat.ID)
			if err != nil {
				a.logger.Warn("failed to list chat messages", "chat_id", chat.ID, "error", err)
				return nil
			}
			messages[i] = msgs
			return nil
		})
	}

	// 3. Fan-in: ошибки уже изолированы по чатам
	_ = g.Wait()

	// 4. Сборка результата в порядке списка чатов
	now := a.clock.Now()
	result := Result{Items: make([]ChatNotification, 0, len(chats))}

	for i, chat := range chats {
		item := buildChatNotification(chat, messages[i], userID, now)
		result.TotalUnread += item.Unread
		result.Items = append(result.Items, item)
	}

	return result, nil
}

// buildChatNotification вычисляет собеседника, последнее сообщение и unread.
// Unread - число сообщений с reciver == userID: это приближение,
// backend не отдает флаг прочтения.
func buildChatNotification(chat pkgapi.Chat, messages []pkgapi.Message, userID string, now time.Time) ChatNotification {
	item := ChatNotification{ID: chat.ID}

	if peer, ok := counterpart(chat.Users, userID); ok {
		item.Name = chatUserName(peer)
		item.Avatar = peer.Avatar
	}

	for _, m := range messages {
		if m.Reciver == userID {
			item.Unread++
		}
	}

	item.At = chat.CreatedAt
	if len(messages) > 0 {
		last := messages[len(messages)-1]
		item.Message = last.Message
		item.At = last.CreatedAt
	}
	item.Time = FormatDate(item.At, now)

	return item
}

// counterpart - первый участник с id != userID, иначе первый участник
func counterpart(users []pkgapi.ChatUser, userID string) (pkgapi.ChatUser, bool) {
	for _, u := range users {
		if u.ID != userID {
			return u, true
		}
	}
	if len(users) > 0 {
		return users[0], true
	}
	return pkgapi.ChatUser{}, false
}

func chatUserName(u pkgapi.ChatUser) string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}
