package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/mazadlive/internal/client/notifications"
)

// NotificationOptions - флаги команды notifications
type NotificationOptions struct {
	MarkRead string
	MarkAll  bool
}

func (c *Cli) runNotifications(ctx context.Context, opts NotificationOptions) error {
	state, err := c.requireSession(ctx)
	if err != nil {
		return err
	}
	token, userID := state.AccessToken(), state.UserID()

	// 1. Отметки о прочтении выполняются до загрузки списка
	if opts.MarkRead != "" {
		if err := c.apiClient.MarkNotificationRead(ctx, token, opts.MarkRead); err != nil {
			return fmt.Errorf("failed to mark notification read: %w", err)
		}
		c.render.Toast("Notification marked as read")
	}
	if opts.MarkAll {
		if err := c.apiClient.MarkAllNotificationsRead(ctx, token, userID); err != nil {
			return fmt.Errorf("failed to mark all notifications read: %w", err)
		}
		c.render.Toast("All notifications marked as read")
	}

	// 2. Агрегация чатов; ошибки деградируют до пустого списка
	aggregator := notifications.NewAggregator(c.apiClient, nil, c.logger)
	result, err := aggregator.Aggregate(ctx, userID, token)
	if err != nil {
		c.logger.Warn("chat aggregation failed", "user_id", userID, "error", err)
	}

	// 3. Уведомления backend
	events, err := c.apiClient.ListNotifications(ctx, token, userID)
	if err != nil {
		c.logger.Warn("failed to list notifications", "user_id", userID, "error", err)
	}

	snapshot := notifications.Snapshot{
		UpdatedAt:   time.Now(),
		Chats:       result.Items,
		TotalUnread: result.TotalUnread,
	}
	for _, ev := range events {
		snapshot.Notifications = append(snapshot.Notifications, ev)
		if !ev.Read {
			snapshot.UnreadNotifications++
		}
	}

	c.render.Snapshot(snapshot)
	return nil
}
