package models

import (
	"fmt"
	"strings"
	"time"
)

// NotificationType is the typed kind of a backend push notification.
type NotificationType string

const (
	NotificationBidWon          NotificationType = "BID_WON"
	NotificationOfferAccepted   NotificationType = "OFFER_ACCEPTED"
	NotificationMessageReceived NotificationType = "MESSAGE_RECEIVED"
	NotificationChatCreated     NotificationType = "CHAT_CREATED"
	NotificationBidPlaced       NotificationType = "BID_PLACED"
	NotificationOutbid          NotificationType = "OUTBID"
)

// NotificationEvent represents a notification delivered by the realtime channel
// or returned by the notification list endpoint. It is immutable once received.
type NotificationEvent struct {
	CreatedAt time.Time        `json:"createdAt"`
	Data      map[string]any   `json:"data,omitempty"`
	ID        string           `json:"id,omitempty"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	UserID    string           `json:"userId,omitempty"`
	Read      bool             `json:"read"`
}

// Key returns the identity of the event: its id, or "type:title" when the
// backend did not assign one.
func (e *NotificationEvent) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return fmt.Sprintf("%s:%s", e.Type, strings.TrimSpace(e.Title))
}

// DataString returns a string field of the opaque payload, or "" when absent
// or not a string.
func (e *NotificationEvent) DataString(field string) string {
	if e.Data == nil {
		return ""
	}
	v, ok := e.Data[field].(string)
	if !ok {
		return ""
	}
	return v
}
