package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/iudanet/mazadlive/internal/client/api"
	"github.com/iudanet/mazadlive/internal/client/notifications"
	"github.com/iudanet/mazadlive/internal/models"
	"github.com/iudanet/mazadlive/internal/validation"
	pkgapi "github.com/iudanet/mazadlive/pkg/api"
)

// NotificationsHandler проксирует уведомления и агрегирует чаты
type NotificationsHandler struct {
	backend    api.ClientAPI
	aggregator *notifications.Aggregator
	clock      clockwork.Clock
	responder
}

// NewNotificationsHandler создает NotificationsHandler
func NewNotificationsHandler(logger *slog.Logger, backend api.ClientAPI, clock clockwork.Clock) *NotificationsHandler {
	return &NotificationsHandler{
		responder:  responder{logger: logger},
		backend:    backend,
		aggregator: notifications.NewAggregator(backend, clock, logger),
		clock:      clock,
	}
}

// userRequest разбирает и проверяет {userId, token}; при ошибке ответ уже отправлен
func (h *NotificationsHandler) userRequest(w http.ResponseWriter, r *http.Request, op string) (userID, tok string, ok bool) {
	var req pkgapi.UserTokenRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return "", "", false
	}

	if err := validation.ValidateID("userId", req.UserID); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return "", "", false
	}

	tok = accessToken(r, req.Token)
	if err := checkToken(tok, h.clock.Now()); err != nil {
		h.sendUpstreamError(r.Context(), w, op, err)
		return "", "", false
	}

	return req.UserID, tok, true
}

// List обрабатывает POST /api/notifications
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, tok, ok := h.userRequest(w, r, "list notifications")
	if !ok {
		return
	}

	events, err := h.backend.ListNotifications(r.Context(), tok, userID)
	if err != nil {
		h.sendUpstreamError(r.Context(), w, "list notifications", err)
		return
	}
	if events == nil {
		events = []models.NotificationEvent{}
	}

	h.sendSuccess(w, "", events)
}

// MarkRead обрабатывает POST /api/notifications/read
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req pkgapi.MarkReadRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validation.ValidateID("notificationId", req.NotificationID); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	tok := accessToken(r, req.Token)
	if err := checkToken(tok, h.clock.Now()); err != nil {
		h.sendUpstreamError(ctx, w, "mark notification read", err)
		return
	}

	if err := h.backend.MarkNotificationRead(ctx, tok, req.NotificationID); err != nil {
		h.sendUpstreamError(ctx, w, "mark notification read", err)
		return
	}

	h.sendSuccess(w, "notification marked as read", nil)
}

// MarkAllRead обрабатывает POST /api/notifications/read-all
func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, tok, ok := h.userRequest(w, r, "mark all notifications read")
	if !ok {
		return
	}

	if err := h.backend.MarkAllNotificationsRead(r.Context(), tok, userID); err != nil {
		h.sendUpstreamError(r.Context(), w, "mark all notifications read", err)
		return
	}

	h.sendSuccess(w, "all notifications marked as read", nil)
}

// Chats обрабатывает POST /api/notifications/chats.
// Частичные сбои загрузки сообщений деградируют до нуля сообщений в чате.
func (h *NotificationsHandler) Chats(w http.ResponseWriter, r *http.Request) {
	userID, tok, ok := h.userRequest(w, r, "aggregate chats")
	if !ok {
		return
	}

	result, err := h.aggregator.Aggregate(r.Context(), userID, tok)
	if err != nil {
		h.sendUpstreamError(r.Context(), w, "aggregate chats", err)
		return
	}

	h.sendSuccess(w, "", result)
}
