package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/mazadlive/internal/client/api"
	"github.com/iudanet/mazadlive/internal/validation"
	pkgapi "github.com/iudanet/mazadlive/pkg/api"
)

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	backend api.ClientAPI
	responder
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, backend api.ClientAPI) *AuthHandler {
	return &AuthHandler{
		responder: responder{logger: logger},
		backend:   backend,
	}
}

// VerifyOTP обрабатывает POST /api/auth/verify-otp
// Вход по телефону и одноразовому коду
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Парсим request body
	var req pkgapi.VerifyOTPRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode verify-otp request", slog.Any("error", err))
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Валидация
	if err := validation.ValidatePhone(req.Phone); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateOTP(req.OTP); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	req.Phone = validation.NormalizePhone(req.Phone)
	req.OTP = strings.TrimSpace(req.OTP)

	resp, err := h.backend.VerifyOTP(ctx, req)
	if err != nil {
		h.sendUpstreamError(ctx, w, "verify otp", err)
		return
	}

	h.logger.InfoContext(ctx, "user signed in", slog.String("user_id", resp.User.ID))
	h.sendSuccess(w, "signed in", resp)
}

// Refresh обрабатывает POST /api/auth/refresh
// Обмен refresh token на новую пару
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req pkgapi.RefreshRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.RefreshToken) == "" {
		h.sendError(w, "refreshToken is required", http.StatusBadRequest)
		return
	}

	tokens, err := h.backend.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.sendUpstreamError(ctx, w, "refresh tokens", err)
		return
	}

	h.sendSuccess(w, "tokens refreshed", tokens)
}
