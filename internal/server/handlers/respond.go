// Package handlers реализует HTTP маршруты proxy поверх backend MazadClick.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/iudanet/mazadlive/internal/client/api"
	"github.com/iudanet/mazadlive/internal/token"
	pkgapi "github.com/iudanet/mazadlive/pkg/api"
)

type contextKey string

// AccessTokenKey - ключ контекста для Bearer токена из заголовка Authorization
const AccessTokenKey contextKey = "access_token"

// maxBodySize ограничивает размер JSON тела запроса
const maxBodySize = 1 << 20

// errInvalidBody возвращается decodeBody для неразбираемого JSON
var errInvalidBody = errors.New("invalid request body")

// WithAccessToken кладет токен в контекст запроса
func WithAccessToken(ctx context.Context, accessToken string) context.Context {
	return context.WithValue(ctx, AccessTokenKey, accessToken)
}

// accessToken возвращает токен из тела, иначе из заголовка Authorization
func accessToken(r *http.Request, fromBody string) string {
	if t := strings.TrimSpace(fromBody); t != "" {
		return t
	}
	t, _ := r.Context().Value(AccessTokenKey).(string)
	return t
}

// checkToken отклоняет пустой или просроченный JWT.
// Непрозрачные (не JWT) токены пропускаются: их проверяет backend.
func checkToken(accessToken string, now time.Time) error {
	if accessToken == "" {
		return api.ErrAuthRequired
	}
	if _, err := token.Check(accessToken, now); errors.Is(err, token.ErrExpired) {
		return err
	}
	return nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidBody
	}
	return nil
}

// responder - общие методы ответа для всех handlers
type responder struct {
	logger *slog.Logger
}

// sendJSON отправляет JSON ответ
func (h responder) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendSuccess отправляет {success, message, data}
func (h responder) sendSuccess(w http.ResponseWriter, message string, data any) {
	h.sendJSON(w, pkgapi.Envelope{Success: true, Message: message, Data: data}, http.StatusOK)
}

// sendError отправляет JSON ответ с ошибкой
func (h responder) sendError(w http.ResponseWriter, message string, statusCode int) {
	h.sendJSON(w, pkgapi.ErrorResponse{Error: message}, statusCode)
}

// sendUpstreamError переводит ошибку вызова backend в HTTP статус:
// ErrAuthRequired и просроченный токен - 401, StatusError - статус backend, иначе 500.
func (h responder) sendUpstreamError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	var statusErr *api.StatusError

	switch {
	case errors.Is(err, api.ErrAuthRequired), errors.Is(err, token.ErrExpired):
		h.logger.WarnContext(ctx, op+": unauthorized", slog.Any("error", err))
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
	case errors.As(err, &statusErr):
		h.logger.WarnContext(ctx, op+": backend rejected request",
			slog.Int("status", statusErr.StatusCode),
			slog.String("message", statusErr.Message))
		message := statusErr.Message
		if message == "" {
			message = http.StatusText(statusErr.StatusCode)
		}
		h.sendError(w, message, statusErr.StatusCode)
	default:
		h.logger.ErrorContext(ctx, op+": backend request failed", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
	}
}
