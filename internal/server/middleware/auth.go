package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/iudanet/mazadlive/internal/server/handlers"
	"github.com/iudanet/mazadlive/internal/token"
)

// BearerMiddleware принимает необязательный заголовок Authorization.
// Токен из заголовка кладется в контекст; handlers используют его,
// если в теле запроса токена нет. Просроченный JWT отклоняется сразу.
func BearerMiddleware(logger *slog.Logger, clock clockwork.Clock) func(http.Handler) http.Handler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, tokenString, ok := strings.Cut(authHeader, " ")
			tokenString = strings.TrimSpace(tokenString)
			if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				logger.WarnContext(r.Context(), "Invalid Authorization header format")
				writeError(w, "unauthorized: invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := token.Check(tokenString, clock.Now())
			if errors.Is(err, token.ErrExpired) {
				logger.WarnContext(r.Context(), "Expired access token", "user_id", claims.Subject())
				writeError(w, "unauthorized: token expired", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(handlers.WithAccessToken(r.Context(), tokenString)))
		})
	}
}
