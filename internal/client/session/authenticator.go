package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iudanet/mazadlive/internal/client/api"
	"github.com/iudanet/mazadlive/internal/validation"
	pkgapi "github.com/iudanet/mazadlive/pkg/api"
)

// Authenticator связывает backend auth endpoints со Store
type Authenticator struct {
	client api.ClientAPI
	store  *Store
	logger *slog.Logger
}

// NewAuthenticator создает Authenticator
func NewAuthenticator(client api.ClientAPI, store *Store, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Authenticator{
		client: client,
		store:  store,
		logger: logger,
	}
}

// VerifyOTP выполняет вход по телефону и коду и сохраняет сессию
func (a *Authenticator) VerifyOTP(ctx context.Context, phone, otp string) (State, error) {
	// Валидация входных данных
	if err := validation.ValidatePhone(phone); err != nil {
		return State{}, fmt.Errorf("invalid phone: %w", err)
	}
	if err := validation.ValidateOTP(otp); err != nil {
		return State{}, fmt.Errorf("invalid otp: %w", err)
	}

	// 1. Запрос к backend
	resp, err := a.client.VerifyOTP(ctx, pkgapi.VerifyOTPRequest{
		Phone: validation.NormalizePhone(phone),
		OTP:   otp,
	})
	if err != nil {
		return State{}, fmt.Errorf("sign in failed: %w", err)
	}

	// 2. Телефон не всегда возвращается backend
	user := resp.User
	if user.Phone == "" {
		user.Phone = validation.NormalizePhone(phone)
	}

	// 3. Сохраняем сессию
	if err := a.store.Login(ctx, user, resp.Session); err != nil {
		return State{}, err
	}

	return a.store.GetState(), nil
}

// RefreshTokens обменивает refresh token на новую пару и обновляет Store
func (a *Authenticator) RefreshTokens(ctx context.Context) error {
	state := a.store.GetState()
	if !state.IsLogged || state.Tokens.RefreshToken == "" {
		return api.ErrAuthRequired
	}

	tokens, err := a.client.Refresh(ctx, state.Tokens.RefreshToken)
	if err != nil {
		if api.IsUnauthorized(err) {
			// Refresh token отозван: сессия больше недействительна
			a.logger.Warn("refresh token rejected, logging out", "user_id", state.UserID())
			if logoutErr := a.store.Logout(ctx); logoutErr != nil {
				a.logger.Error("failed to clear rejected session", "error", logoutErr)
			}
		}
		return fmt.Errorf("token refresh failed: %w", err)
	}

	return a.store.Refresh(ctx, *tokens)
}
