// Package token reads claims from backend-issued access tokens.
// The signature is verified by the backend; the client only needs
// expiry and subject to decide when to refresh or reject early.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrExpired возвращается Check для просроченного токена
var ErrExpired = errors.New("access token expired")

// Claims представляет claims access token backend
type Claims struct {
	UserID string `json:"id,omitempty"`
	jwt.RegisteredClaims
}

// Subject возвращает идентификатор пользователя: sub, иначе id
func (c *Claims) Subject() string {
	if c.RegisteredClaims.Subject != "" {
		return c.RegisteredClaims.Subject
	}
	return c.UserID
}

// Expiry возвращает время истечения или нулевое время, если exp отсутствует
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Parse разбирает JWT без проверки подписи
func Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return claims, nil
}

// Check проверяет, что токен разбирается и не просрочен на момент now.
// Токены без exp считаются действительными.
func Check(tokenString string, now time.Time) (*Claims, error) {
	claims, err := Parse(tokenString)
	if err != nil {
		return nil, err
	}

	exp := claims.Expiry()
	if !exp.IsZero() && !now.Before(exp) {
		return claims, ErrExpired
	}

	return claims, nil
}
