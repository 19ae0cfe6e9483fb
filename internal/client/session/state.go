package session

import (
	"time"

	"github.com/iudanet/mazadlive/internal/models"
)

// State - снимок состояния сессии. Возвращается копией, изменение полей
// не влияет на Store.
type State struct {
	ExpiresAt time.Time
	User      *models.User
	Tokens    *models.Tokens
	IsLogged  bool
	IsReady   bool
}

// UserID возвращает идентификатор текущего пользователя или ""
func (s State) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// AccessToken возвращает access token или ""
func (s State) AccessToken() string {
	if s.Tokens == nil {
		return ""
	}
	return s.Tokens.AccessToken
}

// Expired сообщает, истек ли access token на момент now.
// Токен без exp не считается просроченным.
func (s State) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// clone делает глубокую копию указателей
func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	if s.Tokens != nil {
		t := *s.Tokens
		s.Tokens = &t
	}
	return s
}
