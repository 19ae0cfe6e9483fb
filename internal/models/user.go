package models

import "strings"

// User представляет покупателя, под которым открыта сессия
type User struct {
	ID        string `json:"_id"`                 // идентификатор пользователя на backend
	FirstName string `json:"firstName,omitempty"` // имя
	LastName  string `json:"lastName,omitempty"`  // фамилия
	Username  string `json:"username,omitempty"`  // username (может отсутствовать)
	Phone     string `json:"phone,omitempty"`     // номер телефона, по которому выполнен вход
	Email     string `json:"email,omitempty"`
	Avatar    string `json:"avatar,omitempty"` // URL аватара
}

// DisplayName returns "First Last", falling back to the username and then the phone.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Phone
}

// Tokens содержит пару bearer токенов сессии
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Valid reports whether an access token is present.
func (t *Tokens) Valid() bool {
	return t != nil && t.AccessToken != ""
}
