package api

import "github.com/iudanet/mazadlive/internal/models"

// VerifyOTPRequest представляет запрос на вход по номеру телефона и одноразовому коду
type VerifyOTPRequest struct {
	Phone string `json:"phone"` // номер телефона в международном формате
	OTP   string `json:"otp"`   // одноразовый код из SMS
}

// SignInResponse представляет ответ backend на успешный вход
type SignInResponse struct {
	User    models.User   `json:"user"`
	Session models.Tokens `json:"session"`
}

// RefreshRequest представляет запрос на обновление пары токенов
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// Envelope is the success shape returned by the proxy routes.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Success bool   `json:"success"`
}
