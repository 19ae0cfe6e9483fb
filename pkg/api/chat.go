package api

import "time"

// ChatUser is a participant of a chat as returned by the backend.
type ChatUser struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Username  string `json:"username,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

// Chat is a conversation between the buyer and a seller.
type Chat struct {
	CreatedAt time.Time  `json:"createdAt"`
	ID        string     `json:"_id"`
	Users     []ChatUser `json:"users"`
}

// Message is a single chat message. Reciver keeps the backend field name.
type Message struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"_id"`
	ChatID    string    `json:"idChat"`
	Message   string    `json:"message"`
	Sender    string    `json:"sender"`
	Reciver   string    `json:"reciver"`
}
