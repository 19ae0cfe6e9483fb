package storage

import (
	"context"
	"time"

	"github.com/iudanet/mazadlive/internal/models"
)

// SessionKey is the well-known key the durable session record lives under.
const SessionKey = "session"

// SessionStorage defines interface for the durable client session record.
// Implementations must write user and tokens in a single atomic operation:
// either both are stored or neither.
type SessionStorage interface {
	// SaveSession replaces the persisted record
	SaveSession(ctx context.Context, record *SessionRecord) error

	// LoadSession returns the persisted record.
	// Returns ErrSessionNotFound if nothing is stored and ErrCorruptSession
	// (wrapped) if the payload cannot be decoded.
	LoadSession(ctx context.Context) (*SessionRecord, error)

	// DeleteSession clears the record. Deleting a missing record is not an error.
	DeleteSession(ctx context.Context) error

	// Close releases the underlying database
	Close() error
}

// SessionRecord is the single durable record holding { user, tokens }.
// When Sealed is true both tokens are base64 AES-GCM ciphertext.
type SessionRecord struct {
	SavedAt time.Time     `json:"savedAt"`
	User    models.User   `json:"user"`
	Tokens  models.Tokens `json:"tokens"`
	Sealed  bool          `json:"sealed,omitempty"`
}
