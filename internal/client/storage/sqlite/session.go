package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/mazadlive/internal/client/storage"
)

// SaveSession upserts the single session row
func (s *Storage) SaveSession(ctx context.Context, record *storage.SessionRecord) error {
	if record == nil {
		return fmt.Errorf("session record is nil")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}

	query := `
		INSERT INTO session (key, payload, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at
	`

	if _, err := s.db.ExecContext(ctx, query, storage.SessionKey, payload, record.SavedAt.UTC()); err != nil {
		return fmt.Errorf("failed to save session record: %w", err)
	}

	return nil
}

// LoadSession retrieves the session row
func (s *Storage) LoadSession(ctx context.Context) (*storage.SessionRecord, error) {
	var payload []byte

	err := s.db.QueryRowContext(ctx, `SELECT payload FROM session WHERE key = ?`, storage.SessionKey).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session record: %w", err)
	}

	record := &storage.SessionRecord{}
	if err := json.Unmarshal(payload, record); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCorruptSession, err)
	}

	return record, nil
}

// DeleteSession removes the session row
func (s *Storage) DeleteSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, storage.SessionKey); err != nil {
		return fmt.Errorf("failed to delete session record: %w", err)
	}
	return nil
}
