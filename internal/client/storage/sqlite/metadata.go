package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/mazadlive/internal/client/storage"
)

// SaveMetadata upserts a metadata value
func (s *Storage) SaveMetadata(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to save metadata %q: %w", key, err)
	}

	return nil
}

// GetMetadata retrieves a metadata value
func (s *Storage) GetMetadata(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrMetadataNotFound
		}
		return nil, fmt.Errorf("failed to get metadata %q: %w", key, err)
	}

	return value, nil
}
