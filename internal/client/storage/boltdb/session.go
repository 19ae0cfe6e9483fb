package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/mazadlive/internal/client/storage"
)

var sessionKey = []byte(storage.SessionKey)

// SaveSession stores the session record in one transaction
func (s *Storage) SaveSession(ctx context.Context, record *storage.SessionRecord) error {
	if record == nil {
		return fmt.Errorf("session record is nil")
	}

	// Сериализуем до открытия транзакции
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}

		if err := bucket.Put(sessionKey, data); err != nil {
			return fmt.Errorf("failed to save session record: %w", err)
		}

		return nil
	})
}

// LoadSession retrieves the stored session record
func (s *Storage) LoadSession(ctx context.Context) (*storage.SessionRecord, error) {
	var data []byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}

		raw := bucket.Get(sessionKey)
		if raw == nil {
			return storage.ErrSessionNotFound
		}

		// Значение валидно только внутри транзакции, копируем
		data = make([]byte, len(raw))
		copy(data, raw)
		return nil
	})
	if err != nil {
		return nil, err
	}

	record := &storage.SessionRecord{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCorruptSession, err)
	}

	return record, nil
}

// DeleteSession removes stored session record (logout)
func (s *Storage) DeleteSession(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}

		if err := bucket.Delete(sessionKey); err != nil {
			return fmt.Errorf("failed to delete session record: %w", err)
		}

		return nil
	})
}
