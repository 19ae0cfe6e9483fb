package storage

import "context"

// MetadataStorage defines interface for small client-side key/value settings
// (vault salt, last login phone).
type MetadataStorage interface {
	// SaveMetadata stores value under key
	SaveMetadata(ctx context.Context, key string, value []byte) error

	// GetMetadata returns the value for key or ErrMetadataNotFound
	GetMetadata(ctx context.Context, key string) ([]byte, error)
}

// Store combines both client storage concerns; both backends implement it.
type Store interface {
	SessionStorage
	MetadataStorage
}
