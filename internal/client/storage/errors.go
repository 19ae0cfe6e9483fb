package storage

import "errors"

// Common client storage errors
var (
	// ErrSessionNotFound indicates that no session record is persisted
	ErrSessionNotFound = errors.New("session record not found")

	// ErrCorruptSession indicates that the persisted record cannot be decoded
	ErrCorruptSession = errors.New("session record is corrupt")

	// ErrMetadataNotFound indicates that a metadata key is absent
	ErrMetadataNotFound = errors.New("metadata not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
