package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/mazadlive/internal/client/storage"
	"github.com/iudanet/mazadlive/internal/models"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	// Используем in-memory database для тестов
	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func TestSessionStorage(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	_, err := s.LoadSession(ctx)
	require.ErrorIs(t, err, storage.ErrSessionNotFound)

	first := &storage.SessionRecord{
		User:    models.User{ID: "u1", Phone: "+213555000111"},
		Tokens:  models.Tokens{AccessToken: "a1", RefreshToken: "r1"},
		SavedAt: time.Now(),
	}
	require.NoError(t, s.SaveSession(ctx, first))

	// Вторая запись заменяет первую, а не добавляет строку
	second := &storage.SessionRecord{
		User:    models.User{ID: "u1", Phone: "+213555000111"},
		Tokens:  models.Tokens{AccessToken: "a2", RefreshToken: "r2"},
		SavedAt: time.Now(),
		Sealed:  true,
	}
	require.NoError(t, s.SaveSession(ctx, second))

	var count int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM session`).Scan(&count))
	assert.Equal(t, 1, count)

	loaded, err := s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a2", loaded.Tokens.AccessToken)
	assert.Equal(t, "r2", loaded.Tokens.RefreshToken)
	assert.True(t, loaded.Sealed)

	require.NoError(t, s.DeleteSession(ctx))
	_, err = s.LoadSession(ctx)
	require.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestLoadSession_Corrupt(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	_, err := s.db.ExecContext(ctx, `INSERT INTO session (key, payload, saved_at) VALUES (?, ?, ?)`,
		storage.SessionKey, []byte("garbage"), time.Now().UTC())
	require.NoError(t, err)

	_, err = s.LoadSession(ctx)
	assert.ErrorIs(t, err, storage.ErrCorruptSession)
}

func TestMetadataStorage(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	_, err := s.GetMetadata(ctx, "vault_salt")
	require.ErrorIs(t, err, storage.ErrMetadataNotFound)

	require.NoError(t, s.SaveMetadata(ctx, "vault_salt", []byte("salt-1")))
	require.NoError(t, s.SaveMetadata(ctx, "vault_salt", []byte("salt-2")))

	value, err := s.GetMetadata(ctx, "vault_salt")
	require.NoError(t, err)
	assert.Equal(t, "salt-2", string(value))
}

func TestNew_FileDatabase(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "session.db")

	s, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, s.SaveMetadata(ctx, "k", []byte("v")))
	require.NoError(t, s.Close())

	// Миграции повторно не падают на существующей схеме
	reopened, err := New(ctx, dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()

	value, err := reopened.GetMetadata(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(value))
}
