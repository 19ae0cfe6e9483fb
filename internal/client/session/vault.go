package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iudanet/mazadlive/internal/client/storage"
	"github.com/iudanet/mazadlive/internal/crypto"
	"github.com/iudanet/mazadlive/internal/models"
)

// vaultSaltKey - ключ metadata, под которым хранится соль для деривации ключа
const vaultSaltKey = "vault_salt"

// Persister сохраняет и читает durable запись сессии
type Persister interface {
	Save(ctx context.Context, user models.User, tokens models.Tokens) error
	Load(ctx context.Context) (*storage.SessionRecord, error)
	Clear(ctx context.Context) error
}

// Vault is the encrypting layer between Store and the durable storage.
// With an empty secret tokens are stored as is.
type Vault struct {
	store  storage.Store
	sealer *crypto.Sealer
	secret string
	mu     sync.Mutex
}

var _ Persister = (*Vault)(nil)

// NewVault создает Vault поверх хранилища
func NewVault(store storage.Store, secret string) *Vault {
	return &Vault{
		store:  store,
		secret: secret,
	}
}

// Save шифрует токены (если задан секрет) и пишет одну запись
func (v *Vault) Save(ctx context.Context, user models.User, tokens models.Tokens) error {
	record := &storage.SessionRecord{
		User:    user,
		Tokens:  tokens,
		SavedAt: time.Now().UTC(),
	}

	if v.secret != "" {
		sealer, err := v.getSealer(ctx)
		if err != nil {
			return err
		}

		if record.Tokens.AccessToken, err = sealer.Seal(tokens.AccessToken); err != nil {
			return fmt.Errorf("failed to encrypt access token: %w", err)
		}
		if record.Tokens.RefreshToken, err = sealer.Seal(tokens.RefreshToken); err != nil {
			return fmt.Errorf("failed to encrypt refresh token: %w", err)
		}
		record.Sealed = true
	}

	return v.store.SaveSession(ctx, record)
}

// Load читает запись и расшифровывает токены.
// Ошибки расшифровки оборачиваются в storage.ErrCorruptSession.
func (v *Vault) Load(ctx context.Context) (*storage.SessionRecord, error) {
	record, err := v.store.LoadSession(ctx)
	if err != nil {
		return nil, err
	}

	if !record.Sealed {
		return record, nil
	}

	if v.secret == "" {
		return nil, fmt.Errorf("%w: record is sealed but no session secret configured", storage.ErrCorruptSession)
	}

	sealer, err := v.getSealer(ctx)
	if err != nil {
		return nil, err
	}

	access, err := sealer.Open(record.Tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: access token: %v", storage.ErrCorruptSession, err)
	}
	refresh, err := sealer.Open(record.Tokens.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh token: %v", storage.ErrCorruptSession, err)
	}

	record.Tokens = models.Tokens{AccessToken: access, RefreshToken: refresh}
	record.Sealed = false

	return record, nil
}

// Clear удаляет запись
func (v *Vault) Clear(ctx context.Context) error {
	return v.store.DeleteSession(ctx)
}

// getSealer лениво выводит ключ: соль читается из metadata или создается
func (v *Vault) getSealer(ctx context.Context) (*crypto.Sealer, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.sealer != nil {
		return v.sealer, nil
	}

	salt, err := v.store.GetMetadata(ctx, vaultSaltKey)
	if err != nil {
		if !errors.Is(err, storage.ErrMetadataNotFound) {
			return nil, fmt.Errorf("failed to read vault salt: %w", err)
		}

		// Первый запуск: генерируем и сохраняем соль
		if salt, err = crypto.GenerateSalt(); err != nil {
			return nil, err
		}
		if err := v.store.SaveMetadata(ctx, vaultSaltKey, salt); err != nil {
			return nil, fmt.Errorf("failed to save vault salt: %w", err)
		}
	}

	key, err := crypto.DeriveKey(v.secret, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive vault key: %w", err)
	}

	sealer, err := crypto.NewSealer(key)
	if err != nil {
		return nil, err
	}

	v.sealer = sealer
	return sealer, nil
}
