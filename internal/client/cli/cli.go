// Package cli реализует команды клиента mazadlive.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/mazadlive/internal/client/api"
	"github.com/iudanet/mazadlive/internal/client/iocli"
	"github.com/iudanet/mazadlive/internal/client/session"
	"github.com/iudanet/mazadlive/internal/client/storage"
	"github.com/iudanet/mazadlive/internal/client/storage/boltdb"
	"github.com/iudanet/mazadlive/internal/client/storage/sqlite"
	"github.com/iudanet/mazadlive/internal/config"
)

// ErrNotLoggedIn возвращается командами, которым нужна сессия
var ErrNotLoggedIn = errors.New("not logged in, run 'mazadlive login' first")

// Cli связывает конфигурацию, хранилище и сервисы для команд
type Cli struct {
	cfg       *config.Config
	io        iocli.IO
	logger    *slog.Logger
	storage   storage.Store
	apiClient *api.Client
	session   *session.Store
	auth      *session.Authenticator
	render    *Renderer
}

// New открывает хранилище и создает сервисы
func New(ctx context.Context, cfg *config.Config, stdio iocli.IO, logger *slog.Logger) (*Cli, error) {
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	apiClient := api.NewClient(cfg.BackendURL, cfg.APIKey)
	sessionStore := session.NewStore(session.NewVault(store, cfg.SessionSecret), logger)

	return &Cli{
		cfg:       cfg,
		io:        stdio,
		logger:    logger,
		storage:   store,
		apiClient: apiClient,
		session:   sessionStore,
		auth:      session.NewAuthenticator(apiClient, sessionStore, logger),
		render:    NewRenderer(stdio),
	}, nil
}

// Close закрывает Store сессии и хранилище
func (c *Cli) Close() error {
	return errors.Join(c.session.Close(), c.storage.Close())
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		s, err := sqlite.New(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return s, nil
	default:
		s, err := boltdb.New(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return s, nil
	}
}

// requireSession загружает сессию и обновляет просроченный access token
func (c *Cli) requireSession(ctx context.Context) (session.State, error) {
	state := c.session.InitializeAuth(ctx)
	if !state.IsLogged {
		return state, ErrNotLoggedIn
	}

	if !state.Expired(c.render.now()) {
		return state, nil
	}

	c.logger.Debug("access token expired, refreshing", "user_id", state.UserID())
	if err := c.auth.RefreshTokens(ctx); err != nil {
		if api.IsUnauthorized(err) {
			return session.State{}, ErrNotLoggedIn
		}
		return session.State{}, fmt.Errorf("failed to refresh session: %w", err)
	}

	return c.session.GetState(), nil
}
