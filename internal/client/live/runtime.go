// Package live starts and stops the realtime components as the session
// transitions between logged-in and logged-out.
package live

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/jonboulle/clockwork"

	"github.com/iudanet/mazadlive/internal/client/announce"
	"github.com/iudanet/mazadlive/internal/client/notifications"
	"github.com/iudanet/mazadlive/internal/client/realtime"
	"github.com/iudanet/mazadlive/internal/client/session"
)

// Channel - realtime соединение
type Channel interface {
	Connect(ctx context.Context, userID, accessToken string) error
	Close()
	Subscribe(event, key string, fn realtime.Handler) *realtime.Subscription
}

// Poller - периодическая проверка ставок
type Poller interface {
	Start(userID, accessToken string) error
	Stop()
}

// Feed - агрегированный список уведомлений
type Feed interface {
	Attach(ctx context.Context, ch notifications.Subscriber, userID, accessToken string) notifications.Snapshot
	Detach()
}

// Presenter - показ победы
type Presenter interface {
	Attach(ch announce.Subscriber)
	Detach()
	Reset()
}

// Refresher обновляет просроченные токены
type Refresher interface {
	RefreshTokens(ctx context.Context) error
}

// Components - управляемые компоненты; nil-компоненты пропускаются
type Components struct {
	Channel   Channel
	Poller    Poller
	Feed      Feed
	Presenter Presenter
	Refresher Refresher
}

// Runtime - scoped acquisition компонентов по состоянию сессии
type Runtime struct {
	store      *session.Store
	clock      clockwork.Clock
	logger     *slog.Logger
	components Components
	userID     string
	token      string
	active     atomic.Bool
}

// New создает Runtime
func New(store *session.Store, components Components, clock clockwork.Clock, logger *slog.Logger) *Runtime {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Runtime{
		store:      store,
		clock:      clock,
		logger:     logger,
		components: components,
	}
}

// Run инициализирует сессию и следит за ее переходами до отмены ctx.
// На любом пути выхода компоненты освобождаются.
func (r *Runtime) Run(ctx context.Context) error {
	r.store.InitializeAuth(ctx)

	updates, cancel := r.store.Subscribe()
	defer cancel()
	defer r.release()

	for {
		select {
		case <-ctx.Done():
			return nil
		case state, ok := <-updates:
			if !ok {
				// Store закрыт
				return nil
			}
			r.apply(ctx, state)
		}
	}
}

// Active сообщает, запущены ли компоненты
func (r *Runtime) Active() bool {
	return r.active.Load()
}

// apply приводит компоненты в соответствие состоянию
func (r *Runtime) apply(ctx context.Context, state session.State) {
	if !state.IsReady {
		return
	}

	if !state.IsLogged {
		if r.active.Load() {
			r.release()
			if p := r.components.Presenter; p != nil {
				p.Reset()
			}
		}
		return
	}

	if state.Expired(r.clock.Now()) && r.components.Refresher != nil {
		r.logger.Info("access token expired, refreshing", "user_id", state.UserID())
		err := r.components.Refresher.RefreshTokens(ctx)
		if err == nil {
			// Новое состояние придет через подписку
			return
		}
		r.logger.Warn("token refresh failed, continuing with current token", "user_id", state.UserID(), "error", err)
	}

	if r.active.Load() && r.userID == state.UserID() && r.token == state.AccessToken() {
		return
	}

	r.release()
	r.acquire(ctx, state.UserID(), state.AccessToken())
}

// acquire запускает компоненты: канал, подписчики, поллер
func (r *Runtime) acquire(ctx context.Context, userID, token string) {
	c := r.components

	if c.Channel != nil {
		if err := c.Channel.Connect(ctx, userID, token); err != nil {
			r.logger.Error("failed to start realtime channel", "user_id", userID, "error", err)
		}
		if c.Presenter != nil {
			c.Presenter.Attach(c.Channel)
		}
		if c.Feed != nil {
			c.Feed.Attach(ctx, c.Channel, userID, token)
		}
	}

	if c.Poller != nil {
		if err := c.Poller.Start(userID, token); err != nil {
			r.logger.Error("failed to start bid poller", "user_id", userID, "error", err)
		}
	}

	r.active.Store(true)
	r.userID = userID
	r.token = token

	r.logger.Info("live components started", "user_id", userID)
}

// release останавливает компоненты в обратном порядке
func (r *Runtime) release() {
	if !r.active.Load() {
		return
	}

	c := r.components
	if c.Poller != nil {
		c.Poller.Stop()
	}
	if c.Feed != nil {
		c.Feed.Detach()
	}
	if c.Presenter != nil {
		c.Presenter.Detach()
	}
	if c.Channel != nil {
		c.Channel.Close()
	}

	r.logger.Info("live components stopped", "user_id", r.userID)

	r.active.Store(false)
	r.userID = ""
	r.token = ""
}
