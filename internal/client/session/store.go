// Package session holds the process-wide authentication state that gates
// the realtime channel and the bid poller.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/mazadlive/internal/client/api"
	"github.com/iudanet/mazadlive/internal/client/storage"
	"github.com/iudanet/mazadlive/internal/models"
	"github.com/iudanet/mazadlive/internal/token"
)

// ErrClosed возвращается мутациями после Close
var ErrClosed = errors.New("session store is closed")

// Store - единственный источник состояния авторизации.
// Записи сериализуются мьютексом, чтения возвращают копии.
type Store struct {
	persister Persister
	logger    *slog.Logger
	subs      map[int]chan State
	state     State
	nextSub   int
	initOnce  sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewStore создает Store в неинициализированном состоянии (IsReady=false)
func NewStore(persister Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		persister: persister,
		logger:    logger,
		subs:      make(map[int]chan State),
	}
}

// InitializeAuth загружает сохраненную сессию ровно один раз.
// Повторные и конкурентные вызовы ждут первый и возвращают тот же результат.
// Поврежденное хранилище трактуется как отсутствие сессии.
func (s *Store) InitializeAuth(ctx context.Context) State {
	s.initOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		next := State{IsReady: true}

		// Закрытый Store не читает хранилище, но становится готовым (logged-out)
		if s.closed {
			s.state = next
			return
		}

		record, err := s.persister.Load(ctx)
		switch {
		case err == nil:
			next = stateFromRecord(record.User, record.Tokens)
		case errors.Is(err, storage.ErrSessionNotFound):
			s.logger.Debug("no persisted session")
		default:
			// Fail open: состояние logged-out, ошибку только логируем
			s.logger.Warn("failed to load persisted session, continuing logged out", "error", err)
		}

		s.setLocked(next)
	})

	return s.GetState()
}

// GetState возвращает снимок текущего состояния
func (s *Store) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.clone()
}

// Login сохраняет пользователя и токены одной записью и переводит Store в logged-in.
// При ошибке сохранения состояние в памяти не меняется.
func (s *Store) Login(ctx context.Context, user models.User, tokens models.Tokens) error {
	if !tokens.Valid() {
		return fmt.Errorf("login requires an access token: %w", api.ErrAuthRequired)
	}

	next := stateFromRecord(user, tokens)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if err := s.persister.Save(ctx, *next.User, *next.Tokens); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.setLocked(next)
	s.logger.Info("session logged in", "user_id", next.UserID())

	return nil
}

// Refresh заменяет токены текущей сессии
func (s *Store) Refresh(ctx context.Context, tokens models.Tokens) error {
	if !tokens.Valid() {
		return fmt.Errorf("refresh requires an access token: %w", api.ErrAuthRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if !s.state.IsLogged {
		return api.ErrAuthRequired
	}

	next := stateFromRecord(*s.state.User, tokens)
	if err := s.persister.Save(ctx, *next.User, *next.Tokens); err != nil {
		return fmt.Errorf("failed to persist refreshed tokens: %w", err)
	}

	s.setLocked(next)
	s.logger.Debug("session tokens refreshed", "user_id", next.UserID())

	return nil
}

// Logout очищает хранилище и переводит Store в logged-out
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if err := s.persister.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear persisted session: %w", err)
	}

	userID := s.state.UserID()
	s.setLocked(State{IsReady: true})
	s.logger.Info("session logged out", "user_id", userID)

	return nil
}

// Subscribe возвращает канал, в котором всегда лежит последнее состояние.
// Текущее состояние отправляется сразу. cancel закрывает канал.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.state.clone()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			if sub, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(sub)
			}
		})
	}

	return ch, cancel
}

// Close закрывает все подписки; последующие мутации вернут ErrClosed
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}

	return nil
}

// setLocked применяет новое состояние и уведомляет подписчиков. Требует s.mu.
func (s *Store) setLocked(next State) {
	s.state = next

	for _, ch := range s.subs {
		snapshot := next.clone()
		select {
		case ch <- snapshot:
		default:
			// Канал полон: заменяем устаревшее значение
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}

// stateFromRecord строит logged-in состояние; user id и exp берутся из JWT при наличии
func stateFromRecord(user models.User, tokens models.Tokens) State {
	if !tokens.Valid() {
		return State{IsReady: true}
	}

	state := State{
		User:     &user,
		Tokens:   &tokens,
		IsLogged: true,
		IsReady:  true,
	}

	// Backend токены - JWT; непрозрачные токены просто не дают exp
	if claims, err := token.Parse(tokens.AccessToken); err == nil {
		state.ExpiresAt = claims.Expiry()
		if state.User.ID == "" {
			state.User.ID = claims.Subject()
		}
	}

	return state
}
