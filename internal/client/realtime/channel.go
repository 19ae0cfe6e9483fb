// Package realtime keeps one WebSocket connection to the backend notification
// service per logged-in session and fans incoming events out to subscribers.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"

	"github.com/iudanet/mazadlive/internal/client/api"
)

// Config holds connection settings for the realtime channel
type Config struct {
	URL              string
	APIKey           string
	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	PingInterval     time.Duration
	InitialBackoff   time.Duration
	MaxBackoff       time.Duration
	MaxMessageSize   int64
}

// DefaultConfig returns default realtime settings
func DefaultConfig(rawURL, apiKey string) Config {
	return Config{
		URL:              rawURL,
		APIKey:           apiKey,
		HandshakeTimeout: 10 * time.Second,
		ReadTimeout:      60 * time.Second,
		WriteTimeout:     10 * time.Second,
		PingInterval:     25 * time.Second,
		InitialBackoff:   500 * time.Millisecond,
		MaxBackoff:       30 * time.Second,
		MaxMessageSize:   64 * 1024,
	}
}

// Stats - снимок состояния канала
type Stats struct {
	Subscribers map[string]int
	UserID      string
	Reconnects  int64
	Dropped     int64
	Connected   bool
}

// Channel - realtime соединение текущей сессии
type Channel struct {
	registry   *Registry
	logger     *slog.Logger
	dialer     *websocket.Dialer
	cancel     context.CancelFunc
	done       chan struct{}
	userID     string
	cfg        Config
	reconnects atomic.Int64
	dropped    atomic.Int64
	mu         sync.Mutex
	connected  atomic.Bool
}

// NewChannel создает канал. Подключение выполняет Connect.
func NewChannel(cfg Config, logger *slog.Logger) *Channel {
	if logger == nil {
		logger = slog.Default()
	}

	defaults := DefaultConfig(cfg.URL, cfg.APIKey)
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaults.HandshakeTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaults.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaults.PingInterval
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaults.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaults.MaxBackoff
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = defaults.MaxMessageSize
	}

	return &Channel{
		cfg:      cfg,
		registry: NewRegistry(logger),
		logger:   logger,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
	}
}

// Subscribe регистрирует обработчик события. См. Registry.Subscribe.
// fn выполняется в goroutine чтения: см. ограничение у Close.
func (c *Channel) Subscribe(event, key string, fn Handler) *Subscription {
	return c.registry.Subscribe(event, key, fn)
}

// Connect запускает фоновое соединение для пользователя.
// Повторный вызов для того же пользователя ничего не делает,
// для другого пользователя сначала закрывает текущее соединение.
func (c *Channel) Connect(ctx context.Context, userID, accessToken string) error {
	if accessToken == "" {
		return api.ErrAuthRequired
	}
	if userID == "" {
		return fmt.Errorf("realtime connect requires a user id")
	}

	c.mu.Lock()
	if c.cancel != nil && c.userID == userID {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	c.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	c.done = make(chan struct{})
	c.userID = userID

	go c.run(runCtx, c.done, userID, accessToken)

	c.logger.Info("realtime channel started", "user_id", userID)
	return nil
}

// Close немедленно разрывает соединение и ждет остановки goroutine.
// Подписки сохраняются в реестре.
// Обработчики событий вызываются из goroutine чтения и не должны вызывать
// Close (или Connect) синхронно: Close ждет ее завершения. Из обработчика
// нужно запускать go ch.Close().
func (c *Channel) Close() {
	c.mu.Lock()
	cancel, done, userID := c.cancel, c.done, c.userID
	c.cancel, c.done, c.userID = nil, nil, ""
	c.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done

	c.logger.Info("realtime channel closed", "user_id", userID)
}

// Connected сообщает, установлено ли соединение сейчас
func (c *Channel) Connected() bool {
	return c.connected.Load()
}

// Stats возвращает статистику канала
func (c *Channel) Stats() Stats {
	c.mu.Lock()
	userID := c.userID
	c.mu.Unlock()

	return Stats{
		Subscribers: c.registry.Counts(),
		UserID:      userID,
		Reconnects:  c.reconnects.Load(),
		Dropped:     c.dropped.Load(),
		Connected:   c.connected.Load(),
	}
}

// run держит соединение, переподключаясь с экспоненциальной задержкой
func (c *Channel) run(ctx context.Context, done chan struct{}, userID, accessToken string) {
	defer close(done)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.InitialBackoff
	policy.MaxInterval = c.cfg.MaxBackoff

	for attempt := 0; ; attempt++ {
		conn, err := backoff.Retry(ctx, func() (*websocket.Conn, error) {
			return c.dial(ctx, userID, accessToken)
		},
			backoff.WithBackOff(policy),
			backoff.WithMaxElapsedTime(0),
			backoff.WithNotify(func(err error, next time.Duration) {
				c.logger.Warn("realtime dial failed, retrying", "user_id", userID, "error", err, "next_retry", next)
			}),
		)
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Error("realtime channel stopped", "user_id", userID, "error", err)
			}
			return
		}

		policy.Reset()
		if attempt > 0 {
			c.reconnects.Add(1)
		}

		c.connected.Store(true)
		c.logger.Debug("realtime connected", "user_id", userID)

		err = c.readLoop(ctx, conn)
		c.connected.Store(false)

		if ctx.Err() != nil {
			return
		}

		// События за время разрыва не буферизуются
		c.logger.Warn("realtime connection lost, reconnecting", "user_id", userID, "error", err)
	}
}

// dial устанавливает WebSocket соединение
func (c *Channel) dial(ctx context.Context, userID, accessToken string) (*websocket.Conn, error) {
	target, err := url.Parse(c.cfg.URL)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("invalid realtime url: %w", err))
	}
	q := target.Query()
	q.Set("userId", userID)
	target.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+accessToken)
	if c.cfg.APIKey != "" {
		header.Set(api.APIKeyHeader, c.cfg.APIKey)
	}

	conn, resp, err := c.dialer.DialContext(ctx, target.String(), header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			// Токен отклонен: повтор не поможет
			return nil, backoff.Permanent(&api.StatusError{StatusCode: resp.StatusCode, Message: "realtime handshake rejected"})
		}
		return nil, fmt.Errorf("realtime dial failed: %w", err)
	}

	return conn, nil
}

// readLoop читает кадры до ошибки или отмены ctx
func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn) error {
	stop := make(chan struct{})
	var wg sync.WaitGroup

	defer func() {
		close(stop)
		_ = conn.Close()
		wg.Wait()
	}()

	conn.SetReadLimit(c.cfg.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	})

	// Keepalive и закрытие по ctx; WriteControl безопасен параллельно с чтением
	wg.Add(1)
	go func() {
		defer wg.Done()

		ticker := time.NewTicker(c.cfg.PingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "logout"),
					time.Now().Add(c.cfg.WriteTimeout))
				_ = conn.Close()
				return
			case <-stop:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.cfg.WriteTimeout)); err != nil {
					c.logger.Debug("realtime ping failed", "error", err)
					_ = conn.Close()
					return
				}
			}
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return fmt.Errorf("unexpected close: %w", err)
			}
			return err
		}

		_ = conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
		c.handleMessage(message)
	}
}

// handleMessage разбирает кадр и рассылает его подписчикам
func (c *Channel) handleMessage(message []byte) {
	var ev Event
	if err := json.Unmarshal(message, &ev); err != nil {
		c.dropped.Add(1)
		c.logger.Debug("dropping malformed realtime frame", "error", err)
		return
	}
	if ev.Name == "" {
		c.dropped.Add(1)
		c.logger.Debug("dropping realtime frame without event name")
		return
	}

	if n := c.registry.Dispatch(ev); n == 0 {
		c.logger.Debug("realtime event without subscribers", "event", ev.Name)
	}
}
