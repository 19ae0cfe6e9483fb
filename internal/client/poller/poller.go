// Package poller periodically asks the backend whether bid outcomes changed.
// It runs only while a session is logged in and is stopped deterministically
// on logout.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/iudanet/mazadlive/internal/client/api"
	pkgapi "github.com/iudanet/mazadlive/pkg/api"
)

// DefaultInterval - период опроса по умолчанию
const DefaultInterval = 5 * time.Second

// BidChecker - часть backend API, нужная поллеру
type BidChecker interface {
	CheckBids(ctx context.Context, accessToken, userID string) (*pkgapi.BidCheckResult, error)
}

// ResultFunc получает результат каждого успешного тика
type ResultFunc func(userID string, result *pkgapi.BidCheckResult)

// Option настраивает Poller
type Option func(*Poller)

// WithClock подменяет источник времени (clockwork.NewFakeClock в тестах)
func WithClock(clock clockwork.Clock) Option {
	return func(p *Poller) {
		p.clock = clock
	}
}

// WithInterval задает период опроса
func WithInterval(interval time.Duration) Option {
	return func(p *Poller) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithOnResult задает обработчик результатов
func WithOnResult(fn ResultFunc) Option {
	return func(p *Poller) {
		p.onResult = fn
	}
}

// WithLogger задает логгер
func WithLogger(logger *slog.Logger) Option {
	return func(p *Poller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Poller - отменяемая периодическая задача. Состояния: Idle и Polling.
type Poller struct {
	checker  BidChecker
	clock    clockwork.Clock
	logger   *slog.Logger
	onResult ResultFunc
	cancel   context.CancelFunc
	done     chan struct{}
	userID   string
	inflight sync.WaitGroup
	interval time.Duration
	ticks    atomic.Int64
	failures atomic.Int64
	mu       sync.Mutex
}

// New создает Poller в состоянии Idle
func New(checker BidChecker, opts ...Option) *Poller {
	p := &Poller{
		checker:  checker,
		clock:    clockwork.NewRealClock(),
		logger:   slog.Default(),
		interval: DefaultInterval,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Start переводит Poller в Polling для пользователя.
// Если опрос уже идет, он перезапускается.
func (p *Poller) Start(userID, accessToken string) error {
	if accessToken == "" || userID == "" {
		return api.ErrAuthRequired
	}

	p.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.userID = userID

	// Ticker создается до запуска goroutine, чтобы Start был синхронной точкой
	ticker := p.clock.NewTicker(p.interval)

	go p.loop(ctx, ticker, p.done, userID, accessToken)

	p.logger.Info("bid poller started", "user_id", userID, "interval", p.interval)
	return nil
}

// Stop останавливает ticker, отменяет незавершенные запросы и ждет их.
// После возврата Stop ни один тик не выполняется.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done, userID := p.cancel, p.done, p.userID
	p.cancel, p.done, p.userID = nil, nil, ""
	p.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
	p.inflight.Wait()

	p.logger.Info("bid poller stopped", "user_id", userID)
}

// Polling сообщает, активен ли опрос
func (p *Poller) Polling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cancel != nil
}

// Ticks возвращает количество выполненных тиков
func (p *Poller) Ticks() int64 {
	return p.ticks.Load()
}

// Failures возвращает количество тиков, завершившихся ошибкой
func (p *Poller) Failures() int64 {
	return p.failures.Load()
}

// loop ждет тиков и запускает запросы, не блокируя ticker
func (p *Poller) loop(ctx context.Context, ticker clockwork.Ticker, done chan struct{}, userID, accessToken string) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			// Отмена могла случиться одновременно с тиком
			if ctx.Err() != nil {
				return
			}

			p.ticks.Add(1)
			p.inflight.Add(1)
			go p.tick(ctx, userID, accessToken)
		}
	}
}

// tick выполняет один запрос; ошибки логируются и не прерывают опрос
func (p *Poller) tick(ctx context.Context, userID, accessToken string) {
	defer p.inflight.Done()

	result, err := p.checker.CheckBids(ctx, accessToken, userID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.failures.Add(1)
		p.logger.Warn("bid check failed", "user_id", userID, "error", err)
		return
	}

	if ctx.Err() != nil || p.onResult == nil {
		return
	}
	if result == nil {
		result = &pkgapi.BidCheckResult{}
	}

	if result.HasChanges {
		p.logger.Info("bid outcomes changed", "user_id", userID, "outcomes", len(result.Outcomes))
	}
	p.onResult(userID, result)
}
