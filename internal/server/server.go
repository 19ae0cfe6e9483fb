// Package server собирает HTTP proxy: маршруты и цепочку middleware.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/iudanet/mazadlive/internal/client/api"
	"github.com/iudanet/mazadlive/internal/server/handlers"
	"github.com/iudanet/mazadlive/internal/server/middleware"
)

// OTPRateLimit - лимит попыток входа с одного IP в минуту
const OTPRateLimit = 5

// Config - параметры proxy
type Config struct {
	ListenAddr     string
	Version        string
	AllowedOrigins []string
	RateLimit      int
}

// Server - proxy поверх backend MazadClick
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	stop       func()
}

// New создает Server. clock может быть nil.
func New(cfg Config, backend api.ClientAPI, logger *slog.Logger, clock clockwork.Clock) *Server {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	authHandler := handlers.NewAuthHandler(logger, backend)
	bidsHandler := handlers.NewBidsHandler(logger, backend, clock)
	notificationsHandler := handlers.NewNotificationsHandler(logger, backend, clock)
	healthHandler := handlers.NewHealthHandler(logger, cfg.Version, clock)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/verify-otp", authHandler.VerifyOTP)
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/bids/check", bidsHandler.Check)
	mux.HandleFunc("POST /api/notifications", notificationsHandler.List)
	mux.HandleFunc("POST /api/notifications/read", notificationsHandler.MarkRead)
	mux.HandleFunc("POST /api/notifications/read-all", notificationsHandler.MarkAllRead)
	mux.HandleFunc("POST /api/notifications/chats", notificationsHandler.Chats)
	mux.HandleFunc("GET /api/health", healthHandler.Health)

	rateLimit, stop := middleware.RateLimitMiddleware(
		[]middleware.PathRateLimit{{Path: "/api/auth/verify-otp", Rate: OTPRateLimit, Window: time.Minute}},
		cfg.RateLimit, time.Minute, logger, clock,
	)

	// recovery → request id → logging → rate limit → CORS → bearer
	handler := chain(mux,
		middleware.RecoveryMiddleware(logger),
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(logger, "/api/health"),
		rateLimit,
		middleware.CORSMiddleware(cfg.AllowedOrigins),
		middleware.BearerMiddleware(logger, clock),
	)

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
		stop:   stop,
	}
}

// chain оборачивает h так, что первый middleware выполняется первым
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Handler возвращает корневой http.Handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run обслуживает запросы до отмены ctx, затем выполняет graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	defer s.stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("proxy listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("proxy server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down proxy")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown proxy: %w", err)
	}

	return nil
}
