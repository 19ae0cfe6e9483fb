package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
)

// HealthHandler отвечает на liveness проверки proxy
type HealthHandler struct {
	clock   clockwork.Clock
	started time.Time
	version string
	responder
}

func NewHealthHandler(logger *slog.Logger, version string, clock clockwork.Clock) *HealthHandler {
	return &HealthHandler{
		responder: responder{logger: logger},
		clock:     clock,
		started:   clock.Now(),
		version:   version,
	}
}

// HealthResponse - тело ответа GET /api/health
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version,omitempty"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

// Health обрабатывает GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, HealthResponse{
		Status:        "ok",
		Version:       h.version,
		UptimeSeconds: int64(h.clock.Since(h.started) / time.Second),
	}, http.StatusOK)
}
