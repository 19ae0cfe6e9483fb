package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/iudanet/mazadlive/internal/client/api"
	"github.com/iudanet/mazadlive/internal/validation"
	pkgapi "github.com/iudanet/mazadlive/pkg/api"
)

// BidsHandler проксирует проверку статуса ставок
type BidsHandler struct {
	backend api.ClientAPI
	clock   clockwork.Clock
	responder
}

// NewBidsHandler создает BidsHandler
func NewBidsHandler(logger *slog.Logger, backend api.ClientAPI, clock clockwork.Clock) *BidsHandler {
	return &BidsHandler{
		responder: responder{logger: logger},
		backend:   backend,
		clock:     clock,
	}
}

// Check обрабатывает POST /api/bids/check
func (h *BidsHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req pkgapi.UserTokenRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validation.ValidateID("userId", req.UserID); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	tok := accessToken(r, req.Token)
	if err := checkToken(tok, h.clock.Now()); err != nil {
		h.sendUpstreamError(ctx, w, "check bids", err)
		return
	}

	result, err := h.backend.CheckBids(ctx, tok, req.UserID)
	if err != nil {
		h.sendUpstreamError(ctx, w, "check bids", err)
		return
	}

	h.sendSuccess(w, "", result)
}
