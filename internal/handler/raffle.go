package handler

import (
	"context"
	"net/http"

	"github.com/osse101/tombola/internal/domain"
	"github.com/osse101/tombola/internal/logger"
	"github.com/osse101/tombola/internal/metrics"
)

// RaffleService is the draw engine surface exposed over HTTP
type RaffleService interface {
	Trigger(ctx context.Context) bool
	Reset(ctx context.Context, cfg domain.PoolConfig) error
	Status() domain.RaffleStatus
	History() []domain.Winner
}

// RaffleHandler serves the operator and display endpoints of the raffle
type RaffleHandler struct {
	service  RaffleService
	defaults domain.PoolConfig
}

// NewRaffleHandler creates a handler that resets to defaults
func NewRaffleHandler(service RaffleService, defaults domain.PoolConfig) *RaffleHandler {
	return &RaffleHandler{
		service:  service,
		defaults: defaults,
	}
}

// DrawResponse is returned by the draw endpoint
type DrawResponse struct {
	Accepted bool                `json:"accepted"`
	Error    string              `json:"error,omitempty"`
	Status   domain.RaffleStatus `json:"status"`
}

// ResetRequest is the body of the reset endpoint
type ResetRequest struct {
	Confirm bool   `json:"confirm"`
	Reason  string `json:"reason,omitempty" validate:"max=200"`
}

// HistoryResponse lists winners, most recent first
type HistoryResponse struct {
	Winners []domain.Winner `json:"winners"`
	Total   int             `json:"total"`
}

// HandleStatus returns the current raffle snapshot
func (h *RaffleHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Status())
}

// HandleHistory returns the winner log. ?limit=N keeps the N most recent.
func (h *RaffleHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit, ok := GetOptionalIntQueryParam(r, w, "limit", 0)
	if !ok {
		return
	}

	winners := h.service.History()
	total := len(winners)
	if limit > 0 && limit < total {
		winners = winners[:limit]
	}
	respondJSON(w, http.StatusOK, HistoryResponse{Winners: winners, Total: total})
}

// HandleDraw starts a draw, or advances it in stepwise mode.
// A rejected trigger changes nothing and answers 409 with the current phase.
func (h *RaffleHandler) HandleDraw(w http.ResponseWriter, r *http.Request) {
	accepted := h.service.Trigger(r.Context())
	metrics.RecordTrigger(accepted)
	status := h.service.Status()

	if accepted {
		respondJSON(w, http.StatusAccepted, DrawResponse{Accepted: true, Status: status})
		return
	}

	reason := domain.ErrGuardRejected
	if status.Phase == domain.PhaseExhausted {
		reason = domain.ErrExhausted
	}
	logger.FromContext(r.Context()).Debug(LogMsgTriggerRejected, "phase", status.Phase, "reason", reason)

	code, msg := mapServiceErrorToUserMessage(reason)
	respondJSON(w, code, DrawResponse{Accepted: false, Error: msg, Status: status})
}

// HandleReset restores both pools to the loaded configuration and clears history
func (h *RaffleHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Reset raffle"); err != nil {
		return
	}
	if !req.Confirm {
		respondServiceError(w, r, "Reset raffle", domain.ErrResetNotConfirmed)
		return
	}

	logger.FromContext(r.Context()).Info(LogMsgResetRequested, "reason", req.Reason)
	if err := h.service.Reset(r.Context(), h.defaults); err != nil {
		respondServiceError(w, r, "Reset raffle", err)
		return
	}

	respondJSON(w, http.StatusOK, h.service.Status())
}
