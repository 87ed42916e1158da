package handler

import (
	"errors"
	"net/http"

	"github.com/osse101/tombola/internal/domain"
	"github.com/osse101/tombola/internal/logger"
)

// Request errors
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidQueryParam     = "Invalid %s query parameter"
)

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnavailableError    = "Raffle is shutting down"
	ErrMsgInvalidConfigError  = "Raffle configuration is invalid"
	ErrMsgResetNotConfirmed   = "Reset must be confirmed with {\"confirm\": true}"
	ErrMsgDrawInProgressError = "A draw is in progress or a winner is being shown"
	ErrMsgExhaustedError      = "No prizes or numbers left. Reset the raffle to start again"
)

// Log messages
const (
	LogMsgEncodeFailed       = "Failed to encode JSON response"
	LogMsgWriteFailed        = "Failed to write response buffer"
	LogMsgServiceError       = "Raffle operation failed"
	LogMsgTriggerRejected    = "Draw trigger rejected"
	LogMsgResetRequested     = "Raffle reset requested"
	LogMsgIdempotentReplay   = "Replaying idempotent response"
	LogMsgReadinessFailed    = "Readiness check failed"
	LogMsgDecodeFailedFormat = "Failed to decode %s request"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses
func mapServiceErrorToUserMessage(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	case errors.Is(err, domain.ErrSequencerClosed):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	case errors.Is(err, domain.ErrResetNotConfirmed):
		return http.StatusBadRequest, ErrMsgResetNotConfirmed
	case errors.Is(err, domain.ErrInvalidConfig):
		return http.StatusBadRequest, ErrMsgInvalidConfigError
	case errors.Is(err, domain.ErrExhausted):
		return http.StatusConflict, ErrMsgExhaustedError
	case errors.Is(err, domain.ErrGuardRejected):
		return http.StatusConflict, ErrMsgDrawInProgressError
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}

// respondServiceError logs err and writes its mapped status and message
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	statusCode, userMsg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if statusCode >= http.StatusInternalServerError {
		log.Error(LogMsgServiceError, "operation", opName, "error", err)
	} else {
		log.Warn(LogMsgServiceError, "operation", opName, "error", err)
	}
	respondError(w, statusCode, userMsg)
}
