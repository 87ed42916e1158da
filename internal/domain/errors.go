package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Pool errors
	ErrMsgNotFound          = "value not found in pool"
	ErrMsgPoolInconsistency = "pool inconsistency"

	// Draw errors
	ErrMsgGuardRejected     = "draw trigger rejected"
	ErrMsgExhausted         = "raffle is exhausted"
	ErrMsgSequencerClosed   = "draw sequencer is closed"
	ErrMsgInvalidConfig     = "invalid raffle configuration"
	ErrMsgInvalidDrawMode   = "invalid draw mode"
	ErrMsgResetNotConfirmed = "reset must be confirmed"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// ErrNotFound is returned when a committed value is missing from its pool.
	ErrNotFound = errors.New(ErrMsgNotFound)

	// ErrPoolInconsistency is returned when a commit could not be applied
	// because a pool was mutated out-of-band during the draw.
	ErrPoolInconsistency = errors.New(ErrMsgPoolInconsistency)

	ErrGuardRejected   = errors.New(ErrMsgGuardRejected)
	ErrExhausted       = errors.New(ErrMsgExhausted)
	ErrSequencerClosed = errors.New(ErrMsgSequencerClosed)

	// Configuration errors
	ErrInvalidConfig   = errors.New(ErrMsgInvalidConfig)
	ErrInvalidDrawMode = errors.New(ErrMsgInvalidDrawMode)

	ErrResetNotConfirmed = errors.New(ErrMsgResetNotConfirmed)
)
