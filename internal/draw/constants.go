package draw

import "time"

// Fixed draw timings. They are part of the show and are not configurable.
const (
	PrizeSpinTicks     = 21
	PrizeTickInterval  = 80 * time.Millisecond
	PrizePause         = 500 * time.Millisecond
	NumberSpinTicks    = 31
	NumberTickInterval = 60 * time.Millisecond
	RevealWindow       = 8 * time.Second
)

// Tracing
const (
	TracerName       = "github.com/osse101/tombola/internal/draw"
	SpanNameDraw     = "raffle.draw"
	AttrDrawID       = "raffle.draw_id"
	AttrDrawMode     = "raffle.mode"
	AttrPrize        = "raffle.prize"
	AttrNumber       = "raffle.number"
	AttrWinnerID     = "raffle.winner_id"
	SpanStatusReset  = "draw cancelled by reset"
	SpanStatusClosed = "draw cancelled by shutdown"
)

// Abort reasons carried on raffle.draw_aborted
const (
	AbortReasonPoolInconsistency = "pool_inconsistency"
)

// Log messages
const (
	LogMsgDrawStarted          = "Raffle draw started"
	LogMsgPrizeCommitted       = "Prize committed"
	LogMsgNumberPhaseStarted   = "Number phase started"
	LogMsgWinnerRevealed       = "Winner revealed"
	LogMsgRevealCleared        = "Reveal cleared"
	LogMsgTriggerRejected      = "Trigger rejected"
	LogMsgDrawAborted          = "Draw aborted, committed values could not be removed from pools"
	LogMsgStaleTimerDiscarded  = "Discarded timer from a cancelled draw"
	LogMsgRaffleReset          = "Raffle reset"
	LogMsgRaffleExhausted      = "Raffle exhausted"
	LogMsgPublishFailed        = "Failed to publish raffle event"
	LogMsgSequencerClosed      = "Draw sequencer closed"
	LogMsgDrawCancelledOnClose = "In-flight draw cancelled on close"
)

// Rejection reasons used in logs
const (
	RejectReasonClosed    = "closed"
	RejectReasonInFlight  = "draw_in_progress"
	RejectReasonRevealed  = "reveal_showing"
	RejectReasonExhausted = "exhausted"
)
