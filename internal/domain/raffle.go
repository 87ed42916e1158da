package domain

import "time"

// Phase is the state of the draw engine as shown to the display layer
type Phase string

const (
	PhaseIdle           Phase = "Idle"
	PhaseSpinningPrize  Phase = "SpinningPrize"
	PhasePrizePaused    Phase = "PrizePaused"
	PhaseSpinningNumber Phase = "SpinningNumber"
	PhaseRevealed       Phase = "Revealed"
	PhaseExhausted      Phase = "Exhausted"
)

// InFlight reports whether a draw owns the engine in this phase.
func (p Phase) InFlight() bool {
	switch p {
	case PhaseSpinningPrize, PhasePrizePaused, PhaseSpinningNumber:
		return true
	}
	return false
}

// DrawMode selects how triggers map onto draw phases
type DrawMode string

const (
	// DrawModeAuto runs both phases per trigger and auto-clears the reveal.
	DrawModeAuto DrawMode = "auto"
	// DrawModeStepwise runs one phase per trigger and keeps the reveal until the next trigger.
	DrawModeStepwise DrawMode = "stepwise"
)

// Winner is an immutable record of one committed prize/number pair
type Winner struct {
	ID      int64     `json:"id"`
	Prize   string    `json:"prize"`
	Number  int       `json:"number"`
	DrawnAt time.Time `json:"drawn_at"`
}

// PoolConfig is the flattened initial configuration of both draw pools.
// Prizes keeps configured order and intentional duplicates; numbers are the
// contiguous range [NumberStart, NumberStart+NumberCount).
type PoolConfig struct {
	Prizes      []string `json:"prizes"`
	NumberStart int      `json:"number_start"`
	NumberCount int      `json:"number_count"`
}

// Numbers expands the configured range in ascending order.
func (c PoolConfig) Numbers() []int {
	if c.NumberCount <= 0 {
		return []int{}
	}
	numbers := make([]int, c.NumberCount)
	for i := range numbers {
		numbers[i] = c.NumberStart + i
	}
	return numbers
}

// DisplayEvent is emitted once per tick or transition for the rendering layer.
// During the number phase Prize carries the committed prize so both cards can render.
type DisplayEvent struct {
	Phase            Phase   `json:"phase"`
	DrawID           uint64  `json:"draw_id,omitempty"`
	Tick             int     `json:"tick,omitempty"`
	Settled          bool    `json:"settled"`
	Prize            string  `json:"prize,omitempty"`
	Number           *int    `json:"number,omitempty"`
	Winner           *Winner `json:"winner,omitempty"`
	RemainingPrizes  int     `json:"remaining_prizes"`
	RemainingNumbers int     `json:"remaining_numbers"`
}

// DrawAborted describes a draw discarded because its commit could not be applied
type DrawAborted struct {
	DrawID uint64 `json:"draw_id"`
	Prize  string `json:"prize"`
	Number int    `json:"number"`
	Reason string `json:"reason"`
}

// RaffleReset describes a completed reset of both pools
type RaffleReset struct {
	Prizes  int  `json:"prizes"`
	Numbers int  `json:"numbers"`
	Aborted bool `json:"aborted_draw"`
}

// RaffleStatus is a point-in-time snapshot for a freshly connected display
type RaffleStatus struct {
	Phase            Phase        `json:"phase"`
	Mode             DrawMode     `json:"mode"`
	CanTrigger       bool         `json:"can_trigger"`
	RemainingPrizes  int          `json:"remaining_prizes"`
	RemainingNumbers int          `json:"remaining_numbers"`
	WinnerCount      int          `json:"winner_count"`
	LastWinner       *Winner      `json:"last_winner,omitempty"`
	Current          DisplayEvent `json:"current"`
}

// Event types published on the bus by the draw engine
const (
	EventTypeRaffleDisplay        = "raffle.display"
	EventTypeRaffleWinnerRevealed = "raffle.winner_revealed"
	EventTypeRaffleDrawAborted    = "raffle.draw_aborted"
	EventTypeRaffleReset          = "raffle.reset"
)
