// Package draw runs the timed two-phase raffle draw on top of the pool manager.
//
// Every transition happens under the sequencer lock, either from a command
// (Trigger, Reset, Close) or from the single pending timer of the current draw.
// Timers carry the epoch they were scheduled in; a timer that fires after the
// epoch moved on belongs to a cancelled draw and is discarded.
package draw

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/osse101/tombola/internal/domain"
	"github.com/osse101/tombola/internal/event"
	"github.com/osse101/tombola/internal/logger"
	"github.com/osse101/tombola/internal/random"
)

// Pools is the pool manager surface the sequencer drives
type Pools interface {
	CurrentPrizes() []string
	CurrentNumbers() []int
	Commit(prize string, number int) (domain.Winner, error)
	Reset(prizes []string, numbers []int)
	IsExhausted() bool
	RemainingPrizeCount() int
	RemainingNumberCount() int
	History() []domain.Winner
	LastWinner() (domain.Winner, bool)
	WinnerCount() int
}

// session is the transient state of one draw. It is discarded on reveal clear,
// abort, reset and close.
type session struct {
	id      uint64
	ctx     context.Context
	span    trace.Span
	prizes  []string // snapshot taken at trigger
	numbers []int    // snapshot taken at trigger
	tick    int
	prize   string
}

// Sequencer is the draw state machine
type Sequencer struct {
	mu     sync.Mutex
	pools  Pools
	bus    event.Bus
	clock  clockwork.Clock
	rng    random.Source
	mode   domain.DrawMode
	tracer trace.Tracer

	phase   domain.Phase
	epoch   uint64
	session *session
	timer   clockwork.Timer
	current domain.DisplayEvent
	closed  bool
}

// NewSequencer creates a sequencer in Idle, or Exhausted when pools start empty.
// An empty mode selects DrawModeAuto.
func NewSequencer(pools Pools, bus event.Bus, clock clockwork.Clock, rng random.Source, mode domain.DrawMode) (*Sequencer, error) {
	switch mode {
	case "":
		mode = domain.DrawModeAuto
	case domain.DrawModeAuto, domain.DrawModeStepwise:
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDrawMode, mode)
	}

	s := &Sequencer{
		pools:  pools,
		bus:    bus,
		clock:  clock,
		rng:    rng,
		mode:   mode,
		tracer: otel.Tracer(TracerName),
	}
	s.phase = s.restingPhase()
	s.current = s.withCounts(domain.DisplayEvent{Phase: s.phase})
	return s, nil
}

// Trigger starts or advances a draw. It returns false when the guard rejects
// the trigger; a rejected trigger changes nothing except that an empty pool
// moves the engine to Exhausted.
func (s *Sequencer) Trigger(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx)
	if s.closed {
		log.Debug(LogMsgTriggerRejected, "reason", RejectReasonClosed, "phase", s.phase)
		return false
	}

	switch s.phase {
	case domain.PhaseIdle, domain.PhaseExhausted:
		return s.startDraw(ctx)
	case domain.PhasePrizePaused:
		if s.mode == domain.DrawModeStepwise {
			s.startNumberPhase()
			return true
		}
	case domain.PhaseRevealed:
		if s.mode == domain.DrawModeStepwise {
			s.clearReveal()
			return s.startDraw(ctx)
		}
		log.Debug(LogMsgTriggerRejected, "reason", RejectReasonRevealed, "phase", s.phase)
		return false
	}

	log.Debug(LogMsgTriggerRejected, "reason", RejectReasonInFlight, "phase", s.phase)
	return false
}

// Reset cancels any in-flight draw and replaces both pools with cfg.
func (s *Sequencer) Reset(ctx context.Context, cfg domain.PoolConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSequencerClosed
	}
	s.resetLocked(ctx, cfg)
	return nil
}

func (s *Sequencer) resetLocked(ctx context.Context, cfg domain.PoolConfig) {
	aborted := s.cancelSession(SpanStatusReset)
	s.pools.Reset(cfg.Prizes, cfg.Numbers())
	s.phase = s.restingPhase()

	reset := domain.RaffleReset{
		Prizes:  s.pools.RemainingPrizeCount(),
		Numbers: s.pools.RemainingNumberCount(),
		Aborted: aborted,
	}
	logger.FromContext(ctx).Info(LogMsgRaffleReset,
		"prizes", reset.Prizes, "numbers", reset.Numbers, "aborted_draw", aborted)

	s.publish(ctx, event.NewResetEvent(reset))
	s.publishDisplay(ctx, domain.DisplayEvent{Phase: s.phase})
}

// Close cancels the pending timer and rejects every later command.
func (s *Sequencer) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	log := logger.FromContext(ctx)
	if s.cancelSession(SpanStatusClosed) {
		log.Warn(LogMsgDrawCancelledOnClose, "phase", s.phase)
	}
	log.Info(LogMsgSequencerClosed)
	return nil
}

// Status returns a display snapshot for a newly connected client
func (s *Sequencer) Status() domain.RaffleStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := domain.RaffleStatus{
		Phase:            s.phase,
		Mode:             s.mode,
		CanTrigger:       s.canTrigger(),
		RemainingPrizes:  s.pools.RemainingPrizeCount(),
		RemainingNumbers: s.pools.RemainingNumberCount(),
		WinnerCount:      s.pools.WinnerCount(),
		Current:          s.current,
	}
	if w, ok := s.pools.LastWinner(); ok {
		status.LastWinner = &w
	}
	return status
}

// Phase returns the current phase
func (s *Sequencer) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Mode returns the configured draw mode
func (s *Sequencer) Mode() domain.DrawMode {
	return s.mode
}

// History returns the winner log, most recent first
func (s *Sequencer) History() []domain.Winner {
	return s.pools.History()
}

// RemainingPrizeCount returns the number of prizes left
func (s *Sequencer) RemainingPrizeCount() int {
	return s.pools.RemainingPrizeCount()
}

// RemainingNumberCount returns the number of numbers left
func (s *Sequencer) RemainingNumberCount() int {
	return s.pools.RemainingNumberCount()
}

func (s *Sequencer) canTrigger() bool {
	if s.closed || s.pools.IsExhausted() {
		return false
	}
	switch s.phase {
	case domain.PhaseIdle, domain.PhaseExhausted:
		return true
	case domain.PhasePrizePaused, domain.PhaseRevealed:
		return s.mode == domain.DrawModeStepwise
	}
	return false
}

func (s *Sequencer) restingPhase() domain.Phase {
	if s.pools.IsExhausted() {
		return domain.PhaseExhausted
	}
	return domain.PhaseIdle
}

func (s *Sequencer) startDraw(ctx context.Context) bool {
	log := logger.FromContext(ctx)

	if s.pools.IsExhausted() {
		if s.phase != domain.PhaseExhausted {
			s.phase = domain.PhaseExhausted
			s.publishDisplay(ctx, domain.DisplayEvent{Phase: s.phase})
		}
		log.Debug(LogMsgTriggerRejected, "reason", RejectReasonExhausted, "phase", s.phase)
		return false
	}

	s.epoch++
	sctx, span := s.tracer.Start(context.WithoutCancel(ctx), SpanNameDraw,
		trace.WithAttributes(
			attribute.Int64(AttrDrawID, int64(s.epoch)),
			attribute.String(AttrDrawMode, string(s.mode)),
		))
	s.session = &session{
		id:      s.epoch,
		ctx:     sctx,
		span:    span,
		prizes:  s.pools.CurrentPrizes(),
		numbers: s.pools.CurrentNumbers(),
	}
	s.phase = domain.PhaseSpinningPrize

	log.Info(LogMsgDrawStarted, "draw_id", s.epoch, "mode", s.mode,
		"prizes", len(s.session.prizes), "numbers", len(s.session.numbers))

	s.publishDisplay(sctx, domain.DisplayEvent{Phase: s.phase, DrawID: s.epoch})
	s.schedule(PrizeTickInterval, s.prizeTick)
	return true
}

func (s *Sequencer) prizeTick() {
	sess := s.session
	sess.tick++

	if sess.tick <= PrizeSpinTicks {
		s.publishDisplay(sess.ctx, domain.DisplayEvent{
			Phase:  domain.PhaseSpinningPrize,
			DrawID: sess.id,
			Tick:   sess.tick,
			Prize:  random.Pick(s.rng, sess.prizes),
		})
		s.schedule(PrizeTickInterval, s.prizeTick)
		return
	}

	sess.prize = random.Pick(s.rng, sess.prizes)
	sess.span.AddEvent(LogMsgPrizeCommitted, trace.WithAttributes(attribute.String(AttrPrize, sess.prize)))
	logger.FromContext(sess.ctx).Debug(LogMsgPrizeCommitted, "draw_id", sess.id, "prize", sess.prize)

	s.phase = domain.PhasePrizePaused
	s.publishDisplay(sess.ctx, domain.DisplayEvent{
		Phase:   s.phase,
		DrawID:  sess.id,
		Settled: true,
		Prize:   sess.prize,
	})

	if s.mode == domain.DrawModeAuto {
		s.schedule(PrizePause, s.startNumberPhase)
	}
}

func (s *Sequencer) startNumberPhase() {
	sess := s.session
	sess.tick = 0
	s.phase = domain.PhaseSpinningNumber

	logger.FromContext(sess.ctx).Debug(LogMsgNumberPhaseStarted, "draw_id", sess.id)
	s.publishDisplay(sess.ctx, domain.DisplayEvent{
		Phase:  s.phase,
		DrawID: sess.id,
		Prize:  sess.prize,
	})
	s.schedule(NumberTickInterval, s.numberTick)
}

func (s *Sequencer) numberTick() {
	sess := s.session
	sess.tick++

	number := random.Pick(s.rng, sess.numbers)
	if sess.tick <= NumberSpinTicks {
		s.publishDisplay(sess.ctx, domain.DisplayEvent{
			Phase:  domain.PhaseSpinningNumber,
			DrawID: sess.id,
			Tick:   sess.tick,
			Prize:  sess.prize,
			Number: &number,
		})
		s.schedule(NumberTickInterval, s.numberTick)
		return
	}

	s.commit(number)
}

// commit applies the committed pair to the pools in one step and reveals it.
func (s *Sequencer) commit(number int) {
	sess := s.session
	log := logger.FromContext(sess.ctx)

	winner, err := s.pools.Commit(sess.prize, number)
	if err != nil {
		log.Error(LogMsgDrawAborted, "draw_id", sess.id, "prize", sess.prize, "number", number, "error", err)
		sess.span.RecordError(err)
		sess.span.SetStatus(codes.Error, err.Error())
		sess.span.End()

		s.session = nil
		s.phase = domain.PhaseIdle
		s.publish(sess.ctx, event.NewDrawAbortedEvent(domain.DrawAborted{
			DrawID: sess.id,
			Prize:  sess.prize,
			Number: number,
			Reason: AbortReasonPoolInconsistency,
		}))
		s.publishDisplay(sess.ctx, domain.DisplayEvent{Phase: s.phase})
		return
	}

	sess.span.SetAttributes(
		attribute.String(AttrPrize, winner.Prize),
		attribute.Int(AttrNumber, winner.Number),
		attribute.Int64(AttrWinnerID, winner.ID),
	)
	sess.span.End()

	log.Info(LogMsgWinnerRevealed, "draw_id", sess.id, "winner_id", winner.ID,
		"prize", winner.Prize, "number", winner.Number)

	s.phase = domain.PhaseRevealed
	s.publishDisplay(sess.ctx, domain.DisplayEvent{
		Phase:   s.phase,
		DrawID:  sess.id,
		Settled: true,
		Prize:   winner.Prize,
		Number:  &number,
		Winner:  &winner,
	})
	s.publish(sess.ctx, event.NewWinnerRevealedEvent(winner))

	if s.mode == domain.DrawModeAuto {
		s.schedule(RevealWindow, s.clearReveal)
	}
}

func (s *Sequencer) clearReveal() {
	sess := s.session
	s.session = nil
	s.phase = s.restingPhase()

	log := logger.FromContext(sess.ctx)
	if s.phase == domain.PhaseExhausted {
		log.Info(LogMsgRaffleExhausted, "winners", s.pools.WinnerCount())
	} else {
		log.Debug(LogMsgRevealCleared, "draw_id", sess.id)
	}
	s.publishDisplay(sess.ctx, domain.DisplayEvent{Phase: s.phase})
}

// cancelSession drops the current draw and its pending timer. It reports
// whether a draw was still in flight.
func (s *Sequencer) cancelSession(reason string) bool {
	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	sess := s.session
	s.session = nil
	if sess == nil || !s.phase.InFlight() {
		return false
	}
	sess.span.SetStatus(codes.Error, reason)
	sess.span.End()
	return true
}

// schedule arms the single pending timer. Caller holds s.mu.
func (s *Sequencer) schedule(d time.Duration, step func()) {
	epoch := s.epoch
	s.timer = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.closed || epoch != s.epoch || s.session == nil {
			logger.FromContext(context.Background()).Debug(LogMsgStaleTimerDiscarded, "draw_id", epoch)
			return
		}
		s.timer = nil
		step()
	})
}

func (s *Sequencer) withCounts(d domain.DisplayEvent) domain.DisplayEvent {
	d.RemainingPrizes = s.pools.RemainingPrizeCount()
	d.RemainingNumbers = s.pools.RemainingNumberCount()
	return d
}

func (s *Sequencer) publishDisplay(ctx context.Context, d domain.DisplayEvent) {
	s.current = s.withCounts(d)
	s.publish(ctx, event.NewDisplayEvent(s.current))
}

func (s *Sequencer) publish(ctx context.Context, e event.Event) {
	if err := s.bus.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", e.Type, "error", err)
	}
}

// CheckHealth reports ErrSequencerClosed once Close has been called
func (s *Sequencer) CheckHealth(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSequencerClosed
	}
	return nil
}
