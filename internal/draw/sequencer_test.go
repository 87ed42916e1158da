package draw

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/tombola/internal/domain"
	"github.com/osse101/tombola/internal/event"
	"github.com/osse101/tombola/internal/pool"
	"github.com/osse101/tombola/internal/random"
)

// recorder captures every raffle event published on the bus
type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func newRecorder(bus event.Bus) *recorder {
	r := &recorder{}
	for _, typ := range []event.Type{event.RaffleDisplay, event.RaffleWinnerRevealed, event.RaffleDrawAborted, event.RaffleReset} {
		bus.Subscribe(typ, func(ctx context.Context, e event.Event) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, e)
			return nil
		})
	}
	return r
}

func (r *recorder) ofType(typ event.Type) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) displays() []domain.DisplayEvent {
	var out []domain.DisplayEvent
	for _, e := range r.ofType(event.RaffleDisplay) {
		out = append(out, e.Payload.(domain.DisplayEvent))
	}
	return out
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type fixture struct {
	seq   *Sequencer
	pools *pool.Manager
	clock *clockwork.FakeClock
	rec   *recorder
	cfg   domain.PoolConfig
}

func newFixture(t *testing.T, mode domain.DrawMode, cfg domain.PoolConfig) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 12, 20, 20, 0, 0, 0, time.UTC))
	pools := pool.NewManager(clock, cfg)
	bus := event.NewMemoryBus()
	rec := newRecorder(bus)

	seq, err := NewSequencer(pools, bus, clock, random.NewSeededSource(42), mode)
	require.NoError(t, err)
	t.Cleanup(func() { _ = seq.Close(context.Background()) })

	return &fixture{seq: seq, pools: pools, clock: clock, rec: rec, cfg: cfg}
}

// step fires the single pending timer. It reports false when no timer is pending.
func (f *fixture) step(t *testing.T) bool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	if err := f.clock.BlockUntilContext(ctx, 1); err != nil {
		return false
	}
	f.clock.Advance(RevealWindow)
	return true
}

// stepN fires exactly n timers.
func (f *fixture) stepN(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.True(t, f.step(t), "expected a pending timer at step %d", i)
	}
}

// drain fires timers until the sequencer goes quiet.
func (f *fixture) drain(t *testing.T) {
	t.Helper()
	for f.step(t) {
	}
}

func (f *fixture) waitPhase(t *testing.T, want domain.Phase) {
	t.Helper()
	require.Eventually(t, func() bool { return f.seq.Phase() == want },
		time.Second, time.Millisecond, "phase never became %s", want)
}

var smallConfig = domain.PoolConfig{Prizes: []string{"A", "A", "B"}, NumberStart: 1, NumberCount: 3}

// prize phase fires one timer per tick plus the commit
const prizePhaseSteps = PrizeSpinTicks + 1

func TestNewSequencer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	bus := event.NewMemoryBus()
	src := random.NewSeededSource(1)

	t.Run("defaults to auto", func(t *testing.T) {
		seq, err := NewSequencer(pool.NewManager(clock, smallConfig), bus, clock, src, "")
		require.NoError(t, err)
		assert.Equal(t, domain.DrawModeAuto, seq.Mode())
		assert.Equal(t, domain.PhaseIdle, seq.Phase())
	})

	t.Run("starts exhausted on empty pools", func(t *testing.T) {
		seq, err := NewSequencer(pool.NewManager(clock, domain.PoolConfig{}), bus, clock, src, domain.DrawModeAuto)
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseExhausted, seq.Phase())
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		_, err := NewSequencer(pool.NewManager(clock, smallConfig), bus, clock, src, "manual")
		assert.ErrorIs(t, err, domain.ErrInvalidDrawMode)
	})
}

func TestAutoDraw_EndToEnd(t *testing.T) {
	f := newFixture(t, domain.DrawModeAuto, smallConfig)
	ctx := context.Background()

	require.True(t, f.seq.Trigger(ctx))
	f.drain(t)
	f.waitPhase(t, domain.PhaseIdle)

	history := f.seq.History()
	require.Len(t, history, 1)
	first := history[0]
	assert.Contains(t, []string{"A", "B"}, first.Prize)
	assert.Contains(t, []int{1, 2, 3}, first.Number)

	remainingPrizes := f.pools.CurrentPrizes()
	remainingNumbers := f.pools.CurrentNumbers()
	assert.Len(t, remainingPrizes, 2)
	assert.Len(t, remainingNumbers, 2)
	assert.NotContains(t, remainingNumbers, first.Number)
	assert.Contains(t, remainingPrizes, "A")

	for i := 0; i < 2; i++ {
		require.True(t, f.seq.Trigger(ctx), "trigger %d", i+2)
		f.drain(t)
	}
	f.waitPhase(t, domain.PhaseExhausted)

	assert.Equal(t, 0, f.seq.RemainingPrizeCount())
	assert.Equal(t, 0, f.seq.RemainingNumberCount())

	history = f.seq.History()
	require.Len(t, history, 3)
	var prizes []string
	var numbers []int
	for _, w := range history {
		prizes = append(prizes, w.Prize)
		numbers = append(numbers, w.Number)
	}
	assert.ElementsMatch(t, []string{"A", "A", "B"}, prizes)
	assert.ElementsMatch(t, []int{1, 2, 3}, numbers)
	assert.Len(t, f.rec.ofType(event.RaffleWinnerRevealed), 3)
}

func TestAutoDraw_PhaseSequence(t *testing.T) {
	f := newFixture(t, domain.DrawModeAuto, smallConfig)

	require.True(t, f.seq.Trigger(context.Background()))
	assert.Equal(t, domain.PhaseSpinningPrize, f.seq.Phase())

	f.stepN(t, prizePhaseSteps)
	f.waitPhase(t, domain.PhasePrizePaused)

	f.stepN(t, 1)
	f.waitPhase(t, domain.PhaseSpinningNumber)

	f.stepN(t, NumberSpinTicks+1)
	f.waitPhase(t, domain.PhaseRevealed)

	f.stepN(t, 1)
	f.waitPhase(t, domain.PhaseIdle)
	assert.False(t, f.step(t), "no timer should remain after the reveal clears")

	var phases []domain.Phase
	for _, d := range f.rec.displays() {
		if len(phases) == 0 || phases[len(phases)-1] != d.Phase {
			phases = append(phases, d.Phase)
		}
	}
	assert.Equal(t, []domain.Phase{
		domain.PhaseSpinningPrize,
		domain.PhasePrizePaused,
		domain.PhaseSpinningNumber,
		domain.PhaseRevealed,
		domain.PhaseIdle,
	}, phases)
}

func TestAutoDraw_TickBudgetsAndSnapshots(t *testing.T) {
	f := newFixture(t, domain.DrawModeAuto, smallConfig)

	require.True(t, f.seq.Trigger(context.Background()))
	f.drain(t)
	f.waitPhase(t, domain.PhaseIdle)

	var prizeTicks, numberTicks int
	var committedPrize string
	var revealed *domain.Winner
	for _, d := range f.rec.displays() {
		switch {
		case d.Phase == domain.PhaseSpinningPrize && d.Tick > 0:
			prizeTicks++
			assert.Contains(t, smallConfig.Prizes, d.Prize)
			assert.False(t, d.Settled)
		case d.Phase == domain.PhaseSpinningNumber && d.Tick > 0:
			numberTicks++
			require.NotNil(t, d.Number)
			assert.Contains(t, []int{1, 2, 3}, *d.Number)
		case d.Phase == domain.PhasePrizePaused:
			assert.True(t, d.Settled)
			committedPrize = d.Prize
		case d.Phase == domain.PhaseRevealed:
			revealed = d.Winner
		}
	}

	assert.Equal(t, PrizeSpinTicks, prizeTicks)
	assert.Equal(t, NumberSpinTicks, numberTicks)
	require.NotNil(t, revealed)
	assert.Equal(t, committedPrize, revealed.Prize)
}

func TestAutoDraw_Timings(t *testing.T) {
	f := newFixture(t, domain.DrawModeAuto, smallConfig)
	start := f.clock.Now()

	require.True(t, f.seq.Trigger(context.Background()))

	// Advance by the exact interval each time; a shorter advance must not fire anything.
	for i := 0; i < prizePhaseSteps; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		require.NoError(t, f.clock.BlockUntilContext(ctx, 1))
		cancel()
		f.clock.Advance(PrizeTickInterval)
	}
	f.waitPhase(t, domain.PhasePrizePaused)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.clock.BlockUntilContext(ctx, 1))
	f.clock.Advance(PrizePause - time.Millisecond)
	assert.Equal(t, domain.PhasePrizePaused, f.seq.Phase())
	f.clock.Advance(time.Millisecond)
	f.waitPhase(t, domain.PhaseSpinningNumber)

	elapsed := f.clock.Since(start)
	assert.Equal(t, time.Duration(prizePhaseSteps)*PrizeTickInterval+PrizePause, elapsed)
}

func TestTrigger_GuardRejections(t *testing.T) {
	f := newFixture(t, domain.DrawModeAuto, smallConfig)
	ctx := context.Background()

	require.True(t, f.seq.Trigger(ctx))
	assert.False(t, f.seq.Trigger(ctx), "spinning prize")

	f.stepN(t, prizePhaseSteps)
	f.waitPhase(t, domain.PhasePrizePaused)
	assert.False(t, f.seq.Trigger(ctx), "prize paused")

	f.stepN(t, 1)
	f.waitPhase(t, domain.PhaseSpinningNumber)
	assert.False(t, f.seq.Trigger(ctx), "spinning number")

	f.stepN(t, NumberSpinTicks+1)
	f.waitPhase(t, domain.PhaseRevealed)
	assert.False(t, f.seq.Trigger(ctx), "reveal showing")
	assert.False(t, f.seq.Status().CanTrigger)

	f.stepN(t, 1)
	f.waitPhase(t, domain.PhaseIdle)
	assert.True(t, f.seq.Status().CanTrigger)
	assert.Equal(t, 1, f.pools.WinnerCount(), "rejected triggers must not start extra draws")
}

func TestTrigger_ExhaustedIsNoOp(t *testing.T) {
	cfg := domain.PoolConfig{Prizes: []string{"A", "B"}, NumberStart: 1, NumberCount: 0}
	f := newFixture(t, domain.DrawModeAuto, cfg)

	before := f.rec.len()
	assert.False(t, f.seq.Trigger(context.Background()))
	assert.Equal(t, domain.PhaseExhausted, f.seq.Phase())
	assert.Equal(t, []string{"A", "B"}, f.pools.CurrentPrizes())
	assert.Empty(t, f.seq.History())
	assert.Equal(t, before, f.rec.len(), "staying exhausted publishes nothing")
	assert.False(t, f.step(t))
}

func TestReset_DuringDrawCancelsIt(t *testing.T) {
	f := newFixture(t, domain.DrawModeAuto, smallConfig)
	ctx := context.Background()

	require.True(t, f.seq.Trigger(ctx))
	f.stepN(t, prizePhaseSteps+3)
	f.waitPhase(t, domain.PhaseSpinningNumber)

	require.NoError(t, f.seq.Reset(ctx, smallConfig))
	assert.Equal(t, domain.PhaseIdle, f.seq.Phase())
	assert.False(t, f.step(t), "reset must cancel the pending timer")

	assert.Empty(t, f.seq.History())
	assert.Equal(t, 3, f.seq.RemainingPrizeCount())
	assert.Equal(t, 3, f.seq.RemainingNumberCount())

	resets := f.rec.ofType(event.RaffleReset)
	require.Len(t, resets, 1)
	assert.True(t, resets[0].Payload.(domain.RaffleReset).Aborted)

	// The engine is usable again right away.
	require.True(t, f.seq.Trigger(ctx))
	f.drain(t)
	f.waitPhase(t, domain.PhaseIdle)
	assert.Len(t, f.seq.History(), 1)
}

func TestReset_StaleTimerIsDiscarded(t *testing.T) {
	f := newFixture(t, domain.DrawModeAuto, smallConfig)
	ctx := context.Background()

	require.True(t, f.seq.Trigger(ctx))
	firstDraw := f.seq.Status().Current.DrawID

	ctxWait, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, f.clock.BlockUntilContext(ctxWait, 1))

	// Fire the tick while a reset holds the lock, so the callback only runs afterwards.
	f.seq.mu.Lock()
	f.clock.Advance(PrizeTickInterval)
	f.seq.resetLocked(ctx, smallConfig)
	f.seq.mu.Unlock()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, domain.PhaseIdle, f.seq.Phase())
	for _, d := range f.rec.displays() {
		if d.DrawID == firstDraw {
			assert.Equal(t, 0, d.Tick, "no tick of the cancelled draw may be published")
		}
	}
	assert.False(t, f.step(t))
}

func TestReset_Idempotent(t *testing.T) {
	f := newFixture(t, domain.DrawModeAuto, smallConfig)
	ctx := context.Background()

	require.True(t, f.seq.Trigger(ctx))
	f.drain(t)

	require.NoError(t, f.seq.Reset(ctx, smallConfig))
	prizes, numbers := f.pools.CurrentPrizes(), f.pools.CurrentNumbers()
	require.NoError(t, f.seq.Reset(ctx, smallConfig))

	assert.Equal(t, prizes, f.pools.CurrentPrizes())
	assert.Equal(t, numbers, f.pools.CurrentNumbers())
	assert.Empty(t, f.seq.History())

	resets := f.rec.ofType(event.RaffleReset)
	require.Len(t, resets, 2)
	assert.False(t, resets[1].Payload.(domain.RaffleReset).Aborted)
}

func TestReset_FromExhausted(t *testing.T) {
	cfg := domain.PoolConfig{Prizes: []string{"A"}, NumberStart: 7, NumberCount: 1}
	f := newFixture(t, domain.DrawModeAuto, cfg)
	ctx := context.Background()

	require.True(t, f.seq.Trigger(ctx))
	f.drain(t)
	f.waitPhase(t, domain.PhaseExhausted)

	require.NoError(t, f.seq.Reset(ctx, cfg))
	assert.Equal(t, domain.PhaseIdle, f.seq.Phase())
	assert.True(t, f.seq.Trigger(ctx))
}

func TestCommit_PoolInconsistencyAbortsDraw(t *testing.T) {
	f := newFixture(t, domain.DrawModeAuto, smallConfig)

	require.True(t, f.seq.Trigger(context.Background()))
	f.stepN(t, prizePhaseSteps+1)
	f.waitPhase(t, domain.PhaseSpinningNumber)

	// Out-of-band mutation behind the sequencer's back.
	f.pools.Reset(nil, nil)

	f.drain(t)
	f.waitPhase(t, domain.PhaseIdle)

	assert.Empty(t, f.pools.History(), "no partial winner may be recorded")
	aborted := f.rec.ofType(event.RaffleDrawAborted)
	require.Len(t, aborted, 1)
	payload := aborted[0].Payload.(domain.DrawAborted)
	assert.Equal(t, AbortReasonPoolInconsistency, payload.Reason)
	assert.Empty(t, f.rec.ofType(event.RaffleWinnerRevealed))
}

func TestNoRepeatsAcrossDraws(t *testing.T) {
	cfg := domain.PoolConfig{
		Prizes:      []string{"Mochila", "Mochila", "Mochila", "Tablet", "Maleta"},
		NumberStart: 901,
		NumberCount: 10,
	}
	f := newFixture(t, domain.DrawModeAuto, cfg)

	for i := 0; i < len(cfg.Prizes); i++ {
		require.True(t, f.seq.Trigger(context.Background()))
		f.drain(t)
	}
	f.waitPhase(t, domain.PhaseExhausted)

	seen := map[int]bool{}
	for _, w := range f.seq.History() {
		assert.False(t, seen[w.Number], "number %d drawn twice", w.Number)
		seen[w.Number] = true
		assert.True(t, slices.Contains(cfg.Numbers(), w.Number))
	}
	assert.Len(t, seen, len(cfg.Prizes))
	assert.Equal(t, 0, f.seq.RemainingPrizeCount())
	assert.Equal(t, 5, f.seq.RemainingNumberCount())
}

func TestStepwise_OnePhasePerTrigger(t *testing.T) {
	f := newFixture(t, domain.DrawModeStepwise, smallConfig)
	ctx := context.Background()

	require.True(t, f.seq.Trigger(ctx))
	f.drain(t)
	f.waitPhase(t, domain.PhasePrizePaused)
	assert.True(t, f.seq.Status().CanTrigger)
	prize := f.seq.Status().Current.Prize
	assert.NotEmpty(t, prize)

	require.True(t, f.seq.Trigger(ctx))
	assert.False(t, f.seq.Trigger(ctx), "number phase in flight")
	f.drain(t)
	f.waitPhase(t, domain.PhaseRevealed)
	assert.False(t, f.step(t), "stepwise reveal does not auto-clear")

	last, ok := f.pools.LastWinner()
	require.True(t, ok)
	assert.Equal(t, prize, last.Prize)

	require.True(t, f.seq.Trigger(ctx), "trigger while revealed starts the next draw")
	assert.Equal(t, domain.PhaseSpinningPrize, f.seq.Phase())
}

func TestStepwise_RevealedAndExhausted(t *testing.T) {
	cfg := domain.PoolConfig{Prizes: []string{"A"}, NumberStart: 1, NumberCount: 5}
	f := newFixture(t, domain.DrawModeStepwise, cfg)
	ctx := context.Background()

	require.True(t, f.seq.Trigger(ctx))
	f.drain(t)
	require.True(t, f.seq.Trigger(ctx))
	f.drain(t)
	f.waitPhase(t, domain.PhaseRevealed)
	assert.False(t, f.seq.Status().CanTrigger)

	assert.False(t, f.seq.Trigger(ctx))
	assert.Equal(t, domain.PhaseExhausted, f.seq.Phase())
}

func TestClose_StopsDrawAndRejectsCommands(t *testing.T) {
	f := newFixture(t, domain.DrawModeAuto, smallConfig)
	ctx := context.Background()

	require.True(t, f.seq.Trigger(ctx))
	f.stepN(t, 3)

	require.NoError(t, f.seq.Close(ctx))
	require.NoError(t, f.seq.Close(ctx))
	assert.False(t, f.step(t))
	assert.False(t, f.seq.Trigger(ctx))
	assert.ErrorIs(t, f.seq.Reset(ctx, smallConfig), domain.ErrSequencerClosed)
	assert.False(t, f.seq.Status().CanTrigger)
}

func TestStatus_Snapshot(t *testing.T) {
	f := newFixture(t, domain.DrawModeAuto, smallConfig)

	status := f.seq.Status()
	assert.Equal(t, domain.PhaseIdle, status.Phase)
	assert.Equal(t, domain.DrawModeAuto, status.Mode)
	assert.Equal(t, 3, status.RemainingPrizes)
	assert.Nil(t, status.LastWinner)

	require.True(t, f.seq.Trigger(context.Background()))
	f.stepN(t, prizePhaseSteps+1+NumberSpinTicks+1)
	f.waitPhase(t, domain.PhaseRevealed)

	status = f.seq.Status()
	require.NotNil(t, status.LastWinner)
	require.NotNil(t, status.Current.Winner)
	assert.Equal(t, *status.LastWinner, *status.Current.Winner)
	assert.Equal(t, 1, status.WinnerCount)
	assert.Equal(t, 2, status.Current.RemainingPrizes)
}

// MockPools is a mock implementation of Pools
type MockPools struct {
	mock.Mock
}

func (m *MockPools) CurrentPrizes() []string { return m.Called().Get(0).([]string) }
func (m *MockPools) CurrentNumbers() []int   { return m.Called().Get(0).([]int) }
func (m *MockPools) Commit(prize string, number int) (domain.Winner, error) {
	args := m.Called(prize, number)
	return args.Get(0).(domain.Winner), args.Error(1)
}
func (m *MockPools) Reset(prizes []string, numbers []int) { m.Called(prizes, numbers) }
func (m *MockPools) IsExhausted() bool                    { return m.Called().Bool(0) }
func (m *MockPools) RemainingPrizeCount() int             { return m.Called().Int(0) }
func (m *MockPools) RemainingNumberCount() int            { return m.Called().Int(0) }
func (m *MockPools) History() []domain.Winner             { return m.Called().Get(0).([]domain.Winner) }
func (m *MockPools) LastWinner() (domain.Winner, bool) {
	args := m.Called()
	return args.Get(0).(domain.Winner), args.Bool(1)
}
func (m *MockPools) WinnerCount() int { return m.Called().Int(0) }

func TestCommit_ErrorFromPoolsIsNotRecorded(t *testing.T) {
	pools := new(MockPools)
	pools.On("IsExhausted").Return(false)
	pools.On("RemainingPrizeCount").Return(1)
	pools.On("RemainingNumberCount").Return(1)
	pools.On("CurrentPrizes").Return([]string{"A"})
	pools.On("CurrentNumbers").Return([]int{5})
	pools.On("Commit", "A", 5).Return(domain.Winner{}, errors.Join(domain.ErrPoolInconsistency, domain.ErrNotFound))

	clock := clockwork.NewFakeClock()
	bus := event.NewMemoryBus()
	rec := newRecorder(bus)
	seq, err := NewSequencer(pools, bus, clock, random.NewSeededSource(3), domain.DrawModeAuto)
	require.NoError(t, err)
	defer func() { _ = seq.Close(context.Background()) }()

	require.True(t, seq.Trigger(context.Background()))
	f := &fixture{seq: seq, clock: clock, rec: rec}
	f.drain(t)
	f.waitPhase(t, domain.PhaseIdle)

	pools.AssertCalled(t, "Commit", "A", 5)
	pools.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
	assert.Len(t, rec.ofType(event.RaffleDrawAborted), 1)
}
