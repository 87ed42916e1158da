// Package pool owns the prize pool, the number pool and the winner history of a raffle.
//
// Both pools are copy-on-write: every removal installs a fresh slice, so a
// snapshot returned by CurrentPrizes or CurrentNumbers stays valid for the
// whole draw that captured it. Callers must not mutate returned slices.
package pool

import (
	"fmt"
	"slices"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/tombola/internal/domain"
)

// Manager holds the two shrinking pools and the append-only winner log
type Manager struct {
	mu      sync.RWMutex
	clock   clockwork.Clock
	prizes  []string
	numbers []int           // ascending, distinct
	history []domain.Winner // most recent first
	lastID  int64
}

// NewManager creates a manager loaded with the given configuration
func NewManager(clock clockwork.Clock, cfg domain.PoolConfig) *Manager {
	m := &Manager{clock: clock}
	m.Reset(cfg.Prizes, cfg.Numbers())
	return m
}

// CurrentPrizes returns the live prize pool in configured order.
func (m *Manager) CurrentPrizes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prizes
}

// CurrentNumbers returns the live number pool in ascending order.
func (m *Manager) CurrentNumbers() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.numbers
}

// RemainingPrizeCount returns the number of prizes left to draw
func (m *Manager) RemainingPrizeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.prizes)
}

// RemainingNumberCount returns the number of numbers left to draw
func (m *Manager) RemainingNumberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.numbers)
}

// IsExhausted reports whether either pool is empty.
func (m *Manager) IsExhausted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.prizes) == 0 || len(m.numbers) == 0
}

// RemoveOnePrizeInstance removes the first occurrence of value by pool order.
// Other occurrences of the same name stay in the pool.
func (m *Manager) RemoveOnePrizeInstance(value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := slices.Index(m.prizes, value)
	if idx < 0 {
		return fmt.Errorf("%w: prize %q", domain.ErrNotFound, value)
	}
	m.removePrizeAt(idx)
	return nil
}

// RemoveNumber removes value from the number pool
func (m *Manager) RemoveNumber(value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, found := slices.BinarySearch(m.numbers, value)
	if !found {
		return fmt.Errorf("%w: number %d", domain.ErrNotFound, value)
	}
	m.removeNumberAt(idx)
	return nil
}

// RecordWinner appends a new record to the front of the history and returns it.
func (m *Manager) RecordWinner(prize string, number int) domain.Winner {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordWinner(prize, number)
}

// Commit applies one committed draw as a single step: it removes one instance
// of prize, removes number and records the winner. Both values are checked
// before anything is mutated, so a failed commit leaves pools and history untouched.
func (m *Manager) Commit(prize string, number int) (domain.Winner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prizeIdx := slices.Index(m.prizes, prize)
	if prizeIdx < 0 {
		return domain.Winner{}, fmt.Errorf("%w: %w: prize %q", domain.ErrPoolInconsistency, domain.ErrNotFound, prize)
	}
	numberIdx, found := slices.BinarySearch(m.numbers, number)
	if !found {
		return domain.Winner{}, fmt.Errorf("%w: %w: number %d", domain.ErrPoolInconsistency, domain.ErrNotFound, number)
	}

	m.removePrizeAt(prizeIdx)
	m.removeNumberAt(numberIdx)
	return m.recordWinner(prize, number), nil
}

// Reset replaces both pools with fresh copies and clears the history.
// Winner ids keep increasing across resets.
func (m *Manager) Reset(prizes []string, numbers []int) {
	nextNumbers := slices.Clone(numbers)
	slices.Sort(nextNumbers)
	nextNumbers = slices.Compact(nextNumbers)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.prizes = slices.Clone(prizes)
	if m.prizes == nil {
		m.prizes = []string{}
	}
	m.numbers = nextNumbers
	if m.numbers == nil {
		m.numbers = []int{}
	}
	m.history = nil
}

// History returns a copy of the winner log, most recent first.
func (m *Manager) History() []domain.Winner {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Winner, len(m.history))
	copy(out, m.history)
	return out
}

// LastWinner returns the most recent winner, if any
func (m *Manager) LastWinner() (domain.Winner, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.history) == 0 {
		return domain.Winner{}, false
	}
	return m.history[0], true
}

// WinnerCount returns the length of the history
func (m *Manager) WinnerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.history)
}

func (m *Manager) removePrizeAt(idx int) {
	next := make([]string, 0, len(m.prizes)-1)
	next = append(next, m.prizes[:idx]...)
	m.prizes = append(next, m.prizes[idx+1:]...)
}

func (m *Manager) removeNumberAt(idx int) {
	next := make([]int, 0, len(m.numbers)-1)
	next = append(next, m.numbers[:idx]...)
	m.numbers = append(next, m.numbers[idx+1:]...)
}

func (m *Manager) recordWinner(prize string, number int) domain.Winner {
	m.lastID++
	w := domain.Winner{
		ID:      m.lastID,
		Prize:   prize,
		Number:  number,
		DrawnAt: m.clock.Now(),
	}
	next := make([]domain.Winner, 0, len(m.history)+1)
	next = append(next, w)
	m.history = append(next, m.history...)
	return w
}
