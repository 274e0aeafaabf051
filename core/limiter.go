package core

import (
	"errors"
	"fmt"
	"sync"
)

// ErrTurnLimit is returned once a TurnLimiter has no turns left.
var ErrTurnLimit = errors.New("turn limit exceeded")

// TurnLimiter caps the number of model turns a conversation may start.
type TurnLimiter struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewTurnLimiter creates a limiter allowing max turns. Zero means unlimited.
func NewTurnLimiter(max int) *TurnLimiter {
	return &TurnLimiter{max: max}
}

// Acquire reserves one turn. The reservation is not released on failure.
func (l *TurnLimiter) Acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.max > 0 && l.count >= l.max {
		return fmt.Errorf("%w: %d", ErrTurnLimit, l.max)
	}
	l.count++
	return nil
}

// Count returns the number of turns started so far.
func (l *TurnLimiter) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.count
}

// Remaining returns how many turns are left, or -1 when unlimited.
func (l *TurnLimiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.max == 0 {
		return -1
	}
	return l.max - l.count
}
