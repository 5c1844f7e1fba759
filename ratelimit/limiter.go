// Package ratelimit implements a fixed-window budget for remote model calls.
//
// The window is checked lazily: nobody resets it on a timer, the elapsed
// time is evaluated on each CheckAndConsume call. A slot is consumed before
// the remote call is made, so a failed call still spends budget. That is
// intentional: failing calls hit the remote endpoint too.
package ratelimit

import (
	"sync"
	"time"

	"go_renamer/core"
)

// DefaultWindow is the budget window length.
const DefaultWindow = time.Minute

// Limiter is a fixed-window counter, safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	ceiling int
	window  time.Duration
	clock   func() time.Time

	windowStart time.Time
	count       int
}

// New creates a Limiter allowing ceiling calls per minute.
func New(ceiling int) *Limiter {
	return NewWithClock(ceiling, DefaultWindow, time.Now)
}

// NewWithClock creates a Limiter with an explicit window and clock, for tests.
func NewWithClock(ceiling int, window time.Duration, clock func() time.Time) *Limiter {
	if ceiling < 1 {
		ceiling = 1
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		ceiling: ceiling,
		window:  window,
		clock:   clock,
	}
}

// CheckAndConsume takes one slot from the current window. When the window
// has elapsed it resets first. At the ceiling it returns a rate-limit error
// carrying the time remaining until the window rolls over.
func (l *Limiter) CheckAndConsume() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	elapsed := now.Sub(l.windowStart)
	if l.windowStart.IsZero() || elapsed >= l.window {
		l.windowStart = now
		l.count = 0
		elapsed = 0
	}

	if l.count >= l.ceiling {
		return core.ErrRateLimited(l.window - elapsed)
	}

	l.count++
	return nil
}

// Remaining reports how many slots are left in the current window.
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if l.windowStart.IsZero() || now.Sub(l.windowStart) >= l.window {
		return l.ceiling
	}
	left := l.ceiling - l.count
	if left < 0 {
		return 0
	}
	return left
}
