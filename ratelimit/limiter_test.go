package ratelimit

import (
	"errors"
	"sync"
	"testing"
	"time"

	"go_renamer/core"
)

// fakeClock is a manually advanced clock for window tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCheckAndConsumeWithinBudget(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(3, time.Minute, clock.Now)

	for i := 0; i < 3; i++ {
		if err := l.CheckAndConsume(); err != nil {
			t.Fatalf("call %d: unexpected error %v", i, err)
		}
	}
	if err := l.CheckAndConsume(); err == nil {
		t.Fatal("call past ceiling should fail")
	}
}

func TestCeilingErrorCarriesRetryAfter(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(1, time.Minute, clock.Now)

	if err := l.CheckAndConsume(); err != nil {
		t.Fatalf("first call: %v", err)
	}
	clock.Advance(20 * time.Second)

	err := l.CheckAndConsume()
	if !core.IsKind(err, core.KindRateLimit) {
		t.Fatalf("kind = %v, want rate_limit", core.KindOf(err))
	}
	var tagged *core.Error
	if !errors.As(err, &tagged) {
		t.Fatal("error is not a tagged core.Error")
	}
	if tagged.RetryAfter != 40*time.Second {
		t.Errorf("RetryAfter = %v, want 40s", tagged.RetryAfter)
	}
}

func TestWindowResetsAfterElapse(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(2, time.Minute, clock.Now)

	l.CheckAndConsume()
	l.CheckAndConsume()
	if err := l.CheckAndConsume(); err == nil {
		t.Fatal("budget should be exhausted")
	}

	clock.Advance(time.Minute)
	if err := l.CheckAndConsume(); err != nil {
		t.Fatalf("call after window elapse should succeed, got %v", err)
	}
}

func TestRemaining(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(5, time.Minute, clock.Now)

	if got := l.Remaining(); got != 5 {
		t.Errorf("fresh Remaining() = %d, want 5", got)
	}

	l.CheckAndConsume()
	l.CheckAndConsume()
	if got := l.Remaining(); got != 3 {
		t.Errorf("Remaining() = %d, want 3", got)
	}

	clock.Advance(time.Minute)
	if got := l.Remaining(); got != 5 {
		t.Errorf("Remaining() after elapse = %d, want 5", got)
	}
}

func TestConcurrentConsume(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(10, time.Minute, clock.Now)

	var wg sync.WaitGroup
	errs := make([]error, 25)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = l.CheckAndConsume()
		}(i)
	}
	wg.Wait()

	granted := 0
	for _, err := range errs {
		if err == nil {
			granted++
		}
	}
	if granted != 10 {
		t.Errorf("granted = %d, want exactly the ceiling", granted)
	}
}

func TestDegenerateCeiling(t *testing.T) {
	l := NewWithClock(0, time.Minute, newFakeClock().Now)
	if err := l.CheckAndConsume(); err != nil {
		t.Fatalf("ceiling clamps to 1, first call should pass: %v", err)
	}
	if err := l.CheckAndConsume(); err == nil {
		t.Fatal("second call should fail with clamped ceiling")
	}
}
