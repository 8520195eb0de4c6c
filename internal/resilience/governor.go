package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrQuotaExhausted is returned when the daily call ceiling has been reached
// for the current calendar day.
var ErrQuotaExhausted = errors.New("daily call quota exhausted")

// Governor tracks the per-process remote-call budget: a minimum inter-call
// interval and a daily ceiling that resets on calendar-day transitions. It
// is deliberately conservative; the ceiling exists to pre-empt provider-side
// quota errors, not to mirror the provider's real limit.
type Governor struct {
	mu          sync.Mutex
	minInterval time.Duration
	dailyLimit  int
	lastCall    time.Time
	dailyCount  int
	countDate   string // calendar date (YYYY-MM-DD) the counter belongs to
	now         func() time.Time
}

// NewGovernor creates a governor. Non-positive arguments fall back to the
// defaults (1s spacing, 15 calls per day).
func NewGovernor(minInterval time.Duration, dailyLimit int) *Governor {
	if minInterval <= 0 {
		minInterval = time.Second
	}
	if dailyLimit <= 0 {
		dailyLimit = 15
	}
	return &Governor{
		minInterval: minInterval,
		dailyLimit:  dailyLimit,
		now:         time.Now,
	}
}

// Exhausted reports whether the daily ceiling has been reached for the
// current calendar day. The counter and its date reset together the first
// time a new day is observed, never mid-day.
func (g *Governor) Exhausted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rollDate()
	return g.dailyCount >= g.dailyLimit
}

// ReserveSlot waits until the minimum inter-call interval has elapsed since
// the last reservation, then claims a slot against the daily counter. It
// returns ErrQuotaExhausted when the ceiling is reached and the context's
// error if cancelled while waiting.
func (g *Governor) ReserveSlot(ctx context.Context) error {
	for {
		g.mu.Lock()
		g.rollDate()
		if g.dailyCount >= g.dailyLimit {
			g.mu.Unlock()
			return ErrQuotaExhausted
		}
		wait := g.minInterval - g.now().Sub(g.lastCall)
		if wait <= 0 {
			g.lastCall = g.now()
			g.dailyCount++
			g.mu.Unlock()
			return nil
		}
		g.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// CallsToday returns the current daily counter, rolling the date first.
func (g *Governor) CallsToday() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rollDate()
	return g.dailyCount
}

// rollDate resets the counter when a calendar-day transition is observed.
// Callers must hold g.mu.
func (g *Governor) rollDate() {
	today := g.now().Format("2006-01-02")
	if g.countDate != today {
		g.countDate = today
		g.dailyCount = 0
	}
}
