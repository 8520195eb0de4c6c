// Package resilience provides the call-protection primitives wrapped around
// remote model attempts: a circuit breaker, a quota/rate governor, and a
// bounded retry combinator.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrBreakerOpen is returned when the breaker short-circuits an attempt
// without invoking the remote call.
var ErrBreakerOpen = errors.New("circuit breaker open: service unavailable")

// BreakerState is the tri-state of the circuit breaker.
type BreakerState int

// Breaker states.
const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// Breaker is a tri-state failure isolator. All remote calls must pass
// through Attempt; callers never bypass it.
type Breaker struct {
	mu               sync.Mutex
	state            BreakerState
	failureCount     int
	failureThreshold int
	coolDown         time.Duration
	nextRetry        time.Time
	now              func() time.Time
}

// NewBreaker creates a closed breaker. A non-positive threshold or cool-down
// falls back to the defaults (3 failures, 60s).
func NewBreaker(failureThreshold int, coolDown time.Duration) *Breaker {
	if failureThreshold <= 0 {
		failureThreshold = 3
	}
	if coolDown <= 0 {
		coolDown = 60 * time.Second
	}
	return &Breaker{
		state:            StateClosed,
		failureThreshold: failureThreshold,
		coolDown:         coolDown,
		now:              time.Now,
	}
}

// Attempt runs call only if the breaker state permits, recording the outcome.
// While OPEN and inside the cool-down it returns ErrBreakerOpen without
// invoking call. At most one trial call runs while HALF-OPEN, regardless of
// how many goroutines arrive during the window.
func (b *Breaker) Attempt(call func() error) error {
	if err := b.acquire(); err != nil {
		return err
	}
	err := call()
	b.record(err)
	return err
}

// Ready reports whether an attempt would currently be permitted. It does not
// change state and is used for the orchestrator's fast-path availability check.
func (b *Breaker) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.now().Before(b.nextRetry) {
		return false
	}
	return true
}

// State returns the current breaker state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// acquire transitions state for a new attempt, or rejects it.
func (b *Breaker) acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		if b.now().Before(b.nextRetry) {
			return ErrBreakerOpen
		}
		// Cool-down elapsed: permit exactly one trial attempt.
		b.state = StateHalfOpen
		return nil
	default: // StateHalfOpen
		// A trial attempt is already in flight.
		return ErrBreakerOpen
	}
}

// record applies the attempt outcome to the state machine.
func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.state = StateClosed
		b.failureCount = 0
		return
	}

	b.failureCount++
	switch b.state {
	case StateHalfOpen:
		b.state = StateOpen
		b.nextRetry = b.now().Add(b.coolDown)
	default:
		if b.failureCount >= b.failureThreshold {
			b.state = StateOpen
			b.nextRetry = b.now().Add(b.coolDown)
		}
	}
}
