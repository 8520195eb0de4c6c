package resilience

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds the retry loop around a remote attempt. Only failures
// the classifier reports as transient are retried; everything else fails the
// attempt immediately.
type RetryPolicy struct {
	MaxAttempts     int           // total attempts, including the first
	InitialInterval time.Duration // first backoff delay
	MaxInterval     time.Duration // backoff ceiling
}

// DefaultRetryPolicy allows one retry after a short exponential backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     2,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// WithRetry runs attempt up to policy.MaxAttempts times, backing off
// exponentially between tries. isTransient decides whether a failure is
// worth retrying. The loop always terminates: attempts are bounded and
// context cancellation stops the backoff wait.
func WithRetry(ctx context.Context, policy RetryPolicy, isTransient func(error) bool, attempt func() error) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = 500 * time.Millisecond
	}
	if policy.MaxInterval <= 0 {
		policy.MaxInterval = 5 * time.Second
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = policy.InitialInterval
	expo.MaxInterval = policy.MaxInterval

	bo := backoff.WithContext(
		backoff.WithMaxRetries(expo, uint64(policy.MaxAttempts-1)),
		ctx,
	)

	return backoff.Retry(func() error {
		err := attempt()
		if err == nil {
			return nil
		}
		if isTransient != nil && !isTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, bo)
}
