// Package retry runs remote calls under a bounded exponential-backoff policy
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy describes how many times to try a call and how long to wait in between.
// The wait after failed attempt n (counting from zero) is BaseDelay * 2^n,
// capped at MaxDelay.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// Sleep waits between attempts. Defaults to a context-aware timer; tests
	// replace it to observe delays without waiting.
	Sleep func(ctx context.Context, d time.Duration) error

	// OnRetry is called after a failed attempt that will be retried
	OnRetry func(attempt int, delay time.Duration, err error)
}

// Default returns the policy used for model calls: 2 attempts, 500ms base delay
func Default() Policy {
	return Policy{MaxAttempts: 2, BaseDelay: 500 * time.Millisecond}
}

// ExhaustedError is returned when every attempt failed
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Permanent marks an error that must not be retried
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// MaxDelay caps the doubled wait. A BaseDelay above it is used as is.
const MaxDelay = time.Minute

// Delay returns the wait after failed attempt n (zero-based)
func (p Policy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	if d <= 0 {
		return 0
	}
	limit := max(MaxDelay, d)
	for i := 0; i < attempt && d < limit; i++ {
		d *= 2
	}
	return min(d, limit)
}

// Do runs fn until it succeeds, returns a permanent error, the context is
// cancelled, or MaxAttempts is reached. fn receives the zero-based attempt.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var last error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		last = fn(ctx, attempt)
		if last == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(last, &perm) {
			return perm.err
		}

		if attempt < attempts-1 {
			delay := p.Delay(attempt)
			if p.OnRetry != nil {
				p.OnRetry(attempt, delay, last)
			}
			if err := sleep(ctx, delay); err != nil {
				return err
			}
		}
	}

	return &ExhaustedError{Attempts: attempts, Last: last}
}

// DoValue is Do for calls that produce a value
func DoValue[T any](ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var result T
	err := p.Do(ctx, func(ctx context.Context, attempt int) error {
		v, err := fn(ctx, attempt)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
