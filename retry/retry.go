// Package retry implements the bounded retry-with-backoff policy used for all
// outbound venue calls. Only errors classified transient are retried; backoff
// waits are context-cancellable so shutdown latency is bounded by one backoff
// step, not the full delay ladder.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Policy controls how many attempts a logical call gets and how long to wait
// between them. Delay before retry n (0-based) is
// min(BaseDelay * Factor^n, MaxDelay).
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	Factor     float64
	MaxDelay   time.Duration
}

// DefaultPolicy matches the production defaults: up to 6 physical attempts,
// 1s base delay growing by 1.5x, capped at 60s.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 5,
		BaseDelay:  time.Second,
		Factor:     1.5,
		MaxDelay:   60 * time.Second,
	}
}

// Delay returns the backoff wait before retry attempt n (0-based).
// TODO: add jitter if multiple instances ever share an endpoint; without it
// simultaneous bots retry in lockstep.
func (p Policy) Delay(attempt int) time.Duration {
	d := time.Duration(float64(p.BaseDelay) * math.Pow(p.Factor, float64(attempt)))
	if d > p.MaxDelay || d < 0 {
		d = p.MaxDelay
	}
	return d
}

// transientError marks an error as retryable.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// permanentError marks an error as not worth retrying.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Transient wraps err so Do will retry it.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// Permanent wraps err so Do returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Do runs fn until it succeeds, fails permanently, or the attempt budget is
// exhausted. At most MaxRetries+1 physical attempts are made. A failed final
// attempt returns the last transient error; callers must treat a failed write
// as unknown outcome and reconcile from fresh venue state.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	var last error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, p.Delay(attempt-1)); err != nil {
				return err
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		last = err
	}
	return fmt.Errorf("retries exhausted after %d attempts: %w", p.MaxRetries+1, last)
}

// sleep waits for d or until ctx is cancelled, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
