// Package retry runs an operation a bounded number of times with fixed or
// exponential backoff between attempts.
package retry

import (
	"context"
	"errors"
	"math"
	"time"
)

// Config controls retry behavior.
type Config struct {
	// Attempts is the total number of calls, the first one included.
	Attempts    int
	InitialWait time.Duration
	// MinWait raises every computed delay to at least this value.
	MinWait time.Duration
	MaxWait time.Duration
	// Multiplier grows the wait after each failure. Values <= 1 give a fixed delay.
	Multiplier float64
	// Retryable decides whether an error is worth another attempt. Nil retries
	// everything except context cancellation.
	Retryable func(error) bool
	// OnRetry is called after a failed attempt that will be retried.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// Fixed returns a Config retrying up to attempts times with a constant delay.
func Fixed(attempts int, delay time.Duration) Config {
	return Config{Attempts: attempts, InitialWait: delay, MaxWait: delay, Multiplier: 1}
}

// Exponential returns a Config whose delay doubles from min up to max.
func Exponential(attempts int, min, max time.Duration) Config {
	return Config{Attempts: attempts, InitialWait: min, MaxWait: max, Multiplier: 2}
}

// Do calls fn until it succeeds, returns a non-retryable error, the context is
// done, or Attempts calls were made. The last error is returned unchanged.
func Do[T any](ctx context.Context, cfg Config, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !cfg.retryable(err) || attempt == attempts {
			break
		}

		wait := cfg.wait(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, wait, err)
		}
		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		}
	}
	return zero, lastErr
}

func (c Config) retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if c.Retryable == nil {
		return true
	}
	return c.Retryable(err)
}

// wait returns the delay after the given (1-based) failed attempt.
func (c Config) wait(attempt int) time.Duration {
	mult := c.Multiplier
	if mult < 1 {
		mult = 1
	}
	wait := time.Duration(float64(c.InitialWait) * math.Pow(mult, float64(attempt-1)))
	if wait < c.MinWait {
		wait = c.MinWait
	}
	if c.MaxWait > 0 && wait > c.MaxWait {
		wait = c.MaxWait
	}
	return wait
}
