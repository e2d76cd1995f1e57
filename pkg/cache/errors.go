package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks a Redis round trip that failed below the protocol level,
// such as a refused dial or a read timeout.
var ErrNetwork = errors.New("cache: redis unreachable")

// RetryableError marks a cache failure that may clear on its own. Layout and
// artifact lookups are retried only when they fail with one.
type RetryableError struct{ Err error }

// Retryable marks err for RetryWithBackoff. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error reports the underlying cache failure unchanged.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or anything it wraps, came from Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff runs a cache operation at most three times, starting with
// delay between attempts and doubling it. Other errors return immediately,
// so a miss or a decode failure never waits.
func RetryWithBackoff(ctx context.Context, delay time.Duration, fn func() error) error {
	const attempts = 3
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
