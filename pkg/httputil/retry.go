// Package httputil carries the retry layer shared by registry clients.
package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure as transient. Registry clients wrap
// timeouts and 5xx responses in it; [Retry] re-attempts only errors that
// unwrap to this type.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn until it succeeds, fails permanently, or attempts run
// out, returning the last error. The wait between attempts starts at
// initial and doubles each time; a cancelled context interrupts the wait
// and returns ctx.Err().
func Retry(ctx context.Context, attempts int, initial time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	delay := initial

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !errors.As(err, new(*RetryableError)) || attempt == attempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}

// RetryWithBackoff runs fn with the defaults registry clients use: three
// attempts, one second initial delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}
