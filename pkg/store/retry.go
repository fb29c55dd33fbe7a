package store

import (
	"context"
	"errors"
	"time"
)

// transientError marks a backend failure worth retrying, such as a
// dropped connection or a timeout during failover.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// transient marks err as retryable. It returns nil for nil.
func transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// backoff retries transient failures with a doubling delay.
type backoff struct {
	attempts int
	delay    time.Duration
}

// remoteBackoff is used by the redis and mongo stores. Tests shorten it.
var remoteBackoff = backoff{attempts: 3, delay: 200 * time.Millisecond}

// do calls fn until it succeeds, fails with a non-transient error, runs
// out of attempts or ctx ends. The transient marker is stripped from the
// returned error.
func (b backoff) do(ctx context.Context, fn func() error) error {
	delay := b.delay
	for attempt := 1; ; attempt++ {
		err := fn()
		var te *transientError
		if !errors.As(err, &te) {
			return err
		}
		if attempt >= b.attempts {
			return te.err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
