package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork is returned when a remote backend cannot be reached.
var ErrNetwork = errors.New("network error")

// retryDelays are the pauses between attempts of a remote cache operation.
// A cache is an optimization, so the total wait stays well under a second.
var retryDelays = []time.Duration{100 * time.Millisecond, 400 * time.Millisecond}

// transientError marks a backend failure that may succeed when repeated.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// transient marks err as worth retrying. It returns nil for nil.
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

// retry runs op until it succeeds, fails with a non-transient error, or
// the delays in retryDelays are used up. ctx cuts the waits short.
func retry(ctx context.Context, op func() error) error {
	err := op()
	for _, d := range retryDelays {
		if err == nil || !isTransient(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
		err = op()
	}
	return err
}
