// Package retry wraps fallible operations with bounded exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config controls the retry schedule. The delay before attempt n is
// MinTimeout * Factor^(n-1), with no jitter.
type Config struct {
	Retries    int
	MinTimeout time.Duration
	Factor     float64
}

// DefaultConfig matches the storage layer's production settings.
func DefaultConfig() Config {
	return Config{Retries: 3, MinTimeout: 200 * time.Millisecond, Factor: 2}
}

// Error is returned after all attempts are exhausted. It carries the attempt
// count and wraps the last error the operation returned.
type Error struct {
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// PermanentError marks an error that must not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so Do stops retrying immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err carries a PermanentError marker.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

// Do executes op, retrying transient failures per cfg. The operation runs at
// most cfg.Retries+1 times. A PermanentError stops the loop at once, and a
// canceled ctx stops it at the next backoff wait. On terminal failure Do
// returns an *Error wrapping the last operation error.
func Do(ctx context.Context, cfg Config, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.MinTimeout
	bo.Multiplier = cfg.Factor
	bo.RandomizationFactor = 0
	bo.MaxInterval = cfg.MinTimeout * time.Duration(1<<uint(cfg.Retries+1))
	bo.MaxElapsedTime = 0

	var attempts int
	var lastErr error

	err := backoff.Retry(func() error {
		attempts++
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err
		if IsPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(cfg.Retries)), ctx))
	if err == nil {
		return nil
	}
	if lastErr == nil {
		// Context canceled before the first attempt ran.
		lastErr = err
	}
	return &Error{Attempts: attempts, Err: lastErr}
}
