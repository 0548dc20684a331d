// Package retry runs lookups that may briefly miss a row written by another
// request, distinguishing "still not there" from real failures.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Outcome int

const (
	Found Outcome = iota
	NotFound
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	default:
		return "failed"
	}
}

type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

type Result[T any] struct {
	Value    T
	Outcome  Outcome
	Attempts int
	Err      error
}

// Do calls fn up to MaxAttempts times with a constant delay, retrying only
// while isNotFound(err) holds. Any other error stops immediately as Failed.
func Do[T any](ctx context.Context, policy Policy, fn func(context.Context) (T, error), isNotFound func(error) bool) Result[T] {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var result Result[T]
	operation := func() error {
		result.Attempts++
		value, err := fn(ctx)
		if err == nil {
			result.Value = value
			return nil
		}
		if isNotFound != nil && isNotFound(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(policy.Delay), uint64(attempts-1)),
		ctx,
	)

	err := backoff.Retry(operation, b)
	switch {
	case err == nil:
		result.Outcome = Found
	case isNotFound != nil && isNotFound(err):
		result.Outcome = NotFound
		result.Err = err
	default:
		result.Outcome = Failed
		result.Err = err
	}
	return result
}
