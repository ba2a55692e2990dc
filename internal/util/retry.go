package util

import (
	"context"
	"errors"
)

// RetryWithContext calls fn up to maxTries times until it returns a nil error,
// stopping early when the context is cancelled or a deadline is exceeded.
// If maxTries <= 0, it defaults to 1. Returns the last error if all attempts fail.
func RetryWithContext[T any](ctx context.Context, maxTries int, fn func(context.Context) (T, error)) (T, error) {
	if maxTries <= 0 {
		maxTries = 1
	}
	var lastErr error
	var zero T
	for i := 0; i < maxTries; i++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		lastErr = err
	}
	return zero, lastErr
}
