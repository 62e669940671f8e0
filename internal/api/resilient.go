package api

import (
	"context"
	"errors"
	"fmt"
)

// Candidate is one ranked way of producing a T.
type Candidate[T any] struct {
	Name  string
	Fetch func(ctx context.Context) (T, error)
}

// FirstSuccess tries candidates in order and returns the first successful result.
// Failures before the last candidate are reported to onFallback only; the last
// failure is returned.
func FirstSuccess[T any](ctx context.Context, onFallback FallbackHook, candidates ...Candidate[T]) (T, error) {
	var zero T
	if len(candidates) == 0 {
		return zero, errors.New("no candidates")
	}
	var lastErr error
	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		v, err := c.Fetch(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = fmt.Errorf("%s: %w", c.Name, err)
		if i < len(candidates)-1 && onFallback != nil {
			onFallback(c.Name, err)
		}
	}
	return zero, lastErr
}
