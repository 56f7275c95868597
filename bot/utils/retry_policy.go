package utils

import (
	"context"
	"time"
)

// RetryPolicy defines retry behavior
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// NewRetryPolicy creates a new retry policy
func NewRetryPolicy(maxRetries int, baseDelay, maxDelay time.Duration) *RetryPolicy {
	return &RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  baseDelay,
		MaxDelay:   maxDelay,
	}
}

// DefaultRetryPolicy returns a default retry policy
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries: 5,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// CalculateDelay calculates exponential backoff delay for retry attempt
func (r *RetryPolicy) CalculateDelay(attempt int) time.Duration {
	if attempt >= r.MaxRetries {
		return r.MaxDelay
	}
	return ExponentialBackoff(attempt, r.BaseDelay, r.MaxDelay)
}

// Execute runs fn until it succeeds, the attempts run out or ctx is done.
// onRetry, if set, is called after each failed attempt that will be retried.
func (r *RetryPolicy) Execute(ctx context.Context, fn func(ctx context.Context) error, onRetry func(attempt int, delay time.Duration, err error)) error {
	var lastErr error
	for attempt := 0; attempt < r.MaxRetries; attempt++ {
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}

		if attempt < r.MaxRetries-1 {
			delay := r.CalculateDelay(attempt)
			if onRetry != nil {
				onRetry(attempt+1, delay, lastErr)
			}
			if err := Sleep(ctx, delay); err != nil {
				return lastErr
			}
		}
	}
	return lastErr
}
