package utils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRetryExhausted is returned (wrapped) once every attempt has failed.
var ErrRetryExhausted = errors.New("retry attempts exhausted")

// RetryConfig holds the parameters for the retry strategy.
//
// Multiplier scales the delay after every failed attempt; 0 or 1 keeps a fixed
// interval. Sleep defaults to a context-aware timer and may be replaced in tests.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	Logger      *Logger
	Sleep       func(ctx context.Context, d time.Duration) error
}

// Fixed returns a RetryConfig that waits the same interval between attempts.
func Fixed(attempts int, interval time.Duration, logger *Logger) *RetryConfig {
	return &RetryConfig{MaxAttempts: attempts, BaseDelay: interval, Multiplier: 1, Logger: logger}
}

// Do executes fn until it succeeds, ctx is done, or MaxAttempts is reached.
// The attempt counter is the only loop state, so termination is bounded by
// MaxAttempts regardless of what fn does.
func (r *RetryConfig) Do(ctx context.Context, operationName string, fn func(attempt int) error) error {
	var lastErr error
	delay := r.BaseDelay
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}

		if attempt < r.MaxAttempts {
			if r.Logger != nil {
				r.Logger.Debug("[retry] %s failed (attempt %d/%d): %v, retrying in %v",
					operationName, attempt, r.MaxAttempts, lastErr, delay)
			}
			if err := sleep(ctx, delay); err != nil {
				return fmt.Errorf("%s interrupted after %d attempts: %w", operationName, attempt, err)
			}
			if r.Multiplier > 1 {
				delay = time.Duration(float64(delay) * r.Multiplier)
			}
		}
	}

	if lastErr == nil {
		return fmt.Errorf("%s: %w", operationName, ErrRetryExhausted)
	}
	return fmt.Errorf("%s failed after %d attempts: %w: %w", operationName, r.MaxAttempts, ErrRetryExhausted, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
