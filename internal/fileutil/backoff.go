package fileutil

import (
	"context"
	"errors"
	"os"
	"time"
)

// BackoffPolicy describes an exponential retry schedule.
type BackoffPolicy struct {
	Attempts   int
	BaseDelay  time.Duration
	Multiplier float64
	// MaxTotal caps the cumulative sleep time across attempts. Zero means
	// uncapped.
	MaxTotal time.Duration
}

// DefaultRemovePolicy is tuned for transient file locks during cleanup.
var DefaultRemovePolicy = BackoffPolicy{
	Attempts:   5,
	BaseDelay:  200 * time.Millisecond,
	Multiplier: 2,
	MaxTotal:   10 * time.Second,
}

// Retry invokes fn until it succeeds, the schedule is exhausted, or the
// context is cancelled. The last error is returned on failure.
func (p BackoffPolicy) Retry(ctx context.Context, fn func() error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	delay := p.BaseDelay
	var slept time.Duration
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		if p.MaxTotal > 0 && slept+delay > p.MaxTotal {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		slept += delay
		delay = time.Duration(float64(delay) * multiplier)
	}
	return lastErr
}

// RemoveWithRetry deletes path using the policy, tolerating transient locks.
// A missing file counts as success.
func RemoveWithRetry(ctx context.Context, path string, policy BackoffPolicy) error {
	return policy.Retry(ctx, func() error {
		err := os.Remove(path)
		if err == nil || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	})
}
