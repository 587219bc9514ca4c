package utils

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// Retry runs fn up to maxRetries times, doubling the wait after each failure
// (1s, 2s, 4s, ...). It gives up early when ctx is done and returns the last error.
//
// Usage:
//
//	err := utils.Retry(ctx, 3, time.Second, func() error {
//	    return download(ctx, url)
//	})
func Retry(ctx context.Context, maxRetries int, initial time.Duration, fn func() error) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	wait := initial

	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < maxRetries {
			Warn("Attempt %d/%d failed: %v, retrying in %v", attempt, maxRetries, lastErr, wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), "retry interrupted")
			}
			wait *= 2
		}
	}

	return errors.Wrapf(lastErr, "all %d attempts failed", maxRetries)
}
