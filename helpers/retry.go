package helpers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Retry calls fn up to maxAttempts times with exponential backoff
// (baseDelay * 2^attempt). fn always runs at least once, and the loop stops
// early when ctx is done. Failed attempts are logged on logger when it is
// not nil.
func Retry(ctx context.Context, logger logrus.FieldLogger, maxAttempts int, baseDelay time.Duration, fn func() error) error {
	maxAttempts = max(maxAttempts, 1)
	var lastErr error
	for attempt := range maxAttempts {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if logger != nil {
			logger.WithFields(logrus.Fields{
				"operation":    "retry",
				"attempt":      attempt + 1,
				"max_attempts": maxAttempts,
			}).WithError(lastErr).Warn("retry attempt failed")
		}

		if attempt == maxAttempts-1 {
			break
		}

		timer := time.NewTimer(baseDelay * (1 << attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
