package database

import (
	"context"
	"fmt"
	"time"

	"woundcare-workers/internal/common/logger"
)

// RetryWithBackoff runs operation up to maxAttempts times, doubling the delay
// after each failure. It stops early when ctx is done.
func RetryWithBackoff(ctx context.Context, log logger.Logger, name string, maxAttempts int, initialDelay time.Duration, operation func(context.Context) error) error {
	var err error
	delay := initialDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = operation(ctx); err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}

		log.Warn(name+" failed, retrying", map[string]interface{}{
			"error":       err,
			"attempt":     attempt,
			"maxAttempts": maxAttempts,
			"nextRetryIn": delay.String(),
		})

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled after %d attempts: %w", name, attempt, ctx.Err())
		}
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", name, maxAttempts, err)
}
