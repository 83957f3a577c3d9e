package pipeline

import (
	"context"
	"time"

	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

// retryWithBackoff retries an operation with exponential backoff. Only the
// embedding and store stages go through here; every other stage failure is
// treated as permanent and surfaces immediately.
func retryWithBackoff(ctx context.Context, log *logger_i.Logger, maxAttempts int, baseDelay time.Duration, operation func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				log.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		if attempt == maxAttempts {
			break
		}

		delay := baseDelay << (attempt - 1)
		log.Warn("operation failed, retrying", "attempt", attempt, "maxAttempts", maxAttempts, "delay", delay, "error", lastErr)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
