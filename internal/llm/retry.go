package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	retryAttempts  = 3
	retryBaseDelay = 10 * time.Second
)

// transientMarkers are substrings of upstream error messages that indicate
// a condition worth retrying. Anything else fails fast.
var transientMarkers = []string{
	"rate limit",
	"rate_limit",
	"429",
	"500",
	"502",
	"503",
	"504",
	"overloaded",
	"service unavailable",
	"serviceunavailable",
	"timeout",
	"deadline exceeded",
	"connection reset",
}

// IsTransient reports whether err looks like a transient upstream failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// Sleeper pauses for the given duration. Tests substitute a recording
// implementation; production code uses WaitSleeper.
type Sleeper func(ctx context.Context, d time.Duration) error

// WaitSleeper blocks for d or until the context is cancelled.
func WaitSleeper(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// RetryTransient runs fn up to three times, backing off 10s, 20s between
// attempts, but only when the failure is classified transient. Upstream
// calls here can be slow and expensive; the delays are deliberately long.
// Non-transient errors propagate immediately.
func RetryTransient[T any](ctx context.Context, logger *slog.Logger, sleep Sleeper, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < retryAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !IsTransient(err) {
			return zero, err
		}
		lastErr = err

		if attempt == retryAttempts-1 {
			break
		}

		delay := retryBaseDelay * (1 << attempt)
		logger.Warn("transient upstream error, retrying",
			"attempt", attempt+1, "max_attempts", retryAttempts, "delay", delay, "error", err)
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return zero, sleepErr
		}
	}

	return zero, fmt.Errorf("failed after %d attempts: %w", retryAttempts, lastErr)
}
