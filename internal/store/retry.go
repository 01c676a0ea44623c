package store

import (
	"context"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"

	"black76/internal/logging"
)

// RetryConfig holds retry configuration for write transactions.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  50 * time.Millisecond,
		MaxDelay:      time.Second,
		BackoffFactor: 2.0,
	}
}

// isBusy reports whether err is SQLite lock contention.
func isBusy(err error) bool {
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code == sqlite3.ErrBusy || sqlErr.Code == sqlite3.ErrLocked
	}
	return false
}

// withRetry runs fn with exponential backoff while the database is busy.
// Other errors are returned immediately. Retries are logged to the logger
// carried by ctx.
func withRetry(ctx context.Context, cfg RetryConfig, operation string, fn func() error) error {
	logger := logging.WithOperation(logging.FromContext(ctx), operation)
	delay := cfg.InitialDelay
	var err error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err = fn(); err == nil || !isBusy(err) {
			return err
		}

		// Don't sleep after the last attempt
		if attempt == cfg.MaxAttempts-1 {
			break
		}
		logger.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Msg("Database busy, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return err
}
