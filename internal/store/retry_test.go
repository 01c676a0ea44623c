package store

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	perrors "black76/internal/errors"
	"black76/internal/logging"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, BackoffFactor: 2}
}

func TestWithRetry_RetriesBusy(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry(), "save", func() error {
		calls++
		if calls < 3 {
			return perrors.NewStoreError("save", sqlite3.Error{Code: sqlite3.ErrBusy})
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_GivesUp(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry(), "save", func() error {
		calls++
		return sqlite3.Error{Code: sqlite3.ErrLocked}
	})
	assert.True(t, isBusy(err))
	assert.Equal(t, 3, calls)
}

func TestWithRetry_OtherErrorsReturnImmediately(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := withRetry(context.Background(), fastRetry(), "save", func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := withRetry(ctx, fastRetry(), "save", func() error {
		return sqlite3.Error{Code: sqlite3.ErrBusy}
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithRetry_LogsToContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), zerolog.New(&buf))

	calls := 0
	err := withRetry(ctx, fastRetry(), "save_run", func() error {
		calls++
		if calls == 1 {
			return sqlite3.Error{Code: sqlite3.ErrBusy}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"operation":"save_run"`)
	assert.Contains(t, buf.String(), "Database busy, retrying")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}
