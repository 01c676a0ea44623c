package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
	assert.True(t, ValidLevel("error"))
	assert.False(t, ValidLevel("trace"))
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithLogger(context.Background(), logger)
	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")

	// Missing logger falls back to a no-op logger.
	fallback := FromContext(context.Background())
	fallback.Info().Msg("dropped")
	assert.NotContains(t, buf.String(), "dropped")
}

func TestLogRunFields(t *testing.T) {
	var buf bytes.Buffer
	logger := WithScenarioSet(WithOperation(zerolog.New(&buf), "run"), "desk")

	LogRun(logger, "greeks", 5, "float64", "spot", 3*time.Millisecond)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "pricing_run", entry["event"])
	assert.Equal(t, "run", entry["operation"])
	assert.Equal(t, "desk", entry["set"])
	assert.Equal(t, float64(5), entry["count"])
}

func TestFileLoggerWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "blackctl.log")
	logger := NewLoggerWithConfig(LogConfig{
		Level:      "debug",
		File:       true,
		FilePath:   path,
		MaxSize:    1,
		MaxBackups: 1,
		MaxAge:     1,
	})
	logger.Debug().Msg("written")

	assert.FileExists(t, path)
}
