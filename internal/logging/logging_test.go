package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"Warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}

	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(&buf, "warn")
	require.NoError(t, err)

	logger.Info("turn responded", "session_id", "s1")
	assert.Empty(t, buf.String())

	logger.Warn("transient query error", "function", "top_hotels_by_city")
	assert.Contains(t, buf.String(), "transient query error")
}
