package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"  Info  ", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, ParseLevel(tc.input), "level %q", tc.input)
	}
}

func TestNewStructuredLogger(t *testing.T) {
	logger := NewStructuredLogger("test", "v0.0.1", "debug")
	assert.NotNil(t, logger)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))

	logger = NewStructuredLogger("test", "v0.0.1", "error")
	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))
}
