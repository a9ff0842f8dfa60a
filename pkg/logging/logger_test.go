package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.in))
		})
	}
}

func TestNewStructuredLogger_Context(t *testing.T) {
	var buf bytes.Buffer
	logger := newStructuredLogger(&buf, "sislpkg", "v1.2.3", "info")

	logger.Info("packaged", "files", 3)
	logger.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "packaged", entry["msg"])
	assert.Equal(t, "sislpkg", entry["module"])
	assert.Equal(t, "v1.2.3", entry["version"])
	assert.EqualValues(t, 3, entry["files"])
	assert.NotContains(t, buf.String(), "hidden")
}
