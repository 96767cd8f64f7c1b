package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
		ok    bool
	}{
		{"debug", "debug", slog.LevelDebug, true},
		{"info upper", "INFO", slog.LevelInfo, true},
		{"warning alias", "Warning", slog.LevelWarn, true},
		{"error padded", " error ", slog.LevelError, true},
		{"unknown", "verbose", slog.LevelInfo, false},
		{"empty", "", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestDefaultConfig_EnvOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	assert.Equal(t, slog.LevelError, DefaultConfig().Level)

	t.Setenv(EnvLogLevel, "nonsense")
	assert.Equal(t, slog.LevelInfo, DefaultConfig().Level)
}

func TestNewLoggerTo_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, Config{Level: slog.LevelInfo, Format: "json"})

	log.Debug("hidden")
	log.Info("visible", slog.String("component", "render_loop"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"visible"`)
	assert.Contains(t, out, `"component":"render_loop"`)
}
