package logger

import (
	"log/slog"
	"os"
)

// EnvTestDebug enables debug output from NewTestLogger when set to any value.
const EnvTestDebug = "TEST_DEBUG"

// NewTestLogger creates a logger for tests.
// It logs at WARN so expected failures in tests stay quiet; set TEST_DEBUG to see
// every frame and resize.
func NewTestLogger() *slog.Logger {
	cfg := Config{Level: slog.LevelWarn, Format: "text"}
	if os.Getenv(EnvTestDebug) != "" {
		cfg.Level = slog.LevelDebug
	}
	return NewLoggerTo(os.Stdout, cfg)
}
