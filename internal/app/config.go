package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"gopkg.in/yaml.v3"

	"github.com/tejashwikalptaru/audiovisualiser/internal/adapter/scheduler"
	"github.com/tejashwikalptaru/audiovisualiser/internal/adapter/source"
	"github.com/tejashwikalptaru/audiovisualiser/internal/domain"
	"github.com/tejashwikalptaru/audiovisualiser/internal/logger"
)

// Environment overrides, applied after the config file.
const (
	EnvFillColor = "AUDIOVIS_FILL_COLOR"
	EnvFPS       = "AUDIOVIS_FPS"
)

// Source kinds for the demo binary.
const (
	// SourceSynthetic feeds byte magnitudes straight from the synthetic generator.
	SourceSynthetic = "synthetic"

	// SourceAnalyser runs the synthetic float spectrum through the decibel-scaling
	// analyser adapter, as a real FFT source would be.
	SourceAnalyser = "analyser"
)

// MaxFPS bounds the frame rate setting.
const MaxFPS = 240

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier
	AppID string

	// AppName is the display name
	AppName string

	// LogLevel controls logging verbosity
	LogLevel slog.Level

	// LogFormat is "text" or "json"
	LogFormat string

	// FillColor is the initial fill colour. Empty means the saved preference, or white.
	FillColor string

	// FPS is the target frame rate of the render loop
	FPS int

	// Bins is the number of frequency bins the demo source produces
	// (0 means the saved preference, or source.DefaultSampleCount)
	Bins int

	// Source selects the demo frequency source (SourceSynthetic or SourceAnalyser)
	Source string

	// Analyser settings, used with SourceAnalyser
	MinDecibels float64
	MaxDecibels float64
	Smoothing   float64

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// fileConfig is the YAML layout of a config file. Absent keys keep their defaults.
type fileConfig struct {
	LogLevel  *string `yaml:"log_level"`
	LogFormat *string `yaml:"log_format"`
	FillColor *string `yaml:"fill_color"`
	FPS       *int    `yaml:"fps"`
	Bins      *int    `yaml:"bins"`
	Source    *string `yaml:"source"`
	Analyser  struct {
		MinDecibels *float64 `yaml:"min_decibels"`
		MaxDecibels *float64 `yaml:"max_decibels"`
		Smoothing   *float64 `yaml:"smoothing"`
	} `yaml:"analyser"`
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		AppID:       "com.audiovisualiser.app",
		AppName:     "Audio Visualiser",
		LogLevel:    loggerCfg.Level,
		LogFormat:   loggerCfg.Format,
		FPS:         scheduler.DefaultFPS,
		Source:      SourceSynthetic,
		MinDecibels: source.DefaultMinDecibels,
		MaxDecibels: source.DefaultMaxDecibels,
		Smoothing:   source.DefaultSmoothing,
	}
}

// LoadConfig builds a configuration from the defaults, the YAML file at path (skipped
// when path is empty), and environment overrides, then validates it.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := cfg.mergeYAML(data); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) mergeYAML(data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.LogLevel != nil {
		level, ok := logger.ParseLevel(*fc.LogLevel)
		if !ok {
			return domain.NewValidationError("log_level", *fc.LogLevel, "unknown level", nil)
		}
		c.LogLevel = level
	}
	if fc.LogFormat != nil {
		c.LogFormat = *fc.LogFormat
	}
	if fc.FillColor != nil {
		c.FillColor = *fc.FillColor
	}
	if fc.FPS != nil {
		c.FPS = *fc.FPS
	}
	if fc.Bins != nil {
		c.Bins = *fc.Bins
	}
	if fc.Source != nil {
		c.Source = *fc.Source
	}
	if fc.Analyser.MinDecibels != nil {
		c.MinDecibels = *fc.Analyser.MinDecibels
	}
	if fc.Analyser.MaxDecibels != nil {
		c.MaxDecibels = *fc.Analyser.MaxDecibels
	}
	if fc.Analyser.Smoothing != nil {
		c.Smoothing = *fc.Analyser.Smoothing
	}
	return nil
}

// applyEnvOverrides applies AUDIOVIS_* variables. The log level variable is read by
// logger.DefaultConfig and only overrides the file when set to a valid name.
func (c *Config) applyEnvOverrides() error {
	if val, ok := os.LookupEnv(logger.EnvLogLevel); ok {
		if level, valid := logger.ParseLevel(val); valid {
			c.LogLevel = level
		}
	}

	if val, ok := os.LookupEnv(EnvFillColor); ok && strings.TrimSpace(val) != "" {
		c.FillColor = val
	}

	if val, ok := os.LookupEnv(EnvFPS); ok && strings.TrimSpace(val) != "" {
		fps, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return domain.NewValidationError(EnvFPS, val, "must be an integer", err)
		}
		c.FPS = fps
	}
	return nil
}

// Validate checks the configuration. It returns the first problem found as a
// *domain.ValidationError.
func (c *Config) Validate() error {
	if c.FillColor != "" {
		if _, err := domain.ParseFillColor(c.FillColor); err != nil {
			return err
		}
	}

	if c.FPS <= 0 || c.FPS > MaxFPS {
		return domain.NewValidationError("fps", c.FPS, fmt.Sprintf("must be in [1,%d]", MaxFPS), nil)
	}

	if c.Bins < 0 {
		return domain.NewValidationError("bins", c.Bins, "must not be negative", nil)
	}

	switch c.Source {
	case SourceSynthetic, SourceAnalyser:
	default:
		return domain.NewValidationError("source", c.Source,
			fmt.Sprintf("must be %q or %q", SourceSynthetic, SourceAnalyser), nil)
	}

	if c.MinDecibels >= c.MaxDecibels {
		return domain.NewValidationError("analyser.min_decibels", c.MinDecibels, "must be below max_decibels", nil)
	}
	if c.Smoothing < 0 || c.Smoothing >= 1 {
		return domain.NewValidationError("analyser.smoothing", c.Smoothing, "must be in [0,1)", nil)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return domain.NewValidationError("log_format", c.LogFormat, `must be "text" or "json"`, nil)
	}

	return nil
}

// IsValidationError reports whether err is a configuration problem the user can fix.
func IsValidationError(err error) bool {
	var verr *domain.ValidationError
	return errors.As(err, &verr)
}
