// Package main is the production entry point for the audio visualiser.
//
// It opens a window showing the spectrum silhouette, fed by a synthetic
// frequency source.
//
// Build:
//
//	go build -o build/audiovisualiser ./cmd/audiovisualiser
//
// Run:
//
//	./build/audiovisualiser --color teal --fps 30
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/audiovisualiser/internal/app"
	"github.com/tejashwikalptaru/audiovisualiser/internal/domain"
	"github.com/tejashwikalptaru/audiovisualiser/internal/logger"
)

// flags holds the command-line options. Only flags the user set override the
// configuration.
type flags struct {
	configPath string
	color      string
	bins       int
	fps        int
	source     string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "audiovisualiser",
		Short: "Live audio spectrum silhouette",
		Long: `Renders a frequency spectrum as a filled silhouette that follows the
window size at device resolution.

Configuration is read from the optional YAML file, then AUDIOVIS_* environment
variables, then command-line flags.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := buildConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(config)
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&f.color, "color", "", "fill color (#rgb, #rrggbb or a color name)")
	cmd.Flags().IntVar(&f.bins, "bins", 0, "number of frequency bins (default: saved value or 1024)")
	cmd.Flags().IntVar(&f.fps, "fps", 0, "target frame rate (default 60)")
	cmd.Flags().StringVar(&f.source, "source", "", `demo source: "synthetic" or "analyser"`)
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.CurrentBuild().String())
		},
	}
}

// buildConfig loads the file and environment configuration and applies the flags
// the user set on top of it.
func buildConfig(cmd *cobra.Command, f flags) (app.Config, error) {
	config, err := app.LoadConfig(f.configPath)
	if err != nil {
		return app.Config{}, err
	}

	changed := cmd.Flags().Changed
	if changed("color") {
		config.FillColor = f.color
	}
	if changed("bins") {
		config.Bins = f.bins
	}
	if changed("fps") {
		config.FPS = f.fps
	}
	if changed("source") {
		config.Source = f.source
	}
	if changed("log-level") {
		level, ok := logger.ParseLevel(f.logLevel)
		if !ok {
			return app.Config{}, domain.NewValidationError("log-level", f.logLevel, "unknown level", nil)
		}
		config.LogLevel = level
	}

	if err := config.Validate(); err != nil {
		return app.Config{}, err
	}
	return config, nil
}

func run(config app.Config) error {
	application, err := app.NewApplication(config)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	// Ensure a graceful shutdown
	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	// Blocks until the window is closed
	return application.Run()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
