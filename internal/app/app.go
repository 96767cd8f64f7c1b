// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"fmt"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/tejashwikalptaru/audiovisualiser/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/audiovisualiser/internal/adapter/repository/memory"
	"github.com/tejashwikalptaru/audiovisualiser/internal/adapter/scheduler"
	"github.com/tejashwikalptaru/audiovisualiser/internal/adapter/source"
	fyneui "github.com/tejashwikalptaru/audiovisualiser/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/audiovisualiser/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/audiovisualiser/internal/domain"
	"github.com/tejashwikalptaru/audiovisualiser/internal/logger"
	"github.com/tejashwikalptaru/audiovisualiser/internal/ports"
	"github.com/tejashwikalptaru/audiovisualiser/internal/service"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for main.go
type Application struct {
	config Config

	// Core dependencies
	logger  *slog.Logger
	fyneApp fyne.App

	// Infrastructure
	eventBus  ports.EventBus
	scheduler *scheduler.Frame
	source    ports.FrequencySource

	// Repositories
	preferencesRepo ports.PreferencesRepository

	// Services
	visualiser *service.Visualiser

	// UI
	silhouette *widgets.Silhouette
	presenter  *fyneui.Presenter
	mainWindow *fyneui.MainWindow

	shutdownOnce sync.Once
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(config Config) (*Application, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{config: config}

	// Step 1: Create Fyne application
	if config.TestFyneApp != nil {
		app.fyneApp = config.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(config.AppID)
	}

	// Step 2: Create logger
	app.logger = logger.NewLogger(logger.Config{
		Level:  config.LogLevel,
		Format: config.LogFormat,
	})
	app.logger.Info("initializing application",
		slog.String("app_id", config.AppID),
		slog.Any("build", CurrentBuild()))

	// Step 3: Create an event bus and the frame scheduler.
	// Frames are dispatched onto the Fyne UI goroutine.
	app.eventBus = eventbus.NewSyncEventBus(app.logger.With(slog.String("component", "eventbus")))
	app.scheduler = scheduler.NewFrame(
		app.logger.With(slog.String("component", "scheduler")),
		config.FPS,
		fyne.Do,
	)

	// Step 4: Create repositories
	app.preferencesRepo = memory.NewPreferencesRepository(app.fyneApp.Preferences())

	// Step 5: Create the frequency source
	app.source = app.newSource()

	// Step 6: Create UI surface and the visualiser service
	app.silhouette = widgets.NewSilhouette(app.eventBus)
	app.visualiser = service.NewVisualiser(
		app.logger.With(slog.String("service", "visualiser")),
		app.silhouette.Surface(),
		app.scheduler,
		app.silhouette,
		app.eventBus,
	)
	if err := app.visualiser.AttachSource(app.source); err != nil {
		return nil, fmt.Errorf("failed to attach source: %w", err)
	}

	// Step 7: Load saved state
	if err := app.loadSavedState(); err != nil {
		// Non-fatal - just log and continue
		app.logger.Warn("failed to load saved state", slog.Any("error", err))
	}

	// Step 8: Create UI and presenter
	app.mainWindow = fyneui.NewMainWindow(app.fyneApp, app.silhouette)
	app.presenter = fyneui.NewPresenter(
		app.logger.With(slog.String("component", "presenter")),
		app.visualiser,
		app.preferencesRepo,
		app.eventBus,
		app.mainWindow,
	)
	app.mainWindow.SetPresenter(app.presenter)

	// Step 9: Attach to the laid-out widget. Later layout changes arrive on the bus.
	if err := app.visualiser.Attach(app.silhouette.LogicalSize()); err != nil {
		return nil, fmt.Errorf("failed to attach visualiser: %w", err)
	}

	return app, nil
}

// newSource builds the demo frequency source selected by the configuration.
func (a *Application) newSource() ports.FrequencySource {
	bins := a.config.Bins
	if bins == 0 {
		saved, err := a.preferencesRepo.LoadSampleCount()
		if err != nil {
			a.logger.Warn("failed to load sample count", slog.Any("error", err))
		}
		bins = saved
	} else if err := a.preferencesRepo.SaveSampleCount(bins); err != nil {
		a.logger.Warn("failed to save sample count", slog.Any("error", err))
	}

	synthetic := source.NewSynthetic(bins)
	a.logger.Debug("frequency source created",
		slog.String("kind", a.config.Source),
		slog.Int("bins", synthetic.SampleCount()))

	if a.config.Source != SourceAnalyser {
		return synthetic
	}
	return source.NewFloatSpectrum(
		synthetic.Spectrum,
		synthetic.SampleCount(),
		source.WithDecibelRange(a.config.MinDecibels, a.config.MaxDecibels),
		source.WithSmoothing(a.config.Smoothing),
		source.WithLogger(a.logger.With(slog.String("component", "analyser"))),
	)
}

// loadSavedState restores the fill colour. An explicitly configured colour wins over
// the saved one.
func (a *Application) loadSavedState() error {
	value := a.config.FillColor
	if value == "" {
		saved, err := a.preferencesRepo.LoadFillColor()
		if err != nil {
			return fmt.Errorf("failed to load fill color: %w", err)
		}
		value = saved
	}

	if err := a.visualiser.Configure(service.Options{Color: value}); err != nil {
		return fmt.Errorf("failed to apply fill color: %w", err)
	}
	return nil
}

// Run starts the render loop and shows the window.
// It blocks until the window is closed.
func (a *Application) Run() error {
	if err := a.visualiser.Start(); err != nil {
		return fmt.Errorf("failed to start visualiser: %w", err)
	}

	a.logger.Info("visualiser running",
		slog.Int("fps", a.config.FPS),
		slog.Int("bins", a.source.SampleCount()))

	a.mainWindow.ShowAndRun()
	return nil
}

// Shutdown gracefully shuts down the application.
// It is safe to call multiple times.
func (a *Application) Shutdown() error {
	var err error
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		a.visualiser.Detach()
		a.scheduler.Close()
		a.presenter.Shutdown()

		if saveErr := a.saveState(); saveErr != nil {
			a.logger.Warn("failed to save state", slog.Any("error", saveErr))
			err = saveErr
		}

		if closeErr := a.eventBus.Close(); closeErr != nil {
			a.logger.Warn("failed to close event bus", slog.Any("error", closeErr))
		}

		a.logger.Info("application shutdown complete",
			slog.Uint64("frames", a.visualiser.FramesRendered()))
	})
	return err
}

// saveState persists the current fill colour.
func (a *Application) saveState() error {
	value := domain.FormatFillColor(a.visualiser.FillColor())
	if err := a.preferencesRepo.SaveFillColor(value); err != nil {
		return fmt.Errorf("failed to save fill color: %w", err)
	}
	return nil
}

// GetVisualiser returns the visualiser service.
func (a *Application) GetVisualiser() *service.Visualiser {
	return a.visualiser
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetFyneApp returns the Fyne application.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}

// GetSource returns the frequency source feeding the visualiser.
func (a *Application) GetSource() ports.FrequencySource {
	return a.source
}

// GetPreferences returns the preferences repository.
func (a *Application) GetPreferences() ports.PreferencesRepository {
	return a.preferencesRepo
}
