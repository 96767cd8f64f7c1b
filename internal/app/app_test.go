package app

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/audiovisualiser/internal/adapter/repository/memory"
	"github.com/tejashwikalptaru/audiovisualiser/internal/adapter/source"
	"github.com/tejashwikalptaru/audiovisualiser/internal/domain"
	"github.com/tejashwikalptaru/audiovisualiser/internal/service"
)

// Helper to create an application config over a fresh test Fyne app
func newTestConfig() Config {
	config := DefaultConfig()
	config.TestFyneApp = test.NewApp()
	return config
}

func TestNewApplication(t *testing.T) {
	app, err := NewApplication(newTestConfig())
	require.NoError(t, err)
	require.NotNil(t, app)

	assert.NotNil(t, app.GetVisualiser())
	assert.NotNil(t, app.GetEventBus())
	assert.NotNil(t, app.GetFyneApp())
	assert.NotNil(t, app.GetPreferences())

	assert.True(t, app.GetVisualiser().IsAttached())
	assert.Equal(t, domain.StateIdle, app.GetVisualiser().State())
	assert.Equal(t, source.DefaultSampleCount, app.GetSource().SampleCount())
	assert.IsType(t, &source.Synthetic{}, app.GetSource())

	err = app.Shutdown()
	assert.NoError(t, err)
}

func TestApplicationLifecycle(t *testing.T) {
	app, err := NewApplication(newTestConfig())
	require.NoError(t, err)

	// Run would normally block, but we're not calling it in test

	err = app.Shutdown()
	assert.NoError(t, err)

	// Shutdown again should not panic
	err = app.Shutdown()
	assert.NoError(t, err)
	assert.False(t, app.GetVisualiser().IsAttached())
}

func TestNewApplication_InvalidConfig(t *testing.T) {
	config := newTestConfig()
	config.FPS = 0

	app, err := NewApplication(config)
	assert.Nil(t, app)
	assert.True(t, IsValidationError(err))
}

func TestApplication_AnalyserSource(t *testing.T) {
	config := newTestConfig()
	config.Source = SourceAnalyser
	config.Bins = 64

	app, err := NewApplication(config)
	require.NoError(t, err)
	defer app.Shutdown()

	assert.IsType(t, &source.FloatSpectrum{}, app.GetSource())
	assert.Equal(t, 64, app.GetSource().SampleCount())
}

func TestApplication_ConfiguredColorWins(t *testing.T) {
	config := newTestConfig()
	config.FillColor = "red"
	prefs := memory.NewPreferencesRepository(config.TestFyneApp.Preferences())
	require.NoError(t, prefs.SaveFillColor("#0000ff"))

	app, err := NewApplication(config)
	require.NoError(t, err)
	defer app.Shutdown()

	assert.Equal(t, "#ff0000", domain.FormatFillColor(app.GetVisualiser().FillColor()))
}

func TestApplication_FillColorPersists(t *testing.T) {
	config := newTestConfig()
	fyneApp := config.TestFyneApp

	first, err := NewApplication(config)
	require.NoError(t, err)
	require.NoError(t, first.GetVisualiser().Configure(service.Options{Color: "teal"}))
	require.NoError(t, first.Shutdown())

	// A second run on the same preference store picks the colour up.
	second := DefaultConfig()
	second.TestFyneApp = fyneApp
	app, err := NewApplication(second)
	require.NoError(t, err)
	defer app.Shutdown()

	assert.Equal(t, "#008080", domain.FormatFillColor(app.GetVisualiser().FillColor()))
}

func TestApplication_BinsPersist(t *testing.T) {
	config := newTestConfig()
	config.Bins = 128
	fyneApp := config.TestFyneApp

	first, err := NewApplication(config)
	require.NoError(t, err)
	require.NoError(t, first.Shutdown())

	second := DefaultConfig()
	second.TestFyneApp = fyneApp
	app, err := NewApplication(second)
	require.NoError(t, err)
	defer app.Shutdown()

	assert.Equal(t, 128, app.GetSource().SampleCount())
}
