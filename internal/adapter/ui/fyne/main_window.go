package fyne

import (
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/audiovisualiser/internal/adapter/ui/fyne/widgets"
)

// Window defaults.
const (
	APPNAME = "Audio Visualiser"
	WIDTH   = 720
	HEIGHT  = 320
)

// MainWindow is the main UI window implementing the UIView interface.
//
// The MainWindow follows the MVP pattern:
// - It's a "dumb view" that just displays data
// - All logic is in the Presenter
// - User interactions are forwarded to the Presenter
type MainWindow struct {
	app    fyneapp.App
	window fyneapp.Window

	// UI components
	silhouette   *widgets.Silhouette
	toggleButton *widget.Button
	colorEntry   *widget.Entry

	closeOnce sync.Once
	presenter *Presenter
}

// NewMainWindow creates a new main window around the silhouette widget.
func NewMainWindow(app fyneapp.App, silhouette *widgets.Silhouette) *MainWindow {
	w := &MainWindow{
		app:        app,
		silhouette: silhouette,
	}

	w.window = app.NewWindow(APPNAME)
	w.buildUI()
	w.window.Resize(fyneapp.NewSize(WIDTH, HEIGHT))

	return w
}

// SetPresenter connects the presenter to this view.
// This must be called before showing the window.
func (w *MainWindow) SetPresenter(presenter *Presenter) {
	w.presenter = presenter
	w.toggleButton.OnTapped = presenter.OnToggleClicked
	w.colorEntry.OnSubmitted = presenter.OnColorSubmitted
	w.addShortcuts()
}

func (w *MainWindow) buildUI() {
	w.toggleButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), nil)

	w.colorEntry = widget.NewEntry()
	w.colorEntry.SetPlaceHolder("#rrggbb or color name")

	controls := container.NewBorder(nil, nil, w.toggleButton, nil, w.colorEntry)
	w.window.SetContent(container.NewBorder(nil, controls, nil, nil, w.silhouette))
}

func (w *MainWindow) addShortcuts() {
	w.window.Canvas().SetOnTypedKey(func(ev *fyneapp.KeyEvent) {
		if ev.Name == fyneapp.KeySpace && w.presenter != nil {
			w.presenter.OnToggleClicked()
		}
	})
}

// ShowAndRun shows the window and runs the application.
func (w *MainWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// Close closes the window. It's safe to call multiple times.
func (w *MainWindow) Close() {
	w.closeOnce.Do(func() {
		w.window.Close()
	})
}

// GetWindow returns the underlying Fyne window.
func (w *MainWindow) GetWindow() fyneapp.Window {
	return w.window
}

// SetOnClosed registers a callback run when the user closes the window.
func (w *MainWindow) SetOnClosed(fn func()) {
	w.window.SetOnClosed(fn)
}

// SetRunning updates the start/stop button.
func (w *MainWindow) SetRunning(running bool) {
	if running {
		w.toggleButton.SetIcon(theme.MediaStopIcon())
	} else {
		w.toggleButton.SetIcon(theme.MediaPlayIcon())
	}
}

// SetFillColor shows the current fill colour in the entry.
func (w *MainWindow) SetFillColor(value string) {
	w.colorEntry.SetText(value)
}

// ShowError displays an error dialog.
func (w *MainWindow) ShowError(err error) {
	dialog.ShowError(err, w.window)
}

// Verify UIView implementation
var _ UIView = (*MainWindow)(nil)
