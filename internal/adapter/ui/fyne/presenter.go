// Package fyne provides Fyne UI adapter implementations.
// This package implements the UI layer using the Fyne toolkit.
package fyne

import (
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/audiovisualiser/internal/domain"
	"github.com/tejashwikalptaru/audiovisualiser/internal/ports"
	"github.com/tejashwikalptaru/audiovisualiser/internal/service"
)

// UIView defines the interface for UI updates.
// The actual UI implementation (MainWindow) must implement this interface.
type UIView interface {
	// SetRunning switches the start/stop control.
	SetRunning(running bool)

	// SetFillColor shows the current fill colour ("#rrggbb").
	SetFillColor(value string)

	// ShowError reports a failure to the user.
	ShowError(err error)
}

// Presenter coordinates the visualiser service and the window (MVP architecture).
//
// Responsibilities:
// - Map visualiser events to view updates
// - Translate UI commands to service calls
// - Persist the chosen fill colour
//
// Thread-safety: All operations are thread-safe via sync.Mutex.
type Presenter struct {
	logger *slog.Logger
	vis    *service.Visualiser
	prefs  ports.PreferencesRepository
	bus    ports.EventBus
	view   UIView

	mu           sync.Mutex
	subs         []domain.SubscriptionID
	shutdownOnce sync.Once
}

// NewPresenter creates a presenter and syncs the view with the visualiser.
// prefs may be nil, in which case colour changes are not persisted.
func NewPresenter(
	logger *slog.Logger,
	vis *service.Visualiser,
	prefs ports.PreferencesRepository,
	bus ports.EventBus,
	view UIView,
) *Presenter {
	p := &Presenter{
		logger: logger,
		vis:    vis,
		prefs:  prefs,
		bus:    bus,
		view:   view,
	}

	p.subscribeToEvents()
	p.syncInitialState()

	return p
}

func (p *Presenter) subscribeToEvents() {
	subscriptions := map[domain.EventType]domain.EventHandler{
		domain.EventVisualizerStarted: p.onStarted,
		domain.EventVisualizerStopped: p.onStopped,
		domain.EventRenderFailed:      p.onRenderFailed,
		domain.EventFillColorChanged:  p.onFillColorChanged,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for eventType, handler := range subscriptions {
		p.subs = append(p.subs, p.bus.Subscribe(eventType, handler))
	}
}

func (p *Presenter) syncInitialState() {
	p.view.SetRunning(p.vis.State() == domain.StateRunning)
	p.view.SetFillColor(domain.FormatFillColor(p.vis.FillColor()))
}

// Event handlers

func (p *Presenter) onStarted(domain.Event) {
	p.view.SetRunning(true)
}

func (p *Presenter) onStopped(domain.Event) {
	p.view.SetRunning(false)
}

func (p *Presenter) onRenderFailed(event domain.Event) {
	e, ok := event.(domain.RenderFailedEvent)
	if !ok {
		return
	}
	p.view.ShowError(e.Error)
}

func (p *Presenter) onFillColorChanged(event domain.Event) {
	e, ok := event.(domain.FillColorChangedEvent)
	if !ok {
		return
	}

	value := domain.FormatFillColor(e.Color)
	p.view.SetFillColor(value)

	if p.prefs == nil {
		return
	}
	if err := p.prefs.SaveFillColor(value); err != nil {
		p.logger.Warn("failed to save fill color", slog.Any("error", err))
	}
}

// User commands

// OnToggleClicked starts a stopped visualiser and stops a running one.
func (p *Presenter) OnToggleClicked() {
	if p.vis.State() == domain.StateRunning {
		p.vis.Stop()
		return
	}

	if err := p.vis.Start(); err != nil {
		p.logger.Error("failed to start visualiser", slog.Any("error", err))
		p.view.ShowError(err)
	}
}

// OnColorSubmitted applies a colour typed by the user.
// An invalid value is reported and the view is reset to the current colour.
func (p *Presenter) OnColorSubmitted(value string) {
	if err := p.vis.Configure(service.Options{Color: value}); err != nil {
		p.logger.Debug("rejected fill color", slog.String("value", value), slog.Any("error", err))
		p.view.ShowError(err)
		p.view.SetFillColor(domain.FormatFillColor(p.vis.FillColor()))
	}
}

// Shutdown unsubscribes from events. It is safe to call multiple times.
func (p *Presenter) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		subs := p.subs
		p.subs = nil
		p.mu.Unlock()

		for _, id := range subs {
			p.bus.Unsubscribe(id)
		}
	})
}
