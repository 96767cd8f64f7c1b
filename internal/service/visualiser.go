// Package service contains the visualiser's lifecycle logic.
// Services depend only on ports, so hosts and sources can be swapped freely.
package service

import (
	"image/color"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/audiovisualiser/internal/domain"
	"github.com/tejashwikalptaru/audiovisualiser/internal/ports"
)

// Options are the externally configurable visualiser settings.
// Empty fields leave the current value unchanged.
type Options struct {
	// Color is the fill colour, as accepted by domain.ParseFillColor.
	Color string
}

// Visualiser is the component an embedding host drives. It ties a SizingManager and
// a RenderLoop to one surface and exposes explicit lifecycle methods in place of
// UI-framework callbacks.
//
// Thread-safety: This implementation is thread-safe.
type Visualiser struct {
	logger *slog.Logger
	bus    ports.EventBus
	sizing *SizingManager
	loop   *RenderLoop

	mu       sync.Mutex
	attached bool
}

// NewVisualiser creates a detached, idle visualiser drawing onto surface.
// ratio and bus may be nil.
func NewVisualiser(
	logger *slog.Logger,
	surface ports.Surface,
	scheduler ports.Scheduler,
	ratio ports.PixelRatioProvider,
	bus ports.EventBus,
) *Visualiser {
	sizing := NewSizingManager(logger.With(slog.String("service", "sizing")), surface, ratio, bus)
	loop := NewRenderLoop(logger.With(slog.String("service", "render_loop")), surface, sizing, scheduler, bus)

	return &Visualiser{
		logger: logger,
		bus:    bus,
		sizing: sizing,
		loop:   loop,
	}
}

// Attach binds the visualiser to its surface: the backing buffer is sized for initial
// and later layout changes are followed.
func (v *Visualiser) Attach(initial domain.LogicalSize) error {
	v.mu.Lock()
	if v.attached {
		v.mu.Unlock()
		return domain.NewVisualizerError("attach", "already attached", domain.ErrAlreadyAttached)
	}
	v.attached = true
	v.mu.Unlock()

	v.sizing.Apply(initial)
	v.sizing.Observe()

	v.logger.Debug("visualiser attached", slog.String("pixels", v.sizing.Dimensions().String()))
	return nil
}

// Detach stops the loop and stops following layout changes. Detaching a detached
// visualiser is a no-op.
func (v *Visualiser) Detach() {
	v.mu.Lock()
	if !v.attached {
		v.mu.Unlock()
		return
	}
	v.attached = false
	v.mu.Unlock()

	v.loop.Stop()
	v.sizing.Unobserve()
	v.logger.Debug("visualiser detached")
}

// IsAttached returns true between Attach and Detach.
func (v *Visualiser) IsAttached() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.attached
}

// Configure applies externally supplied options. An unparsable colour returns a
// ValidationError and leaves the current colour in place.
func (v *Visualiser) Configure(opts Options) error {
	if opts.Color == "" {
		return nil
	}

	c, err := domain.ParseFillColor(opts.Color)
	if err != nil {
		return err
	}
	v.SetFillColor(c)
	return nil
}

// SetFillColor updates the fill colour. It takes effect on the next frame.
func (v *Visualiser) SetFillColor(c color.Color) {
	nrgba, changed := v.loop.SwapFillColor(c)
	if !changed {
		return
	}

	v.logger.Debug("fill color changed", slog.String("color", domain.FormatFillColor(nrgba)))
	if v.bus != nil {
		v.bus.Publish(domain.NewFillColorChangedEvent(nrgba))
	}
}

// AttachSource registers the frequency-data provider.
func (v *Visualiser) AttachSource(src ports.FrequencySource) error {
	return v.loop.AttachSource(src)
}

// Start begins rendering. A missing source is reported first, then a missing surface.
func (v *Visualiser) Start() error {
	if !v.loop.HasSource() {
		return domain.NewVisualizerError("start", "analyser has not been set", domain.ErrSourceNotAttached)
	}
	if !v.IsAttached() {
		return domain.NewVisualizerError("start", "no surface attached", domain.ErrNotAttached)
	}
	return v.loop.Start()
}

// Stop halts rendering. It is safe to call repeatedly.
func (v *Visualiser) Stop() {
	v.loop.Stop()
}

// State returns the render loop state.
func (v *Visualiser) State() domain.VisualizerState {
	return v.loop.State()
}

// FillColor returns the current fill colour.
func (v *Visualiser) FillColor() color.NRGBA {
	return v.loop.FillColor()
}

// Dimensions returns the current backing pixel dimensions.
func (v *Visualiser) Dimensions() domain.SurfaceDimensions {
	return v.sizing.Dimensions()
}

// FramesRendered returns how many frames have been filled.
func (v *Visualiser) FramesRendered() uint64 {
	return v.loop.FramesRendered()
}

// Loop exposes the render loop, mainly for frame-by-frame driving in tests and tools.
func (v *Visualiser) Loop() *RenderLoop {
	return v.loop
}

// Sizing exposes the sizing manager.
func (v *Visualiser) Sizing() *SizingManager {
	return v.sizing
}
