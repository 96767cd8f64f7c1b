package service

import (
	"image/color"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/audiovisualiser/internal/domain"
	"github.com/tejashwikalptaru/audiovisualiser/internal/ports"
	"github.com/tejashwikalptaru/audiovisualiser/internal/render"
)

// DimensionSource hands the render loop one consistent pair of surface dimensions and
// keeps the surface at that size until release is called.
// ok is false when the surface is being resized and the frame must be skipped.
type DimensionSource interface {
	Acquire() (dims domain.SurfaceDimensions, release func(), ok bool)
}

// RenderLoop owns the per-frame cycle: read the spectrum, build the silhouette,
// fill it, and schedule the next frame. It also owns the Idle/Running state machine.
//
// Every scheduled frame carries the generation it was scheduled under. Stop bumps the
// generation, so a callback that was already queued when Stop returned finds itself
// stale and does nothing.
//
// Thread-safety: This implementation is thread-safe. Frames never overlap.
type RenderLoop struct {
	logger    *slog.Logger
	canvas    ports.Canvas
	dims      DimensionSource
	scheduler ports.Scheduler
	bus       ports.EventBus

	// frameMu serialises frames; mu guards everything below.
	frameMu sync.Mutex
	mu      sync.Mutex

	source     ports.FrequencySource
	state      domain.VisualizerState
	handle     ports.FrameHandle
	generation uint64
	fill       color.NRGBA
	frames     uint64

	// Scratch reused across frames. Only touched with frameMu held.
	buf  []uint8
	path []domain.PathPoint
}

// NewRenderLoop creates an idle render loop drawing onto canvas.
// bus may be nil.
func NewRenderLoop(
	logger *slog.Logger,
	canvas ports.Canvas,
	dims DimensionSource,
	scheduler ports.Scheduler,
	bus ports.EventBus,
) *RenderLoop {
	return &RenderLoop{
		logger:    logger,
		canvas:    canvas,
		dims:      dims,
		scheduler: scheduler,
		bus:       bus,
		state:     domain.StateIdle,
		fill:      domain.DefaultFillColor,
	}
}

// AttachSource registers the frequency-data provider. It may be swapped while running;
// the next frame reads from the new source.
func (l *RenderLoop) AttachSource(src ports.FrequencySource) error {
	if src == nil {
		return domain.NewVisualizerError("attach source", "source must not be nil", domain.ErrInvalidSource)
	}

	l.mu.Lock()
	l.source = src
	l.mu.Unlock()

	l.logger.Debug("frequency source attached", slog.Int("sample_count", src.SampleCount()))
	return nil
}

// HasSource returns true once a frequency source is attached.
func (l *RenderLoop) HasSource() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.source != nil
}

// Start moves the loop to Running and schedules the first frame.
// It fails with ErrSourceNotAttached, before anything is scheduled, when no source is
// attached, and with ErrSchedulerClosed when the scheduler refuses the first frame.
// Starting a running loop is a no-op.
func (l *RenderLoop) Start() error {
	l.mu.Lock()
	if l.source == nil {
		l.mu.Unlock()
		return domain.NewVisualizerError("start", "analyser has not been set", domain.ErrSourceNotAttached)
	}
	if l.state == domain.StateRunning {
		l.mu.Unlock()
		return nil
	}

	l.state = domain.StateRunning
	l.generation++
	gen := l.generation
	count := l.source.SampleCount()
	l.handle = l.scheduler.Schedule(func() { l.tick(gen) })
	if l.handle == ports.InvalidFrameHandle {
		l.halt()
		l.mu.Unlock()
		return domain.NewVisualizerError("start", "frame scheduler is closed", domain.ErrSchedulerClosed)
	}
	l.mu.Unlock()

	l.logger.Info("visualiser started", slog.Int("sample_count", count))
	l.publish(domain.NewVisualizerStartedEvent(count))
	return nil
}

// Stop cancels the pending frame and moves the loop to Idle.
// After Stop returns no further frame starts. Stopping an idle loop is a no-op.
func (l *RenderLoop) Stop() {
	l.mu.Lock()
	if l.state != domain.StateRunning {
		l.mu.Unlock()
		return
	}
	frames := l.halt()
	l.mu.Unlock()

	l.logger.Info("visualiser stopped", slog.Uint64("frames", frames))
	l.publish(domain.NewVisualizerStoppedEvent(frames))
}

// halt cancels the pending frame and invalidates any queued callback.
// Callers hold mu.
func (l *RenderLoop) halt() uint64 {
	if l.handle != ports.InvalidFrameHandle {
		l.scheduler.Cancel(l.handle)
		l.handle = ports.InvalidFrameHandle
	}
	l.generation++
	l.state = domain.StateIdle
	return l.frames
}

func (l *RenderLoop) current(gen uint64) bool {
	return l.state == domain.StateRunning && l.generation == gen
}

func (l *RenderLoop) tick(gen uint64) {
	l.frameMu.Lock()

	l.mu.Lock()
	if !l.current(gen) {
		l.mu.Unlock()
		l.frameMu.Unlock()
		return
	}
	l.handle = ports.InvalidFrameHandle
	l.mu.Unlock()

	err := l.renderFrame()
	l.frameMu.Unlock()

	l.mu.Lock()
	if !l.current(gen) {
		// Stopped while the frame was drawing.
		l.mu.Unlock()
		return
	}

	if err != nil && !domain.IsTransient(err) {
		frames := l.halt()
		l.mu.Unlock()

		l.logger.Error("render loop halted", slog.Any("error", err), slog.Uint64("frames", frames))
		l.publish(domain.NewRenderFailedEvent(err))
		l.publish(domain.NewVisualizerStoppedEvent(frames))
		return
	}

	l.handle = l.scheduler.Schedule(func() { l.tick(gen) })
	if l.handle == ports.InvalidFrameHandle {
		frames := l.halt()
		l.mu.Unlock()

		l.logger.Warn("render loop halted: frame scheduler closed", slog.Uint64("frames", frames))
		l.publish(domain.NewVisualizerStoppedEvent(frames))
		return
	}
	l.mu.Unlock()

	if err != nil {
		l.logger.Debug("frame skipped", slog.Any("reason", err))
	}
}

// RenderFrame draws one frame immediately, independent of the loop state.
//
// It returns ErrSourceNotAttached when no source is attached, ErrResizeInProgress
// when the surface is mid-resize and ErrSurfaceNotSized before the first resize.
// In the last two cases nothing is drawn.
func (l *RenderLoop) RenderFrame() error {
	l.frameMu.Lock()
	defer l.frameMu.Unlock()
	return l.renderFrame()
}

// renderFrame must be called with frameMu held.
func (l *RenderLoop) renderFrame() error {
	l.mu.Lock()
	src := l.source
	fill := l.fill
	l.mu.Unlock()

	if src == nil {
		return domain.NewVisualizerError("render frame", "analyser has not been set", domain.ErrSourceNotAttached)
	}

	dims, release, ok := l.dims.Acquire()
	if !ok {
		return domain.ErrResizeInProgress
	}
	defer release()

	if dims.IsEmpty() {
		return domain.ErrSurfaceNotSized
	}

	n := src.SampleCount()
	if n < 0 {
		n = 0
	}
	if cap(l.buf) < n {
		l.buf = make([]uint8, n)
	}
	l.buf = l.buf[:n]
	if n > 0 {
		src.ReadInto(l.buf)
	}

	l.path = render.AppendSilhouette(l.path[:0], l.buf, dims)

	l.canvas.SetFillStyle(fill)
	l.canvas.Clear()
	l.canvas.BeginPath()
	l.canvas.MoveTo(l.path[0].X, l.path[0].Y)
	for _, p := range l.path[1:] {
		l.canvas.LineTo(p.X, p.Y)
	}
	l.canvas.ClosePath()
	l.canvas.Fill()

	l.mu.Lock()
	l.frames++
	l.mu.Unlock()

	return nil
}

// SetFillColor replaces the fill colour. A frame already drawing keeps the colour it
// started with; the change shows from the next frame.
func (l *RenderLoop) SetFillColor(c color.Color) {
	l.SwapFillColor(c)
}

// SwapFillColor is SetFillColor reporting whether the colour actually changed, as one
// step, so concurrent callers agree on who made the change. A nil colour is ignored.
func (l *RenderLoop) SwapFillColor(c color.Color) (color.NRGBA, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if c == nil {
		return l.fill, false
	}
	nrgba, _ := color.NRGBAModel.Convert(c).(color.NRGBA)
	if nrgba == l.fill {
		return nrgba, false
	}
	l.fill = nrgba
	return nrgba, true
}

// FillColor returns the current fill colour.
func (l *RenderLoop) FillColor() color.NRGBA {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fill
}

// State returns the current loop state.
func (l *RenderLoop) State() domain.VisualizerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// FramesRendered returns how many frames have been filled since construction.
func (l *RenderLoop) FramesRendered() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

func (l *RenderLoop) publish(event domain.Event) {
	if l.bus != nil {
		l.bus.Publish(event)
	}
}
