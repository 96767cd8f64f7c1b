package service

import (
	"log/slog"
	"math"
	"sync"

	"github.com/tejashwikalptaru/audiovisualiser/internal/domain"
	"github.com/tejashwikalptaru/audiovisualiser/internal/ports"
)

// SizingManager keeps the surface's backing pixel buffer in step with its layout size
// scaled by the device pixel ratio.
//
// A resize is applied in two phases: the manager marks itself as resizing, resizes the
// backing store, then stores the new dimensions and clears the mark. Snapshot and
// Acquire report not-ready while the mark is set. A frame drawing under Acquire holds
// off the resize until it releases, so a frame never pairs a new buffer with old
// dimensions or reads a half-updated pair.
//
// Thread-safety: This implementation is thread-safe. Concurrent Apply calls are
// serialised. Apply must not be called from the goroutine holding an Acquire.
type SizingManager struct {
	logger  *slog.Logger
	surface ports.Surface
	ratio   ports.PixelRatioProvider
	bus     ports.EventBus

	// applyMu serialises whole resize passes. drawMu is held for reading by frames
	// and for writing while the backing store changes. mu guards the fields below.
	applyMu sync.Mutex
	drawMu  sync.RWMutex
	mu      sync.RWMutex

	dims     domain.SurfaceDimensions
	logical  domain.LogicalSize
	resizing bool
	subID    domain.SubscriptionID
}

// NewSizingManager creates a sizing manager for surface.
// ratio may be nil, in which case a pixel ratio of 1 is used.
func NewSizingManager(
	logger *slog.Logger,
	surface ports.Surface,
	ratio ports.PixelRatioProvider,
	bus ports.EventBus,
) *SizingManager {
	return &SizingManager{
		logger:  logger,
		surface: surface,
		ratio:   ratio,
		bus:     bus,
	}
}

// Observe subscribes to layout-change notifications on the event bus.
// Calling Observe while already observing is a no-op.
func (m *SizingManager) Observe() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.subID != "" || m.bus == nil {
		return
	}
	m.subID = m.bus.Subscribe(domain.EventLayoutChanged, m.onLayoutChanged)
}

// Unobserve stops reacting to layout-change notifications.
func (m *SizingManager) Unobserve() {
	m.mu.Lock()
	id := m.subID
	m.subID = ""
	m.mu.Unlock()

	if id != "" {
		m.bus.Unsubscribe(id)
	}
}

// IsObserving returns true while subscribed to layout changes.
func (m *SizingManager) IsObserving() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.subID != ""
}

func (m *SizingManager) onLayoutChanged(event domain.Event) {
	e, ok := event.(domain.LayoutChangedEvent)
	if !ok {
		return
	}
	m.Apply(e.Size)
}

// PixelRatio returns the current device pixel ratio, or 1 when the host cannot tell.
func (m *SizingManager) PixelRatio() float64 {
	if m.ratio == nil {
		return 1
	}
	r := m.ratio.PixelRatio()
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 1
	}
	return r
}

// Apply resizes the backing pixel buffer for a new logical size and returns the
// resulting pixel dimensions.
func (m *SizingManager) Apply(size domain.LogicalSize) domain.SurfaceDimensions {
	ratio := m.PixelRatio()
	dims := m.resize(size, ratio)

	m.logger.Debug("surface resized",
		slog.Float64("logical_width", float64(size.Width)),
		slog.Float64("logical_height", float64(size.Height)),
		slog.Float64("pixel_ratio", ratio),
		slog.String("pixels", dims.String()))

	if m.bus != nil {
		m.bus.Publish(domain.NewSurfaceResizedEvent(size, ratio, dims))
	}

	return dims
}

func (m *SizingManager) resize(size domain.LogicalSize, ratio float64) domain.SurfaceDimensions {
	m.applyMu.Lock()
	defer m.applyMu.Unlock()

	dims := domain.SurfaceDimensions{
		Width:  toPixels(size.Width, ratio),
		Height: toPixels(size.Height, ratio),
	}

	// Marked before waiting on drawMu, so new frames skip instead of queueing.
	m.mu.Lock()
	m.resizing = true
	m.mu.Unlock()

	m.drawMu.Lock()
	defer m.drawMu.Unlock()

	m.surface.Resize(dims.Width, dims.Height)

	m.mu.Lock()
	m.dims = dims
	m.logical = size
	m.resizing = false
	m.mu.Unlock()

	return dims
}

// Acquire returns the current dimensions and holds off any resize until release is
// called. ok is false, and release nil, while a resize is pending or in progress.
func (m *SizingManager) Acquire() (dims domain.SurfaceDimensions, release func(), ok bool) {
	if !m.drawMu.TryRLock() {
		return domain.SurfaceDimensions{}, nil, false
	}

	dims, ok = m.Snapshot()
	if !ok {
		m.drawMu.RUnlock()
		return domain.SurfaceDimensions{}, nil, false
	}
	return dims, m.drawMu.RUnlock, true
}

// Snapshot returns the current dimensions as one consistent pair.
// ok is false while a resize is being applied.
func (m *SizingManager) Snapshot() (dims domain.SurfaceDimensions, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.resizing {
		return domain.SurfaceDimensions{}, false
	}
	return m.dims, true
}

// Dimensions returns the last applied pixel dimensions.
func (m *SizingManager) Dimensions() domain.SurfaceDimensions {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dims
}

// LogicalSize returns the last applied layout size.
func (m *SizingManager) LogicalSize() domain.LogicalSize {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logical
}

// IsResizing returns true while a resize pass is in progress.
func (m *SizingManager) IsResizing() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resizing
}

// toPixels scales a logical length and truncates it, as assigning a fractional
// width to a canvas does. Negative and non-finite results become 0.
func toPixels(logical float32, ratio float64) int {
	v := float64(logical) * ratio
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}
