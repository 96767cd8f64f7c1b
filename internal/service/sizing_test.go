package service

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/audiovisualiser/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/audiovisualiser/internal/domain"
	"github.com/tejashwikalptaru/audiovisualiser/internal/logger"
	"github.com/tejashwikalptaru/audiovisualiser/internal/ports"
	"github.com/tejashwikalptaru/audiovisualiser/internal/testutil"
)

func newTestSizing(ratio ports.PixelRatioProvider) (*SizingManager, *testutil.RecordingCanvas, *eventbus.SyncEventBus) {
	canvas := testutil.NewRecordingCanvas()
	bus := eventbus.NewSyncEventBus(nil)
	return NewSizingManager(logger.NewTestLogger(), canvas, ratio, bus), canvas, bus
}

func TestSizingManager_DefaultPixelRatio(t *testing.T) {
	m, canvas, _ := newTestSizing(nil)

	dims := m.Apply(domain.LogicalSize{Width: 300, Height: 150})

	assert.Equal(t, domain.SurfaceDimensions{Width: 300, Height: 150}, dims)
	w, h := canvas.Size()
	assert.Equal(t, 300, w)
	assert.Equal(t, 150, h)
	assert.InDelta(t, 1.0, m.PixelRatio(), 1e-9)
}

func TestSizingManager_HighDensity(t *testing.T) {
	m, canvas, _ := newTestSizing(ports.PixelRatioFunc(func() float64 { return 2 }))

	dims := m.Apply(domain.LogicalSize{Width: 300, Height: 150})

	assert.Equal(t, domain.SurfaceDimensions{Width: 600, Height: 300}, dims)
	w, h := canvas.Size()
	assert.Equal(t, 600, w)
	assert.Equal(t, 300, h)
}

func TestSizingManager_FractionalTruncates(t *testing.T) {
	m, _, _ := newTestSizing(ports.PixelRatioFunc(func() float64 { return 1.5 }))

	dims := m.Apply(domain.LogicalSize{Width: 101, Height: 33.3})

	// 151.5 -> 151, 49.95 -> 49
	assert.Equal(t, domain.SurfaceDimensions{Width: 151, Height: 49}, dims)
}

func TestSizingManager_BadPixelRatioFallsBackToOne(t *testing.T) {
	for _, r := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		m, _, _ := newTestSizing(ports.PixelRatioFunc(func() float64 { return r }))
		assert.InDelta(t, 1.0, m.PixelRatio(), 1e-9, "ratio %v", r)
	}
}

func TestSizingManager_NegativeSizeClampsToZero(t *testing.T) {
	m, _, _ := newTestSizing(nil)

	dims := m.Apply(domain.LogicalSize{Width: -10, Height: 20})

	assert.Equal(t, domain.SurfaceDimensions{Width: 0, Height: 20}, dims)
	assert.True(t, dims.IsEmpty())
}

func TestSizingManager_ObserveFollowsLayout(t *testing.T) {
	m, canvas, bus := newTestSizing(nil)

	m.Observe()
	require.True(t, m.IsObserving())

	bus.Publish(domain.NewLayoutChangedEvent(domain.LogicalSize{Width: 80, Height: 40}))
	assert.Equal(t, domain.SurfaceDimensions{Width: 80, Height: 40}, m.Dimensions())
	assert.Equal(t, domain.LogicalSize{Width: 80, Height: 40}, m.LogicalSize())

	m.Unobserve()
	assert.False(t, m.IsObserving())

	bus.Publish(domain.NewLayoutChangedEvent(domain.LogicalSize{Width: 10, Height: 10}))
	assert.Equal(t, domain.SurfaceDimensions{Width: 80, Height: 40}, m.Dimensions())
	assert.Equal(t, 1, canvas.Count(testutil.OpResize))
}

func TestSizingManager_ObserveTwiceSubscribesOnce(t *testing.T) {
	m, canvas, bus := newTestSizing(nil)

	m.Observe()
	m.Observe()
	bus.Publish(domain.NewLayoutChangedEvent(domain.LogicalSize{Width: 5, Height: 5}))

	assert.Equal(t, 1, canvas.Count(testutil.OpResize))
	m.Unobserve()
	assert.False(t, bus.HasSubscribers(domain.EventLayoutChanged))
}

func TestSizingManager_PublishesResized(t *testing.T) {
	m, _, bus := newTestSizing(ports.PixelRatioFunc(func() float64 { return 2 }))

	var got []domain.SurfaceResizedEvent
	bus.Subscribe(domain.EventSurfaceResized, func(e domain.Event) {
		got = append(got, e.(domain.SurfaceResizedEvent))
	})

	m.Apply(domain.LogicalSize{Width: 10, Height: 20})

	require.Len(t, got, 1)
	assert.Equal(t, domain.SurfaceDimensions{Width: 20, Height: 40}, got[0].Dimensions)
	assert.Equal(t, domain.LogicalSize{Width: 10, Height: 20}, got[0].Logical)
	assert.InDelta(t, 2.0, got[0].PixelRatio, 1e-9)
}

func TestSizingManager_SnapshotNotReadyDuringResize(t *testing.T) {
	m, canvas, _ := newTestSizing(nil)
	m.Apply(domain.LogicalSize{Width: 10, Height: 10})

	var (
		during   domain.SurfaceDimensions
		ready    bool
		resizing bool
	)
	canvas.OnResize = func(int, int) {
		during, ready = m.Snapshot()
		resizing = m.IsResizing()
	}

	m.Apply(domain.LogicalSize{Width: 20, Height: 30})

	assert.False(t, ready, "snapshot must not be ready mid-resize")
	assert.True(t, resizing)
	assert.Equal(t, domain.SurfaceDimensions{}, during)

	dims, ok := m.Snapshot()
	assert.True(t, ok)
	assert.Equal(t, domain.SurfaceDimensions{Width: 20, Height: 30}, dims)
	assert.False(t, m.IsResizing())
}

func TestSizingManager_AcquireHoldsOffResize(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	m, canvas, _ := newTestSizing(nil)
	m.Apply(domain.LogicalSize{Width: 10, Height: 10})

	dims, release, ok := m.Acquire()
	require.True(t, ok)
	assert.Equal(t, domain.SurfaceDimensions{Width: 10, Height: 10}, dims)

	done := make(chan struct{})
	go func() {
		m.Apply(domain.LogicalSize{Width: 20, Height: 30})
		close(done)
	}()
	require.Eventually(t, m.IsResizing, time.Second, time.Millisecond)

	// The pending resize turns new frames away without touching the buffer.
	_, again, ok := m.Acquire()
	assert.False(t, ok)
	assert.Nil(t, again)
	w, h := canvas.Size()
	assert.Equal(t, 10, w)
	assert.Equal(t, 10, h)

	release()
	<-done

	dims, release, ok = m.Acquire()
	require.True(t, ok)
	release()
	assert.Equal(t, domain.SurfaceDimensions{Width: 20, Height: 30}, dims)
}
