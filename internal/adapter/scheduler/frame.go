package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/audiovisualiser/internal/ports"
)

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 60

// Dispatcher runs fn on the host's UI goroutine. fyne.Do is the production dispatcher.
type Dispatcher func(fn func())

// Frame is a wall-clock Scheduler: each callback becomes due one frame interval after
// it was scheduled and is handed to the dispatcher.
//
// A callback cancelled after its timer fired but before the dispatcher ran it is
// dropped, so Cancel is synchronous from the caller's point of view.
//
// Thread-safety: This implementation is thread-safe.
type Frame struct {
	logger   *slog.Logger
	interval time.Duration
	dispatch Dispatcher

	mu      sync.Mutex
	pending map[ports.FrameHandle]*time.Timer
	next    ports.FrameHandle
	closed  bool
}

// NewFrame creates a scheduler running at fps frames per second.
// A non-positive fps selects DefaultFPS; a nil dispatcher runs callbacks on the timer goroutine.
func NewFrame(logger *slog.Logger, fps int, dispatch Dispatcher) *Frame {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Frame{
		logger:   logger,
		interval: time.Second / time.Duration(fps),
		dispatch: dispatch,
		pending:  make(map[ports.FrameHandle]*time.Timer),
	}
}

// Interval returns the time between frames.
func (f *Frame) Interval() time.Duration {
	return f.interval
}

// Schedule implements ports.Scheduler.
// Scheduling on a closed scheduler returns ports.InvalidFrameHandle and fn never runs.
func (f *Frame) Schedule(fn func()) ports.FrameHandle {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		f.logger.Debug("schedule on closed frame scheduler")
		return ports.InvalidFrameHandle
	}

	f.next++
	handle := f.next
	f.pending[handle] = time.AfterFunc(f.interval, func() {
		f.dispatch(func() {
			if f.take(handle) {
				fn()
			}
		})
	})

	return handle
}

// Cancel implements ports.Scheduler.
func (f *Frame) Cancel(handle ports.FrameHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t, ok := f.pending[handle]; ok {
		t.Stop()
		delete(f.pending, handle)
	}
}

func (f *Frame) take(handle ports.FrameHandle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.pending[handle]; !ok {
		return false
	}
	delete(f.pending, handle)
	return true
}

// Pending returns the number of scheduled, not yet run callbacks.
func (f *Frame) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Close cancels every pending callback and rejects further scheduling.
// It is safe to call multiple times.
func (f *Frame) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for h, t := range f.pending {
		t.Stop()
		delete(f.pending, h)
	}
	f.closed = true
}

var _ ports.Scheduler = (*Frame)(nil)
