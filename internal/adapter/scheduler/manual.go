// Package scheduler provides implementations of the ports.Scheduler frame primitive.
package scheduler

import (
	"sync"

	"github.com/tejashwikalptaru/audiovisualiser/internal/ports"
)

// Manual is a Scheduler driven explicitly by Tick, for deterministic tests and for
// hosts that own their frame clock.
//
// Thread-safety: This implementation is thread-safe.
type Manual struct {
	mu      sync.Mutex
	pending []manualEntry
	next    ports.FrameHandle
	closed  bool
}

type manualEntry struct {
	handle ports.FrameHandle
	fn     func()
}

// NewManual creates a scheduler with no pending frames.
func NewManual() *Manual {
	return &Manual{}
}

// Schedule implements ports.Scheduler.
func (m *Manual) Schedule(fn func()) ports.FrameHandle {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ports.InvalidFrameHandle
	}
	m.next++
	m.pending = append(m.pending, manualEntry{handle: m.next, fn: fn})
	return m.next
}

// Cancel implements ports.Scheduler.
func (m *Manual) Cancel(handle ports.FrameHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.pending {
		if e.handle == handle {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}

// Tick runs every callback that was pending when Tick was called, in schedule order.
// Callbacks scheduled while ticking wait for the next Tick. Returns how many ran.
func (m *Manual) Tick() int {
	m.mu.Lock()
	due := make([]ports.FrameHandle, len(m.pending))
	for i, e := range m.pending {
		due[i] = e.handle
	}
	m.mu.Unlock()

	ran := 0
	for _, h := range due {
		if fn := m.take(h); fn != nil {
			fn()
			ran++
		}
	}
	return ran
}

// take removes and returns the callback for h, or nil if it was cancelled meanwhile.
func (m *Manual) take(h ports.FrameHandle) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.pending {
		if e.handle == h {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return e.fn
		}
	}
	return nil
}

// Pending returns the number of scheduled, not yet run callbacks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Close drops every pending callback and rejects further scheduling.
func (m *Manual) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = nil
	m.closed = true
}

var _ ports.Scheduler = (*Manual)(nil)
