// Package source provides ports.FrequencySource implementations.
package source

import (
	"math"
	"sync"
	"time"

	"github.com/tejashwikalptaru/audiovisualiser/internal/ports"
	"github.com/tejashwikalptaru/audiovisualiser/internal/render"
)

// DefaultSampleCount matches the bin count of a 2048-point analyser.
const DefaultSampleCount = 1024

// Synthetic generates a moving, spectrum-like magnitude curve without any audio input.
// It drives the demo binary and gives the render loop realistic shapes in tests.
//
// Output is a pure function of the clock, so a fixed clock gives fixed magnitudes.
//
// Thread-safety: This implementation is thread-safe.
type Synthetic struct {
	count int
	now   func() time.Time
	start time.Time

	mu sync.Mutex
}

// NewSynthetic creates a source with count bins using the wall clock.
// A non-positive count selects DefaultSampleCount.
func NewSynthetic(count int) *Synthetic {
	return NewSyntheticWithClock(count, time.Now)
}

// NewSyntheticWithClock creates a source reading time from now.
func NewSyntheticWithClock(count int, now func() time.Time) *Synthetic {
	if count <= 0 {
		count = DefaultSampleCount
	}
	return &Synthetic{
		count: count,
		now:   now,
		start: now(),
	}
}

// SampleCount implements ports.FrequencySource.
func (s *Synthetic) SampleCount() int {
	return s.count
}

// ReadInto implements ports.FrequencySource.
func (s *Synthetic) ReadInto(buf []uint8) {
	s.mu.Lock()
	t := s.now().Sub(s.start).Seconds()
	s.mu.Unlock()

	n := min(len(buf), s.count)
	for i := 0; i < n; i++ {
		pos := float64(i) / float64(s.count)
		buf[i] = render.ClampMagnitude(int(magnitudeAt(pos, t)))
	}
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
}

// Spectrum returns the current curve as linear amplitudes, in the shape an FFT getter
// returns. Passed through a FloatSpectrum with the default decibel window it yields
// the same magnitudes as ReadInto, smoothed over time.
func (s *Synthetic) Spectrum() ([]float32, error) {
	s.mu.Lock()
	t := s.now().Sub(s.start).Seconds()
	s.mu.Unlock()

	out := make([]float32, s.count)
	for i := range out {
		v := math.Min(magnitudeAt(float64(i)/float64(s.count), t), 255)
		db := DefaultMinDecibels + (DefaultMaxDecibels-DefaultMinDecibels)*v/255
		out[i] = float32(math.Pow(10, db/20))
	}
	return out, nil
}

// magnitudeAt models a pink-ish spectrum (energy falling with frequency) with three
// peaks drifting at different rates. pos is the bin position in [0,1).
func magnitudeAt(pos, t float64) float64 {
	floor := 150 * math.Exp(-4*pos)

	peaks := [...]struct{ center, swing, rate, width, gain float64 }{
		{0.05, 0.03, 1.3, 0.02, 90},
		{0.25, 0.10, 0.7, 0.05, 70},
		{0.60, 0.15, 0.4, 0.08, 50},
	}

	v := floor
	for _, p := range peaks {
		c := p.center + p.swing*math.Sin(p.rate*2*math.Pi*t)
		d := (pos - c) / p.width
		pulse := 0.75 + 0.25*math.Sin(p.rate*5*t)
		v += p.gain * pulse * math.Exp(-d*d)
	}
	return v
}

var _ ports.FrequencySource = (*Synthetic)(nil)
