package testutil

import (
	"sync"

	"github.com/tejashwikalptaru/audiovisualiser/internal/ports"
)

// StaticSource is a ports.FrequencySource that always returns the same magnitudes.
type StaticSource struct {
	mu     sync.Mutex
	values []uint8
	reads  int
}

// NewStaticSource creates a source with a fixed bin count of len(values).
func NewStaticSource(values ...uint8) *StaticSource {
	v := make([]uint8, len(values))
	copy(v, values)
	return &StaticSource{values: v}
}

// SampleCount implements ports.FrequencySource.
func (s *StaticSource) SampleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

// ReadInto implements ports.FrequencySource.
func (s *StaticSource) ReadInto(buf []uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	copy(buf, s.values)
}

// SetValues replaces the magnitudes. The bin count may change.
func (s *StaticSource) SetValues(values ...uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values[:0:0], values...)
}

// Reads returns how many times ReadInto was called.
func (s *StaticSource) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

var _ ports.FrequencySource = (*StaticSource)(nil)
