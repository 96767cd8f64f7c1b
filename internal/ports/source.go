// Package ports define interfaces for dependency inversion.
// These interfaces keep the render pipeline independent of the host environment
// and of the audio-analysis subsystem.
package ports

// FrequencySource is the audio-analysis collaborator that feeds the visualiser.
// The visualiser treats it as opaque: a fixed number of bins, each read as an
// unsigned 8-bit magnitude.
type FrequencySource interface {
	// SampleCount returns the fixed number of frequency bins.
	SampleCount() int

	// ReadInto fills buf with the latest magnitudes, values in [0,255].
	// len(buf) is SampleCount() at the time the buffer was allocated.
	ReadInto(buf []uint8)
}
