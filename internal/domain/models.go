// Package domain contains the core visualiser models with no host dependencies.
package domain

import (
	"fmt"
	"image/color"
)

// MaxMagnitude is the largest value a frequency sample can hold.
const MaxMagnitude = 255

// FrequencyBuffer holds one magnitude sample per frequency bin, each in [0,255].
// It is refreshed in place every frame.
type FrequencyBuffer []uint8

// SurfaceDimensions is the size of the drawing surface's backing pixel buffer.
// Both values are non-negative.
type SurfaceDimensions struct {
	Width  int
	Height int
}

// IsEmpty returns true if the surface has no drawable pixels.
func (d SurfaceDimensions) IsEmpty() bool {
	return d.Width <= 0 || d.Height <= 0
}

// String returns a "WxH" representation.
func (d SurfaceDimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// LogicalSize is the layout size of the surface before device pixel scaling.
type LogicalSize struct {
	Width  float32
	Height float32
}

// PathPoint is a vertex of the silhouette polygon in surface pixel space.
type PathPoint struct {
	X int
	Y int
}

// VisualizerState is the state of the render loop.
type VisualizerState int

const (
	// StateIdle indicates no frames are scheduled
	StateIdle VisualizerState = iota

	// StateRunning indicates a frame is always pending
	StateRunning
)

// String returns a human-readable representation of the state.
func (s VisualizerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// DefaultFillColor is the silhouette colour used until one is configured.
var DefaultFillColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
