package ports

import (
	"image/color"
)

// Canvas is the 2D drawing capability the render loop draws through.
// Coordinates are surface pixels with the origin at the top-left corner.
//
// Implementations are driven from a single goroutine and need not be thread-safe.
type Canvas interface {
	// Clear erases the full surface.
	Clear()

	// BeginPath discards any path under construction.
	BeginPath()

	// MoveTo starts a new sub-path at (x, y).
	MoveTo(x, y int)

	// LineTo adds a straight edge from the current point to (x, y).
	LineTo(x, y int)

	// ClosePath adds an edge back to the sub-path's first point.
	ClosePath()

	// Fill fills the current path with the current fill style.
	Fill()

	// SetFillStyle sets the colour used by subsequent Fill calls.
	SetFillStyle(c color.Color)
}

// Surface is a Canvas backed by a resizable pixel buffer.
// Drawing-surface backing stores do not follow layout size on their own;
// the sizing manager calls Resize with device-scaled pixel dimensions.
type Surface interface {
	Canvas

	// Resize reallocates the backing pixel buffer. Negative values are treated as zero.
	Resize(width, height int)
}

// PixelRatioProvider reports the scale between logical and device pixels.
type PixelRatioProvider interface {
	// PixelRatio returns the device pixel ratio, or a non-positive value when unknown.
	PixelRatio() float64
}

// PixelRatioFunc adapts a function to PixelRatioProvider.
type PixelRatioFunc func() float64

// PixelRatio implements PixelRatioProvider.
func (f PixelRatioFunc) PixelRatio() float64 {
	return f()
}
