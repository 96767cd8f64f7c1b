// Package render turns frequency magnitudes into the silhouette polygon.
// Everything here is pure: the same inputs always give the same points.
package render

import (
	"github.com/tejashwikalptaru/audiovisualiser/internal/domain"
)

// ClampMagnitude limits v to [0, 255].
// Sources are expected to deliver bytes already; adapters that compute wider values
// pass them through here before storing.
func ClampMagnitude(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > domain.MaxMagnitude {
		return domain.MaxMagnitude
	}
	return uint8(v)
}

// BarWidth returns the pixel width allotted to one sample when n samples span width pixels.
// It returns 0 for an empty buffer.
func BarWidth(width, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(width) / float64(n)
}

// MapSample converts sample index of buf into a point on a width x height surface.
//
// x is index*barWidth truncated toward zero, so the last sample lands at most one bar
// short of the right edge. y is measured from the top: magnitude 0 sits on the
// baseline (y == height) and 255 reaches the top (y == 0).
//
// index must be in [0, len(buf)).
func MapSample(index int, buf []uint8, width, height int) domain.PathPoint {
	x := int(float64(index) * BarWidth(width, len(buf)))
	magnitude := int(ClampMagnitude(int(buf[index])))
	y := height - magnitude*height/domain.MaxMagnitude

	return domain.PathPoint{X: x, Y: y}
}

// BuildSilhouette returns the closed polygon for one frame:
// baseline-left, every sample left to right, baseline-right, baseline-left.
//
// An empty buffer or a surface with no width produces the flat path along the
// baseline, which fills nothing visible.
func BuildSilhouette(buf []uint8, dims domain.SurfaceDimensions) []domain.PathPoint {
	return AppendSilhouette(nil, buf, dims)
}

// AppendSilhouette is BuildSilhouette appending into dst, so a render loop can reuse
// one slice across frames.
func AppendSilhouette(dst []domain.PathPoint, buf []uint8, dims domain.SurfaceDimensions) []domain.PathPoint {
	w, h := dims.Width, dims.Height
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}

	baseline := domain.PathPoint{X: 0, Y: h}
	dst = append(dst, baseline)
	for i := range buf {
		dst = append(dst, MapSample(i, buf, w, h))
	}
	dst = append(dst, domain.PathPoint{X: w, Y: h}, baseline)

	return dst
}
