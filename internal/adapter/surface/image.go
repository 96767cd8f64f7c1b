// Package surface provides an in-memory ports.Surface backed by an image.RGBA.
package surface

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/vector"

	"github.com/tejashwikalptaru/audiovisualiser/internal/domain"
	"github.com/tejashwikalptaru/audiovisualiser/internal/ports"
)

// Image is a pixel-buffer drawing surface. Paths are rasterised with anti-aliased
// coverage by golang.org/x/image/vector and composited over the buffer.
//
// Thread-safety: drawing calls are serialised by an internal mutex so a host can read
// the image (Snapshot) from its own goroutine while frames are drawn.
type Image struct {
	mu     sync.Mutex
	img    *image.RGBA
	raster *vector.Rasterizer
	fill   *image.Uniform

	// hasPath is true once a MoveTo has opened a sub-path since BeginPath.
	// Path calls on an empty buffer are dropped, so it stays false there.
	hasPath bool
}

// NewImage creates a surface of width x height pixels filled with transparency.
func NewImage(width, height int) *Image {
	width, height = max(width, 0), max(height, 0)
	return &Image{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		raster: vector.NewRasterizer(width, height),
		fill:   image.NewUniform(domain.DefaultFillColor),
	}
}

// Resize implements ports.Surface. The previous contents are discarded.
func (s *Image) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	if b := s.img.Bounds(); b.Dx() == width && b.Dy() == height {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	s.raster.Reset(width, height)
	s.hasPath = false
}

// Clear implements ports.Canvas.
func (s *Image) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	draw.Draw(s.img, s.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// BeginPath implements ports.Canvas.
func (s *Image) BeginPath() {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.img.Bounds()
	s.raster.Reset(b.Dx(), b.Dy())
	s.hasPath = false
}

// MoveTo implements ports.Canvas.
func (s *Image) MoveTo(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img.Bounds().Empty() {
		return
	}
	s.raster.MoveTo(float32(x), float32(y))
	s.hasPath = true
}

// LineTo implements ports.Canvas. Without a preceding MoveTo it starts the sub-path.
func (s *Image) LineTo(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img.Bounds().Empty() {
		return
	}
	if !s.hasPath {
		s.raster.MoveTo(float32(x), float32(y))
		s.hasPath = true
		return
	}
	s.raster.LineTo(float32(x), float32(y))
}

// ClosePath implements ports.Canvas.
func (s *Image) ClosePath() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasPath {
		s.raster.ClosePath()
	}
}

// Fill implements ports.Canvas.
func (s *Image) Fill() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasPath || s.img.Bounds().Empty() {
		return
	}
	s.raster.Draw(s.img, s.img.Bounds(), s.fill, image.Point{})
}

// SetFillStyle implements ports.Canvas.
func (s *Image) SetFillStyle(c color.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fill = image.NewUniform(c)
}

// Bounds returns the current pixel bounds.
func (s *Image) Bounds() image.Rectangle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img.Bounds()
}

// Snapshot returns a copy of the current pixels.
func (s *Image) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

var _ ports.Surface = (*Image)(nil)
