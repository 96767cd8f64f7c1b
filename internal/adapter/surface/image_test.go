package surface

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.NRGBA{R: 0xff, A: 0xff}

// fillRect draws the axis-aligned rectangle [x0,x1) x [y0,y1) as a closed path.
func fillRect(s *Image, x0, y0, x1, y1 int) {
	s.BeginPath()
	s.MoveTo(x0, y1)
	s.LineTo(x0, y0)
	s.LineTo(x1, y0)
	s.LineTo(x1, y1)
	s.ClosePath()
	s.Fill()
}

func TestImage_FillPolygon(t *testing.T) {
	s := NewImage(20, 10)
	s.SetFillStyle(red)

	fillRect(s, 0, 5, 20, 10)

	img := s.Snapshot()
	r, g, b, a := img.At(10, 8).RGBA()
	assert.Greater(t, r, uint32(0xff00), "inside the polygon")
	assert.Less(t, g, uint32(0x100))
	assert.Less(t, b, uint32(0x100))
	assert.Greater(t, a, uint32(0xff00))

	_, _, _, a = img.At(10, 2).RGBA()
	assert.Zero(t, a, "above the polygon stays transparent")
}

func TestImage_DefaultFillIsWhite(t *testing.T) {
	s := NewImage(4, 4)

	fillRect(s, 0, 0, 4, 4)

	r, g, b, a := s.Snapshot().At(1, 1).RGBA()
	for _, ch := range []uint32{r, g, b, a} {
		assert.Greater(t, ch, uint32(0xff00))
	}
}

func TestImage_Clear(t *testing.T) {
	s := NewImage(8, 8)
	fillRect(s, 0, 0, 8, 8)
	s.Clear()

	for _, px := range s.Snapshot().Pix {
		require.Zero(t, px)
	}
}

func TestImage_FillWithoutPathDrawsNothing(t *testing.T) {
	s := NewImage(8, 8)
	s.BeginPath()
	s.Fill()

	for _, px := range s.Snapshot().Pix {
		require.Zero(t, px)
	}
}

func TestImage_FlatPathFillsNothing(t *testing.T) {
	s := NewImage(16, 8)
	s.BeginPath()
	s.MoveTo(0, 8)
	s.LineTo(16, 8)
	s.LineTo(0, 8)
	s.ClosePath()
	s.Fill()

	for _, px := range s.Snapshot().Pix {
		require.Zero(t, px)
	}
}

func TestImage_Resize(t *testing.T) {
	s := NewImage(4, 4)
	fillRect(s, 0, 0, 4, 4)

	s.Resize(12, 6)
	assert.Equal(t, image.Rect(0, 0, 12, 6), s.Bounds())

	// Resizing discards contents, as a canvas backing store does.
	_, _, _, a := s.Snapshot().At(1, 1).RGBA()
	assert.Zero(t, a)

	// A path drawn after the resize covers the new area.
	fillRect(s, 0, 0, 12, 6)
	_, _, _, a = s.Snapshot().At(11, 5).RGBA()
	assert.Greater(t, a, uint32(0xff00))
}

func TestImage_ResizeNegativeAndZero(t *testing.T) {
	s := NewImage(-3, 5)
	assert.Equal(t, image.Rect(0, 0, 0, 5), s.Bounds())

	s.Resize(0, 0)
	assert.True(t, s.Bounds().Empty())

	// Drawing on an empty surface must not panic.
	fillRect(s, 0, 0, 10, 10)
	s.Clear()
}

func TestImage_SnapshotIsCopy(t *testing.T) {
	s := NewImage(2, 2)
	snap := s.Snapshot()

	fillRect(s, 0, 0, 2, 2)

	_, _, _, a := snap.At(0, 0).RGBA()
	assert.Zero(t, a)
}
