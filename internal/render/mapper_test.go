package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/audiovisualiser/internal/domain"
)

func TestMapSample_ThreeSampleScenario(t *testing.T) {
	buf := []uint8{0, 128, 255}

	assert.Equal(t, domain.PathPoint{X: 0, Y: 100}, MapSample(0, buf, 3, 100))
	assert.Equal(t, domain.PathPoint{X: 1, Y: 50}, MapSample(1, buf, 3, 100))
	assert.Equal(t, domain.PathPoint{X: 2, Y: 0}, MapSample(2, buf, 3, 100))
}

func TestBuildSilhouette_ThreeSampleScenario(t *testing.T) {
	path := BuildSilhouette([]uint8{0, 128, 255}, domain.SurfaceDimensions{Width: 3, Height: 100})

	want := []domain.PathPoint{
		{X: 0, Y: 100},
		{X: 0, Y: 100},
		{X: 1, Y: 50},
		{X: 2, Y: 0},
		{X: 3, Y: 100},
		{X: 0, Y: 100},
	}
	assert.Equal(t, want, path)
}

func TestMapSample_Extremes(t *testing.T) {
	for _, height := range []int{1, 2, 7, 100, 255, 256, 1080, 2161} {
		silent := []uint8{0}
		loud := []uint8{255}

		assert.Equal(t, height, MapSample(0, silent, 640, height).Y, "magnitude 0 must sit on the baseline (h=%d)", height)
		assert.Equal(t, 0, MapSample(0, loud, 640, height).Y, "magnitude 255 must reach the top (h=%d)", height)
	}
}

func TestMapSample_XWithinSurface(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 64, 1024} {
		buf := make([]uint8, n)
		for _, width := range []int{0, 1, 3, 99, 100, 1920} {
			bar := BarWidth(width, n)
			prev := -1
			for i := 0; i < n; i++ {
				p := MapSample(i, buf, width, 50)
				require.GreaterOrEqual(t, p.X, 0)
				require.LessOrEqual(t, p.X, width)
				require.GreaterOrEqual(t, p.X, prev, "x must not decrease (n=%d w=%d)", n, width)
				prev = p.X
			}
			// Last sample sits within one bar of the right edge.
			assert.LessOrEqual(t, float64(width-prev), bar+1, "n=%d w=%d", n, width)
		}
	}
}

func TestMapSample_Deterministic(t *testing.T) {
	buf := []uint8{12, 200, 37, 255, 0, 90}

	first := BuildSilhouette(buf, domain.SurfaceDimensions{Width: 333, Height: 77})
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, BuildSilhouette(buf, domain.SurfaceDimensions{Width: 333, Height: 77}))
	}
	assert.Equal(t, []uint8{12, 200, 37, 255, 0, 90}, buf, "input must not be modified")
}

func TestBuildSilhouette_EmptyBuffer(t *testing.T) {
	path := BuildSilhouette(nil, domain.SurfaceDimensions{Width: 40, Height: 10})

	assert.Equal(t, []domain.PathPoint{{X: 0, Y: 10}, {X: 40, Y: 10}, {X: 0, Y: 10}}, path)
}

func TestBuildSilhouette_ZeroSurface(t *testing.T) {
	path := BuildSilhouette([]uint8{255, 255}, domain.SurfaceDimensions{})

	require.Len(t, path, 5)
	for _, p := range path {
		assert.Equal(t, domain.PathPoint{}, p)
	}
}

func TestAppendSilhouette_ReusesBuffer(t *testing.T) {
	buf := []uint8{10, 20, 30, 40}
	dims := domain.SurfaceDimensions{Width: 8, Height: 8}

	scratch := make([]domain.PathPoint, 0, 16)
	out := AppendSilhouette(scratch[:0], buf, dims)

	assert.Equal(t, BuildSilhouette(buf, dims), out)
	assert.Same(t, &scratch[:1][0], &out[0], "should append into the provided slice")
}

func TestClampMagnitude(t *testing.T) {
	assert.Equal(t, uint8(0), ClampMagnitude(-40))
	assert.Equal(t, uint8(0), ClampMagnitude(0))
	assert.Equal(t, uint8(128), ClampMagnitude(128))
	assert.Equal(t, uint8(255), ClampMagnitude(255))
	assert.Equal(t, uint8(255), ClampMagnitude(9000))
}

func TestBarWidth(t *testing.T) {
	assert.InDelta(t, 1.0, BarWidth(3, 3), 1e-9)
	assert.InDelta(t, 0.5, BarWidth(1, 2), 1e-9)
	assert.Zero(t, BarWidth(100, 0))
}
