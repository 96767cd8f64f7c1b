package source

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tejashwikalptaru/audiovisualiser/internal/logger"
)

func constant(values ...float32) SpectrumFunc {
	return func() ([]float32, error) { return values, nil }
}

func TestFloatSpectrum_DecibelMapping(t *testing.T) {
	// -30 dB and above saturate, -100 dB and below are silent, -65 dB is mid-scale.
	loud := float32(1.0)
	top := float32(0.0316227766)  // -30 dB
	mid := float32(0.00056234133) // -65 dB
	quiet := float32(0.00001)     // -100 dB

	f := NewFloatSpectrum(constant(loud, top, mid, quiet, 0), 5, WithSmoothing(0))

	buf := make([]uint8, 5)
	f.ReadInto(buf)

	assert.Equal(t, uint8(255), buf[0])
	assert.InDelta(t, 255, int(buf[1]), 1)
	assert.InDelta(t, 127, int(buf[2]), 1)
	assert.InDelta(t, 0, int(buf[3]), 1)
	assert.Equal(t, uint8(0), buf[4])
}

func TestFloatSpectrum_PeakResampling(t *testing.T) {
	f := NewFloatSpectrum(constant(0.001, 1, 0.001, 0.001, 0.001, 0.001, 0.001, 1), 4,
		WithSmoothing(0), WithDecibelRange(-60, 0))

	buf := make([]uint8, 4)
	f.ReadInto(buf)

	assert.Equal(t, uint8(255), buf[0], "bin 0 covers input 0-1 and takes its peak")
	assert.Equal(t, uint8(0), buf[1])
	assert.Equal(t, uint8(0), buf[2])
	assert.Equal(t, uint8(255), buf[3])
}

func TestFloatSpectrum_UpsamplesShortInput(t *testing.T) {
	f := NewFloatSpectrum(constant(1, 0), 4, WithSmoothing(0))

	buf := make([]uint8, 4)
	f.ReadInto(buf)

	assert.Equal(t, []uint8{255, 255, 0, 0}, buf)
}

func TestFloatSpectrum_Smoothing(t *testing.T) {
	values := []float32{1}
	f := NewFloatSpectrum(func() ([]float32, error) { return values, nil }, 1,
		WithSmoothing(0.5), WithDecibelRange(-60, 0))

	buf := make([]uint8, 1)
	f.ReadInto(buf) // smoothed 0.5 -> -6 dB
	first := buf[0]
	f.ReadInto(buf) // smoothed 0.75 -> -2.5 dB
	second := buf[0]

	assert.Less(t, first, second)
	assert.Less(t, second, uint8(255))
}

func TestFloatSpectrum_ProviderErrorIsSilent(t *testing.T) {
	f := NewFloatSpectrum(func() ([]float32, error) {
		return nil, errors.New("not playing")
	}, 3, WithSmoothing(0), WithLogger(logger.NewTestLogger()))

	buf := []uint8{9, 9, 9}
	f.ReadInto(buf)

	assert.Equal(t, []uint8{0, 0, 0}, buf)
}

func TestFloatSpectrum_NilProvider(t *testing.T) {
	f := NewFloatSpectrum(nil, 0)
	assert.Equal(t, DefaultSampleCount, f.SampleCount())

	buf := make([]uint8, f.SampleCount())
	assert.NotPanics(t, func() { f.ReadInto(buf) })
}

func TestFloatSpectrum_InvalidOptionsIgnored(t *testing.T) {
	f := NewFloatSpectrum(nil, 2, WithDecibelRange(0, -10), WithSmoothing(1.5))

	assert.Equal(t, DefaultMinDecibels, f.minDB)
	assert.Equal(t, DefaultMaxDecibels, f.maxDB)
	assert.Equal(t, DefaultSmoothing, f.smoothing)
}

func TestFloatSpectrum_NonFiniteMagnitudes(t *testing.T) {
	inf := float32(math.Inf(1))
	nan := float32(math.NaN())
	f := NewFloatSpectrum(constant(inf, nan, float32(math.Inf(-1)), -1), 4, WithSmoothing(0))

	buf := make([]uint8, 4)
	f.ReadInto(buf)

	assert.Equal(t, []uint8{255, 0, 0, 0}, buf)
}

func TestFloatSpectrum_NonFiniteDoesNotStick(t *testing.T) {
	values := []float32{float32(math.Inf(1)), float32(math.NaN())}
	f := NewFloatSpectrum(func() ([]float32, error) { return values, nil }, 2)

	buf := make([]uint8, 2)
	f.ReadInto(buf)

	// Full-scale input from here on: both bins must climb back to the top.
	values = []float32{1, 1}
	for range 50 {
		f.ReadInto(buf)
	}
	assert.Equal(t, []uint8{255, 255}, buf)

	// And fall back to silence.
	values = []float32{0, 0}
	for range 200 {
		f.ReadInto(buf)
	}
	assert.Equal(t, []uint8{0, 0}, buf)
}
