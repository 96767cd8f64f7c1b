package source

import (
	"log/slog"
	"math"
	"sync"

	"github.com/tejashwikalptaru/audiovisualiser/internal/ports"
	"github.com/tejashwikalptaru/audiovisualiser/internal/render"
)

// Decibel range mapped onto byte magnitudes, matching a browser analyser's defaults.
const (
	DefaultMinDecibels = -100.0
	DefaultMaxDecibels = -30.0
	DefaultSmoothing   = 0.8
)

// SpectrumFunc returns the latest linear magnitude spectrum, one value per FFT bin,
// lowest frequency first. It has the shape of an audio engine's FFT getter.
type SpectrumFunc func() ([]float32, error)

// FloatSpectrum adapts a float magnitude provider to a byte FrequencySource.
//
// Each read smooths the provider's magnitudes over time, converts them to decibels and
// maps [MinDecibels, MaxDecibels] onto [0,255]. When the provider's bin count differs
// from SampleCount, each output bin takes the peak of the input bins it covers.
// A provider error yields a silent frame. NaN and negative magnitudes count as silence
// and +Inf as full scale, so one bad value never sticks in the smoothing state.
//
// Thread-safety: This implementation is thread-safe.
type FloatSpectrum struct {
	logger   *slog.Logger
	provider SpectrumFunc
	count    int

	minDB     float64
	maxDB     float64
	smoothing float64

	mu       sync.Mutex
	smoothed []float64
}

// FloatOption configures a FloatSpectrum.
type FloatOption func(*FloatSpectrum)

// WithDecibelRange sets the decibel window mapped onto [0,255].
// Ranges where min >= max are ignored.
func WithDecibelRange(minDB, maxDB float64) FloatOption {
	return func(f *FloatSpectrum) {
		if minDB < maxDB {
			f.minDB, f.maxDB = minDB, maxDB
		}
	}
}

// WithSmoothing sets the time-smoothing constant in [0,1); 0 disables smoothing.
func WithSmoothing(tau float64) FloatOption {
	return func(f *FloatSpectrum) {
		if tau >= 0 && tau < 1 {
			f.smoothing = tau
		}
	}
}

// WithLogger sets the logger used to report provider errors.
func WithLogger(logger *slog.Logger) FloatOption {
	return func(f *FloatSpectrum) {
		f.logger = logger
	}
}

// NewFloatSpectrum creates an adapter exposing count bins.
// A non-positive count selects DefaultSampleCount.
func NewFloatSpectrum(provider SpectrumFunc, count int, opts ...FloatOption) *FloatSpectrum {
	if count <= 0 {
		count = DefaultSampleCount
	}
	f := &FloatSpectrum{
		logger:    slog.New(slog.DiscardHandler),
		provider:  provider,
		count:     count,
		minDB:     DefaultMinDecibels,
		maxDB:     DefaultMaxDecibels,
		smoothing: DefaultSmoothing,
		smoothed:  make([]float64, count),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SampleCount implements ports.FrequencySource.
func (f *FloatSpectrum) SampleCount() int {
	return f.count
}

// ReadInto implements ports.FrequencySource.
func (f *FloatSpectrum) ReadInto(buf []uint8) {
	var raw []float32
	if f.provider != nil {
		var err error
		raw, err = f.provider()
		if err != nil {
			f.logger.Debug("spectrum unavailable", slog.Any("error", err))
			raw = nil
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	ceiling := math.Pow(10, f.maxDB/20)
	for i := range f.smoothed {
		cur := peak(raw, i, f.count)
		if math.IsInf(cur, 1) {
			cur = ceiling
		}
		f.smoothed[i] = f.smoothing*f.smoothed[i] + (1-f.smoothing)*cur
	}

	n := min(len(buf), f.count)
	for i := 0; i < n; i++ {
		buf[i] = f.toByte(f.smoothed[i])
	}
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
}

// toByte maps a linear magnitude onto [0,255] through the decibel window.
func (f *FloatSpectrum) toByte(mag float64) uint8 {
	if !(mag > 0) {
		return 0
	}
	db := 20 * math.Log10(mag)
	scaled := 255 * (db - f.minDB) / (f.maxDB - f.minDB)
	switch {
	case !(scaled > 0):
		return 0
	case scaled >= 255:
		return 255
	}
	return render.ClampMagnitude(int(scaled))
}

// peak returns the largest input magnitude covered by output bin i of n.
func peak(raw []float32, i, n int) float64 {
	if len(raw) == 0 {
		return 0
	}
	lo := i * len(raw) / n
	hi := (i + 1) * len(raw) / n
	if hi <= lo {
		hi = lo + 1
	}
	hi = min(hi, len(raw))

	var p float64
	for _, v := range raw[lo:hi] {
		// NaN fails the comparison and is skipped.
		if f := float64(v); f > p {
			p = f
		}
	}
	return p
}

var _ ports.FrequencySource = (*FloatSpectrum)(nil)
