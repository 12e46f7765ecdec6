package harmonics

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-tape/dsp/core"
)

const (
	defaultMaxHarmonics = 10
	defaultSearchBins   = 3
)

// Config holds harmonic analysis parameters.
type Config struct {
	// SampleRate of the analyzed signal in Hz. Required.
	SampleRate float64
	// Fundamental is the expected fundamental frequency in Hz. Required.
	Fundamental float64
	// FFTSize overrides the transform length. Defaults to the next power
	// of two at or above the signal length.
	FFTSize int
	// MaxHarmonics bounds how many harmonics above the fundamental are
	// measured. Defaults to 10; harmonics beyond Nyquist are skipped.
	MaxHarmonics int
	// SearchBins widens the peak search around each expected bin to
	// tolerate slight detuning. Defaults to 3.
	SearchBins int
}

// Result holds harmonic levels measured from one signal.
type Result struct {
	// FundamentalFreq is the detected fundamental in Hz.
	FundamentalFreq float64
	// FundamentalLevel is the linear spectral magnitude of the fundamental.
	FundamentalLevel float64
	// Harmonics holds linear levels of harmonics 2..N relative to the
	// fundamental; Harmonics[0] is the 2nd harmonic.
	Harmonics []float64
	// THD is the total harmonic distortion ratio (RSS of harmonics over
	// fundamental), with THDdB its dB representation.
	THD   float64
	THDdB float64
}

// AnalyzeSignal measures the harmonic content of a real-valued signal.
// The signal is Hann-windowed, transformed, and searched for the
// fundamental and its harmonics.
func AnalyzeSignal(signal []float64, cfg Config) (Result, error) {
	if len(signal) == 0 {
		return Result{}, fmt.Errorf("harmonics: signal must not be empty")
	}
	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return Result{}, fmt.Errorf("harmonics: sample rate must be > 0 and finite: %f", cfg.SampleRate)
	}
	nyquist := cfg.SampleRate / 2
	if cfg.Fundamental <= 0 || cfg.Fundamental >= nyquist {
		return Result{}, fmt.Errorf("harmonics: fundamental must be in (0, nyquist): %f", cfg.Fundamental)
	}

	fftSize := cfg.FFTSize
	if fftSize <= 0 {
		fftSize = nextPowerOf2(len(signal))
	}
	if fftSize < len(signal) {
		return Result{}, fmt.Errorf("harmonics: FFT size %d smaller than signal length %d", fftSize, len(signal))
	}

	maxHarmonics := cfg.MaxHarmonics
	if maxHarmonics <= 0 {
		maxHarmonics = defaultMaxHarmonics
	}

	searchBins := cfg.SearchBins
	if searchBins <= 0 {
		searchBins = defaultSearchBins
	}

	windowed := make([]float64, len(signal))
	vecmath.MulBlock(windowed, signal, hannWindow(len(signal)))

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, fmt.Errorf("harmonics: NewPlan64: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Result{}, fmt.Errorf("harmonics: forward FFT: %w", err)
	}

	binCount := fftSize/2 + 1
	mag := magnitudeSpectrum(out[:binCount])

	binHz := cfg.SampleRate / float64(fftSize)

	fundBin, fundLevel := peakAround(mag, int(math.Round(cfg.Fundamental/binHz)), searchBins)
	if fundLevel <= 0 {
		return Result{}, fmt.Errorf("harmonics: no fundamental energy near %f Hz", cfg.Fundamental)
	}

	res := Result{
		FundamentalFreq:  float64(fundBin) * binHz,
		FundamentalLevel: fundLevel,
	}

	var sumSquares float64
	for h := 2; h <= maxHarmonics; h++ {
		freq := float64(h) * cfg.Fundamental
		if freq >= nyquist {
			break
		}
		_, level := peakAround(mag, int(math.Round(freq/binHz)), searchBins)
		rel := level / fundLevel
		res.Harmonics = append(res.Harmonics, rel)
		sumSquares += rel * rel
	}

	res.THD = math.Sqrt(sumSquares)
	res.THDdB = core.LinearToDB(res.THD)

	return res, nil
}

// magnitudeSpectrum unpacks complex bins and computes magnitudes with the
// vectorized kernel.
func magnitudeSpectrum(bins []complex128) []float64 {
	re := make([]float64, len(bins))
	im := make([]float64, len(bins))
	for i, c := range bins {
		re[i] = real(c)
		im[i] = imag(c)
	}

	mag := make([]float64, len(bins))
	vecmath.Magnitude(mag, re, im)
	return mag
}

// peakAround returns the strongest bin within +-search of center.
func peakAround(mag []float64, center, search int) (int, float64) {
	lo := center - search
	if lo < 0 {
		lo = 0
	}
	hi := center + search
	if hi > len(mag)-1 {
		hi = len(mag) - 1
	}

	bestBin, bestLevel := center, 0.0
	for i := lo; i <= hi; i++ {
		if mag[i] > bestLevel {
			bestBin, bestLevel = i, mag[i]
		}
	}
	return bestBin, bestLevel
}

// hannWindow returns symmetric Hann coefficients of the given length.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
