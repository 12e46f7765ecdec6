package tape

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tape/dsp/core"
	"github.com/cwbudde/algo-tape/dsp/filter/biquad"
)

const (
	defaultTapeInputGain      = 1.0
	defaultTapeHeadBumpAmount = 0.05

	minTapeInputGain      = 0.0
	maxTapeInputGain      = 16.0
	minTapeHeadBumpAmount = 0.0
	maxTapeHeadBumpAmount = 1.0
)

// Phase indices for the alternating filter banks. The B bank is advanced
// first on a freshly constructed Processor.
const (
	phaseA = 0
	phaseB = 1
)

// Option mutates construction-time parameters.
type Option func(*config) error

type config struct {
	inputGain      float64
	headBumpAmount float64
}

func defaultConfig() config {
	return config{
		inputGain:      defaultTapeInputGain,
		headBumpAmount: defaultTapeHeadBumpAmount,
	}
}

// WithInputGain sets linear input gain in [0, 16]. 0.5 is -6 dB, 1 is
// unity, 2 is +6 dB.
func WithInputGain(gain float64) Option {
	return func(cfg *config) error {
		if gain < minTapeInputGain || gain > maxTapeInputGain || math.IsNaN(gain) || math.IsInf(gain, 0) {
			return fmt.Errorf("tape input gain must be in [%g, %g]: %f",
				minTapeInputGain, maxTapeInputGain, gain)
		}
		cfg.inputGain = gain
		return nil
	}
}

// WithHeadBumpAmount sets the low-frequency head bump contribution in
// [0, 1]. 0 disables the bump, 0.1 is a pronounced bass lift.
func WithHeadBumpAmount(amount float64) Option {
	return func(cfg *config) error {
		if amount < minTapeHeadBumpAmount || amount > maxTapeHeadBumpAmount || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return fmt.Errorf("tape head bump amount must be in [%g, %g]: %f",
				minTapeHeadBumpAmount, maxTapeHeadBumpAmount, amount)
		}
		cfg.headBumpAmount = amount
		return nil
	}
}

// Processor is a mono tape saturation effect with persistent filter,
// resonator, and limiter state. One instance serves one audio channel;
// it is not safe for concurrent use.
type Processor struct {
	sampleRate     float64
	inputGain      float64
	headBumpAmount float64

	coeffs blockCoefficients

	midRoller [2]float64
	headBump  [2]float64
	bump      [2]biquad.Section
	clip      softClip
	phase     int
}

// NewProcessor creates a tape saturation processor with all state zeroed.
func NewProcessor(sampleRate float64, opts ...Option) (*Processor, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("tape sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	p := &Processor{
		sampleRate:     sampleRate,
		inputGain:      cfg.inputGain,
		headBumpAmount: cfg.headBumpAmount,
		phase:          phaseB,
	}
	p.refreshCoefficients()

	return p, nil
}

// SetSampleRate updates the processing rate and re-derives coefficients.
// Call between blocks only, never while a block is being processed.
func (p *Processor) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("tape sample rate must be > 0 and finite: %f", sampleRate)
	}
	p.sampleRate = sampleRate
	p.refreshCoefficients()
	return nil
}

// SetInputGain updates linear input gain in [0, 16].
func (p *Processor) SetInputGain(gain float64) error {
	if gain < minTapeInputGain || gain > maxTapeInputGain || math.IsNaN(gain) || math.IsInf(gain, 0) {
		return fmt.Errorf("tape input gain must be in [%g, %g]: %f",
			minTapeInputGain, maxTapeInputGain, gain)
	}
	p.inputGain = gain
	return nil
}

// SetHeadBumpAmount updates the head bump contribution in [0, 1].
func (p *Processor) SetHeadBumpAmount(amount float64) error {
	if amount < minTapeHeadBumpAmount || amount > maxTapeHeadBumpAmount || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("tape head bump amount must be in [%g, %g]: %f",
			minTapeHeadBumpAmount, maxTapeHeadBumpAmount, amount)
	}
	p.headBumpAmount = amount
	return nil
}

// Reset restores the construction state: all filter, resonator, and
// limiter memory cleared, alternation back to the B bank first.
func (p *Processor) Reset() {
	p.midRoller = [2]float64{}
	p.headBump = [2]float64{}
	p.bump[phaseA].Reset()
	p.bump[phaseB].Reset()
	p.clip.reset()
	p.phase = phaseB
}

// SampleRate returns the current processing rate in Hz.
func (p *Processor) SampleRate() float64 { return p.sampleRate }

// InputGain returns the linear input gain.
func (p *Processor) InputGain() float64 { return p.inputGain }

// HeadBumpAmount returns the head bump contribution.
func (p *Processor) HeadBumpAmount() float64 { return p.headBumpAmount }

// ProcessSample processes one sample and returns the output, bounded to
// [-0.99, 0.99].
func (p *Processor) ProcessSample(input float64) float64 {
	return p.processSample(input)
}

// ProcessInPlace applies the effect to a buffer in place. Blocks of any
// length may be mixed freely; output depends only on prior state and the
// concatenated input sequence.
func (p *Processor) ProcessInPlace(buf []float64) {
	p.refreshCoefficients()
	for i := range buf {
		buf[i] = p.processSample(buf[i])
	}
}

// ProcessBlockTo processes src into dst. Both slices must have the same
// length. Zero-alloc.
func (p *Processor) ProcessBlockTo(dst, src []float64) {
	if len(src) == 0 {
		return
	}
	_ = dst[len(src)-1] // bounds check hint

	p.refreshCoefficients()
	for i, x := range src {
		dst[i] = p.processSample(x)
	}
}

// refreshCoefficients re-derives the rate-dependent constants and pushes
// the shared bandpass coefficients into both bump sections, leaving their
// delay state untouched.
func (p *Processor) refreshCoefficients() {
	p.coeffs = deriveBlockCoefficients(p.sampleRate)
	p.bump[phaseA].SetCoefficients(p.coeffs.bump)
	p.bump[phaseB].SetCoefficients(p.coeffs.bump)
}

func (p *Processor) processSample(x float64) float64 {
	x *= p.inputGain

	// Advance the active bank: mid roll-off low-pass plus the nonlinear
	// bump resonator (integrate, cubic damping, sin, bandpass, asin).
	idx := p.phase
	p.midRoller[idx] = p.midRoller[idx]*(1-p.coeffs.rollAmount) + x*p.coeffs.rollAmount
	highs := x - p.midRoller[idx]

	bump := p.headBump[idx]
	bump += x * headBumpDrive
	bump -= bump * bump * bump * p.coeffs.headBumpFreq
	bump = math.Sin(bump)
	bump = p.bump[idx].ProcessSample(bump)
	bump = core.Clamp(bump, -1, 1) // asin domain guard
	p.headBump[idx] = math.Asin(bump)

	p.phase ^= 1

	x = softenHighs(x, highs)
	x = Saturate(x)

	// Bleed resonance energy off faster as the output nears full scale.
	// Each bump state moves toward zero by at most suppress per sample;
	// values already inside the band collapse to zero so silent input
	// fully drains the resonators.
	suppress := (1 - math.Abs(x)) * suppressRate
	for i := range p.headBump {
		switch {
		case p.headBump[i] > suppress:
			p.headBump[i] -= suppress
		case p.headBump[i] < -suppress:
			p.headBump[i] += suppress
		default:
			p.headBump[i] = 0
		}
	}

	x += (p.headBump[phaseA] + p.headBump[phaseB]) * p.headBumpAmount

	x = p.clip.process(x)

	return core.Clamp(x, -clipCeiling, clipCeiling)
}
