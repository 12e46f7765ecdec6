package tape

import (
	"math"

	"github.com/cwbudde/algo-tape/dsp/filter/biquad"
)

const (
	// softness is the reciprocal golden ratio. It controls both the
	// mid roll-off coefficient and the soft clipper blend weight.
	softness = 0.618033988749894848204586

	// referenceRate is the sample rate all frequency constants are tuned at.
	referenceRate = 44100.0

	// headBumpDrive scales how much input energy feeds the bump integrator.
	headBumpDrive = 0.05

	// suppressRate sets how fast bump resonance bleeds off per sample as
	// the saturated output approaches full scale.
	suppressRate = 0.00013

	// bumpFreqRatio and bumpQ define the narrow bandpass that shapes the
	// head bump resonance, relative to the reference rate.
	bumpFreqRatio = 0.0072
	bumpQ         = 0.0009

	// headBumpFreqRatio shapes the cubic damping of the bump integrator.
	headBumpFreqRatio = 0.12
)

// blockCoefficients holds the frequency-dependent constants derived from
// the current sample rate. Derivation is a pure function of the rate and
// is repeated on every block entry; at a constant rate the result is
// identical, so re-derivation never changes output.
type blockCoefficients struct {
	rollAmount   float64
	headBumpFreq float64
	bump         biquad.Coefficients
}

// deriveBlockCoefficients computes the per-block constants for the given
// sample rate. The bandpass uses the tan-prewarp norm design:
//
//	K    = tan(pi * f)
//	norm = 1 / (1 + K/Q + K^2)
//	b0   = K/Q * norm, b1 = 0, b2 = -b0
//	a1   = 2*(K^2 - 1) * norm
//	a2   = (1 - K/Q + K^2) * norm
func deriveBlockCoefficients(sampleRate float64) blockCoefficients {
	scale := sampleRate / referenceRate

	k := math.Tan(math.Pi * (bumpFreqRatio / scale))
	norm := 1 / (1 + k/bumpQ + k*k)
	b0 := k / bumpQ * norm

	return blockCoefficients{
		rollAmount:   (1 - softness) / scale,
		headBumpFreq: headBumpFreqRatio / scale,
		bump: biquad.Coefficients{
			B0: b0,
			B1: 0,
			B2: -b0,
			A1: 2 * (k*k - 1) * norm,
			A2: (1 - k/bumpQ + k*k) * norm,
		},
	}
}
