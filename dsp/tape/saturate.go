package tape

import (
	"math"

	"github.com/cwbudde/algo-tape/dsp/core"
)

// saturateLimit bounds the saturator input so sin(x*|x|)/|x| stays
// within [-1, 1].
const saturateLimit = 1.2533141373155

// softenKnee is the softener's quarter-turn limit in radians.
const softenKnee = 1.57079633

// Saturate applies the spiral waveshaper sin(x*|x|)/|x|, the core tape
// nonlinearity. The function is odd and continuous with Saturate(0) = 0;
// inputs beyond the domain limit saturate at the limit value.
func Saturate(x float64) float64 {
	x = core.Clamp(x, -saturateLimit, saturateLimit)

	ax := math.Abs(x)
	if ax == 0 {
		return 0
	}

	return math.Sin(x*ax) / ax
}

// softenHighs pre-attenuates x based on the magnitude of its
// high-frequency residual, taming transients before saturation. The
// correction is sign-aware: positive residual pulls the sample down,
// negative pushes it up.
func softenHighs(x, highs float64) float64 {
	soften := math.Abs(highs) * softenKnee
	if soften > softenKnee {
		soften = softenKnee
	}

	soften = 1 - math.Cos(soften)

	if highs > 0 {
		x -= soften
	}
	if highs < 0 {
		x += soften
	}

	return x
}
