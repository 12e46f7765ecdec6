package tape

// clipCeiling is the output magnitude the limiter approaches but never
// hands through; the pipeline hard-clamps to the same value afterwards.
const clipCeiling = 0.99

// softClip is an asymptotic output limiter. It remembers the previous
// output sample; when either the memory or the new input crosses the
// ceiling, the crossing value is blended toward the other side with a
// golden-ratio weighting, so the signal lags into the boundary instead
// of snapping to it.
type softClip struct {
	last float64
}

func (c *softClip) process(x float64) float64 {
	if c.last >= clipCeiling {
		if x < clipCeiling {
			c.last = clipCeiling*softness + x*(1-softness)
		} else {
			c.last = clipCeiling
		}
	}

	if c.last <= -clipCeiling {
		if x > -clipCeiling {
			c.last = -clipCeiling*softness + x*(1-softness)
		} else {
			c.last = -clipCeiling
		}
	}

	if x > clipCeiling {
		if c.last < clipCeiling {
			x = clipCeiling*softness + c.last*(1-softness)
		} else {
			x = clipCeiling
		}
	}

	if x < -clipCeiling {
		if c.last > -clipCeiling {
			x = -clipCeiling*softness + c.last*(1-softness)
		} else {
			x = -clipCeiling
		}
	}

	c.last = x

	return x
}

func (c *softClip) reset() {
	c.last = 0
}
