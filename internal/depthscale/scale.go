// Package depthscale converts a landmark's z coordinate into a spread-radius
// scale factor and an alpha multiplier, per spec.md §4.B. Closer landmarks
// (more negative z) get a larger spread and a brighter alpha; farther ones
// shrink and fade slightly, exponentially rather than linearly, so depth
// feels perceptually correct.
package depthscale

import "math"

// Profile names the two landmark kinds the scaler is tuned for. Hands and
// faces have different close/far endpoints and alpha sensitivity because a
// face's proportions need to stay recognizable across typical distance
// changes, while hands can swing more dramatically.
type Profile int

const (
	ProfileHand Profile = iota
	ProfileFace
)

type curve struct {
	close, far           float32 // scale factor at minZ and maxZ
	minScale, maxScale   float32
	alphaSensitivity     float32 // k in the alpha-adjustment formula
}

var curves = map[Profile]curve{
	ProfileHand: {close: 1.8, far: 0.5, minScale: 0.3, maxScale: 2.5, alphaSensitivity: 0.2},
	ProfileFace: {close: 1.4, far: 0.7, minScale: 0.5, maxScale: 1.8, alphaSensitivity: 0.15},
}

// MinZ and MaxZ bound the nominal landmark depth range (spec.md §3).
const (
	MinZ = -0.3
	MaxZ = 0.3
)

// Result is the output of Scale: a spread-radius multiplier and the
// alpha multiplier to apply on top of a particle's base alpha.
type Result struct {
	SpreadScale     float32
	AlphaMultiplier float32
}

// Scale converts a landmark z and a base alpha into a depth-adjusted
// spread scale and alpha multiplier for the given profile.
func Scale(z float64, baseAlpha float32, profile Profile) Result {
	c := curves[profile]

	zc := clamp(z, MinZ, MaxZ)
	t := (zc - MinZ) / (MaxZ - MinZ) // 0 at closest, 1 at farthest

	scale := c.close * float32(math.Pow(float64(c.far/c.close), t))
	scale = clampF(scale, c.minScale, c.maxScale)

	// Normalize the clamped scale back into [0,1] against the curve's own
	// close/far endpoints so a clamp at the extremes still yields a sane
	// alpha multiplier instead of going out of [0,1].
	lo, hi := c.far, c.close
	if lo > hi {
		lo, hi = hi, lo
	}
	sNorm := (scale - lo) / (hi - lo)
	sNorm = clampF(sNorm, 0, 1)

	k := c.alphaSensitivity
	alpha := baseAlpha * (1 - k + k*sNorm)
	alpha = clampF(alpha, 0.1, 1.0)

	return Result{SpreadScale: scale, AlphaMultiplier: alpha}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
