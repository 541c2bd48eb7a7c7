package sampler

import (
	"github.com/tfaulkner/mhwarm/model"
	"github.com/tfaulkner/mhwarm/rand"
)

// Step advances one dimension of one chain by a single Metropolis-Hastings
// proposal. x is the current value, invDensity the cached reciprocal of the
// density at x, and stepSize scales the symmetric normal proposal kernel.
// Returns the new value, the new reciprocal cache, and whether the proposal
// was accepted.
//
// Two draws always happen, normal then uniform, so a lane's stream position
// after a step never depends on the outcome. The reciprocal cache is only
// recomputed on acceptance, and the degenerate cases that follow are part of
// the contract: a zero-density current value leaves +Inf in the cache, which
// accepts any proposal with positive density, while a zero-density proposal
// against an infinite cache multiplies out to NaN and is rejected.
func Step(x float64, invDensity float64, stepSize float64, den model.Density, rng *rand.Stream) (float64, float64, bool) {
	prop := x + rng.NormFloat64()*stepSize
	pd := den(prop)
	u := rng.Float64()

	if pd*invDensity >= u {
		return prop, 1.0 / pd, true
	}

	return x, invDensity, false
}
