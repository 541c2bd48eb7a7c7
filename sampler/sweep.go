package sampler

import (
	"github.com/tfaulkner/mhwarm/model"
	"github.com/tfaulkner/mhwarm/rand"
)

// Sweep applies Step to every dimension of one chain's state vector in index
// order, the same order for every lane. x and invDen are the lane-local
// working copies and are updated in place. dens must already be resolved to
// one density per dimension (see model.Binding.Functions), so the loop body
// is a table lookup and nothing more. Returns the number of accepted
// dimensions.
func Sweep(x []float64, invDen []float64, stepSize float64, dens []model.Density, rng *rand.Stream) int {
	accepted := 0

	for n := range x {
		var ok bool
		x[n], invDen[n], ok = Step(x[n], invDen[n], stepSize, dens[n], rng)
		if ok {
			accepted++
		}
	}

	return accepted
}
