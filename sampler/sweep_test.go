package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tfaulkner/mhwarm/model"
	"github.com/tfaulkner/mhwarm/rand"
)

// A sweep is exactly the per-dimension steps in index order: same stream
// consumption, same state, same accept count
func TestSweepMatchesSteps(t *testing.T) {
	assert := assert.New(t)

	dn, err := model.Normal(1, 2)
	assert.NoError(err)
	dg, err := model.Gamma(2, 1)
	assert.NoError(err)
	du, err := model.Uniform(-3, 3)
	assert.NoError(err)

	dens, err := model.Heterogeneous(dn, dg, du).Functions(3)
	assert.NoError(err)

	rng1, err := rand.NewStream(99, 1)
	assert.NoError(err)
	rng2, err := rand.NewStream(99, 1)
	assert.NoError(err)

	x1 := []float64{0.5, 1.5, 0.25}
	x2 := []float64{0.5, 1.5, 0.25}
	inv1 := make([]float64, 3)
	inv2 := make([]float64, 3)
	for n := range inv1 {
		inv1[n] = 1.0 / dens[n](x1[n])
		inv2[n] = inv1[n]
	}

	for i := 0; i < 200; i++ {
		acc := Sweep(x1, inv1, 0.7, dens, rng1)

		expAcc := 0
		for n := 0; n < 3; n++ {
			var ok bool
			x2[n], inv2[n], ok = Step(x2[n], inv2[n], 0.7, dens[n], rng2)
			if ok {
				expAcc++
			}
		}

		assert.Equal(expAcc, acc)
		assert.Equal(x2, x1)
		assert.Equal(inv2, inv1)
	}
}

// Sweeping a resolved homogeneous table and a heterogeneous table that
// repeats the same density must be indistinguishable
func TestSweepBindingForms(t *testing.T) {
	assert := assert.New(t)

	d, err := model.Normal(0, 1)
	assert.NoError(err)

	hom, err := model.Homogeneous(d).Functions(4)
	assert.NoError(err)
	het, err := model.Heterogeneous(d, d, d, d).Functions(4)
	assert.NoError(err)

	rngH, err := rand.NewStream(5, 0)
	assert.NoError(err)
	rngE, err := rand.NewStream(5, 0)
	assert.NoError(err)

	xH := []float64{2, 2, 2, 2}
	xE := []float64{2, 2, 2, 2}
	invH := make([]float64, 4)
	invE := make([]float64, 4)
	for n := range invH {
		invH[n] = 1.0 / d(2)
		invE[n] = 1.0 / d(2)
	}

	accH, accE := 0, 0
	for i := 0; i < 500; i++ {
		accH += Sweep(xH, invH, 2.4, hom, rngH)
		accE += Sweep(xE, invE, 2.4, het, rngE)
	}

	assert.Equal(accH, accE)
	assert.Equal(xH, xE)
	assert.Equal(invH, invE)
}
