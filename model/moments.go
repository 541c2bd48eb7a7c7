package model

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/integrate/quad"
)

// Moments holds the normalized mean and variance of a density over a finite
// support window, plus the raw mass integral. The density itself may be
// unnormalized: the mass divides out.
type Moments struct {
	Mass     float64
	Mean     float64
	Variance float64
}

// StdDev is the square root of the variance.
func (m *Moments) StdDev() float64 {
	return math.Sqrt(m.Variance)
}

// NewMoments integrates the density over [lo, hi] with fixed-order
// Gauss-Legendre quadrature. The window must cover effectively all of the
// density's mass for the answers to mean anything; the quadrature itself will
// not warn about truncation.
func NewMoments(d Density, lo float64, hi float64) (*Moments, error) {
	if d == nil {
		return nil, errors.Errorf("No density supplied")
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, errors.Errorf("Integration window [%f, %f] must be finite", lo, hi)
	}
	if lo >= hi {
		return nil, errors.Errorf("Integration window [%f, %f] is empty", lo, hi)
	}

	// Plenty for the smooth single-peak targets we warm up against.
	const nodes = 512

	mass := quad.Fixed(d, lo, hi, nodes, nil, 0)
	if mass <= 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return nil, errors.Errorf("Density mass over [%f, %f] came out %f", lo, hi, mass)
	}

	mean := quad.Fixed(func(x float64) float64 {
		return x * d(x)
	}, lo, hi, nodes, nil, 0) / mass

	vari := quad.Fixed(func(x float64) float64 {
		dx := x - mean
		return dx * dx * d(x)
	}, lo, hi, nodes, nil, 0) / mass

	return &Moments{
		Mass:     mass,
		Mean:     mean,
		Variance: vari,
	}, nil
}
