package model

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// A Density is a pointwise evaluation of one dimension's marginal density.
// It only needs to be proportional to a true density: the sampler works with
// ratios, so any constant normalization factor cancels. Results must be >= 0.
type Density func(x float64) float64

// A Binding decides which density each dimension of a chain's state vector
// samples against. There are exactly two forms: one density shared by every
// dimension, or one density per dimension. A binding is resolved to a flat
// per-dimension table once, before any lane runs, so the sweep body is a
// plain indexed lookup with no dispatch.
type Binding struct {
	shared Density
	perDim []Density
}

// Homogeneous binds a single density to every dimension.
func Homogeneous(d Density) Binding {
	return Binding{shared: d}
}

// Heterogeneous binds the n-th density to dimension n. The list length must
// match the dimension count exactly.
func Heterogeneous(dens ...Density) Binding {
	return Binding{perDim: dens}
}

// Check returns an error if the binding cannot cover dims dimensions.
func (b Binding) Check(dims int) error {
	if dims < 1 {
		return errors.Errorf("Dimension count must be >= 1 (found %d)", dims)
	}

	if b.shared != nil {
		return nil
	}

	if len(b.perDim) < 1 {
		return errors.Errorf("Binding has no densities")
	}
	if len(b.perDim) != dims {
		return errors.Errorf("Binding has %d densities but there are %d dimensions", len(b.perDim), dims)
	}
	for n, d := range b.perDim {
		if d == nil {
			return errors.Errorf("Binding density for dimension %d is missing", n)
		}
	}

	return nil
}

// Functions resolves the binding into the per-dimension density table.
func (b Binding) Functions(dims int) ([]Density, error) {
	err := b.Check(dims)
	if err != nil {
		return nil, err
	}

	dens := make([]Density, dims)
	if b.shared != nil {
		for n := range dens {
			dens[n] = b.shared
		}
		return dens, nil
	}

	copy(dens, b.perDim)
	return dens, nil
}

// The named density constructors below are thin wrappers over gonum's
// distuv distributions. They validate parameters up front so a bad target is
// a configuration error, never a mid-run surprise.

func checkFinite(name string, vals ...float64) error {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Errorf("Parameter for %s density is not finite (%f)", name, v)
		}
	}
	return nil
}

// Normal returns the density of a normal distribution with mean mu and
// standard deviation sigma.
func Normal(mu float64, sigma float64) (Density, error) {
	if err := checkFinite("normal", mu, sigma); err != nil {
		return nil, err
	}
	if sigma <= 0 {
		return nil, errors.Errorf("Normal density needs sigma > 0 (found %f)", sigma)
	}
	return distuv.Normal{Mu: mu, Sigma: sigma}.Prob, nil
}

// Gamma returns the density of a gamma distribution with shape alpha and
// rate beta.
func Gamma(alpha float64, beta float64) (Density, error) {
	if err := checkFinite("gamma", alpha, beta); err != nil {
		return nil, err
	}
	if alpha <= 0 || beta <= 0 {
		return nil, errors.Errorf("Gamma density needs alpha > 0 and beta > 0 (found %f, %f)", alpha, beta)
	}
	return distuv.Gamma{Alpha: alpha, Beta: beta}.Prob, nil
}

// Uniform returns the density of a uniform distribution on [min, max].
func Uniform(min float64, max float64) (Density, error) {
	if err := checkFinite("uniform", min, max); err != nil {
		return nil, err
	}
	if min >= max {
		return nil, errors.Errorf("Uniform density needs min < max (found %f, %f)", min, max)
	}
	return distuv.Uniform{Min: min, Max: max}.Prob, nil
}

// Exponential returns the density of an exponential distribution with the
// given rate.
func Exponential(rate float64) (Density, error) {
	if err := checkFinite("exponential", rate); err != nil {
		return nil, err
	}
	if rate <= 0 {
		return nil, errors.Errorf("Exponential density needs rate > 0 (found %f)", rate)
	}
	return distuv.Exponential{Rate: rate}.Prob, nil
}

// LogNormal returns the density of a log-normal distribution where the log
// of the variate is normal with mean mu and standard deviation sigma.
func LogNormal(mu float64, sigma float64) (Density, error) {
	if err := checkFinite("lognormal", mu, sigma); err != nil {
		return nil, err
	}
	if sigma <= 0 {
		return nil, errors.Errorf("LogNormal density needs sigma > 0 (found %f)", sigma)
	}
	return distuv.LogNormal{Mu: mu, Sigma: sigma}.Prob, nil
}

// Weibull returns the density of a Weibull distribution with shape k and
// scale lambda.
func Weibull(k float64, lambda float64) (Density, error) {
	if err := checkFinite("weibull", k, lambda); err != nil {
		return nil, err
	}
	if k <= 0 || lambda <= 0 {
		return nil, errors.Errorf("Weibull density needs k > 0 and lambda > 0 (found %f, %f)", k, lambda)
	}
	return distuv.Weibull{K: k, Lambda: lambda}.Prob, nil
}

// Beta returns the density of a beta distribution on [0, 1].
func Beta(alpha float64, beta float64) (Density, error) {
	if err := checkFinite("beta", alpha, beta); err != nil {
		return nil, err
	}
	if alpha <= 0 || beta <= 0 {
		return nil, errors.Errorf("Beta density needs alpha > 0 and beta > 0 (found %f, %f)", alpha, beta)
	}
	return distuv.Beta{Alpha: alpha, Beta: beta}.Prob, nil
}
