package model

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// A Spec names a density in data form so targets can come from plan files
// and command lines instead of code. Params are positional and kind-specific
// (see New for the catalog).
type Spec struct {
	Kind   string    `yaml:"kind"`
	Params []float64 `yaml:"params,flow"`
}

// ParseSpec reads the compact one-line form "kind p1 p2 ...", e.g.
// "normal 0 1" or "gamma 2 0.5".
func ParseSpec(text string) (Spec, error) {
	fields := strings.Fields(text)
	if len(fields) < 1 {
		return Spec{}, errors.Errorf("Empty density spec")
	}

	s := Spec{Kind: fields[0]}
	for _, f := range fields[1:] {
		p, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Spec{}, errors.Wrapf(err, "Bad parameter %q in density spec %q", f, text)
		}
		s.Params = append(s.Params, p)
	}

	return s, nil
}

// UnmarshalYAML accepts either the full mapping form (kind/params) or the
// compact one-line form as a plain scalar.
func (s *Spec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var text string
		if err := value.Decode(&text); err != nil {
			return err
		}
		parsed, err := ParseSpec(text)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}

	type rawSpec Spec
	var raw rawSpec
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*s = Spec(raw)
	return nil
}

// String renders the compact one-line form.
func (s Spec) String() string {
	parts := make([]string, 0, len(s.Params)+1)
	parts = append(parts, s.Kind)
	for _, p := range s.Params {
		parts = append(parts, strconv.FormatFloat(p, 'g', -1, 64))
	}
	return strings.Join(parts, " ")
}

// New builds the density the spec names. Unknown kinds, wrong parameter
// counts, and invalid parameter values are all errors.
func (s Spec) New() (Density, error) {
	p := s.Params
	need := func(n int) error {
		if len(p) != n {
			return errors.Errorf("Density %q needs %d parameters, found %d", s.Kind, n, len(p))
		}
		return nil
	}

	switch strings.ToLower(s.Kind) {
	case "normal":
		if err := need(2); err != nil {
			return nil, err
		}
		return Normal(p[0], p[1])
	case "gamma":
		if err := need(2); err != nil {
			return nil, err
		}
		return Gamma(p[0], p[1])
	case "uniform":
		if err := need(2); err != nil {
			return nil, err
		}
		return Uniform(p[0], p[1])
	case "exp", "exponential":
		if err := need(1); err != nil {
			return nil, err
		}
		return Exponential(p[0])
	case "lognormal":
		if err := need(2); err != nil {
			return nil, err
		}
		return LogNormal(p[0], p[1])
	case "weibull":
		if err := need(2); err != nil {
			return nil, err
		}
		return Weibull(p[0], p[1])
	case "beta":
		if err := need(2); err != nil {
			return nil, err
		}
		return Beta(p[0], p[1])
	default:
		return nil, errors.Errorf("Unknown density kind %q", s.Kind)
	}
}

// NewDensities builds the density table for a list of specs.
func NewDensities(specs []Spec) ([]Density, error) {
	dens := make([]Density, len(specs))
	for i, s := range specs {
		d, err := s.New()
		if err != nil {
			return nil, errors.Wrapf(err, "Density %d of %d is invalid", i+1, len(specs))
		}
		dens[i] = d
	}
	return dens, nil
}
