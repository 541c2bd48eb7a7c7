package cmd

import (
	"math"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tfaulkner/mhwarm/model"
)

// A Plan is a complete description of a warm-up run. Everything here can also
// be given as a flag; flags win over the file when both are present.
type Plan struct {
	Seed       uint64       `yaml:"seed"`
	Lanes      int          `yaml:"lanes"`
	Dims       int          `yaml:"dims"`
	Iterations int          `yaml:"iters"`
	StepSize   float64      `yaml:"step"`
	Initial    float64      `yaml:"initial"`
	Workers    int          `yaml:"workers"`
	Density    *model.Spec  `yaml:"density"`   // one density shared by every dimension
	Densities  []model.Spec `yaml:"densities"` // or one per dimension
	Out        string       `yaml:"out"`
}

// NewPlanFromFile reads and parses a YAML plan.
func NewPlanFromFile(filename string) (*Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not READ plan from %s", filename)
	}

	p := &Plan{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, errors.Wrapf(err, "Could not PARSE plan from %s", filename)
	}

	return p, nil
}

// Check validates everything a run will rely on. Called before any lane is
// touched so that a bad plan never half-executes.
func (p *Plan) Check() error {
	if p.Lanes < 1 {
		return errors.Errorf("Plan needs lanes >= 1 (found %d)", p.Lanes)
	}
	if p.Dims < 1 {
		return errors.Errorf("Plan needs dims >= 1 (found %d)", p.Dims)
	}
	if p.Iterations < 0 {
		return errors.Errorf("Plan needs iters >= 0 (found %d)", p.Iterations)
	}
	if p.StepSize <= 0.0 || math.IsNaN(p.StepSize) || math.IsInf(p.StepSize, 0) {
		return errors.Errorf("Plan needs a positive finite step (found %f)", p.StepSize)
	}
	if p.Density == nil && len(p.Densities) == 0 {
		return errors.Errorf("Plan needs a density or a densities list")
	}
	if p.Density != nil && len(p.Densities) > 0 {
		return errors.Errorf("Plan has both a shared density and a densities list: pick one")
	}
	if len(p.Densities) > 0 && len(p.Densities) != p.Dims {
		return errors.Errorf("Plan has %d densities for %d dimensions", len(p.Densities), p.Dims)
	}
	return nil
}

// Binding builds the density binding the plan describes.
func (p *Plan) Binding() (model.Binding, error) {
	if p.Density != nil {
		d, err := p.Density.New()
		if err != nil {
			return model.Binding{}, err
		}
		return model.Homogeneous(d), nil
	}

	dens, err := model.NewDensities(p.Densities)
	if err != nil {
		return model.Binding{}, err
	}
	return model.Heterogeneous(dens...), nil
}
