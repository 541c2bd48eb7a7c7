package cmd

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tfaulkner/mhwarm/model"
)

func goodPlan() *Plan {
	return &Plan{
		Seed:       42,
		Lanes:      8,
		Dims:       2,
		Iterations: 10,
		StepSize:   1.5,
		Density:    &model.Spec{Kind: "normal", Params: []float64{0, 1}},
	}
}

func TestPlanCheck(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(goodPlan().Check())

	cases := []struct {
		name  string
		wreck func(p *Plan)
	}{
		{"no lanes", func(p *Plan) { p.Lanes = 0 }},
		{"no dims", func(p *Plan) { p.Dims = 0 }},
		{"neg iters", func(p *Plan) { p.Iterations = -1 }},
		{"zero step", func(p *Plan) { p.StepSize = 0.0 }},
		{"nan step", func(p *Plan) { p.StepSize = math.NaN() }},
		{"inf step", func(p *Plan) { p.StepSize = math.Inf(1) }},
		{"no density", func(p *Plan) { p.Density = nil }},
		{"both density forms", func(p *Plan) {
			p.Densities = []model.Spec{{Kind: "normal", Params: []float64{0, 1}}}
		}},
		{"density count mismatch", func(p *Plan) {
			p.Density = nil
			p.Densities = []model.Spec{{Kind: "normal", Params: []float64{0, 1}}}
		}},
	}

	for _, c := range cases {
		p := goodPlan()
		c.wreck(p)
		assert.Error(p.Check(), c.name)
	}
}

func TestPlanBinding(t *testing.T) {
	assert := assert.New(t)

	p := goodPlan()
	binding, err := p.Binding()
	assert.NoError(err)
	dens, err := binding.Functions(p.Dims)
	assert.NoError(err)
	assert.Len(dens, 2)

	p.Density = &model.Spec{Kind: "normal", Params: []float64{0}}
	_, err = p.Binding()
	assert.Error(err)

	p = goodPlan()
	p.Density = nil
	p.Densities = []model.Spec{
		{Kind: "normal", Params: []float64{0, 1}},
		{Kind: "gamma", Params: []float64{2, -1}},
	}
	_, err = p.Binding()
	assert.Error(err)
}

func TestPlanFromFile(t *testing.T) {
	assert := assert.New(t)

	text := `seed: 42
lanes: 64
dims: 3
iters: 500
step: 2.4
initial: 1.0
workers: 2
densities:
  - normal 0 1
  - kind: gamma
    params: [2, 0.5]
  - uniform -3 3
out: pop.mhw
`

	filename := filepath.Join(t.TempDir(), "plan.yaml")
	assert.NoError(os.WriteFile(filename, []byte(text), 0644))

	plan, err := NewPlanFromFile(filename)
	assert.NoError(err)
	assert.NoError(plan.Check())

	assert.Equal(uint64(42), plan.Seed)
	assert.Equal(64, plan.Lanes)
	assert.Equal(3, plan.Dims)
	assert.Equal(500, plan.Iterations)
	assert.Equal(2.4, plan.StepSize)
	assert.Equal(1.0, plan.Initial)
	assert.Equal(2, plan.Workers)
	assert.Equal("pop.mhw", plan.Out)
	assert.Nil(plan.Density)
	assert.Len(plan.Densities, 3)
	assert.Equal("gamma", plan.Densities[1].Kind)
	assert.Equal([]float64{2, 0.5}, plan.Densities[1].Params)

	_, err = plan.Binding()
	assert.NoError(err)
}

func TestPlanFromFileErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := NewPlanFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(err)

	filename := filepath.Join(t.TempDir(), "bad.yaml")
	assert.NoError(os.WriteFile(filename, []byte("lanes: [1, 2\n"), 0644))
	_, err = NewPlanFromFile(filename)
	assert.Error(err)

	filename = filepath.Join(t.TempDir(), "badtype.yaml")
	assert.NoError(os.WriteFile(filename, []byte("lanes: notanumber\n"), 0644))
	_, err = NewPlanFromFile(filename)
	assert.Error(err)
}
