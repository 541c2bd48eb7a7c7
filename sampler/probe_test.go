package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"

	"github.com/tfaulkner/mhwarm/model"
	"github.com/tfaulkner/mhwarm/rand"
)

func TestProbeBadConfig(t *testing.T) {
	assert := assert.New(t)

	d, err := model.Normal(0, 1)
	assert.NoError(err)
	rng, err := rand.NewStream(42, 0)
	assert.NoError(err)

	cases := []struct {
		name     string
		binding  model.Binding
		dims     int
		stepSize float64
		cw       int
		rng      *rand.Stream
	}{
		{"binding mismatch", model.Heterogeneous(d, d), 3, 1.0, 10, rng},
		{"empty binding", model.Binding{}, 2, 1.0, 10, rng},
		{"zero step", model.Homogeneous(d), 2, 0, 10, rng},
		{"tiny window", model.Homogeneous(d), 2, 1.0, 1, rng},
		{"nil stream", model.Homogeneous(d), 2, 1.0, 10, nil},
	}

	for _, c := range cases {
		p, err := NewProbe(c.binding, c.dims, 0, c.stepSize, c.cw, c.rng)
		assert.Nil(p, c.name)
		assert.Error(err, c.name)
	}
}

// Diagnostics only exist once the trace windows have filled
func TestProbeWindowFill(t *testing.T) {
	assert := assert.New(t)

	d, err := model.Normal(0, 1)
	assert.NoError(err)
	rng, err := rand.NewStream(42, 0)
	assert.NoError(err)

	p, err := NewProbe(model.Homogeneous(d), 3, 0.5, 1.0, 100, rng)
	assert.NoError(err)
	assert.Len(p.Window, 3)

	p.Advance(99)
	diags, err := p.Diagnose()
	assert.Nil(diags)
	assert.Error(err)

	p.Advance(1)
	diags, err = p.Diagnose()
	assert.NoError(err)
	assert.Len(diags, 3)
	for n, dg := range diags {
		assert.Equal(n, dg.Dim)
		assert.True(dg.Shift >= 0)
	}
	assert.Equal(int64(100), p.TotalSweeps)
	assert.Equal(uint64(300), p.Steps)
}

// A long single chain on a standard normal: the population statistics and
// the split-window diagnostic should both say "stationary"
func TestProbeStationaryNormal(t *testing.T) {
	assert := assert.New(t)

	d, err := model.Normal(0, 1)
	assert.NoError(err)
	rng, err := rand.NewStream(42, 0)
	assert.NoError(err)

	p, err := NewProbe(model.Homogeneous(d), 1, 3.0, 2.4, 100000, rng)
	assert.NoError(err)

	// The first sweeps walk in from the off-center start; the window keeps
	// only the last 100000 so the transient falls out
	p.Advance(120000)

	diags, err := p.Diagnose()
	assert.NoError(err)
	assert.Len(diags, 1)
	assert.True(diags[0].Shift < 0.1, "shift %f", diags[0].Shift)
	assert.True(MaxShift(diags) < 0.1)

	trace := append(p.Window[0].FirstHalf().Slurp(), p.Window[0].SecondHalf().Slurp()...)
	assert.Len(trace, 100000)

	mean, variance := stat.MeanVariance(trace, nil)
	assert.InDelta(0.0, mean, 0.05)
	assert.InDelta(1.0, variance, 0.05)

	rate := p.AcceptRate()
	assert.True(rate > 0.25, "accept rate %f", rate)
	assert.True(rate < 0.70, "accept rate %f", rate)
}

// State must be a copy, not a view of the live vector
func TestProbeStateCopy(t *testing.T) {
	assert := assert.New(t)

	d, err := model.Normal(0, 1)
	assert.NoError(err)
	rng, err := rand.NewStream(9, 0)
	assert.NoError(err)

	p, err := NewProbe(model.Homogeneous(d), 2, 1.0, 2.4, 10, rng)
	assert.NoError(err)

	before := p.State()
	assert.Equal([]float64{1, 1}, before)

	p.Advance(50)
	after := p.State()
	assert.Equal([]float64{1, 1}, before)
	assert.NotEqual(before, after) // Technically just highly unlikely...
}
