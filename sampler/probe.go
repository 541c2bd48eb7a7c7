package sampler

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/tfaulkner/mhwarm/buffer"
	"github.com/tfaulkner/mhwarm/model"
	"github.com/tfaulkner/mhwarm/rand"
)

// A Probe is a dress rehearsal for a warm-up run: a single chain advanced
// with the exact step semantics of a real lane, plus a trace window per
// dimension so convergence can be judged before committing a few million
// lanes to a bad iteration count or step size.
type Probe struct {
	Dims        int
	StepSize    float64
	Window      []*buffer.CircularFloat // one trace window per dimension
	TotalSweeps int64
	Steps       uint64
	Accepted    uint64

	dens   []model.Density
	rng    *rand.Stream
	x      []float64
	invDen []float64
}

// NewProbe builds a single-chain tracer with a trace window of cw samples
// per dimension. The chain starts at the initial value in every dimension,
// exactly like a real lane would.
func NewProbe(binding model.Binding, dims int, initial float64, stepSize float64, cw int, rng *rand.Stream) (*Probe, error) {
	dens, err := binding.Functions(dims)
	if err != nil {
		return nil, errors.Wrap(err, "Could not resolve the density binding")
	}
	if stepSize <= 0 || math.IsNaN(stepSize) || math.IsInf(stepSize, 0) {
		return nil, errors.Errorf("Step size must be positive and finite (found %f)", stepSize)
	}
	if cw < 2 {
		return nil, errors.Errorf("Trace window must hold at least 2 samples (found %d)", cw)
	}
	if rng == nil {
		return nil, errors.Errorf("No random stream supplied")
	}

	p := &Probe{
		Dims:     dims,
		StepSize: stepSize,
		Window:   make([]*buffer.CircularFloat, dims),
		dens:     dens,
		rng:      rng,
		x:        make([]float64, dims),
		invDen:   make([]float64, dims),
	}

	for n := range p.Window {
		p.Window[n] = buffer.NewCircularFloat(cw)
	}
	for n := range p.x {
		p.x[n] = initial
		p.invDen[n] = 1.0 / dens[n](initial)
	}

	return p, nil
}

// Advance runs count full sweeps, tracing every dimension after each one.
func (p *Probe) Advance(count int) {
	for i := 0; i < count; i++ {
		p.Accepted += uint64(Sweep(p.x, p.invDen, p.StepSize, p.dens, p.rng))
		p.Steps += uint64(p.Dims)
		p.TotalSweeps++

		for n, w := range p.Window {
			w.Add(p.x[n])
		}
	}
}

// State returns a copy of the chain's current vector.
func (p *Probe) State() []float64 {
	out := make([]float64, p.Dims)
	copy(out, p.x)
	return out
}

// AcceptRate is the fraction of proposals accepted so far.
func (p *Probe) AcceptRate() float64 {
	if p.Steps == 0 {
		return 0
	}
	return float64(p.Accepted) / float64(p.Steps)
}

// A Diagnostic summarizes one dimension's trace window: the means of the
// older and newer halves, the spread of the newer half, and the shift
// between the halves in units of that spread. A chain at its stationary
// distribution shows a small shift.
type Diagnostic struct {
	Dim          int
	FirstMean    float64
	SecondMean   float64
	SecondStdDev float64
	Shift        float64
}

// Diagnose reports a Diagnostic per dimension. It fails if the trace windows
// have not filled yet.
func (p *Probe) Diagnose() ([]Diagnostic, error) {
	diags := make([]Diagnostic, p.Dims)

	for n, w := range p.Window {
		fh := w.FirstHalf()
		sh := w.SecondHalf()
		if fh == nil || sh == nil {
			return nil, errors.Errorf("Trace window for dimension %d is not full (%d of %d)", n, w.Count, w.BufSize)
		}

		first := fh.Slurp()
		second := sh.Slurp()

		fMean := stat.Mean(first, nil)
		sMean, sVar := stat.MeanVariance(second, nil)
		sStd := math.Sqrt(sVar)

		shift := math.Abs(sMean - fMean)
		if sStd > 0 {
			shift /= sStd
		}

		diags[n] = Diagnostic{
			Dim:          n,
			FirstMean:    fMean,
			SecondMean:   sMean,
			SecondStdDev: sStd,
			Shift:        shift,
		}
	}

	return diags, nil
}

// MaxShift is the largest per-dimension shift, the single number to eyeball
// for a go/no-go call.
func MaxShift(diags []Diagnostic) float64 {
	worst := 0.0
	for _, d := range diags {
		worst = math.Max(worst, d.Shift)
	}
	return worst
}
