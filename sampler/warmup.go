package sampler

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/tfaulkner/mhwarm/model"
	"github.com/tfaulkner/mhwarm/rand"
)

// Config carries everything Warmup needs beyond the chains themselves. Every
// knob is explicit: nothing is read from the environment or adapted
// mid-run.
type Config struct {
	Iterations int     // Iterations is the fixed number of full sweeps per lane
	StepSize   float64 // StepSize scales the proposal kernel for every dimension
	Workers    int     // Workers caps the goroutines advancing lanes (<= 0 means GOMAXPROCS)

	// Progress, if set, is called after each lane finishes with the number
	// of finished lanes and the total. It may be called from multiple
	// goroutines at once and its call order is scheduling-dependent.
	Progress func(done int, total int)
}

// Stats reports what a warm-up run did in aggregate. The sample array is the
// real output; these counters exist for step-size tuning and reporting.
type Stats struct {
	Lanes      int
	Iterations int
	Steps      uint64
	Accepted   uint64
}

// AcceptRate is the fraction of proposals accepted across all lanes.
func (s Stats) AcceptRate() float64 {
	if s.Steps == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(s.Steps)
}

// Warmup advances every lane of the ensemble through cfg.Iterations full
// sweeps, leaving the warmed population in ens and the streams advanced in
// place for whatever phase comes next.
//
// Lanes are embarrassingly parallel. Each worker gathers a lane into a local
// state vector, builds the lane's reciprocal-density cache from the current
// values, runs the whole iteration count against the local copies, and
// scatters the result back. No state is shared across lanes while running,
// and a lane's result depends only on its own stream and starting point, so
// the worker count and partition never change the answer.
//
// Nothing mid-run can fail and there is no cancellation: every error below
// is a configuration problem caught before the first goroutine starts.
func Warmup(ens *model.Ensemble, streams []*rand.Stream, binding model.Binding, cfg Config) (Stats, error) {
	stats := Stats{}

	if ens == nil {
		return stats, errors.Errorf("No ensemble supplied")
	}
	if len(streams) != ens.Lanes {
		return stats, errors.Errorf("Need one stream per lane: found %d streams for %d lanes", len(streams), ens.Lanes)
	}
	for t, s := range streams {
		if s == nil {
			return stats, errors.Errorf("Stream for lane %d is missing", t)
		}
	}
	if cfg.Iterations < 0 {
		return stats, errors.Errorf("Iteration count must be >= 0 (found %d)", cfg.Iterations)
	}
	if cfg.StepSize <= 0 || math.IsNaN(cfg.StepSize) || math.IsInf(cfg.StepSize, 0) {
		return stats, errors.Errorf("Step size must be positive and finite (found %f)", cfg.StepSize)
	}

	dens, err := binding.Functions(ens.Dims)
	if err != nil {
		return stats, errors.Wrap(err, "Could not resolve the density binding")
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > ens.Lanes {
		workers = ens.Lanes
	}

	stats.Lanes = ens.Lanes
	stats.Iterations = cfg.Iterations

	// Contiguous lane blocks, one per worker. Per-worker tallies are summed
	// after the join so the hot loop never touches shared state.
	chunk := (ens.Lanes + workers - 1) / workers
	tallies := make([]Stats, workers)

	var wg sync.WaitGroup
	var lanesDone int64

	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > ens.Lanes {
			hi = ens.Lanes
		}
		if lo >= hi {
			break
		}

		wg.Add(1)
		go func(w int, lo int, hi int) {
			defer wg.Done()

			x := make([]float64, ens.Dims)
			invDen := make([]float64, ens.Dims)
			tally := &tallies[w]

			for t := lo; t < hi; t++ {
				ens.Lane(t, x)
				for n := range invDen {
					invDen[n] = 1.0 / dens[n](x[n])
				}

				rng := streams[t]
				for i := 0; i < cfg.Iterations; i++ {
					tally.Accepted += uint64(Sweep(x, invDen, cfg.StepSize, dens, rng))
				}
				tally.Steps += uint64(cfg.Iterations) * uint64(ens.Dims)

				ens.SetLane(t, x)

				if cfg.Progress != nil {
					done := atomic.AddInt64(&lanesDone, 1)
					cfg.Progress(int(done), ens.Lanes)
				}
			}
		}(w, lo, hi)
	}

	wg.Wait()

	for _, t := range tallies {
		stats.Steps += t.Steps
		stats.Accepted += t.Accepted
	}

	return stats, nil
}
