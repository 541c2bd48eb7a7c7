package cmd

import (
	"time"

	"github.com/cheggaaa/pb/v3"
	"gonum.org/v1/gonum/stat"

	"github.com/tfaulkner/mhwarm/model"
	"github.com/tfaulkner/mhwarm/rand"
	"github.com/tfaulkner/mhwarm/sampler"
)

// WarmupRun executes the assembled plan: seed one stream per lane, initialize
// the population, warm every lane, report, and optionally persist the result.
func WarmupRun(sp *startupParams) error {
	plan := sp.plan

	if err := plan.Check(); err != nil {
		return err
	}
	binding, err := plan.Binding()
	if err != nil {
		return err
	}

	sp.out.Printf("Warm-up: %d lanes x %d dims, %d iters, step %f, seed %d\n",
		plan.Lanes, plan.Dims, plan.Iterations, plan.StepSize, plan.Seed)
	if plan.Density != nil {
		sp.out.Printf("Target: %s (all dimensions)\n", plan.Density)
	} else {
		sp.out.Printf("Target: %d per-dimension densities\n", len(plan.Densities))
		for n, s := range plan.Densities {
			sp.trace.Printf("target dim=%s density=%s\n", model.DimName(n), s)
		}
	}

	streams, err := rand.SeedStreams(plan.Seed, plan.Lanes)
	if err != nil {
		return err
	}

	ens, err := model.NewEnsemble(plan.Initial, plan.Dims, plan.Lanes)
	if err != nil {
		return err
	}

	cfg := sampler.Config{
		Iterations: plan.Iterations,
		StepSize:   plan.StepSize,
		Workers:    plan.Workers,
	}

	var bar *pb.ProgressBar
	if !quiet {
		bar = pb.StartNew(plan.Lanes)
	}

	var mon *monitor
	if len(monitorAddr) > 0 {
		mon = &monitor{}
		if err := mon.Start(monitorAddr); err != nil {
			return err
		}
		defer mon.Stop()
		mon.Lanes.Set(int64(plan.Lanes))
		mon.Iterations.Set(int64(plan.Iterations))
		mon.StepSize.Set(plan.StepSize)
	}

	if bar != nil || mon != nil {
		begin := time.Now()
		cfg.Progress = func(done int, total int) {
			if bar != nil {
				bar.Increment()
			}
			if mon != nil {
				mon.LanesDone.Set(int64(done))
				mon.RunTime.Set(time.Since(begin).Seconds())
			}
		}
	}

	startTime := time.Now()
	stats, err := sampler.Warmup(ens, streams, binding, cfg)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(startTime)

	sp.out.Printf("Warmed %d lanes in %v\n", stats.Lanes, elapsed)
	sp.out.Printf("Steps %d, Accepted %d (%.2f%%)\n",
		stats.Steps, stats.Accepted, stats.AcceptRate()*100.0)

	for n := 0; n < ens.Dims; n++ {
		mean, variance := stat.MeanVariance(ens.Dim(n), nil)
		sp.out.Printf("Dim %-4s => mean %12.6f, var %12.6f\n", model.DimName(n), mean, variance)
	}

	if len(plan.Out) > 0 {
		sp.out.Printf("Writing population to %s\n", plan.Out)
		if err := writePopulation(plan.Out, ens); err != nil {
			return err
		}
	}

	return nil
}
