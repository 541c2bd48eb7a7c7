package cmd

import (
	"github.com/pkg/errors"

	"github.com/tfaulkner/mhwarm/model"
	"github.com/tfaulkner/mhwarm/rand"
	"github.com/tfaulkner/mhwarm/sampler"
)

// CheckRun probes the plan's target with a single chain before a full run:
// optional step calibration, a half-window convergence diagnostic per
// dimension, and a comparison of the trace against quadrature moments.
func CheckRun(sp *startupParams) error {
	plan := sp.plan

	if err := plan.Check(); err != nil {
		return err
	}
	binding, err := plan.Binding()
	if err != nil {
		return err
	}

	if checkSweeps < checkWindow {
		return errors.Errorf("Need sweeps >= window (found %d < %d)", checkSweeps, checkWindow)
	}

	// The probe draws from its own stream exactly the way lane 0 of the
	// real run will
	rng, err := rand.NewStream(plan.Seed, 0)
	if err != nil {
		return err
	}

	step := plan.StepSize
	if checkCalibrate {
		cal := sampler.DefaultCalibration()
		found, err := sampler.CalibrateStep(binding, plan.Dims, plan.Initial, step, cal, rng)
		if err != nil {
			return err
		}
		sp.out.Printf("Calibrated step %f (started from %f, band %.2f-%.2f)\n",
			found, step, cal.LowAccept, cal.HighAccept)
		step = found
	}

	probe, err := sampler.NewProbe(binding, plan.Dims, plan.Initial, step, checkWindow, rng)
	if err != nil {
		return err
	}

	sp.out.Printf("Probe: %d dims, %d sweeps, window %d, step %f, seed %d\n",
		plan.Dims, checkSweeps, checkWindow, step, plan.Seed)
	probe.Advance(checkSweeps)

	diags, err := probe.Diagnose()
	if err != nil {
		return err
	}

	dens, err := binding.Functions(plan.Dims)
	if err != nil {
		return err
	}

	for n, dg := range diags {
		mom, err := model.NewMoments(dens[n], checkLo, checkHi)
		if err != nil {
			return errors.Wrapf(err, "Could not integrate the density for dimension %s", model.DimName(n))
		}

		sp.out.Printf("Dim %-4s => shift %7.4f | mean %10.4f (target %10.4f) | sd %9.4f (target %9.4f)\n",
			model.DimName(n), dg.Shift,
			dg.SecondMean, mom.Mean,
			dg.SecondStdDev, mom.StdDev())
		sp.trace.Printf("check dim=%d first=%f second=%f sd=%f shift=%f mass=%f\n",
			n, dg.FirstMean, dg.SecondMean, dg.SecondStdDev, dg.Shift, mom.Mass)
	}

	worst := sampler.MaxShift(diags)
	sp.out.Printf("Accept rate %.2f%%, worst shift %.4f\n", probe.AcceptRate()*100.0, worst)
	if worst > 0.5 {
		sp.out.Printf("WARNING: half-window means are still moving. Use more sweeps or a better step\n")
	}

	return nil
}
