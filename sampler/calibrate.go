package sampler

import (
	"math"

	"github.com/pkg/errors"

	"github.com/tfaulkner/mhwarm/model"
	"github.com/tfaulkner/mhwarm/rand"
)

// Calibration bounds the step-size search.
type Calibration struct {
	Trials     int     // Trials caps the number of step sizes tried
	Sweeps     int     // Sweeps is the length of each trial chain
	LowAccept  float64 // LowAccept is the bottom of the target acceptance band
	HighAccept float64 // HighAccept is the top of the target acceptance band
}

// DefaultCalibration targets the usual random-walk Metropolis band.
func DefaultCalibration() Calibration {
	return Calibration{
		Trials:     24,
		Sweeps:     2000,
		LowAccept:  0.3,
		HighAccept: 0.6,
	}
}

// CalibrateStep searches for a step size whose acceptance rate lands inside
// the calibration band, doubling or halving between short trial chains.
// Warm-up itself never adapts, so run this first and hand the winner to
// Warmup. The stream advances across trials like any other phase.
func CalibrateStep(binding model.Binding, dims int, initial float64, start float64, cal Calibration, rng *rand.Stream) (float64, error) {
	if start <= 0 || math.IsNaN(start) || math.IsInf(start, 0) {
		return 0, errors.Errorf("Starting step size must be positive and finite (found %f)", start)
	}
	if cal.Trials < 1 || cal.Sweeps < 1 {
		return 0, errors.Errorf("Calibration needs at least one trial and one sweep (found %d and %d)", cal.Trials, cal.Sweeps)
	}
	if cal.LowAccept <= 0 || cal.HighAccept >= 1 || cal.LowAccept >= cal.HighAccept {
		return 0, errors.Errorf("Acceptance band [%f, %f] is not usable", cal.LowAccept, cal.HighAccept)
	}

	step := start
	for trial := 0; trial < cal.Trials; trial++ {
		p, err := NewProbe(binding, dims, initial, step, 2, rng)
		if err != nil {
			return 0, errors.Wrapf(err, "Calibration trial %d could not start", trial)
		}
		p.Advance(cal.Sweeps)

		rate := p.AcceptRate()
		if rate >= cal.LowAccept && rate <= cal.HighAccept {
			return step, nil
		}

		if rate < cal.LowAccept {
			step /= 2 // rejecting too much, tighten the kernel
		} else {
			step *= 2 // accepting too much, stretch the kernel
		}
	}

	return 0, errors.Errorf("No step size hit the acceptance band [%f, %f] in %d trials", cal.LowAccept, cal.HighAccept, cal.Trials)
}
