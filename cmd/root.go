package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tfaulkner/mhwarm/model"
)

var (
	planFile    string
	verbose     bool
	traceFile   string
	randomSeed  uint64
	laneCount   int
	dimCount    int
	iterCount   int
	stepSize    float64
	initialVal  float64
	workerCount int
	densityText string
	densityList []string

	outFile     string
	monitorAddr string
	quiet       bool

	checkSweeps    int
	checkWindow    int
	checkCalibrate bool
	checkLo        float64
	checkHi        float64
)

// startupParams gathers what every command needs: the assembled plan and
// somewhere to write normal and trace output.
type startupParams struct {
	plan      *Plan
	out       *log.Logger
	trace     *log.Logger
	traceFile string
	traceFD   *os.File
	verbose   bool
}

// Close releases the trace file if one was opened.
func (sp *startupParams) Close() {
	if sp.traceFD != nil {
		sp.traceFD.Close()
		sp.traceFD = nil
	}
}

// newStartupParams builds loggers and merges the plan file with the flags.
func newStartupParams() (*startupParams, error) {
	sp := &startupParams{
		out:     log.New(os.Stdout, "", 0),
		trace:   log.New(io.Discard, "", 0),
		verbose: verbose,
	}

	if len(traceFile) > 0 {
		fd, err := os.Create(traceFile)
		if err != nil {
			return nil, errors.Wrapf(err, "Could not create trace file %s", traceFile)
		}
		sp.traceFD = fd
		sp.traceFile = traceFile
		sp.trace = log.New(fd, "", 0)
	}

	plan, err := assemblePlan()
	if err != nil {
		sp.Close()
		return nil, err
	}
	sp.plan = plan

	return sp, nil
}

// assemblePlan merges the optional plan file with the flags. A flag the user
// actually set always wins over the file.
func assemblePlan() (*Plan, error) {
	plan := &Plan{
		Seed:       randomSeed,
		Lanes:      laneCount,
		Dims:       dimCount,
		Iterations: iterCount,
		StepSize:   stepSize,
		Initial:    initialVal,
		Workers:    workerCount,
	}

	if len(planFile) > 0 {
		loaded, err := NewPlanFromFile(planFile)
		if err != nil {
			return nil, err
		}
		plan = loaded
	}

	pf := rootCmd.PersistentFlags()
	if pf.Changed("seed") {
		plan.Seed = randomSeed
	}
	if pf.Changed("lanes") {
		plan.Lanes = laneCount
	}
	if pf.Changed("dims") {
		plan.Dims = dimCount
	}
	if pf.Changed("iters") {
		plan.Iterations = iterCount
	}
	if pf.Changed("step") {
		plan.StepSize = stepSize
	}
	if pf.Changed("initial") {
		plan.Initial = initialVal
	}
	if pf.Changed("workers") {
		plan.Workers = workerCount
	}

	if pf.Changed("density") {
		s, err := model.ParseSpec(densityText)
		if err != nil {
			return nil, err
		}
		plan.Density = &s
		plan.Densities = nil
	}
	if pf.Changed("densities") {
		specs := make([]model.Spec, 0, len(densityList))
		for _, text := range densityList {
			s, err := model.ParseSpec(text)
			if err != nil {
				return nil, err
			}
			specs = append(specs, s)
		}
		plan.Densities = specs
		plan.Density = nil
	}

	if warmCmd.Flags().Changed("out") {
		plan.Out = outFile
	}

	return plan, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mhwarm",
	Short: "Massively parallel MCMC warm-up",
	Long: `mhwarm drives warm-up for large populations of independent
Metropolis-Hastings chains. Among other features:

  - One independent Mersenne Twister stream per chain from a single seed
  - Product-form targets built from the usual density families
  - A single-chain probe for judging convergence before a big run
`,
}

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Run a warm-up plan and leave a converged population",
}

// The RunE closure reaches newStartupParams -> assemblePlan, which reads
// warmCmd's flags, so attaching it inside the composite literal above would
// be an initialization cycle.
func init() {
	warmCmd.RunE = func(cmd *cobra.Command, args []string) error {
		sp, err := newStartupParams()
		if err != nil {
			return err
		}
		defer sp.Close()
		return WarmupRun(sp)
	}
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe a target with a single chain before committing to a run",
	RunE: func(cmd *cobra.Command, args []string) error {
		sp, err := newStartupParams()
		if err != nil {
			return err
		}
		defer sp.Close()
		return CheckRun(sp)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&planFile, "plan", "p", "", "YAML plan file to run (flags override plan fields)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Verbose logging (default is much more parsimonious)")
	pf.StringVar(&traceFile, "trace", "", "Trace file for detailed per-run output")
	pf.Uint64VarP(&randomSeed, "seed", "r", 1, "Random seed shared by every lane")
	pf.IntVarP(&laneCount, "lanes", "l", 1024, "Number of independent chains (lanes)")
	pf.IntVarP(&dimCount, "dims", "d", 1, "Dimensions in each chain's state vector")
	pf.IntVarP(&iterCount, "iters", "i", 1000, "Warm-up iterations (full sweeps per lane)")
	pf.Float64VarP(&stepSize, "step", "s", 1.0, "Proposal kernel step size")
	pf.Float64Var(&initialVal, "initial", 0.0, "Starting value for every dimension of every lane")
	pf.IntVarP(&workerCount, "workers", "w", 0, "Worker goroutines (0 means all CPUs)")
	pf.StringVarP(&densityText, "density", "D", "", "Shared density for all dimensions, e.g. 'normal 0 1'")
	pf.StringArrayVar(&densityList, "densities", nil, "Per-dimension density (repeat once per dimension)")

	warmCmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the warmed population to this file (zstd compressed)")
	warmCmd.Flags().StringVar(&monitorAddr, "monitor", "", "Serve run progress over HTTP at this address (e.g. :8000)")
	warmCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "No progress bar")

	checkCmd.Flags().IntVar(&checkSweeps, "sweeps", 20000, "Probe sweeps to run")
	checkCmd.Flags().IntVar(&checkWindow, "window", 10000, "Trace window for the convergence diagnostic")
	checkCmd.Flags().BoolVar(&checkCalibrate, "calibrate", false, "Search for a usable step size before probing")
	checkCmd.Flags().Float64Var(&checkLo, "lo", -20.0, "Low edge of the moment integration window")
	checkCmd.Flags().Float64Var(&checkHi, "hi", 20.0, "High edge of the moment integration window")

	rootCmd.AddCommand(warmCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
