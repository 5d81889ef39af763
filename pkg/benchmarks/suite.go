package benchmarks

import (
	"context"
	"fmt"

	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/greenfab/eedfjsp/pkg/algorithms"
	"github.com/greenfab/eedfjsp/pkg/api/v1alpha1"
	"github.com/greenfab/eedfjsp/pkg/framework"
	"github.com/greenfab/eedfjsp/pkg/scheduler"
)

// Instance is a named generated problem
type Instance struct {
	Name   string
	Config GeneratorConfig
	Seed   uint64
}

// Report holds the quality of one run on one instance
type Report struct {
	Instance     string
	Run          int
	FrontSize    int
	BestMakespan float64
	BestEnergy   float64
	IGD          float64
	Spacing      float64
}

// TestSuite runs the scheduler several times on each instance and compares
// every run's front with the reference front of all runs on that instance
type TestSuite struct {
	instances []Instance
	args      *v1alpha1.SchedulerArgs
	runs      int
}

// NewTestSuite creates a suite running each instance runs times with args.
// args must be defaulted; the seed of run r is derived from args.Seed.
func NewTestSuite(args *v1alpha1.SchedulerArgs, runs int) *TestSuite {
	return &TestSuite{
		args: args,
		runs: max(runs, 1),
	}
}

func (ts *TestSuite) AddInstance(in Instance) {
	ts.instances = append(ts.instances, in)
}

// AddStandardInstances adds small, medium and large shops
func (ts *TestSuite) AddStandardInstances() {
	ts.AddInstance(Instance{Name: "small-5x4", Config: DefaultGeneratorConfig(5, 4), Seed: 1})
	ts.AddInstance(Instance{Name: "medium-10x6", Config: DefaultGeneratorConfig(10, 6), Seed: 2})
	ts.AddInstance(Instance{Name: "large-20x10", Config: DefaultGeneratorConfig(20, 10), Seed: 3})
}

// Run executes the suite and returns one report per run
func (ts *TestSuite) Run(ctx context.Context) ([]Report, error) {
	logger := klog.FromContext(ctx).WithValues("component", "benchmarks")
	baseSeed := ptr.Deref(ts.args.Seed, 0)

	var reports []Report
	for _, in := range ts.instances {
		logger.Info("Running instance", "instance", in.Name, "jobs", in.Config.Jobs, "machines", in.Config.Machines, "runs", ts.runs)

		fronts := make([][]framework.ObjectiveSpacePoint, ts.runs)
		results := make([]*scheduler.Result, ts.runs)
		for r := 0; r < ts.runs; r++ {
			// breakdowns mutate machine state, so every run gets a fresh copy
			problem, err := GenerateInstance(in.Config, rand.New(rand.NewSource(in.Seed)))
			if err != nil {
				return reports, fmt.Errorf("instance %s: %w", in.Name, err)
			}

			args := ts.args.DeepCopy()
			args.Seed = ptr.To(baseSeed + uint64(r))
			s, err := scheduler.New(ctx, args, problem)
			if err != nil {
				return reports, fmt.Errorf("instance %s: %w", in.Name, err)
			}
			result, err := s.Run(ctx)
			if err != nil {
				return reports, fmt.Errorf("instance %s run %d: %w", in.Name, r, err)
			}
			results[r] = result
			fronts[r] = algorithms.FrontPoints(result.Front)
		}

		reference := ReferenceFront(fronts...)
		for r, result := range results {
			report := Report{
				Instance:     in.Name,
				Run:          r,
				FrontSize:    len(result.Front),
				BestMakespan: result.Best.Makespan,
				BestEnergy:   result.Best.Energy,
				IGD:          IGD(fronts[r], reference),
				Spacing:      Spacing(fronts[r]),
			}
			reports = append(reports, report)
			logger.Info("Run quality",
				"instance", in.Name, "run", r, "frontSize", report.FrontSize,
				"bestMakespan", report.BestMakespan, "bestEnergy", report.BestEnergy,
				"igd", report.IGD, "spacing", report.Spacing)
		}
	}
	return reports, nil
}
