package scheduler_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"k8s.io/klog/v2/ktesting"
	"k8s.io/utils/ptr"

	"github.com/greenfab/eedfjsp/pkg/algorithms"
	"github.com/greenfab/eedfjsp/pkg/api/v1alpha1"
	"github.com/greenfab/eedfjsp/pkg/framework"
	"github.com/greenfab/eedfjsp/pkg/metrics"
	"github.com/greenfab/eedfjsp/pkg/scheduler"
)

func opt(pt, pe float64) framework.MachineOption {
	return framework.MachineOption{ProcessingTime: pt, ProcessingEnergy: pe, SetupTime: 1, SetupEnergy: 0.5}
}

// testProblem is a 3 job, 3 machine shop where most operations have
// alternatives with different time and energy trade-offs
func testProblem(t *testing.T) *framework.Problem {
	t.Helper()
	options := [][]map[int]framework.MachineOption{
		{
			{0: opt(3, 4), 1: opt(5, 2)},
			{1: opt(4, 3), 2: opt(2, 6)},
		},
		{
			{0: opt(2, 5), 2: opt(4, 1)},
			{0: opt(6, 2), 1: opt(3, 4), 2: opt(5, 3)},
		},
		{
			{1: opt(3, 3)},
			{0: opt(4, 2), 2: opt(3, 5)},
		},
	}

	jobs := make([]*framework.Job, len(options))
	for j, ops := range options {
		jobs[j] = &framework.Job{ID: j}
		for i, o := range ops {
			jobs[j].Operations = append(jobs[j].Operations, framework.NewOperation(j, i, o))
		}
	}
	machines := []*framework.Machine{
		{ID: 0, IdleEnergy: 1, Age: 1},
		{ID: 1, IdleEnergy: 0.5, Age: 2},
		{ID: 2, IdleEnergy: 2, Age: 0},
	}
	params := framework.DefaultParameters(len(machines))
	params.TransportTime = [][]float64{{0, 1, 2}, {1, 0, 1}, {2, 1, 0}}

	p, err := framework.NewProblem(jobs, machines, params)
	if err != nil {
		t.Fatalf("Expected a valid problem, got %v", err)
	}
	return p
}

func defaultedArgs(mutate func(*v1alpha1.SchedulerArgs)) *v1alpha1.SchedulerArgs {
	args := &v1alpha1.SchedulerArgs{
		PopulationSize: 10,
		Generations:    4,
		Seed:           ptr.To[uint64](42),
	}
	if mutate != nil {
		mutate(args)
	}
	scheduler.SetDefaults_SchedulerArgs(args)
	return args
}

func TestSetDefaults(t *testing.T) {
	args := &v1alpha1.SchedulerArgs{}
	scheduler.SetDefaults_SchedulerArgs(args)

	want := &v1alpha1.SchedulerArgs{
		PopulationSize:       50,
		Generations:          50,
		Controller:           v1alpha1.ControllerQLearning,
		CrossoverProbability: ptr.To(0.8),
		MutationProbability:  ptr.To(0.1),
		SARSAFraction:        ptr.To(0.8),
		VNS: v1alpha1.VNSArgs{
			Enabled:       ptr.To(true),
			Candidates:    5,
			TabuSize:      10,
			MaxIterations: 30,
		},
		EnergyStrategies: v1alpha1.EnergyStrategyArgs{
			Enabled: ptr.To(true),
			ZZRate:  ptr.To(0.3),
			XXRate:  ptr.To(0.7),
		},
		Initialization: v1alpha1.InitializationArgs{
			RandomRate:            ptr.To(0.25),
			MinProcessingTimeRate: ptr.To(0.25),
			MaxRemainingTimeRate:  ptr.To(0.25),
			MinWorkloadRate:       ptr.To(0.25),
		},
		Breakdowns: v1alpha1.BreakdownArgs{Enabled: ptr.To(true)},
	}
	want.APIVersion = v1alpha1.SchemeGroupVersion.String()
	want.Kind = "SchedulerArgs"

	if diff := cmp.Diff(want, args); diff != "" {
		t.Errorf("Unexpected defaults (-want +got):\n%s", diff)
	}
}

func TestSetDefaultsKeepsExplicitValues(t *testing.T) {
	args := &v1alpha1.SchedulerArgs{
		PopulationSize: 8,
		Controller:     v1alpha1.ControllerFixed,
		VNS:            v1alpha1.VNSArgs{Enabled: ptr.To(false)},
		Initialization: v1alpha1.InitializationArgs{RandomRate: ptr.To(1.0)},
	}
	scheduler.SetDefaults_SchedulerArgs(args)

	if args.PopulationSize != 8 {
		t.Errorf("Expected population size 8, got %d", args.PopulationSize)
	}
	if args.Controller != v1alpha1.ControllerFixed {
		t.Errorf("Expected Fixed controller, got %q", args.Controller)
	}
	if *args.VNS.Enabled {
		t.Error("Expected VNS to stay disabled")
	}
	if args.Initialization.MinWorkloadRate != nil {
		t.Errorf("Expected unset initialization rates to stay unset, got %v", *args.Initialization.MinWorkloadRate)
	}
}

func TestNewSchemeAppliesDefaults(t *testing.T) {
	scheme, err := scheduler.NewScheme()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	args := &v1alpha1.SchedulerArgs{}
	scheme.Default(args)
	if args.PopulationSize != 50 || args.Controller != v1alpha1.ControllerQLearning {
		t.Errorf("Expected scheme defaults to be applied, got %+v", args)
	}
}

func TestValidateSchedulerArgs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*v1alpha1.SchedulerArgs)
		wantErr string
	}{
		{
			name: "defaults",
		},
		{
			name:    "population too small",
			mutate:  func(a *v1alpha1.SchedulerArgs) { a.PopulationSize = 1 },
			wantErr: "populationSize",
		},
		{
			name:    "unknown controller",
			mutate:  func(a *v1alpha1.SchedulerArgs) { a.Controller = "PPO" },
			wantErr: "controller",
		},
		{
			name:    "crossover probability above one",
			mutate:  func(a *v1alpha1.SchedulerArgs) { a.CrossoverProbability = ptr.To(1.5) },
			wantErr: "crossoverProbability",
		},
		{
			name:    "negative tabu size",
			mutate:  func(a *v1alpha1.SchedulerArgs) { a.VNS.TabuSize = -1 },
			wantErr: "vns.tabuSize",
		},
		{
			name:    "zero generations",
			mutate:  func(a *v1alpha1.SchedulerArgs) { a.Generations = 0 },
			wantErr: "generations",
		},
		{
			name:    "zero candidates",
			mutate:  func(a *v1alpha1.SchedulerArgs) { a.VNS.Candidates = 0 },
			wantErr: "vns.candidates",
		},
		{
			name:    "zero tabu size",
			mutate:  func(a *v1alpha1.SchedulerArgs) { a.VNS.TabuSize = 0 },
			wantErr: "vns.tabuSize",
		},
		{
			name:    "zero iterations",
			mutate:  func(a *v1alpha1.SchedulerArgs) { a.VNS.MaxIterations = 0 },
			wantErr: "vns.maxIterations",
		},
		{
			name: "zz rate above xx rate",
			mutate: func(a *v1alpha1.SchedulerArgs) {
				a.EnergyStrategies.ZZRate = ptr.To(0.8)
				a.EnergyStrategies.XXRate = ptr.To(0.5)
			},
			wantErr: "must not exceed xxRate",
		},
		{
			name:    "negative initialization rate",
			mutate:  func(a *v1alpha1.SchedulerArgs) { a.Initialization.MinWorkloadRate = ptr.To(-0.1) },
			wantErr: "initialization.minWorkloadRate",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args := defaultedArgs(nil)
			if tc.mutate != nil {
				tc.mutate(args)
			}
			err := scheduler.ValidateSchedulerArgs(args)
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestNewRejectsInvalidInput(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	p := testProblem(t)

	if _, err := scheduler.New(ctx, &v1alpha1.Instance{}, p); err == nil {
		t.Error("Expected an error for the wrong args type")
	}
	if _, err := scheduler.New(ctx, defaultedArgs(func(a *v1alpha1.SchedulerArgs) { a.PopulationSize = 1 }), p); err == nil {
		t.Error("Expected an error for invalid args")
	}
	if _, err := scheduler.New(ctx, defaultedArgs(nil), nil); err == nil {
		t.Error("Expected an error for a missing problem")
	}

	_, err := scheduler.New(ctx, defaultedArgs(func(a *v1alpha1.SchedulerArgs) { a.Controller = "PPO" }), nil)
	if err == nil || !strings.Contains(err.Error(), "controller") || !strings.Contains(err.Error(), "problem is required") {
		t.Errorf("Expected both the args and the problem error, got %v", err)
	}
}

func TestRun(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	p := testProblem(t)

	var generations []int
	s, err := scheduler.New(ctx, defaultedArgs(nil), p,
		scheduler.WithRunID("test"),
		scheduler.WithGenerationHook(func(status scheduler.GenerationStatus) {
			generations = append(generations, status.Generation)
			if len(status.Front) == 0 || status.Best == nil {
				t.Errorf("Generation %d: expected a front and a best chromosome", status.Generation)
			}
		}),
	)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	result, err := s.Run(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.RunID != "test" {
		t.Errorf("Expected run id test, got %q", result.RunID)
	}
	if result.Generations != 4 {
		t.Errorf("Expected 4 generations, got %d", result.Generations)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4}, generations); diff != "" {
		t.Errorf("Unexpected hook calls (-want +got):\n%s", diff)
	}
	if len(result.Front) == 0 {
		t.Fatal("Expected a non-empty front")
	}

	for i, a := range result.Front {
		if !a.Decoded() {
			t.Errorf("Front member %d is not decoded", i)
		}
		for j, b := range result.Front {
			if i != j && algorithms.Dominates(a, b) {
				t.Errorf("Front member %d dominates member %d", i, j)
			}
		}
		if result.Best.Makespan > a.Makespan {
			t.Errorf("Expected best makespan %v to be at most front makespan %v", result.Best.Makespan, a.Makespan)
		}
	}

	snapshot := s.Front()
	if len(snapshot) != len(result.Front) {
		t.Fatalf("Expected Front() to return %d chromosomes, got %d", len(result.Front), len(snapshot))
	}
	for i := range snapshot {
		if snapshot[i] != result.Front[i] {
			t.Errorf("Front member %d differs from the result", i)
		}
	}
	if s.Best() != result.Best {
		t.Error("Expected Best() to return the result's best chromosome")
	}
}

func TestRunIsReproducible(t *testing.T) {
	run := func() *scheduler.Result {
		_, ctx := ktesting.NewTestContext(t)
		s, err := scheduler.New(ctx, defaultedArgs(nil), testProblem(t))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		result, err := s.Run(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		return result
	}

	a, b := run(), run()
	if diff := cmp.Diff(a.Best.Objectives, b.Best.Objectives); diff != "" {
		t.Errorf("Expected identical best objectives (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(algorithms.FrontPoints(a.Front), algorithms.FrontPoints(b.Front)); diff != "" {
		t.Errorf("Expected identical fronts (-first +second):\n%s", diff)
	}
	if a.Breakdowns != b.Breakdowns {
		t.Errorf("Expected %d breakdowns, got %d", a.Breakdowns, b.Breakdowns)
	}
}

func TestRunBreakdowns(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		lambda0 float64
		want    int
	}{
		{name: "disabled", enabled: false, lambda0: 1, want: 0},
		{name: "never", enabled: true, lambda0: 0, want: 0},
		{name: "every machine every generation", enabled: true, lambda0: 1, want: 3 * 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ctx := ktesting.NewTestContext(t)
			p := testProblem(t)
			p.Params.Breakdown.Lambda0 = tc.lambda0

			args := defaultedArgs(func(a *v1alpha1.SchedulerArgs) { a.Breakdowns.Enabled = ptr.To(tc.enabled) })
			s, err := scheduler.New(ctx, args, p)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			result, err := s.Run(ctx)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if result.Breakdowns != tc.want {
				t.Errorf("Expected %d breakdowns, got %d", tc.want, result.Breakdowns)
			}
			if p.BreakdownCount() != tc.want {
				t.Errorf("Expected %d breakdown windows on the machines, got %d", tc.want, p.BreakdownCount())
			}
		})
	}
}

func TestRunFixedController(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	args := defaultedArgs(func(a *v1alpha1.SchedulerArgs) {
		a.Controller = v1alpha1.ControllerFixed
		a.CrossoverProbability = ptr.To(0.6)
		a.MutationProbability = ptr.To(0.2)
	})

	s, err := scheduler.New(ctx, args, testProblem(t),
		scheduler.WithGenerationHook(func(status scheduler.GenerationStatus) {
			if status.Generation == 0 {
				return
			}
			if status.Pc != 0.6 || status.Pm != 0.2 {
				t.Errorf("Generation %d: expected rates (0.6, 0.2), got (%v, %v)", status.Generation, status.Pc, status.Pm)
			}
		}),
	)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := s.Run(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	s, err := scheduler.New(ctx, defaultedArgs(nil), testProblem(t))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	result, err := s.Run(cancelled)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if result == nil || result.Generations != 0 {
		t.Fatalf("Expected a partial result after 0 generations, got %+v", result)
	}
	if result.Best == nil || len(result.Front) == 0 {
		t.Error("Expected the initial population's front and best in the partial result")
	}
}

func TestRunRecordsMetrics(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	reg := prometheus.NewPedanticRegistry()

	s, err := scheduler.New(ctx, defaultedArgs(nil), testProblem(t), scheduler.WithMetrics(metrics.NewRecorder(reg)))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	result, err := s.Run(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := `
# HELP eedfjsp_generation The last completed generation.
# TYPE eedfjsp_generation gauge
eedfjsp_generation 4
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "eedfjsp_generation"); err != nil {
		t.Errorf("Unexpected generation metric: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, f := range families {
		if f.GetName() == "eedfjsp_best_makespan" {
			if got := f.GetMetric()[0].GetGauge().GetValue(); got != result.Best.Makespan {
				t.Errorf("Expected best makespan gauge %v, got %v", result.Best.Makespan, got)
			}
		}
	}
}
