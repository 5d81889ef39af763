package benchmarks_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/rand"
	"k8s.io/klog/v2/ktesting"
	"k8s.io/utils/ptr"

	"github.com/greenfab/eedfjsp/pkg/api/v1alpha1"
	"github.com/greenfab/eedfjsp/pkg/benchmarks"
	"github.com/greenfab/eedfjsp/pkg/framework"
	"github.com/greenfab/eedfjsp/pkg/scheduler"
)

func TestGenerateInstance(t *testing.T) {
	config := benchmarks.DefaultGeneratorConfig(6, 4)
	for seed := uint64(0); seed < 20; seed++ {
		p, err := benchmarks.GenerateInstance(config, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("Seed %d: expected no error, got %v", seed, err)
		}
		if len(p.Jobs) != 6 || len(p.Machines) != 4 {
			t.Fatalf("Seed %d: expected 6 jobs and 4 machines, got %d and %d", seed, len(p.Jobs), len(p.Machines))
		}
		for _, job := range p.Jobs {
			if n := len(job.Operations); n < config.MinOperations || n > config.MaxOperations {
				t.Errorf("Seed %d: job %d has %d operations", seed, job.ID, n)
			}
			for _, op := range job.Operations {
				if n := len(op.Machines); n < 1 || n > 3 {
					t.Errorf("Seed %d: operation %v has %d compatible machines", seed, op, n)
				}
				for _, m := range op.Machines {
					pt := op.Options[m].ProcessingTime
					if pt < 1 || pt > 10 || pt != math.Trunc(pt) {
						t.Errorf("Seed %d: operation %v has processing time %v on machine %d", seed, op, pt, m)
					}
				}
			}
		}
		for from, row := range p.Params.TransportTime {
			if row[from] != 0 {
				t.Errorf("Seed %d: expected zero transport time on the diagonal, got %v", seed, row[from])
			}
			for to, v := range row {
				if v != p.Params.TransportTime[to][from] {
					t.Errorf("Seed %d: expected a symmetric transport matrix at (%d, %d)", seed, from, to)
				}
			}
		}
	}
}

func TestGenerateInstanceIsReproducible(t *testing.T) {
	config := benchmarks.DefaultGeneratorConfig(4, 3)
	a, err := benchmarks.GenerateInstance(config, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	b, err := benchmarks.GenerateInstance(config, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if a.OperationCount() != b.OperationCount() {
		t.Fatalf("Expected %d operations, got %d", a.OperationCount(), b.OperationCount())
	}
	for k := range a.Operations {
		if diff := cmp.Diff(a.Operations[k].Options, b.Operations[k].Options); diff != "" {
			t.Errorf("Operation %d differs (-first +second):\n%s", k, diff)
		}
	}
	if diff := cmp.Diff(a.Params.TransportTime, b.Params.TransportTime); diff != "" {
		t.Errorf("Transport matrices differ (-first +second):\n%s", diff)
	}
}

func TestGenerateInstanceInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*benchmarks.GeneratorConfig)
	}{
		{name: "no machines", mutate: func(c *benchmarks.GeneratorConfig) { c.Machines = 0 }},
		{name: "inverted operation range", mutate: func(c *benchmarks.GeneratorConfig) { c.MinOperations, c.MaxOperations = 5, 2 }},
		{name: "no compatible machines", mutate: func(c *benchmarks.GeneratorConfig) { c.MinCompatible = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := benchmarks.DefaultGeneratorConfig(3, 3)
			tc.mutate(&config)
			if _, err := benchmarks.GenerateInstance(config, rand.New(rand.NewSource(1))); err == nil {
				t.Error("Expected an error, got nil")
			}
		})
	}
}

func TestReferenceFront(t *testing.T) {
	a := []framework.ObjectiveSpacePoint{{1, 5, 1}, {3, 3, 1}, {4, 4, 2}}
	b := []framework.ObjectiveSpacePoint{{2, 4, 1}, {1, 5, 1}, {5, 1, 1}}

	want := []framework.ObjectiveSpacePoint{{1, 5, 1}, {3, 3, 1}, {2, 4, 1}, {5, 1, 1}}
	if diff := cmp.Diff(want, benchmarks.ReferenceFront(a, b)); diff != "" {
		t.Errorf("Unexpected reference front (-want +got):\n%s", diff)
	}
}

func TestIGD(t *testing.T) {
	tests := []struct {
		name      string
		obtained  []framework.ObjectiveSpacePoint
		reference []framework.ObjectiveSpacePoint
		want      float64
	}{
		{
			name:      "identical",
			obtained:  []framework.ObjectiveSpacePoint{{1, 2, 3}, {2, 1, 3}},
			reference: []framework.ObjectiveSpacePoint{{1, 2, 3}, {2, 1, 3}},
			want:      0,
		},
		{
			name:      "single point",
			obtained:  []framework.ObjectiveSpacePoint{{3, 4, 0}},
			reference: []framework.ObjectiveSpacePoint{{0, 0, 0}},
			want:      5,
		},
		{
			name:      "nearest obtained point",
			obtained:  []framework.ObjectiveSpacePoint{{0, 0, 1}, {10, 10, 10}},
			reference: []framework.ObjectiveSpacePoint{{0, 0, 0}, {10, 10, 12}},
			want:      1.5,
		},
		{
			name:      "empty reference",
			obtained:  []framework.ObjectiveSpacePoint{{1, 1, 1}},
			reference: nil,
			want:      0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := benchmarks.IGD(tc.obtained, tc.reference)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}

	if got := benchmarks.IGD(nil, []framework.ObjectiveSpacePoint{{0, 0, 0}}); !math.IsInf(got, 1) {
		t.Errorf("Expected +Inf for an empty obtained front, got %v", got)
	}
}

func TestSpacing(t *testing.T) {
	tests := []struct {
		name  string
		front []framework.ObjectiveSpacePoint
		want  float64
	}{
		{
			name:  "single point",
			front: []framework.ObjectiveSpacePoint{{1, 1, 1}},
			want:  0,
		},
		{
			name:  "evenly spread",
			front: []framework.ObjectiveSpacePoint{{0, 2, 0}, {1, 1, 0}, {2, 0, 0}},
			want:  0,
		},
		{
			name:  "uneven",
			front: []framework.ObjectiveSpacePoint{{0, 0, 0}, {1, 0, 0}, {3, 0, 0}},
			want:  math.Sqrt(1.0 / 3.0),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := benchmarks.Spacing(tc.front)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestSuite(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	args := &v1alpha1.SchedulerArgs{
		PopulationSize: 8,
		Generations:    2,
		Seed:           ptr.To[uint64](11),
	}
	scheduler.SetDefaults_SchedulerArgs(args)
	args.VNS.MaxIterations = 5

	suite := benchmarks.NewTestSuite(args, 2)
	suite.AddInstance(benchmarks.Instance{Name: "tiny", Config: benchmarks.DefaultGeneratorConfig(3, 3), Seed: 5})

	reports, err := suite.Run(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("Expected 2 reports, got %d", len(reports))
	}
	for _, r := range reports {
		if r.Instance != "tiny" || r.FrontSize == 0 {
			t.Errorf("Unexpected report %+v", r)
		}
		if r.IGD < 0 || math.IsInf(r.IGD, 0) || math.IsNaN(r.IGD) {
			t.Errorf("Run %d: expected a finite IGD, got %v", r.Run, r.IGD)
		}
		if r.Spacing < 0 {
			t.Errorf("Run %d: expected non-negative spacing, got %v", r.Run, r.Spacing)
		}
	}
	if *args.Seed != 11 {
		t.Errorf("Expected the suite to leave the caller's seed untouched, got %d", *args.Seed)
	}
}
