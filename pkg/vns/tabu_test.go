package vns

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"github.com/greenfab/eedfjsp/pkg/decoder"
	"github.com/greenfab/eedfjsp/pkg/framework"
)

// singleOperation has one operation that runs in 5, 3 or 4 on machines 0, 1, 2
func singleOperation(t *testing.T) *framework.Problem {
	t.Helper()
	op := framework.NewOperation(0, 0, map[int]framework.MachineOption{
		0: {ProcessingTime: 5, ProcessingEnergy: 1},
		1: {ProcessingTime: 3, ProcessingEnergy: 1},
		2: {ProcessingTime: 4, ProcessingEnergy: 1},
	})
	machines := []*framework.Machine{{ID: 0, IdleEnergy: 1}, {ID: 1, IdleEnergy: 1}, {ID: 2, IdleEnergy: 1}}
	p, err := framework.NewProblem([]*framework.Job{{ID: 0, Operations: []*framework.Operation{op}}}, machines, framework.DefaultParameters(3))
	if err != nil {
		t.Fatalf("Failed to build problem: %v", err)
	}
	return p
}

func newTabuSearch(t *testing.T, config Config) (*Search, *framework.Chromosome) {
	t.Helper()
	p := singleOperation(t)
	d := decoder.New(p)
	c := framework.NewChromosome(p)
	d.Decode(c)
	if c.Makespan != 5 {
		t.Fatalf("Expected initial makespan 5, got %v", c.Makespan)
	}
	return New(d, rand.New(rand.NewSource(1)), config, klog.Background()), c
}

func genes(moves []move) []int {
	out := make([]int, len(moves))
	for i, m := range moves {
		out[i] = m.gene
	}
	return out
}

func TestRememberEvictsOldest(t *testing.T) {
	tests := []struct {
		name      string
		tabuSize  int
		remember  []int
		wantList  []int
		wantTabu  []int
		wantAllow []int
	}{
		{
			name:      "fifo eviction",
			tabuSize:  2,
			remember:  []int{0, 1, 2},
			wantList:  []int{1, 2},
			wantTabu:  []int{1, 2},
			wantAllow: []int{0},
		},
		{
			name:      "size one keeps the latest",
			tabuSize:  1,
			remember:  []int{1, 2},
			wantList:  []int{2},
			wantTabu:  []int{2},
			wantAllow: []int{1},
		},
		{
			name:      "repeated move moves to the back",
			tabuSize:  3,
			remember:  []int{0, 1, 0},
			wantList:  []int{1, 0},
			wantTabu:  []int{0, 1},
			wantAllow: []int{2},
		},
		{
			name:      "disabled",
			tabuSize:  0,
			remember:  []int{0, 1},
			wantList:  []int{},
			wantAllow: []int{0, 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTabuSearch(t, Config{TabuSize: tc.tabuSize, MaxIterations: 1})
			for _, g := range tc.remember {
				s.remember(move{job: 0, op: 0, gene: g})
			}
			if diff := cmp.Diff(tc.wantList, genes(s.tabu)); diff != "" {
				t.Errorf("Unexpected tabu list (-want +got):\n%s", diff)
			}
			for _, g := range tc.wantTabu {
				if !s.tabuSet.Has(move{job: 0, op: 0, gene: g}) {
					t.Errorf("Expected gene %d to be tabu", g)
				}
			}
			for _, g := range tc.wantAllow {
				if s.tabuSet.Has(move{job: 0, op: 0, gene: g}) {
					t.Errorf("Expected gene %d not to be tabu", g)
				}
			}
		})
	}
}

func TestN1RefusesTabuMove(t *testing.T) {
	s, c := newTabuSearch(t, Config{TabuSize: 2, MaxIterations: 3})

	// 0 -> 1 (3), 1 -> 2 (4); from 2 the move back to 1 ties the best
	// makespan while tabu, so 0 is committed instead
	got := s.N1(c)
	if got.Makespan != 3 || got.MachineGene[0] != 1 {
		t.Errorf("Expected best gene 1 with makespan 3, got gene %d with makespan %v", got.MachineGene[0], got.Makespan)
	}
	if diff := cmp.Diff([]int{2, 0}, genes(s.tabu)); diff != "" {
		t.Errorf("Unexpected tabu list (-want +got):\n%s", diff)
	}
}

func TestN1EvictedMoveIsAllowedAgain(t *testing.T) {
	s, c := newTabuSearch(t, Config{TabuSize: 1, MaxIterations: 3})

	// with room for one move, 1 is evicted by 2 and can be taken again
	s.N1(c)
	if diff := cmp.Diff([]int{1}, genes(s.tabu)); diff != "" {
		t.Errorf("Unexpected tabu list (-want +got):\n%s", diff)
	}
}

func TestN1AspirationOverridesTabu(t *testing.T) {
	s, c := newTabuSearch(t, Config{TabuSize: 2, MaxIterations: 1})
	s.remember(move{job: 0, op: 0, gene: 1})

	got := s.N1(c)
	if got.Makespan != 3 || got.MachineGene[0] != 1 {
		t.Errorf("Expected the tabu move to gene 1 to be committed, got gene %d with makespan %v", got.MachineGene[0], got.Makespan)
	}
	if diff := cmp.Diff([]int{1}, genes(s.tabu)); diff != "" {
		t.Errorf("Unexpected tabu list (-want +got):\n%s", diff)
	}
}
