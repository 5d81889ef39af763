package algorithms_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/greenfab/eedfjsp/pkg/algorithms"
	"github.com/greenfab/eedfjsp/pkg/framework"
)

func point(makespan, energy, workload float64) *framework.Chromosome {
	return &framework.Chromosome{Objectives: framework.Objectives{Makespan: makespan, Energy: energy, Workload: workload}}
}

func TestDominates(t *testing.T) {
	tests := []struct {
		name string
		a, b *framework.Chromosome
		want bool
	}{
		{name: "better everywhere", a: point(1, 1, 1), b: point(2, 2, 2), want: true},
		{name: "better in one, equal otherwise", a: point(1, 2, 2), b: point(2, 2, 2), want: true},
		{name: "equal", a: point(2, 2, 2), b: point(2, 2, 2), want: false},
		{name: "trade-off", a: point(1, 3, 2), b: point(2, 2, 2), want: false},
		{name: "worse", a: point(3, 3, 3), b: point(2, 2, 2), want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := algorithms.Dominates(tc.a, tc.b); got != tc.want {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
			if algorithms.Dominates(tc.a, tc.b) && algorithms.Dominates(tc.b, tc.a) {
				t.Error("Dominance must be asymmetric")
			}
			if algorithms.Dominates(tc.a, tc.a) {
				t.Error("An individual must not dominate itself")
			}
		})
	}
}

func TestNonDominatedSort(t *testing.T) {
	pop := []*framework.Chromosome{
		point(1, 5, 3), // 0: front 0
		point(5, 1, 3), // 1: front 0
		point(2, 6, 4), // 2: dominated by 0
		point(6, 2, 4), // 3: dominated by 1
		point(7, 7, 7), // 4: dominated by 2 and 3
		point(3, 3, 3), // 5: front 0
	}

	fronts := algorithms.NonDominatedSort(pop)
	if len(fronts) != 3 {
		t.Fatalf("Expected 3 fronts, got %d", len(fronts))
	}

	wantRanks := []int{0, 0, 1, 1, 2, 0}
	gotRanks := make([]int, len(pop))
	for i, c := range pop {
		gotRanks[i] = c.Rank
	}
	if diff := cmp.Diff(wantRanks, gotRanks); diff != "" {
		t.Errorf("Unexpected ranks (-want +got):\n%s", diff)
	}

	// fronts partition the population
	seen := map[*framework.Chromosome]int{}
	for _, front := range fronts {
		if len(front) == 0 {
			t.Error("Fronts must not be empty")
		}
		for _, c := range front {
			seen[c]++
		}
	}
	if len(seen) != len(pop) {
		t.Errorf("Expected %d distinct members across fronts, got %d", len(pop), len(seen))
	}
	for c, n := range seen {
		if n != 1 {
			t.Errorf("Individual %v appears in %d fronts", c.Value(), n)
		}
	}

	// front 0 is exactly the non-dominated set
	for _, a := range fronts[0] {
		for _, b := range pop {
			if algorithms.Dominates(b, a) {
				t.Errorf("Front 0 member %v is dominated by %v", a.Value(), b.Value())
			}
		}
	}
}

func TestNonDominatedSortEmpty(t *testing.T) {
	if fronts := algorithms.NonDominatedSort(nil); len(fronts) != 0 {
		t.Errorf("Expected no fronts, got %d", len(fronts))
	}
}

func TestCrowdingDistance(t *testing.T) {
	a, b, c, d := point(1, 4, 0), point(2, 3, 0), point(3, 2, 0), point(5, 1, 0)
	front := []*framework.Chromosome{c, a, d, b}
	algorithms.CrowdingDistance(front)

	if !math.IsInf(a.Distance, 1) || !math.IsInf(d.Distance, 1) {
		t.Errorf("Expected infinite boundary distances, got %v and %v", a.Distance, d.Distance)
	}
	// makespan range 4, energy range 3, workload range 0 (treated as 1, contributes 0)
	wantB := (3.0-1.0)/4 + (4.0-2.0)/3
	wantC := (5.0-2.0)/4 + (3.0-1.0)/3
	if math.Abs(b.Distance-wantB) > 1e-9 {
		t.Errorf("Expected distance %v, got %v", wantB, b.Distance)
	}
	if math.Abs(c.Distance-wantC) > 1e-9 {
		t.Errorf("Expected distance %v, got %v", wantC, c.Distance)
	}
}

func TestCrowdingDistanceSmallFronts(t *testing.T) {
	single := []*framework.Chromosome{point(1, 1, 1)}
	algorithms.CrowdingDistance(single)
	if !math.IsInf(single[0].Distance, 1) {
		t.Errorf("Expected infinite distance for a single member, got %v", single[0].Distance)
	}

	algorithms.CrowdingDistance(nil)
}

func TestSelectSurvivors(t *testing.T) {
	newPop := func() []*framework.Chromosome {
		return []*framework.Chromosome{
			point(1, 5, 3), point(5, 1, 3), point(3, 3, 3),
			point(2, 6, 4), point(6, 2, 4), point(4, 4, 4),
			point(7, 7, 7),
		}
	}

	tests := []struct {
		name string
		n    int
		want int
	}{
		{name: "whole fronts", n: 3, want: 3},
		{name: "truncated front", n: 4, want: 4},
		{name: "more than population", n: 20, want: 7},
		{name: "zero", n: 0, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			survivors := algorithms.SelectSurvivors(newPop(), tc.n)
			if len(survivors) != tc.want {
				t.Fatalf("Expected %d survivors, got %d", tc.want, len(survivors))
			}
			if tc.n >= 3 {
				for _, c := range survivors[:3] {
					if c.Rank != 0 {
						t.Errorf("Expected front 0 to survive first, got rank %d", c.Rank)
					}
				}
			}
		})
	}
}

func TestSelectSurvivorsPrefersIsolated(t *testing.T) {
	// front 0 is the whole population; the interior member closest to its
	// neighbours is dropped
	pop := []*framework.Chromosome{
		point(0, 10, 0),
		point(1, 9, 0),
		point(1.1, 8.9, 0),
		point(5, 5, 0),
		point(10, 0, 0),
	}
	survivors := algorithms.SelectSurvivors(pop, 4)
	kept := map[*framework.Chromosome]bool{}
	for _, c := range survivors {
		kept[c] = true
	}
	if !kept[pop[0]] || !kept[pop[4]] || !kept[pop[3]] {
		t.Error("Expected boundary and isolated members to survive")
	}
	if kept[pop[1]] && kept[pop[2]] {
		t.Error("Expected one of the two crowded members to be dropped")
	}
}

func TestGetParetoFront(t *testing.T) {
	pop := []*framework.Chromosome{point(2, 2, 2), point(1, 3, 2), point(3, 3, 3), point(2, 1, 3)}
	got := algorithms.GetParetoFront(pop)
	want := []*framework.Chromosome{pop[0], pop[1], pop[3]}
	if len(got) != len(want) {
		t.Fatalf("Expected %d front members, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected member %d to be %v, got %v", i, want[i].Value(), got[i].Value())
		}
	}
	if algorithms.GetParetoFront(nil) != nil {
		t.Error("Expected nil front for an empty population")
	}
}
