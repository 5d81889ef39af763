package algorithms

import (
	"github.com/greenfab/eedfjsp/pkg/framework"
)

// GetParetoFront extracts the Pareto front (first non-dominated front) from a population
func GetParetoFront(population []*framework.Chromosome) []*framework.Chromosome {
	if len(population) == 0 {
		return nil
	}

	fronts := NonDominatedSort(population)
	if len(fronts) == 0 {
		return nil
	}
	return fronts[0]
}

// FrontPoints returns the objective values of every member of the front
func FrontPoints(front []*framework.Chromosome) []framework.ObjectiveSpacePoint {
	points := make([]framework.ObjectiveSpacePoint, len(front))
	for i, c := range front {
		points[i] = c.Value()
	}
	return points
}

// BestByMakespan returns the chromosome with the smallest makespan, the first
// one in population order on ties
func BestByMakespan(population []*framework.Chromosome) *framework.Chromosome {
	var best *framework.Chromosome
	for _, c := range population {
		if best == nil || c.Makespan < best.Makespan {
			best = c
		}
	}
	return best
}

// CountUnique returns the number of distinct genotypes in the population
func CountUnique(population []*framework.Chromosome) int {
	seen := make(map[string]struct{}, len(population))
	for _, c := range population {
		seen[c.Key()] = struct{}{}
	}
	return len(seen)
}
