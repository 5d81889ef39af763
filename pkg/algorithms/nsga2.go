package algorithms

import (
	"math"
	"sort"

	"golang.org/x/exp/rand"

	"github.com/greenfab/eedfjsp/pkg/framework"
)

const (
	Name = "NSGA-II"
)

// objective returns the m-th objective of a chromosome (makespan, energy, workload)
func objective(c *framework.Chromosome, m int) float64 {
	switch m {
	case 0:
		return c.Makespan
	case 1:
		return c.Energy
	default:
		return c.Workload
	}
}

// Dominates checks if individual a dominates individual b: no worse in every
// objective and strictly better in at least one (all objectives are minimised)
func Dominates(a, b *framework.Chromosome) bool {
	better := false
	for m := 0; m < framework.NumObjectives; m++ {
		av, bv := objective(a, m), objective(b, m)
		if av > bv {
			return false
		}
		if av < bv {
			better = true
		}
	}
	return better
}

// NonDominatedSort performs non-dominated sorting on the population and sets
// each individual's Rank. The returned fronts are never empty.
func NonDominatedSort(population []*framework.Chromosome) [][]*framework.Chromosome {
	if len(population) == 0 {
		return nil
	}

	var fronts [][]*framework.Chromosome
	dominated := make([][]int, len(population))
	domCount := make([]int, len(population))

	// Calculate domination for each individual
	for i := 0; i < len(population); i++ {
		for j := 0; j < len(population); j++ {
			if i == j {
				continue
			}
			if Dominates(population[i], population[j]) {
				dominated[i] = append(dominated[i], j)
			} else if Dominates(population[j], population[i]) {
				domCount[i]++
			}
		}
	}

	// Find first front
	currentFront := []*framework.Chromosome{}
	currentFrontIndices := []int{}
	for i := 0; i < len(population); i++ {
		if domCount[i] == 0 {
			population[i].Rank = 0
			currentFront = append(currentFront, population[i])
			currentFrontIndices = append(currentFrontIndices, i)
		}
	}

	// Peel subsequent fronts
	frontIndex := 0
	for len(currentFront) > 0 {
		fronts = append(fronts, currentFront)
		nextFront := []*framework.Chromosome{}
		nextFrontIndices := []int{}
		for _, idx := range currentFrontIndices {
			for _, dominatedIdx := range dominated[idx] {
				domCount[dominatedIdx]--
				if domCount[dominatedIdx] == 0 {
					population[dominatedIdx].Rank = frontIndex + 1
					nextFront = append(nextFront, population[dominatedIdx])
					nextFrontIndices = append(nextFrontIndices, dominatedIdx)
				}
			}
		}
		frontIndex++
		currentFront = nextFront
		currentFrontIndices = nextFrontIndices
	}

	return fronts
}

// CrowdingDistance calculates crowding distance for individuals in a front.
// The front is reordered in place.
func CrowdingDistance(front []*framework.Chromosome) {
	if len(front) == 0 {
		return
	}
	for i := range front {
		front[i].Distance = 0
	}

	for m := 0; m < framework.NumObjectives; m++ {
		// Sort by each objective
		sort.SliceStable(front, func(i, j int) bool {
			return objective(front[i], m) < objective(front[j], m)
		})

		// Set boundary points to infinity
		front[0].Distance = math.Inf(1)
		front[len(front)-1].Distance = math.Inf(1)

		objectiveRange := objective(front[len(front)-1], m) - objective(front[0], m)
		if objectiveRange == 0 {
			objectiveRange = 1
		}

		// Calculate distance for intermediate points
		for i := 1; i < len(front)-1; i++ {
			front[i].Distance += (objective(front[i+1], m) - objective(front[i-1], m)) / objectiveRange
		}
	}
}

// RankPopulation sorts the population into fronts and computes the crowding
// distance of every front, so tournaments can use fresh annotations
func RankPopulation(population []*framework.Chromosome) [][]*framework.Chromosome {
	fronts := NonDominatedSort(population)
	for _, front := range fronts {
		CrowdingDistance(front)
	}
	return fronts
}

// SelectSurvivors keeps the best n individuals: whole fronts while they fit,
// then the most isolated members of the first front that overflows
func SelectSurvivors(population []*framework.Chromosome, n int) []*framework.Chromosome {
	if n <= 0 {
		return []*framework.Chromosome{}
	}

	fronts := NonDominatedSort(population)
	survivors := make([]*framework.Chromosome, 0, min(n, len(population)))

	for _, front := range fronts {
		CrowdingDistance(front)
		if len(survivors)+len(front) <= n {
			survivors = append(survivors, front...)
			continue
		}

		// If needed, add remaining individuals based on crowding distance
		sort.SliceStable(front, func(i, j int) bool {
			return front[i].Distance > front[j].Distance
		})
		survivors = append(survivors, front[:n-len(survivors)]...)
		break
	}

	return survivors
}

// TournamentSelect runs a binary tournament: lower rank wins, then larger
// crowding distance, then a fair coin
func TournamentSelect(population []*framework.Chromosome, rng *rand.Rand) *framework.Chromosome {
	a := population[rng.Intn(len(population))]
	b := population[rng.Intn(len(population))]

	switch {
	case a.Rank < b.Rank:
		return a
	case b.Rank < a.Rank:
		return b
	case a.Distance > b.Distance:
		return a
	case b.Distance > a.Distance:
		return b
	case rng.Float64() < 0.5:
		return a
	default:
		return b
	}
}
