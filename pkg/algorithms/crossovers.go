package algorithms

import (
	"golang.org/x/exp/rand"
	"k8s.io/apimachinery/pkg/util/sets"
)

// CrossoverFunc represents a crossover operation on integer gene arrays
type CrossoverFunc func(rng *rand.Rand, parent1, parent2 []int) (child1, child2 []int)

// UniformCrossover creates offspring by randomly selecting from each parent.
// It is used on machine genes, where every position is independent.
func UniformCrossover(rng *rand.Rand, p1, p2 []int) ([]int, []int) {
	child1 := make([]int, len(p1))
	child2 := make([]int, len(p2))

	for i := range p1 {
		if rng.Float64() < 0.5 {
			child1[i] = p1[i]
			child2[i] = p2[i]
		} else {
			child1[i] = p2[i]
			child2[i] = p1[i]
		}
	}

	return child1, child2
}

// JobOrderCrossover (JOX) recombines two sequence genes. Half of the distinct
// jobs (rounded down) keep their positions from one parent; the remaining
// positions are filled with the other jobs in the other parent's order. Both
// children keep every job's occurrence count.
func JobOrderCrossover(rng *rand.Rand, p1, p2 []int) ([]int, []int) {
	jobs := sets.New[int](p1...)
	if jobs.Len() == 0 {
		return append([]int(nil), p1...), append([]int(nil), p2...)
	}

	list := sets.List(jobs)
	rng.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
	subset := sets.New[int](list[:len(list)/2]...)

	return joxChild(p1, p2, subset), joxChild(p2, p1, subset)
}

// joxChild keeps keep's subset jobs in place and fills the gaps with fill's
// other jobs in order
func joxChild(keep, fill []int, subset sets.Set[int]) []int {
	child := make([]int, len(keep))
	next := 0
	for i, job := range keep {
		if subset.Has(job) {
			child[i] = job
			continue
		}
		for subset.Has(fill[next]) {
			next++
		}
		child[i] = fill[next]
		next++
	}
	return child
}
