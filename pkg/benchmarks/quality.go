package benchmarks

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/greenfab/eedfjsp/pkg/framework"
)

func pointDominates(a, b framework.ObjectiveSpacePoint) bool {
	better := false
	for i := range a {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			better = true
		}
	}
	return better
}

// ReferenceFront returns the non-dominated points of the union of fronts,
// without duplicates, in first-seen order
func ReferenceFront(fronts ...[]framework.ObjectiveSpacePoint) []framework.ObjectiveSpacePoint {
	var all []framework.ObjectiveSpacePoint
	for _, f := range fronts {
		all = append(all, f...)
	}

	var reference []framework.ObjectiveSpacePoint
	for i, p := range all {
		dominated := false
		for j, q := range all {
			if i != j && pointDominates(q, p) {
				dominated = true
				break
			}
		}
		if dominated {
			continue
		}
		duplicate := false
		for _, r := range reference {
			if floats.Equal(p, r) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			reference = append(reference, p)
		}
	}
	return reference
}

// IGD is the inverted generational distance: the mean Euclidean distance from
// each reference point to its nearest obtained point. It is +Inf when nothing
// was obtained and 0 for an empty reference.
func IGD(obtained, reference []framework.ObjectiveSpacePoint) float64 {
	if len(reference) == 0 {
		return 0
	}
	if len(obtained) == 0 {
		return math.Inf(1)
	}

	distances := make([]float64, len(reference))
	for i, r := range reference {
		nearest := math.Inf(1)
		for _, o := range obtained {
			nearest = math.Min(nearest, floats.Distance(r, o, 2))
		}
		distances[i] = nearest
	}
	return stat.Mean(distances, nil)
}

// Spacing is Schott's spacing metric over Manhattan nearest-neighbour
// distances. 0 means evenly spread; fronts with fewer than two points get 0.
func Spacing(front []framework.ObjectiveSpacePoint) float64 {
	n := len(front)
	if n < 2 {
		return 0
	}

	d := make([]float64, n)
	for i, p := range front {
		d[i] = math.Inf(1)
		for j, q := range front {
			if i != j {
				d[i] = math.Min(d[i], floats.Distance(p, q, 1))
			}
		}
	}
	mean := stat.Mean(d, nil)
	sum := 0.0
	for _, v := range d {
		sum += (mean - v) * (mean - v)
	}
	return math.Sqrt(sum / float64(n-1))
}
