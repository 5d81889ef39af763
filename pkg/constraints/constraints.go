package constraints

import (
	"github.com/greenfab/eedfjsp/pkg/framework"
)

// Constraint reports whether a chromosome respects a representation invariant
type Constraint func(c *framework.Chromosome) bool

// GeneLengthConstraint checks both gene arrays have one entry per operation
func GeneLengthConstraint(p *framework.Problem) Constraint {
	return func(c *framework.Chromosome) bool {
		return len(c.MachineGene) == p.OperationCount() && len(c.SequenceGene) == p.OperationCount()
	}
}

// MachineGeneConstraint checks every machine gene indexes its operation's compatible machines
func MachineGeneConstraint(p *framework.Problem) Constraint {
	return func(c *framework.Chromosome) bool {
		if len(c.MachineGene) != p.OperationCount() {
			return false
		}
		for k, gene := range c.MachineGene {
			if gene < 0 || gene >= len(p.Operations[k].Machines) {
				return false // Invalid machine index
			}
		}
		return true
	}
}

// GeneCountConstraint checks the sequence gene holds each job id exactly as
// many times as the job has operations
func GeneCountConstraint(p *framework.Problem) Constraint {
	return func(c *framework.Chromosome) bool {
		counts := make([]int, len(p.Jobs))
		for _, job := range c.SequenceGene {
			if job < 0 || job >= len(p.Jobs) {
				return false // Unknown job
			}
			counts[job]++
		}
		for j, job := range p.Jobs {
			if counts[j] != len(job.Operations) {
				return false
			}
		}
		return true
	}
}

// Feasible combines every representation constraint of the problem
func Feasible(p *framework.Problem) Constraint {
	return CombineConstraints(
		GeneLengthConstraint(p),
		MachineGeneConstraint(p),
		GeneCountConstraint(p),
	)
}

// CombineConstraints combines multiple constraints into one
func CombineConstraints(constraints ...Constraint) Constraint {
	return func(c *framework.Chromosome) bool {
		for _, constraint := range constraints {
			if !constraint(c) {
				return false
			}
		}
		return true
	}
}

// CountInfeasible returns how many chromosomes of the population violate the constraint
func CountInfeasible(population []*framework.Chromosome, constraint Constraint) int {
	n := 0
	for _, c := range population {
		if !constraint(c) {
			n++
		}
	}
	return n
}
