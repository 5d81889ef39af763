package algorithms

import (
	"golang.org/x/exp/rand"

	"github.com/greenfab/eedfjsp/pkg/framework"
)

// Operators are the crossovers applied to each gene of a recombined pair
type Operators struct {
	Machine  CrossoverFunc
	Sequence CrossoverFunc
}

// DefaultOperators recombines machine genes uniformly and sequence genes with JOX
func DefaultOperators() Operators {
	return Operators{
		Machine:  UniformCrossover,
		Sequence: JobOrderCrossover,
	}
}

// Offspring breeds children with the default operators
func Offspring(population []*framework.Chromosome, p *framework.Problem, pc, pm float64, rng *rand.Rand) []*framework.Chromosome {
	return OffspringWith(DefaultOperators(), population, p, pc, pm, rng)
}

// OffspringWith creates as many children as there are parents. Parents are
// picked by binary tournament, so the population must be ranked. With
// probability pc a pair is recombined with ops, otherwise both parents are
// cloned; both children are always mutated. Children are returned undecoded.
// The sequence operator must keep every job's occurrence count.
func OffspringWith(ops Operators, population []*framework.Chromosome, p *framework.Problem, pc, pm float64, rng *rand.Rand) []*framework.Chromosome {
	if len(population) == 0 {
		return nil
	}

	pool := make([]*framework.Chromosome, len(population))
	for i := range pool {
		pool[i] = TournamentSelect(population, rng)
	}

	offspring := make([]*framework.Chromosome, 0, len(pool))
	for i := 0; i+1 < len(pool); i += 2 {
		child1, child2 := pool[i].Clone(), pool[i+1].Clone()
		if rng.Float64() < pc {
			child1.MachineGene, child2.MachineGene = ops.Machine(rng, pool[i].MachineGene, pool[i+1].MachineGene)
			child1.SequenceGene, child2.SequenceGene = ops.Sequence(rng, pool[i].SequenceGene, pool[i+1].SequenceGene)
		}
		offspring = append(offspring, mutate(child1, p, pm, rng), mutate(child2, p, pm, rng))
	}

	// an odd pool leaves one parent without a partner
	if len(pool)%2 == 1 {
		offspring = append(offspring, mutate(pool[len(pool)-1].Clone(), p, pm, rng))
	}

	return offspring
}

func mutate(c *framework.Chromosome, p *framework.Problem, pm float64, rng *rand.Rand) *framework.Chromosome {
	MutateMachines(c, p, pm, rng)
	MutateSequence(c, pm, rng)
	c.Invalidate()
	return c
}
