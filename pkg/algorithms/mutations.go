package algorithms

import (
	"golang.org/x/exp/rand"

	"github.com/greenfab/eedfjsp/pkg/framework"
)

// MutateMachines reassigns each machine gene with probability pm to a
// different compatible machine. Operations with a single machine are skipped.
func MutateMachines(c *framework.Chromosome, p *framework.Problem, pm float64, rng *rand.Rand) {
	for k, gene := range c.MachineGene {
		if rng.Float64() >= pm {
			continue
		}
		n := len(p.Operations[k].Machines)
		if n <= 1 {
			continue
		}
		// draw from the n-1 other indices
		next := rng.Intn(n - 1)
		if next >= gene {
			next++
		}
		c.MachineGene[k] = next
	}
}

// MutateSequence swaps two distinct sequence positions with probability pm
func MutateSequence(c *framework.Chromosome, pm float64, rng *rand.Rand) {
	n := len(c.SequenceGene)
	if n < 2 || rng.Float64() >= pm {
		return
	}
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	c.SequenceGene[i], c.SequenceGene[j] = c.SequenceGene[j], c.SequenceGene[i]
}
