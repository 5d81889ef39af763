// Package warmstart seeds the initial population. Next to uniformly random
// chromosomes it builds greedy ones (shortest processing time, longest
// remaining work first, least loaded machine) so the search starts from a
// spread of reasonable schedules rather than from noise alone.
package warmstart

import (
	"fmt"
	"sort"

	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"github.com/greenfab/eedfjsp/pkg/algorithms"
	"github.com/greenfab/eedfjsp/pkg/framework"
)

// Strategy is a chromosome construction rule
type Strategy int

const (
	Random Strategy = iota
	MinProcessingTime
	MaxRemainingTime
	MinWorkload
)

func (s Strategy) String() string {
	switch s {
	case Random:
		return "random"
	case MinProcessingTime:
		return "min-processing-time"
	case MaxRemainingTime:
		return "max-remaining-time"
	case MinWorkload:
		return "min-workload"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Rates gives the share of the population built by each strategy. Rates are
// normalised; all zero means equal shares.
type Rates struct {
	Random            float64
	MinProcessingTime float64
	MaxRemainingTime  float64
	MinWorkload       float64
}

func DefaultRates() Rates {
	return Rates{Random: 0.25, MinProcessingTime: 0.25, MaxRemainingTime: 0.25, MinWorkload: 0.25}
}

// Counts splits popSize between the strategies: the first three get
// int(popSize*rate), the last one the remainder
func (r Rates) Counts(popSize int) [4]int {
	rates := [4]float64{r.Random, r.MinProcessingTime, r.MaxRemainingTime, r.MinWorkload}
	sum := 0.0
	for _, v := range rates {
		sum += v
	}
	if sum <= 0 {
		rates = [4]float64{1, 1, 1, 1}
		sum = 4
	}

	var counts [4]int
	assigned := 0
	for i := 0; i < 3; i++ {
		counts[i] = int(float64(popSize) * rates[i] / sum)
		assigned += counts[i]
	}
	counts[3] = max(popSize-assigned, 0)
	return counts
}

// Initializer builds initial populations for a problem
type Initializer struct {
	problem *framework.Problem
	rates   Rates
	rng     *rand.Rand
	logger  klog.Logger
}

func New(problem *framework.Problem, rates Rates, rng *rand.Rand, logger klog.Logger) *Initializer {
	return &Initializer{
		problem: problem,
		rates:   rates,
		rng:     rng,
		logger:  logger.WithValues("component", "warmstart"),
	}
}

// GenerateInitialPopulation creates popSize undecoded chromosomes
func (g *Initializer) GenerateInitialPopulation(popSize int) []*framework.Chromosome {
	counts := g.rates.Counts(popSize)
	population := make([]*framework.Chromosome, 0, popSize)
	for s, n := range counts {
		for i := 0; i < n; i++ {
			population = append(population, g.Construct(Strategy(s)))
		}
	}

	g.logger.V(2).Info("Generated initial population",
		"size", len(population), "unique", algorithms.CountUnique(population),
		"random", counts[Random], "minProcessingTime", counts[MinProcessingTime],
		"maxRemainingTime", counts[MaxRemainingTime], "minWorkload", counts[MinWorkload])
	return population
}

// Construct builds one chromosome with the given strategy
func (g *Initializer) Construct(s Strategy) *framework.Chromosome {
	c := framework.NewChromosome(g.problem)
	switch s {
	case Random:
		g.randomMachines(c)
		g.shuffle(c)
	case MinProcessingTime:
		g.fastestMachines(c)
		g.shuffle(c)
	case MaxRemainingTime:
		g.randomMachines(c)
		g.longestJobsFirst(c)
	case MinWorkload:
		g.leastLoadedMachines(c)
		g.shuffle(c)
	}
	return c
}

func (g *Initializer) shuffle(c *framework.Chromosome) {
	g.rng.Shuffle(len(c.SequenceGene), func(i, j int) {
		c.SequenceGene[i], c.SequenceGene[j] = c.SequenceGene[j], c.SequenceGene[i]
	})
}

func (g *Initializer) randomMachines(c *framework.Chromosome) {
	for k, op := range g.problem.Operations {
		c.MachineGene[k] = g.rng.Intn(len(op.Machines))
	}
}

// fastestMachines picks the first machine with the smallest processing time
func (g *Initializer) fastestMachines(c *framework.Chromosome) {
	for k, op := range g.problem.Operations {
		best := 0
		for gene := 1; gene < len(op.Machines); gene++ {
			if op.Option(gene).ProcessingTime < op.Option(best).ProcessingTime {
				best = gene
			}
		}
		c.MachineGene[k] = best
	}
}

// longestJobsFirst lists the jobs by descending total average processing
// time, each job's operations back to back
func (g *Initializer) longestJobsFirst(c *framework.Chromosome) {
	type jobWork struct {
		id   int
		work float64
	}
	jobs := make([]jobWork, len(g.problem.Jobs))
	for i, job := range g.problem.Jobs {
		jobs[i] = jobWork{id: job.ID}
		for _, op := range job.Operations {
			sum := 0.0
			for _, m := range op.Machines {
				sum += op.Options[m].ProcessingTime
			}
			if len(op.Machines) > 0 {
				jobs[i].work += sum / float64(len(op.Machines))
			}
		}
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].work > jobs[j].work
	})

	c.SequenceGene = c.SequenceGene[:0]
	for _, j := range jobs {
		for range g.problem.Jobs[j.id].Operations {
			c.SequenceGene = append(c.SequenceGene, j.id)
		}
	}
}

// leastLoadedMachines assigns operations in flat order to the machine whose
// load plus the processing time is smallest
func (g *Initializer) leastLoadedMachines(c *framework.Chromosome) {
	load := make([]float64, len(g.problem.Machines))
	for k, op := range g.problem.Operations {
		best := 0
		bestLoad := 0.0
		for gene, m := range op.Machines {
			v := load[m] + op.Options[m].ProcessingTime
			if gene == 0 || v < bestLoad {
				best, bestLoad = gene, v
			}
		}
		c.MachineGene[k] = best
		load[op.Machines[best]] = bestLoad
	}
}
