// Package energy applies energy-efficiency post-processing to a Pareto front.
// Each strategy moves the makespan-defining operation to the compatible
// machine that minimises its own cost measure and keeps the result only when
// the strategy's objective improves.
package energy

import (
	"fmt"

	"k8s.io/klog/v2"

	"github.com/greenfab/eedfjsp/pkg/decoder"
	"github.com/greenfab/eedfjsp/pkg/framework"
)

// Strategy identifies one of the post-processing strategies
type Strategy int

const (
	// ES1 minimises processing plus setup time, judged on makespan
	ES1 Strategy = iota
	// ES2 minimises processing, setup and transport energy, judged on total energy
	ES2
	// ES3 minimises the resulting machine load, judged on critical workload
	ES3
)

func (s Strategy) String() string {
	switch s {
	case ES1:
		return "ES1"
	case ES2:
		return "ES2"
	case ES3:
		return "ES3"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Config holds the front partition thresholds, 0 <= ZZRate <= XXRate <= 1
type Config struct {
	ZZRate float64
	XXRate float64
}

func DefaultConfig() Config {
	return Config{ZZRate: 0.3, XXRate: 0.7}
}

// Improvement is a chromosome a strategy improved
type Improvement struct {
	Strategy Strategy
	Original *framework.Chromosome
	Improved *framework.Chromosome
}

// Improver runs the strategies against one problem
type Improver struct {
	problem *framework.Problem
	decoder *decoder.Decoder
	config  Config
	logger  klog.Logger
}

func New(d *decoder.Decoder, config Config, logger klog.Logger) *Improver {
	return &Improver{
		problem: d.Problem(),
		decoder: d,
		config:  config,
		logger:  logger.WithValues("component", "energy"),
	}
}

// StrategyFor returns the strategy applied to the i-th member of a front of size n
func (im *Improver) StrategyFor(i, n int) Strategy {
	zz := int(float64(n) * im.config.ZZRate)
	xx := int(float64(n) * im.config.XXRate)
	switch {
	case i < zz:
		return ES1
	case i < xx:
		return ES2
	default:
		return ES3
	}
}

// Apply runs the partition's strategy on every front member, in front order,
// and returns only the chromosomes that improved. The front is not modified.
func (im *Improver) Apply(front []*framework.Chromosome) []Improvement {
	var improvements []Improvement
	for i, c := range front {
		strategy := im.StrategyFor(i, len(front))
		improved, ok := im.Improve(strategy, c)
		if !ok {
			continue
		}
		improvements = append(improvements, Improvement{Strategy: strategy, Original: c, Improved: improved})
		im.logger.V(4).Info("Strategy improved chromosome", "strategy", strategy, "makespan", improved.Makespan, "energy", improved.Energy, "workload", improved.Workload)
	}
	if len(improvements) > 0 {
		im.logger.V(2).Info("Energy post-processing", "front", len(front), "improved", len(improvements))
	}
	return improvements
}

// Improve runs one strategy
func (im *Improver) Improve(s Strategy, c *framework.Chromosome) (*framework.Chromosome, bool) {
	switch s {
	case ES1:
		return im.ES1(c)
	case ES2:
		return im.ES2(c)
	default:
		return im.ES3(c)
	}
}

// ES1 moves the last operation to its fastest machine
func (im *Improver) ES1(c *framework.Chromosome) (*framework.Chromosome, bool) {
	return im.reassign(c,
		func(op *framework.Operation, machine int, opt framework.MachineOption) float64 {
			return opt.Duration()
		},
		func(trial *framework.Chromosome) bool { return trial.Makespan < c.Makespan },
	)
}

// ES2 moves the last operation to the machine with the cheapest processing,
// setup and transport energy
func (im *Improver) ES2(c *framework.Chromosome) (*framework.Chromosome, bool) {
	p := im.problem
	return im.reassign(c,
		func(op *framework.Operation, machine int, opt framework.MachineOption) float64 {
			cost := opt.Energy()
			if pred := p.Predecessor(op); pred != nil {
				from := pred.Machine(c.MachineGene[pred.Flat])
				cost += p.TransportTime(from, machine) * p.Params.TransportEnergy
			}
			return cost
		},
		func(trial *framework.Chromosome) bool { return trial.Energy < c.Energy },
	)
}

// ES3 moves the last operation to the machine that ends up with the smallest
// operation load
func (im *Improver) ES3(c *framework.Chromosome) (*framework.Chromosome, bool) {
	return im.reassign(c,
		func(op *framework.Operation, machine int, opt framework.MachineOption) float64 {
			load := c.Schedule.MachineLoad[machine]
			if b, ok := c.Schedule.Block(op.Flat); ok && b.Machine == machine {
				load -= b.Duration()
			}
			return load + opt.Duration()
		},
		func(trial *framework.Chromosome) bool { return trial.Workload < c.Workload },
	)
}

// reassign moves the last operation to its minimum-cost machine (first
// minimum in machine order) and keeps the trial when better accepts it
func (im *Improver) reassign(
	c *framework.Chromosome,
	cost func(op *framework.Operation, machine int, opt framework.MachineOption) float64,
	better func(trial *framework.Chromosome) bool,
) (*framework.Chromosome, bool) {
	if c.Schedule == nil {
		return c, false
	}
	last, ok := c.Schedule.LastOperation()
	if !ok {
		return c, false
	}
	op := last.Op

	bestGene := -1
	bestCost := 0.0
	for gene, machine := range op.Machines {
		v := cost(op, machine, op.Options[machine])
		if bestGene < 0 || v < bestCost {
			bestGene, bestCost = gene, v
		}
	}
	if bestGene == c.MachineGene[op.Flat] {
		return c, false
	}

	trial := c.Clone()
	trial.MachineGene[op.Flat] = bestGene
	im.decoder.Decode(trial)
	if !better(trial) {
		return c, false
	}
	return trial, true
}
