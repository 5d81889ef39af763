// Package vns refines a decoded chromosome with a variable neighbourhood
// search over its critical path: a tabu-guided machine reassignment (N1)
// followed by three sequence moves inside critical blocks (N2, N3, N4).
package vns

import (
	"math"

	"golang.org/x/exp/rand"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"

	"github.com/greenfab/eedfjsp/pkg/decoder"
	"github.com/greenfab/eedfjsp/pkg/framework"
)

// tolerance for comparing block boundaries on the critical path
const eps = 1e-4

// Config bounds the search
type Config struct {
	// TabuSize is the number of recent N1 moves that stay forbidden
	TabuSize int
	// MaxIterations is the N1 iteration budget
	MaxIterations int
}

func DefaultConfig() Config {
	return Config{
		TabuSize:      10,
		MaxIterations: 30,
	}
}

// move is the tabu signature of an N1 reassignment
type move struct {
	job  int
	op   int
	gene int
}

// Search holds the tabu memory of one run. It is not safe for concurrent use.
type Search struct {
	problem *framework.Problem
	decoder *decoder.Decoder
	rng     *rand.Rand
	config  Config
	logger  klog.Logger

	tabu    []move
	tabuSet sets.Set[move]
}

// New creates a search decoding trials with d
func New(d *decoder.Decoder, rng *rand.Rand, config Config, logger klog.Logger) *Search {
	return &Search{
		problem: d.Problem(),
		decoder: d,
		rng:     rng,
		config:  config,
		logger:  logger.WithValues("component", "vns"),
		tabuSet: sets.New[move](),
	}
}

// CriticalPath backtracks from the operation that ends last to the start of
// the schedule. At each step it follows the machine predecessor when the
// current block starts right at its end, else the job predecessor when the
// block starts right when that operation's output arrives. A breakdown block
// ends the path. The path is returned in start-to-end order.
func (s *Search) CriticalPath(c *framework.Chromosome) []framework.Block {
	if c.Schedule == nil {
		return nil
	}
	cur, ok := c.Schedule.LastOperation()
	if !ok {
		return nil
	}

	path := []framework.Block{cur}
	for steps := 0; steps < s.problem.OperationCount() && cur.Start > eps; steps++ {
		mp, hasMachinePred := c.Schedule.MachinePredecessor(cur.Op.Flat)

		var jp framework.Block
		hasJobPred := false
		jobReady := 0.0
		if pred := s.problem.Predecessor(cur.Op); pred != nil {
			jp, hasJobPred = c.Schedule.Block(pred.Flat)
			jobReady = jp.End + s.problem.TransportTime(jp.Machine, cur.Machine)
		}

		var next framework.Block
		switch {
		case hasMachinePred && math.Abs(cur.Start-mp.End) <= eps:
			next = mp
		case hasJobPred && math.Abs(cur.Start-jobReady) <= eps:
			next = jp
		case hasMachinePred && cur.Start >= mp.End:
			next = mp
		case hasJobPred:
			next = jp
		default:
			next = framework.Block{Kind: framework.BreakdownBlock}
		}
		if !next.IsOperation() {
			break
		}
		path = append(path, next)
		cur = next
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// CriticalBlocks groups maximal runs of consecutive path entries on the same
// machine. Runs of a single operation are not blocks.
func CriticalBlocks(path []framework.Block) [][]framework.Block {
	var blocks [][]framework.Block
	for i := 0; i < len(path); {
		j := i + 1
		for j < len(path) && path[j].Machine == path[i].Machine {
			j++
		}
		if j-i >= 2 {
			blocks = append(blocks, path[i:j])
		}
		i = j
	}
	return blocks
}

// Run applies N1 and then N2, N3 and N4, each starting from the best
// chromosome found so far. The input is never modified and the result's
// makespan is never larger than the input's.
func (s *Search) Run(c *framework.Chromosome) *framework.Chromosome {
	best := s.N1(c)

	blocks := CriticalBlocks(s.CriticalPath(best))
	for _, neighbourhood := range []func(*framework.Chromosome, [][]framework.Block) *framework.Chromosome{s.N2, s.N3, s.N4} {
		next := neighbourhood(best, blocks)
		if next != best {
			best = next
			blocks = CriticalBlocks(s.CriticalPath(best))
		}
	}

	if best.Makespan < c.Makespan {
		s.logger.V(2).Info("Improved chromosome", "from", c.Makespan, "to", best.Makespan)
	}
	return best
}

// N1 reassigns critical operations to other machines. Each iteration picks a
// random critical operation with alternatives, decodes every reassignment and
// commits the best one that is not tabu, or that beats the best makespan seen
// (aspiration). The best chromosome seen over all iterations is returned.
func (s *Search) N1(c *framework.Chromosome) *framework.Chromosome {
	var candidates []*framework.Operation
	for _, b := range s.CriticalPath(c) {
		if len(b.Op.Machines) > 1 {
			candidates = append(candidates, b.Op)
		}
	}
	if len(candidates) == 0 {
		return c
	}

	best, current := c, c
	for it := 0; it < s.config.MaxIterations; it++ {
		op := candidates[s.rng.Intn(len(candidates))]

		var trialBest *framework.Chromosome
		var trialMove move
		for gene := range op.Machines {
			if gene == current.MachineGene[op.Flat] {
				continue
			}
			mv := move{job: op.Job, op: op.Index, gene: gene}
			trial := current.Clone()
			trial.MachineGene[op.Flat] = gene
			s.decoder.Decode(trial)

			if s.tabuSet.Has(mv) && trial.Makespan >= best.Makespan {
				continue
			}
			if trialBest == nil || trial.Makespan < trialBest.Makespan {
				trialBest, trialMove = trial, mv
			}
		}
		if trialBest == nil {
			break
		}

		current = trialBest
		s.remember(trialMove)
		s.logger.V(4).Info("N1 move", "operation", op, "gene", trialMove.gene, "makespan", current.Makespan)
		if current.Makespan < best.Makespan {
			best = current
		}
	}
	return best
}

// remember appends a move to the tabu list, evicting the oldest when full
func (s *Search) remember(mv move) {
	if s.config.TabuSize <= 0 {
		return
	}
	if s.tabuSet.Has(mv) {
		for i, m := range s.tabu {
			if m == mv {
				s.tabu = append(s.tabu[:i], s.tabu[i+1:]...)
				break
			}
		}
	}
	s.tabu = append(s.tabu, mv)
	s.tabuSet.Insert(mv)
	for len(s.tabu) > s.config.TabuSize {
		s.tabuSet.Delete(s.tabu[0])
		s.tabu = s.tabu[1:]
	}
}

// N2 swaps a random non-tail member of a random critical block with the
// block's tail
func (s *Search) N2(c *framework.Chromosome, blocks [][]framework.Block) *framework.Chromosome {
	if len(blocks) == 0 {
		return c
	}
	block := blocks[s.rng.Intn(len(blocks))]
	i := s.rng.Intn(len(block) - 1)
	return s.swap(c, block[i], block[len(block)-1])
}

// N3 swaps a random non-head member of a random critical block with the
// block's head
func (s *Search) N3(c *framework.Chromosome, blocks [][]framework.Block) *framework.Chromosome {
	if len(blocks) == 0 {
		return c
	}
	block := blocks[s.rng.Intn(len(blocks))]
	i := 1 + s.rng.Intn(len(block)-1)
	return s.swap(c, block[i], block[0])
}

// N4 swaps two distinct random members of a random critical block
func (s *Search) N4(c *framework.Chromosome, blocks [][]framework.Block) *framework.Chromosome {
	if len(blocks) == 0 {
		return c
	}
	block := blocks[s.rng.Intn(len(blocks))]
	i := s.rng.Intn(len(block))
	j := s.rng.Intn(len(block) - 1)
	if j >= i {
		j++
	}
	return s.swap(c, block[i], block[j])
}

// swap exchanges the sequence positions of two operations and keeps the
// result only if the makespan improves
func (s *Search) swap(c *framework.Chromosome, a, b framework.Block) *framework.Chromosome {
	trial := c.Clone()
	pa := framework.SequencePosition(trial.SequenceGene, a.Op)
	pb := framework.SequencePosition(trial.SequenceGene, b.Op)
	if pa < 0 || pb < 0 || pa == pb {
		return c
	}
	trial.SequenceGene[pa], trial.SequenceGene[pb] = trial.SequenceGene[pb], trial.SequenceGene[pa]
	s.decoder.Decode(trial)

	if trial.Makespan < c.Makespan {
		s.logger.V(4).Info("Block swap accepted", "first", a.Op, "second", b.Op, "makespan", trial.Makespan)
		return trial
	}
	return c
}
