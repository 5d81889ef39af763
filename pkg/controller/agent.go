package controller

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"k8s.io/klog/v2"

	"github.com/greenfab/eedfjsp/pkg/framework"
)

const (
	numStates  = 21
	numActions = 10
)

// AgentConfig parameterises the tabular agent
type AgentConfig struct {
	// Generations is the budget over which exploration decays
	Generations int

	LearningRate float64 // alpha
	Discount     float64 // gamma
	EpsilonStart float64
	EpsilonEnd   float64
}

func DefaultAgentConfig(generations int) AgentConfig {
	return AgentConfig{
		Generations:  generations,
		LearningRate: 0.1,
		Discount:     0.9,
		EpsilonStart: 0.9,
		EpsilonEnd:   0.05,
	}
}

// stats summarises makespans of a population
type stats struct {
	mean, std, best float64
}

// Agent learns Pc and Pm with two tabular value functions over population
// quality states. Actions index the rate grids 0.4+0.05i and 0.01+0.02i.
type Agent struct {
	config AgentConfig
	rng    *rand.Rand
	logger klog.Logger

	qc [numStates][numActions]float64
	qm [numStates][numActions]float64

	baseline    stats
	hasBaseline bool

	// last decision, pending feedback
	state   State
	acted   bool
	actionC int
	actionM int

	lastGeneration int

	// actions already drawn for the next state under SARSA
	planned      bool
	plannedState State
	plannedC     int
	plannedM     int

	pcNoise distuv.Uniform
	pmNoise distuv.Uniform
}

var _ Controller = &Agent{}

func NewAgent(config AgentConfig, rng *rand.Rand, logger klog.Logger) *Agent {
	return &Agent{
		config:  config,
		rng:     rng,
		logger:  logger.WithValues("component", "controller"),
		pcNoise: distuv.Uniform{Min: 0, Max: 0.05, Src: rng},
		pmNoise: distuv.Uniform{Min: 0, Max: 0.02, Src: rng},
	}
}

func summarize(population []*framework.Chromosome) (stats, bool) {
	if len(population) == 0 {
		return stats{}, false
	}
	makespans := make([]float64, len(population))
	for i, c := range population {
		makespans[i] = c.Makespan
	}
	mean, std := stat.PopMeanStdDev(makespans, nil)
	return stats{mean: mean, std: std, best: floats.Min(makespans)}, true
}

func ratio(v, base float64) float64 {
	if base == 0 {
		return v
	}
	return v / base
}

// Observe buckets the population relative to the first observed population.
// The observation that sets the baseline is state 0.
func (a *Agent) Observe(population []*framework.Chromosome, generation int) State {
	s, ok := summarize(population)
	if !ok {
		return 0
	}
	if !a.hasBaseline || generation == 0 {
		a.baseline = s
		a.hasBaseline = true
		a.state = 0
		return a.state
	}
	a.state = a.bucket(s)
	return a.state
}

func (a *Agent) bucket(s stats) State {
	f := 0.35*ratio(s.mean, a.baseline.mean) + 0.35*ratio(s.std, a.baseline.std) + 0.3*ratio(s.best, a.baseline.best)
	return State(min(max(int(f/0.05), 0), numStates-1))
}

func (a *Agent) reward(s stats) float64 {
	if 0.5*ratio(s.mean, a.baseline.mean)+0.5*ratio(s.std, a.baseline.std) <= 1 {
		return 1
	}
	return -1
}

// Epsilon returns the exploration rate at a generation
func (a *Agent) Epsilon(generation int) float64 {
	if a.config.Generations <= 0 {
		return a.config.EpsilonEnd
	}
	progress := min(float64(generation)/float64(a.config.Generations), 1)
	return a.config.EpsilonStart - (a.config.EpsilonStart-a.config.EpsilonEnd)*progress
}

// SelectRates picks an action per table and perturbs the rates slightly
func (a *Agent) SelectRates(state State, generation int) (float64, float64) {
	a.lastGeneration = generation
	if a.planned && a.plannedState == state {
		a.actionC, a.actionM = a.plannedC, a.plannedM
	} else {
		eps := a.Epsilon(generation)
		a.actionC = a.policy(&a.qc[state], eps)
		a.actionM = a.policy(&a.qm[state], eps)
	}
	a.planned = false
	a.state = state
	a.acted = true

	pc := min(0.4+0.05*float64(a.actionC)+a.pcNoise.Rand(), 1)
	pm := min(0.01+0.02*float64(a.actionM)+a.pmNoise.Rand(), 1)
	return pc, pm
}

// policy is epsilon-greedy with random tie breaking among the best actions
func (a *Agent) policy(q *[numActions]float64, eps float64) int {
	if a.rng.Float64() <= eps {
		return a.rng.Intn(numActions)
	}
	best := []int{0}
	for i := 1; i < numActions; i++ {
		switch {
		case q[i] > q[best[0]]:
			best = best[:0]
			best = append(best, i)
		case q[i] == q[best[0]]:
			best = append(best, i)
		}
	}
	return best[a.rng.Intn(len(best))]
}

// Learn updates both tables with the reward of the population produced by
// the last SelectRates call
func (a *Agent) Learn(next []*framework.Chromosome, rule UpdateRule) {
	if !a.acted || !a.hasBaseline {
		return
	}
	s, ok := summarize(next)
	if !ok {
		return
	}
	nextState := a.bucket(s)
	r := a.reward(s)

	var targetC, targetM float64
	switch rule {
	case SARSA:
		eps := a.Epsilon(a.lastGeneration + 1)
		a.plannedC = a.policy(&a.qc[nextState], eps)
		a.plannedM = a.policy(&a.qm[nextState], eps)
		a.plannedState = nextState
		a.planned = true
		targetC = a.qc[nextState][a.plannedC]
		targetM = a.qm[nextState][a.plannedM]
	default:
		targetC = floats.Max(a.qc[nextState][:])
		targetM = floats.Max(a.qm[nextState][:])
	}

	alpha, gamma := a.config.LearningRate, a.config.Discount
	qc := &a.qc[a.state][a.actionC]
	*qc += alpha * (r + gamma*targetC - *qc)
	qm := &a.qm[a.state][a.actionM]
	*qm += alpha * (r + gamma*targetM - *qm)
	a.acted = false

	a.logger.V(4).Info("Controller update", "rule", rule, "state", a.state, "nextState", nextState, "reward", r)
}

// Value returns the learned values for a state, for inspection
func (a *Agent) Value(state State) (pc, pm [numActions]float64) {
	return a.qc[state], a.qm[state]
}
