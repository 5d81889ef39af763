// Package scheduler runs the evolutionary search: each generation advances the
// breakdown simulator, breeds offspring with controller supplied rates, refines
// the Pareto front with VNS and the energy strategies, and keeps the best N.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
	"k8s.io/apimachinery/pkg/runtime"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/greenfab/eedfjsp/pkg/algorithms"
	"github.com/greenfab/eedfjsp/pkg/api/v1alpha1"
	"github.com/greenfab/eedfjsp/pkg/breakdown"
	"github.com/greenfab/eedfjsp/pkg/constraints"
	"github.com/greenfab/eedfjsp/pkg/controller"
	"github.com/greenfab/eedfjsp/pkg/decoder"
	"github.com/greenfab/eedfjsp/pkg/energy"
	"github.com/greenfab/eedfjsp/pkg/framework"
	"github.com/greenfab/eedfjsp/pkg/metrics"
	"github.com/greenfab/eedfjsp/pkg/vns"
	"github.com/greenfab/eedfjsp/pkg/warmstart"
)

const Name = "EEDFJSP"

// GenerationStatus summarises a completed generation. Front and Best are
// copies owned by the receiver.
type GenerationStatus struct {
	Generation         int
	Pc                 float64
	Pm                 float64
	Breakdowns         int
	VNSImprovements    int
	EnergyImprovements int
	Front              []*framework.Chromosome
	Best               *framework.Chromosome
}

// GenerationHook is called after every generation, including generation 0
type GenerationHook func(GenerationStatus)

// Result is the outcome of a run
type Result struct {
	RunID string
	// Front is the first front of the final population
	Front []*framework.Chromosome
	// Best is the best chromosome by makespan seen during the run
	Best        *framework.Chromosome
	Generations int
	// Breakdowns is the number of breakdown windows added during the run
	Breakdowns int
}

type Option func(*Scheduler)

// WithController replaces the controller selected by the arguments
func WithController(c controller.Controller) Option {
	return func(s *Scheduler) {
		s.controller = c
	}
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(s *Scheduler) {
		s.metrics = r
	}
}

func WithGenerationHook(h GenerationHook) Option {
	return func(s *Scheduler) {
		s.hooks = append(s.hooks, h)
	}
}

func WithRunID(id string) Option {
	return func(s *Scheduler) {
		s.runID = id
	}
}

// Scheduler owns the state of one run. Run must not be called concurrently;
// Front and Best may be called from any goroutine.
type Scheduler struct {
	logger  klog.Logger
	args    *v1alpha1.SchedulerArgs
	problem *framework.Problem
	runID   string

	rng         *rand.Rand
	decoder     *decoder.Decoder
	simulator   *breakdown.Simulator
	search      *vns.Search
	improver    *energy.Improver
	initializer *warmstart.Initializer
	controller  controller.Controller
	feasible    constraints.Constraint
	metrics     *metrics.Recorder
	hooks       []GenerationHook

	population []*framework.Chromosome

	mu    sync.RWMutex
	front []*framework.Chromosome
	best  *framework.Chromosome
}

// New builds a scheduler for problem. args must be a defaulted *v1alpha1.SchedulerArgs.
func New(ctx context.Context, args runtime.Object, problem *framework.Problem, opts ...Option) (*Scheduler, error) {
	schedulerArgs, ok := args.(*v1alpha1.SchedulerArgs)
	if !ok {
		return nil, fmt.Errorf("want args to be of type SchedulerArgs, got %T", args)
	}
	var errs []error
	if err := ValidateSchedulerArgs(schedulerArgs); err != nil {
		errs = append(errs, fmt.Errorf("invalid scheduler args: %w", err))
	}
	if problem == nil {
		errs = append(errs, fmt.Errorf("problem is required"))
	} else if err := problem.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("invalid problem: %w", err))
	}
	if err := utilerrors.NewAggregate(errs); err != nil {
		return nil, err
	}

	s := &Scheduler{
		args:     schedulerArgs,
		problem:  problem,
		feasible: constraints.Feasible(problem),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	s.logger = klog.FromContext(ctx).WithValues("scheduler", Name, "runID", s.runID)

	seed := ptr.Deref(schedulerArgs.Seed, uint64(time.Now().UnixNano()))
	s.rng = rand.New(rand.NewSource(seed))

	s.decoder = decoder.New(problem)
	s.simulator = breakdown.New(problem, s.rng, s.logger)
	s.search = vns.New(s.decoder, s.rng, vns.Config{
		TabuSize:      int(schedulerArgs.VNS.TabuSize),
		MaxIterations: int(schedulerArgs.VNS.MaxIterations),
	}, s.logger)
	s.improver = energy.New(s.decoder, energy.Config{
		ZZRate: ptr.Deref(schedulerArgs.EnergyStrategies.ZZRate, 0.3),
		XXRate: ptr.Deref(schedulerArgs.EnergyStrategies.XXRate, 0.7),
	}, s.logger)

	initArgs := schedulerArgs.Initialization
	s.initializer = warmstart.New(problem, warmstart.Rates{
		Random:            ptr.Deref(initArgs.RandomRate, 0),
		MinProcessingTime: ptr.Deref(initArgs.MinProcessingTimeRate, 0),
		MaxRemainingTime:  ptr.Deref(initArgs.MaxRemainingTimeRate, 0),
		MinWorkload:       ptr.Deref(initArgs.MinWorkloadRate, 0),
	}, s.rng, s.logger)

	if s.controller == nil {
		switch schedulerArgs.Controller {
		case v1alpha1.ControllerFixed:
			s.controller = &controller.Fixed{
				Pc: ptr.Deref(schedulerArgs.CrossoverProbability, 0.8),
				Pm: ptr.Deref(schedulerArgs.MutationProbability, 0.1),
			}
		default:
			s.controller = controller.NewAgent(controller.DefaultAgentConfig(int(schedulerArgs.Generations)), s.rng, s.logger)
		}
	}

	s.logger.V(2).Info("Scheduler created",
		"jobs", len(problem.Jobs), "machines", len(problem.Machines), "operations", problem.OperationCount(),
		"populationSize", schedulerArgs.PopulationSize, "generations", schedulerArgs.Generations,
		"controller", schedulerArgs.Controller, "seed", seed)
	return s, nil
}

func (s *Scheduler) RunID() string {
	return s.runID
}

// Front returns a copy of the current first front
func (s *Scheduler) Front() []*framework.Chromosome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*framework.Chromosome(nil), s.front...)
}

// Best returns the best chromosome by makespan seen so far, or nil before Run
func (s *Scheduler) Best() *framework.Chromosome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.best
}

// Run evolves the population for the configured number of generations. When
// ctx is cancelled between generations the partial result is returned along
// with the context error.
func (s *Scheduler) Run(ctx context.Context) (*Result, error) {
	popSize := int(s.args.PopulationSize)
	generations := int(s.args.Generations)
	sarsaFrom := ptr.Deref(s.args.SARSAFraction, 0.8) * float64(generations)
	breakdownsBefore := s.problem.BreakdownCount()

	s.population = s.initializer.GenerateInitialPopulation(popSize)
	if n := constraints.CountInfeasible(s.population, s.feasible); n > 0 {
		return nil, fmt.Errorf("initial population has %d infeasible chromosomes", n)
	}
	s.decoder.DecodeAll(s.population)
	s.publish(algorithms.RankPopulation(s.population))
	state := s.controller.Observe(s.population, 0)
	s.notify(GenerationStatus{Generation: 0})

	completed := 0
	for g := 1; g <= generations; g++ {
		if err := ctx.Err(); err != nil {
			s.logger.Info("Run cancelled", "generation", completed, "err", err)
			return s.result(completed, breakdownsBefore), err
		}

		status, next, err := s.generation(g, state, sarsaFrom)
		if err != nil {
			return s.result(completed, breakdownsBefore), fmt.Errorf("generation %d: %w", g, err)
		}
		state = next
		completed = g
		s.notify(status)
	}

	result := s.result(completed, breakdownsBefore)
	s.logger.Info("Run finished",
		"generations", completed, "frontSize", len(result.Front),
		"bestMakespan", result.Best.Makespan, "bestEnergy", result.Best.Energy, "bestWorkload", result.Best.Workload,
		"breakdowns", result.Breakdowns)
	return result, nil
}

func (s *Scheduler) generation(g int, state controller.State, sarsaFrom float64) (GenerationStatus, controller.State, error) {
	status := GenerationStatus{Generation: g}

	if ptr.Deref(s.args.Breakdowns.Enabled, true) {
		current := algorithms.BestByMakespan(s.population)
		events := s.simulator.Step(current.Makespan, current.Schedule.MachineLoad)
		if len(events) > 0 {
			status.Breakdowns = len(events)
			s.metrics.AddBreakdowns(len(events))
			s.decoder.DecodeAll(s.population)
			algorithms.RankPopulation(s.population)
		}
	}

	status.Pc, status.Pm = s.controller.SelectRates(state, g)
	offspring := algorithms.Offspring(s.population, s.problem, status.Pc, status.Pm, s.rng)
	if n := constraints.CountInfeasible(offspring, s.feasible); n > 0 {
		return status, state, fmt.Errorf("%d offspring violate the chromosome invariants", n)
	}
	s.decoder.DecodeAll(offspring)

	rule := controller.SARSA
	if float64(g) < sarsaFrom {
		rule = controller.QLearning
	}
	s.controller.Learn(offspring, rule)
	next := s.controller.Observe(offspring, g)

	combined := make([]*framework.Chromosome, 0, 2*len(s.population))
	combined = append(combined, s.population...)
	combined = append(combined, offspring...)

	if ptr.Deref(s.args.VNS.Enabled, true) {
		front := algorithms.GetParetoFront(combined)
		candidates := min(int(s.args.VNS.Candidates), len(front))
		for _, c := range front[:candidates] {
			improved := s.search.Run(c)
			if improved.Makespan < c.Makespan {
				combined = append(combined, improved)
				status.VNSImprovements++
			}
		}
		s.metrics.AddVNSImprovements(status.VNSImprovements)
	}

	if ptr.Deref(s.args.EnergyStrategies.Enabled, true) {
		front := algorithms.GetParetoFront(combined)
		for _, imp := range s.improver.Apply(front) {
			combined = append(combined, imp.Improved)
			status.EnergyImprovements++
			s.metrics.AddEnergyImprovement(imp.Strategy.String())
		}
	}

	s.population = algorithms.SelectSurvivors(combined, int(s.args.PopulationSize))
	front := s.publish(algorithms.RankPopulation(s.population))

	best := s.Best()
	status.Front = front
	status.Best = best
	s.metrics.ObserveGeneration(metrics.Generation{
		Index:     g,
		Makespan:  best.Makespan,
		Energy:    best.Energy,
		Workload:  best.Workload,
		FrontSize: len(front),
		Pc:        status.Pc,
		Pm:        status.Pm,
	})
	s.logger.Info("Generation complete",
		"generation", g, "pc", status.Pc, "pm", status.Pm, "rule", rule,
		"frontSize", len(front), "bestMakespan", best.Makespan,
		"breakdowns", status.Breakdowns, "vnsImprovements", status.VNSImprovements,
		"energyImprovements", status.EnergyImprovements)
	return status, next, nil
}

// publish stores copies of the first front and of the best-ever chromosome.
// Population members are re-decoded after breakdowns, so readers only ever
// see copies.
func (s *Scheduler) publish(fronts [][]*framework.Chromosome) []*framework.Chromosome {
	var front []*framework.Chromosome
	if len(fronts) > 0 {
		front = make([]*framework.Chromosome, len(fronts[0]))
		for i, c := range fronts[0] {
			front[i] = c.Clone()
		}
	}
	candidate := algorithms.BestByMakespan(s.population)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.front = front
	if candidate != nil && (s.best == nil || candidate.Makespan < s.best.Makespan) {
		s.best = candidate.Clone()
	}
	return front
}

func (s *Scheduler) notify(status GenerationStatus) {
	if status.Front == nil {
		status.Front = s.Front()
		status.Best = s.Best()
	}
	for _, h := range s.hooks {
		h(status)
	}
}

func (s *Scheduler) result(generations, breakdownsBefore int) *Result {
	return &Result{
		RunID:       s.runID,
		Front:       s.Front(),
		Best:        s.Best(),
		Generations: generations,
		Breakdowns:  s.problem.BreakdownCount() - breakdownsBefore,
	}
}
