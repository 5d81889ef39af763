// Package decoder turns chromosomes into timetables using insertion-based
// scheduling. Breakdown windows recorded on the machines are placed on the
// timelines first, so operations are routed around them.
package decoder

import (
	"errors"
	"fmt"
	"slices"

	"github.com/greenfab/eedfjsp/pkg/framework"
)

// ErrInvariantViolation is the panic value (wrapped) raised when a chromosome
// breaks the representation invariants. Operators never produce such genes.
var ErrInvariantViolation = errors.New("chromosome invariant violation")

// Decoder decodes chromosomes against a problem
type Decoder struct {
	problem *framework.Problem
}

// New creates a decoder for the problem
func New(problem *framework.Problem) *Decoder {
	return &Decoder{problem: problem}
}

// Problem returns the problem the decoder schedules against
func (d *Decoder) Problem() *framework.Problem {
	return d.problem
}

// Decode schedules the chromosome and overwrites its objectives and schedule.
// It is deterministic for a given chromosome and machine breakdown history.
func (d *Decoder) Decode(c *framework.Chromosome) {
	p := d.problem
	if len(c.MachineGene) != p.OperationCount() || len(c.SequenceGene) != p.OperationCount() {
		panic(fmt.Errorf("%w: chromosome has %d machine genes and %d sequence genes, problem has %d operations",
			ErrInvariantViolation, len(c.MachineGene), len(c.SequenceGene), p.OperationCount()))
	}

	timelines := make([][]framework.Block, len(p.Machines))
	machineEnd := make([]float64, len(p.Machines))
	for m, machine := range p.Machines {
		for _, w := range machine.Breakdowns {
			b := framework.Block{Kind: framework.BreakdownBlock, Machine: m, Start: w.Start, End: w.End}
			pos, _ := slices.BinarySearchFunc(timelines[m], b.Start, func(e framework.Block, t float64) int {
				if e.Start <= t {
					return -1
				}
				return 1
			})
			timelines[m] = slices.Insert(timelines[m], pos, b)
			machineEnd[m] = max(machineEnd[m], w.End)
		}
	}

	jobEnd := make([]float64, len(p.Jobs))
	jobMachine := make([]int, len(p.Jobs))
	nextOp := make([]int, len(p.Jobs))
	for i := range jobMachine {
		jobMachine[i] = -1
	}

	var energy framework.EnergyBreakdown
	for _, jobID := range c.SequenceGene {
		if jobID < 0 || jobID >= len(p.Jobs) {
			panic(fmt.Errorf("%w: sequence gene names unknown job %d", ErrInvariantViolation, jobID))
		}
		job := p.Jobs[jobID]
		if nextOp[jobID] >= len(job.Operations) {
			panic(fmt.Errorf("%w: job %d occurs more than its %d operations", ErrInvariantViolation, jobID, len(job.Operations)))
		}
		op := job.Operations[nextOp[jobID]]
		nextOp[jobID]++

		gene := c.MachineGene[op.Flat]
		if gene < 0 || gene >= len(op.Machines) {
			panic(fmt.Errorf("%w: machine gene %d out of range for %v with %d compatible machines",
				ErrInvariantViolation, gene, op, len(op.Machines)))
		}
		m := op.Machines[gene]
		opt := op.Options[m]

		transport := p.TransportTime(jobMachine[jobID], m)
		energy.Transport += transport * p.Params.TransportEnergy
		energy.Processing += opt.ProcessingEnergy * opt.ProcessingTime
		energy.Setup += opt.SetupEnergy * opt.SetupTime

		arrival := jobEnd[jobID] + transport
		duration := opt.Duration()
		start, pos := firstFit(timelines[m], arrival, duration, machineEnd[m])
		end := start + duration

		timelines[m] = slices.Insert(timelines[m], pos, framework.Block{
			Kind:    framework.OperationBlock,
			Op:      op,
			Machine: m,
			Start:   start,
			End:     end,
		})
		machineEnd[m] = max(machineEnd[m], end)
		jobEnd[jobID] = end
		jobMachine[jobID] = m
	}

	s := framework.NewSchedule(timelines, p.OperationCount())
	makespan := s.Makespan()
	for m, machine := range p.Machines {
		idle := s.MachineEnd[m] - s.MachineLoad[m] - s.BreakdownTime[m]
		if idle > 0 {
			energy.Idle += idle * machine.IdleEnergy
		}
	}
	energy.Common = makespan * p.Params.CommonEnergy
	s.Energy = energy

	c.Schedule = s
	c.Objectives = framework.Objectives{
		Makespan: makespan,
		Energy:   energy.Total(),
		Workload: s.CriticalWorkload(),
	}
}

// DecodeAll decodes every chromosome of the population
func (d *Decoder) DecodeAll(population []*framework.Chromosome) {
	for _, c := range population {
		d.Decode(c)
	}
}

// firstFit finds the earliest gap on a sorted timeline that fits the operation
// after its arrival. It returns the start time and the insertion position.
func firstFit(timeline []framework.Block, arrival, duration, machineEnd float64) (float64, int) {
	prevEnd := 0.0
	for i, b := range timeline {
		start := max(prevEnd, arrival)
		if start+duration <= b.Start {
			return start, i
		}
		prevEnd = max(prevEnd, b.End)
	}
	return max(machineEnd, arrival), len(timeline)
}
