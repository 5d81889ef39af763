package framework

import (
	"fmt"
)

// ObjectiveSpacePoint is a point in the objective space (makespan, energy, workload)
type ObjectiveSpacePoint []float64

// NumObjectives is the number of minimised objectives
const NumObjectives = 3

// Objectives holds the three minimised objective values of a decoded chromosome
type Objectives struct {
	Makespan float64 // MCT
	Energy   float64 // TEC
	Workload float64 // WCM, busiest machine's operation time
}

// Point returns the objectives as a point, in the fixed order makespan, energy, workload
func (o Objectives) Point() ObjectiveSpacePoint {
	return ObjectiveSpacePoint{o.Makespan, o.Energy, o.Workload}
}

// Chromosome is a candidate solution. It owns only its two gene arrays and the
// phenotype derived from them; operations and machines live in the shared Problem.
type Chromosome struct {
	// MachineGene[k] indexes Operations[k].Machines
	MachineGene []int
	// SequenceGene lists job ids; the i-th occurrence of job J is J's i-th operation
	SequenceGene []int

	Objectives
	// Schedule is nil until the chromosome is decoded, and is never mutated afterwards
	Schedule *Schedule

	// Rank and Distance are set by the selection engine and valid within one sort
	Rank     int
	Distance float64
}

// NewChromosome returns a chromosome for the problem with every machine gene at
// index 0 and the jobs' operations listed job after job
func NewChromosome(p *Problem) *Chromosome {
	c := &Chromosome{
		MachineGene:  make([]int, p.OperationCount()),
		SequenceGene: make([]int, 0, p.OperationCount()),
	}
	for _, job := range p.Jobs {
		for range job.Operations {
			c.SequenceGene = append(c.SequenceGene, job.ID)
		}
	}
	return c
}

// Clone returns an independent copy. Gene arrays are copied; the schedule is
// shared since decoding always replaces it rather than editing it.
func (c *Chromosome) Clone() *Chromosome {
	clone := *c
	clone.MachineGene = append([]int(nil), c.MachineGene...)
	clone.SequenceGene = append([]int(nil), c.SequenceGene...)
	return &clone
}

// Decoded reports whether the objectives and schedule reflect the current genes
func (c *Chromosome) Decoded() bool {
	return c.Schedule != nil
}

// Invalidate drops the phenotype after the genes were edited
func (c *Chromosome) Invalidate() {
	c.Schedule = nil
	c.Objectives = Objectives{}
	c.Rank = 0
	c.Distance = 0
}

// Value returns the objective values of the chromosome
func (c *Chromosome) Value() ObjectiveSpacePoint {
	return c.Objectives.Point()
}

// Key identifies the genotype, used to count unique chromosomes
func (c *Chromosome) Key() string {
	return fmt.Sprintf("%v|%v", c.MachineGene, c.SequenceGene)
}

// SequencePosition returns the index in seq of the occurrence that denotes op,
// or -1 when the sequence has fewer occurrences of op's job
func SequencePosition(seq []int, op *Operation) int {
	count := 0
	for i, job := range seq {
		if job != op.Job {
			continue
		}
		if count == op.Index {
			return i
		}
		count++
	}
	return -1
}
