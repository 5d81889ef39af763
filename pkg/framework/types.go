package framework

import (
	"fmt"
	"sort"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// MachineOption holds the processing data of an operation on one compatible machine
type MachineOption struct {
	ProcessingTime   float64 // PT
	ProcessingEnergy float64 // AP, energy per unit of processing time
	SetupTime        float64 // ST
	SetupEnergy      float64 // AS, energy per unit of setup time
}

// Duration is the time the machine is occupied by the operation (setup + processing)
func (o MachineOption) Duration() float64 {
	return o.ProcessingTime + o.SetupTime
}

// Energy is the processing plus setup energy of the operation on this machine
func (o MachineOption) Energy() float64 {
	return o.ProcessingTime*o.ProcessingEnergy + o.SetupTime*o.SetupEnergy
}

// Operation is a single step of a job. Genes never reference machine ids directly,
// they index into Machines, which is kept sorted and de-duplicated.
type Operation struct {
	Job   int // owning job id
	Index int // position inside the job
	Flat  int // position in Problem.Operations

	Options  map[int]MachineOption
	Machines []int
}

// NewOperation creates an operation with its compatible machine table
func NewOperation(job, index int, options map[int]MachineOption) *Operation {
	op := &Operation{
		Job:     job,
		Index:   index,
		Options: options,
	}
	op.sortMachines()
	return op
}

func (o *Operation) sortMachines() {
	o.Machines = make([]int, 0, len(o.Options))
	for m := range o.Options {
		o.Machines = append(o.Machines, m)
	}
	sort.Ints(o.Machines)
}

// Machine resolves a machine gene into a machine id
func (o *Operation) Machine(gene int) int {
	return o.Machines[gene]
}

// Option resolves a machine gene into the processing data on that machine
func (o *Operation) Option(gene int) MachineOption {
	return o.Options[o.Machines[gene]]
}

// GeneOf returns the machine gene selecting the given machine id, or -1
func (o *Operation) GeneOf(machine int) int {
	i := sort.SearchInts(o.Machines, machine)
	if i < len(o.Machines) && o.Machines[i] == machine {
		return i
	}
	return -1
}

func (o *Operation) String() string {
	return fmt.Sprintf("O(%d,%d)", o.Job, o.Index)
}

// Job is an ordered sequence of operations
type Job struct {
	ID         int
	Operations []*Operation
}

// BreakdownWindow is a period during which a machine is being repaired
type BreakdownWindow struct {
	Start float64
	End   float64
}

func (w BreakdownWindow) Duration() float64 {
	return w.End - w.Start
}

// Machine contains the static and dynamic state of a machine
type Machine struct {
	ID         int
	IdleEnergy float64 // AI, energy per unit of idle time
	Age        float64 // v

	// Dynamic state, owned by the breakdown simulator
	BusyTime   float64 // T_k
	Repairs    int     // rho_k
	Broken     bool
	Breakdowns []BreakdownWindow
}

// BreakdownCoefficients parameterise breakdown probability, start and repair time
type BreakdownCoefficients struct {
	Lambda0 float64
	Lambda1 float64
	Lambda2 float64
	Lambda3 float64

	Alpha1 float64
	Alpha2 float64
	Alpha3 float64
	Alpha4 float64

	Beta0 float64
	Beta1 float64
	Beta2 float64
	Gamma float64
}

// DefaultBreakdownCoefficients returns the coefficients used by the reference shop
func DefaultBreakdownCoefficients() BreakdownCoefficients {
	return BreakdownCoefficients{
		Lambda0: 0.01, Lambda1: 0.5, Lambda2: 0.3, Lambda3: 0.2,
		Alpha1: 0.2, Alpha2: 0.3, Alpha3: 0.3, Alpha4: 0.2,
		Beta0: 5.0, Beta1: 0.5, Beta2: 0.5, Gamma: 0.1,
	}
}

// Parameters holds the global constants of the shop
type Parameters struct {
	CommonEnergy    float64 // AC, energy per unit of makespan
	TransportEnergy float64 // UT_k, energy per unit of transport time

	// TransportTime[from][to], square with side = machine count
	TransportTime [][]float64

	Breakdown BreakdownCoefficients
}

// DefaultParameters returns parameters with the reference energy rates and a
// zero transport matrix for the given machine count
func DefaultParameters(machines int) Parameters {
	tt := make([][]float64, machines)
	for i := range tt {
		tt[i] = make([]float64, machines)
	}
	return Parameters{
		CommonEnergy:    10.0,
		TransportEnergy: 2.0,
		TransportTime:   tt,
		Breakdown:       DefaultBreakdownCoefficients(),
	}
}

// Problem is the read-only arena shared by every chromosome of a run.
// Only machine dynamic state changes, and only through the breakdown simulator.
type Problem struct {
	Jobs     []*Job
	Machines []*Machine
	Params   Parameters

	// Operations is the flattened operation list, job by job
	Operations []*Operation
}

// NewProblem wires jobs, machines and parameters into a validated Problem.
// Operation job/index/flat fields and compatible machine lists are (re)computed.
func NewProblem(jobs []*Job, machines []*Machine, params Parameters) (*Problem, error) {
	p := &Problem{
		Jobs:     jobs,
		Machines: machines,
		Params:   params,
	}
	for _, job := range jobs {
		if job == nil {
			continue
		}
		for i, op := range job.Operations {
			if op == nil {
				continue
			}
			op.Job = job.ID
			op.Index = i
			op.Flat = len(p.Operations)
			op.sortMachines()
			p.Operations = append(p.Operations, op)
		}
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid problem: %w", err)
	}
	return p, nil
}

// Validate checks the structural preconditions of the problem
func (p *Problem) Validate() error {
	var errs field.ErrorList

	machinesPath := field.NewPath("machines")
	if len(p.Machines) == 0 {
		errs = append(errs, field.Required(machinesPath, "at least one machine is required"))
	}
	for i, m := range p.Machines {
		path := machinesPath.Index(i)
		if m == nil {
			errs = append(errs, field.Required(path, "machine must not be nil"))
			continue
		}
		if m.ID != i {
			errs = append(errs, field.Invalid(path.Child("id"), m.ID, fmt.Sprintf("machine ids must be dense and start at 0, expected %d", i)))
		}
		if m.IdleEnergy < 0 {
			errs = append(errs, field.Invalid(path.Child("idleEnergy"), m.IdleEnergy, "must be non-negative"))
		}
	}

	jobsPath := field.NewPath("jobs")
	for i, job := range p.Jobs {
		path := jobsPath.Index(i)
		if job == nil {
			errs = append(errs, field.Required(path, "job must not be nil"))
			continue
		}
		if job.ID != i {
			errs = append(errs, field.Invalid(path.Child("id"), job.ID, fmt.Sprintf("job ids must be dense and start at 0, expected %d", i)))
		}
		for j, op := range job.Operations {
			opPath := path.Child("operations").Index(j)
			if op == nil {
				errs = append(errs, field.Required(opPath, "operation must not be nil"))
				continue
			}
			if len(op.Options) == 0 {
				errs = append(errs, field.Required(opPath.Child("options"), "operation must list at least one compatible machine"))
			}
			for _, m := range op.Machines {
				optPath := opPath.Child("options").Key(fmt.Sprint(m))
				if m < 0 || m >= len(p.Machines) {
					errs = append(errs, field.Invalid(optPath, m, "unknown machine id"))
				}
				opt := op.Options[m]
				if opt.ProcessingTime < 0 || opt.SetupTime < 0 {
					errs = append(errs, field.Invalid(optPath, opt, "times must be non-negative"))
				}
				if opt.ProcessingEnergy < 0 || opt.SetupEnergy < 0 {
					errs = append(errs, field.Invalid(optPath, opt, "energy rates must be non-negative"))
				}
			}
		}
	}

	ttPath := field.NewPath("params", "transportTime")
	if len(p.Params.TransportTime) != len(p.Machines) {
		errs = append(errs, field.Invalid(ttPath, len(p.Params.TransportTime), fmt.Sprintf("must have %d rows", len(p.Machines))))
	}
	for i, row := range p.Params.TransportTime {
		if len(row) != len(p.Machines) {
			errs = append(errs, field.Invalid(ttPath.Index(i), len(row), fmt.Sprintf("must have %d columns", len(p.Machines))))
			continue
		}
		for j, v := range row {
			if v < 0 {
				errs = append(errs, field.Invalid(ttPath.Index(i).Index(j), v, "must be non-negative"))
			}
		}
	}
	if p.Params.CommonEnergy < 0 {
		errs = append(errs, field.Invalid(field.NewPath("params", "commonEnergy"), p.Params.CommonEnergy, "must be non-negative"))
	}
	if p.Params.TransportEnergy < 0 {
		errs = append(errs, field.Invalid(field.NewPath("params", "transportEnergy"), p.Params.TransportEnergy, "must be non-negative"))
	}

	return errs.ToAggregate()
}

// TransportTime returns the transfer time between two machines, 0 when the
// machine does not change or there is no previous machine (from < 0)
func (p *Problem) TransportTime(from, to int) float64 {
	if from < 0 || from == to {
		return 0
	}
	return p.Params.TransportTime[from][to]
}

// OperationCount returns the number of genes of a chromosome for this problem
func (p *Problem) OperationCount() int {
	return len(p.Operations)
}

// Operation returns the index-th operation of a job
func (p *Problem) Operation(job, index int) *Operation {
	return p.Jobs[job].Operations[index]
}

// Predecessor returns the previous operation of the same job, or nil
func (p *Problem) Predecessor(op *Operation) *Operation {
	if op.Index == 0 {
		return nil
	}
	return p.Jobs[op.Job].Operations[op.Index-1]
}

// BreakdownCount returns the number of breakdown windows recorded on all machines
func (p *Problem) BreakdownCount() int {
	n := 0
	for _, m := range p.Machines {
		n += len(m.Breakdowns)
	}
	return n
}
