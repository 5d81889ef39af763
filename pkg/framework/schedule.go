package framework

// BlockKind distinguishes operation blocks from breakdown blocks on a timeline
type BlockKind int

const (
	OperationBlock BlockKind = iota
	BreakdownBlock
)

func (k BlockKind) String() string {
	switch k {
	case OperationBlock:
		return "operation"
	case BreakdownBlock:
		return "breakdown"
	default:
		return "unknown"
	}
}

// Block is a time interval on a machine timeline. Op is nil for breakdown blocks.
type Block struct {
	Kind    BlockKind
	Op      *Operation
	Machine int
	Start   float64
	End     float64
}

func (b Block) Duration() float64 {
	return b.End - b.Start
}

func (b Block) IsOperation() bool {
	return b.Kind == OperationBlock
}

// EnergyBreakdown splits the total energy consumption by source
type EnergyBreakdown struct {
	Processing float64
	Setup      float64
	Transport  float64
	Idle       float64
	Common     float64
}

// Total returns the total energy consumption
func (e EnergyBreakdown) Total() float64 {
	return e.Processing + e.Setup + e.Transport + e.Idle + e.Common
}

type blockRef struct {
	machine int
	pos     int
}

// Schedule is the decoded timetable of a chromosome
type Schedule struct {
	// Timelines[m] holds machine m's blocks sorted by start time
	Timelines [][]Block
	// MachineEnd[m] is the end of the last block (operation or breakdown) on m
	MachineEnd []float64
	// MachineLoad[m] is the summed duration of operation blocks on m
	MachineLoad []float64
	// BreakdownTime[m] is the summed duration of breakdown blocks on m
	BreakdownTime []float64

	Energy EnergyBreakdown

	locations []blockRef
}

// NewSchedule indexes sorted machine timelines for operation lookups and
// computes per-machine end times and loads
func NewSchedule(timelines [][]Block, operationCount int) *Schedule {
	s := &Schedule{
		Timelines:     timelines,
		MachineEnd:    make([]float64, len(timelines)),
		MachineLoad:   make([]float64, len(timelines)),
		BreakdownTime: make([]float64, len(timelines)),
		locations:     make([]blockRef, operationCount),
	}
	for i := range s.locations {
		s.locations[i] = blockRef{machine: -1, pos: -1}
	}
	for m, timeline := range timelines {
		for pos, b := range timeline {
			if b.End > s.MachineEnd[m] {
				s.MachineEnd[m] = b.End
			}
			if b.IsOperation() {
				s.MachineLoad[m] += b.Duration()
				s.locations[b.Op.Flat] = blockRef{machine: m, pos: pos}
			} else {
				s.BreakdownTime[m] += b.Duration()
			}
		}
	}
	return s
}

// Block returns the block of the operation with the given flat index
func (s *Schedule) Block(flat int) (Block, bool) {
	if flat < 0 || flat >= len(s.locations) {
		return Block{}, false
	}
	ref := s.locations[flat]
	if ref.machine < 0 {
		return Block{}, false
	}
	return s.Timelines[ref.machine][ref.pos], true
}

// MachinePredecessor returns the block right before the operation's block on its machine
func (s *Schedule) MachinePredecessor(flat int) (Block, bool) {
	if flat < 0 || flat >= len(s.locations) {
		return Block{}, false
	}
	ref := s.locations[flat]
	if ref.machine < 0 || ref.pos == 0 {
		return Block{}, false
	}
	return s.Timelines[ref.machine][ref.pos-1], true
}

// LastOperation returns the operation block with the latest end time. Among
// equal ends the block on the lowest machine id wins.
func (s *Schedule) LastOperation() (Block, bool) {
	var last Block
	found := false
	for _, timeline := range s.Timelines {
		for i := len(timeline) - 1; i >= 0; i-- {
			if !timeline[i].IsOperation() {
				continue
			}
			if !found || timeline[i].End > last.End {
				last = timeline[i]
				found = true
			}
			break
		}
	}
	return last, found
}

// Makespan is the latest end over all machines
func (s *Schedule) Makespan() float64 {
	makespan := 0.0
	for _, end := range s.MachineEnd {
		if end > makespan {
			makespan = end
		}
	}
	return makespan
}

// CriticalWorkload is the largest machine load (operation blocks only)
func (s *Schedule) CriticalWorkload() float64 {
	workload := 0.0
	for _, load := range s.MachineLoad {
		if load > workload {
			workload = load
		}
	}
	return workload
}
