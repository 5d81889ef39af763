/*
Copyright 2024 The EEDFJSP Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ControllerType names the source of the per-generation crossover and mutation rates
type ControllerType string

const (
	// ControllerQLearning learns the rates, switching from Q-learning to SARSA updates late in the run
	ControllerQLearning ControllerType = "QLearning"
	// ControllerFixed uses CrossoverProbability and MutationProbability for every generation
	ControllerFixed ControllerType = "Fixed"
)

// SchedulerArgs configures a scheduling run
type SchedulerArgs struct {
	metav1.TypeMeta `json:",inline"`

	// PopulationSize is the number of chromosomes kept between generations
	PopulationSize int32 `json:"populationSize,omitempty" env:"POPULATION_SIZE"`

	// Generations is the number of generations to evolve
	Generations int32 `json:"generations,omitempty" env:"GENERATIONS"`

	// Seed makes a run reproducible. A time based seed is used when unset.
	Seed *uint64 `json:"seed,omitempty" env:"SEED"`

	// Controller selects how crossover and mutation probabilities are chosen
	Controller ControllerType `json:"controller,omitempty" env:"CONTROLLER"`

	// CrossoverProbability and MutationProbability are used by the Fixed controller
	CrossoverProbability *float64 `json:"crossoverProbability,omitempty" env:"CROSSOVER_PROBABILITY"`
	MutationProbability  *float64 `json:"mutationProbability,omitempty" env:"MUTATION_PROBABILITY"`

	// SARSAFraction is the share of the generation budget after which the
	// learning controller switches to SARSA updates
	SARSAFraction *float64 `json:"sarsaFraction,omitempty" env:"SARSA_FRACTION"`

	VNS              VNSArgs            `json:"vns,omitempty" envPrefix:"VNS_"`
	EnergyStrategies EnergyStrategyArgs `json:"energyStrategies,omitempty" envPrefix:"ES_"`
	Initialization   InitializationArgs `json:"initialization,omitempty" envPrefix:"INIT_"`
	Breakdowns       BreakdownArgs      `json:"breakdowns,omitempty" envPrefix:"BREAKDOWNS_"`
}

// VNSArgs configures the neighbourhood search run on the first Pareto front
type VNSArgs struct {
	Enabled *bool `json:"enabled,omitempty" env:"ENABLED"`

	// Candidates is the number of front members refined per generation
	Candidates int32 `json:"candidates,omitempty" env:"CANDIDATES"`

	TabuSize      int32 `json:"tabuSize,omitempty" env:"TABU_SIZE"`
	MaxIterations int32 `json:"maxIterations,omitempty" env:"MAX_ITERATIONS"`
}

// EnergyStrategyArgs configures the energy post-processing of the first Pareto front
type EnergyStrategyArgs struct {
	Enabled *bool `json:"enabled,omitempty" env:"ENABLED"`

	// ZZRate and XXRate split the front between the three strategies
	ZZRate *float64 `json:"zzRate,omitempty" env:"ZZ_RATE"`
	XXRate *float64 `json:"xxRate,omitempty" env:"XX_RATE"`
}

// InitializationArgs sets the share of the initial population built by each strategy
type InitializationArgs struct {
	RandomRate            *float64 `json:"randomRate,omitempty" env:"RANDOM_RATE"`
	MinProcessingTimeRate *float64 `json:"minProcessingTimeRate,omitempty" env:"MIN_PROCESSING_TIME_RATE"`
	MaxRemainingTimeRate  *float64 `json:"maxRemainingTimeRate,omitempty" env:"MAX_REMAINING_TIME_RATE"`
	MinWorkloadRate       *float64 `json:"minWorkloadRate,omitempty" env:"MIN_WORKLOAD_RATE"`
}

// BreakdownArgs toggles the machine breakdown simulation
type BreakdownArgs struct {
	Enabled *bool `json:"enabled,omitempty" env:"ENABLED"`
}

// Instance describes a flexible job shop
type Instance struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec InstanceSpec `json:"spec"`
}

// InstanceSpec holds the machines, jobs and shop parameters. Machine and job
// ids are dense and start at 0.
type InstanceSpec struct {
	Machines []MachineSpec `json:"machines"`
	Jobs     []JobSpec     `json:"jobs"`

	// TransportTime[from][to] is the transfer time between machines. A zero
	// matrix is used when omitted.
	TransportTime [][]float64 `json:"transportTime,omitempty"`

	// CommonEnergy is consumed per unit of makespan by shared equipment
	CommonEnergy *float64 `json:"commonEnergy,omitempty"`
	// TransportEnergy is consumed per unit of transport time
	TransportEnergy *float64 `json:"transportEnergy,omitempty"`

	Breakdown *BreakdownCoefficients `json:"breakdown,omitempty"`
}

// MachineSpec describes a machine
type MachineSpec struct {
	ID         int32   `json:"id"`
	IdleEnergy float64 `json:"idleEnergy"`
	Age        float64 `json:"age,omitempty"`
}

// JobSpec is an ordered list of operations
type JobSpec struct {
	ID         int32           `json:"id"`
	Operations []OperationSpec `json:"operations"`
}

// OperationSpec lists the machines an operation can run on
type OperationSpec struct {
	Options []MachineOptionSpec `json:"options"`
}

// MachineOptionSpec is the processing data of an operation on one machine
type MachineOptionSpec struct {
	Machine          int32   `json:"machine"`
	ProcessingTime   float64 `json:"processingTime"`
	ProcessingEnergy float64 `json:"processingEnergy"`
	SetupTime        float64 `json:"setupTime,omitempty"`
	SetupEnergy      float64 `json:"setupEnergy,omitempty"`
}

// BreakdownCoefficients parameterise breakdown probability (Lambda), start
// time (Alpha) and repair time (Beta, Gamma)
type BreakdownCoefficients struct {
	Lambda0 float64 `json:"lambda0"`
	Lambda1 float64 `json:"lambda1"`
	Lambda2 float64 `json:"lambda2"`
	Lambda3 float64 `json:"lambda3"`
	Alpha1  float64 `json:"alpha1"`
	Alpha2  float64 `json:"alpha2"`
	Alpha3  float64 `json:"alpha3"`
	Alpha4  float64 `json:"alpha4"`
	Beta0   float64 `json:"beta0"`
	Beta1   float64 `json:"beta1"`
	Beta2   float64 `json:"beta2"`
	Gamma   float64 `json:"gamma"`
}

// ScheduleReport is the outcome of a scheduling run
type ScheduleReport struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Status ScheduleReportStatus `json:"status"`
}

// ScheduleReportStatus holds the final Pareto front of a run
type ScheduleReportStatus struct {
	RunID       string `json:"runID"`
	Generations int32  `json:"generations"`

	// Best is the best-ever solution by makespan
	Best *Solution `json:"best,omitempty"`
	// Front is the first Pareto front of the final population
	Front []Solution `json:"front"`

	// Breakdowns lists the breakdown windows simulated on each machine
	Breakdowns []MachineBreakdowns `json:"breakdowns,omitempty"`
}

// Solution is a decoded schedule with its objectives
type Solution struct {
	Makespan float64         `json:"makespan"`
	Energy   float64         `json:"energy"`
	Workload float64         `json:"workload"`
	Energies EnergyBreakdown `json:"energies"`

	Assignments []Assignment `json:"assignments"`
}

// EnergyBreakdown splits the total energy by source
type EnergyBreakdown struct {
	Processing float64 `json:"processing"`
	Setup      float64 `json:"setup"`
	Transport  float64 `json:"transport"`
	Idle       float64 `json:"idle"`
	Common     float64 `json:"common"`
}

// Assignment places one operation on a machine
type Assignment struct {
	Job       int32   `json:"job"`
	Operation int32   `json:"operation"`
	Machine   int32   `json:"machine"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
}

// MachineBreakdowns lists the breakdown windows of one machine
type MachineBreakdowns struct {
	Machine int32    `json:"machine"`
	Windows []Window `json:"windows"`
}

// Window is a time interval
type Window struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}
