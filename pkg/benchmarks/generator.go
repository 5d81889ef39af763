package benchmarks

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/greenfab/eedfjsp/pkg/framework"
)

// GeneratorConfig describes a family of random flexible job-shop instances in
// the style of the Brandimarte set, extended with energy rates, setup and
// transport times
type GeneratorConfig struct {
	Jobs     int
	Machines int

	MinOperations int
	MaxOperations int

	// compatible machines per operation, capped at Machines
	MinCompatible int
	MaxCompatible int

	// integral processing times in [MinProcessingTime, MaxProcessingTime]
	MinProcessingTime int
	MaxProcessingTime int
	SetupTime         float64

	MinEnergyRate float64
	MaxEnergyRate float64
	SetupEnergy   float64

	MinIdleEnergy float64
	MaxIdleEnergy float64
	MaxAge        float64

	// MaxTransportTime bounds the symmetric transport matrix, diagonal is 0
	MaxTransportTime int
}

func DefaultGeneratorConfig(jobs, machines int) GeneratorConfig {
	return GeneratorConfig{
		Jobs:              jobs,
		Machines:          machines,
		MinOperations:     2,
		MaxOperations:     6,
		MinCompatible:     1,
		MaxCompatible:     3,
		MinProcessingTime: 1,
		MaxProcessingTime: 10,
		SetupTime:         0.5,
		MinEnergyRate:     2,
		MaxEnergyRate:     6,
		SetupEnergy:       2,
		MinIdleEnergy:     0.5,
		MaxIdleEnergy:     1.5,
		MaxAge:            5,
		MaxTransportTime:  5,
	}
}

func (c GeneratorConfig) validate() error {
	switch {
	case c.Jobs < 1 || c.Machines < 1:
		return fmt.Errorf("need at least one job and one machine, got %d jobs and %d machines", c.Jobs, c.Machines)
	case c.MinOperations < 1 || c.MaxOperations < c.MinOperations:
		return fmt.Errorf("invalid operation range [%d, %d]", c.MinOperations, c.MaxOperations)
	case c.MinCompatible < 1 || c.MaxCompatible < c.MinCompatible:
		return fmt.Errorf("invalid compatible machine range [%d, %d]", c.MinCompatible, c.MaxCompatible)
	case c.MinProcessingTime < 0 || c.MaxProcessingTime < c.MinProcessingTime:
		return fmt.Errorf("invalid processing time range [%d, %d]", c.MinProcessingTime, c.MaxProcessingTime)
	case c.MaxEnergyRate < c.MinEnergyRate || c.MaxIdleEnergy < c.MinIdleEnergy:
		return fmt.Errorf("invalid energy rate ranges")
	case c.MaxTransportTime < 0:
		return fmt.Errorf("invalid transport time bound %d", c.MaxTransportTime)
	}
	return nil
}

func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return distuv.Uniform{Min: lo, Max: hi, Src: rng}.Rand()
}

// GenerateInstance draws a random problem. The same config and seed always
// produce the same problem.
func GenerateInstance(config GeneratorConfig, rng *rand.Rand) (*framework.Problem, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}

	machines := make([]*framework.Machine, config.Machines)
	for m := range machines {
		machines[m] = &framework.Machine{
			ID:         m,
			IdleEnergy: uniform(rng, config.MinIdleEnergy, config.MaxIdleEnergy),
			Age:        uniform(rng, 0, config.MaxAge),
		}
	}

	minCompatible := min(config.MinCompatible, config.Machines)
	maxCompatible := min(config.MaxCompatible, config.Machines)

	jobs := make([]*framework.Job, config.Jobs)
	for j := range jobs {
		job := &framework.Job{ID: j}
		count := between(rng, config.MinOperations, config.MaxOperations)
		for i := 0; i < count; i++ {
			compatible := rng.Perm(config.Machines)[:between(rng, minCompatible, maxCompatible)]
			options := make(map[int]framework.MachineOption, len(compatible))
			for _, m := range compatible {
				options[m] = framework.MachineOption{
					ProcessingTime:   float64(between(rng, config.MinProcessingTime, config.MaxProcessingTime)),
					ProcessingEnergy: uniform(rng, config.MinEnergyRate, config.MaxEnergyRate),
					SetupTime:        config.SetupTime,
					SetupEnergy:      config.SetupEnergy,
				}
			}
			job.Operations = append(job.Operations, framework.NewOperation(j, i, options))
		}
		jobs[j] = job
	}

	params := framework.DefaultParameters(config.Machines)
	for from := 0; from < config.Machines; from++ {
		for to := from + 1; to < config.Machines; to++ {
			t := 0.0
			if config.MaxTransportTime > 0 {
				t = float64(between(rng, 1, config.MaxTransportTime))
			}
			params.TransportTime[from][to] = t
			params.TransportTime[to][from] = t
		}
	}

	return framework.NewProblem(jobs, machines, params)
}
