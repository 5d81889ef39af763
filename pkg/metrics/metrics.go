// Package metrics exposes the progress of a scheduling run as Prometheus
// gauges and counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eedfjsp"

// Recorder records per-generation progress. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	generation         prometheus.Gauge
	bestMakespan       prometheus.Gauge
	bestEnergy         prometheus.Gauge
	bestWorkload       prometheus.Gauge
	paretoFrontSize    prometheus.Gauge
	crossoverRate      prometheus.Gauge
	mutationRate       prometheus.Gauge
	breakdowns         prometheus.Counter
	vnsImprovements    prometheus.Counter
	energyImprovements *prometheus.CounterVec
}

// NewRecorder registers the run metrics with reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		generation: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generation",
			Help:      "The last completed generation.",
		}),
		bestMakespan: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_makespan",
			Help:      "Makespan of the best-ever chromosome by makespan.",
		}),
		bestEnergy: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_energy",
			Help:      "Total energy consumption of the best-ever chromosome by makespan.",
		}),
		bestWorkload: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_workload",
			Help:      "Critical machine workload of the best-ever chromosome by makespan.",
		}),
		paretoFrontSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pareto_front_size",
			Help:      "Number of non-dominated chromosomes in the population.",
		}),
		crossoverRate: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "crossover_probability",
			Help:      "Crossover probability used by the last generation.",
		}),
		mutationRate: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mutation_probability",
			Help:      "Mutation probability used by the last generation.",
		}),
		breakdowns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breakdowns_total",
			Help:      "Number of simulated machine breakdowns.",
		}),
		vnsImprovements: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vns_improvements_total",
			Help:      "Number of chromosomes whose makespan the neighbourhood search improved.",
		}),
		energyImprovements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "energy_strategy_improvements_total",
			Help:      "Number of chromosomes improved by each energy post-processing strategy.",
		}, []string{"strategy"}),
	}
}

// Generation is the summary of one generation
type Generation struct {
	Index     int
	Makespan  float64
	Energy    float64
	Workload  float64
	FrontSize int
	Pc        float64
	Pm        float64
}

func (r *Recorder) ObserveGeneration(g Generation) {
	if r == nil {
		return
	}
	r.generation.Set(float64(g.Index))
	r.bestMakespan.Set(g.Makespan)
	r.bestEnergy.Set(g.Energy)
	r.bestWorkload.Set(g.Workload)
	r.paretoFrontSize.Set(float64(g.FrontSize))
	r.crossoverRate.Set(g.Pc)
	r.mutationRate.Set(g.Pm)
}

func (r *Recorder) AddBreakdowns(n int) {
	if r == nil {
		return
	}
	r.breakdowns.Add(float64(n))
}

func (r *Recorder) AddVNSImprovements(n int) {
	if r == nil {
		return
	}
	r.vnsImprovements.Add(float64(n))
}

func (r *Recorder) AddEnergyImprovement(strategy string) {
	if r == nil {
		return
	}
	r.energyImprovements.WithLabelValues(strategy).Inc()
}
