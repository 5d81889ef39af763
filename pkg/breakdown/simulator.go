// Package breakdown simulates random machine failures. Every step may append
// a breakdown window to each machine that is currently available; the decoder
// later routes operations around those windows.
package breakdown

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"k8s.io/klog/v2"

	"github.com/greenfab/eedfjsp/pkg/framework"
)

// Event records one breakdown produced by a step
type Event struct {
	Machine     int
	Probability float64
	Window      framework.BreakdownWindow
}

// Simulator owns the dynamic machine state of a problem for one run
type Simulator struct {
	problem *framework.Problem
	rng     *rand.Rand
	logger  klog.Logger
}

// New creates a simulator drawing from rng
func New(problem *framework.Problem, rng *rand.Rand, logger klog.Logger) *Simulator {
	return &Simulator{
		problem: problem,
		rng:     rng,
		logger:  logger.WithValues("component", "breakdown"),
	}
}

// Probability returns the failure probability of machine k given the shop
// totals of busy time and repairs
func Probability(c framework.BreakdownCoefficients, m *framework.Machine, totalBusy float64, totalRepairs int) float64 {
	r, rho := safeTotals(totalBusy, totalRepairs)
	p := c.Lambda0 * (1 + c.Lambda1*m.BusyTime/r + c.Lambda2*m.Age + c.Lambda3*float64(m.Repairs)/rho)
	return min(max(p, 0), 1)
}

// safeTotals substitutes 1 for empty totals
func safeTotals(totalBusy float64, totalRepairs int) (float64, float64) {
	r, rho := totalBusy, float64(totalRepairs)
	if r == 0 {
		r = 1
	}
	if rho == 0 {
		rho = 1
	}
	return r, rho
}

// Step advances the shop by one generation. Machines broken in the previous
// step are repaired, busy holds the time each machine worked in the schedule
// that ran, and horizon scales the start of new breakdowns (usually the
// current makespan). It returns the breakdowns that occurred.
func (s *Simulator) Step(horizon float64, busy []float64) []Event {
	machines := s.problem.Machines
	coeff := s.problem.Params.Breakdown

	for _, m := range machines {
		m.Broken = false
	}
	for k, t := range busy {
		if k < len(machines) {
			machines[k].BusyTime += t
		}
	}

	totalBusy := 0.0
	totalRepairs := 0
	for _, m := range machines {
		totalBusy += m.BusyTime
		totalRepairs += m.Repairs
	}
	r, rho := safeTotals(totalBusy, totalRepairs)

	omega := distuv.Uniform{Min: 0, Max: 1, Src: s.rng}
	var epsilon distuv.Uniform
	if coeff.Gamma > 0 {
		epsilon = distuv.Uniform{Min: -coeff.Gamma, Max: coeff.Gamma, Src: s.rng}
	}

	var events []Event
	// repairs complete above, so every machine is available for sampling
	for k, m := range machines {
		pk := Probability(coeff, m, totalBusy, totalRepairs)
		trial := distuv.Bernoulli{P: pk, Src: s.rng}
		if trial.Rand() == 0 {
			continue
		}

		busyShare := m.BusyTime / r
		repairShare := float64(m.Repairs) / rho
		start := horizon * (coeff.Alpha1 + coeff.Alpha2*repairShare + coeff.Alpha3*busyShare + coeff.Alpha4*omega.Rand())
		eps := 0.0
		if coeff.Gamma > 0 {
			eps = epsilon.Rand()
		}
		repair := (coeff.Beta0 + coeff.Beta1*m.Age + coeff.Beta2*repairShare) * (1 + eps)

		window := framework.BreakdownWindow{Start: start, End: start + max(repair, 0)}
		m.Breakdowns = append(m.Breakdowns, window)
		m.Repairs++
		m.Broken = true

		events = append(events, Event{Machine: k, Probability: pk, Window: window})
		s.logger.V(2).Info("Machine breakdown", "machine", m.ID, "probability", pk, "start", window.Start, "end", window.End)
	}

	return events
}
