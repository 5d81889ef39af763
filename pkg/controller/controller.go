// Package controller supplies the crossover and mutation probabilities used
// by each generation. The scheduler only depends on the Controller interface.
package controller

import (
	"fmt"

	"github.com/greenfab/eedfjsp/pkg/framework"
)

// State is an opaque population-quality bucket produced by Observe
type State int

// UpdateRule selects how a learning controller bootstraps its value estimate
type UpdateRule int

const (
	// QLearning bootstraps from the best next action (exploration phase)
	QLearning UpdateRule = iota
	// SARSA bootstraps from the action the policy actually takes next
	SARSA
)

func (r UpdateRule) String() string {
	switch r {
	case QLearning:
		return "QLearning"
	case SARSA:
		return "SARSA"
	default:
		return fmt.Sprintf("UpdateRule(%d)", int(r))
	}
}

// Controller chooses (Pc, Pm) per generation and learns from the outcome
type Controller interface {
	// Observe summarises a decoded population
	Observe(population []*framework.Chromosome, generation int) State
	// SelectRates returns the crossover and mutation probabilities, both in [0,1]
	SelectRates(state State, generation int) (pc, pm float64)
	// Learn feeds back the decoded population produced with the last rates
	Learn(next []*framework.Chromosome, rule UpdateRule)
}

// Fixed always returns the same rates and never learns
type Fixed struct {
	Pc float64
	Pm float64
}

var _ Controller = &Fixed{}

func (f *Fixed) Observe([]*framework.Chromosome, int) State {
	return 0
}

func (f *Fixed) SelectRates(State, int) (float64, float64) {
	return f.Pc, f.Pm
}

func (f *Fixed) Learn([]*framework.Chromosome, UpdateRule) {}
