// Package brain holds reference decision modules that plug into the simulation through the
// simulation.Brain contract.
package brain

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-arena-simulation/pkg/simulation"
)

// Random picks an action uniformly at random and ignores rewards.
type Random struct {
	actions int
	rng     *rand.Rand
}

func NewRandom(actions int, seed uint64) *Random {
	return &Random{actions: actions, rng: rand.New(rand.NewPCG(seed, seed+1))}
}

func (r *Random) Decide([]float64) int {
	if r.actions <= 0 {
		return -1
	}
	return r.rng.IntN(r.actions)
}

func (r *Random) Learn(float64) {}

var _ simulation.Brain = (*Random)(nil)
