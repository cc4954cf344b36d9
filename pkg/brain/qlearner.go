package brain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-arena-simulation/pkg/simulation"
)

const CurrentCodecVersion = 1

var (
	ErrVersionMismatch = errors.New("parameter record version mismatch")
	ErrShapeMismatch   = errors.New("parameter shape mismatch")
)

// params is the trainable state. Mirrors hold the same pointer as their owner.
type params struct {
	Weights [][]float64 `json:"weights"` // one row per action
	Bias    []float64   `json:"bias"`
}

type record struct {
	Version int     `json:"version"`
	Inputs  int     `json:"inputs"`
	Actions int     `json:"actions"`
	Params  *params `json:"params"`
}

// QLearner is an epsilon-greedy Q-learner with one linear value estimate per action.
// The temporal-difference update for a reward is applied on the next Decide, once the
// following state is known.
type QLearner struct {
	inputs, actions int
	alpha           float64
	gamma           float64
	epsilon         float64
	learning        bool

	p   *params
	rng *rand.Rand

	lastState  []float64
	lastAction int
	pending    bool
	reward     float64
}

type Option func(*QLearner)

func WithLearningRate(alpha float64) Option { return func(q *QLearner) { q.alpha = alpha } }

func WithDiscount(gamma float64) Option { return func(q *QLearner) { q.gamma = gamma } }

// WithEpsilon sets the exploration rate used while learning.
func WithEpsilon(epsilon float64) Option { return func(q *QLearner) { q.epsilon = epsilon } }

func WithSeed(seed uint64) Option {
	return func(q *QLearner) { q.rng = rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d)) }
}

func NewQLearner(inputs, actions int, opts ...Option) *QLearner {
	q := &QLearner{
		inputs:     inputs,
		actions:    actions,
		alpha:      0.01,
		gamma:      0.7,
		epsilon:    0.2,
		learning:   true,
		lastAction: -1,
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.rng == nil {
		q.rng = rand.New(rand.NewPCG(1, 2))
	}
	q.p = &params{Weights: make([][]float64, actions), Bias: make([]float64, actions)}
	for a := range q.p.Weights {
		row := make([]float64, inputs)
		for i := range row {
			row[i] = (q.rng.Float64()*2 - 1) * 0.01
		}
		q.p.Weights[a] = row
	}
	return q
}

// SetLearning switches between training (exploring, updating) and pure greedy evaluation.
func (q *QLearner) SetLearning(on bool) {
	q.learning = on
	if !on {
		q.pending = false
	}
}

func (q *QLearner) Learning() bool { return q.learning }

// Value is the estimated return of taking action in state.
func (q *QLearner) Value(state []float64, action int) float64 {
	row := q.p.Weights[action]
	sum := q.p.Bias[action]
	for i, x := range state {
		sum += row[i] * x
	}
	return sum
}

func (q *QLearner) best(state []float64) (int, float64) {
	bestA, bestV := 0, q.Value(state, 0)
	for a := 1; a < q.actions; a++ {
		if v := q.Value(state, a); v > bestV {
			bestA, bestV = a, v
		}
	}
	return bestA, bestV
}

// Decide returns -1 for an input vector of the wrong width, which the world rejects.
func (q *QLearner) Decide(state []float64) int {
	if len(state) != q.inputs || q.actions == 0 {
		return -1
	}

	_, maxNext := q.best(state)
	if q.pending {
		q.update(maxNext)
	}

	var a int
	if q.learning && q.rng.Float64() < q.epsilon {
		a = q.rng.IntN(q.actions)
	} else {
		a, _ = q.best(state)
	}

	if q.learning {
		q.lastState = append(q.lastState[:0], state...)
		q.lastAction = a
	}
	return a
}

func (q *QLearner) update(maxNext float64) {
	target := q.reward + q.gamma*maxNext
	delta := q.alpha * (target - q.Value(q.lastState, q.lastAction))
	row := q.p.Weights[q.lastAction]
	for i, x := range q.lastState {
		row[i] += delta * x
	}
	q.p.Bias[q.lastAction] += delta
	q.pending = false
}

func (q *QLearner) Learn(reward float64) {
	if !q.learning || q.lastAction < 0 {
		return
	}
	q.reward = reward
	q.pending = true
}

// ShareParametersFrom makes q decide with other's parameters, seeing every later update.
func (q *QLearner) ShareParametersFrom(other simulation.Brain) error {
	o, ok := other.(*QLearner)
	if !ok {
		return fmt.Errorf("cannot share parameters with %T", other)
	}
	if o.inputs != q.inputs || o.actions != q.actions {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, o.actions, o.inputs, q.actions, q.inputs)
	}
	q.p = o.p
	q.pending = false
	return nil
}

func (q *QLearner) Serialize() ([]byte, error) {
	return json.Marshal(record{Version: CurrentCodecVersion, Inputs: q.inputs, Actions: q.actions, Params: q.p})
}

// Deserialize overwrites the parameters in place, so mirrors sharing them see the loaded values.
func (q *QLearner) Deserialize(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	if r.Version != CurrentCodecVersion {
		return fmt.Errorf("%w: got %d want %d", ErrVersionMismatch, r.Version, CurrentCodecVersion)
	}
	if r.Inputs != q.inputs || r.Actions != q.actions || r.Params == nil ||
		len(r.Params.Weights) != q.actions || len(r.Params.Bias) != q.actions {
		return fmt.Errorf("%w: record is %dx%d, learner is %dx%d", ErrShapeMismatch, r.Actions, r.Inputs, q.actions, q.inputs)
	}
	for a, row := range r.Params.Weights {
		if len(row) != q.inputs {
			return fmt.Errorf("%w: weights row %d has %d entries", ErrShapeMismatch, a, len(row))
		}
	}
	for a := range q.p.Weights {
		copy(q.p.Weights[a], r.Params.Weights[a])
	}
	copy(q.p.Bias, r.Params.Bias)
	q.pending = false
	return nil
}

var (
	_ simulation.Brain           = (*QLearner)(nil)
	_ simulation.ParameterSharer = (*QLearner)(nil)
	_ simulation.Persister       = (*QLearner)(nil)
)
