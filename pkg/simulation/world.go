package simulation

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-arena-simulation/pkg/geometry"
	"go.uber.org/zap"
)

// World is the authoritative simulation state. Only the tick pipeline mutates it;
// outside readers get immutable copies through Snapshot.
type World struct {
	cfg    *Config
	walls  []Wall
	items  []*Item
	agents []*Agent
	clock  uint64

	rng  *rand.Rand
	log  *zap.Logger
	grid *agentGrid
}

// Option customizes a World at construction.
type Option func(*World)

// WithLogger routes engine logs to l.
func WithLogger(l *zap.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithRand replaces the seeded random source derived from Config.Seed.
func WithRand(r *rand.Rand) Option {
	return func(w *World) { w.rng = r }
}

// NewWorld builds a world from cfg with one agent per controller.
// A nil cfg means DefaultConfig.
func NewWorld(cfg *Config, controllers []Controller, opts ...Option) (*World, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := validateSetup(cfg, controllers); err != nil {
		return nil, err
	}

	w := &World{log: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		w.rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	}
	w.build(cfg.Clone(), controllers)
	return w, nil
}

// Reset tears down the agent population and the items and rebuilds them under a new
// configuration. The world is left untouched when the configuration is rejected.
func (w *World) Reset(cfg *Config, controllers []Controller) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := validateSetup(cfg, controllers); err != nil {
		return err
	}
	w.build(cfg.Clone(), controllers)
	return nil
}

func validateSetup(cfg *Config, controllers []Controller) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	for i, c := range controllers {
		if c.brain == nil {
			return &ConfigError{Field: fmt.Sprintf("controllers[%d]", i), Reason: "no brain attached"}
		}
	}
	return nil
}

func (w *World) build(cfg *Config, controllers []Controller) {
	w.cfg = cfg
	w.clock = 0
	w.walls = cfg.Walls()
	w.grid = newAgentGrid(cfg.ItemRadius + cfg.AgentRadius)

	w.items = make([]*Item, 0, cfg.ItemTarget)
	for range cfg.ItemTarget {
		w.items = append(w.items, w.spawnItem())
	}

	w.agents = make([]*Agent, len(controllers))
	for i, c := range controllers {
		pose := w.spawnPose(i)
		pos := geometry.Vector2D{X: pose.X, Y: pose.Y}.Clamp(cfg.WorldWidth, cfg.WorldHeight)
		heading := wrapAngle(pose.Heading)
		a := &Agent{
			ID:               uuid.NewString(),
			Position:         pos,
			PreviousPosition: pos,
			Heading:          heading,
			PreviousHeading:  heading,
			Radius:           cfg.AgentRadius,
			Eyes:             make([]Eye, len(cfg.EyeAngles)),
			Action:           -1,
			controller:       c,
		}
		for k, angle := range cfg.EyeAngles {
			a.Eyes[k] = newEye(angle, cfg.EyeRange)
		}
		w.agents[i] = a
	}

	w.log.Info("world built",
		zap.Float64("width", cfg.WorldWidth),
		zap.Float64("height", cfg.WorldHeight),
		zap.Int("walls", len(w.walls)),
		zap.Int("items", len(w.items)),
		zap.Int("agents", len(w.agents)))
}

func (w *World) spawnPose(i int) Pose {
	if i < len(w.cfg.AgentSpawns) {
		return w.cfg.AgentSpawns[i]
	}
	pos := w.randomPosition()
	return Pose{X: pos.X, Y: pos.Y, Heading: w.rng.Float64() * 2 * math.Pi}
}

func (w *World) randomPosition() geometry.Vector2D {
	m := w.cfg.ItemSpawnMargin
	return geometry.Vector2D{
		X: m + w.rng.Float64()*(w.cfg.WorldWidth-2*m),
		Y: m + w.rng.Float64()*(w.cfg.WorldHeight-2*m),
	}
}

func (w *World) spawnItem() *Item {
	pos := w.randomPosition()
	kind := ItemKind(w.rng.IntN(2) + 1)
	return newItem(pos, kind, w.cfg.ItemRadius)
}

// Tick advances the world by one step:
// sense all, decide all, move all, update items, reward all, learn.
// A decision module returning an invalid action rejects the whole tick before anything moves.
// A rejected tick leaves the clock, positions, items and actions untouched, but the eyes
// already hold the new senses and every brain up to the offending one has been asked to
// decide. A learning brain may have folded its pending reward into its parameters during that call.
func (w *World) Tick() error {
	w.Sense()
	if err := w.Decide(); err != nil {
		return fmt.Errorf("tick %d rejected: %w", w.clock+1, err)
	}
	w.clock++
	w.Move()
	w.UpdateItems()
	rewards := w.Reward()
	for i, a := range w.agents {
		if a.controller.owner {
			a.controller.brain.Learn(rewards[i])
		}
	}
	return nil
}

// Decide asks every agent's brain for an action using the senses computed by Sense.
// Choices are committed only when every index is valid.
func (w *World) Decide() error {
	choices := make([]int, len(w.agents))
	for i, a := range w.agents {
		idx := a.controller.brain.Decide(a.Inputs())
		if idx < 0 || idx >= len(w.cfg.Actions) {
			return fmt.Errorf("agent %d (%s) chose %d of %d: %w", i, a.ID, idx, len(w.cfg.Actions), ErrActionOutOfRange)
		}
		choices[i] = idx
	}
	for i, a := range w.agents {
		act := w.cfg.Actions[choices[i]]
		a.Action = choices[i]
		a.Wheel1 = act.Wheel1
		a.Wheel2 = act.Wheel2
	}
	return nil
}

// Clock is the number of completed ticks since construction or the last reset.
func (w *World) Clock() uint64 { return w.clock }

// Config returns a copy of the active configuration.
func (w *World) Config() *Config { return w.cfg.Clone() }

// NumItems is the live item count.
func (w *World) NumItems() int { return len(w.items) }

// NumAgents is the size of the agent population.
func (w *World) NumAgents() int { return len(w.agents) }
