package simulation

import (
	"encoding/binary"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/lao-tseu-is-alive/go-arena-simulation/pkg/geometry"
)

// Snapshot is an immutable copy of the world taken between ticks.
// It shares no memory with the live world.
type Snapshot struct {
	Clock  uint64          `json:"clock"`
	Width  float64         `json:"width"`
	Height float64         `json:"height"`
	Walls  []Wall          `json:"walls"`
	Items  []ItemState     `json:"items"`
	Agents []AgentSnapshot `json:"agents"`
}

type ItemState struct {
	Position geometry.Vector2D `json:"position"`
	Kind     ItemKind          `json:"kind"`
	Age      int               `json:"age"`
}

type EyeState struct {
	Angle     float64  `json:"angle"`
	MaxRange  float64  `json:"maxRange"`
	Proximity float64  `json:"proximity"`
	Sensed    Category `json:"sensed"`
}

// AgentSnapshot carries the pose an agent started the last tick from (what the eyes saw)
// next to the pose it ended on.
type AgentSnapshot struct {
	ID               string            `json:"id"`
	Position         geometry.Vector2D `json:"position"`
	Heading          float64           `json:"heading"`
	PreviousPosition geometry.Vector2D `json:"previousPosition"`
	PreviousHeading  float64           `json:"previousHeading"`
	Radius           float64           `json:"radius"`
	Eyes             []EyeState        `json:"eyes"`

	Action          int     `json:"action"`
	LastReward      float64 `json:"lastReward"`
	BeneficialEaten int     `json:"beneficialEaten"`
	HarmfulEaten    int     `json:"harmfulEaten"`
	Collisions      int     `json:"collisions"`
}

// Snapshot copies the current state. Call it only between ticks.
func (w *World) Snapshot() *Snapshot {
	s := &Snapshot{
		Clock:  w.clock,
		Width:  w.cfg.WorldWidth,
		Height: w.cfg.WorldHeight,
		Walls:  slices.Clone(w.walls),
		Items:  make([]ItemState, len(w.items)),
		Agents: make([]AgentSnapshot, len(w.agents)),
	}
	for i, it := range w.items {
		s.Items[i] = ItemState{Position: it.Position, Kind: it.Kind, Age: it.age}
	}
	for i, a := range w.agents {
		eyes := make([]EyeState, len(a.Eyes))
		for k, e := range a.Eyes {
			eyes[k] = EyeState{Angle: e.Angle, MaxRange: e.MaxRange, Proximity: e.Proximity, Sensed: e.Sensed}
		}
		s.Agents[i] = AgentSnapshot{
			ID:               a.ID,
			Position:         a.Position,
			Heading:          a.Heading,
			PreviousPosition: a.PreviousPosition,
			PreviousHeading:  a.PreviousHeading,
			Radius:           a.Radius,
			Eyes:             eyes,
			Action:           a.Action,
			LastReward:       a.LastReward,
			BeneficialEaten:  a.BeneficialEaten,
			HarmfulEaten:     a.HarmfulEaten,
			Collisions:       a.Collisions,
		}
	}
	return s
}

// Digest hashes everything but the agent IDs, which are random per run. Two runs with the
// same configuration, seed and brains produce the same digest at the same clock.
func (s *Snapshot) Digest() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 64)
	u := func(v uint64) { buf = binary.LittleEndian.AppendUint64(buf, v) }
	f := func(v float64) { u(math.Float64bits(v)) }
	vec := func(v geometry.Vector2D) { f(v.X); f(v.Y) }
	flush := func() {
		_, _ = d.Write(buf)
		buf = buf[:0]
	}

	u(s.Clock)
	f(s.Width)
	f(s.Height)
	u(uint64(len(s.Walls)))
	flush()
	for _, wall := range s.Walls {
		vec(wall.P1)
		vec(wall.P2)
		flush()
	}
	u(uint64(len(s.Items)))
	flush()
	for _, it := range s.Items {
		vec(it.Position)
		u(uint64(it.Kind))
		u(uint64(it.Age))
		flush()
	}
	u(uint64(len(s.Agents)))
	flush()
	for _, a := range s.Agents {
		vec(a.Position)
		f(a.Heading)
		vec(a.PreviousPosition)
		f(a.PreviousHeading)
		u(uint64(int64(a.Action)))
		f(a.LastReward)
		u(uint64(a.BeneficialEaten))
		u(uint64(a.HarmfulEaten))
		u(uint64(a.Collisions))
		for _, e := range a.Eyes {
			f(e.Proximity)
			u(uint64(int64(e.Sensed)))
		}
		flush()
	}
	return d.Sum64()
}
