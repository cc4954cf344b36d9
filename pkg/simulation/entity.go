package simulation

import (
	"math"

	"github.com/lao-tseu-is-alive/go-arena-simulation/pkg/geometry"
)

// Wall is a static segment. Walls are created with the world and never change.
type Wall struct {
	P1 geometry.Vector2D `json:"p1"`
	P2 geometry.Vector2D `json:"p2"`
}

// Item is a consumable lying on the floor.
type Item struct {
	Position geometry.Vector2D
	Kind     ItemKind
	Radius   float64

	age  int
	dead bool
}

func newItem(pos geometry.Vector2D, kind ItemKind, radius float64) *Item {
	return &Item{Position: pos, Kind: kind, Radius: radius}
}

// Age is the number of ticks the item has lived through.
func (it *Item) Age() int { return it.age }

// Alive is false once the item was consumed or despawned during the current tick.
func (it *Item) Alive() bool { return !it.dead }

func (it *Item) grow() { it.age++ }

func (it *Item) kill() { it.dead = true }

// Eye is a fixed-angle ray sensor owned by exactly one agent.
type Eye struct {
	Angle    float64 // offset from the agent heading
	MaxRange float64

	Proximity float64
	Sensed    Category
}

func newEye(angle, maxRange float64) Eye {
	return Eye{Angle: angle, MaxRange: maxRange, Proximity: maxRange, Sensed: CategoryNone}
}

// see records what the ray hit. Distances are kept inside [0, MaxRange): a full MaxRange
// reading is reserved for an eye that saw nothing.
func (e *Eye) see(distance float64, c Category) {
	e.Proximity = math.Min(math.Max(distance, 0), math.Nextafter(e.MaxRange, 0))
	e.Sensed = c
}

func (e *Eye) blind() {
	e.Proximity = e.MaxRange
	e.Sensed = CategoryNone
}

// Agent is a two-wheeled mobile body with ray-cast eyes.
type Agent struct {
	ID               string
	Position         geometry.Vector2D
	PreviousPosition geometry.Vector2D
	Heading          float64
	PreviousHeading  float64
	Radius           float64
	Eyes             []Eye

	Wheel1 float64
	Wheel2 float64
	Action int

	// Digestion accumulates reward deltas from items and collisions until the next reward step.
	Digestion  float64
	LastReward float64

	BeneficialEaten int
	HarmfulEaten    int
	Collisions      int

	controller Controller
}

// Inputs encodes the eyes into the decision vector: one slot per sensed category and eye,
// every slot defaulting to 1.0 and the slot of the sensed category carrying Proximity/MaxRange.
func (a *Agent) Inputs() []float64 {
	inputs := make([]float64, len(a.Eyes)*NumSensedCategories)
	for i := range inputs {
		inputs[i] = 1.0
	}
	for i, e := range a.Eyes {
		if e.Sensed == CategoryNone {
			continue
		}
		inputs[i*NumSensedCategories+int(e.Sensed)] = e.Proximity / e.MaxRange
	}
	return inputs
}

// Learns reports whether this agent feeds rewards back to its decision module.
func (a *Agent) Learns() bool { return a.controller.owner }
