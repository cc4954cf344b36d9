package simulation

import (
	"math"

	"github.com/lao-tseu-is-alive/go-arena-simulation/pkg/geometry"
	"go.uber.org/zap"
)

// Move integrates every agent from its committed wheel rotations, in agent index order.
// A later agent sees the already updated pose of earlier ones.
func (w *World) Move() {
	for _, a := range w.agents {
		w.moveAgent(a)
	}
}

func (w *World) moveAgent(a *Agent) {
	a.PreviousPosition = a.Position
	a.PreviousHeading = a.Heading

	// wheel contact points sit half a radius to each side of the heading
	v := geometry.Vector2D{Y: a.Radius / 2}.Rotate(a.Heading + math.Pi/2)
	w1 := a.Position.Add(v)
	w2 := a.Position.Sub(v)

	// each wheel pivots the body around the other wheel; the two estimates are averaged
	np := a.Position.RotateAround(-a.Wheel1, w2)
	np.Scale(0.5)
	np2 := a.Position.RotateAround(a.Wheel2, w1)
	np2.Scale(0.5)
	a.Position = np.Add(np2)
	a.Heading = wrapAngle(a.Heading + (a.Wheel2 - a.Wheel1))

	c, hit := w.QueryNearest(a.PreviousPosition, a.Position, Query{
		Walls:        true,
		Agents:       true,
		Exclude:      a,
		AgentPadding: a.Radius,
	})
	if !hit {
		if other := w.bumpedInto(a); other != nil {
			c, hit = Contact{Category: CategoryAgent, Agent: other, Point: a.Position}, true
		}
	}
	if hit {
		if c.Category == CategoryAgent {
			a.Digestion += w.cfg.CollisionPenalty
			a.Collisions++
			w.log.Debug("agent collision",
				zap.Uint64("clock", w.clock),
				zap.String("agent", a.ID),
				zap.String("other", c.Agent.ID))
		}
		a.Position = a.PreviousPosition
	}

	a.Position = a.Position.Clamp(w.cfg.WorldWidth, w.cfg.WorldHeight)
}

// bumpedInto returns the first agent whose body the candidate position overlaps while
// getting closer to it. Bodies that already overlap may still move apart.
func (w *World) bumpedInto(a *Agent) *Agent {
	for _, other := range w.agents {
		if other == a {
			continue
		}
		reach := a.Radius + other.Radius
		after := a.Position.DistanceSquaredTo(other.Position)
		before := a.PreviousPosition.DistanceSquaredTo(other.Position)
		if after < reach*reach && after < before-geometry.Epsilon {
			return other
		}
	}
	return nil
}

// wrapAngle maps an angle into [0, 2π).
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}
