package simulation

import "github.com/lao-tseu-is-alive/go-arena-simulation/pkg/geometry"

// Sense casts every eye of every agent against walls, items and the other agents.
// All agents read the same pre-move world since nothing moves until Move.
// A hit farther than the eye range (possible with the foot-of-perpendicular item test) is
// reported just below MaxRange.
func (w *World) Sense() {
	for _, a := range w.agents {
		for k := range a.Eyes {
			e := &a.Eyes[k]
			end := a.Position.Add(geometry.Vector2D{Y: e.MaxRange}.Rotate(a.Heading + e.Angle))
			c, ok := w.QueryNearest(a.Position, end, Query{Walls: true, Items: true, Agents: true, Exclude: a})
			if !ok {
				e.blind()
				continue
			}
			e.see(c.Point.DistanceTo(a.Position), c.Category)
		}
	}
}
