package simulation

import "github.com/lao-tseu-is-alive/go-arena-simulation/pkg/geometry"

// Query selects which entities a collision query considers.
type Query struct {
	Walls  bool
	Items  bool
	Agents bool
	// Exclude is never reported as a hit, so an agent cannot collide with itself.
	Exclude *Agent
	// AgentPadding widens every agent's radius, used to sweep one body against another.
	AgentPadding float64
}

// Contact is the nearest hit found by QueryNearest.
type Contact struct {
	Ua       float64
	Point    geometry.Vector2D
	Category Category
	Item     *Item  // set for item hits
	Agent    *Agent // set for agent hits
}

// QueryNearest returns the hit closest to p1 along the segment p1->p2 among the selected
// walls, items and agents. Ties keep the first candidate found.
func (w *World) QueryNearest(p1, p2 geometry.Vector2D, q Query) (Contact, bool) {
	var best Contact
	found := false
	keep := func(hit geometry.Hit, c Contact) {
		if found && !(hit.Ua < best.Ua) {
			return
		}
		c.Ua = hit.Ua
		c.Point = hit.Point
		best = c
		found = true
	}

	if q.Walls {
		for _, wall := range w.walls {
			if hit, ok := geometry.SegmentIntersect(p1, p2, wall.P1, wall.P2); ok {
				keep(hit, Contact{Category: CategoryWall})
			}
		}
	}

	if q.Items {
		for _, it := range w.items {
			if it.dead {
				continue
			}
			if hit, ok := geometry.SegmentCircleIntersect(p1, p2, it.Position, it.Radius); ok {
				keep(hit, Contact{Category: it.Kind.Category(), Item: it})
			}
		}
	}

	if q.Agents {
		for _, a := range w.agents {
			if a == q.Exclude {
				continue
			}
			if hit, ok := geometry.SegmentCircleIntersect(p1, p2, a.Position, a.Radius+q.AgentPadding); ok {
				keep(hit, Contact{Category: CategoryAgent, Agent: a})
			}
		}
	}

	return best, found
}
