package simulation

import (
	"math"
	"slices"

	"github.com/lao-tseu-is-alive/go-arena-simulation/pkg/geometry"
)

type gridKey struct {
	x, y int
}

// agentGrid buckets agent indices into square cells. With a cell at least as wide as the
// largest query radius, the 3x3 block around a point holds every agent within reach.
type agentGrid struct {
	cellSize float64
	cells    map[gridKey][]int
}

func newAgentGrid(cellSize float64) *agentGrid {
	// Clamp to avoid a zero-sized cell and a division by zero
	return &agentGrid{
		cellSize: math.Max(cellSize, 1.0),
		cells:    make(map[gridKey][]int),
	}
}

func (g *agentGrid) key(p geometry.Vector2D) gridKey {
	return gridKey{x: int(math.Floor(p.X / g.cellSize)), y: int(math.Floor(p.Y / g.cellSize))}
}

func (g *agentGrid) rebuild(agents []*Agent) {
	// Reset slices to length 0 but keep their capacity, so steady-state ticks do not allocate
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
	for i, a := range agents {
		k := g.key(a.Position)
		g.cells[k] = append(g.cells[k], i)
	}
}

// nearby appends to dst the indices of agents in and around the cell of p (3x3 block),
// in ascending order so callers visit them exactly as a full scan would.
func (g *agentGrid) nearby(dst []int, p geometry.Vector2D) []int {
	c := g.key(p)
	dst = dst[:0]
	for i := c.x - 1; i <= c.x+1; i++ {
		for j := c.y - 1; j <= c.y+1; j++ {
			if idx, ok := g.cells[gridKey{x: i, y: j}]; ok {
				dst = append(dst, idx...)
			}
		}
	}
	slices.Sort(dst)
	return dst
}
