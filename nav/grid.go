package nav

import (
	"math"

	"github.com/jakecoffman/cp/v2"
)

const defaultMaxSearchNodes = 4096

// Grid is a world-space pathfinding service over a fixed cell grid.
// Blocked cells come from a caller-supplied predicate so levels of any
// source (tile maps, physics queries) can back it.
type Grid struct {
	CellSize float64
	Width    int
	Height   int
	// Blocked reports whether the cell at (x, y) is untraversable.
	Blocked func(x, y int) bool
	// MaxNodes bounds each search; zero means the default.
	MaxNodes int
}

// FindPath computes a route between two world positions. The returned
// waypoints are cell centers in world space; nil means unreachable.
func (g *Grid) FindPath(start, goal cp.Vector) []cp.Vector {
	if g == nil || g.CellSize <= 0 || g.Width <= 0 || g.Height <= 0 {
		return nil
	}
	maxNodes := g.MaxNodes
	if maxNodes <= 0 {
		maxNodes = defaultMaxSearchNodes
	}
	cells := FindPath(g.cell(start), g.cell(goal), g.Width, g.Height, g.Blocked, maxNodes)
	if cells == nil {
		return nil
	}
	path := make([]cp.Vector, len(cells))
	for i, c := range cells {
		path[i] = cp.Vector{
			X: (float64(c.X) + 0.5) * g.CellSize,
			Y: (float64(c.Y) + 0.5) * g.CellSize,
		}
	}
	return path
}

func (g *Grid) cell(pos cp.Vector) Point {
	x := int(math.Floor(pos.X / g.CellSize))
	y := int(math.Floor(pos.Y / g.CellSize))
	if x < 0 {
		x = 0
	} else if x >= g.Width {
		x = g.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= g.Height {
		y = g.Height - 1
	}
	return Point{X: x, Y: y}
}
