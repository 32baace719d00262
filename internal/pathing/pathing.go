// Package pathing provides distance maps and shortest-path search over a
// gamemap.Map. Both honour tile walkability, per-tile movement cost and an
// optional overlay of blocked cells.
package pathing

import (
	"math"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/delvegen/internal/gamemap"
)

const (
	// costScale converts float tile costs to the integer costs used by the
	// path range.
	costScale = 100
	// diagonalPercent is the cost multiplier for diagonal steps, in percent.
	diagonalPercent = 145
	// cheapestStep is the lowest scaled cost of entering any tile.
	cheapestStep = 80
)

// Blocked is a set of cell indices occupied by something that blocks movement.
// The zero value is an empty overlay.
type Blocked = mapset.Set[int]

// NewBlocked returns an overlay holding the given indices
func NewBlocked(indices ...int) Blocked {
	return mapset.Of(indices...)
}

// Path is the result of a shortest-path search
type Path struct {
	Success bool
	Steps   []int // cell indices from start to end inclusive
}

// grid adapts a map to the gruid path interfaces
type grid struct {
	m       *gamemap.Map
	blocked Blocked
	nb      paths.Neighbors
}

func newGrid(m *gamemap.Map, blocked Blocked) *grid {
	return &grid{m: m, blocked: blocked}
}

func (g *grid) passable(p gruid.Point) bool {
	if !g.m.InBounds(p.X, p.Y) {
		return false
	}
	idx := g.m.Index(p.X, p.Y)
	return g.m.Tiles[idx].Walkable() && !g.blocked.Has(idx)
}

// Neighbors returns walkable cells around p, diagonals included.
func (g *grid) Neighbors(p gruid.Point) []gruid.Point {
	return g.nb.All(p, g.passable)
}

// Cost of stepping from p into q.
func (g *grid) Cost(p, q gruid.Point) int {
	cost := int(math.Round(g.m.Tiles[g.m.Index(q.X, q.Y)].Cost() * costScale))
	if p.X != q.X && p.Y != q.Y {
		cost = cost * diagonalPercent / 100
	}
	return cost
}

// Estimation never overestimates: every step costs at least cheapestStep.
func (g *grid) Estimation(p, q gruid.Point) int {
	dx := abs(p.X - q.X)
	dy := abs(p.Y - q.Y)
	return max(dx, dy) * cheapestStep
}

func (g *grid) pathRange() *paths.PathRange {
	return paths.NewPathRange(gruid.NewRange(0, 0, g.m.Width, g.m.Height))
}

func (g *grid) point(idx int) gruid.Point {
	x, y := g.m.XY(idx)
	return gruid.Point{X: x, Y: y}
}

// DistanceMap flood-fills movement cost from every start index. Cells that
// cannot be reached within maxDepth are +Inf.
func DistanceMap(m *gamemap.Map, starts []int, maxDepth float64, blocked Blocked) []float64 {
	dist := make([]float64, m.Size())
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	if len(starts) == 0 {
		return dist
	}

	g := newGrid(m, blocked)
	sources := make([]gruid.Point, 0, len(starts))
	for _, idx := range starts {
		if idx < 0 || idx >= m.Size() {
			continue
		}
		sources = append(sources, g.point(idx))
		dist[idx] = 0
	}

	maxCost := int(maxDepth * costScale)
	for _, node := range g.pathRange().DijkstraMap(g, sources, maxCost) {
		idx := m.Index(node.P.X, node.P.Y)
		d := float64(node.Cost) / costScale
		if d < dist[idx] {
			dist[idx] = d
		}
	}
	return dist
}

// AStar finds the cheapest path between two cell indices.
func AStar(m *gamemap.Map, start, end int, blocked Blocked) Path {
	if start < 0 || start >= m.Size() || end < 0 || end >= m.Size() {
		return Path{}
	}
	if start == end {
		return Path{Success: true, Steps: []int{start}}
	}

	g := newGrid(m, blocked)
	points := g.pathRange().AstarPath(g, g.point(start), g.point(end))
	if len(points) == 0 {
		return Path{}
	}

	steps := make([]int, len(points))
	for i, p := range points {
		steps[i] = m.Index(p.X, p.Y)
	}
	return Path{Success: true, Steps: steps}
}

// Reachable reports whether end can be reached from start.
func Reachable(m *gamemap.Map, start, end int, blocked Blocked) bool {
	return AStar(m, start, end, blocked).Success
}

// Components counts the connected walkable regions of the map, using the
// same adjacency as DistanceMap.
func Components(m *gamemap.Map, blocked Blocked) int {
	seen := make([]bool, m.Size())
	count := 0
	for idx, tile := range m.Tiles {
		if seen[idx] || !tile.Walkable() || blocked.Has(idx) {
			continue
		}
		count++
		for i, d := range DistanceMap(m, []int{idx}, math.MaxInt32/costScale, blocked) {
			if !math.IsInf(d, 1) {
				seen[i] = true
			}
		}
	}
	return count
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
