package mapgen

import (
	"math"

	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
)

// DistanceMetric measures the distance between two cells
type DistanceMetric int

const (
	Pythagoras DistanceMetric = iota
	Manhattan
	Chebyshev
)

// Distance returns the metric distance between a and b
func (d DistanceMetric) Distance(a, b gamemap.Point) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	switch d {
	case Manhattan:
		return dx + dy
	case Chebyshev:
		return math.Max(dx, dy)
	default:
		return math.Hypot(dx, dy)
	}
}

// VoronoiCell carves the interiors of Voronoi regions, leaving walls along
// region boundaries
type VoronoiCell struct {
	Seeds  int
	Metric DistanceMetric
}

func NewVoronoiPythagoras() *VoronoiCell {
	return &VoronoiCell{Seeds: 64, Metric: Pythagoras}
}

func NewVoronoiManhattan() *VoronoiCell {
	return &VoronoiCell{Seeds: 64, Metric: Manhattan}
}

func NewVoronoiChebyshev() *VoronoiCell {
	return &VoronoiCell{Seeds: 64, Metric: Chebyshev}
}

func (b *VoronoiCell) BuildInitial(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map

	var seeds []gamemap.Point
	seen := make(map[gamemap.Point]bool)
	for len(seeds) < b.Seeds {
		p := gamemap.Point{X: rng.RollDice(1, m.Width-1), Y: rng.RollDice(1, m.Height-1)}
		if !seen[p] {
			seen[p] = true
			seeds = append(seeds, p)
		}
	}

	membership := make([]int, m.Size())
	for i := range membership {
		x, y := m.XY(i)
		p := gamemap.Point{X: x, Y: y}
		best := math.Inf(1)
		for s, seed := range seeds {
			if d := b.Metric.Distance(p, seed); d < best {
				best = d
				membership[i] = s
			}
		}
	}

	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			idx := m.Index(x, y)
			region := membership[idx]
			different := 0
			for _, d := range cardinals {
				if membership[m.Index(x+d.X, y+d.Y)] != region {
					different++
				}
			}
			if different < 2 {
				m.Tiles[idx] = gamemap.Floor
			}
		}
		ctx.TakeSnapshot()
	}
}
