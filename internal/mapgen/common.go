package mapgen

import (
	"math"

	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
)

// Symmetry mirrors painted cells across the map centre
type Symmetry int

const (
	NoSymmetry Symmetry = iota
	Horizontal
	Vertical
	Both
)

// applyHorizontalTunnel carves a row and returns the newly opened cells
func applyHorizontalTunnel(m *gamemap.Map, x1, x2, y int) []int {
	var corridor []int
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		if !m.InBounds(x, y) {
			continue
		}
		idx := m.Index(x, y)
		if idx > 0 && idx < m.Size() && m.Tiles[idx] != gamemap.Floor {
			corridor = append(corridor, idx)
			m.Tiles[idx] = gamemap.Floor
		}
	}
	return corridor
}

// applyVerticalTunnel carves a column and returns the newly opened cells
func applyVerticalTunnel(m *gamemap.Map, y1, y2, x int) []int {
	var corridor []int
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		if !m.InBounds(x, y) {
			continue
		}
		idx := m.Index(x, y)
		if idx > 0 && idx < m.Size() && m.Tiles[idx] != gamemap.Floor {
			corridor = append(corridor, idx)
			m.Tiles[idx] = gamemap.Floor
		}
	}
	return corridor
}

// drawCorridor walks from one point to another one axis step at a time,
// carving as it goes
func drawCorridor(m *gamemap.Map, x1, y1, x2, y2 int) []int {
	var corridor []int
	x, y := x1, y1
	for x != x2 || y != y2 {
		switch {
		case x < x2:
			x++
		case x > x2:
			x--
		case y < y2:
			y++
		case y > y2:
			y--
		}
		idx := m.Index(x, y)
		if m.Tiles[idx] != gamemap.Floor {
			corridor = append(corridor, idx)
			m.Tiles[idx] = gamemap.Floor
		}
	}
	return corridor
}

// line returns the Bresenham line from a to b, both ends included
func line(a, b gamemap.Point) []gamemap.Point {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	var pts []gamemap.Point
	x, y := a.X, a.Y
	e := dx + dy
	for {
		pts = append(pts, gamemap.Point{X: x, Y: y})
		if x == b.X && y == b.Y {
			return pts
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// carveLine carves a straight corridor and returns the newly opened cells
func carveLine(m *gamemap.Map, a, b gamemap.Point) []int {
	var corridor []int
	for _, p := range line(a, b) {
		if !m.InBounds(p.X, p.Y) {
			continue
		}
		idx := m.Index(p.X, p.Y)
		if m.Tiles[idx] != gamemap.Floor {
			corridor = append(corridor, idx)
			m.Tiles[idx] = gamemap.Floor
		}
	}
	return corridor
}

// paint carves a brush at (x, y) and its mirrors. Brushes never touch the
// outer two rings of the map.
func paint(m *gamemap.Map, symmetry Symmetry, brush, x, y int) {
	centerX, centerY := m.Width/2, m.Height/2
	switch symmetry {
	case NoSymmetry:
		applyPaint(m, brush, x, y)
	case Horizontal:
		if x == centerX {
			applyPaint(m, brush, x, y)
		} else {
			dist := abs(centerX - x)
			applyPaint(m, brush, centerX+dist, y)
			applyPaint(m, brush, centerX-dist, y)
		}
	case Vertical:
		if y == centerY {
			applyPaint(m, brush, x, y)
		} else {
			dist := abs(centerY - y)
			applyPaint(m, brush, x, centerY+dist)
			applyPaint(m, brush, x, centerY-dist)
		}
	case Both:
		distX := abs(centerX - x)
		distY := abs(centerY - y)
		applyPaint(m, brush, centerX+distX, y)
		applyPaint(m, brush, centerX-distX, y)
		applyPaint(m, brush, x, centerY+distY)
		applyPaint(m, brush, x, centerY-distY)
	}
}

func applyPaint(m *gamemap.Map, brush, x, y int) {
	if brush <= 1 {
		if x > 0 && x < m.Width-1 && y > 0 && y < m.Height-1 {
			m.Tiles[m.Index(x, y)] = gamemap.Floor
		}
		return
	}
	half := brush / 2
	for by := y - half; by < y+half; by++ {
		for bx := x - half; bx < x+half; bx++ {
			if bx > 1 && bx < m.Width-1 && by > 1 && by < m.Height-1 {
				m.Tiles[m.Index(bx, by)] = gamemap.Floor
			}
		}
	}
}

// stagger moves a walker one random cardinal step, staying inside
// [lo, width-lo] by [lo, height-lo]
func stagger(rng dice.Roller, m *gamemap.Map, x, y *int, lo int) {
	switch rng.RollDice(1, 4) {
	case 1:
		if *x > lo {
			*x--
		}
	case 2:
		if *x < m.Width-lo {
			*x++
		}
	case 3:
		if *y > lo {
			*y--
		}
	default:
		if *y < m.Height-lo {
			*y++
		}
	}
}

// sealBorder converts every border cell to the given tile
func sealBorder(m *gamemap.Map, tile gamemap.TileType) {
	for x := 0; x < m.Width; x++ {
		m.Tiles[m.Index(x, 0)] = tile
		m.Tiles[m.Index(x, m.Height-1)] = tile
	}
	for y := 0; y < m.Height; y++ {
		m.Tiles[m.Index(0, y)] = tile
		m.Tiles[m.Index(m.Width-1, y)] = tile
	}
}

// floorTarget caps a requested floor share below what a walker held inside
// [lo, size-lo] by stagger can dig, so dig loops on small maps still end
func floorTarget(m *gamemap.Map, want float64, lo int) float64 {
	w := max(m.Width-2*lo+1, 0)
	h := max(m.Height-2*lo+1, 0)
	return math.Min(want, 0.8*float64(w*h)/float64(m.Size()))
}

// maxDigs bounds the walkers a floor-target builder may release
func maxDigs(m *gamemap.Map) int {
	return 4 * m.Size()
}

// floorRatio is the share of cells that are Floor
func floorRatio(m *gamemap.Map) float64 {
	return float64(m.Count(gamemap.Floor)) / float64(m.Size())
}

// countNeighbours counts cardinal neighbours of idx holding the tile
func countNeighbours(m *gamemap.Map, idx int, tile gamemap.TileType) int {
	x, y := m.XY(idx)
	n := 0
	for _, d := range cardinals {
		nx, ny := x+d.X, y+d.Y
		if m.InBounds(nx, ny) && m.Tiles[m.Index(nx, ny)] == tile {
			n++
		}
	}
	return n
}

var cardinals = [4]gamemap.Point{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
