package mapgen

import (
	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
)

// DLAAlgorithm selects how diggers move
type DLAAlgorithm int

const (
	WalkInwards DLAAlgorithm = iota
	WalkOutwards
	CentralAttractor
)

// DLA grows floor by diffusion-limited aggregation until the floor share
// reaches FloorPercent
type DLA struct {
	Algorithm    DLAAlgorithm
	BrushSize    int
	Symmetry     Symmetry
	FloorPercent float64
}

func NewDLAWalkInwards() *DLA {
	return &DLA{Algorithm: WalkInwards, BrushSize: 1, FloorPercent: 0.25}
}

func NewDLAWalkOutwards() *DLA {
	return &DLA{Algorithm: WalkOutwards, BrushSize: 2, FloorPercent: 0.25}
}

func NewDLACentralAttractor() *DLA {
	return &DLA{Algorithm: CentralAttractor, BrushSize: 2, FloorPercent: 0.25}
}

// NewDLAInsectoid mirrors a central attractor left to right
func NewDLAInsectoid() *DLA {
	return &DLA{Algorithm: CentralAttractor, BrushSize: 2, Symmetry: Horizontal, FloorPercent: 0.25}
}

func NewDLAHeavyErosion() *DLA {
	return &DLA{Algorithm: WalkInwards, BrushSize: 2, FloorPercent: 0.35}
}

func (b *DLA) BuildInitial(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	start := gamemap.Point{X: m.Width / 2, Y: m.Height / 2}
	m.Tiles[m.Index(start.X, start.Y)] = gamemap.Floor
	for _, d := range cardinals {
		m.Tiles[m.Index(start.X+d.X, start.Y+d.Y)] = gamemap.Floor
	}
	ctx.TakeSnapshot()

	target := floorTarget(m, b.FloorPercent, 2)
	for digs := 0; floorRatio(m) < target; digs++ {
		if digs >= maxDigs(m) {
			fatalf(ErrMapTooSmall, "aggregation stalled at %.2f floor on %dx%d", floorRatio(m), m.Width, m.Height)
		}
		switch b.Algorithm {
		case WalkInwards:
			b.walkInwards(rng, m)
		case WalkOutwards:
			b.walkOutwards(rng, m, start)
		case CentralAttractor:
			b.attract(rng, m, start)
		}
		ctx.TakeSnapshot()
	}
}

func (b *DLA) walkInwards(rng dice.Roller, m *gamemap.Map) {
	x := rng.RollDice(1, m.Width-3) + 1
	y := rng.RollDice(1, m.Height-3) + 1
	prevX, prevY := x, y
	for m.Tiles[m.Index(x, y)] == gamemap.Wall {
		prevX, prevY = x, y
		stagger(rng, m, &x, &y, 2)
	}
	paint(m, b.Symmetry, b.BrushSize, prevX, prevY)
}

func (b *DLA) walkOutwards(rng dice.Roller, m *gamemap.Map, start gamemap.Point) {
	x, y := start.X, start.Y
	for m.Tiles[m.Index(x, y)] == gamemap.Floor {
		stagger(rng, m, &x, &y, 2)
	}
	paint(m, b.Symmetry, b.BrushSize, x, y)
}

func (b *DLA) attract(rng dice.Roller, m *gamemap.Map, start gamemap.Point) {
	x := rng.RollDice(1, m.Width-3) + 1
	y := rng.RollDice(1, m.Height-3) + 1
	prev := gamemap.Point{X: x, Y: y}
	path := line(gamemap.Point{X: x, Y: y}, start)
	for _, p := range path {
		if m.Tiles[m.Index(p.X, p.Y)] != gamemap.Wall {
			break
		}
		prev = p
	}
	paint(m, b.Symmetry, b.BrushSize, prev.X, prev.Y)
}
