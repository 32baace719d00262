package mapgen

import (
	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
	"github.com/lawnchairsociety/delvegen/internal/logger"
)

// DrunkSpawnMode picks where each new digger starts
type DrunkSpawnMode int

const (
	// StartingPoint drops every digger at the map centre.
	StartingPoint DrunkSpawnMode = iota
	// RandomPoint drops the first digger at the centre and the rest anywhere.
	RandomPoint
)

// DrunkardsWalk erodes floor with short-lived random walkers until the
// floor share reaches FloorPercent
type DrunkardsWalk struct {
	SpawnMode    DrunkSpawnMode
	Lifetime     int
	FloorPercent float64
	BrushSize    int
	Symmetry     Symmetry
}

func NewDrunkOpenArea() *DrunkardsWalk {
	return &DrunkardsWalk{SpawnMode: StartingPoint, Lifetime: 400, FloorPercent: 0.5, BrushSize: 1}
}

func NewDrunkOpenHalls() *DrunkardsWalk {
	return &DrunkardsWalk{SpawnMode: RandomPoint, Lifetime: 400, FloorPercent: 0.5, BrushSize: 1}
}

func NewDrunkWindingPassages() *DrunkardsWalk {
	return &DrunkardsWalk{SpawnMode: RandomPoint, Lifetime: 400, FloorPercent: 0.4, BrushSize: 1}
}

func NewDrunkFatPassages() *DrunkardsWalk {
	return &DrunkardsWalk{SpawnMode: RandomPoint, Lifetime: 100, FloorPercent: 0.4, BrushSize: 2}
}

func NewDrunkFearfulSymmetry() *DrunkardsWalk {
	return &DrunkardsWalk{SpawnMode: RandomPoint, Lifetime: 100, FloorPercent: 0.4, BrushSize: 1, Symmetry: Both}
}

func (b *DrunkardsWalk) BuildInitial(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	start := gamemap.Point{X: m.Width / 2, Y: m.Height / 2}
	m.Tiles[m.Index(start.X, start.Y)] = gamemap.Floor

	target := floorTarget(m, b.FloorPercent, 2)
	diggers := 0
	for floorRatio(m) < target {
		if diggers >= maxDigs(m) {
			fatalf(ErrMapTooSmall, "drunkard's walk stalled at %.2f floor on %dx%d", floorRatio(m), m.Width, m.Height)
		}
		x, y := start.X, start.Y
		if b.SpawnMode == RandomPoint && diggers > 0 {
			x = rng.RollDice(1, m.Width-3) + 1
			y = rng.RollDice(1, m.Height-3) + 1
		}

		for life := b.Lifetime; life > 0; life-- {
			paint(m, b.Symmetry, b.BrushSize, x, y)
			stagger(rng, m, &x, &y, 2)
		}
		diggers++
		ctx.TakeSnapshot()
	}
	logger.Debug("drunkard's walk finished", "diggers", diggers, "floor", m.Count(gamemap.Floor))
}
