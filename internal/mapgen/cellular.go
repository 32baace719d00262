package mapgen

import (
	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
)

// CellularAutomata grows organic caverns from random noise
type CellularAutomata struct {
	Iterations int
}

// NewCellularAutomata returns a cavern builder with fifteen smoothing passes
func NewCellularAutomata() *CellularAutomata {
	return &CellularAutomata{Iterations: 15}
}

func (b *CellularAutomata) BuildInitial(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			idx := m.Index(x, y)
			if rng.RollDice(1, 100) > 55 {
				m.Tiles[idx] = gamemap.Floor
			} else {
				m.Tiles[idx] = gamemap.Wall
			}
		}
	}
	ctx.TakeSnapshot()

	for i := 0; i < b.Iterations; i++ {
		next := make([]gamemap.TileType, len(m.Tiles))
		copy(next, m.Tiles)
		for y := 1; y < m.Height-1; y++ {
			for x := 1; x < m.Width-1; x++ {
				walls := 0
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if (dx != 0 || dy != 0) && m.Tiles[m.Index(x+dx, y+dy)] == gamemap.Wall {
							walls++
						}
					}
				}
				idx := m.Index(x, y)
				if walls > 4 || walls == 0 {
					next[idx] = gamemap.Wall
				} else {
					next[idx] = gamemap.Floor
				}
			}
		}
		m.Tiles = next
		ctx.TakeSnapshot()
	}
}
