package mapgen

import (
	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
)

// Direction is a maze wall side
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var directionDelta = [4]gamemap.Point{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

// Opposite returns the facing side
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// mazeCell is one logical maze cell
type mazeCell struct {
	walls   [4]bool
	visited bool
}

// Maze carves a perfect maze at half resolution using randomized
// depth-first search with backtracking
type Maze struct{}

func NewMaze() *Maze {
	return &Maze{}
}

func (b *Maze) BuildInitial(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	cols := m.Width/2 - 2
	rows := m.Height/2 - 2
	if cols < 1 || rows < 1 {
		return
	}

	cells := make([]mazeCell, cols*rows)
	for i := range cells {
		cells[i].walls = [4]bool{true, true, true, true}
	}
	at := func(c, r int) *mazeCell { return &cells[r*cols+c] }

	type pos struct{ c, r int }
	stack := []pos{{0, 0}}
	at(0, 0).visited = true
	steps := 0
	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		var options []Direction
		for d := North; d <= West; d++ {
			nc, nr := cur.c+directionDelta[d].X, cur.r+directionDelta[d].Y
			if nc >= 0 && nc < cols && nr >= 0 && nr < rows && !at(nc, nr).visited {
				options = append(options, d)
			}
		}
		if len(options) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := options[0]
		if len(options) > 1 {
			d = options[rng.RollDice(1, len(options))-1]
		}
		nc, nr := cur.c+directionDelta[d].X, cur.r+directionDelta[d].Y
		at(cur.c, cur.r).walls[d] = false
		next := at(nc, nr)
		next.walls[d.Opposite()] = false
		next.visited = true
		stack = append(stack, pos{nc, nr})

		steps++
		if steps%10 == 0 {
			b.copyToMap(m, cells, cols, rows)
			ctx.TakeSnapshot()
		}
	}
	b.copyToMap(m, cells, cols, rows)
	ctx.TakeSnapshot()
}

// copyToMap expands logical cells into physical tiles. Cell (c, r) sits at
// (2c+2, 2r+2) and each open wall carves the tile beside it.
func (b *Maze) copyToMap(m *gamemap.Map, cells []mazeCell, cols, rows int) {
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := cells[r*cols+c]
			x, y := (c+1)*2, (r+1)*2
			m.Tiles[m.Index(x, y)] = gamemap.Floor
			for d := North; d <= West; d++ {
				if !cell.walls[d] {
					m.Tiles[m.Index(x+directionDelta[d].X, y+directionDelta[d].Y)] = gamemap.Floor
				}
			}
		}
	}
}
