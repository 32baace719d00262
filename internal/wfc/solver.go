package wfc

import (
	"errors"
	"slices"
	"sort"

	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
)

var (
	ErrContradiction = errors.New("wfc: contradiction - no valid chunk for cell")
	ErrInvalidSize   = errors.New("wfc: map is smaller than one chunk")
	ErrNoPatterns    = errors.New("wfc: source map yields no patterns")
)

// Cell is one chunk-sized slot of the output grid
type Cell struct {
	X, Y      int
	Collapsed bool
	Chunk     int // index into the constraints, valid once collapsed

	// neighbours is the number of collapsed neighbours, refreshed every step.
	neighbours int
}

// Solver collapses the output grid one chunk at a time, always preferring
// the cell with the most collapsed neighbours
type Solver struct {
	Width, Height int
	ChunkSize     int
	Grid          []*Cell
	constraints   []Chunk
	remaining     []*Cell
	possible      bool
}

// NewSolver prepares a solver covering as many whole chunks as fit in m
func NewSolver(constraints []Chunk, chunkSize int, m *gamemap.Map) *Solver {
	s := &Solver{
		Width:       m.Width / chunkSize,
		Height:      m.Height / chunkSize,
		ChunkSize:   chunkSize,
		constraints: constraints,
		possible:    true,
	}
	s.Grid = make([]*Cell, 0, s.Width*s.Height)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			s.Grid = append(s.Grid, &Cell{X: x, Y: y})
		}
	}
	s.remaining = slices.Clone(s.Grid)
	return s
}

// Possible reports whether the solver is still free of contradictions
func (s *Solver) Possible() bool {
	return s.possible
}

// Iteration collapses one cell and stamps it onto m. It returns true when
// the grid is complete or a contradiction was hit.
func (s *Solver) Iteration(m *gamemap.Map, rng dice.Roller) bool {
	if len(s.remaining) == 0 {
		return true
	}

	anyNeighbours := false
	for _, c := range s.remaining {
		c.neighbours = 0
		for _, d := range AllDirections() {
			if n := s.neighbor(c, d); n != nil && n.Collapsed {
				c.neighbours++
			}
		}
		if c.neighbours > 0 {
			anyNeighbours = true
		}
	}
	sort.SliceStable(s.remaining, func(i, j int) bool {
		return s.remaining[i].neighbours > s.remaining[j].neighbours
	})

	pick := 0
	if !anyNeighbours && len(s.remaining) > 1 {
		pick = rng.RollDice(1, len(s.remaining)) - 1
	}
	cell := s.remaining[pick]
	s.remaining = append(s.remaining[:pick], s.remaining[pick+1:]...)

	var options [][]int
	for _, d := range AllDirections() {
		n := s.neighbor(cell, d)
		if n == nil || !n.Collapsed {
			continue
		}
		options = append(options, s.constraints[n.Chunk].CompatibleWith[d.Opposite()])
	}

	if len(options) == 0 {
		cell.Chunk = 0
		if len(s.constraints) > 1 {
			cell.Chunk = rng.RollDice(1, len(s.constraints)) - 1
		}
		s.collapse(m, cell)
		return false
	}

	var candidates []int
	for _, idx := range options[0] {
		ok := true
		for _, o := range options[1:] {
			if !slices.Contains(o, idx) {
				ok = false
				break
			}
		}
		if ok && !slices.Contains(candidates, idx) {
			candidates = append(candidates, idx)
		}
	}
	if len(candidates) == 0 {
		s.possible = false
		return true
	}

	cell.Chunk = candidates[0]
	if len(candidates) > 1 {
		cell.Chunk = candidates[rng.RollDice(1, len(candidates))-1]
	}
	s.collapse(m, cell)
	return false
}

// Solve runs iterations until the grid is complete. The snapshot callback,
// when set, is invoked after every collapsed cell.
func (s *Solver) Solve(m *gamemap.Map, rng dice.Roller, snapshot func()) error {
	for !s.Iteration(m, rng) {
		if snapshot != nil {
			snapshot()
		}
	}
	if !s.possible {
		return ErrContradiction
	}
	return nil
}

func (s *Solver) collapse(m *gamemap.Map, cell *Cell) {
	cell.Collapsed = true
	pattern := s.constraints[cell.Chunk].Pattern
	left, top := cell.X*s.ChunkSize, cell.Y*s.ChunkSize
	i := 0
	for y := 0; y < s.ChunkSize; y++ {
		for x := 0; x < s.ChunkSize; x++ {
			m.Tiles[m.Index(left+x, top+y)] = pattern[i]
			i++
		}
	}
}

// neighbor returns the cell on the given side, or nil at the grid edge
func (s *Solver) neighbor(c *Cell, d Direction) *Cell {
	dx, dy := d.Step()
	x, y := c.X+dx, c.Y+dy
	if x < 0 || x >= s.Width || y < 0 || y >= s.Height {
		return nil
	}
	return s.Grid[y*s.Width+x]
}
