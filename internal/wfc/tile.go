package wfc

import "github.com/lawnchairsociety/delvegen/internal/gamemap"

// Direction is a side of a chunk, clockwise from north
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var directionNames = [...]string{"north", "east", "south", "west"}

// directionSteps holds the chunk-grid offset for each side
var directionSteps = [...]gamemap.Point{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

func (d Direction) valid() bool {
	return d >= North && d <= West
}

func (d Direction) String() string {
	if !d.valid() {
		return "unknown"
	}
	return directionNames[d]
}

// Opposite returns the facing side; out-of-range values are returned as is
func (d Direction) Opposite() Direction {
	if !d.valid() {
		return d
	}
	return (d + 2) % 4
}

// Step returns the offset to the neighbouring chunk on side d
func (d Direction) Step() (dx, dy int) {
	if !d.valid() {
		return 0, 0
	}
	return directionSteps[d].X, directionSteps[d].Y
}

// AllDirections lists the sides in clockwise order
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}

// Pattern is a square block of tiles, row-major
type Pattern []gamemap.TileType

// Chunk is a pattern together with its edge openings and the patterns
// allowed next to it on each side
type Chunk struct {
	Pattern Pattern
	// Exits marks the floor cells along each edge.
	Exits    [4][]bool
	HasExits bool
	// CompatibleWith lists, per side, the chunk indices that may sit there.
	CompatibleWith [4][]int
}

// ExitCount returns the number of open cells on one side
func (c *Chunk) ExitCount(d Direction) int {
	count := 0
	for _, open := range c.Exits[d] {
		if open {
			count++
		}
	}
	return count
}
