package gamemap

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"
)

// Point is a cell coordinate
type Point struct {
	X, Y int
}

// Marker is a decoration painted over a cell, such as a bloodstain
type Marker string

// Bloodstain marks a cell where something bled
const Bloodstain Marker = "bloodstain"

// Map is the tile grid of one level. Cells are addressed by Index(x, y).
type Map struct {
	Width    int
	Height   int
	Tiles    []TileType
	Revealed []bool
	Visible  []bool
	Markers  map[int]Marker
	Name     string
	Depth    int

	// StartingPosition is nil until a builder picks one.
	StartingPosition *Point
}

// New creates a map filled with walls
func New(depth, width, height int, name string) *Map {
	size := width * height
	return &Map{
		Width:    width,
		Height:   height,
		Tiles:    make([]TileType, size),
		Revealed: make([]bool, size),
		Visible:  make([]bool, size),
		Markers:  make(map[int]Marker),
		Name:     name,
		Depth:    depth,
	}
}

// Index converts a coordinate into a cell index
func (m *Map) Index(x, y int) int {
	return y*m.Width + x
}

// XY converts a cell index into a coordinate
func (m *Map) XY(idx int) (int, int) {
	return idx % m.Width, idx / m.Width
}

// InBounds reports whether the coordinate lies on the map
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// Size is the number of cells
func (m *Map) Size() int {
	return len(m.Tiles)
}

// IsBorder reports whether the cell lies on the outer edge
func (m *Map) IsBorder(idx int) bool {
	x, y := m.XY(idx)
	return x == 0 || y == 0 || x == m.Width-1 || y == m.Height-1
}

// Fill sets every cell to t
func (m *Map) Fill(t TileType) {
	for i := range m.Tiles {
		m.Tiles[i] = t
	}
}

// Count returns how many cells hold t
func (m *Map) Count(t TileType) int {
	n := 0
	for _, tile := range m.Tiles {
		if tile == t {
			n++
		}
	}
	return n
}

// SetStart records the starting position
func (m *Map) SetStart(x, y int) {
	m.StartingPosition = &Point{X: x, Y: y}
}

// StartIndex returns the starting position as a cell index
func (m *Map) StartIndex() (int, bool) {
	if m.StartingPosition == nil {
		return 0, false
	}
	return m.Index(m.StartingPosition.X, m.StartingPosition.Y), true
}

// Clone returns a deep copy of the map
func (m *Map) Clone() *Map {
	c := &Map{
		Width:    m.Width,
		Height:   m.Height,
		Tiles:    append([]TileType(nil), m.Tiles...),
		Revealed: append([]bool(nil), m.Revealed...),
		Visible:  append([]bool(nil), m.Visible...),
		Markers:  make(map[int]Marker, len(m.Markers)),
		Name:     m.Name,
		Depth:    m.Depth,
	}
	for k, v := range m.Markers {
		c.Markers[k] = v
	}
	if m.StartingPosition != nil {
		p := *m.StartingPosition
		c.StartingPosition = &p
	}
	return c
}

// RevealAll marks every cell as revealed, used by debug snapshots
func (m *Map) RevealAll() {
	for i := range m.Revealed {
		m.Revealed[i] = true
	}
}

// Rows renders the map as one string per row using tile glyphs
func (m *Map) Rows() []string {
	rows := make([]string, m.Height)
	line := make([]rune, m.Width)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			line[x] = m.Tiles[m.Index(x, y)].Glyph()
		}
		rows[y] = string(line)
	}
	return rows
}

// FromRows rebuilds a map from the output of Rows
func FromRows(depth int, name string, rows []string) (*Map, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("gamemap: no rows")
	}
	width := utf8.RuneCountInString(rows[0])
	m := New(depth, width, len(rows), name)
	for y, row := range rows {
		if n := utf8.RuneCountInString(row); n != width {
			return nil, fmt.Errorf("gamemap: row %d is %d wide, want %d", y, n, width)
		}
		x := 0
		for _, r := range row {
			t, ok := TileForGlyph(r)
			if !ok {
				return nil, fmt.Errorf("gamemap: unknown glyph %q at (%d, %d)", r, x, y)
			}
			m.Tiles[m.Index(x, y)] = t
			x++
		}
	}
	return m, nil
}

// Fingerprint hashes the dimensions and tiles with BLAKE2b-256. Two maps
// with the same fingerprint have identical layouts.
func (m *Map) Fingerprint() string {
	h, _ := blake2b.New256(nil)
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:4], uint32(m.Width))
	binary.LittleEndian.PutUint32(buf[4:], uint32(m.Height))
	h.Write(buf[:])
	for _, t := range m.Tiles {
		h.Write([]byte{byte(t)})
	}
	return hex.EncodeToString(h.Sum(nil))
}
