package gamemap

import "fmt"

// TileType is the terrain stored in a single map cell
type TileType int

const (
	Wall TileType = iota
	Floor
	WoodFloor
	Road
	Grass
	Gravel
	ShallowWater
	DeepWater
	Bridge
	UpStairs
	DownStairs
	TownWall
)

var tileNames = [...]string{
	Wall:         "wall",
	Floor:        "floor",
	WoodFloor:    "wood_floor",
	Road:         "road",
	Grass:        "grass",
	Gravel:       "gravel",
	ShallowWater: "shallow_water",
	DeepWater:    "deep_water",
	Bridge:       "bridge",
	UpStairs:     "up_stairs",
	DownStairs:   "down_stairs",
	TownWall:     "town_wall",
}

var tileGlyphs = [...]rune{
	Wall:         '#',
	Floor:        '.',
	WoodFloor:    '_',
	Road:         '=',
	Grass:        '"',
	Gravel:       ';',
	ShallowWater: '~',
	DeepWater:    '≈',
	Bridge:       ':',
	UpStairs:     '<',
	DownStairs:   '>',
	TownWall:     '%',
}

// AllTileTypes returns every tile type in declaration order
func AllTileTypes() []TileType {
	return []TileType{Wall, Floor, WoodFloor, Road, Grass, Gravel, ShallowWater, DeepWater, Bridge, UpStairs, DownStairs, TownWall}
}

// String returns the snake_case name of a TileType
func (t TileType) String() string {
	if t < 0 || int(t) >= len(tileNames) {
		return "unknown"
	}
	return tileNames[t]
}

// Glyph returns the character used for ASCII dumps
func (t TileType) Glyph() rune {
	if t < 0 || int(t) >= len(tileGlyphs) {
		return '?'
	}
	return tileGlyphs[t]
}

// Walkable reports whether a creature can stand on the tile
func (t TileType) Walkable() bool {
	switch t {
	case Wall, DeepWater, TownWall:
		return false
	default:
		return true
	}
}

// Opaque reports whether the tile blocks line of sight
func (t TileType) Opaque() bool {
	return t == Wall || t == TownWall
}

// Cost is the movement cost of entering the tile
func (t TileType) Cost() float64 {
	switch t {
	case Road:
		return 0.8
	case Grass:
		return 1.1
	case ShallowWater:
		return 1.2
	default:
		return 1.0
	}
}

// ParseTileType returns the TileType with the given name
func ParseTileType(name string) (TileType, error) {
	for i, n := range tileNames {
		if n == name {
			return TileType(i), nil
		}
	}
	return Wall, fmt.Errorf("gamemap: unknown tile type %q", name)
}

// MarshalText implements encoding.TextMarshaler so tiles serialize by name
func (t TileType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *TileType) UnmarshalText(text []byte) error {
	parsed, err := ParseTileType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TileForGlyph reverses Glyph
func TileForGlyph(r rune) (TileType, bool) {
	for i, g := range tileGlyphs {
		if g == r {
			return TileType(i), true
		}
	}
	return Wall, false
}
