package prefab

import "github.com/lawnchairsociety/delvegen/internal/gamemap"

// Glyph is what a template character turns into when stamped
type Glyph struct {
	Tile  gamemap.TileType
	Spawn string // entity placed on the cell, if any
	Start bool   // the cell becomes the starting position
}

var legend = map[rune]Glyph{
	' ': {Tile: gamemap.Floor},
	'#': {Tile: gamemap.Wall},
	'@': {Tile: gamemap.Floor, Start: true},
	'>': {Tile: gamemap.DownStairs},
	'<': {Tile: gamemap.UpStairs},
	'≈': {Tile: gamemap.DeepWater},
	'~': {Tile: gamemap.ShallowWater},
	'=': {Tile: gamemap.Bridge},
	'_': {Tile: gamemap.WoodFloor},
	'g': {Tile: gamemap.Floor, Spawn: "Goblin"},
	'o': {Tile: gamemap.Floor, Spawn: "Orc"},
	'O': {Tile: gamemap.Floor, Spawn: "Orc Leader"},
	'k': {Tile: gamemap.Floor, Spawn: "Kobold"},
	'w': {Tile: gamemap.Floor, Spawn: "Wolf"},
	'^': {Tile: gamemap.Floor, Spawn: "Bear Trap"},
	'%': {Tile: gamemap.Floor, Spawn: "Rations"},
	'!': {Tile: gamemap.Floor, Spawn: "Health Potion"},
	'?': {Tile: gamemap.Floor, Spawn: "Magic Mapping Scroll"},
	'/': {Tile: gamemap.Floor, Spawn: "Longsword"},
	'☼': {Tile: gamemap.Floor, Spawn: "Watch Fire"},
}

// Decode looks up a template character. The second return is false for
// characters outside the legend.
func Decode(ch rune) (Glyph, bool) {
	g, ok := legend[ch]
	return g, ok
}
