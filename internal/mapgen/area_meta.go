package mapgen

import (
	"math"

	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/pathing"
)

// XStart is the horizontal anchor of an area search
type XStart int

const (
	XLeft XStart = iota
	XCenter
	XRight
)

// YStart is the vertical anchor of an area search
type YStart int

const (
	YTop YStart = iota
	YCenter
	YBottom
)

func anchor(m *gamemap.Map, x XStart, y YStart) gamemap.Point {
	var p gamemap.Point
	switch x {
	case XLeft:
		p.X = 1
	case XRight:
		p.X = m.Width - 2
	default:
		p.X = m.Width / 2
	}
	switch y {
	case YTop:
		p.Y = 1
	case YBottom:
		p.Y = m.Height - 2
	default:
		p.Y = m.Height / 2
	}
	return p
}

// nearest returns the cell closest to p, by squared distance, among cells
// accepted by ok. Ties go to the lowest index.
func nearest(m *gamemap.Map, p gamemap.Point, ok func(idx int) bool) (int, bool) {
	best, found := math.MaxInt, -1
	for idx := range m.Tiles {
		if !ok(idx) {
			continue
		}
		x, y := m.XY(idx)
		if d := (x-p.X)*(x-p.X) + (y-p.Y)*(y-p.Y); d < best {
			best, found = d, idx
		}
	}
	return found, found >= 0
}

// isStartTile reports whether a player may be placed on the tile
func isStartTile(t gamemap.TileType) bool {
	return t == gamemap.Floor || t == gamemap.WoodFloor || t == gamemap.Grass
}

// AreaStartingPosition starts the player on the open cell nearest an anchor.
// When Transition is set the cell is also recorded as that entrance.
type AreaStartingPosition struct {
	X          XStart
	Y          YStart
	Transition string
}

func NewAreaStartingPosition(x XStart, y YStart) *AreaStartingPosition {
	return &AreaStartingPosition{X: x, Y: y}
}

func (b *AreaStartingPosition) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	idx, ok := nearest(m, anchor(m, b.X, b.Y), func(i int) bool {
		return isStartTile(m.Tiles[i])
	})
	if !ok {
		fatal(ErrNoStartFloor)
	}
	x, y := m.XY(idx)
	m.SetStart(x, y)
	if b.Transition != "" {
		ctx.Entrances[b.Transition] = idx
	}
}

// AreaEndingPosition puts the down stairs on the floor cell nearest an anchor
type AreaEndingPosition struct {
	X XStart
	Y YStart
}

func NewAreaEndingPosition(x XStart, y YStart) *AreaEndingPosition {
	return &AreaEndingPosition{X: x, Y: y}
}

func (b *AreaEndingPosition) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	start, hasStart := ctx.startIndex()
	idx, ok := nearest(m, anchor(m, b.X, b.Y), func(i int) bool {
		return m.Tiles[i] == gamemap.Floor && !(hasStart && i == start)
	})
	if !ok {
		fatalf(ErrNoExit, "no floor near the ending anchor")
	}
	m.Tiles[idx] = gamemap.DownStairs
	ctx.TakeSnapshot()
}

// CullUnreachable walls off ground that cannot be reached from the start, or
// from the open cell nearest the centre when no start is set yet. Only plain
// ground is culled: water, bridges and stairs stamped by earlier builders
// stay, though spawns on any unreachable cell are dropped.
type CullUnreachable struct{}

func NewCullUnreachable() *CullUnreachable {
	return &CullUnreachable{}
}

func (b *CullUnreachable) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	start, ok := ctx.startIndex()
	if !ok || !m.Tiles[start].Walkable() {
		start, ok = nearest(m, gamemap.Point{X: m.Width / 2, Y: m.Height / 2}, func(i int) bool {
			return m.Tiles[i].Walkable()
		})
		if !ok {
			fatalf(ErrNoStartFloor, "nothing walkable to cull from")
		}
	}

	dist := pathing.DistanceMap(m, []int{start}, cullDepth(m), pathing.Blocked{})
	culled := 0
	for idx, t := range m.Tiles {
		if cullable(t) && math.IsInf(dist[idx], 1) {
			m.Tiles[idx] = gamemap.Wall
			culled++
		}
	}
	ctx.dropSpawns(func(s Spawn) bool {
		return !math.IsInf(dist[s.Index], 1)
	})
	logger.Debug("culled unreachable cells", "culled", culled)
	ctx.TakeSnapshot()
}

func cullable(t gamemap.TileType) bool {
	switch t {
	case gamemap.Floor, gamemap.WoodFloor, gamemap.Grass, gamemap.Road, gamemap.Gravel:
		return true
	}
	return false
}

// cullDepth is a search limit no real path on the map can exceed
func cullDepth(m *gamemap.Map) float64 {
	return math.Max(1000, float64(2*m.Size()))
}

// DistantExit puts the down stairs on the floor cell farthest from the start
type DistantExit struct{}

func NewDistantExit() *DistantExit {
	return &DistantExit{}
}

func (b *DistantExit) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	start, ok := ctx.startIndex()
	if !ok {
		fatalf(ErrNoStartingPosition, "distant exit")
	}

	dist := pathing.DistanceMap(m, []int{start}, cullDepth(m), pathing.Blocked{})
	exit, farthest := -1, 0.0
	for idx, t := range m.Tiles {
		if t != gamemap.Floor || math.IsInf(dist[idx], 1) {
			continue
		}
		if dist[idx] > farthest {
			exit, farthest = idx, dist[idx]
		}
	}
	if exit < 0 {
		fatalf(ErrNoExit, "no floor reachable from the start")
	}
	m.Tiles[exit] = gamemap.DownStairs
	ctx.TakeSnapshot()
}

// DoorPlacement puts doors at pinch points. With corridors it tries the
// mouth of each corridor; otherwise it scans the map and keeps one
// candidate in three.
type DoorPlacement struct{}

func NewDoorPlacement() *DoorPlacement {
	return &DoorPlacement{}
}

func (b *DoorPlacement) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	claimed := ctx.claimed()
	place := func(idx int) {
		ctx.addSpawn(idx, "Door")
		claimed.Put(idx)
	}

	if ctx.Corridors != nil {
		for _, hall := range ctx.Corridors {
			if len(hall) > 2 && !claimed.Has(hall[0]) && doorPossible(m, hall[0]) {
				place(hall[0])
			}
		}
		return
	}

	for idx, t := range m.Tiles {
		if t == gamemap.Floor && !claimed.Has(idx) && doorPossible(m, idx) && rng.RollDice(1, 3) == 1 {
			place(idx)
		}
	}
}

// doorPossible reports whether idx is a floor cell squeezed between two
// walls, open on the other axis
func doorPossible(m *gamemap.Map, idx int) bool {
	if m.Tiles[idx] != gamemap.Floor {
		return false
	}
	x, y := m.XY(idx)
	if x <= 1 || x >= m.Width-2 || y <= 1 || y >= m.Height-2 {
		return false
	}
	west, east := m.Tiles[idx-1], m.Tiles[idx+1]
	north, south := m.Tiles[idx-m.Width], m.Tiles[idx+m.Width]

	eastWest := west == gamemap.Floor && east == gamemap.Floor && north == gamemap.Wall && south == gamemap.Wall
	northSouth := west == gamemap.Wall && east == gamemap.Wall && north == gamemap.Floor && south == gamemap.Floor
	return eastWest || northSouth
}
