package mapgen

import (
	"math"
	"sort"

	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
)

// requireRooms aborts the chain when no builder has produced rooms
func requireRooms(ctx *BuildContext, builder string) []gamemap.Rect {
	if ctx.Rooms == nil {
		fatalf(ErrNoRooms, "%s", builder)
	}
	return ctx.Rooms
}

// RoomSort is a room ordering policy
type RoomSort int

const (
	Leftmost RoomSort = iota
	Rightmost
	Topmost
	Bottommost
	Central
)

// RoomSorter reorders rooms so later builders connect them in a chosen order
type RoomSorter struct {
	By RoomSort
}

func NewRoomSorter(by RoomSort) *RoomSorter {
	return &RoomSorter{By: by}
}

func (b *RoomSorter) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	rooms := requireRooms(ctx, "room sorter")
	center := gamemap.Point{X: ctx.Map.Width / 2, Y: ctx.Map.Height / 2}

	sort.SliceStable(rooms, func(i, j int) bool {
		a, c := rooms[i], rooms[j]
		switch b.By {
		case Rightmost:
			return a.X2 > c.X2
		case Topmost:
			return a.Y1 < c.Y1
		case Bottommost:
			return a.Y2 > c.Y2
		case Central:
			return Pythagoras.Distance(a.Center(), center) < Pythagoras.Distance(c.Center(), center)
		default:
			return a.X1 < c.X1
		}
	})
}

// RoomDrawer carves every room into the map
type RoomDrawer struct {
	// Circles turns roughly one room in four into a circle.
	Circles bool
}

func NewRoomDrawer() *RoomDrawer {
	return &RoomDrawer{}
}

func (b *RoomDrawer) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	rooms := requireRooms(ctx, "room drawer")
	for _, room := range rooms {
		if b.Circles && rng.RollDice(1, 4) == 1 {
			circle(ctx.Map, room)
		} else {
			rectangle(ctx.Map, room)
		}
		ctx.TakeSnapshot()
	}
}

func rectangle(m *gamemap.Map, room gamemap.Rect) {
	for y := room.Y1 + 1; y <= room.Y2; y++ {
		for x := room.X1 + 1; x <= room.X2; x++ {
			if x > 0 && x < m.Width-1 && y > 0 && y < m.Height-1 {
				m.Tiles[m.Index(x, y)] = gamemap.Floor
			}
		}
	}
}

func circle(m *gamemap.Map, room gamemap.Rect) {
	radius := float64(min(room.Width(), room.Height())) / 2.0
	center := room.Center()
	for y := room.Y1; y <= room.Y2; y++ {
		for x := room.X1; x <= room.X2; x++ {
			if x <= 0 || x >= m.Width-1 || y <= 0 || y >= m.Height-1 {
				continue
			}
			if Pythagoras.Distance(center, gamemap.Point{X: x, Y: y}) <= radius {
				m.Tiles[m.Index(x, y)] = gamemap.Floor
			}
		}
	}
}

// RoomExploder sends short drunkard walks out of each room
type RoomExploder struct{}

func NewRoomExploder() *RoomExploder {
	return &RoomExploder{}
}

func (b *RoomExploder) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	rooms := requireRooms(ctx, "room exploder")
	m := ctx.Map
	for _, room := range rooms {
		start := room.Center()
		diggers := rng.RollDice(1, 20) - 5
		for i := 0; i < diggers; i++ {
			x, y := start.X, start.Y
			for life := 20; life > 0; life-- {
				paint(m, NoSymmetry, 1, x, y)
				stagger(rng, m, &x, &y, 2)
			}
		}
		ctx.TakeSnapshot()
	}
}

// RoomCornerRounder fills in room corners that touch two walls
type RoomCornerRounder struct{}

func NewRoomCornerRounder() *RoomCornerRounder {
	return &RoomCornerRounder{}
}

func (b *RoomCornerRounder) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	rooms := requireRooms(ctx, "room corner rounder")
	m := ctx.Map
	for _, room := range rooms {
		w, h := room.Width(), room.Height()
		corners := [4]gamemap.Point{
			{X: room.X1 + 1, Y: room.Y1 + 1},
			{X: room.X1 + w, Y: room.Y1 + 1},
			{X: room.X1 + 1, Y: room.Y1 + h},
			{X: room.X1 + w, Y: room.Y1 + h},
		}
		for _, c := range corners {
			if !m.InBounds(c.X, c.Y) {
				continue
			}
			idx := m.Index(c.X, c.Y)
			if m.Tiles[idx] == gamemap.Floor && countNeighbours(m, idx, gamemap.Wall) == 2 {
				m.Tiles[idx] = gamemap.Wall
			}
		}
		ctx.TakeSnapshot()
	}
}

// RoomBasedSpawner rolls spawns inside every room but the first
type RoomBasedSpawner struct{}

func NewRoomBasedSpawner() *RoomBasedSpawner {
	return &RoomBasedSpawner{}
}

func (b *RoomBasedSpawner) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	rooms := requireRooms(ctx, "room based spawner")
	m := ctx.Map
	for i, room := range rooms {
		if i == 0 {
			continue
		}
		var area []int
		for y := room.Y1 + 1; y <= room.Y2; y++ {
			for x := room.X1 + 1; x <= room.X2; x++ {
				if m.InBounds(x, y) && m.Tiles[m.Index(x, y)] == gamemap.Floor {
					area = append(area, m.Index(x, y))
				}
			}
		}
		spawnRegion(rng, ctx, area)
	}
}

// RoomBasedStartingPosition starts the player in the centre of the first room
type RoomBasedStartingPosition struct{}

func NewRoomBasedStartingPosition() *RoomBasedStartingPosition {
	return &RoomBasedStartingPosition{}
}

func (b *RoomBasedStartingPosition) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	rooms := requireRooms(ctx, "room based starting position")
	if len(rooms) == 0 {
		fatalf(ErrNoStartFloor, "no rooms to start in")
	}
	c := rooms[0].Center()
	ctx.Map.SetStart(c.X, c.Y)
}

// RoomBasedStairs puts the down stairs in the centre of the last room
type RoomBasedStairs struct{}

func NewRoomBasedStairs() *RoomBasedStairs {
	return &RoomBasedStairs{}
}

func (b *RoomBasedStairs) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	rooms := requireRooms(ctx, "room based stairs")
	if len(rooms) == 0 {
		fatalf(ErrNoExit, "no rooms to place stairs in")
	}
	c := rooms[len(rooms)-1].Center()
	ctx.Map.Tiles[ctx.Map.Index(c.X, c.Y)] = gamemap.DownStairs
	ctx.TakeSnapshot()
}

// roomCentreDistance is used when ranking rooms by proximity
func roomCentreDistance(a, b gamemap.Rect) float64 {
	ca, cb := a.Center(), b.Center()
	return math.Hypot(float64(ca.X-cb.X), float64(ca.Y-cb.Y))
}
