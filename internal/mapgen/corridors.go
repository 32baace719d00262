package mapgen

import (
	"sort"

	"github.com/lawnchairsociety/delvegen/internal/dice"
)

// DoglegCorridors joins consecutive rooms with L-shaped tunnels
type DoglegCorridors struct{}

func NewDoglegCorridors() *DoglegCorridors {
	return &DoglegCorridors{}
}

func (b *DoglegCorridors) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	rooms := requireRooms(ctx, "dogleg corridors")
	m := ctx.Map
	corridors := [][]int{}
	for i := 1; i < len(rooms); i++ {
		prev, next := rooms[i-1].Center(), rooms[i].Center()
		var corridor []int
		if rng.Range(0, 2) == 1 {
			corridor = append(corridor, applyHorizontalTunnel(m, prev.X, next.X, prev.Y)...)
			corridor = append(corridor, applyVerticalTunnel(m, prev.Y, next.Y, next.X)...)
		} else {
			corridor = append(corridor, applyVerticalTunnel(m, prev.Y, next.Y, prev.X)...)
			corridor = append(corridor, applyHorizontalTunnel(m, prev.X, next.X, next.Y)...)
		}
		corridors = append(corridors, corridor)
		ctx.TakeSnapshot()
	}
	ctx.Corridors = corridors
}

// BSPCorridors joins random points of consecutive rooms
type BSPCorridors struct{}

func NewBSPCorridors() *BSPCorridors {
	return &BSPCorridors{}
}

func (b *BSPCorridors) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	rooms := requireRooms(ctx, "bsp corridors")
	m := ctx.Map
	corridors := [][]int{}
	for i := 0; i < len(rooms)-1; i++ {
		room, next := rooms[i], rooms[i+1]
		sx := room.X1 + rng.RollDice(1, max(room.Width()-1, 1))
		sy := room.Y1 + rng.RollDice(1, max(room.Height()-1, 1))
		ex := next.X1 + rng.RollDice(1, max(next.Width()-1, 1))
		ey := next.Y1 + rng.RollDice(1, max(next.Height()-1, 1))
		corridors = append(corridors, drawCorridor(m, sx, sy, ex, ey))
		ctx.TakeSnapshot()
	}
	ctx.Corridors = corridors
}

// NearestCorridors joins each room to its nearest room that has not yet
// been joined
type NearestCorridors struct{}

func NewNearestCorridors() *NearestCorridors {
	return &NearestCorridors{}
}

func (b *NearestCorridors) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	rooms := requireRooms(ctx, "nearest corridors")
	m := ctx.Map
	corridors := [][]int{}
	connected := make([]bool, len(rooms))

	type candidate struct {
		room     int
		distance float64
	}
	for i, room := range rooms {
		var candidates []candidate
		for j, other := range rooms {
			if i != j && !connected[j] {
				candidates = append(candidates, candidate{room: j, distance: roomCentreDistance(room, other)})
			}
		}
		if len(candidates) == 0 {
			continue
		}
		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].distance < candidates[b].distance
		})

		corridor := carveLine(m, room.Center(), rooms[candidates[0].room].Center())
		connected[i] = true
		corridors = append(corridors, corridor)
		ctx.TakeSnapshot()
	}
	ctx.Corridors = corridors
}

// StraightLineCorridors joins consecutive rooms with straight lines
type StraightLineCorridors struct{}

func NewStraightLineCorridors() *StraightLineCorridors {
	return &StraightLineCorridors{}
}

func (b *StraightLineCorridors) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	rooms := requireRooms(ctx, "straight line corridors")
	m := ctx.Map
	corridors := [][]int{}
	for i := 1; i < len(rooms); i++ {
		corridors = append(corridors, carveLine(m, rooms[i-1].Center(), rooms[i].Center()))
		ctx.TakeSnapshot()
	}
	ctx.Corridors = corridors
}

// CorridorSpawner rolls spawns along every corridor longer than six cells
type CorridorSpawner struct{}

func NewCorridorSpawner() *CorridorSpawner {
	return &CorridorSpawner{}
}

func (b *CorridorSpawner) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	if ctx.Corridors == nil {
		fatalf(ErrNoCorridors, "corridor spawner")
	}
	for _, corridor := range ctx.Corridors {
		if len(corridor) > 6 {
			spawnRegion(rng, ctx, corridor)
		}
	}
}
