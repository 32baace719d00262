package mapgen

import (
	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
)

// SimpleRooms scatters non-overlapping rectangles and records them as rooms.
// Carving is left to RoomDrawer.
type SimpleRooms struct {
	MinSize  int
	MaxSize  int
	Attempts int
}

// NewSimpleRooms returns a room scatterer with the usual settings
func NewSimpleRooms(minSize, maxSize int) *SimpleRooms {
	return &SimpleRooms{MinSize: minSize, MaxSize: maxSize, Attempts: 30}
}

func (b *SimpleRooms) BuildInitial(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	rooms := []gamemap.Rect{}
	for i := 0; i < b.Attempts; i++ {
		w := rng.Range(b.MinSize, b.MaxSize)
		h := rng.Range(b.MinSize, b.MaxSize)
		x := rng.RollDice(1, m.Width-w-1) - 1
		y := rng.RollDice(1, m.Height-h-1) - 1
		candidate := gamemap.NewRect(x, y, w, h)

		ok := true
		for _, other := range rooms {
			if candidate.Intersects(other) {
				ok = false
				break
			}
		}
		if ok {
			rooms = append(rooms, candidate)
		}
	}
	ctx.Rooms = rooms
	ctx.TakeSnapshot()
}

// BSPDungeon places rooms by repeatedly quartering free space
type BSPDungeon struct {
	Attempts int
	rects    []gamemap.Rect
}

// NewBSPDungeon returns a space-partitioning room placer
func NewBSPDungeon() *BSPDungeon {
	return &BSPDungeon{Attempts: 500}
}

func (b *BSPDungeon) BuildInitial(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	rooms := []gamemap.Rect{}

	b.rects = b.rects[:0]
	b.rects = append(b.rects, gamemap.NewRect(2, 2, m.Width-5, m.Height-5))
	b.addSubrects(b.rects[0])

	for i := 0; i < b.Attempts; i++ {
		rect := b.randomRect(rng)
		candidate := randomSubrect(rng, rect)
		if b.isPossible(m, candidate, rooms) {
			rooms = append(rooms, candidate)
			b.addSubrects(rect)
		}
	}
	ctx.Rooms = rooms
	ctx.TakeSnapshot()
}

func (b *BSPDungeon) addSubrects(rect gamemap.Rect) {
	w := abs(rect.X1 - rect.X2)
	h := abs(rect.Y1 - rect.Y2)
	halfW := max(w/2, 1)
	halfH := max(h/2, 1)

	b.rects = append(b.rects,
		gamemap.NewRect(rect.X1, rect.Y1, halfW, halfH),
		gamemap.NewRect(rect.X1, rect.Y1+halfH, halfW, halfH),
		gamemap.NewRect(rect.X1+halfW, rect.Y1, halfW, halfH),
		gamemap.NewRect(rect.X1+halfW, rect.Y1+halfH, halfW, halfH),
	)
}

func (b *BSPDungeon) randomRect(rng dice.Roller) gamemap.Rect {
	if len(b.rects) == 1 {
		return b.rects[0]
	}
	return b.rects[rng.RollDice(1, len(b.rects))-1]
}

func randomSubrect(rng dice.Roller, rect gamemap.Rect) gamemap.Rect {
	result := rect
	rw := abs(rect.X1 - rect.X2)
	rh := abs(rect.Y1 - rect.Y2)

	w := max(3, rng.RollDice(1, min(rw, 10))-1) + 1
	h := max(3, rng.RollDice(1, min(rh, 10))-1) + 1

	result.X1 += rng.RollDice(1, 6) - 1
	result.Y1 += rng.RollDice(1, 6) - 1
	result.X2 = result.X1 + w
	result.Y2 = result.Y1 + h
	return result
}

// isPossible accepts a room that keeps a two-cell margin from the map edge
// and from every placed room
func (b *BSPDungeon) isPossible(m *gamemap.Map, rect gamemap.Rect, rooms []gamemap.Rect) bool {
	expanded := gamemap.Rect{X1: rect.X1 - 2, Y1: rect.Y1 - 2, X2: rect.X2 + 2, Y2: rect.Y2 + 2}
	for _, r := range rooms {
		if r.Intersects(rect) {
			return false
		}
	}
	for y := expanded.Y1; y <= expanded.Y2; y++ {
		for x := expanded.X1; x <= expanded.X2; x++ {
			if x > m.Width-2 || x < 1 || y > m.Height-2 || y < 1 {
				return false
			}
		}
	}
	return true
}

// BSPInterior splits the whole map into rooms separated by single walls,
// then links consecutive rooms
type BSPInterior struct {
	MinRoomSize int
	rects       []gamemap.Rect
}

// NewBSPInterior returns an interior partitioner
func NewBSPInterior() *BSPInterior {
	return &BSPInterior{MinRoomSize: 8}
}

func (b *BSPInterior) BuildInitial(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	rooms := []gamemap.Rect{}

	b.rects = b.rects[:0]
	b.rects = append(b.rects, gamemap.NewRect(1, 1, m.Width-2, m.Height-2))
	b.split(rng, b.rects[0])

	for _, r := range b.rects {
		rooms = append(rooms, r)
		for y := r.Y1; y < r.Y2; y++ {
			for x := r.X1; x < r.X2; x++ {
				if x > 0 && x < m.Width-1 && y > 0 && y < m.Height-1 {
					m.Tiles[m.Index(x, y)] = gamemap.Floor
				}
			}
		}
		ctx.TakeSnapshot()
	}

	corridors := [][]int{}
	for i := 0; i < len(rooms)-1; i++ {
		room, next := rooms[i], rooms[i+1]
		sx := room.X1 + rng.RollDice(1, max(abs(room.X1-room.X2)-1, 1))
		sy := room.Y1 + rng.RollDice(1, max(abs(room.Y1-room.Y2)-1, 1))
		ex := next.X1 + rng.RollDice(1, max(abs(next.X1-next.X2)-1, 1))
		ey := next.Y1 + rng.RollDice(1, max(abs(next.Y1-next.Y2)-1, 1))
		corridors = append(corridors, drawCorridor(m, sx, sy, ex, ey))
		ctx.TakeSnapshot()
	}
	ctx.Rooms = rooms
	ctx.Corridors = corridors
}

func (b *BSPInterior) split(rng dice.Roller, rect gamemap.Rect) {
	// The rect being split is replaced by its halves.
	if len(b.rects) > 0 {
		b.rects = b.rects[:len(b.rects)-1]
	}

	w := rect.X2 - rect.X1
	h := rect.Y2 - rect.Y1
	halfW := w / 2
	halfH := h / 2

	if rng.RollDice(1, 4) <= 2 {
		h1 := gamemap.NewRect(rect.X1, rect.Y1, halfW-1, h)
		b.rects = append(b.rects, h1)
		if halfW > b.MinRoomSize {
			b.split(rng, h1)
		}
		h2 := gamemap.NewRect(rect.X1+halfW, rect.Y1, halfW, h)
		b.rects = append(b.rects, h2)
		if halfW > b.MinRoomSize {
			b.split(rng, h2)
		}
		return
	}

	v1 := gamemap.NewRect(rect.X1, rect.Y1, w, halfH-1)
	b.rects = append(b.rects, v1)
	if halfH > b.MinRoomSize {
		b.split(rng, v1)
	}
	v2 := gamemap.NewRect(rect.X1, rect.Y1+halfH, w, halfH)
	b.rects = append(b.rects, v2)
	if halfH > b.MinRoomSize {
		b.split(rng, v2)
	}
}
