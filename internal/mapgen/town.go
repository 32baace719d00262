package mapgen

import (
	"math"
	"sort"

	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/pathing"
)

// BuildingTag names what a town building is used for
type BuildingTag string

const (
	Pub         BuildingTag = "pub"
	Temple      BuildingTag = "temple"
	Blacksmith  BuildingTag = "blacksmith"
	Clothier    BuildingTag = "clothier"
	Alchemist   BuildingTag = "alchemist"
	PlayerHouse BuildingTag = "player_house"
	Hovel       BuildingTag = "hovel"
	Abandoned   BuildingTag = "abandoned"
)

// namedBuildings are handed out largest building first
var namedBuildings = []BuildingTag{Pub, Temple, Blacksmith, Clothier, Alchemist, PlayerHouse}

// buildingContents lists what each kind of building is furnished with
var buildingContents = map[BuildingTag][]string{
	Pub:         {"Barkeep", "Shady Salesman", "Patron", "Patron", "Keg", "Table", "Chair", "Table", "Chair"},
	Temple:      {"Priest", "Parishioner", "Parishioner", "Chair", "Chair", "Candle", "Candle"},
	Blacksmith:  {"Blacksmith", "Anvil", "Water Trough", "Weapon Rack", "Armor Stand"},
	Clothier:    {"Clothier", "Cabinet", "Table", "Loom", "Hide Rack"},
	Alchemist:   {"Alchemist", "Chemistry Set", "Dead Thing", "Chair", "Table"},
	PlayerHouse: {"Mom", "Bed", "Cabinet", "Chair", "Table"},
	Hovel:       {"Peasant", "Bed", "Chair", "Table"},
}

// building is a footprint in map coordinates
type building struct {
	x, y, w, h int
	tag        BuildingTag
}

func (b building) area() int { return b.w * b.h }

// Town builds the surface level: a river with piers on the west, and a
// walled town with buildings, roads and an exit on the east. Roads are best
// effort; a door the road network cannot reach does not fail the build.
type Town struct {
	Buildings   int
	MaxAttempts int
}

const (
	townMinWidth  = 40
	townMinHeight = 21
)

func NewTown() *Town {
	return &Town{Buildings: 12, MaxAttempts: 2000}
}

func (b *Town) BuildInitial(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	if m.Width < townMinWidth || m.Height < townMinHeight {
		fatalf(ErrMapTooSmall, "town needs at least %dx%d, got %dx%d", townMinWidth, townMinHeight, m.Width, m.Height)
	}

	m.Fill(gamemap.Grass)
	ctx.TakeSnapshot()

	waterWidth := b.water(rng, m)
	ctx.TakeSnapshot()
	b.piers(rng, m, waterWidth)
	ctx.TakeSnapshot()

	available, gapY := b.walls(rng, m)
	ctx.TakeSnapshot()

	buildings := b.buildings(rng, m, available)
	if len(buildings) == 0 {
		fatalf(ErrMapTooSmall, "no room for any town building")
	}
	ctx.TakeSnapshot()

	doors := b.doors(rng, ctx, buildings, gapY)
	ctx.TakeSnapshot()
	b.roads(m, doors)
	ctx.TakeSnapshot()

	for y := gapY - 3; y <= gapY+3; y++ {
		m.Tiles[m.Index(m.Width-2, y)] = gamemap.DownStairs
	}

	b.furnish(rng, ctx, buildings)
	b.dockers(rng, ctx)
	b.townsfolk(rng, ctx, available)

	sealBorder(m, gamemap.TownWall)
	ctx.TakeSnapshot()
}

// water lays a meandering river along the west edge and returns its width
// for each row
func (b *Town) water(rng dice.Roller, m *gamemap.Map) []int {
	widths := make([]int, m.Height)
	n := float64(rng.RollDice(1, 65535)) / 65535.0
	for y := 0; y < m.Height; y++ {
		w := int(math.Sin(n)*10.0) + 14 + rng.RollDice(1, 6)
		widths[y] = w
		for x := 0; x < w && x < m.Width; x++ {
			m.Tiles[m.Index(x, y)] = gamemap.DeepWater
		}
		for x := w; x < w+3 && x < m.Width; x++ {
			m.Tiles[m.Index(x, y)] = gamemap.ShallowWater
		}
		n += 0.1
	}
	return widths
}

func (b *Town) piers(rng dice.Roller, m *gamemap.Map, widths []int) {
	count := rng.RollDice(1, 4) + 6
	for i := 0; i < count; i++ {
		y := rng.RollDice(1, m.Height-2)
		for x := 2 + rng.RollDice(1, 6); x < widths[y]+4 && x < m.Width; x++ {
			m.Tiles[m.Index(x, y)] = gamemap.Bridge
		}
	}
}

// walls encloses the eastern town and leaves a gated gap. It returns the
// cells buildings may occupy and the row the gap is centred on.
func (b *Town) walls(rng dice.Roller, m *gamemap.Map) ([]bool, int) {
	available := make([]bool, m.Size())
	gapY := rng.RollDice(1, m.Height-11) + 5
	for y := 1; y < m.Height-2; y++ {
		if y > gapY-4 && y < gapY+4 {
			for x := 30; x < m.Width; x++ {
				m.Tiles[m.Index(x, y)] = gamemap.Road
			}
			continue
		}
		m.Tiles[m.Index(29, y)] = gamemap.Floor
		m.Tiles[m.Index(30, y)] = gamemap.TownWall
		m.Tiles[m.Index(m.Width-2, y)] = gamemap.TownWall
		for x := 31; x < m.Width-2; x++ {
			idx := m.Index(x, y)
			m.Tiles[idx] = gamemap.Gravel
			if y > 2 {
				available[idx] = true
			}
		}
	}
	for x := 30; x < m.Width-1; x++ {
		m.Tiles[m.Index(x, 1)] = gamemap.TownWall
		m.Tiles[m.Index(x, m.Height-2)] = gamemap.TownWall
	}
	return available, gapY
}

func (b *Town) buildings(rng dice.Roller, m *gamemap.Map, available []bool) []building {
	var buildings []building
	for attempt := 0; len(buildings) < b.Buildings && attempt < b.MaxAttempts; attempt++ {
		bld := building{
			x: rng.RollDice(1, m.Width-32) + 30,
			y: rng.RollDice(1, m.Height) - 2,
			w: rng.RollDice(1, 8) + 4,
			h: rng.RollDice(1, 8) + 4,
		}
		if !fits(m, bld, available) {
			continue
		}
		buildings = append(buildings, bld)
		for y := bld.y; y < bld.y+bld.h; y++ {
			for x := bld.x; x < bld.x+bld.w; x++ {
				idx := m.Index(x, y)
				m.Tiles[idx] = gamemap.WoodFloor
				available[idx] = false
				for _, d := range cardinals {
					if m.InBounds(x+d.X, y+d.Y) {
						available[m.Index(x+d.X, y+d.Y)] = false
					}
				}
			}
		}
	}

	// Outline every building with walls.
	next := make([]gamemap.TileType, len(m.Tiles))
	copy(next, m.Tiles)
	for y := 2; y < m.Height-2; y++ {
		for x := 32; x < m.Width-2; x++ {
			idx := m.Index(x, y)
			if m.Tiles[idx] != gamemap.WoodFloor {
				continue
			}
			if countNeighbours(m, idx, gamemap.WoodFloor) < 4 {
				next[idx] = gamemap.Wall
			}
		}
	}
	m.Tiles = next
	return buildings
}

func fits(m *gamemap.Map, bld building, available []bool) bool {
	for y := bld.y; y < bld.y+bld.h; y++ {
		for x := bld.x; x < bld.x+bld.w; x++ {
			if !m.InBounds(x, y) || !available[m.Index(x, y)] {
				return false
			}
		}
	}
	return true
}

// doors opens each building on the side facing the gate row
func (b *Town) doors(rng dice.Roller, ctx *BuildContext, buildings []building, gapY int) []int {
	m := ctx.Map
	doors := make([]int, 0, len(buildings))
	for _, bld := range buildings {
		doorX := bld.x + 1 + rng.RollDice(1, bld.w-3)
		cy := bld.y + bld.h/2
		idx := m.Index(doorX, bld.y+bld.h-1)
		if cy > gapY {
			idx = m.Index(doorX, bld.y)
		}
		m.Tiles[idx] = gamemap.Floor
		ctx.addSpawn(idx, "Door")
		doors = append(doors, idx)
	}
	return doors
}

// roads links every door to the nearest existing road. Roads are optional
// scenery: a door that cannot reach one is logged and left as it is, and the
// build carries on.
func (b *Town) roads(m *gamemap.Map, doors []int) {
	var roads []int
	for idx, t := range m.Tiles {
		if t == gamemap.Road {
			roads = append(roads, idx)
		}
	}

	for _, door := range doors {
		if len(roads) == 0 {
			return
		}
		dx, dy := m.XY(door)
		nearest, best := roads[0], math.MaxInt
		for _, r := range roads {
			rx, ry := m.XY(r)
			if d := (rx-dx)*(rx-dx) + (ry-dy)*(ry-dy); d < best {
				nearest, best = r, d
			}
		}

		path := pathing.AStar(m, door, nearest, pathing.Blocked{})
		if !path.Success {
			logger.Warning("town door has no road", "door", door)
			continue
		}
		for _, step := range path.Steps {
			if t := m.Tiles[step]; t == gamemap.Grass || t == gamemap.Gravel {
				m.Tiles[step] = gamemap.Road
				roads = append(roads, step)
			}
		}
	}
}

// furnish assigns building roles by size and fills each with its contents
func (b *Town) furnish(rng dice.Roller, ctx *BuildContext, buildings []building) {
	m := ctx.Map
	order := make([]int, len(buildings))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return buildings[order[i]].area() > buildings[order[j]].area()
	})
	for rank, i := range order {
		switch {
		case rank < len(namedBuildings):
			buildings[i].tag = namedBuildings[rank]
		case rank == len(order)-1:
			buildings[i].tag = Abandoned
		default:
			buildings[i].tag = Hovel
		}
	}

	pub := buildings[order[0]]
	m.SetStart(pub.x+pub.w/2, pub.y+pub.h/2)
	startIdx, _ := m.StartIndex()

	for _, i := range order {
		bld := buildings[i]
		if bld.tag == Abandoned {
			for y := bld.y; y < bld.y+bld.h; y++ {
				for x := bld.x; x < bld.x+bld.w; x++ {
					idx := m.Index(x, y)
					if m.Tiles[idx] == gamemap.WoodFloor && idx != 0 && rng.RollDice(1, 2) == 1 {
						ctx.addSpawn(idx, "Rat")
					}
				}
			}
			continue
		}

		toPlace := append([]string(nil), buildingContents[bld.tag]...)
		for y := bld.y; y < bld.y+bld.h; y++ {
			for x := bld.x; x < bld.x+bld.w; x++ {
				idx := m.Index(x, y)
				if len(toPlace) > 0 && m.Tiles[idx] == gamemap.WoodFloor && idx != startIdx && rng.RollDice(1, 3) == 1 {
					ctx.addSpawn(idx, toPlace[0])
					toPlace = toPlace[1:]
				}
			}
		}
	}
}

func (b *Town) dockers(rng dice.Roller, ctx *BuildContext) {
	for idx, t := range ctx.Map.Tiles {
		if t == gamemap.Bridge && rng.RollDice(1, 50) == 1 {
			switch rng.RollDice(1, 3) {
			case 1:
				ctx.addSpawn(idx, "Dock Worker")
			case 2:
				ctx.addSpawn(idx, "Wannabe Pirate")
			default:
				ctx.addSpawn(idx, "Fisher")
			}
		}
	}
}

func (b *Town) townsfolk(rng dice.Roller, ctx *BuildContext, available []bool) {
	for idx, ok := range available {
		if !ok || rng.RollDice(1, 50) != 1 {
			continue
		}
		switch rng.RollDice(1, 4) {
		case 1:
			ctx.addSpawn(idx, "Peasant")
		case 2:
			ctx.addSpawn(idx, "Drunk")
		case 3:
			ctx.addSpawn(idx, "Dock Worker")
		default:
			ctx.addSpawn(idx, "Fisher")
		}
	}
}
