package mapgen

import (
	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/logger"
)

// Level names double as spawn table keys
const (
	TownName          = "The Town of Bracketon"
	ForestName        = "The Woods"
	CavernsName       = "Limestone Caverns"
	DeepCavernsName   = "Deep Limestone Caverns"
	DwarfFortName     = "Dwarf Fort - Upper Reaches"
	TwistingTunnels   = "Twisting Tunnels"
	RandomLevelName   = "New Map"
	FortSection       = "underground_fort"
	OrcCampSection    = "orc_camp"
	GoblinWarrenLevel = "goblin_warren"
)

// MinWidth and MinHeight are the smallest map every chain LevelBuilder can
// return supports: the goblin warren template is 48x24 and the town needs 40x21.
const (
	MinWidth  = 48
	MinHeight = 24
)

// LevelBuilder returns the chain for a dungeon depth. The first six depths
// are curated; deeper levels are assembled at random from rng.
func LevelBuilder(depth int, rng dice.Roller, width, height int, opts ...Option) *BuilderChain {
	logger.Debug("selecting level builder", "depth", depth, "width", width, "height", height)
	switch depth {
	case 1:
		return townBuilder(depth, width, height, opts...)
	case 2:
		return forestBuilder(depth, width, height, opts...)
	case 3:
		return cavernsBuilder(depth, width, height, opts...)
	case 4:
		return deepCavernsBuilder(depth, width, height, opts...)
	case 5:
		return dwarfFortBuilder(depth, width, height, opts...)
	case 6:
		return tunnelsBuilder(depth, width, height, opts...)
	default:
		return RandomBuilder(depth, rng, width, height, opts...)
	}
}

func townBuilder(depth, width, height int, opts ...Option) *BuilderChain {
	return NewBuilderChain(depth, width, height, TownName, opts...).
		StartWith(NewTown())
}

func forestBuilder(depth, width, height int, opts ...Option) *BuilderChain {
	return NewBuilderChain(depth, width, height, ForestName, opts...).
		StartWith(NewCellularAutomata()).
		With(NewAreaStartingPosition(XCenter, YCenter)).
		With(NewCullUnreachable()).
		With(&AreaStartingPosition{X: XLeft, Y: YCenter, Transition: TownName}).
		With(NewVoronoiSpawning()).
		With(NewYellowBrickRoad())
}

func cavernsBuilder(depth, width, height int, opts ...Option) *BuilderChain {
	return NewBuilderChain(depth, width, height, CavernsName, opts...).
		StartWith(NewDrunkWindingPassages()).
		With(NewAreaStartingPosition(XCenter, YCenter)).
		With(NewCullUnreachable()).
		With(&AreaStartingPosition{X: XLeft, Y: YCenter, Transition: ForestName}).
		With(NewVoronoiSpawning()).
		With(NewDistantExit()).
		With(NewCaveDecorator())
}

func deepCavernsBuilder(depth, width, height int, opts ...Option) *BuilderChain {
	return NewBuilderChain(depth, width, height, DeepCavernsName, opts...).
		StartWith(NewDLACentralAttractor()).
		With(NewSectionalPrefab(FortSection)).
		With(NewAreaStartingPosition(XCenter, YCenter)).
		With(NewCullUnreachable()).
		With(&AreaStartingPosition{X: XLeft, Y: YTop, Transition: CavernsName}).
		With(NewVoronoiSpawning()).
		With(NewDistantExit()).
		With(NewCaveDecorator())
}

func dwarfFortBuilder(depth, width, height int, opts ...Option) *BuilderChain {
	return NewBuilderChain(depth, width, height, DwarfFortName, opts...).
		StartWith(NewBSPDungeon()).
		With(NewRoomSorter(Central)).
		With(NewRoomDrawer()).
		With(NewNearestCorridors()).
		With(NewCorridorSpawner()).
		With(NewDoorPlacement()).
		With(NewRoomBasedStartingPosition()).
		With(NewCullUnreachable()).
		With(NewDistantExit()).
		With(NewRoomBasedSpawner()).
		With(NewVaults())
}

func tunnelsBuilder(depth, width, height int, opts ...Option) *BuilderChain {
	return NewBuilderChain(depth, width, height, TwistingTunnels, opts...).
		StartWith(NewMaze()).
		With(NewAreaStartingPosition(XCenter, YCenter)).
		With(NewCullUnreachable()).
		With(NewAreaStartingPosition(XLeft, YTop)).
		With(NewVoronoiSpawning()).
		With(NewAreaEndingPosition(XRight, YBottom)).
		With(NewVaults())
}

// RandomBuilder assembles a chain from a random base layout, an optional
// waveform collapse pass and an optional fixed section
func RandomBuilder(depth int, rng dice.Roller, width, height int, opts ...Option) *BuilderChain {
	chain := NewBuilderChain(depth, width, height, RandomLevelName, opts...)

	roomBased := rng.RollDice(1, 2) == 1
	var choices roomChoices
	if roomBased {
		choices = randomRoomBuilder(rng, chain)
	} else {
		randomShapeBuilder(rng, chain)
	}

	reshaped := false
	if rng.RollDice(1, 3) == 1 {
		chain.With(NewWaveformCollapse())
		reshaped = true
	}
	switch rng.RollDice(1, 20) {
	case 1:
		chain.With(NewSectionalPrefab(FortSection))
		reshaped = true
	case 2:
		chain.With(NewSectionalPrefab(OrcCampSection))
		reshaped = true
	}

	if roomBased && !reshaped {
		finishRooms(rng, chain, choices)
	} else {
		finishArea(rng, chain)
	}

	chain.With(NewDoorPlacement())
	chain.With(NewVaults())
	return chain
}

// roomChoices records what the room layout can guarantee to later builders
type roomChoices struct {
	// linked is set when every room is joined to the next one.
	linked bool
}

func randomRoomBuilder(rng dice.Roller, chain *BuilderChain) roomChoices {
	build := rng.RollDice(1, 3)
	switch build {
	case 1:
		chain.StartWith(NewSimpleRooms(6, 10))
	case 2:
		chain.StartWith(NewBSPDungeon())
	default:
		chain.StartWith(NewBSPInterior())
		return roomChoices{linked: true}
	}

	switch rng.RollDice(1, 5) {
	case 1:
		chain.With(NewRoomSorter(Leftmost))
	case 2:
		chain.With(NewRoomSorter(Rightmost))
	case 3:
		chain.With(NewRoomSorter(Topmost))
	case 4:
		chain.With(NewRoomSorter(Bottommost))
	default:
		chain.With(NewRoomSorter(Central))
	}
	chain.With(&RoomDrawer{Circles: rng.RollDice(1, 2) == 1})

	choices := roomChoices{linked: true}
	switch rng.RollDice(1, 4) {
	case 1:
		chain.With(NewDoglegCorridors())
	case 2:
		chain.With(NewNearestCorridors())
		choices.linked = false
	case 3:
		chain.With(NewStraightLineCorridors())
	default:
		chain.With(NewBSPCorridors())
	}

	if rng.RollDice(1, 2) == 1 {
		chain.With(NewCorridorSpawner())
	}

	switch rng.RollDice(1, 6) {
	case 1:
		chain.With(NewRoomExploder())
	case 2:
		chain.With(NewRoomCornerRounder())
	}
	return choices
}

func randomShapeBuilder(rng dice.Roller, chain *BuilderChain) {
	switch rng.RollDice(1, 16) {
	case 1:
		chain.StartWith(NewCellularAutomata())
	case 2:
		chain.StartWith(NewDrunkOpenArea())
	case 3:
		chain.StartWith(NewDrunkOpenHalls())
	case 4:
		chain.StartWith(NewDrunkWindingPassages())
	case 5:
		chain.StartWith(NewDrunkFatPassages())
	case 6:
		chain.StartWith(NewDrunkFearfulSymmetry())
	case 7:
		chain.StartWith(NewMaze())
	case 8:
		chain.StartWith(NewDLAWalkInwards())
	case 9:
		chain.StartWith(NewDLAWalkOutwards())
	case 10:
		chain.StartWith(NewDLACentralAttractor())
	case 11:
		chain.StartWith(NewDLAInsectoid())
	case 12:
		chain.StartWith(NewDLAHeavyErosion())
	case 13:
		chain.StartWith(NewVoronoiPythagoras())
	case 14:
		chain.StartWith(NewVoronoiManhattan())
	case 15:
		chain.StartWith(NewVoronoiChebyshev())
	default:
		chain.StartWith(NewConstantPrefab(GoblinWarrenLevel))
	}
}

// finishRooms places the start, exit and spawns using the room list
func finishRooms(rng dice.Roller, chain *BuilderChain, choices roomChoices) {
	if rng.RollDice(1, 2) == 1 {
		chain.With(NewRoomBasedStartingPosition())
	} else {
		x, y := randomStartPosition(rng)
		chain.With(NewAreaStartingPosition(x, y))
	}
	chain.With(NewCullUnreachable())

	// Room stairs are only reachable when every room is linked.
	if rng.RollDice(1, 2) == 1 && choices.linked {
		chain.With(NewRoomBasedStairs())
	} else {
		chain.With(NewDistantExit())
	}

	if rng.RollDice(1, 2) == 1 {
		chain.With(NewRoomBasedSpawner())
	} else {
		chain.With(NewVoronoiSpawning())
	}
}

// finishArea places the start, exit and spawns for layouts without rooms
func finishArea(rng dice.Roller, chain *BuilderChain) {
	chain.With(NewAreaStartingPosition(XCenter, YCenter))
	chain.With(NewCullUnreachable())
	x, y := randomStartPosition(rng)
	chain.With(NewAreaStartingPosition(x, y))
	chain.With(NewVoronoiSpawning())
	chain.With(NewDistantExit())
}

func randomStartPosition(rng dice.Roller) (XStart, YStart) {
	var x XStart
	switch rng.RollDice(1, 3) {
	case 1:
		x = XLeft
	case 2:
		x = XCenter
	default:
		x = XRight
	}
	var y YStart
	switch rng.RollDice(1, 3) {
	case 1:
		y = YTop
	case 2:
		y = YCenter
	default:
		y = YBottom
	}
	return x, y
}
