package mapgen

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
	"github.com/lawnchairsociety/delvegen/internal/prefab"
	"github.com/lawnchairsociety/delvegen/internal/spawns"
)

// Spawn is a request to place a named entity on a cell
type Spawn struct {
	Index int    `yaml:"index" json:"index"`
	Name  string `yaml:"name" json:"name"`
}

// DefaultSnapshotLimit bounds the snapshot history when snapshots are enabled
const DefaultSnapshotLimit = 512

// BuildContext is the state threaded through a builder chain. It belongs to
// the chain for the duration of BuildMap.
type BuildContext struct {
	Map *gamemap.Map

	// Rooms is nil when the chain has no room-providing builder.
	Rooms []gamemap.Rect
	// Corridors is nil until a corridor builder runs.
	Corridors [][]int
	SpawnList []Spawn

	// History holds debug snapshots, oldest first.
	History []*gamemap.Map

	Width  int
	Height int
	Name   string
	Depth  int

	// Entrances maps a transition name to the cell a traveller arrives on.
	Entrances map[string]int

	spawnTables   spawns.Provider
	prefabs       *prefab.Library
	regionDice    dice.Dice
	snapshotLimit int
}

func newBuildContext(depth, width, height int, name string) *BuildContext {
	return &BuildContext{
		Map:        gamemap.New(depth, width, height, name),
		Width:      width,
		Height:     height,
		Name:       name,
		Depth:      depth,
		Entrances:  make(map[string]int),
		regionDice: dice.MustParse("1d7-3"),
	}
}

// TakeSnapshot appends a copy of the current map to the history. It does
// nothing unless snapshots were enabled on the chain.
func (c *BuildContext) TakeSnapshot() {
	if c.snapshotLimit <= 0 {
		return
	}
	snap := c.Map.Clone()
	snap.RevealAll()
	c.History = append(c.History, snap)
	if len(c.History) > c.snapshotLimit {
		c.History = c.History[len(c.History)-c.snapshotLimit:]
	}
}

// SpawnTables returns the spawn table provider, defaulting to the built-in
// catalog.
func (c *BuildContext) SpawnTables() spawns.Provider {
	if c.spawnTables == nil {
		c.spawnTables = spawns.DefaultCatalog()
	}
	return c.spawnTables
}

// Prefabs returns the prefab library, defaulting to the built-in templates.
func (c *BuildContext) Prefabs() *prefab.Library {
	if c.prefabs == nil {
		c.prefabs = prefab.DefaultLibrary()
	}
	return c.prefabs
}

// claimed returns the set of cells already holding a spawn request
func (c *BuildContext) claimed() mapset.Set[int] {
	set := mapset.New[int]()
	for _, s := range c.SpawnList {
		set.Put(s.Index)
	}
	return set
}

// addSpawn appends a spawn request
func (c *BuildContext) addSpawn(idx int, name string) {
	c.SpawnList = append(c.SpawnList, Spawn{Index: idx, Name: name})
}

// dropSpawns removes spawn requests for which keep returns false
func (c *BuildContext) dropSpawns(keep func(Spawn) bool) {
	kept := c.SpawnList[:0]
	for _, s := range c.SpawnList {
		if keep(s) {
			kept = append(kept, s)
		}
	}
	c.SpawnList = kept
}

// startIndex returns the starting position as a cell index
func (c *BuildContext) startIndex() (int, bool) {
	return c.Map.StartIndex()
}

// Level is the finished product of a chain
type Level struct {
	Map       *gamemap.Map
	SpawnList []Spawn
	Rooms     []gamemap.Rect
	Entrances map[string]int
	History   []*gamemap.Map
}

// Start returns the starting position
func (l *Level) Start() (gamemap.Point, bool) {
	if l.Map.StartingPosition == nil {
		return gamemap.Point{}, false
	}
	return *l.Map.StartingPosition, true
}
