// Package mapgen composes procedural level builders into chains. A chain
// starts with one initial builder that lays down the first map and applies
// any number of meta builders that reshape or annotate it.
package mapgen

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/prefab"
	"github.com/lawnchairsociety/delvegen/internal/spawns"
)

var (
	ErrNoStarter          = errors.New("cannot run a chain without a starting builder")
	ErrStarterAlreadySet  = errors.New("only one starting builder")
	ErrNoRooms            = errors.New("corridor builder requires a builder with rooms")
	ErrNoCorridors        = errors.New("corridor spawning requires a builder with corridors")
	ErrNoStartFloor       = errors.New("no valid floor to start on")
	ErrNoStartingPosition = errors.New("builder requires a starting position")
	ErrNoPath             = errors.New("no path between required points")
	ErrNoExit             = errors.New("no reachable cell to place an exit")
	ErrUnknownPrefab      = errors.New("unknown prefab")
	ErrMapTooSmall        = errors.New("map too small for builder")
)

// generationError carries a fatal builder failure up to Generate
type generationError struct {
	err error
}

func (e generationError) Error() string { return e.err.Error() }
func (e generationError) Unwrap() error { return e.err }

// fatal aborts the running chain. Builders call it when the level cannot be
// completed; Generate turns it back into an error.
func fatal(err error) {
	panic(generationError{err: err})
}

// fatalf wraps a sentinel with detail and aborts the running chain
func fatalf(sentinel error, format string, args ...any) {
	fatal(fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)))
}

// InitialMapBuilder lays down the first map of a chain
type InitialMapBuilder interface {
	BuildInitial(rng dice.Roller, ctx *BuildContext)
}

// MetaMapBuilder transforms the map left by the previous builder
type MetaMapBuilder interface {
	BuildMeta(rng dice.Roller, ctx *BuildContext)
}

// EntitySpawner receives spawn requests once a level is finished
type EntitySpawner interface {
	Spawn(m *gamemap.Map, idx int, name string) error
}

// Option configures a chain
type Option func(*BuildContext)

// WithSpawnTables replaces the built-in spawn catalog
func WithSpawnTables(p spawns.Provider) Option {
	return func(c *BuildContext) {
		c.spawnTables = p
	}
}

// WithPrefabs replaces the built-in prefab library
func WithPrefabs(lib *prefab.Library) Option {
	return func(c *BuildContext) {
		c.prefabs = lib
	}
}

// WithSnapshots enables snapshot history, keeping at most limit frames.
// A limit of zero or less keeps DefaultSnapshotLimit frames.
func WithSnapshots(limit int) Option {
	return func(c *BuildContext) {
		if limit <= 0 {
			limit = DefaultSnapshotLimit
		}
		c.snapshotLimit = limit
	}
}

// WithRegionDice sets the dice rolled for the number of spawns per region
func WithRegionDice(d dice.Dice) Option {
	return func(c *BuildContext) {
		c.regionDice = d
	}
}

// BuilderChain is an ordered pipeline of builders
type BuilderChain struct {
	starter  InitialMapBuilder
	builders []MetaMapBuilder
	ctx      *BuildContext
}

// NewBuilderChain creates an empty chain for a level of the given size
func NewBuilderChain(depth, width, height int, name string, opts ...Option) *BuilderChain {
	ctx := newBuildContext(depth, width, height, name)
	for _, opt := range opts {
		opt(ctx)
	}
	return &BuilderChain{ctx: ctx}
}

// StartWith sets the initial builder. Setting it twice panics.
func (b *BuilderChain) StartWith(starter InitialMapBuilder) *BuilderChain {
	if b.starter != nil {
		panic(ErrStarterAlreadySet)
	}
	b.starter = starter
	return b
}

// With appends a meta builder
func (b *BuilderChain) With(builder MetaMapBuilder) *BuilderChain {
	b.builders = append(b.builders, builder)
	return b
}

// BuildMap runs the chain. It panics without an initial builder, and builders
// panic when the level cannot be completed; see Generate.
func (b *BuilderChain) BuildMap(rng dice.Roller) {
	if b.starter == nil {
		panic(ErrNoStarter)
	}

	b.starter.BuildInitial(rng, b.ctx)
	for _, mb := range b.builders {
		mb.BuildMeta(rng, b.ctx)
	}
	logger.Debug("level built",
		"name", b.ctx.Name,
		"depth", b.ctx.Depth,
		"rooms", len(b.ctx.Rooms),
		"spawns", len(b.ctx.SpawnList),
		"snapshots", len(b.ctx.History))
}

// Context exposes the chain's build state
func (b *BuilderChain) Context() *BuildContext {
	return b.ctx
}

// SpawnEntities hands every spawn request to the spawner in order
func (b *BuilderChain) SpawnEntities(spawner EntitySpawner) error {
	for _, s := range b.ctx.SpawnList {
		if err := spawner.Spawn(b.ctx.Map, s.Index, s.Name); err != nil {
			return fmt.Errorf("spawn %q at %d: %w", s.Name, s.Index, err)
		}
	}
	return nil
}

// Level returns the finished level
func (b *BuilderChain) Level() *Level {
	return &Level{
		Map:       b.ctx.Map,
		SpawnList: b.ctx.SpawnList,
		Rooms:     b.ctx.Rooms,
		Entrances: b.ctx.Entrances,
		History:   b.ctx.History,
	}
}

// Generate runs the chain and converts builder failures into errors. Chain
// misuse, such as a missing initial builder, still panics.
func Generate(chain *BuilderChain, rng dice.Roller) (level *Level, err error) {
	defer func() {
		if r := recover(); r != nil {
			ge, ok := r.(generationError)
			if !ok {
				panic(r)
			}
			level = nil
			err = ge.err
		}
	}()

	chain.BuildMap(rng)
	return chain.Level(), nil
}
