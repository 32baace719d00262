package mapgen

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
	"github.com/lawnchairsociety/delvegen/internal/pathing"
	"github.com/lawnchairsociety/delvegen/internal/wfc"
)

// VoronoiSpawning partitions the open map into noise-jittered regions and
// rolls spawns independently in each
type VoronoiSpawning struct {
	CellSize int
}

func NewVoronoiSpawning() *VoronoiSpawning {
	return &VoronoiSpawning{CellSize: 12}
}

func (b *VoronoiSpawning) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	seeds := b.seeds(rng, m)

	regions := make([][]int, len(seeds))
	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			idx := m.Index(x, y)
			if t := m.Tiles[idx]; t != gamemap.Floor && t != gamemap.WoodFloor {
				continue
			}
			p := gamemap.Point{X: x, Y: y}
			region, best := 0, math.Inf(1)
			for i, s := range seeds {
				if d := Manhattan.Distance(p, s); d < best {
					region, best = i, d
				}
			}
			regions[region] = append(regions[region], idx)
		}
	}

	for _, area := range regions {
		spawnRegion(rng, ctx, area)
	}
}

// seeds places one seed per grid cell, nudged by perlin noise so regions
// are irregular
func (b *VoronoiSpawning) seeds(rng dice.Roller, m *gamemap.Map) []gamemap.Point {
	size := max(b.CellSize, 2)
	half := size / 2
	noise := perlin.NewPerlin(2, 2, 3, int64(rng.RollDice(1, 65536)))

	var seeds []gamemap.Point
	for gy := 0; gy*size < m.Height; gy++ {
		for gx := 0; gx*size < m.Width; gx++ {
			// Lattice points are always zero; sample between them.
			jx := noise.Noise2D(float64(gx)+0.5, float64(gy)+0.5)
			jy := noise.Noise2D(float64(gx)+0.25, float64(gy)+100.75)
			x := gx*size + half + clamp(int(math.Round(jx*float64(size))), -half, half)
			y := gy*size + half + clamp(int(math.Round(jy*float64(size))), -half, half)
			seeds = append(seeds, gamemap.Point{
				X: clamp(x, 1, m.Width-2),
				Y: clamp(y, 1, m.Height-2),
			})
		}
	}
	return seeds
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// CaveDecorator roughens cavern floors with gravel and puddles and turns
// thin wall spurs into deep water
type CaveDecorator struct{}

func NewCaveDecorator() *CaveDecorator {
	return &CaveDecorator{}
}

func (b *CaveDecorator) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	old := make([]gamemap.TileType, len(m.Tiles))
	copy(old, m.Tiles)

	for idx, t := range old {
		switch t {
		case gamemap.Floor:
			if rng.RollDice(1, 6) == 1 {
				m.Tiles[idx] = gamemap.Gravel
			} else if rng.RollDice(1, 10) == 1 {
				m.Tiles[idx] = gamemap.ShallowWater
			}
		case gamemap.Wall:
			if m.IsBorder(idx) {
				continue
			}
			x, y := m.XY(idx)
			walls := 0
			for _, d := range cardinals {
				if old[m.Index(x+d.X, y+d.Y)] == gamemap.Wall {
					walls++
				}
			}
			if walls == 2 {
				m.Tiles[idx] = gamemap.DeepWater
			}
		}
	}
	ctx.TakeSnapshot()
}

// YellowBrickRoad paves a road from the start to the east edge, puts the
// stairs in a corner and runs a stream from them to the west
type YellowBrickRoad struct{}

func NewYellowBrickRoad() *YellowBrickRoad {
	return &YellowBrickRoad{}
}

func (b *YellowBrickRoad) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	start, ok := ctx.startIndex()
	if !ok {
		fatalf(ErrNoStartingPosition, "yellow brick road")
	}

	end := b.findExit(m, gamemap.Point{X: m.Width - 2, Y: m.Height / 2})
	road := pathing.AStar(m, start, end, pathing.Blocked{})
	if !road.Success {
		fatalf(ErrNoPath, "no valid path for the road")
	}
	for _, step := range road.Steps {
		x, y := m.XY(step)
		b.paveRoad(m, x, y)
		for _, d := range cardinals {
			b.paveRoad(m, x+d.X, y+d.Y)
		}
	}
	ctx.TakeSnapshot()

	stairsSeed := gamemap.Point{X: m.Width - 1, Y: 1}
	streamSeed := gamemap.Point{X: 0, Y: m.Height - 1}
	if rng.RollDice(1, 2) != 1 {
		stairsSeed = gamemap.Point{X: m.Width - 1, Y: m.Height - 1}
		streamSeed = gamemap.Point{X: 1, Y: m.Height - 1}
	}
	stairs := b.findExit(m, stairsSeed)
	streamEnd := b.findExit(m, streamSeed)

	stream := pathing.AStar(m, stairs, streamEnd, pathing.Blocked{})
	if !stream.Success {
		fatalf(ErrNoPath, "no valid path for the stream")
	}
	for _, step := range stream.Steps {
		if m.Tiles[step] == gamemap.Floor {
			m.Tiles[step] = gamemap.ShallowWater
		}
	}
	m.Tiles[stairs] = gamemap.DownStairs
	ctx.TakeSnapshot()
}

// findExit returns the floor cell nearest a point
func (b *YellowBrickRoad) findExit(m *gamemap.Map, p gamemap.Point) int {
	idx, ok := nearest(m, p, func(i int) bool {
		return m.Tiles[i] == gamemap.Floor
	})
	if !ok {
		fatalf(ErrNoPath, "no floor near (%d, %d)", p.X, p.Y)
	}
	return idx
}

func (b *YellowBrickRoad) paveRoad(m *gamemap.Map, x, y int) {
	if x < 1 || x > m.Width-2 || y < 1 || y > m.Height-2 {
		return
	}
	idx := m.Index(x, y)
	if m.Tiles[idx] != gamemap.DownStairs {
		m.Tiles[idx] = gamemap.Road
	}
}

// WaveformCollapse learns chunk patterns from the map built so far and
// replaces it with a new layout assembled from them
type WaveformCollapse struct {
	ChunkSize int
}

func NewWaveformCollapse() *WaveformCollapse {
	return &WaveformCollapse{ChunkSize: wfc.DefaultChunkSize}
}

func (b *WaveformCollapse) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	ctx.TakeSnapshot()
	gen, err := wfc.NewGenerator(ctx.Map, b.ChunkSize)
	if err != nil {
		fatal(fmt.Errorf("waveform collapse: %w", err))
	}

	fresh := gamemap.New(ctx.Depth, ctx.Width, ctx.Height, ctx.Name)
	if err := gen.Generate(rng, fresh, func() {
		prev := ctx.Map
		ctx.Map = fresh
		ctx.TakeSnapshot()
		ctx.Map = prev
	}); err != nil {
		fatal(fmt.Errorf("waveform collapse: %w", err))
	}
	sealBorder(fresh, gamemap.Wall)

	ctx.Map = fresh
	ctx.Rooms = nil
	ctx.Corridors = nil
	ctx.SpawnList = nil
	ctx.TakeSnapshot()
}
