package mapgen

import (
	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/prefab"
)

// PrefabMode selects how templates are stamped
type PrefabMode int

const (
	// ConstantLevel stamps a whole-level template, centred on the map.
	ConstantLevel PrefabMode = iota
	// Sectional stamps a section at its configured screen placement.
	Sectional
	// RoomVaults stamps up to three vaults onto open floor.
	RoomVaults
)

// PrefabBuilder stamps hand-authored templates. Used as an initial builder
// it first runs Prior, when set; used as a meta builder it stamps onto the
// existing map.
type PrefabBuilder struct {
	Mode     PrefabMode
	Template string
	Prior    InitialMapBuilder
}

// NewConstantPrefab loads a whole level from a template
func NewConstantPrefab(name string) *PrefabBuilder {
	return &PrefabBuilder{Mode: ConstantLevel, Template: name}
}

// NewSectionalPrefab stamps a section over whatever the chain built so far
func NewSectionalPrefab(name string) *PrefabBuilder {
	return &PrefabBuilder{Mode: Sectional, Template: name}
}

// NewVaults stamps room vaults over whatever the chain built so far
func NewVaults() *PrefabBuilder {
	return &PrefabBuilder{Mode: RoomVaults}
}

func (b *PrefabBuilder) BuildInitial(rng dice.Roller, ctx *BuildContext) {
	if b.Prior != nil {
		b.Prior.BuildInitial(rng, ctx)
	}
	b.apply(rng, ctx)
}

func (b *PrefabBuilder) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	b.apply(rng, ctx)
}

func (b *PrefabBuilder) apply(rng dice.Roller, ctx *BuildContext) {
	switch b.Mode {
	case ConstantLevel:
		b.constant(ctx)
	case Sectional:
		b.sectional(ctx)
	case RoomVaults:
		b.vaults(rng, ctx)
	}
	ctx.TakeSnapshot()
}

func (b *PrefabBuilder) constant(ctx *BuildContext) {
	tmpl, err := ctx.Prefabs().Level(b.Template)
	if err != nil {
		fatalf(ErrUnknownPrefab, "%v", err)
	}
	m := ctx.Map
	offX := max((m.Width-tmpl.Width)/2, 0)
	offY := max((m.Height-tmpl.Height)/2, 0)
	for ty := 0; ty < tmpl.Height; ty++ {
		for tx := 0; tx < tmpl.Width; tx++ {
			x, y := offX+tx, offY+ty
			if x > 0 && x < m.Width-1 && y > 0 && y < m.Height-1 {
				stamp(ctx, x, y, tmpl.At(tx, ty))
			}
		}
	}
}

// sectionOrigin places a section according to its anchors
func sectionOrigin(m *gamemap.Map, tmpl prefab.Template) (int, int) {
	var x, y int
	switch tmpl.X {
	case prefab.Left:
		x = 0
	case prefab.Right:
		x = m.Width - 1 - tmpl.Width
	default:
		x = m.Width/2 - tmpl.Width/2
	}
	switch tmpl.Y {
	case prefab.Top:
		y = 0
	case prefab.Bottom:
		y = m.Height - 1 - tmpl.Height
	default:
		y = m.Height/2 - tmpl.Height/2
	}
	return x, y
}

func (b *PrefabBuilder) sectional(ctx *BuildContext) {
	tmpl, err := ctx.Prefabs().Section(b.Template)
	if err != nil {
		fatalf(ErrUnknownPrefab, "%v", err)
	}
	m := ctx.Map
	chunkX, chunkY := sectionOrigin(m, tmpl)

	ctx.dropSpawns(func(s Spawn) bool {
		x, y := m.XY(s.Index)
		return x < chunkX || x >= chunkX+tmpl.Width || y < chunkY || y >= chunkY+tmpl.Height
	})

	for ty := 0; ty < tmpl.Height; ty++ {
		for tx := 0; tx < tmpl.Width; tx++ {
			x, y := chunkX+tx, chunkY+ty
			if x > 0 && x < m.Width-1 && y > 0 && y < m.Height-1 {
				stamp(ctx, x, y, tmpl.At(tx, ty))
			}
		}
	}
}

func (b *PrefabBuilder) vaults(rng dice.Roller, ctx *BuildContext) {
	if rng.RollDice(1, 6)+ctx.Depth < 4 {
		return
	}
	m := ctx.Map
	candidates := ctx.Prefabs().VaultsFor(ctx.Depth)
	if len(candidates) == 0 {
		return
	}

	startIdx, hasStart := ctx.startIndex()
	used := make([]bool, m.Size())
	n := min(rng.RollDice(1, 3), len(candidates))

	for i := 0; i < n && len(candidates) > 0; i++ {
		pick := 0
		if len(candidates) > 1 {
			pick = rng.RollDice(1, len(candidates)) - 1
		}
		vault := candidates[pick]
		candidates = append(candidates[:pick], candidates[pick+1:]...)

		var positions []gamemap.Point
		for y := 2; y+vault.Height < m.Height-2; y++ {
			for x := 2; x+vault.Width < m.Width-2; x++ {
				if vaultFits(m, used, x, y, vault, startIdx, hasStart) {
					positions = append(positions, gamemap.Point{X: x, Y: y})
				}
			}
		}
		if len(positions) == 0 {
			logger.Debug("vault does not fit", "vault", vault.Name)
			continue
		}

		pos := positions[0]
		if len(positions) > 1 {
			pos = positions[rng.RollDice(1, len(positions))-1]
		}
		ctx.dropSpawns(func(s Spawn) bool {
			x, y := m.XY(s.Index)
			return x < pos.X || x >= pos.X+vault.Width || y < pos.Y || y >= pos.Y+vault.Height
		})
		for ty := 0; ty < vault.Height; ty++ {
			for tx := 0; tx < vault.Width; tx++ {
				stamp(ctx, pos.X+tx, pos.Y+ty, vault.At(tx, ty))
				used[m.Index(pos.X+tx, pos.Y+ty)] = true
			}
		}
		logger.Debug("vault placed", "vault", vault.Name, "x", pos.X, "y", pos.Y)
	}
}

func vaultFits(m *gamemap.Map, used []bool, x, y int, vault prefab.Template, startIdx int, hasStart bool) bool {
	for ty := 0; ty < vault.Height; ty++ {
		for tx := 0; tx < vault.Width; tx++ {
			idx := m.Index(x+tx, y+ty)
			if m.Tiles[idx] != gamemap.Floor || used[idx] || (hasStart && idx == startIdx) {
				return false
			}
		}
	}
	return true
}

// stamp writes one template character onto the map
func stamp(ctx *BuildContext, x, y int, ch rune) {
	g, ok := prefab.Decode(ch)
	if !ok {
		logger.Warning("unknown prefab glyph", "glyph", string(ch), "x", x, "y", y)
		return
	}
	idx := ctx.Map.Index(x, y)
	ctx.Map.Tiles[idx] = g.Tile
	if g.Spawn != "" {
		ctx.addSpawn(idx, g.Spawn)
	}
	if g.Start {
		ctx.Map.SetStart(x, y)
	}
}
