package mapgen

import (
	"github.com/lawnchairsociety/delvegen/internal/dice"
)

// spawnRegion rolls spawn requests for a set of candidate cells. Cells that
// already carry a spawn are never picked again.
func spawnRegion(rng dice.Roller, ctx *BuildContext, area []int) {
	claimed := ctx.claimed()
	candidates := make([]int, 0, len(area))
	for _, idx := range area {
		if !claimed.Has(idx) {
			candidates = append(candidates, idx)
		}
	}

	num := ctx.regionDice.Roll(rng) + ctx.Depth/2
	if limit := len(candidates) / 3; num > limit {
		num = limit
	}
	if num <= 0 {
		return
	}

	table := ctx.SpawnTables().TableFor(ctx.Name, ctx.Depth)
	for i := 0; i < num; i++ {
		pick := 0
		if len(candidates) > 1 {
			pick = rng.RollDice(1, len(candidates)) - 1
		}
		idx := candidates[pick]
		if name, ok := table.Roll(rng); ok {
			ctx.addSpawn(idx, name)
		}
		candidates = append(candidates[:pick], candidates[pick+1:]...)
	}
}
