package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lawnchairsociety/delvegen/internal/gamemap"
	"github.com/lawnchairsociety/delvegen/internal/mapgen"
)

// spawnTally is an EntitySpawner that only counts what would be placed
type spawnTally struct {
	counts map[string]int
}

func newSpawnTally() *spawnTally {
	return &spawnTally{counts: make(map[string]int)}
}

func (t *spawnTally) Spawn(m *gamemap.Map, idx int, name string) error {
	if idx < 0 || idx >= m.Size() {
		return fmt.Errorf("spawn %q outside the map at %d", name, idx)
	}
	t.counts[name]++
	return nil
}

func renderLevel(output *strings.Builder, level *mapgen.Level, seed int64) {
	m := level.Map
	output.WriteString(fmt.Sprintf("%s (Depth: %d, Seed: %d, Size: %dx%d)\n", m.Name, m.Depth, seed, m.Width, m.Height))
	output.WriteString(fmt.Sprintf("Fingerprint: %s\n", m.Fingerprint()))
	output.WriteString(strings.Repeat("=", min(m.Width, 60)) + "\n")

	start, hasStart := level.Start()
	rows := m.Rows()
	for y, row := range rows {
		line := []rune(row)
		if hasStart && start.Y == y {
			line[start.X] = '@'
		}
		output.WriteString(string(line))
		output.WriteString("\n")
	}
	output.WriteString("\n")
}

func renderHistory(output *strings.Builder, level *mapgen.Level) {
	for i, snap := range level.History {
		output.WriteString(fmt.Sprintf("Snapshot %d/%d\n", i+1, len(level.History)))
		output.WriteString(strings.Repeat("-", min(snap.Width, 40)) + "\n")
		for _, row := range snap.Rows() {
			output.WriteString(row)
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}
}

func renderSpawns(output *strings.Builder, tally *spawnTally) {
	if len(tally.counts) == 0 {
		output.WriteString("No spawns.\n")
		return
	}

	names := make([]string, 0, len(tally.counts))
	total := 0
	for name, n := range tally.counts {
		names = append(names, name)
		total += n
	}
	sort.Strings(names)

	output.WriteString(fmt.Sprintf("Spawns (%d):\n", total))
	for _, name := range names {
		output.WriteString(fmt.Sprintf("  %-24s %d\n", name, tally.counts[name]))
	}
}

func getLegend() string {
	var b strings.Builder
	b.WriteString("\nLegend:\n")
	b.WriteString("  [@] Starting position\n")
	for _, t := range gamemap.AllTileTypes() {
		b.WriteString(fmt.Sprintf("  [%c] %s\n", t.Glyph(), t))
	}
	return b.String()
}
