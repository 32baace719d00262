package mapgen

import (
	"testing"
	"time"

	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
	"github.com/lawnchairsociety/delvegen/internal/pathing"
)

// lowRoller always rolls the lowest face
type lowRoller struct{}

func (lowRoller) RollDice(n, die int) int { return n }
func (lowRoller) Range(lo, hi int) int    { return lo }

// openArea carves the whole interior, leaving only the border
type openArea struct{}

func (openArea) BuildInitial(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			m.Tiles[m.Index(x, y)] = gamemap.Floor
		}
	}
}

// fromRows builds an initial map from ASCII rows: # is wall, anything else
// is floor
type fromRows []string

func (r fromRows) BuildInitial(rng dice.Roller, ctx *BuildContext) {
	m := ctx.Map
	for y, row := range r {
		for x, ch := range row {
			if ch != '#' {
				m.Tiles[m.Index(x, y)] = gamemap.Floor
			}
		}
	}
}

// recorder is a meta builder that notes when it ran
type recorder struct {
	name string
	log  *[]string
}

func (r recorder) BuildMeta(rng dice.Roller, ctx *BuildContext) {
	*r.log = append(*r.log, r.name)
}

func mustGenerate(t *testing.T, chain *BuilderChain, seed int64) *Level {
	t.Helper()
	level, err := Generate(chain, dice.New(seed))
	if err != nil {
		t.Fatalf("Generate(seed %d) failed: %v", seed, err)
	}
	return level
}

// generateWithin runs Generate and fails the test if it has not returned
// before the deadline
func generateWithin(t *testing.T, chain *BuilderChain, seed int64, d time.Duration) error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		_, err := Generate(chain, dice.New(seed))
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(d):
		t.Fatalf("Generate(seed %d) still running after %v", seed, d)
		return nil
	}
}

func assertBorderClosed(t *testing.T, m *gamemap.Map) {
	t.Helper()
	for idx, tile := range m.Tiles {
		if m.IsBorder(idx) && tile.Walkable() {
			x, y := m.XY(idx)
			t.Fatalf("border cell (%d, %d) is walkable %s", x, y, tile)
		}
	}
}

func assertStartWalkable(t *testing.T, m *gamemap.Map) int {
	t.Helper()
	start, ok := m.StartIndex()
	if !ok {
		t.Fatal("no starting position")
	}
	if !m.Tiles[start].Walkable() {
		t.Fatalf("starting position is %s", m.Tiles[start])
	}
	return start
}

func assertExitReachable(t *testing.T, m *gamemap.Map) {
	t.Helper()
	start := assertStartWalkable(t, m)
	for idx, tile := range m.Tiles {
		if tile == gamemap.DownStairs && pathing.Reachable(m, start, idx, pathing.Blocked{}) {
			return
		}
	}
	t.Fatal("no reachable down stairs")
}
