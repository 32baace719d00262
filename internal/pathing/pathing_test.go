package pathing

import (
	"math"
	"testing"

	"github.com/lawnchairsociety/delvegen/internal/gamemap"
)

// corridorMap builds a map with a horizontal floor corridor on row 2.
func corridorMap(width int) *gamemap.Map {
	m := gamemap.New(1, width, 5, "corridor")
	for x := 1; x < width-1; x++ {
		m.Tiles[m.Index(x, 2)] = gamemap.Floor
	}
	return m
}

func TestDistanceMapCorridor(t *testing.T) {
	m := corridorMap(10)
	start := m.Index(1, 2)

	dist := DistanceMap(m, []int{start}, 100, Blocked{})

	for x := 1; x < 9; x++ {
		idx := m.Index(x, 2)
		want := float64(x - 1)
		if math.Abs(dist[idx]-want) > 1e-9 {
			t.Errorf("dist(%d,2) = %v, want %v", x, dist[idx], want)
		}
	}
	if !math.IsInf(dist[m.Index(0, 0)], 1) {
		t.Errorf("wall cell distance = %v, want +Inf", dist[m.Index(0, 0)])
	}
}

func TestDistanceMapMaxDepth(t *testing.T) {
	m := corridorMap(20)
	dist := DistanceMap(m, []int{m.Index(1, 2)}, 5, Blocked{})

	if math.IsInf(dist[m.Index(5, 2)], 1) {
		t.Error("cell at distance 4 should be reached")
	}
	if !math.IsInf(dist[m.Index(10, 2)], 1) {
		t.Errorf("cell at distance 9 = %v, want +Inf beyond max depth", dist[m.Index(10, 2)])
	}
}

func TestDistanceMapBlockedOverlay(t *testing.T) {
	m := corridorMap(10)
	blocked := NewBlocked(m.Index(5, 2))

	dist := DistanceMap(m, []int{m.Index(1, 2)}, 100, blocked)
	if !math.IsInf(dist[m.Index(7, 2)], 1) {
		t.Errorf("cell behind blocker = %v, want +Inf", dist[m.Index(7, 2)])
	}
	if dist[m.Index(4, 2)] != 3 {
		t.Errorf("cell before blocker = %v, want 3", dist[m.Index(4, 2)])
	}
}

func TestDistanceMapTileCosts(t *testing.T) {
	m := corridorMap(6)
	for x := 1; x < 5; x++ {
		m.Tiles[m.Index(x, 2)] = gamemap.Road
	}

	dist := DistanceMap(m, []int{m.Index(1, 2)}, 100, Blocked{})
	if got := dist[m.Index(4, 2)]; math.Abs(got-2.4) > 1e-9 {
		t.Errorf("road distance = %v, want 2.4", got)
	}
}

func TestDistanceMapDiagonal(t *testing.T) {
	m := gamemap.New(1, 5, 5, "open")
	for y := 1; y < 4; y++ {
		for x := 1; x < 4; x++ {
			m.Tiles[m.Index(x, y)] = gamemap.Floor
		}
	}

	dist := DistanceMap(m, []int{m.Index(1, 1)}, 100, Blocked{})
	if got := dist[m.Index(2, 2)]; math.Abs(got-1.45) > 1e-9 {
		t.Errorf("diagonal distance = %v, want 1.45", got)
	}
}

func TestDistanceMapMultipleStarts(t *testing.T) {
	m := corridorMap(12)
	dist := DistanceMap(m, []int{m.Index(1, 2), m.Index(10, 2)}, 100, Blocked{})

	if got := dist[m.Index(9, 2)]; got != 1 {
		t.Errorf("dist near second start = %v, want 1", got)
	}
	if got := dist[m.Index(2, 2)]; got != 1 {
		t.Errorf("dist near first start = %v, want 1", got)
	}
}

func TestAStar(t *testing.T) {
	m := corridorMap(10)
	start, end := m.Index(1, 2), m.Index(8, 2)

	path := AStar(m, start, end, Blocked{})
	if !path.Success {
		t.Fatal("AStar() failed on an open corridor")
	}
	if path.Steps[0] != start || path.Steps[len(path.Steps)-1] != end {
		t.Errorf("path endpoints = %d..%d, want %d..%d", path.Steps[0], path.Steps[len(path.Steps)-1], start, end)
	}
	if len(path.Steps) != 8 {
		t.Errorf("len(Steps) = %d, want 8", len(path.Steps))
	}
	for _, idx := range path.Steps {
		if !m.Tiles[idx].Walkable() {
			t.Errorf("path crosses unwalkable cell %d", idx)
		}
	}
}

func TestAStarNoPath(t *testing.T) {
	m := corridorMap(10)
	m.Tiles[m.Index(5, 2)] = gamemap.Wall

	if path := AStar(m, m.Index(1, 2), m.Index(8, 2), Blocked{}); path.Success {
		t.Errorf("AStar() across a wall = %v, want failure", path.Steps)
	}
	if Reachable(m, m.Index(1, 2), m.Index(8, 2), Blocked{}) {
		t.Error("Reachable() = true across a wall")
	}
}

func TestAStarSameCell(t *testing.T) {
	m := corridorMap(10)
	idx := m.Index(3, 2)
	path := AStar(m, idx, idx, Blocked{})
	if !path.Success || len(path.Steps) != 1 {
		t.Errorf("AStar(same) = %+v, want single-step success", path)
	}
}

func TestComponents(t *testing.T) {
	m := corridorMap(10)
	if got := Components(m, Blocked{}); got != 1 {
		t.Errorf("Components() = %d, want 1", got)
	}

	m.Tiles[m.Index(5, 2)] = gamemap.Wall
	if got := Components(m, Blocked{}); got != 2 {
		t.Errorf("Components() after split = %d, want 2", got)
	}
}
