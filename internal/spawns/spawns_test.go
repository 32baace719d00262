package spawns

import (
	"errors"
	"os"
	"testing"

	"github.com/lawnchairsociety/delvegen/internal/dice"
)

func TestTableRollEmpty(t *testing.T) {
	rng := dice.New(1)

	if _, ok := NewTable().Roll(rng); ok {
		t.Error("Roll() on an empty table should produce nothing")
	}

	var nilTable *Table
	if _, ok := nilTable.Roll(rng); ok {
		t.Error("Roll() on a nil table should produce nothing")
	}
}

func TestTableIgnoresNonPositiveWeights(t *testing.T) {
	tbl := NewTable().Add("Longsword", 0).Add("Tower Shield", -3).Add("Dagger", 2)

	if tbl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tbl.Len())
	}
	if tbl.TotalWeight() != 2 {
		t.Errorf("TotalWeight() = %d, want 2", tbl.TotalWeight())
	}
}

func TestTableRollSingleEntry(t *testing.T) {
	tbl := NewTable().Add("Goblin", 5)
	rng := dice.New(3)

	for i := 0; i < 20; i++ {
		name, ok := tbl.Roll(rng)
		if !ok || name != "Goblin" {
			t.Fatalf("Roll() = %q, %v, want Goblin, true", name, ok)
		}
	}
}

func TestTableRollNothing(t *testing.T) {
	tbl := NewTable().AddNothing(1000).Add("Goblin", 1)
	rng := dice.New(11)

	nothing := 0
	for i := 0; i < 100; i++ {
		if _, ok := tbl.Roll(rng); !ok {
			nothing++
		}
	}
	if nothing < 90 {
		t.Errorf("nothing rolled %d/100 times, want most rolls empty", nothing)
	}
}

func TestTableRollDistribution(t *testing.T) {
	tbl := NewTable().Add("common", 9).Add("rare", 1)
	rng := dice.New(5)

	counts := map[string]int{}
	for i := 0; i < 1000; i++ {
		name, _ := tbl.Roll(rng)
		counts[name]++
	}
	if counts["common"] < counts["rare"]*3 {
		t.Errorf("counts = %v, want common to dominate", counts)
	}
}

func TestDefaultCatalogDepthScaling(t *testing.T) {
	c := DefaultCatalog()

	shallow := weights(c.TableFor("Some Dungeon", 1))
	if _, ok := shallow["Longsword"]; ok {
		t.Error("Longsword should not appear at depth 1")
	}
	if shallow["Orc"] != 2 {
		t.Errorf("Orc weight at depth 1 = %d, want 2", shallow["Orc"])
	}

	deep := weights(c.TableFor("Some Dungeon", 5))
	if deep["Longsword"] != 4 {
		t.Errorf("Longsword weight at depth 5 = %d, want 4", deep["Longsword"])
	}
	if deep["Goblin"] != 10 {
		t.Errorf("Goblin weight at depth 5 = %d, want 10", deep["Goblin"])
	}
}

func TestCatalogNamedTable(t *testing.T) {
	c := DefaultCatalog()

	woods := weights(c.TableFor("The Woods", 2))
	if woods["Wolf"] != 8 {
		t.Errorf("Wolf weight = %d, want 8", woods["Wolf"])
	}
	if woods[""] != 10 {
		t.Errorf("nothing weight = %d, want 10", woods[""])
	}
}

func TestParseCatalogErrors(t *testing.T) {
	if _, err := ParseCatalog([]byte("tables: {}\n")); !errors.Is(err, ErrNoTables) {
		t.Errorf("ParseCatalog(empty) error = %v, want ErrNoTables", err)
	}
	if _, err := ParseCatalog([]byte("tables: [oops")); err == nil {
		t.Error("ParseCatalog(malformed) should fail")
	}
}

func TestLoadCatalog(t *testing.T) {
	f, err := os.CreateTemp("", "spawns-*.yaml")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer os.Remove(f.Name())

	content := `tables:
  default:
    entries:
      - name: Rat
        weight: 4
        min_depth: 2
        max_depth: 3
`
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	f.Close()

	c, err := LoadCatalog(f.Name())
	if err != nil {
		t.Fatalf("LoadCatalog() error: %v", err)
	}

	tests := []struct {
		depth int
		want  int
	}{
		{1, 0},
		{2, 4},
		{3, 4},
		{4, 0},
	}
	for _, tt := range tests {
		if got := weights(c.TableFor("anything", tt.depth))["Rat"]; got != tt.want {
			t.Errorf("Rat weight at depth %d = %d, want %d", tt.depth, got, tt.want)
		}
	}

	if _, err := LoadCatalog("/nonexistent/spawns.yaml"); err == nil {
		t.Error("LoadCatalog(missing) should fail")
	}
}

func weights(t *Table) map[string]int {
	w := map[string]int{}
	for _, e := range t.Entries() {
		w[e.Name] += e.Weight
	}
	return w
}
