package spawns

import "github.com/lawnchairsociety/delvegen/internal/dice"

// Entry is one weighted outcome of a Table. An empty Name means nothing spawns.
type Entry struct {
	Name   string
	Weight int
}

// Table is a weighted random table of entity names
type Table struct {
	entries []Entry
	total   int
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{}
}

// Add appends an outcome. Entries with a weight below 1 are ignored so depth
// scaled weights can drop out of shallow tables.
func (t *Table) Add(name string, weight int) *Table {
	if weight > 0 {
		t.entries = append(t.entries, Entry{Name: name, Weight: weight})
		t.total += weight
	}
	return t
}

// AddNothing appends an outcome that spawns nothing
func (t *Table) AddNothing(weight int) *Table {
	return t.Add("", weight)
}

// Len returns the number of entries
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the table's entries
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// TotalWeight returns the sum of all entry weights
func (t *Table) TotalWeight() int {
	return t.total
}

// Roll picks an outcome. The second return is false when the table is empty
// or the roll landed on a nothing entry.
func (t *Table) Roll(rng dice.Roller) (string, bool) {
	if t == nil || t.total == 0 {
		return "", false
	}

	roll := rng.RollDice(1, t.total) - 1
	for _, e := range t.entries {
		if roll < e.Weight {
			return e.Name, e.Name != ""
		}
		roll -= e.Weight
	}
	return "", false
}
