package levelstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/mapgen"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "levels.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func generate(t *testing.T, depth int, seed int64) *mapgen.Level {
	t.Helper()
	rng := dice.New(seed)
	level, err := mapgen.Generate(mapgen.LevelBuilder(depth, rng, 80, 50), rng)
	if err != nil {
		t.Fatalf("Generate(depth %d, seed %d) failed: %v", depth, seed, err)
	}
	return level
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "levels.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	level := generate(t, 2, 7)

	id, err := s.Save(7, level)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	rec, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get(%d) failed: %v", id, err)
	}
	if rec.Seed != 7 || rec.Depth != 2 || rec.Name != level.Map.Name {
		t.Errorf("Get() = seed %d depth %d name %q", rec.Seed, rec.Depth, rec.Name)
	}
	if rec.Map.Fingerprint() != level.Map.Fingerprint() {
		t.Error("archived tiles differ from the generated level")
	}
	if rec.Fingerprint != level.Map.Fingerprint() {
		t.Errorf("Fingerprint = %q, want %q", rec.Fingerprint, level.Map.Fingerprint())
	}
	if len(rec.Spawns) != len(level.SpawnList) {
		t.Errorf("len(Spawns) = %d, want %d", len(rec.Spawns), len(level.SpawnList))
	}
	for i := range rec.Spawns {
		if rec.Spawns[i] != level.SpawnList[i] {
			t.Errorf("Spawns[%d] = %v, want %v", i, rec.Spawns[i], level.SpawnList[i])
			break
		}
	}

	want, _ := level.Start()
	got := rec.Map.StartingPosition
	if got == nil || *got != want {
		t.Errorf("start = %v, want %v", got, want)
	}
	if rec.Entrances[mapgen.TownName] != level.Entrances[mapgen.TownName] {
		t.Errorf("Entrances = %v, want %v", rec.Entrances, level.Entrances)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestSaveDuplicate(t *testing.T) {
	s := openTestStore(t)
	level := generate(t, 3, 11)

	if _, err := s.Save(11, level); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	_, err := s.Save(11, level)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("second Save() error = %v, want ErrDuplicate", err)
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.Get(42); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("Get(42) error = %v, want ErrLevelNotFound", err)
	}
	if _, err := s.GetByFingerprint("nope"); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("GetByFingerprint() error = %v, want ErrLevelNotFound", err)
	}
	if err := s.Delete(42); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("Delete(42) error = %v, want ErrLevelNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	level := generate(t, 3, 11)

	id, err := s.Save(11, level)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete(%d) failed: %v", id, err)
	}
	if _, err := s.Get(id); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("Get(%d) after Delete error = %v, want ErrLevelNotFound", id, err)
	}
	// The fingerprint is free again once the level is gone.
	if _, err := s.Save(11, level); err != nil {
		t.Errorf("Save() after Delete failed: %v", err)
	}
}

func TestListByDepth(t *testing.T) {
	s := openTestStore(t)

	var ids []int64
	for seed := int64(1); seed <= 3; seed++ {
		id, err := s.Save(seed, generate(t, 5, seed))
		if err != nil {
			t.Fatalf("Save(seed %d) failed: %v", seed, err)
		}
		ids = append(ids, id)
	}
	if _, err := s.Save(1, generate(t, 6, 1)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	records, err := s.ListByDepth(5)
	if err != nil {
		t.Fatalf("ListByDepth() failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("ListByDepth(5) returned %d levels, want 3", len(records))
	}
	for i, rec := range records {
		if rec.ID != ids[i] || rec.Seed != int64(i+1) {
			t.Errorf("records[%d] = id %d seed %d, want id %d seed %d", i, rec.ID, rec.Seed, ids[i], i+1)
		}
	}

	if err := s.Delete(ids[0]); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	records, _ = s.ListByDepth(5)
	if len(records) != 2 {
		t.Errorf("after Delete, ListByDepth(5) returned %d levels, want 2", len(records))
	}
}

func TestGetByFingerprint(t *testing.T) {
	s := openTestStore(t)
	level := generate(t, 1, 3)

	id, err := s.Save(3, level)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	rec, err := s.GetByFingerprint(level.Map.Fingerprint())
	if err != nil {
		t.Fatalf("GetByFingerprint() failed: %v", err)
	}
	if rec.ID != id {
		t.Errorf("GetByFingerprint() id = %d, want %d", rec.ID, id)
	}
}
