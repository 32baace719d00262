package mapgen

import (
	"errors"
	"testing"

	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
	"github.com/lawnchairsociety/delvegen/internal/spawns"
)

func TestBuildMapRequiresStarter(t *testing.T) {
	defer func() {
		r := recover()
		if r != ErrNoStarter {
			t.Errorf("recovered %v, want ErrNoStarter", r)
		}
	}()

	NewBuilderChain(1, 20, 20, "test").BuildMap(dice.New(1))
	t.Error("BuildMap should panic without a starting builder")
}

func TestStartWithTwice(t *testing.T) {
	defer func() {
		r := recover()
		if r != ErrStarterAlreadySet {
			t.Errorf("recovered %v, want ErrStarterAlreadySet", r)
		}
	}()

	NewBuilderChain(1, 20, 20, "test").
		StartWith(NewCellularAutomata()).
		StartWith(NewMaze())
	t.Error("StartWith should panic when called twice")
}

func TestGenerateRepanicsOnMisuse(t *testing.T) {
	defer func() {
		if r := recover(); r != ErrNoStarter {
			t.Errorf("recovered %v, want ErrNoStarter", r)
		}
	}()

	_, _ = Generate(NewBuilderChain(1, 20, 20, "test"), dice.New(1))
	t.Error("Generate should not swallow chain misuse")
}

func TestGenerateReturnsBuilderErrors(t *testing.T) {
	tests := []struct {
		name  string
		chain *BuilderChain
		want  error
	}{
		{
			name: "corridors without rooms",
			chain: NewBuilderChain(1, 40, 30, "test").
				StartWith(NewCellularAutomata()).
				With(NewDoglegCorridors()),
			want: ErrNoRooms,
		},
		{
			name: "corridor spawner without corridors",
			chain: NewBuilderChain(1, 40, 30, "test").
				StartWith(NewSimpleRooms(6, 10)).
				With(NewCorridorSpawner()),
			want: ErrNoCorridors,
		},
		{
			name: "start on solid rock",
			chain: NewBuilderChain(1, 40, 30, "test").
				StartWith(fromRows{}).
				With(NewAreaStartingPosition(XCenter, YCenter)),
			want: ErrNoStartFloor,
		},
		{
			name: "exit without start",
			chain: NewBuilderChain(1, 40, 30, "test").
				StartWith(openArea{}).
				With(NewDistantExit()),
			want: ErrNoStartingPosition,
		},
		{
			name: "unknown prefab",
			chain: NewBuilderChain(1, 40, 30, "test").
				StartWith(NewConstantPrefab("no_such_level")),
			want: ErrUnknownPrefab,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			level, err := Generate(tc.chain, dice.New(7))
			if !errors.Is(err, tc.want) {
				t.Fatalf("Generate() error = %v, want %v", err, tc.want)
			}
			if level != nil {
				t.Error("Generate() should not return a level on failure")
			}
		})
	}
}

func TestMetaBuildersRunInOrder(t *testing.T) {
	var log []string
	chain := NewBuilderChain(1, 20, 20, "test").
		StartWith(openArea{}).
		With(recorder{"first", &log}).
		With(recorder{"second", &log}).
		With(recorder{"third", &log})

	mustGenerate(t, chain, 1)

	want := []string{"first", "second", "third"}
	if len(log) != len(want) {
		t.Fatalf("ran %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("ran %v, want %v", log, want)
		}
	}
}

func TestSnapshots(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want int
	}{
		{"disabled", nil, 0},
		{"bounded", []Option{WithSnapshots(5)}, 5},
		// Seeding plus fifteen smoothing passes.
		{"roomy", []Option{WithSnapshots(100)}, 16},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chain := NewBuilderChain(1, 40, 30, "test", tc.opts...).StartWith(NewCellularAutomata())
			level := mustGenerate(t, chain, 3)
			if len(level.History) != tc.want {
				t.Fatalf("History has %d frames, want %d", len(level.History), tc.want)
			}
			if tc.want > 0 {
				last := level.History[len(level.History)-1]
				if last.Fingerprint() != level.Map.Fingerprint() {
					t.Error("last snapshot should match the finished map")
				}
				if !last.Revealed[0] {
					t.Error("snapshots should be fully revealed")
				}
			}
		})
	}
}

func TestSnapshotsDoNotChangeOutput(t *testing.T) {
	plain := mustGenerate(t, LevelBuilder(3, dice.New(5), 80, 50), 5)
	recorded := mustGenerate(t, LevelBuilder(3, dice.New(5), 80, 50, WithSnapshots(0)), 5)

	if plain.Map.Fingerprint() != recorded.Map.Fingerprint() {
		t.Error("enabling snapshots changed the generated map")
	}
	if len(recorded.History) == 0 {
		t.Error("expected snapshots to be recorded")
	}
}

type spawnRecorder struct {
	got  []Spawn
	fail string
}

func (s *spawnRecorder) Spawn(m *gamemap.Map, idx int, name string) error {
	if name == s.fail {
		return errors.New("cannot spawn")
	}
	s.got = append(s.got, Spawn{Index: idx, Name: name})
	return nil
}

func TestSpawnEntities(t *testing.T) {
	chain := NewBuilderChain(1, 20, 20, "test").StartWith(openArea{})
	chain.BuildMap(dice.New(1))
	chain.Context().addSpawn(21, "Goblin")
	chain.Context().addSpawn(22, "Rations")

	rec := &spawnRecorder{}
	if err := chain.SpawnEntities(rec); err != nil {
		t.Fatalf("SpawnEntities() failed: %v", err)
	}
	if len(rec.got) != 2 || rec.got[0].Name != "Goblin" || rec.got[1].Index != 22 {
		t.Errorf("spawned %v", rec.got)
	}

	if err := chain.SpawnEntities(&spawnRecorder{fail: "Rations"}); err == nil {
		t.Error("SpawnEntities() should report spawner errors")
	}
}

type slimeTables struct{}

func (slimeTables) TableFor(mapName string, depth int) *spawns.Table {
	return spawns.NewTable().Add("Slime", 1)
}

func TestWithSpawnTables(t *testing.T) {
	chain := NewBuilderChain(8, 80, 50, "test", WithSpawnTables(slimeTables{})).
		StartWith(openArea{}).
		With(NewVoronoiSpawning())
	level := mustGenerate(t, chain, 11)

	if len(level.SpawnList) == 0 {
		t.Fatal("expected spawns")
	}
	for _, s := range level.SpawnList {
		if s.Name != "Slime" {
			t.Errorf("spawned %q from the custom tables", s.Name)
		}
	}
}
