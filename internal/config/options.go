package config

import (
	"time"

	"github.com/lawnchairsociety/delvegen/internal/mapgen"
	"github.com/lawnchairsociety/delvegen/internal/prefab"
	"github.com/lawnchairsociety/delvegen/internal/spawns"
)

// ChainOptions turns the generator settings into builder chain options,
// loading the prefab library and spawn catalog overrides when configured.
func (c *Config) ChainOptions() ([]mapgen.Option, error) {
	opts := []mapgen.Option{
		mapgen.WithRegionDice(c.Generator.ParsedRegionDice()),
	}

	if c.Generator.Snapshots {
		opts = append(opts, mapgen.WithSnapshots(c.Generator.SnapshotLimit))
	}
	if c.Prefabs.Path != "" {
		lib, err := prefab.LoadLibrary(c.Prefabs.Path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, mapgen.WithPrefabs(lib))
	}
	if c.Spawns.Path != "" {
		catalog, err := spawns.LoadCatalog(c.Spawns.Path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, mapgen.WithSpawnTables(catalog))
	}
	return opts, nil
}

// ResolveSeed returns the configured seed, or one from the clock when RandomSeed
// is set.
func (g GeneratorConfig) ResolveSeed() int64 {
	if g.RandomSeed {
		return time.Now().UnixNano()
	}
	return g.Seed
}
