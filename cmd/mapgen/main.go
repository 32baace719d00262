package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lawnchairsociety/delvegen/internal/config"
	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/levelstore"
	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/mapgen"
)

func main() {
	configFile := flag.String("config", "data/delvegen.yaml", "Path to config YAML file")
	depth := flag.Int("depth", 0, "Dungeon depth to generate (overrides config)")
	seed := flag.Int64("seed", 0, "Generation seed (overrides config)")
	width := flag.Int("width", 0, "Map width (overrides config)")
	height := flag.Int("height", 0, "Map height (overrides config)")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	yamlFile := flag.String("yaml", "", "Also export the level as YAML to this file")
	showLegend := flag.Bool("legend", true, "Show legend")
	showHistory := flag.Bool("history", false, "Print every build snapshot before the final map")
	archive := flag.Bool("store", false, "Archive the level in the configured level store")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "depth":
			cfg.Generator.Depth = *depth
		case "seed":
			cfg.Generator.Seed = *seed
			cfg.Generator.RandomSeed = false
		case "width":
			cfg.Generator.Width = *width
		case "height":
			cfg.Generator.Height = *height
		case "history":
			cfg.Generator.Snapshots = *showHistory
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error in config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	opts, err := cfg.ChainOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading generator data: %v\n", err)
		os.Exit(1)
	}

	g := cfg.Generator
	levelSeed := g.ResolveSeed()
	rng := dice.New(levelSeed)
	chain := mapgen.LevelBuilder(g.Depth, rng, g.Width, g.Height, opts...)
	level, err := mapgen.Generate(chain, rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating level: %v\n", err)
		os.Exit(1)
	}

	tally := newSpawnTally()
	if err := chain.SpawnEntities(tally); err != nil {
		fmt.Fprintf(os.Stderr, "Error placing entities: %v\n", err)
		os.Exit(1)
	}

	var output strings.Builder
	if *showHistory {
		renderHistory(&output, level)
	}
	renderLevel(&output, level, levelSeed)
	renderSpawns(&output, tally)
	if *showLegend {
		output.WriteString(getLegend())
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output.String()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Map written to %s\n", *outputFile)
	} else {
		fmt.Print(output.String())
	}

	if *yamlFile != "" {
		data, err := exportYAML(level, levelSeed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding YAML: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*yamlFile, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing YAML file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Level exported to %s\n", *yamlFile)
	}

	if *archive {
		if err := archiveLevel(cfg.Store, levelSeed, level); err != nil {
			fmt.Fprintf(os.Stderr, "Error archiving level: %v\n", err)
			os.Exit(1)
		}
	}
}

func archiveLevel(cfg levelstore.Config, seed int64, level *mapgen.Level) error {
	store, err := levelstore.OpenWithConfig(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Save(seed, level)
	if err != nil {
		return err
	}
	fmt.Printf("Level archived with id %d\n", id)
	return nil
}
