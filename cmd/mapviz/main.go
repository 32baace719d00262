package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lawnchairsociety/delvegen/internal/config"
	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/mapgen"
	"github.com/lawnchairsociety/delvegen/internal/visualizer"
)

func main() {
	configFile := flag.String("config", "data/delvegen.yaml", "Path to config YAML file")
	depth := flag.Int("depth", 0, "Dungeon depth to generate (overrides config)")
	seed := flag.Int64("seed", 0, "Generation seed (overrides config)")
	listen := flag.String("listen", "", "Address to serve the snapshot stream on (overrides config)")
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
		case "listen":
			cfg.Visualizer.Listen = *listen
		}
	})
	cfg.Generator.Snapshots = true
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
		logger.Error("failed to load generator data", "error", err)
		os.Exit(1)
	}

	g := cfg.Generator
	levelSeed := g.ResolveSeed()
	rng := dice.New(levelSeed)
	level, err := mapgen.Generate(mapgen.LevelBuilder(g.Depth, rng, g.Width, g.Height, opts...), rng)
	if err != nil {
		logger.Error("failed to generate level", "depth", g.Depth, "seed", levelSeed, "error", err)
		os.Exit(1)
	}
	logger.Always("level generated",
		"name", level.Map.Name,
		"depth", g.Depth,
		"seed", levelSeed,
		"snapshots", len(level.History))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := visualizer.NewServer(level, cfg.Visualizer).ListenAndServe(ctx); err != nil {
		logger.Error("visualizer stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("visualizer shut down")
}
