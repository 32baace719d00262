// Package config loads generator settings from YAML with DELVEGEN_*
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/levelstore"
	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/mapgen"
)

// EnvPrefix is prepended to every env tag
const EnvPrefix = "DELVEGEN_"

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the full configuration of the generator tools.
type Config struct {
	Generator  GeneratorConfig   `yaml:"generator" envPrefix:"GENERATOR_"`
	Prefabs    PathConfig        `yaml:"prefabs" envPrefix:"PREFABS_"`
	Spawns     PathConfig        `yaml:"spawns" envPrefix:"SPAWNS_"`
	Store      levelstore.Config `yaml:"store" envPrefix:"STORE_"`
	Visualizer VisualizerConfig  `yaml:"visualizer" envPrefix:"VISUALIZER_"`
	Logging    logger.Config     `yaml:"logging"`
}

// GeneratorConfig controls how a level is built.
type GeneratorConfig struct {
	Width  int   `yaml:"width" env:"WIDTH"`
	Height int   `yaml:"height" env:"HEIGHT"`
	Depth  int   `yaml:"depth" env:"DEPTH"`
	Seed   int64 `yaml:"seed" env:"SEED"`

	// RandomSeed ignores Seed and seeds from the clock.
	RandomSeed bool `yaml:"random_seed" env:"RANDOM_SEED"`

	// Snapshots records the build history for the visualizer.
	Snapshots     bool `yaml:"snapshots" env:"SNAPSHOTS"`
	SnapshotLimit int  `yaml:"snapshot_limit" env:"SNAPSHOT_LIMIT"`

	// RegionDice is the base spawn count of each spawn region, in dice notation.
	RegionDice string `yaml:"region_dice" env:"REGION_DICE"`
}

// PathConfig points at an optional YAML override file. Empty means the
// embedded defaults.
type PathConfig struct {
	Path string `yaml:"path" env:"PATH"`
}

// VisualizerConfig holds the snapshot stream settings.
type VisualizerConfig struct {
	Listen     string        `yaml:"listen" env:"LISTEN"`
	FrameDelay time.Duration `yaml:"frame_delay" env:"FRAME_DELAY"`

	// AllowedOrigins is a list of origins allowed to connect.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins.
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`

	Connections ConnectionsConfig `yaml:"connections" envPrefix:"CONNECTIONS_"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent streams from a single IP address.
	// 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip" env:"MAX_PER_IP"`

	// MaxTotal is the maximum total concurrent streams. 0 means unlimited.
	MaxTotal int `yaml:"max_total" env:"MAX_TOTAL"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Generator: GeneratorConfig{
			Width:         80,
			Height:        50,
			Depth:         1,
			Seed:          1,
			SnapshotLimit: 512,
			RegionDice:    "1d7-3",
		},
		Store: levelstore.DefaultConfig("data/levels.db"),
		Visualizer: VisualizerConfig{
			Listen:         "localhost:8090",
			FrameDelay:     75 * time.Millisecond,
			AllowedOrigins: []string{},
			Connections: ConnectionsConfig{
				MaxPerIP: 3,
				MaxTotal: 20,
			},
		},
		Logging: logger.DefaultConfig(),
	}
}

// LoadConfig loads configuration from a YAML file over the defaults, then
// applies environment overrides. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, config); err != nil {
				return DefaultConfig(), fmt.Errorf("failed to parse config: %w", err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return config, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := ApplyEnv(config); err != nil {
		return config, err
	}
	return config, config.Validate()
}

// ApplyEnv overrides fields from DELVEGEN_* variables. Logging also honours
// the plain LOG_* names, which win.
func ApplyEnv(config *Config) error {
	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return logger.ApplyEnv(&config.Logging)
}

// Validate checks values the generator cannot work with
func (c *Config) Validate() error {
	g := c.Generator
	if g.Width < mapgen.MinWidth || g.Height < mapgen.MinHeight {
		return fmt.Errorf("%w: map must be at least %dx%d, got %dx%d",
			ErrInvalidConfig, mapgen.MinWidth, mapgen.MinHeight, g.Width, g.Height)
	}
	if g.Depth < 1 {
		return fmt.Errorf("%w: depth must be positive, got %d", ErrInvalidConfig, g.Depth)
	}
	if _, err := dice.Parse(g.RegionDice); err != nil {
		return fmt.Errorf("%w: region_dice: %v", ErrInvalidConfig, err)
	}
	switch levelstore.DialectType(c.Store.Driver) {
	case levelstore.DialectSQLite, levelstore.DialectPostgres:
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	return c.Logging.Validate()
}

// ParsedRegionDice returns the spawn region dice, falling back to 1d7-3
func (g GeneratorConfig) ParsedRegionDice() dice.Dice {
	d, err := dice.Parse(g.RegionDice)
	if err != nil {
		return dice.MustParse("1d7-3")
	}
	return d
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *VisualizerConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// isSameOrigin checks if the origin matches the request host.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means a non-browser client
	}

	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
