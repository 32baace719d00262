package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lawnchairsociety/delvegen/internal/mapgen"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "delvegen.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Generator.Width != 80 || cfg.Generator.Height != 50 {
		t.Errorf("default size = %dx%d, want 80x50", cfg.Generator.Width, cfg.Generator.Height)
	}
	if cfg.Generator.SnapshotLimit != 512 {
		t.Errorf("SnapshotLimit = %d, want 512", cfg.Generator.SnapshotLimit)
	}
	if got := cfg.Generator.ParsedRegionDice().String(); got != "1d7-3" {
		t.Errorf("ParsedRegionDice() = %q, want 1d7-3", got)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("Store.Driver = %q, want sqlite", cfg.Store.Driver)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Generator.Width != 80 {
		t.Errorf("expected defaults for missing file, got width %d", cfg.Generator.Width)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
generator:
  width: 60
  depth: 4
  seed: 1234
  snapshots: true
  region_dice: 2d4
store:
  driver: postgres
  postgres:
    host: db.internal
    port: 5433
visualizer:
  frame_delay: 20ms
  allowed_origins:
    - "https://example.com"
logging:
  level: DEBUG
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g := cfg.Generator
	if g.Width != 60 || g.Height != 50 || g.Depth != 4 || g.Seed != 1234 || !g.Snapshots {
		t.Errorf("Generator = %+v", g)
	}
	if got := g.ParsedRegionDice(); got.Count != 2 || got.Sides != 4 {
		t.Errorf("ParsedRegionDice() = %v, want 2d4", got)
	}
	if cfg.Store.Driver != "postgres" || cfg.Store.Postgres.Host != "db.internal" || cfg.Store.Postgres.Port != 5433 {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Store.Postgres.SSLMode != "disable" {
		t.Errorf("unset postgres fields should keep defaults, got sslmode %q", cfg.Store.Postgres.SSLMode)
	}
	if cfg.Visualizer.FrameDelay != 20*time.Millisecond {
		t.Errorf("FrameDelay = %v, want 20ms", cfg.Visualizer.FrameDelay)
	}
	if len(cfg.Visualizer.AllowedOrigins) != 1 {
		t.Errorf("AllowedOrigins = %v", cfg.Visualizer.AllowedOrigins)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Logging.Level = %q, want DEBUG", cfg.Logging.Level)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
generator:
  width: 60
  seed: 5
`)
	t.Setenv("DELVEGEN_GENERATOR_WIDTH", "100")
	t.Setenv("DELVEGEN_GENERATOR_SNAPSHOTS", "true")
	t.Setenv("DELVEGEN_STORE_SQLITE_PATH", "/tmp/other.db")
	t.Setenv("DELVEGEN_VISUALIZER_ALLOWED_ORIGINS", "https://a.test,https://b.test")
	t.Setenv("DELVEGEN_VISUALIZER_CONNECTIONS_MAX_TOTAL", "7")
	t.Setenv("LOG_LEVEL", "WARN")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Generator.Width != 100 {
		t.Errorf("Width = %d, want env value 100", cfg.Generator.Width)
	}
	if cfg.Generator.Seed != 5 {
		t.Errorf("Seed = %d, want file value 5", cfg.Generator.Seed)
	}
	if !cfg.Generator.Snapshots {
		t.Error("Snapshots should be enabled from env")
	}
	if cfg.Store.SQLitePath != "/tmp/other.db" {
		t.Errorf("SQLitePath = %q", cfg.Store.SQLitePath)
	}
	if len(cfg.Visualizer.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.Visualizer.AllowedOrigins)
	}
	if cfg.Visualizer.Connections.MaxTotal != 7 {
		t.Errorf("MaxTotal = %d, want 7", cfg.Visualizer.Connections.MaxTotal)
	}
	if cfg.Logging.Level != "WARN" {
		t.Errorf("Logging.Level = %q, want WARN", cfg.Logging.Level)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "generator: [unclosed")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tiny map", func(c *Config) { c.Generator.Width = 5 }},
		{"one column short", func(c *Config) { c.Generator.Width = mapgen.MinWidth - 1 }},
		{"one row short", func(c *Config) { c.Generator.Height = mapgen.MinHeight - 1 }},
		{"zero depth", func(c *Config) { c.Generator.Depth = 0 }},
		{"bad dice", func(c *Config) { c.Generator.RegionDice = "lots" }},
		{"bad driver", func(c *Config) { c.Store.Driver = "mysql" }},
		{"bad log format", func(c *Config) { c.Logging.ConsoleFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() succeeded, want error")
			}
			if tt.name != "bad log format" && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidateAcceptsMinimumSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator.Width = mapgen.MinWidth
	cfg.Generator.Height = mapgen.MinHeight
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() at %dx%d = %v, want nil", mapgen.MinWidth, mapgen.MinHeight, err)
	}
}

func TestIsOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"same origin, no header", nil, "", true},
		{"same origin, matching host", nil, "http://localhost:4000", true},
		{"same origin, other host", nil, "http://evil.com", false},
		{"wildcard", []string{"*"}, "http://anything.com", true},
		{"exact match", []string{"https://example.com"}, "https://example.com", true},
		{"partial match", []string{"https://example.com"}, "https://example.com:8080", false},
	}

	for _, tt := range tests {
		cfg := VisualizerConfig{AllowedOrigins: tt.allowed}
		if got := cfg.IsOriginAllowed(tt.origin, "localhost:4000"); got != tt.want {
			t.Errorf("%s: IsOriginAllowed(%q) = %v, want %v", tt.name, tt.origin, got, tt.want)
		}
	}
}

func TestIsSameOrigin(t *testing.T) {
	tests := []struct {
		origin      string
		requestHost string
		expected    bool
	}{
		{"", "localhost:4000", true},
		{"http://localhost:4000", "localhost:4000", true},
		{"https://localhost:4000", "localhost:4000", true},
		{"http://localhost:4000/", "localhost:4000", true},
		{"http://example.com", "localhost:4000", false},
		{"http://localhost:3000", "localhost:4000", false},
		{"ws://localhost:4000", "localhost:4000", true},
	}

	for _, tt := range tests {
		if got := isSameOrigin(tt.origin, tt.requestHost); got != tt.expected {
			t.Errorf("isSameOrigin(%q, %q) = %v, want %v", tt.origin, tt.requestHost, got, tt.expected)
		}
	}
}

func TestChainOptions(t *testing.T) {
	cfg := DefaultConfig()
	opts, err := cfg.ChainOptions()
	if err != nil {
		t.Fatalf("ChainOptions() failed: %v", err)
	}
	if len(opts) != 1 {
		t.Errorf("default options = %d, want only the region dice", len(opts))
	}

	cfg.Generator.Snapshots = true
	cfg.Spawns.Path = writeConfig(t, `
tables:
  default:
    entries:
      - { name: Slime, weight: 1 }
`)
	opts, err = cfg.ChainOptions()
	if err != nil {
		t.Fatalf("ChainOptions() failed: %v", err)
	}
	if len(opts) != 3 {
		t.Errorf("options = %d, want 3", len(opts))
	}

	cfg.Prefabs.Path = "/nonexistent/prefabs.yaml"
	if _, err := cfg.ChainOptions(); err == nil {
		t.Error("ChainOptions() should fail for a missing prefab library")
	}
}

func TestResolveSeed(t *testing.T) {
	g := GeneratorConfig{Seed: 42}
	if got := g.ResolveSeed(); got != 42 {
		t.Errorf("ResolveSeed() = %d, want 42", got)
	}
	g.RandomSeed = true
	if got := g.ResolveSeed(); got == 42 {
		t.Error("ResolveSeed() should ignore Seed when RandomSeed is set")
	}
}
