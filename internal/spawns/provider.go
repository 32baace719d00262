package spawns

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrNoTables is returned when a catalog defines no tables
var ErrNoTables = errors.New("spawns: catalog has no tables")

// DefaultTableName is used when a map has no table of its own
const DefaultTableName = "default"

// Provider hands out the spawn table for a map
type Provider interface {
	TableFor(mapName string, depth int) *Table
}

// EntryDefinition is one entry of a catalog table. The effective weight at a
// depth is Weight + PerDepth*depth.
type EntryDefinition struct {
	Name     string `yaml:"name"`
	Weight   int    `yaml:"weight"`
	PerDepth int    `yaml:"per_depth,omitempty"`
	MinDepth int    `yaml:"min_depth,omitempty"`
	MaxDepth int    `yaml:"max_depth,omitempty"`
}

// TableDefinition is a named list of entries
type TableDefinition struct {
	Nothing int               `yaml:"nothing,omitempty"`
	Entries []EntryDefinition `yaml:"entries"`
}

// Catalog is a YAML-backed Provider
type Catalog struct {
	Tables map[string]TableDefinition `yaml:"tables"`
}

//go:embed spawns.yaml
var defaultCatalogYAML []byte

// DefaultCatalog returns the built-in catalog
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("spawns: embedded catalog is invalid: %v", err))
	}
	return c
}

// ParseCatalog decodes a catalog from YAML
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse spawn catalog YAML: %w", err)
	}
	if len(c.Tables) == 0 {
		return nil, ErrNoTables
	}
	return &c, nil
}

// LoadCatalog reads a catalog from a YAML file
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spawn catalog: %w", err)
	}
	return ParseCatalog(data)
}

// Names returns the catalog's table names in sorted order
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Tables))
	for name := range c.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TableFor builds the table for a map, falling back to the default table
func (c *Catalog) TableFor(mapName string, depth int) *Table {
	def, ok := c.Tables[mapName]
	if !ok {
		def = c.Tables[DefaultTableName]
	}

	t := NewTable()
	for _, e := range def.Entries {
		if e.MinDepth > 0 && depth < e.MinDepth {
			continue
		}
		if e.MaxDepth > 0 && depth > e.MaxDepth {
			continue
		}
		t.Add(e.Name, e.Weight+e.PerDepth*depth)
	}
	t.AddNothing(def.Nothing)
	return t
}
