// Package prefab holds hand-authored ASCII map templates: whole levels,
// fixed sections placed at a screen position, and small vaults stamped
// onto open floor.
package prefab

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

var (
	ErrTemplateNotFound = errors.New("prefab: template not found")
	ErrInvalidTemplate  = errors.New("prefab: invalid template")
)

// HorizontalPlacement anchors a section horizontally
type HorizontalPlacement string

const (
	Left   HorizontalPlacement = "left"
	Center HorizontalPlacement = "center"
	Right  HorizontalPlacement = "right"
)

// VerticalPlacement anchors a section vertically
type VerticalPlacement string

const (
	Top    VerticalPlacement = "top"
	Middle VerticalPlacement = "center"
	Bottom VerticalPlacement = "bottom"
)

// Template is one ASCII block. Rows shorter than Width are padded with
// spaces when the library is loaded.
type Template struct {
	Name       string              `yaml:"name"`
	Width      int                 `yaml:"width"`
	Height     int                 `yaml:"height"`
	X          HorizontalPlacement `yaml:"x,omitempty"`
	Y          VerticalPlacement   `yaml:"y,omitempty"`
	FirstDepth int                 `yaml:"first_depth,omitempty"`
	LastDepth  int                 `yaml:"last_depth,omitempty"`
	Rows       []string            `yaml:"rows"`
}

// At returns the character at (x, y) of the template
func (t Template) At(x, y int) rune {
	return []rune(t.Rows[y])[x]
}

// Library is the set of templates available to prefab builders
type Library struct {
	Levels   []Template `yaml:"levels"`
	Sections []Template `yaml:"sections"`
	Vaults   []Template `yaml:"vaults"`
}

//go:embed prefabs.yaml
var defaultLibraryYAML []byte

// DefaultLibrary returns the built-in templates
func DefaultLibrary() *Library {
	lib, err := ParseLibrary(defaultLibraryYAML)
	if err != nil {
		panic(fmt.Sprintf("prefab: embedded library is invalid: %v", err))
	}
	return lib
}

// LoadLibrary reads templates from a YAML file
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prefab library: %w", err)
	}
	return ParseLibrary(data)
}

// ParseLibrary decodes and normalizes templates from YAML
func ParseLibrary(data []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("failed to parse prefab YAML: %w", err)
	}

	for _, group := range [][]Template{lib.Levels, lib.Sections, lib.Vaults} {
		for i := range group {
			if err := group[i].normalize(); err != nil {
				return nil, err
			}
		}
	}
	return &lib, nil
}

func (t *Template) normalize() error {
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("%w: %s has size %dx%d", ErrInvalidTemplate, t.Name, t.Width, t.Height)
	}
	if len(t.Rows) > t.Height {
		return fmt.Errorf("%w: %s has %d rows, height is %d", ErrInvalidTemplate, t.Name, len(t.Rows), t.Height)
	}
	for len(t.Rows) < t.Height {
		t.Rows = append(t.Rows, "")
	}
	for i, row := range t.Rows {
		n := utf8.RuneCountInString(row)
		if n > t.Width {
			return fmt.Errorf("%w: %s row %d is %d wide, width is %d", ErrInvalidTemplate, t.Name, i, n, t.Width)
		}
		t.Rows[i] = row + strings.Repeat(" ", t.Width-n)
	}
	if t.X == "" {
		t.X = Center
	}
	if t.Y == "" {
		t.Y = Middle
	}
	return nil
}

// Level returns the whole-level template with the given name
func (l *Library) Level(name string) (Template, error) {
	return find(l.Levels, name)
}

// Section returns the section template with the given name
func (l *Library) Section(name string) (Template, error) {
	return find(l.Sections, name)
}

// VaultsFor returns the vaults allowed at a depth, in library order
func (l *Library) VaultsFor(depth int) []Template {
	var out []Template
	for _, v := range l.Vaults {
		if depth < v.FirstDepth {
			continue
		}
		if v.LastDepth > 0 && depth > v.LastDepth {
			continue
		}
		out = append(out, v)
	}
	return out
}

func find(templates []Template, name string) (Template, error) {
	for _, t := range templates {
		if t.Name == name {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}
