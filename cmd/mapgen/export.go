package main

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/delvegen/internal/mapgen"
)

// LevelYAML is the exported form of a level
type LevelYAML struct {
	Name        string         `yaml:"name"`
	Depth       int            `yaml:"depth"`
	Seed        int64          `yaml:"seed"`
	Width       int            `yaml:"width"`
	Height      int            `yaml:"height"`
	Fingerprint string         `yaml:"fingerprint"`
	Start       *PointYAML     `yaml:"start,omitempty"`
	Entrances   map[string]int `yaml:"entrances,omitempty"`
	Rows        []string       `yaml:"rows"`
	Spawns      []SpawnYAML    `yaml:"spawns,omitempty"`
}

type PointYAML struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type SpawnYAML struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Name string `yaml:"name"`
}

func exportYAML(level *mapgen.Level, seed int64) ([]byte, error) {
	m := level.Map
	out := LevelYAML{
		Name:        m.Name,
		Depth:       m.Depth,
		Seed:        seed,
		Width:       m.Width,
		Height:      m.Height,
		Fingerprint: m.Fingerprint(),
		Entrances:   level.Entrances,
		Rows:        m.Rows(),
	}
	if p, ok := level.Start(); ok {
		out.Start = &PointYAML{X: p.X, Y: p.Y}
	}
	for _, s := range level.SpawnList {
		x, y := m.XY(s.Index)
		out.Spawns = append(out.Spawns, SpawnYAML{X: x, Y: y, Name: s.Name})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
