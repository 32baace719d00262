package wfc

import (
	"slices"

	"github.com/lawnchairsociety/delvegen/internal/gamemap"
)

// BuildPatterns cuts a map into chunkSize squares. Flipped copies are added
// when includeFlips is set, and repeats are dropped (first occurrence wins)
// when dedupe is set.
func BuildPatterns(m *gamemap.Map, chunkSize int, includeFlips, dedupe bool) []Pattern {
	if chunkSize <= 0 {
		return nil
	}
	chunksX := m.Width / chunkSize
	chunksY := m.Height / chunkSize

	var patterns []Pattern
	for cy := 0; cy < chunksY; cy++ {
		for cx := 0; cx < chunksX; cx++ {
			startX, startY := cx*chunkSize, cy*chunkSize

			read := func(flipX, flipY bool) Pattern {
				p := make(Pattern, 0, chunkSize*chunkSize)
				for y := 0; y < chunkSize; y++ {
					for x := 0; x < chunkSize; x++ {
						sx, sy := x, y
						if flipX {
							sx = chunkSize - 1 - x
						}
						if flipY {
							sy = chunkSize - 1 - y
						}
						p = append(p, m.Tiles[m.Index(startX+sx, startY+sy)])
					}
				}
				return p
			}

			patterns = append(patterns, read(false, false))
			if includeFlips {
				patterns = append(patterns, read(true, false), read(false, true), read(true, true))
			}
		}
	}

	if !dedupe {
		return patterns
	}
	unique := patterns[:0:0]
	for _, p := range patterns {
		if !slices.ContainsFunc(unique, func(u Pattern) bool { return slices.Equal(u, p) }) {
			unique = append(unique, p)
		}
	}
	return unique
}

// edgeCells returns the pattern offsets along one side, in slot order
func edgeCells(chunkSize int, d Direction) []int {
	cells := make([]int, chunkSize)
	for i := 0; i < chunkSize; i++ {
		switch d {
		case North:
			cells[i] = i
		case South:
			cells[i] = (chunkSize-1)*chunkSize + i
		case West:
			cells[i] = i * chunkSize
		case East:
			cells[i] = i*chunkSize + chunkSize - 1
		}
	}
	return cells
}

// PatternsToConstraints works out which patterns may sit beside each other.
// Two sides fit when any exit slot lines up, or when neither side has an
// exit. A chunk with no exits at all fits anywhere.
func PatternsToConstraints(patterns []Pattern, chunkSize int) []Chunk {
	chunks := make([]Chunk, len(patterns))
	for i, p := range patterns {
		c := Chunk{Pattern: p}
		for _, d := range AllDirections() {
			c.Exits[d] = make([]bool, chunkSize)
			for slot, offset := range edgeCells(chunkSize, d) {
				if p[offset] == gamemap.Floor {
					c.Exits[d][slot] = true
					c.HasExits = true
				}
			}
		}
		chunks[i] = c
	}

	for i := range chunks {
		c := &chunks[i]
		for j := range chunks {
			potential := &chunks[j]
			if !c.HasExits || !potential.HasExits {
				for _, d := range AllDirections() {
					c.CompatibleWith[d] = append(c.CompatibleWith[d], j)
				}
				continue
			}
			for _, d := range AllDirections() {
				if sidesFit(c.Exits[d], potential.Exits[d.Opposite()]) {
					c.CompatibleWith[d] = append(c.CompatibleWith[d], j)
				}
			}
		}
	}
	return chunks
}

func sidesFit(ours, theirs []bool) bool {
	anyOurs, anyTheirs := false, false
	for slot, open := range ours {
		if open {
			anyOurs = true
			if theirs[slot] {
				return true
			}
		}
	}
	for _, open := range theirs {
		anyTheirs = anyTheirs || open
	}
	return !anyOurs && !anyTheirs
}
