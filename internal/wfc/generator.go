package wfc

import (
	"fmt"

	"github.com/lawnchairsociety/delvegen/internal/dice"
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
	"github.com/lawnchairsociety/delvegen/internal/logger"
)

// DefaultChunkSize is the side of the square patterns cut from the source
const DefaultChunkSize = 8

// Generator learns chunk patterns from one map and synthesizes new maps
// from them
type Generator struct {
	ChunkSize   int
	Constraints []Chunk
	maxRetries  int
}

// NewGenerator learns patterns from source, including flipped copies
func NewGenerator(source *gamemap.Map, chunkSize int) (*Generator, error) {
	if chunkSize <= 0 || source.Width < chunkSize || source.Height < chunkSize {
		return nil, fmt.Errorf("%w: %dx%d with chunk %d", ErrInvalidSize, source.Width, source.Height, chunkSize)
	}
	patterns := BuildPatterns(source, chunkSize, true, true)
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}
	return &Generator{
		ChunkSize:   chunkSize,
		Constraints: PatternsToConstraints(patterns, chunkSize),
		maxRetries:  50,
	}, nil
}

// Generate fills target with a fresh layout. Each attempt starts from a
// solid map; after too many contradictions it gives up.
func (g *Generator) Generate(rng dice.Roller, target *gamemap.Map, snapshot func()) error {
	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		target.Fill(gamemap.Wall)
		solver := NewSolver(g.Constraints, g.ChunkSize, target)
		err := solver.Solve(target, rng, snapshot)
		if err == nil {
			logger.Debug("waveform collapse finished",
				"patterns", len(g.Constraints),
				"attempts", attempt+1)
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed after %d attempts: %w", g.maxRetries, lastErr)
}
