package visualizer

import (
	"github.com/lawnchairsociety/delvegen/internal/gamemap"
	"github.com/lawnchairsociety/delvegen/internal/mapgen"
)

// Frame is one message of the snapshot stream. The last frame of a stream
// is the finished level and has Done set.
type Frame struct {
	Index  int            `json:"index"`
	Total  int            `json:"total"`
	Name   string         `json:"name"`
	Depth  int            `json:"depth"`
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Rows   []string       `json:"rows"`
	Done   bool           `json:"done"`
	Start  *gamemap.Point `json:"start,omitempty"`
	Spawns []mapgen.Spawn `json:"spawns,omitempty"`
}

// Frames turns a level's build history into stream frames, ending with the
// finished map.
func Frames(level *mapgen.Level) []Frame {
	total := len(level.History) + 1
	frames := make([]Frame, 0, total)
	for i, m := range level.History {
		frames = append(frames, newFrame(i, total, m))
	}

	last := newFrame(total-1, total, level.Map)
	last.Done = true
	if p, ok := level.Start(); ok {
		last.Start = &p
	}
	last.Spawns = level.SpawnList
	return append(frames, last)
}

func newFrame(index, total int, m *gamemap.Map) Frame {
	return Frame{
		Index:  index,
		Total:  total,
		Name:   m.Name,
		Depth:  m.Depth,
		Width:  m.Width,
		Height: m.Height,
		Rows:   m.Rows(),
	}
}
