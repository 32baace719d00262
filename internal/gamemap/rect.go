package gamemap

// Rect is an axis-aligned rectangle in map coordinates
type Rect struct {
	X1, Y1, X2, Y2 int
}

// NewRect creates a rectangle from its top-left corner and size
func NewRect(x, y, w, h int) Rect {
	return Rect{X1: x, Y1: y, X2: x + w, Y2: y + h}
}

// Intersects returns true if the rectangles overlap or touch
func (r Rect) Intersects(other Rect) bool {
	return r.X1 <= other.X2 && r.X2 >= other.X1 && r.Y1 <= other.Y2 && r.Y2 >= other.Y1
}

// Center returns the middle point of the rectangle
func (r Rect) Center() Point {
	return Point{X: (r.X1 + r.X2) / 2, Y: (r.Y1 + r.Y2) / 2}
}

// Width returns the horizontal extent
func (r Rect) Width() int {
	return abs(r.X2 - r.X1)
}

// Height returns the vertical extent
func (r Rect) Height() int {
	return abs(r.Y2 - r.Y1)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
