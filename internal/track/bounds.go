package track

import "github.com/cxd309/race-engine/internal/geom"

// DefaultBounds is the playable world rectangle used when none is configured.
var DefaultBounds = Bounds{Width: 800, Height: 600}

// Bounds is the fixed playable world rectangle from (0,0) to (Width,Height).
// It is independent of the track outline.
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// OutOfBounds reports whether p lies outside the rectangle. A point exactly on
// an edge counts as outside.
func (b Bounds) OutOfBounds(p geom.Point) bool {
	return !(0 < p.X && p.X < b.Width && 0 < p.Y && p.Y < b.Height)
}
