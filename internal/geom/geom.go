// Package geom provides the 2D points and axis-aligned boxes shared by the
// track, vehicle, and progress packages.
//
// World coordinates follow screen convention: x grows to the right and y grows
// downward.
package geom

import "math"

// Point is a 2D position in world units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Point) float64 { return math.Hypot(b.X-a.X, b.Y-a.Y) }

// Rect is an axis-aligned bounding box stored by centre and size.
type Rect struct {
	C Point   `json:"center"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// RectAt returns a w×h box centred on c.
func RectAt(c Point, w, h float64) Rect { return Rect{C: c, W: w, H: h} }

// Center returns the centre of the box.
func (r Rect) Center() Point { return r.C }

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{X: r.C.X - r.W/2, Y: r.C.Y - r.H/2} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{X: r.C.X + r.W/2, Y: r.C.Y + r.H/2} }

// Intersects reports whether r and o overlap. Boxes that only share an edge
// do not intersect.
func (r Rect) Intersects(o Rect) bool {
	rMin, rMax := r.Min(), r.Max()
	oMin, oMax := o.Min(), o.Max()
	if rMin.X >= oMax.X || oMin.X >= rMax.X {
		return false
	}
	if rMin.Y >= oMax.Y || oMin.Y >= rMax.Y {
		return false
	}
	return true
}
