package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectCorners(t *testing.T) {
	r := RectAt(Point{X: 100, Y: 100}, 20, 30)
	assert.Equal(t, Point{X: 90, Y: 85}, r.Min())
	assert.Equal(t, Point{X: 110, Y: 115}, r.Max())
	assert.Equal(t, Point{X: 100, Y: 100}, r.Center())
}

func TestRectIntersects(t *testing.T) {
	base := RectAt(Point{X: 0, Y: 0}, 10, 10)

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"same box", base, true},
		{"overlapping corner", RectAt(Point{X: 8, Y: 8}, 10, 10), true},
		{"contained", RectAt(Point{X: 1, Y: 1}, 2, 2), true},
		{"touching right edge", RectAt(Point{X: 10, Y: 0}, 10, 10), false},
		{"touching bottom edge", RectAt(Point{X: 0, Y: 10}, 10, 10), false},
		{"far away", RectAt(Point{X: 50, Y: 50}, 10, 10), false},
		{"overlap x only", RectAt(Point{X: 2, Y: 30}, 10, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Intersects(tt.other))
			assert.Equal(t, tt.want, tt.other.Intersects(base), "intersection must be symmetric")
		})
	}
}

func TestDist(t *testing.T) {
	assert.InDelta(t, 5.0, Dist(Point{}, Point{X: 3, Y: 4}), 1e-9)
}
