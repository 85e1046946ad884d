// Package track provides the immutable circuit definition: waypoints, the
// checkpoint boxes derived from them, the AI patrol path, and the world bounds
// monitor.
package track

import (
	"fmt"

	"github.com/cxd309/race-engine/internal/geom"
)

const (
	DefaultWidth          = 80.0
	DefaultCheckpointSize = 20.0
	DefaultColor          = "#808080"
)

// GateData overrides the size of checkpoint 0 so it acts as a start/finish line.
type GateData struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TrackData is the serialisable input representation of a track.
type TrackData struct {
	Waypoints      []geom.Point `json:"waypoints"`
	Width          float64      `json:"width,omitempty"`           // nominal track width, world units
	Color          string       `json:"color,omitempty"`           // rendering only
	CheckpointSize float64      `json:"checkpoint_size,omitempty"` // side of the square checkpoint boxes
	StartGate      *GateData    `json:"start_gate,omitempty"`
}

// Segment is the straight edge between two consecutive waypoints.
type Segment struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Length float64 `json:"length"`
}

// Track is a closed circuit. It is read-only after NewTrack returns.
type Track struct {
	waypoints      []geom.Point
	checkpoints    []geom.Rect
	segments       []Segment
	width          float64
	color          string
	checkpointSize float64
	length         float64
}

// NewTrack builds a Track from TrackData, returning an error if the circuit
// cannot be formed.
func NewTrack(data TrackData) (*Track, error) {
	if len(data.Waypoints) < 2 {
		return nil, fmt.Errorf("track needs at least 2 waypoints, got %d", len(data.Waypoints))
	}
	if data.Width < 0 || data.CheckpointSize < 0 {
		return nil, fmt.Errorf("track width and checkpoint size must not be negative")
	}

	t := &Track{
		waypoints:      append([]geom.Point(nil), data.Waypoints...),
		width:          data.Width,
		color:          data.Color,
		checkpointSize: data.CheckpointSize,
	}
	if t.width == 0 {
		t.width = DefaultWidth
	}
	if t.color == "" {
		t.color = DefaultColor
	}
	if t.checkpointSize == 0 {
		t.checkpointSize = DefaultCheckpointSize
	}

	t.checkpoints = make([]geom.Rect, len(t.waypoints))
	for i, wp := range t.waypoints {
		t.checkpoints[i] = geom.RectAt(wp, t.checkpointSize, t.checkpointSize)
	}
	if g := data.StartGate; g != nil {
		if g.Width <= 0 || g.Height <= 0 {
			return nil, fmt.Errorf("start gate must have positive size, got %gx%g", g.Width, g.Height)
		}
		t.checkpoints[0] = geom.RectAt(t.waypoints[0], g.Width, g.Height)
	}

	t.segments = make([]Segment, len(t.waypoints))
	for i := range t.waypoints {
		j := t.Successor(i)
		l := geom.Dist(t.waypoints[i], t.waypoints[j])
		t.segments[i] = Segment{From: i, To: j, Length: l}
		t.length += l
	}
	return t, nil
}

// Successor returns the index that follows i around the circuit.
func (t *Track) Successor(i int) int { return (i + 1) % len(t.checkpoints) }

// NumCheckpoints returns the number of checkpoints, always equal to the number of waypoints.
func (t *Track) NumCheckpoints() int { return len(t.checkpoints) }

// Checkpoint returns the checkpoint box at index i, or false if i is out of range.
func (t *Track) Checkpoint(i int) (geom.Rect, bool) {
	if i < 0 || i >= len(t.checkpoints) {
		return geom.Rect{}, false
	}
	return t.checkpoints[i], true
}

// Checkpoints returns a copy of all checkpoint boxes in circuit order.
func (t *Track) Checkpoints() []geom.Rect { return append([]geom.Rect(nil), t.checkpoints...) }

// Polygon returns the closed polygon outline for drawing.
func (t *Track) Polygon() []geom.Point { return append([]geom.Point(nil), t.waypoints...) }

// AIPath returns the patrol path for AI vehicles: the waypoints, unchanged.
func (t *Track) AIPath() []geom.Point { return append([]geom.Point(nil), t.waypoints...) }

// Segments returns the edges of the closed circuit, last one wrapping to waypoint 0.
func (t *Track) Segments() []Segment { return append([]Segment(nil), t.segments...) }

// Length returns the perimeter of the circuit along its waypoints.
func (t *Track) Length() float64 { return t.length }

func (t *Track) Width() float64          { return t.width }
func (t *Track) Color() string           { return t.color }
func (t *Track) CheckpointSize() float64 { return t.checkpointSize }
