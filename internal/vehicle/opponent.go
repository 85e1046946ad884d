package vehicle

import (
	"math"

	"github.com/cxd309/race-engine/internal/geom"
)

// DefaultOpponentSpeed is the patrol speed used when none is given, in units per frame.
const DefaultOpponentSpeed = 2.0

// OpponentID is a unique string identifier for an AI opponent.
type OpponentID = string

// Opponent is an AI vehicle that patrols a closed path at constant speed.
// Its path cursor is private and advances independently of every other vehicle.
type Opponent struct {
	ID       OpponentID
	Position geom.Point
	Speed    float64
	Box      geom.Rect

	path    []geom.Point
	target  int
	heading float64
}

// NewOpponent places an opponent at start, heading for path[target].
// The path slice is copied.
func NewOpponent(id OpponentID, start geom.Point, path []geom.Point, speed float64, target int) *Opponent {
	o := &Opponent{
		ID:    id,
		Speed: speed,
		path:  append([]geom.Point(nil), path...),
	}
	o.Reset(start, target)
	return o
}

// Reset moves the opponent to start and sets its path cursor. Speed and path are kept.
func (o *Opponent) Reset(start geom.Point, target int) {
	o.Position = start
	o.target = target
	o.heading = 0
	o.Box = Box(start)
}

// Target returns the index of the waypoint the opponent is heading for.
func (o *Opponent) Target() int { return o.target }

// Heading returns the direction of the last movement in degrees, using the
// same convention as the player car. Zero until the opponent first moves.
func (o *Opponent) Heading() float64 { return o.heading }

// Follow moves the opponent one frame toward its current target waypoint.
//
// When the target is closer than one frame of travel the cursor moves to the
// next waypoint, wrapping to 0 after the last, and the same frame steers
// toward the new target instead of overshooting the corner. A bad path or a
// zero-length step leaves the opponent in place.
func (o *Opponent) Follow() {
	n := len(o.path)
	if n == 0 || o.target < 0 || o.target >= n {
		return
	}

	dx, dy, dist := o.toTarget()
	if dist < o.Speed {
		o.target = (o.target + 1) % n
		dx, dy, dist = o.toTarget()
	}

	if dist > 0 {
		o.Position.X += dx / dist * o.Speed
		o.Position.Y += dy / dist * o.Speed
		if o.Speed > 0 {
			o.heading = math.Atan2(-dy, dx) * 180 / math.Pi
		}
	}
	o.Box = Box(o.Position)
}

func (o *Opponent) toTarget() (dx, dy, dist float64) {
	t := o.path[o.target]
	dx = t.X - o.Position.X
	dy = t.Y - o.Position.Y
	return dx, dy, math.Hypot(dx, dy)
}

// OpponentLog is a point-in-time snapshot of an opponent.
type OpponentLog struct {
	ID       OpponentID `json:"opponent_id"`
	Position geom.Point `json:"position"`
	Heading  float64    `json:"heading"`
	Target   int        `json:"target_index"`
}

// GetLog returns a point-in-time snapshot of the opponent state.
func (o *Opponent) GetLog() OpponentLog {
	return OpponentLog{ID: o.ID, Position: o.Position, Heading: o.heading, Target: o.target}
}
