package engine

import (
	"github.com/cxd309/race-engine/internal/geom"
	"github.com/cxd309/race-engine/internal/kinematics"
	"github.com/cxd309/race-engine/internal/track"
	"github.com/cxd309/race-engine/internal/vehicle"
)

// DefaultAcceleration is the player's throttle step when no kinematics model is given.
const DefaultAcceleration = kinematics.DefaultAcceleration

// DefaultInput returns the stock race: a rectangular circuit inset 100 units
// inside an 800×600 world, a start/finish gate on the top-left corner, the
// player just inside it and two opponents patrolling from opposite corners.
func DefaultInput() RaceInput {
	bounds := track.DefaultBounds
	waypoints := RectLoop(bounds, 100)
	return RaceInput{
		Meta: RaceMeta{RaceID: "default", TickRate: DefaultTickRate},
		TrackData: track.TrackData{
			Waypoints:      waypoints,
			Width:          track.DefaultWidth,
			Color:          track.DefaultColor,
			CheckpointSize: 40,
			StartGate:      &track.GateData{Width: 100, Height: 10},
		},
		Bounds: &bounds,
		Player: PlayerSpec{
			Start:      geom.Point{X: 150, Y: 150},
			Kinematics: vehicle.Kinematics{Model: kinematics.ConstantAcceleration{Accel: DefaultAcceleration}},
		},
		Opponents: []OpponentSpec{
			{ID: "blue-1", Speed: 2.2, StartIndex: 1},
			{ID: "blue-2", Speed: 2.4, StartIndex: 3},
		},
	}
}

// RectLoop returns the clockwise rectangular circuit inset from the edges of
// b, starting at the top-left corner.
func RectLoop(b track.Bounds, inset float64) []geom.Point {
	return []geom.Point{
		{X: inset, Y: inset},
		{X: b.Width - inset, Y: inset},
		{X: b.Width - inset, Y: b.Height - inset},
		{X: inset, Y: b.Height - inset},
	}
}
