// Package kinematics defines the MotionModel interface for the per-frame control
// response of a vehicle (throttle, brake, steering), the shared pose advance
// rule, and the built-in constant model.
//
// A frame is the unit of time: speeds are world units per frame and every call
// applies exactly one step. Adding a new model only requires implementing
// MotionModel and registering its discriminator in the vehicle package.
package kinematics

import (
	"math"

	"github.com/cxd309/race-engine/internal/geom"
)

// Steer selects the steering direction for MotionModel.Steer.
type Steer int

const (
	SteerLeft  Steer = -1
	SteerRight Steer = 1
)

// Pose is the mutable kinematic state of a vehicle.
// Heading is in degrees: 0 faces +x and 90 faces the top of the screen.
// It is never normalised.
type Pose struct {
	Position geom.Point `json:"position"`
	Heading  float64    `json:"heading"` // degrees
	Speed    float64    `json:"speed"`   // units per frame, never negative
}

// MotionModel is the control contract every kinematics implementation must satisfy.
type MotionModel interface {
	// Accelerate returns the speed after one frame of throttle.
	Accelerate(speed float64) float64

	// Brake returns the speed after one frame of braking. Never negative.
	Brake(speed float64) float64

	// Steer returns the heading after one frame of steering in direction dir.
	Steer(heading float64, dir Steer) float64
}

// Advance moves p one frame along its heading at its current speed.
// The y component is subtracted because screen y grows downward.
func Advance(p Pose) Pose {
	rad := p.Heading * math.Pi / 180
	p.Position.X += p.Speed * math.Cos(rad)
	p.Position.Y -= p.Speed * math.Sin(rad)
	return p
}
