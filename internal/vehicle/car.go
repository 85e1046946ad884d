package vehicle

import (
	"github.com/cxd309/race-engine/internal/geom"
	"github.com/cxd309/race-engine/internal/kinematics"
)

// Car is the player vehicle, driven by discrete control actions.
type Car struct {
	Pose  kinematics.Pose
	Box   geom.Rect
	model kinematics.MotionModel
}

// NewCar places a stationary car at pose p.
func NewCar(p kinematics.Pose, m kinematics.MotionModel) *Car {
	c := &Car{Pose: p, model: m}
	c.Box = Box(p.Position)
	return c
}

func (c *Car) Accelerate() { c.Apply(kinematics.ActionAccelerate) }
func (c *Car) Brake()      { c.Apply(kinematics.ActionBrake) }
func (c *Car) SteerLeft()  { c.Apply(kinematics.ActionSteerLeft) }
func (c *Car) SteerRight() { c.Apply(kinematics.ActionSteerRight) }

// Apply applies one control action to the car's speed or heading.
func (c *Car) Apply(a kinematics.Action) {
	c.Pose = kinematics.Apply(c.model, c.Pose, a)
}

// Advance moves the car one frame and re-centres its box.
func (c *Car) Advance() {
	c.Pose = kinematics.Advance(c.Pose)
	c.Box = Box(c.Pose.Position)
}

// Position returns the car's centre.
func (c *Car) Position() geom.Point { return c.Pose.Position }

// CarLog is a point-in-time snapshot of the car.
type CarLog struct {
	Pose kinematics.Pose `json:"pose"`
	Box  geom.Rect       `json:"box"`
}

// GetLog returns a point-in-time snapshot of the car state.
func (c *Car) GetLog() CarLog { return CarLog{Pose: c.Pose, Box: c.Box} }
