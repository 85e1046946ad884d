package kinematics

import "math"

// ConstantModelName is the JSON discriminator string for the Constant model.
const ConstantModelName = "constant"

const (
	DefaultAcceleration = 0.1 // speed per frame of throttle
	DefaultBrakeFactor  = 2.0 // braking is twice as effective as throttle
	DefaultSteerStep    = 5.0 // degrees per frame
)

// ConstantAcceleration implements MotionModel with a fixed per-frame speed step.
// Top speed is unbounded. Zero fields take their package defaults.
//
// JSON discriminator: "model": "constant"
type ConstantAcceleration struct {
	Accel       float64 `json:"acceleration"`           // speed gained per frame of throttle
	BrakeFactor float64 `json:"brake_factor,omitempty"` // multiple of Accel removed per frame of braking
	SteerStep   float64 `json:"steer_step,omitempty"`   // degrees per frame
}

func (c ConstantAcceleration) accel() float64 {
	if c.Accel <= 0 {
		return DefaultAcceleration
	}
	return c.Accel
}

func (c ConstantAcceleration) brakeFactor() float64 {
	if c.BrakeFactor <= 0 {
		return DefaultBrakeFactor
	}
	return c.BrakeFactor
}

func (c ConstantAcceleration) steerStep() float64 {
	if c.SteerStep <= 0 {
		return DefaultSteerStep
	}
	return c.SteerStep
}

func (c ConstantAcceleration) Accelerate(speed float64) float64 { return speed + c.accel() }

func (c ConstantAcceleration) Brake(speed float64) float64 {
	return math.Max(0, speed-c.accel()*c.brakeFactor())
}

func (c ConstantAcceleration) Steer(heading float64, dir Steer) float64 {
	return heading + float64(dir)*c.steerStep()
}
