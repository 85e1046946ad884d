package kinematics

import "fmt"

// Action is a discrete control input applied for one frame.
type Action string

const (
	ActionAccelerate Action = "accelerate"
	ActionBrake      Action = "brake"
	ActionSteerLeft  Action = "steer_left"
	ActionSteerRight Action = "steer_right"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionAccelerate, ActionBrake, ActionSteerLeft, ActionSteerRight:
		return true
	}
	return false
}

// UnmarshalText implements encoding.TextUnmarshaler, rejecting unknown actions.
func (a *Action) UnmarshalText(b []byte) error {
	v := Action(b)
	if !v.Valid() {
		return fmt.Errorf("unknown action %q", string(b))
	}
	*a = v
	return nil
}

// Apply returns p after applying action a under model m.
// Unknown actions leave p unchanged.
func Apply(m MotionModel, p Pose, a Action) Pose {
	switch a {
	case ActionAccelerate:
		p.Speed = m.Accelerate(p.Speed)
	case ActionBrake:
		p.Speed = m.Brake(p.Speed)
	case ActionSteerLeft:
		p.Heading = m.Steer(p.Heading, SteerLeft)
	case ActionSteerRight:
		p.Heading = m.Steer(p.Heading, SteerRight)
	}
	return p
}
