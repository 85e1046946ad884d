// Package vehicle defines the player car and the AI opponents, along with the
// JSON form of a car's kinematics model.
package vehicle

import (
	"encoding/json"
	"fmt"

	"github.com/cxd309/race-engine/internal/geom"
	"github.com/cxd309/race-engine/internal/kinematics"
)

// Fixed vehicle footprint, shared by the player and every opponent.
const (
	Width  = 20.0
	Height = 30.0
)

// Box returns the bounding box of a vehicle centred on p.
func Box(p geom.Point) geom.Rect { return geom.RectAt(p, Width, Height) }

// Kinematics wraps a kinematics.MotionModel so it can be read from JSON.
type Kinematics struct {
	Model kinematics.MotionModel `json:"-"`
}

// kinematicsDisc is the minimum JSON structure needed to read the model discriminator.
type kinematicsDisc struct {
	Model string `json:"model"`
}

// UnmarshalJSON implements json.Unmarshaler for Kinematics.
// The object must contain a "model" discriminator key that selects the
// concrete implementation; the rest of the object is forwarded to that
// implementation's own unmarshaler. A JSON null leaves the model unset.
//
// Supported models:
//   - "constant": fixed per-frame acceleration.
func (k *Kinematics) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var disc kinematicsDisc
	if err := json.Unmarshal(data, &disc); err != nil {
		return fmt.Errorf("reading kinematics model discriminator: %w", err)
	}

	switch disc.Model {
	case kinematics.ConstantModelName:
		var c kinematics.ConstantAcceleration
		if err := json.Unmarshal(data, &c); err != nil {
			return fmt.Errorf("parsing constant kinematics: %w", err)
		}
		if c.Accel < 0 {
			return fmt.Errorf("constant kinematics: negative acceleration %g", c.Accel)
		}
		k.Model = c
	default:
		return fmt.Errorf("unknown kinematics model %q", disc.Model)
	}
	return nil
}

// MarshalJSON writes the model back out with its discriminator.
func (k Kinematics) MarshalJSON() ([]byte, error) {
	switch m := k.Model.(type) {
	case kinematics.ConstantAcceleration:
		return json.Marshal(struct {
			Model string `json:"model"`
			kinematics.ConstantAcceleration
		}{kinematics.ConstantModelName, m})
	case nil:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("cannot marshal kinematics model %T", m)
	}
}
