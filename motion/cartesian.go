package motion

import (
	"fmt"
	"math"
)

// Cartesian is a 1:1 XYZE kinematics: each axis's step count is simply its
// position divided by its configured step distance. Grounded on gopper's
// standalone/kinematics.Cartesian, generalized from a hardcoded XYZE config
// lookup to the AxisParams array the rest of this package uses.
type Cartesian struct {
	axes [NumAxes]AxisParams
}

// NewCartesian builds a Cartesian kinematics from per-axis parameters. Every
// axis must carry a non-zero StepsPerUnit.
func NewCartesian(axes [NumAxes]AxisParams) (*Cartesian, error) {
	for _, a := range axes {
		if a.StepsPerUnit == 0 {
			return nil, ErrConfigInvalid
		}
	}
	return &Cartesian{axes: axes}, nil
}

// PtToActuator maps each axis independently: steps = round(pt / stepDistance).
func (k *Cartesian) PtToActuator(pt AxisFloats) (AxisInt32s, error) {
	var steps AxisInt32s
	for i, a := range k.axes {
		if math.IsNaN(pt[i]) || math.IsInf(pt[i], 0) {
			return AxisInt32s{}, fmt.Errorf("%w: axis %s target %v is not finite", ErrTransformFailed, a.Name, pt[i])
		}
		if pt[i] < a.MinVal || pt[i] > a.MaxVal {
			return AxisInt32s{}, fmt.Errorf("%w: axis %s target outside configured travel", ErrOutOfBounds, a.Name)
		}
		steps[i] = int64(math.Round(pt[i] / a.StepDistance()))
	}
	return steps, nil
}

// ActuatorToPt is the exact inverse: pt = steps * stepDistance.
func (k *Cartesian) ActuatorToPt(steps AxisInt32s) AxisFloats {
	var pt AxisFloats
	for i, a := range k.axes {
		pt[i] = float64(steps[i]) * a.StepDistance()
	}
	return pt
}

// CorrectStepOverflow is a no-op for Cartesian: no axis wraps.
func (k *Cartesian) CorrectStepOverflow(_, to AxisInt32s) AxisInt32s {
	return to
}
