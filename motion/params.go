package motion

// KValue is the fixed-point scale used for "steps per tick" rates
// (spec §9, GLOSSARY). Storing rates as steps-per-tick times KValue keeps
// the actuator's per-tick acceleration update an integer add.
const KValue = 1_000_000_000

// MotionParams is the immutable configuration a MotionBlock's trapezoid
// calculation is computed against. One MotionParams is shared by every
// block in a pipeline.
type MotionParams struct {
	// MaxAccel is the master-axis maximum acceleration, units/s^2.
	MaxAccel float64

	// StepDistance is the master-axis distance travelled per step, in user
	// units (i.e. 1/StepsPerUnit).
	StepDistance float64

	// MinStepIntervalNS / MaxStepIntervalNS are the configured per-axis step
	// interval limits. CalculateTrapezoid does not read them, so scheduled
	// step intervals are not clamped to this range.
	MinStepIntervalNS uint32
	MaxStepIntervalNS uint32

	// TickFreqHz is the actuator tick frequency (~1MHz nominal).
	TickFreqHz uint32
}

// TicksPerSecond returns the configured tick frequency as a float64,
// convenient for the rate-conversion arithmetic in calculateTrapezoid.
func (p MotionParams) TicksPerSecond() float64 {
	return float64(p.TickFreqHz)
}

// TicksPerMillisecond returns TickFreqHz/1000.
func (p MotionParams) TicksPerMillisecond() float64 {
	return float64(p.TickFreqHz) / 1000.0
}

// DefaultMotionParams returns sane defaults for a ~1MHz tick firmware.
func DefaultMotionParams() MotionParams {
	return MotionParams{
		MaxAccel:          1000.0,
		StepDistance:      1.0 / 80.0,
		MinStepIntervalNS: 2,
		MaxStepIntervalNS: 1_000_000_000,
		TickFreqHz:        1_000_000,
	}
}
