// Package motion implements the look-ahead motion pipeline, per-block
// trapezoid generator, and tick-driven step actuator for a multi-axis
// CNC/robot firmware. It accepts commanded targets, not G-code text: parsing
// and coordinate-transform math are caller responsibilities (see
// gcodedemo and the Kinematics interface).
package motion

import "gonum.org/v1/gonum/floats"

// NumAxes is the number of axes carried end to end through a MotionBlock.
// Matches gopper's standalone.Position (X, Y, Z, E).
const NumAxes = 4

const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
	AxisE = 3
)

// NumPrimaryAxes is the number of axes used for Euclidean distance and
// junction-angle calculations (X, Y, Z — the extruder does not contribute to
// move geometry).
const NumPrimaryAxes = 3

// AxisFloats is a fixed-width per-axis float64 tuple with elementwise ops.
type AxisFloats [NumAxes]float64

// AxisInt32s is a fixed-width per-axis signed step-count tuple.
type AxisInt32s [NumAxes]int64

// Add returns the elementwise sum.
func (a AxisFloats) Add(b AxisFloats) AxisFloats {
	var out AxisFloats
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

// Sub returns the elementwise difference a-b.
func (a AxisFloats) Sub(b AxisFloats) AxisFloats {
	var out AxisFloats
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// Scale returns every element multiplied by k.
func (a AxisFloats) Scale(k float64) AxisFloats {
	var out AxisFloats
	for i := range a {
		out[i] = a[i] * k
	}
	return out
}

// Dot returns the dot product restricted to the primary axes.
func (a AxisFloats) Dot(b AxisFloats) float64 {
	return floats.Dot(a[:NumPrimaryAxes], b[:NumPrimaryAxes])
}

// Magnitude returns the Euclidean norm of the primary axes (X, Y, Z).
func (a AxisFloats) Magnitude() float64 {
	return floats.Norm(a[:NumPrimaryAxes], 2)
}

// Magnitude returns the Euclidean norm of the primary axes, treating each
// step count as a float64.
func (a AxisInt32s) Magnitude() float64 {
	var f AxisFloats
	for i := range a {
		f[i] = float64(a[i])
	}
	return f.Magnitude()
}

// EndstopMode selects how a move interacts with endstop monitoring. Endstop
// polling itself is out of scope here (caller-side); the core only threads
// the requested mode through to the block so a caller-supplied executor can
// react to it.
type EndstopMode int

const (
	EndstopIgnore EndstopMode = iota
	EndstopCheck
)

// RobotCommandArgs is the already-parsed command the caller hands to
// Planner.MoveTo — the result of G-code argument scanning, which is not this
// package's concern. The extruder is just AxisE of AxisValues/AxisValid; it
// gets no separate field.
type RobotCommandArgs struct {
	AxisValues    AxisFloats
	AxisValid     [NumAxes]bool
	Feedrate      float64 // units/s
	FeedrateValid bool
	EndstopMode   EndstopMode

	// MoveRapid marks a G0-style rapid positioning move: MoveTo ignores
	// Feedrate/FeedrateValid entirely and runs at each touched axis's
	// configured MaxSpeed instead.
	MoveRapid bool
}
