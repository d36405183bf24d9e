package motion

import "errors"

// Sentinel errors returned by Planner and Pipeline. ZeroLengthMove is not an
// error: MoveTo returns nil and adds nothing to the pipeline when a move is
// too short to matter (spec §4.5 step 2, §7).
var (
	// ErrOutOfBounds: the kinematics hook rejected the target as outside
	// machine travel limits. Soft failure; pipeline unchanged.
	ErrOutOfBounds = errors.New("motion: target out of bounds")

	// ErrPipelineFull: the pipeline is at capacity. Soft failure; callers
	// that want a blocking policy retry MoveTo on their own service loop
	// rather than have the pipeline block internally.
	ErrPipelineFull = errors.New("motion: pipeline full")

	// ErrConfigInvalid: a MachineConfig failed validation at setup time.
	ErrConfigInvalid = errors.New("motion: invalid configuration")

	// ErrTransformFailed: the kinematics hook rejected the target for a
	// reason other than a soft bounds violation (e.g. a non-finite
	// coordinate, or a pose outside a non-Cartesian solver's domain).
	ErrTransformFailed = errors.New("motion: kinematics transform failed")
)
