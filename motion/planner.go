package motion

import "math"

// MinimumMoveDist is the shortest move (user units, measured across the
// primary XYZ axes) worth planning. A shorter move whose step deltas are all
// zero is silently dropped (spec §4.5 step 2, §4.7 ZeroLengthMove).
const MinimumMoveDist = 1e-4

// MotionPlanner is the public entry point: it turns a caller's
// RobotCommandArgs into a MotionBlock, pushes it onto the pipeline, and
// triggers look-ahead. Grounded on gopper's standalone/planner.Planner —
// QueueMove's shape survives, calculateTrapezoid is replaced by the
// MotionBlock/MotionPipeline look-ahead machinery.
type MotionPlanner struct {
	kin      Kinematics
	pipeline *MotionPipeline
	params   MotionParams
	axes     [NumAxes]AxisParams

	currentPt         AxisFloats
	currentSteps      AxisInt32s
	lastUnit          AxisFloats
	lastMaxParamSpeed float64
	haveLastUnit      bool // false before the first move and after SetPosition; forces maxEntrySpeed=0 for the next block
}

// NewMotionPlanner builds a planner bound to one kinematics, one pipeline,
// and the per-axis parameters used to clamp feedrate.
func NewMotionPlanner(kin Kinematics, pipeline *MotionPipeline, params MotionParams, axes [NumAxes]AxisParams) *MotionPlanner {
	return &MotionPlanner{
		kin:      kin,
		pipeline: pipeline,
		params:   params,
		axes:     axes,
	}
}

// CurrentPosition returns the planner's commanded position (advances
// immediately on MoveTo; actuation lags behind it).
func (p *MotionPlanner) CurrentPosition() AxisFloats { return p.currentPt }

// SetPosition forces the planner's notion of current position without
// planning a move — used at startup or after homing.
func (p *MotionPlanner) SetPosition(pt AxisFloats) {
	steps, _ := p.kin.PtToActuator(pt)
	p.currentPt = pt
	p.currentSteps = steps
	p.haveLastUnit = false
}

// IsIdle reports whether the pipeline is empty.
func (p *MotionPlanner) IsIdle() bool { return p.pipeline.IsIdle() }

// MoveTo plans one linear move (spec §4.5). It returns ErrOutOfBounds (or
// ErrTransformFailed, both wrapped with the offending axis — use errors.Is)
// if the kinematics hook rejects the target, ErrPipelineFull if the pipeline
// has no room (the caller may retry on its next service tick — MoveTo never
// blocks), and nil with no block added for a move shorter than
// MinimumMoveDist whose step deltas are all zero.
func (p *MotionPlanner) MoveTo(args RobotCommandArgs) error {
	target := p.currentPt
	for i := 0; i < NumAxes; i++ {
		if args.AxisValid[i] {
			target[i] = args.AxisValues[i]
		}
	}

	// Step 1: forward transform.
	targetSteps, err := p.kin.PtToActuator(target)
	if err != nil {
		return err
	}
	targetSteps = p.kin.CorrectStepOverflow(p.currentSteps, targetSteps)

	// Step 2: step delta and zero-length short-circuit.
	var stepDelta AxisInt32s
	allZero := true
	for i := range stepDelta {
		stepDelta[i] = targetSteps[i] - p.currentSteps[i]
		if stepDelta[i] != 0 {
			allZero = false
		}
	}

	// Step 3: distance across primary axes, in user units.
	delta := target.Sub(p.currentPt)
	distance := delta.Magnitude()
	if allZero && distance < MinimumMoveDist {
		return nil
	}

	var unit AxisFloats
	if distance > 0 {
		unit = delta.Scale(1.0 / distance)
	}

	// Step 4: nominal feedrate ceiling. A rapid move ignores the requested
	// feedrate and runs at whatever each touched axis can sustain.
	feedrateValid := args.FeedrateValid && !args.MoveRapid
	maxParamSpeed := p.computeMaxParamSpeed(unit, args.Feedrate, feedrateValid)

	// Step 5: junction heuristic. The first block queued after the pipeline
	// goes idle always gets maxEntrySpeed = 0.
	maxEntrySpeed := 0.0
	if p.haveLastUnit && !p.pipeline.IsIdle() {
		cos := clamp(unit.Dot(p.lastUnit), 0, 1)
		maxEntrySpeed = math.Min(maxParamSpeed, p.lastMaxParamSpeed) * cos
	}

	amax := p.params.MaxAccel

	block := &MotionBlock{
		MaxParamSpeed:        maxParamSpeed,
		AxisStepsToTarget:    stepDelta,
		MoveDistPrimaryAxes:  distance,
		UnitVectors:          unit,
		MaxEntrySpeed:        maxEntrySpeed,
		EndstopMode:          args.EndstopMode,
		NominalLengthFlag:    maxParamSpeed*maxParamSpeed <= 2*amax*distance, // step 6
		ExitSpeed:            0,                                              // step 7
		RecalcFlag:           true,                                           // step 7
	}
	block.EntrySpeed = math.Min(maxEntrySpeed, math.Sqrt(2*amax*distance)) // step 7

	// Step 8: push and recompute.
	if err := p.pipeline.Add(block); err != nil {
		return err
	}
	p.pipeline.RecomputeLookahead()

	// Step 9: commanded position advances immediately.
	p.currentPt = target
	p.currentSteps = targetSteps
	p.lastUnit = unit
	p.lastMaxParamSpeed = maxParamSpeed
	p.haveLastUnit = true

	return nil
}

// computeMaxParamSpeed clamps the requested feedrate (if any) to whatever
// every axis touched by this move's unit vector can sustain, mirroring
// gopper's per-axis velocity clamp in calculateTrapezoid.
func (p *MotionPlanner) computeMaxParamSpeed(unit AxisFloats, feedrate float64, feedrateValid bool) float64 {
	limit := math.Inf(1)
	for i, a := range p.axes {
		u := math.Abs(unit[i])
		if u > 1e-9 && a.MaxSpeed > 0 {
			if axisLimit := a.MaxSpeed / u; axisLimit < limit {
				limit = axisLimit
			}
		}
	}
	if feedrateValid && feedrate < limit {
		limit = feedrate
	}
	if math.IsInf(limit, 1) {
		return 0
	}
	return limit
}
