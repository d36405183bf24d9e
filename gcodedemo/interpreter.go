package gcodedemo

import "stepcore/motion"

// State is the subset of machine state the demo interpreter tracks between
// lines — positioning mode, feedrate, and homed flags. Grounded on gopper's
// standalone.MachineState, trimmed of the heater/temperature fields that
// belong to a full printer firmware, not this motion core.
type State struct {
	AbsoluteMode bool
	ExtrudeMode  bool // true = relative extrusion
	FeedRate     float64
	Homed        [motion.NumAxes]bool
}

// Interpreter executes parsed Commands against a motion.MotionPlanner.
// Grounded on gopper's standalone/gcode.Interpreter, with doMove rewritten
// to build a motion.RobotCommandArgs instead of a standalone.Move and to
// call MotionPlanner.MoveTo instead of Planner.QueueMove.
type Interpreter struct {
	state   State
	planner *motion.MotionPlanner
}

// NewInterpreter creates an interpreter bound to planner, with absolute
// positioning and absolute extrusion as the default mode.
func NewInterpreter(planner *motion.MotionPlanner, defaultFeedrate float64) *Interpreter {
	return &Interpreter{
		state: State{
			AbsoluteMode: true,
			FeedRate:     defaultFeedrate,
		},
		planner: planner,
	}
}

// Execute runs one parsed command.
func (interp *Interpreter) Execute(cmd *Command) error {
	if cmd == nil {
		return nil
	}
	switch cmd.Type {
	case 'G':
		return interp.executeG(cmd)
	case 'M':
		return interp.executeM(cmd)
	}
	return nil
}

func (interp *Interpreter) executeG(cmd *Command) error {
	switch cmd.Number {
	case 0, 1:
		return interp.doMove(cmd)
	case 28:
		return interp.doHome(cmd)
	case 90:
		interp.state.AbsoluteMode = true
	case 91:
		interp.state.AbsoluteMode = false
	case 92:
		return interp.doSetPosition(cmd)
	}
	return nil
}

func (interp *Interpreter) executeM(cmd *Command) error {
	switch cmd.Number {
	case 82:
		interp.state.ExtrudeMode = false
	case 83:
		interp.state.ExtrudeMode = true
	}
	return nil
}

// doMove handles G0/G1 by translating letter/value parameters into a
// motion.RobotCommandArgs and handing it to the planner. G0 is flagged
// MoveRapid so the planner ignores feedrate and runs at each axis's max
// speed, matching G-code's rapid-positioning convention.
func (interp *Interpreter) doMove(cmd *Command) error {
	var args motion.RobotCommandArgs
	args.MoveRapid = cmd.Number == 0

	if cmd.HasParameter('F') {
		interp.state.FeedRate = cmd.GetParameter('F', 0) / 60.0 // mm/min -> mm/s
	}
	args.Feedrate = interp.state.FeedRate
	args.FeedrateValid = true

	current := interp.planner.CurrentPosition()
	letters := [3]byte{'X', 'Y', 'Z'}
	for axis, letter := range letters {
		if !cmd.HasParameter(letter) {
			continue
		}
		v := cmd.GetParameter(letter, 0)
		args.AxisValid[axis] = true
		if interp.state.AbsoluteMode {
			args.AxisValues[axis] = v
		} else {
			args.AxisValues[axis] = current[axis] + v
		}
	}

	if cmd.HasParameter('E') {
		v := cmd.GetParameter('E', 0)
		args.AxisValid[motion.AxisE] = true
		if interp.state.ExtrudeMode {
			args.AxisValues[motion.AxisE] = current[motion.AxisE] + v
		} else {
			args.AxisValues[motion.AxisE] = v
		}
	}

	return interp.planner.MoveTo(args)
}

// doHome marks the named axes (or all, if none named) homed and resets the
// planner's commanded position to 0 for them. Real endstop polling is a
// caller concern this package does not implement.
func (interp *Interpreter) doHome(cmd *Command) error {
	pos := interp.planner.CurrentPosition()

	homeAll := !cmd.HasParameter('X') && !cmd.HasParameter('Y') && !cmd.HasParameter('Z')
	letters := [3]byte{'X', 'Y', 'Z'}
	for axis, letter := range letters {
		if homeAll || cmd.HasParameter(letter) {
			interp.state.Homed[axis] = true
			pos[axis] = 0
		}
	}
	interp.planner.SetPosition(pos)
	return nil
}

func (interp *Interpreter) doSetPosition(cmd *Command) error {
	pos := interp.planner.CurrentPosition()
	letters := [4]byte{'X', 'Y', 'Z', 'E'}
	for axis, letter := range letters {
		if cmd.HasParameter(letter) {
			pos[axis] = cmd.GetParameter(letter, 0)
		}
	}
	interp.planner.SetPosition(pos)
	return nil
}

// State returns the interpreter's current positioning/feedrate state.
func (interp *Interpreter) State() State { return interp.state }
