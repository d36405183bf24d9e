package motion

import "stepcore/core"

// phase is one axis's position within a block's trapezoid schedule.
type phase int

const (
	phaseAccel phase = iota
	phasePlateau
	phaseDecel
	phaseDone
)

// axisRunState is the actuator's live per-axis counters for the current
// head block — the mutable half of what spec §4.6 calls the actuator's
// per-axis state (accumulator, currentStepRatePerKTicks, stepsDoneInPhase,
// phase).
type axisRunState struct {
	accumulator uint64
	rate        uint64
	stepsDone   uint32
	ph          phase
	stepHigh    bool // raised last tick; lower before doing anything else this tick
}

// MotionActuator consumes the pipeline's head block one tick at a time and
// emits step/direction pulses. Grounded on gopper's
// standalone/stepgen.Stepper step/stepDown handler pair, generalized from
// one axis at constant velocity to NumAxes axes each running an
// independent three-phase trapezoid, all paced by the same head block.
//
// Tick must never allocate, never block, and never wait on a lock —
// MotionBlock.ChangeInProgress is a plain atomic load/store precisely so
// this holds even while the planner is concurrently mutating a
// not-yet-claimed block.
type MotionActuator struct {
	pipeline *MotionPipeline
	outputs  AxisOutputs
	params   MotionParams

	current      *MotionBlock
	touched      bool
	axisState    [NumAxes]axisRunState
	accelPerTick [NumAxes]uint64

	stepCounter uint64
}

// NewMotionActuator builds an actuator bound to one pipeline and one
// hardware (or recording) output sink.
func NewMotionActuator(pipeline *MotionPipeline, outputs AxisOutputs, params MotionParams) *MotionActuator {
	a := &MotionActuator{pipeline: pipeline, outputs: outputs, params: params}
	core.SetStepCounter(func() uint64 { return a.stepCounter })
	return a
}

// Tick runs one tick's worth of work for the current head block. Safe to
// call from an interrupt/real-time context.
func (a *MotionActuator) Tick() {
	a.lowerPulses()

	if a.current == nil {
		blk, ok := a.pipeline.Peek(0)
		if !ok {
			return
		}
		a.current = blk
		a.touched = false
	}
	blk := a.current

	if blk.ChangeInProgress() {
		return
	}

	if !a.touched {
		a.claimBlock(blk)
	}

	allDone := true
	for i := 0; i < NumAxes; i++ {
		st := &a.axisState[i]
		if st.ph == phaseDone {
			continue
		}
		allDone = false
		a.stepAxis(blk, i, st)
	}

	if allDone {
		blk.release()
		a.pipeline.PopHead()
		core.RecordTiming(core.EvtBlockRelease, 0, core.GetTime(), 0, 0)
		a.current = nil
		a.touched = false
	}
}

// lowerPulses clears any step pin raised on the previous tick (the pulse's
// trailing edge), per spec §4.6's "track per-axis step-high since tick T".
func (a *MotionActuator) lowerPulses() {
	for i := 0; i < NumAxes; i++ {
		if a.axisState[i].stepHigh {
			a.outputs.Unstep(i)
			a.axisState[i].stepHigh = false
		}
	}
}

// claimBlock latches isRunning, writes direction pins, and resets every
// axis's run state from the block's trapezoid schedule.
func (a *MotionActuator) claimBlock(blk *MotionBlock) {
	blk.claim()
	core.RecordTiming(core.EvtBlockClaim, 0, core.GetTime(), 0, 0)

	ticksPerMS := a.params.TicksPerMillisecond()
	for i := 0; i < NumAxes; i++ {
		data := blk.AxisStepData[i]
		a.axisState[i] = axisRunState{
			rate: data.InitialStepRatePerKTicks,
			ph:   initialPhase(data),
		}
		if ticksPerMS > 0 {
			a.accelPerTick[i] = uint64(float64(data.AccStepsPerKTicksPerMS) / ticksPerMS)
		}
		a.outputs.SetDirection(i, blk.AxisStepsToTarget[i] < 0)
	}
	a.touched = true
}

// initialPhase returns the first phase the block schedules a nonzero step
// count for, so an axis with e.g. no accel steps starts in PLATEAU or DECEL.
func initialPhase(d AxisStepData) phase {
	switch {
	case d.StepsInAccPhase > 0:
		return phaseAccel
	case d.StepsInPlateauPhase > 0:
		return phasePlateau
	case d.StepsInDecelPhase > 0:
		return phaseDecel
	default:
		return phaseDone
	}
}

// stepAxis runs one axis's tick: accumulate rate, emit whatever whole steps
// fall out of the accumulator, and advance the phase state machine.
func (a *MotionActuator) stepAxis(blk *MotionBlock, i int, st *axisRunState) {
	data := blk.AxisStepData[i]

	st.accumulator += st.rate
	for st.accumulator >= KValue {
		a.outputs.Step(i)
		st.stepHigh = true
		a.stepCounter++
		st.accumulator -= KValue
		st.stepsDone++
		core.RecordTiming(core.EvtTickStep, uint8(i), core.GetTime(), 0, 0)
	}

	switch st.ph {
	case phaseAccel:
		st.rate += a.accelPerTick[i]
		if st.stepsDone >= data.StepsInAccPhase {
			st.stepsDone = 0
			st.ph = nextNonEmptyPhase(data, phasePlateau)
		}
	case phasePlateau:
		if st.stepsDone >= data.StepsInPlateauPhase {
			st.stepsDone = 0
			st.ph = nextNonEmptyPhase(data, phaseDecel)
		}
	case phaseDecel:
		if st.rate > a.accelPerTick[i] {
			st.rate -= a.accelPerTick[i]
		} else {
			st.rate = 0
		}
		if st.stepsDone >= data.StepsInDecelPhase {
			st.ph = phaseDone
		}
	}
}

// nextNonEmptyPhase returns from, or the first phase after it with a
// nonzero step count, or phaseDone if none remain.
func nextNonEmptyPhase(d AxisStepData, from phase) phase {
	if from == phasePlateau && d.StepsInPlateauPhase == 0 {
		from = phaseDecel
	}
	if from == phaseDecel && d.StepsInDecelPhase == 0 {
		from = phaseDone
	}
	return from
}
