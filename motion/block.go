package motion

import (
	"math"
	"sync/atomic"
)

// assertionsEnabled gates the invariant-violation panics below, mirroring
// gopper's core.SetDebugEnabled: on by default so a caller driving the
// planner and actuator from the same goroutine (tests, the host CLI) fails
// loudly the moment look-ahead touches a block the actuator has claimed.
// A target that wants the degraded-but-non-panicking behavior (skip the
// mutation silently) can turn this off once it trusts its own ISR discipline.
var assertionsEnabled = true

// SetAssertionsEnabled toggles the motion package's internal invariant
// checks.
func SetAssertionsEnabled(enabled bool) {
	assertionsEnabled = enabled
}

// AxisStepData is the per-axis trapezoid output: a fixed-point step rate and
// acceleration expressed in "steps per tick, scaled by KValue" so the
// actuator's per-tick update is an integer add (spec §9).
type AxisStepData struct {
	// InitialStepRatePerKTicks is the fixed-point rate at the first tick of
	// the accel phase, pre-biased by one AccStepsPerKTicksPerMS (one
	// millisecond's worth of acceleration), so an axis starting from
	// EntrySpeed 0 already has a nonzero rate on its first tick (see
	// MotionActuator.Tick).
	InitialStepRatePerKTicks uint64

	// AccStepsPerKTicksPerMS is the acceleration contribution this axis
	// accrues; Actuator divides it by ticks-per-millisecond once (not per
	// tick) to get the constant per-tick rate increment for this axis.
	AccStepsPerKTicksPerMS uint64

	StepsInAccPhase    uint32
	StepsInPlateauPhase uint32
	StepsInDecelPhase  uint32
}

// TotalSteps returns the sum of the three phase counts.
func (d AxisStepData) TotalSteps() uint32 {
	return d.StepsInAccPhase + d.StepsInPlateauPhase + d.StepsInDecelPhase
}

// MotionBlock is a single planned linear move: target step deltas,
// distances, entry/exit speeds, and the per-axis trapezoid schedule. It is
// the central entity look-ahead mutates and the actuator consumes.
type MotionBlock struct {
	// MaxParamSpeed is the nominal feedrate ceiling for this move, units/s.
	MaxParamSpeed float64

	// AxisStepsToTarget is the signed step delta per axis; sign encodes
	// direction.
	AxisStepsToTarget AxisInt32s

	// MoveDistPrimaryAxes is the Euclidean distance across X/Y/Z, user units.
	MoveDistPrimaryAxes float64

	// UnitVectors is the move direction per axis, each in [-1, 1].
	UnitVectors AxisFloats

	// MaxEntrySpeed is the junction-geometry ceiling computed at insertion.
	MaxEntrySpeed float64

	// EntrySpeed / ExitSpeed are the current plan, mutated by look-ahead.
	EntrySpeed float64
	ExitSpeed  float64

	// NominalLengthFlag: this block is long enough to reach MaxParamSpeed
	// from rest within its own length (MaxParamSpeed² <= 2·MaxAccel·distance).
	NominalLengthFlag bool

	// RecalcFlag: still subject to forward-pass revision.
	RecalcFlag bool

	// EndstopMode is threaded through from the originating command so a
	// caller-supplied executor can react to it; endstop polling itself is
	// out of scope here.
	EndstopMode EndstopMode

	// AxisStepData is the authoritative trapezoid schedule once
	// CalculateTrapezoid returns.
	AxisStepData [NumAxes]AxisStepData

	isRunning        atomic.Bool // actuator has claimed this block
	changeInProgress atomic.Bool // trapezoid fields are mid-update
}

// IsRunning reports whether the actuator has claimed this block. While true,
// the planner must not mutate entry/exit/trapezoid fields.
func (b *MotionBlock) IsRunning() bool {
	return b.isRunning.Load()
}

// claim is called once, by the actuator, the first tick it touches a block.
func (b *MotionBlock) claim() {
	b.isRunning.Store(true)
}

// release is called by the actuator when every axis has reached DONE.
func (b *MotionBlock) release() {
	b.isRunning.Store(false)
}

// ChangeInProgress reports whether the planner is mid-write to this block's
// trapezoid fields. The actuator checks this before touching a block and
// skips one tick if set, rather than taking a lock.
func (b *MotionBlock) ChangeInProgress() bool {
	return b.changeInProgress.Load()
}

func (b *MotionBlock) beginChange() { b.changeInProgress.Store(true) }
func (b *MotionBlock) endChange()   { b.changeInProgress.Store(false) }

// MasterAxis returns the index of the axis with the largest absolute step
// count, and that count. Trapezoid phases are measured against this axis and
// scaled per other axis (GLOSSARY: "Master axis").
func (b *MotionBlock) MasterAxis() (axis int, steps int64) {
	best := -1
	var bestSteps int64
	for i, s := range b.AxisStepsToTarget {
		abs := s
		if abs < 0 {
			abs = -abs
		}
		if abs > bestSteps {
			bestSteps = abs
			best = i
		}
	}
	return best, bestSteps
}

// CalculateTrapezoid computes the three-phase accel/plateau/decel schedule
// for every axis from EntrySpeed, ExitSpeed, MaxParamSpeed and
// MoveDistPrimaryAxes (spec §4.3). It is a no-op if the block is already
// claimed by the actuator (IsRunning) — the planner must never touch a
// running block's schedule.
func (b *MotionBlock) CalculateTrapezoid(params MotionParams) {
	if b.IsRunning() {
		return
	}
	b.beginChange()
	defer b.endChange()

	masterAxis, masterSteps := b.MasterAxis()
	if masterAxis < 0 || masterSteps == 0 {
		// Degenerate block (shouldn't normally reach the pipeline, but keep
		// the schedule internally consistent rather than dividing by zero).
		for i := range b.AxisStepData {
			b.AxisStepData[i] = AxisStepData{}
		}
		return
	}

	amax := params.MaxAccel
	stotal := b.MoveDistPrimaryAxes
	ventry := b.EntrySpeed
	vexit := b.ExitSpeed
	vmax := b.MaxParamSpeed

	// Step 1: accelerating distance assuming a symmetric accel/decel peak.
	saccel := (vexit*vexit-ventry*ventry)/(4*amax) + stotal/2
	saccel = clamp(saccel, 0, stotal)
	sdecel := stotal - saccel
	splateau := 0.0

	// Step 2: distance required to reach MaxParamSpeed from EntrySpeed.
	stomax := (vmax*vmax - ventry*ventry) / (2 * amax)

	// Step 3: does the move actually reach max speed?
	if stomax < saccel {
		saccel = math.Max(stomax, 0)
		sdecel = (vmax*vmax - vexit*vexit) / (2 * amax)
		sdecel = math.Max(sdecel, 0)
		splateau = stotal - saccel - sdecel
		if splateau < 0 {
			splateau = 0
		}
	}

	// Step 4: distance proportions (sum to 1 when stotal > 0).
	var pAccel, pPlateau, pDecel float64
	if stotal > 0 {
		pAccel = saccel / stotal
		pPlateau = splateau / stotal
		pDecel = sdecel / stotal
	}

	ticksPerSec := params.TicksPerSecond()
	amaxSteps := amax / params.StepDistance

	for i := 0; i < NumAxes; i++ {
		steps := b.AxisStepsToTarget[i]
		if steps < 0 {
			steps = -steps
		}
		if steps == 0 {
			b.AxisStepData[i] = AxisStepData{}
			continue
		}

		axisFactor := float64(steps) / float64(masterSteps)

		stepsAccel := uint32(math.Ceil(float64(steps) * pAccel))
		if stepsAccel > uint32(steps) {
			stepsAccel = uint32(steps)
		}
		stepsPlateau := uint32(math.Floor(float64(steps) * pPlateau))
		if uint64(stepsAccel)+uint64(stepsPlateau) > uint64(steps) {
			stepsPlateau = uint32(steps) - stepsAccel
		}
		stepsDecel := uint32(steps) - stepsAccel - stepsPlateau

		rate := KValue * (ventry / params.StepDistance) / ticksPerSec * axisFactor
		accelPerTick := KValue * amaxSteps / ticksPerSec / 1000 * axisFactor

		b.AxisStepData[i] = AxisStepData{
			InitialStepRatePerKTicks: uint64(math.Round(rate)) + uint64(math.Round(accelPerTick)),
			AccStepsPerKTicksPerMS:   uint64(math.Round(accelPerTick)),
			StepsInAccPhase:          stepsAccel,
			StepsInPlateauPhase:      stepsPlateau,
			StepsInDecelPhase:        stepsDecel,
		}
	}
}

// CalcMaxSpeedReverse is the reverse-pass step of look-ahead: it sets
// EntrySpeed to the fastest speed this block can start at such that it can
// still decelerate to nextEntrySpeed (the downstream block's entry speed, or
// 0 for the newest block) by the end of its own distance.
func (b *MotionBlock) CalcMaxSpeedReverse(nextEntrySpeed float64, amax float64) float64 {
	if b.IsRunning() {
		if assertionsEnabled {
			panic("motion: CalcMaxSpeedReverse called on a running block")
		}
		return b.EntrySpeed
	}
	if b.EntrySpeed == b.MaxEntrySpeed {
		return b.EntrySpeed
	}
	if b.NominalLengthFlag || b.MaxEntrySpeed <= nextEntrySpeed {
		b.EntrySpeed = b.MaxEntrySpeed
		return b.EntrySpeed
	}
	candidate := math.Sqrt(nextEntrySpeed*nextEntrySpeed + 2*amax*b.MoveDistPrimaryAxes)
	b.EntrySpeed = math.Min(b.MaxEntrySpeed, candidate)
	return b.EntrySpeed
}

// CalcMaxSpeedForward is the forward-pass step of look-ahead: it caps
// EntrySpeed to what the previous (now-finalized) block can actually hand
// off, then maximizes ExitSpeed within the brakeable/reachable limits.
func (b *MotionBlock) CalcMaxSpeedForward(prevExitSpeed float64, amax float64) {
	if b.IsRunning() {
		if assertionsEnabled {
			panic("motion: CalcMaxSpeedForward called on a running block")
		}
		return
	}
	prevExitSpeed = math.Min(prevExitSpeed, math.Min(b.MaxParamSpeed, b.MaxEntrySpeed))

	if prevExitSpeed <= b.EntrySpeed {
		b.EntrySpeed = prevExitSpeed
		if b.EntrySpeed >= b.MaxParamSpeed {
			b.RecalcFlag = false
		}
	}
	b.maximizeExitSpeed(amax)
}

func (b *MotionBlock) maximizeExitSpeed(amax float64) {
	if b.NominalLengthFlag {
		b.ExitSpeed = math.Min(b.MaxParamSpeed, b.ExitSpeed)
		return
	}
	reachable := math.Sqrt(b.EntrySpeed*b.EntrySpeed + 2*amax*b.MoveDistPrimaryAxes)
	b.ExitSpeed = math.Min(b.ExitSpeed, reachable)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
