package motion

import (
	"errors"
	"math"
	"testing"
)

func testAxes() [NumAxes]AxisParams {
	var axes [NumAxes]AxisParams
	axes[AxisX] = AxisParams{Name: "x", StepsPerUnit: 80, MaxSpeed: 300, MaxAccel: 1000, MinVal: -1000, MaxVal: 1000}
	axes[AxisY] = AxisParams{Name: "y", StepsPerUnit: 80, MaxSpeed: 300, MaxAccel: 1000, MinVal: -1000, MaxVal: 1000}
	axes[AxisZ] = AxisParams{Name: "z", StepsPerUnit: 400, MaxSpeed: 10, MaxAccel: 100, MinVal: -1000, MaxVal: 1000}
	axes[AxisE] = AxisParams{Name: "e", StepsPerUnit: 96, MaxSpeed: 50, MaxAccel: 5000, MinVal: -10000, MaxVal: 10000}
	return axes
}

func newTestPlanner(t *testing.T, capacity int) *MotionPlanner {
	t.Helper()
	kin, err := NewCartesian(testAxes())
	if err != nil {
		t.Fatalf("NewCartesian: %v", err)
	}
	pipeline := NewMotionPipeline(capacity, testParams())
	return NewMotionPlanner(kin, pipeline, testParams(), testAxes())
}

func TestMoveToZeroLengthIsNoop(t *testing.T) {
	p := newTestPlanner(t, 4)
	err := p.MoveTo(RobotCommandArgs{})
	if err != nil {
		t.Fatalf("zero-length move should succeed, got %v", err)
	}
	if !p.pipeline.IsIdle() {
		t.Fatalf("zero-length move must not add a block")
	}
}

func TestMoveToOutOfBoundsRejected(t *testing.T) {
	p := newTestPlanner(t, 4)
	err := p.MoveTo(RobotCommandArgs{
		AxisValues: AxisFloats{5000, 0, 0, 0},
		AxisValid:  [NumAxes]bool{true, false, false, false},
	})
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestMoveToNonFiniteTargetIsTransformFailure(t *testing.T) {
	p := newTestPlanner(t, 4)
	err := p.MoveTo(RobotCommandArgs{
		AxisValues: AxisFloats{math.NaN(), 0, 0, 0},
		AxisValid:  [NumAxes]bool{true, false, false, false},
	})
	if !errors.Is(err, ErrTransformFailed) {
		t.Fatalf("expected ErrTransformFailed for a non-finite target, got %v", err)
	}
	if errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("non-finite target should not also satisfy ErrOutOfBounds")
	}
}

func TestMoveToDiagonalMoveAddsOneBlock(t *testing.T) {
	p := newTestPlanner(t, 4)
	err := p.MoveTo(RobotCommandArgs{
		AxisValues:    AxisFloats{100, 100, 0, 0},
		AxisValid:     [NumAxes]bool{true, true, false, false},
		Feedrate:      150,
		FeedrateValid: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.pipeline.Count() != 1 {
		t.Fatalf("expected one block queued, got %d", p.pipeline.Count())
	}
	blk, _ := p.pipeline.Peek(0)
	if blk.MaxEntrySpeed != 0 {
		t.Fatalf("first block after idle should have maxEntrySpeed 0, got %v", blk.MaxEntrySpeed)
	}
}

func TestMoveToPipelineFullReturnsError(t *testing.T) {
	p := newTestPlanner(t, 1)
	args := RobotCommandArgs{
		AxisValues: AxisFloats{10, 0, 0, 0},
		AxisValid:  [NumAxes]bool{true, false, false, false},
	}
	if err := p.MoveTo(args); err != nil {
		t.Fatalf("unexpected error on first move: %v", err)
	}
	args.AxisValues[AxisX] = 20
	if err := p.MoveTo(args); err != ErrPipelineFull {
		t.Fatalf("expected ErrPipelineFull, got %v", err)
	}
}

func TestMoveToOrthogonalTurnGetsZeroJunctionSpeed(t *testing.T) {
	p := newTestPlanner(t, 4)
	p.MoveTo(RobotCommandArgs{
		AxisValues: AxisFloats{100, 0, 0, 0},
		AxisValid:  [NumAxes]bool{true, false, false, false},
	})
	p.MoveTo(RobotCommandArgs{
		AxisValues: AxisFloats{100, 100, 0, 0},
		AxisValid:  [NumAxes]bool{false, true, false, false},
	})

	second, _ := p.pipeline.Peek(1)
	if second.MaxEntrySpeed > 1e-9 {
		t.Fatalf("expected ~0 junction speed for a 90deg turn, got %v", second.MaxEntrySpeed)
	}
}

func TestMoveToCollinearMovesGetNonzeroJunctionSpeed(t *testing.T) {
	p := newTestPlanner(t, 4)
	p.MoveTo(RobotCommandArgs{
		AxisValues: AxisFloats{100, 0, 0, 0},
		AxisValid:  [NumAxes]bool{true, false, false, false},
	})
	p.MoveTo(RobotCommandArgs{
		AxisValues: AxisFloats{200, 0, 0, 0},
		AxisValid:  [NumAxes]bool{true, false, false, false},
	})

	second, _ := p.pipeline.Peek(1)
	if second.MaxEntrySpeed <= 0 {
		t.Fatalf("expected nonzero junction speed for collinear moves, got %v", second.MaxEntrySpeed)
	}
}

func TestMoveToAdvancesCurrentPositionImmediately(t *testing.T) {
	p := newTestPlanner(t, 4)
	p.MoveTo(RobotCommandArgs{
		AxisValues: AxisFloats{50, 0, 0, 0},
		AxisValid:  [NumAxes]bool{true, false, false, false},
	})
	pos := p.CurrentPosition()
	if pos[AxisX] != 50 {
		t.Fatalf("expected commanded position to advance immediately, got %v", pos[AxisX])
	}
}
