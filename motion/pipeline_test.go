package motion

import (
	"math"
	"testing"
)

func newTestBlock(dist float64, maxSpeed float64) *MotionBlock {
	return &MotionBlock{
		MaxParamSpeed:       maxSpeed,
		MaxEntrySpeed:       maxSpeed,
		AxisStepsToTarget:   AxisInt32s{int64(dist * 80), 0, 0, 0},
		MoveDistPrimaryAxes: dist,
		RecalcFlag:          true,
	}
}

func TestPipelineAddRejectsOverCapacity(t *testing.T) {
	p := NewMotionPipeline(2, testParams())
	if err := p.Add(newTestBlock(10, 100)); err != nil {
		t.Fatalf("unexpected error on first add: %v", err)
	}
	if err := p.Add(newTestBlock(10, 100)); err != nil {
		t.Fatalf("unexpected error on second add: %v", err)
	}
	if err := p.Add(newTestBlock(10, 100)); err != ErrPipelineFull {
		t.Fatalf("expected ErrPipelineFull at capacity, got %v", err)
	}
}

func TestPipelinePopHeadOrdersFIFO(t *testing.T) {
	p := NewMotionPipeline(4, testParams())
	first := newTestBlock(10, 100)
	second := newTestBlock(20, 100)
	p.Add(first)
	p.Add(second)

	got, ok := p.PopHead()
	if !ok || got != first {
		t.Fatalf("expected first block popped first")
	}
	got, ok = p.PopHead()
	if !ok || got != second {
		t.Fatalf("expected second block popped second")
	}
	if _, ok := p.PopHead(); ok {
		t.Fatalf("expected pop on empty pipeline to fail")
	}
}

func TestRecomputeLookaheadTailExitSpeedIsZero(t *testing.T) {
	p := NewMotionPipeline(4, testParams())
	p.Add(newTestBlock(100, 100))
	p.Add(newTestBlock(100, 100))
	p.RecomputeLookahead()

	tail, _ := p.Peek(1)
	if tail.ExitSpeed != 0 {
		t.Fatalf("expected tail block exitSpeed 0, got %v", tail.ExitSpeed)
	}
}

func TestRecomputeLookaheadLongMoveReachesMaxSpeed(t *testing.T) {
	p := NewMotionPipeline(4, testParams())
	p.Add(newTestBlock(1000, 100))
	p.RecomputeLookahead()

	b, _ := p.Peek(0)
	if b.AxisStepData[AxisX].StepsInPlateauPhase == 0 {
		t.Fatalf("expected a long move to reach a plateau phase")
	}
}

func TestRecomputeLookaheadJunctionClosure(t *testing.T) {
	params := testParams()
	p := NewMotionPipeline(4, params)
	a := newTestBlock(50, 100)
	b := newTestBlock(50, 100)
	b.MaxEntrySpeed = 100
	a.MaxEntrySpeed = 0 // first block after idle
	p.Add(a)
	p.Add(b)
	p.RecomputeLookahead()

	if a.ExitSpeed > b.EntrySpeed+1e-6 {
		t.Fatalf("look-ahead closure violated: a.exitSpeed=%v b.entrySpeed=%v", a.ExitSpeed, b.EntrySpeed)
	}
	if a.ExitSpeed > b.MaxEntrySpeed+1e-9 {
		t.Fatalf("exit speed %v exceeds downstream maxEntrySpeed %v", a.ExitSpeed, b.MaxEntrySpeed)
	}
}

func TestRecomputeLookaheadSkipsRunningHead(t *testing.T) {
	p := NewMotionPipeline(4, testParams())
	head := newTestBlock(50, 100)
	head.EntrySpeed = 42
	head.claim()
	p.Add(head)
	p.Add(newTestBlock(50, 100))

	p.RecomputeLookahead()

	if head.EntrySpeed != 42 {
		t.Fatalf("running head block must not be mutated, entrySpeed changed to %v", head.EntrySpeed)
	}
	if math.IsNaN(head.ExitSpeed) {
		t.Fatalf("running head exitSpeed became NaN")
	}
}
