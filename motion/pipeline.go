package motion

import "stepcore/core"

// MotionPipeline is a fixed-capacity ordered container of MotionBlocks plus
// the back-propagating look-ahead planner (spec §4.4). The head (age 0) is
// the oldest block — next to actuate. Storage is a pre-sized slice indexed
// through a core.RingBufferIndex so no push/pop allocates.
type MotionPipeline struct {
	params MotionParams
	idx    *core.RingBufferIndex
	blocks []*MotionBlock
}

// NewMotionPipeline creates a pipeline with the given fixed capacity.
func NewMotionPipeline(capacity int, params MotionParams) *MotionPipeline {
	return &MotionPipeline{
		params: params,
		idx:    core.NewRingBufferIndex(capacity),
		blocks: make([]*MotionBlock, capacity),
	}
}

// Capacity returns the fixed pipeline capacity.
func (p *MotionPipeline) Capacity() int { return p.idx.Capacity() }

// Count returns the number of blocks currently queued or running.
func (p *MotionPipeline) Count() int { return p.idx.Count() }

// IsIdle reports whether the pipeline is empty. Since a running block is
// always the head and is only popped on completion, an empty pipeline
// implies nothing is running.
func (p *MotionPipeline) IsIdle() bool { return p.idx.Count() == 0 }

// Add appends a block at the tail. Returns ErrPipelineFull if the pipeline
// is at capacity; the pipeline is left unchanged on failure.
func (p *MotionPipeline) Add(b *MotionBlock) error {
	if !p.idx.CanPut() {
		return ErrPipelineFull
	}
	slot := p.idx.PutIndex()
	p.blocks[slot] = b
	p.idx.HasPut()
	core.RecordTiming(core.EvtBlockPush, 0, core.GetTime(), uint32(p.idx.Count()), 0)
	return nil
}

// Peek returns the age-th oldest block (0 = head). ok is false if age is out
// of range for the current occupancy.
func (p *MotionPipeline) Peek(age int) (blk *MotionBlock, ok bool) {
	if age < 0 || age >= p.idx.Count() {
		return nil, false
	}
	return p.blocks[p.idx.Peek(age)], true
}

// PopHead releases the oldest block. The caller (the actuator, once every
// axis has reached DONE) is responsible for having cleared IsRunning first.
func (p *MotionPipeline) PopHead() (blk *MotionBlock, ok bool) {
	if !p.idx.CanGet() {
		return nil, false
	}
	raw := p.idx.Peek(0)
	blk = p.blocks[raw]
	p.blocks[raw] = nil
	p.idx.HasGot()
	core.RecordTiming(core.EvtBlockRelease, 0, core.GetTime(), uint32(p.idx.Count()), 0)
	return blk, true
}

// RecomputeLookahead re-plans entry/exit speeds across every queued block
// using the classic two-pass algorithm: a reverse pass (tail to head)
// establishes how fast each block can enter given what the downstream block
// needs to decelerate to, then a forward pass (head to tail) propagates the
// now-finalized upstream exit speeds forward and recomputes each block's
// trapezoid. A running head block is never mutated; its exit speed is
// treated as frozen and used as the forward pass's starting prevExit.
func (p *MotionPipeline) RecomputeLookahead() {
	n := p.idx.Count()
	if n == 0 {
		return
	}
	amax := p.params.MaxAccel

	// Reverse pass: newest (age n-1) down to oldest (age 0).
	for age := n - 1; age >= 0; age-- {
		blk, _ := p.Peek(age)
		if blk.IsRunning() {
			continue
		}
		nextEntry := 0.0
		if age+1 < n {
			if next, ok := p.Peek(age + 1); ok {
				nextEntry = next.EntrySpeed
			}
		}
		blk.CalcMaxSpeedReverse(nextEntry, amax)
		if blk.EntrySpeed == blk.MaxEntrySpeed && !blk.RecalcFlag {
			break
		}
	}

	// Forward pass: oldest (age 0) up to newest (age n-1).
	prevExit := 0.0
	for age := 0; age < n; age++ {
		blk, _ := p.Peek(age)
		if blk.IsRunning() {
			prevExit = blk.ExitSpeed
			continue
		}
		if age == n-1 {
			// Worst case: the stream may end here.
			blk.ExitSpeed = 0
		}
		blk.CalcMaxSpeedForward(prevExit, amax)
		blk.CalculateTrapezoid(p.params)
		prevExit = blk.ExitSpeed
	}

	core.RecordTiming(core.EvtLookahead, 0, core.GetTime(), uint32(n), 0)
}
