package core

import "testing"

func TestRingBufferIndexBasic(t *testing.T) {
	r := NewRingBufferIndex(4)

	if r.CanGet() {
		t.Fatalf("expected empty buffer to have nothing to get")
	}
	if !r.CanPut() {
		t.Fatalf("expected empty buffer to accept a put")
	}

	for i := 0; i < 4; i++ {
		if !r.CanPut() {
			t.Fatalf("put %d: expected capacity for more entries", i)
		}
		r.HasPut()
	}

	if r.CanPut() {
		t.Fatalf("expected buffer to be full after 4 puts into capacity 4")
	}
	if r.Count() != 4 {
		t.Fatalf("expected count 4, got %d", r.Count())
	}

	r.HasGot()
	if !r.CanPut() {
		t.Fatalf("expected space after one get")
	}
	if r.Count() != 3 {
		t.Fatalf("expected count 3, got %d", r.Count())
	}
}

func TestRingBufferIndexPeekWraps(t *testing.T) {
	r := NewRingBufferIndex(3)

	// Fill, drain, fill again to force wraparound of the raw indices.
	for i := 0; i < 3; i++ {
		r.HasPut()
	}
	r.HasGot()
	r.HasGot()
	idx := r.HasPut() // raw index should wrap back to 0
	if idx != 0 {
		t.Fatalf("expected wrapped raw index 0, got %d", idx)
	}

	if got := r.Peek(0); got != r.Peek(0) {
		t.Fatalf("peek should be stable across repeated calls")
	}
	if r.Count() != 2 {
		t.Fatalf("expected count 2 after 3 put/2 get/1 put, got %d", r.Count())
	}
}
