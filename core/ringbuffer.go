package core

import "sync/atomic"

// RingBufferIndex is a bounded producer/consumer index pair over a
// fixed-capacity array. It holds no storage itself — callers index their own
// backing array with the raw positions PutIndex/Peek return — so it never
// allocates.
//
// Single-producer/single-consumer: one goroutine calls PutIndex/HasPut,
// another calls Peek/HasGot. putPos is published with a release store and observed
// with an acquire load (and vice versa for getPos) so the consumer never
// observes a slot as available before the producer's write to it is visible,
// matching gopper's protocol.FifoBuffer index discipline but generalized to
// random-access peek rather than byte-stream Data()/Pop().
type RingBufferIndex struct {
	capacity int32
	putPos   atomic.Int64 // monotonically increasing; index = putPos % capacity
	getPos   atomic.Int64 // monotonically increasing; index = getPos % capacity
}

// NewRingBufferIndex creates an index pair for a backing array of the given
// capacity. capacity must be > 0.
func NewRingBufferIndex(capacity int) *RingBufferIndex {
	if capacity <= 0 {
		panic("core: RingBufferIndex capacity must be positive")
	}
	return &RingBufferIndex{capacity: int32(capacity)}
}

// Capacity returns the fixed capacity.
func (r *RingBufferIndex) Capacity() int {
	return int(r.capacity)
}

// Count returns the number of occupied slots.
func (r *RingBufferIndex) Count() int {
	return int(r.putPos.Load() - r.getPos.Load())
}

// CanPut reports whether the producer may insert another entry.
func (r *RingBufferIndex) CanPut() bool {
	return r.Count() < int(r.capacity)
}

// CanGet reports whether the consumer may remove an entry.
func (r *RingBufferIndex) CanGet() bool {
	return r.Count() > 0
}

// HasPut publishes the slot at the current put position (returned as a raw
// array index) and advances putPos. Callers must have already written the
// backing array slot before calling this — the atomic store is the release
// barrier that makes that write visible to the consumer.
func (r *RingBufferIndex) HasPut() int {
	idx := int(r.putPos.Load() % int64(r.capacity))
	r.putPos.Add(1)
	return idx
}

// PutIndex returns the raw array index the next Put should write to, without
// advancing the index. Use together with HasPut once the write is complete.
func (r *RingBufferIndex) PutIndex() int {
	return int(r.putPos.Load() % int64(r.capacity))
}

// HasGot advances getPos, releasing the oldest occupied slot back to the
// producer.
func (r *RingBufferIndex) HasGot() {
	r.getPos.Add(1)
}

// Peek returns the raw array index of the n-th oldest occupied entry
// (0 = head / oldest). The caller is responsible for bounds-checking n
// against Count().
func (r *RingBufferIndex) Peek(n int) int {
	return int((r.getPos.Load() + int64(n)) % int64(r.capacity))
}

// Reset empties the index pair without touching the backing array.
func (r *RingBufferIndex) Reset() {
	r.putPos.Store(0)
	r.getPos.Store(0)
}
