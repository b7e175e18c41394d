// Package ring provides a bounded lock-free single-producer/single-consumer
// queue for handing values between a control goroutine and a real-time
// audio callback.
package ring

import "sync/atomic"

const cacheLine = 64

// Ring is a bounded FIFO for exactly one producer goroutine and exactly one
// consumer goroutine. Push and Pop never block and never allocate.
type Ring[T any] struct {
	buf  []T
	mask uint64

	_    [cacheLine]byte
	head atomic.Uint64 // next slot to read; written by the consumer only
	_    [cacheLine - 8]byte
	tail atomic.Uint64 // next slot to write; written by the producer only
	_    [cacheLine - 8]byte
}

// New returns a ring holding at least capacity values. The capacity is
// rounded up to the next power of two (minimum 2).
func New[T any](capacity int) *Ring[T] {
	n := 2
	for n < capacity {
		n <<= 1
	}

	return &Ring[T]{
		buf:  make([]T, n),
		mask: uint64(n - 1),
	}
}

// Push appends v. It reports false, leaving the ring unchanged, when full.
func (r *Ring[T]) Push(v T) bool {
	tail := r.tail.Load()
	if tail-r.head.Load() == uint64(len(r.buf)) {
		return false
	}

	r.buf[tail&r.mask] = v
	r.tail.Store(tail + 1)

	return true
}

// Pop removes and returns the oldest value. It reports false when empty.
func (r *Ring[T]) Pop() (T, bool) {
	var zero T

	head := r.head.Load()
	if head == r.tail.Load() {
		return zero, false
	}

	slot := &r.buf[head&r.mask]
	v := *slot
	*slot = zero // drop references held by the slot
	r.head.Store(head + 1)

	return v, true
}

// Len returns a snapshot of the number of queued values.
func (r *Ring[T]) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}
