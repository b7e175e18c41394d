package eurorack

import (
	"math"
	"sync/atomic"
)

// Clamp limits v to the inclusive range [lo, hi].
func Clamp(v, lo, hi Voltage) Voltage {
	if lo > hi {
		lo, hi = hi, lo
	}

	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v Voltage) bool {
	f := float64(v)

	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FlushDenormal converts tiny denormal-like values to exact zero.
// Feedback paths in filters decay into the denormal range and stall the FPU.
func FlushDenormal(v Voltage) Voltage {
	const epsilon = 1e-30
	if v > -epsilon && v < epsilon {
		return 0
	}

	return v
}

// atomicFloat is a float32 that may be read and written concurrently.
// Accesses are individually atomic; there is no ordering between instances.
type atomicFloat struct {
	bits atomic.Uint32
}

func (f *atomicFloat) load() float32 {
	return math.Float32frombits(f.bits.Load())
}

func (f *atomicFloat) store(v float32) {
	f.bits.Store(math.Float32bits(v))
}
