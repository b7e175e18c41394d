package modules

import "math"

// wrapPhase maps p into [0, 1).
func wrapPhase(p float32) float32 {
	p -= float32(math.Floor(float64(p)))
	if p >= 1 {
		return 0
	}

	return p
}
