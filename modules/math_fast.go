//go:build fastmath

package modules

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

// pow2 turns a V/oct exponent into a frequency ratio through the
// approximate natural exp.
func pow2(x float64) float64 {
	return approx.FastExp(x * math.Ln2)
}
