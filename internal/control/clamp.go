package control

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Clamp restricts v to the closed interval [lo, hi].
//
// lo > hi is a programming error and panics: bounds are configuration, not
// input data. A NaN v is returned unchanged.
func Clamp[T constraints.Float](v, lo, hi T) T {
	if lo > hi {
		panic(fmt.Sprintf("control: clamp bounds inverted (min %v > max %v)", lo, hi))
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInPlace clamps the value target points to.
func ClampInPlace[T constraints.Float](target *T, lo, hi T) {
	*target = Clamp(*target, lo, hi)
}
