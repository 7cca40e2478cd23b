package control

import "github.com/san-kum/autopilot/internal/state"

// Constant ignores its input and returns the same command every tick.
type Constant[S, C any] struct {
	output C
}

func NewConstant[S, C any](output C) *Constant[S, C] {
	return &Constant[S, C]{output: output}
}

func (c *Constant[S, C]) Evaluate(S) C {
	return c.output
}

// TrimSurfaces is the fixed command of the 6-DOF trim law: surfaces neutral
// except a small nose-down elevator trim, throttle at mid-range.
var TrimSurfaces = state.Surfaces{
	Aileron:  0,
	Elevator: -0.1,
	Rudder:   0,
	Throttle: 0.5,
}

// NewTrim returns the 6-DOF constant law used as the safe-mode fallback.
func NewTrim() *Constant[state.Vehicle, state.Surfaces] {
	return NewConstant[state.Vehicle](TrimSurfaces)
}

// NewHold returns an axis law that always commands zero force.
func NewHold() *Constant[state.Axis, state.Force] {
	return NewConstant[state.Axis](state.Force{})
}
