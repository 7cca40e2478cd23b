package control

import (
	"math"
	"testing"

	"github.com/san-kum/autopilot/internal/state"
	"github.com/stretchr/testify/assert"
)

func TestTrim_IgnoresState(t *testing.T) {
	trim := NewTrim()
	inputs := []state.Vehicle{
		{},
		{X: 100, Y: -4, Z: 2500, Phi: 0.3, Theta: -0.2, Psi: 3.1},
		{U: 55, V: 1, W: -2, P: 0.5, Q: -0.5, R: 0.1},
		{X: math.NaN(), P: math.Inf(1)},
	}

	for _, in := range inputs {
		assert.Equal(t, TrimSurfaces, trim.Evaluate(in))
	}
}

func TestTrim_Values(t *testing.T) {
	out := NewTrim().Evaluate(state.Vehicle{})

	assert.Equal(t, 0.0, out.Aileron)
	assert.Equal(t, -0.1, out.Elevator)
	assert.Equal(t, 0.0, out.Rudder)
	assert.Equal(t, 0.5, out.Throttle)
}

func TestHold(t *testing.T) {
	hold := NewHold()

	for tick := 0; tick < 3; tick++ {
		assert.Equal(t, state.Force{}, hold.Evaluate(state.Axis{Position: 9, Tick: tick}))
	}
}

func TestStateFeedback(t *testing.T) {
	fb := NewStateFeedback(2, 3)

	assert.Equal(t, state.Force{Force: 0}, fb.Evaluate(state.Axis{}))
	assert.Equal(t, state.Force{Force: 3}, fb.Evaluate(state.Axis{Position: 1.5, Velocity: -2}))
	assert.Equal(t, [2]float64{DefaultFeedbackKPos, DefaultFeedbackKVel}, NewDefaultStateFeedback().K)
}

func TestManual_ReturnsLastSetCommand(t *testing.T) {
	// GIVEN
	law := NewManual[state.Axis](state.Force{Force: 0.5})

	// WHEN
	first := law.Evaluate(state.Axis{Position: 3})
	law.Set(state.Force{Force: -2})
	second := law.Evaluate(state.Axis{Position: 3})

	// THEN
	assert.Equal(t, 0.5, first.Force)
	assert.Equal(t, -2.0, second.Force)
}
