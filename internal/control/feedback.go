package control

import "github.com/san-kum/autopilot/internal/state"

// LQR gains for a unit-mass double integrator with Q = diag(100, 1), R = 1.
const (
	DefaultFeedbackKPos = 10.0
	DefaultFeedbackKVel = 6.32
)

// StateFeedback is a stateless linear regulator u = -K x over (position, velocity).
type StateFeedback struct {
	K [2]float64
}

func NewStateFeedback(kPos, kVel float64) *StateFeedback {
	return &StateFeedback{K: [2]float64{kPos, kVel}}
}

func NewDefaultStateFeedback() *StateFeedback {
	return NewStateFeedback(DefaultFeedbackKPos, DefaultFeedbackKVel)
}

func (f *StateFeedback) Evaluate(s state.Axis) state.Force {
	return state.Force{Force: -(f.K[0]*s.Position + f.K[1]*s.Velocity)}
}

func (f *StateFeedback) Params() map[string]float64 {
	return map[string]float64{
		"Kpos": f.K[0],
		"Kvel": f.K[1],
	}
}
