package control

import (
	"fmt"

	"github.com/san-kum/autopilot/internal/dynamo"
	"github.com/san-kum/autopilot/internal/state"
)

// Saturated clamps every surface of the wrapped law's output to its limits.
type Saturated struct {
	law    dynamo.Law[state.Vehicle, state.Surfaces]
	limits state.SurfaceLimits
}

func NewSaturated(law dynamo.Law[state.Vehicle, state.Surfaces], limits state.SurfaceLimits) (*Saturated, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	return &Saturated{law: law, limits: limits}, nil
}

func (s *Saturated) Evaluate(v state.Vehicle) state.Surfaces {
	out := s.law.Evaluate(v)
	ClampInPlace(&out.Aileron, s.limits.Aileron.Min, s.limits.Aileron.Max)
	ClampInPlace(&out.Elevator, s.limits.Elevator.Min, s.limits.Elevator.Max)
	ClampInPlace(&out.Rudder, s.limits.Rudder.Min, s.limits.Rudder.Max)
	ClampInPlace(&out.Throttle, s.limits.Throttle.Min, s.limits.Throttle.Max)
	return out
}

// ForceLimited clamps an axis law's force into limit.
type ForceLimited struct {
	law   dynamo.Law[state.Axis, state.Force]
	limit state.Range
}

func NewForceLimited(law dynamo.Law[state.Axis, state.Force], limit state.Range) (*ForceLimited, error) {
	if limit.Min > limit.Max {
		return nil, fmt.Errorf("force limit min %.3f exceeds max %.3f: %w", limit.Min, limit.Max, dynamo.ErrParameterBounds)
	}
	return &ForceLimited{law: law, limit: limit}, nil
}

func (f *ForceLimited) Evaluate(s state.Axis) state.Force {
	out := f.law.Evaluate(s)
	ClampInPlace(&out.Force, f.limit.Min, f.limit.Max)
	return out
}
