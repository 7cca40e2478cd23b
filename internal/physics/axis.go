package physics

import (
	"fmt"

	"github.com/san-kum/autopilot/internal/dynamo"
)

// Axis is an integrator chain of the given order. The state is
// [position, velocity] for order 2 and [position, velocity, acceleration]
// for order 3; the force drives the last entry.
type Axis struct {
	Order int
}

func NewAxis(order int) (*Axis, error) {
	if order < 2 || order > 3 {
		return nil, fmt.Errorf("axis order must be 2 or 3, got %d: %w", order, dynamo.ErrParameterBounds)
	}
	return &Axis{Order: order}, nil
}

func (a *Axis) StateDim() int   { return a.Order }
func (a *Axis) ControlDim() int { return 1 }

func (a *Axis) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	n := a.Order
	dx := make(dynamo.State, n)
	for i := 0; i < n-1; i++ {
		dx[i] = x[i+1]
	}
	if len(u) > 0 {
		dx[n-1] = u[0]
	}
	return dx
}

// Energy is the kinetic energy of a unit mass.
func (a *Axis) Energy(x dynamo.State) float64 {
	return 0.5 * x[1] * x[1]
}
