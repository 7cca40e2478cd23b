package harness

import (
	"github.com/san-kum/autopilot/internal/dynamo"
	"github.com/san-kum/autopilot/internal/state"
)

// Binding converts between plant vectors and a law's state/command shapes.
type Binding[S, C any] struct {
	Sample  func(x dynamo.State, tick int, dt float64) S
	Actuate func(c C) dynamo.Control
}

// AxisBinding samples position and velocity from the first two entries.
func AxisBinding() Binding[state.Axis, state.Force] {
	return Binding[state.Axis, state.Force]{
		Sample: func(x dynamo.State, tick int, dt float64) state.Axis {
			return state.Axis{
				Position:  x[0],
				Velocity:  x[1],
				Tick:      tick,
				DeltaTime: dt,
			}
		},
		Actuate: func(c state.Force) dynamo.Control {
			return c.Vector()
		},
	}
}

// VehicleBinding maps the 12-entry airframe vector onto state.Vehicle.
func VehicleBinding() Binding[state.Vehicle, state.Surfaces] {
	return Binding[state.Vehicle, state.Surfaces]{
		Sample: func(x dynamo.State, tick int, dt float64) state.Vehicle {
			// dimensions are checked when the session starts
			v, _ := state.VehicleFromVector(x)
			return v
		},
		Actuate: func(c state.Surfaces) dynamo.Control {
			return c.Vector()
		},
	}
}
