package state

import "github.com/san-kum/autopilot/internal/dynamo"

// Axis is a 1-D plant snapshot. Tick starts at 0 and advances by one per
// control interval; DeltaTime is the time elapsed since the previous tick.
type Axis struct {
	Position  float64
	Velocity  float64
	Tick      int
	DeltaTime float64
}

// Force is the 1-D actuator command.
type Force struct {
	Force float64
}

func (f Force) Vector() dynamo.Control {
	return dynamo.Control{f.Force}
}

// IsFinite reports whether position, velocity and delta time are finite.
func (a Axis) IsFinite() bool {
	return dynamo.State{a.Position, a.Velocity, a.DeltaTime}.IsValid()
}
