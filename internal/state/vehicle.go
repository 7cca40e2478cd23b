package state

import (
	"fmt"

	"github.com/san-kum/autopilot/internal/dynamo"
)

// VehicleDim is the length of a vehicle state vector.
const VehicleDim = 12

// Vehicle is a 6-DOF snapshot: inertial position, Euler attitude (roll,
// pitch, yaw), body-frame linear velocity and body-frame angular rate.
type Vehicle struct {
	X, Y, Z         float64
	Phi, Theta, Psi float64
	U, V, W         float64
	P, Q, R         float64
}

// Vector lays the snapshot out as x, y, z, phi, theta, psi, u, v, w, p, q, r.
func (v Vehicle) Vector() dynamo.State {
	return dynamo.State{v.X, v.Y, v.Z, v.Phi, v.Theta, v.Psi, v.U, v.V, v.W, v.P, v.Q, v.R}
}

// VehicleFromVector is the inverse of Vehicle.Vector.
func VehicleFromVector(x dynamo.State) (Vehicle, error) {
	if len(x) != VehicleDim {
		return Vehicle{}, fmt.Errorf("vehicle state needs %d entries, got %d: %w", VehicleDim, len(x), dynamo.ErrDimensionMismatch)
	}
	return Vehicle{
		X: x[0], Y: x[1], Z: x[2],
		Phi: x[3], Theta: x[4], Psi: x[5],
		U: x[6], V: x[7], W: x[8],
		P: x[9], Q: x[10], R: x[11],
	}, nil
}

// Surfaces is the aerodynamic command: control-surface deflections plus throttle.
type Surfaces struct {
	Aileron  float64
	Elevator float64
	Rudder   float64
	Throttle float64
}

func (s Surfaces) Vector() dynamo.Control {
	return dynamo.Control{s.Aileron, s.Elevator, s.Rudder, s.Throttle}
}

// Range is an inclusive actuator interval. Min must not exceed Max.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// SurfaceLimits bounds each field of Surfaces.
type SurfaceLimits struct {
	Aileron  Range `yaml:"aileron"`
	Elevator Range `yaml:"elevator"`
	Rudder   Range `yaml:"rudder"`
	Throttle Range `yaml:"throttle"`
}

// DefaultSurfaceLimits normalizes deflections to [-1, 1] and throttle to [0, 1].
func DefaultSurfaceLimits() SurfaceLimits {
	return SurfaceLimits{
		Aileron:  Range{Min: -1, Max: 1},
		Elevator: Range{Min: -1, Max: 1},
		Rudder:   Range{Min: -1, Max: 1},
		Throttle: Range{Min: 0, Max: 1},
	}
}

func (l SurfaceLimits) Validate() error {
	for name, r := range map[string]Range{
		"aileron":  l.Aileron,
		"elevator": l.Elevator,
		"rudder":   l.Rudder,
		"throttle": l.Throttle,
	} {
		if r.Min > r.Max {
			return fmt.Errorf("%s limit min %.3f exceeds max %.3f: %w", name, r.Min, r.Max, dynamo.ErrParameterBounds)
		}
	}
	return nil
}

// IsFinite reports whether every field of the snapshot is finite.
func (v Vehicle) IsFinite() bool {
	return v.Vector().IsValid()
}
