// Package physics provides the plant models the harness integrates between
// control ticks.
//
// Each model implements the [dynamo.System] interface:
//
//   - [Axis]: 1-D integrator chain driven by a scalar force
//   - [Airframe]: kinematic 6-DOF airframe driven by surfaces and throttle
//
// Plant dynamics are a harness concern; the control laws never see them.
package physics
