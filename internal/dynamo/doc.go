// Package dynamo provides the shared contracts of the autopilot core.
//
// The package defines the types every other package agrees on:
//
//   - [Law]: a control law mapping a state snapshot to an actuator command
//   - [State], [Control]: flat vectors used by plants and integrators
//   - [System]: plant dynamics (dX/dt = f(X, u, t)) driven by the harness
//   - [Integrator]: numerical stepper for a [System]
//   - [Metric], [Observer]: per-tick hooks used by the harness
//
// # Example
//
//	pid, _ := control.NewPID(control.DefaultPIDConfig())
//	loop := harness.New(physics.NewAxis(2), integrators.NewRK4(), pid, harness.AxisBinding())
//	result, _ := loop.Run(ctx, dynamo.State{2, 0}, harness.DefaultConfig())
//
// # Thread Safety
//
// Laws are NOT thread-safe. Each law is owned by exactly one control loop;
// wrap it with control.Synchronized if a harness must share it.
package dynamo
