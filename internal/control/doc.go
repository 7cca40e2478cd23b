// Package control provides the control laws evaluated once per tick by the
// harness.
//
// Every law implements [dynamo.Law] for its state/command pair:
//
//   - [Constant]: fixed output regardless of state; [NewTrim] is the 6-DOF safe-mode trim
//   - [PID]: proportional-integral-derivative regulator with periodic integral reset
//   - [StateFeedback]: full-state linear regulator for the 1-D axis
//
// Wrappers compose with any law:
//
//   - [Saturated], [ForceLimited]: clamp outputs to actuator limits using [Clamp]
//   - [Guard]: route non-finite inputs to a fallback law
//   - [Synchronized]: serialize calls when a harness shares one law across goroutines
//
// # Usage
//
//	pid, err := control.NewPID(control.DefaultPIDConfig())
//	force := pid.Evaluate(state.Axis{Position: 2, Tick: 0})
//
// Laws never fail and never log. Non-finite inputs propagate into non-finite
// outputs unless the law is wrapped in a [Guard].
package control
