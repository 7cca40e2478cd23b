// Package harness drives a control law against a simulated plant.
//
// Each tick the [Loop] samples the plant state into the law's state shape,
// calls Evaluate exactly once, feeds metrics and observers, and integrates
// the plant over one control interval with the command held constant. Tick
// starts at 0 and advances by exactly 1 per call.
//
// A [Loop] owns its law; it is not safe for concurrent use. [Ensemble] runs
// independent loops, each with its own law instance, in parallel.
package harness
