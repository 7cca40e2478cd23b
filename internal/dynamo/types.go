package dynamo

import "math"

// Law maps a state snapshot to the actuator command for one tick.
//
// Evaluate is called exactly once per tick, strictly in tick order. The state
// is passed by value and must not be retained.
type Law[S, C any] interface {
	Evaluate(s S) C
}

// LawFunc adapts a plain function to the Law interface.
type LawFunc[S, C any] func(s S) C

func (f LawFunc[S, C]) Evaluate(s S) C {
	return f(s)
}

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

type Control []float64

func (c Control) IsValid() bool {
	return State(c).IsValid()
}

// System describes plant dynamics integrated by the harness.
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

// Observer is notified once per tick, after the law ran and before the plant advanced.
type Observer interface {
	OnTick(tick int, x State, u Control, t float64)
}
