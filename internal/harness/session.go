package harness

import (
	"github.com/san-kum/autopilot/internal/dynamo"
)

// Session is one pass of a loop over a plant, advanced one tick at a time.
type Session[S, C any] struct {
	loop *Loop[S, C]
	x    dynamo.State
	tick int
	dt   float64
}

// Step runs one tick: sample, evaluate, observe, integrate.
//
// The returned sample holds the state the law saw and the command it
// produced. With validate set, a non-finite successor state is rejected with
// a *dynamo.SimulationError and the session does not advance.
func (s *Session[S, C]) Step(validate bool) (Sample, error) {
	l := s.loop
	t := s.Time()

	in := l.binding.Sample(s.x, s.tick, s.dt)
	u := l.binding.Actuate(l.law.Evaluate(in))

	for _, m := range l.metrics {
		m.Observe(s.x, u, t)
	}
	for _, obs := range l.observers {
		obs.OnTick(s.tick, s.x, u, t)
	}

	sample := Sample{Tick: s.tick, Time: t, State: s.x.Clone(), Control: u}

	next := l.integrator.Step(l.sys, s.x, u, t, s.dt)
	if validate && !next.IsValid() {
		return sample, &dynamo.SimulationError{
			Tick:    s.tick,
			Time:    t,
			State:   s.x.Clone(),
			Wrapped: dynamo.ErrInvalidState,
		}
	}

	s.x = next
	s.tick++
	return sample, nil
}

// Tick is the tick the next Step will present to the law.
func (s *Session[S, C]) Tick() int {
	return s.tick
}

// Time is the simulated time of the next tick.
func (s *Session[S, C]) Time() float64 {
	return float64(s.tick) * s.dt
}

// State returns a copy of the current plant state.
func (s *Session[S, C]) State() dynamo.State {
	return s.x.Clone()
}
