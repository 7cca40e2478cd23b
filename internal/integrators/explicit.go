package integrators

import "github.com/san-kum/autopilot/internal/dynamo"

// tableau describes an explicit Runge-Kutta method whose stage i samples
// the derivative at x + dt*c[i]*k[i-1], the shape shared by Euler, the
// midpoint rule and classic RK4. Weights b combine the stage slopes.
type tableau struct {
	c []float64
	b []float64
}

// explicit steps a system with a fixed tableau. The control input is held
// constant across the step (zero-order hold between ticks).
//
// Stage buffers are reused between calls, so a stepper must not be shared by
// concurrent loops.
type explicit struct {
	tab     tableau
	k       []dynamo.State
	scratch dynamo.State
}

func newExplicit(tab tableau) explicit {
	return explicit{tab: tab, k: make([]dynamo.State, len(tab.c))}
}

func (e *explicit) ensureScratch(n int) {
	if len(e.scratch) == n {
		return
	}
	for i := range e.k {
		e.k[i] = make(dynamo.State, n)
	}
	e.scratch = make(dynamo.State, n)
}

func (e *explicit) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	e.ensureScratch(n)

	for s, c := range e.tab.c {
		in := x
		if s > 0 {
			prev := e.k[s-1]
			for i := 0; i < n; i++ {
				e.scratch[i] = x[i] + dt*c*prev[i]
			}
			in = e.scratch
		}
		copy(e.k[s], dyn.Derive(in, u, t+c*dt))
	}

	next := x.Clone()
	for s, w := range e.tab.b {
		if w == 0 {
			continue
		}
		for i := 0; i < n; i++ {
			next[i] += dt * w * e.k[s][i]
		}
	}
	return next
}
