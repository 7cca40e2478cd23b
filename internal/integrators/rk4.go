package integrators

// RK4 is the classic fourth-order Runge-Kutta stepper.
type RK4 struct {
	explicit
}

func NewRK4() *RK4 {
	return &RK4{newExplicit(tableau{
		c: []float64{0, 0.5, 0.5, 1},
		b: []float64{1.0 / 6, 2.0 / 6, 2.0 / 6, 1.0 / 6},
	})}
}

// Midpoint is the second-order midpoint rule: one Euler half step, then a
// full step along the slope found there.
type Midpoint struct {
	explicit
}

func NewMidpoint() *Midpoint {
	return &Midpoint{newExplicit(tableau{
		c: []float64{0, 0.5},
		b: []float64{0, 1},
	})}
}
