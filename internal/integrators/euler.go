package integrators

// Euler is the first-order forward Euler stepper. It mirrors the plain
// sampled-data update a control loop without a solver would perform.
type Euler struct {
	explicit
}

func NewEuler() *Euler {
	return &Euler{newExplicit(tableau{c: []float64{0}, b: []float64{1}})}
}
