package metrics

import (
	"math"

	"github.com/san-kum/autopilot/internal/dynamo"
)

// AbsError is the mean absolute deviation of one state entry from zero,
// i.e. the regulation error of an axis law.
type AbsError struct {
	name    string
	index   int
	sum     float64
	samples int
}

func NewAbsError(index int) *AbsError {
	return &AbsError{
		name:  "abs_error",
		index: index,
	}
}

func (e *AbsError) Name() string { return e.name }

func (e *AbsError) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if e.index >= len(x) {
		return
	}
	e.sum += math.Abs(x[e.index])
	e.samples++
}

func (e *AbsError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *AbsError) Reset() {
	e.sum = 0
	e.samples = 0
}

// Energetic is a plant that can report the energy of a state.
type Energetic interface {
	Energy(x dynamo.State) float64
}

// Energy is the mean plant energy over the run. Plants that do not report
// energy leave it at zero.
type Energy struct {
	name    string
	plant   dynamo.System
	total   float64
	samples int
}

func NewEnergy(plant dynamo.System) *Energy {
	return &Energy{
		name:  "energy",
		plant: plant,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, u dynamo.Control, t float64) {
	p, ok := e.plant.(Energetic)
	if !ok {
		return
	}
	e.total += p.Energy(x)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}
