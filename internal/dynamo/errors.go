package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for harness and configuration operations.
var (
	// ErrInvalidState indicates a plant state containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDimensionMismatch indicates mismatched state/control dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrUnknownComponent indicates a plant, law or integrator name that is not registered.
	ErrUnknownComponent = errors.New("dynamo: unknown component")
)

// SimulationError wraps an error with the tick it happened on.
type SimulationError struct {
	Tick    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %s", e.Tick, e.Time, e.Wrapped.Error())
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
