package harness

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/autopilot/internal/dynamo"
)

type Config struct {
	Dt       float64
	Duration float64

	// Realtime paces ticks at Dt of wall time.
	Realtime bool

	// ValidateState stops the run on the first non-finite plant state.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		ValidateState: true,
	}
}

func (c Config) Validate() error {
	if !(c.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f: %w", c.Dt, dynamo.ErrParameterBounds)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f: %w", c.Duration, dynamo.ErrParameterBounds)
	}
	return nil
}

// Steps is the number of ticks that fit in Duration.
func (c Config) Steps() int {
	return int(math.Round(c.Duration / c.Dt))
}

// Period is Dt as wall-clock time.
func (c Config) Period() time.Duration {
	return time.Duration(c.Dt * float64(time.Second))
}

// Sample is the record of one tick.
type Sample struct {
	Tick    int
	Time    float64
	State   dynamo.State
	Control dynamo.Control
}

type Result struct {
	States     []dynamo.State
	Controls   []dynamo.Control
	Times      []float64
	Ticks      []int
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Final returns the last recorded plant state.
func (r *Result) Final() dynamo.State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}
