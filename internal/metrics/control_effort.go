package metrics

import (
	"math"

	"github.com/san-kum/autopilot/internal/dynamo"
)

// ControlEffort is the mean weighted absolute command per tick, summed over
// channels. Ticks whose command is not finite are left out of the mean and
// counted separately, so a guarded loop that recovers still reports the
// effort of the ticks it flew.
type ControlEffort struct {
	name    string
	weights []float64
	sum     float64
	samples int
	skipped int
}

// NewControlEffort weighs every channel equally.
func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

// NewWeightedControlEffort weighs channel i by weights[i]. Channels past the
// end of weights count with weight 1; a zero weight leaves a channel out.
func NewWeightedControlEffort(weights ...float64) *ControlEffort {
	c := NewControlEffort()
	c.weights = append([]float64(nil), weights...)
	return c
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if !u.IsValid() {
		c.skipped++
		return
	}
	for i, val := range u {
		c.sum += c.weight(i) * math.Abs(val)
	}
	c.samples++
}

func (c *ControlEffort) weight(channel int) float64 {
	if channel < len(c.weights) {
		return c.weights[channel]
	}
	return 1
}

// Value is NaN when every observed tick was skipped.
func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		if c.skipped > 0 {
			return math.NaN()
		}
		return 0
	}
	return c.sum / float64(c.samples)
}

// Skipped counts the ticks left out for a non-finite command.
func (c *ControlEffort) Skipped() int {
	return c.skipped
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
	c.skipped = 0
}
