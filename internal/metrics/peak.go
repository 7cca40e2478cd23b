package metrics

import (
	"math"

	"github.com/asecurityteam/rolling"

	"github.com/san-kum/autopilot/internal/dynamo"
)

// DefaultPeakWindow is the number of recent ticks PeakControl looks at.
const DefaultPeakWindow = 100

// PeakControl is the largest absolute command seen over the last size ticks.
type PeakControl struct {
	name   string
	size   int
	window *rolling.PointPolicy
}

func NewPeakControl(size int) *PeakControl {
	if size < 1 {
		size = DefaultPeakWindow
	}
	return &PeakControl{
		name:   "peak_control",
		size:   size,
		window: rolling.NewPointPolicy(rolling.NewWindow(size)),
	}
}

func (p *PeakControl) Name() string { return p.name }

func (p *PeakControl) Observe(x dynamo.State, u dynamo.Control, t float64) {
	peak := 0.0
	for _, val := range u {
		peak = math.Max(peak, math.Abs(val))
	}
	p.window.Append(peak)
}

func (p *PeakControl) Value() float64 {
	return p.window.Reduce(rolling.Max)
}

func (p *PeakControl) Reset() {
	p.window = rolling.NewPointPolicy(rolling.NewWindow(p.size))
}
