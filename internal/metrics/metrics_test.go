package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/san-kum/autopilot/internal/dynamo"
	"github.com/san-kum/autopilot/internal/physics"
)

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	assert.Equal(t, 0.0, m.Value())

	m.Observe(nil, dynamo.Control{-2, 1}, 0)
	m.Observe(nil, dynamo.Control{1, 0}, 0)

	assert.Equal(t, 2.0, m.Value())

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
}

func TestControlEffort_Weighted(t *testing.T) {
	m := NewWeightedControlEffort(1, 1, 1, 0)

	m.Observe(nil, dynamo.Control{0.5, -0.25, 0, 0.9}, 0)
	m.Observe(nil, dynamo.Control{0, -0.25, 0.5, 0.1}, 0)

	assert.InDelta(t, 0.75, m.Value(), 1e-12)
}

func TestControlEffort_SkipsNonFiniteCommands(t *testing.T) {
	m := NewControlEffort()

	m.Observe(nil, dynamo.Control{math.NaN()}, 0)
	assert.True(t, math.IsNaN(m.Value()))

	m.Observe(nil, dynamo.Control{-3}, 0)
	m.Observe(nil, dynamo.Control{math.Inf(1)}, 0)

	assert.Equal(t, 3.0, m.Value())
	assert.Equal(t, 2, m.Skipped())

	m.Reset()
	assert.Equal(t, 0, m.Skipped())
	assert.Equal(t, 0.0, m.Value())
}

func TestStability(t *testing.T) {
	m := NewStability(10)
	assert.Equal(t, 1.0, m.Value())

	m.Observe(dynamo.State{1, 2}, nil, 0)
	m.Observe(dynamo.State{1, 20}, nil, 0)
	m.Observe(dynamo.State{math.NaN(), 0}, nil, 0)
	m.Observe(dynamo.State{0, 0}, nil, 0)

	assert.Equal(t, 0.5, m.Value())
}

func TestAbsError(t *testing.T) {
	m := NewAbsError(0)

	m.Observe(dynamo.State{-1, 5}, nil, 0)
	m.Observe(dynamo.State{3, 5}, nil, 0)
	m.Observe(dynamo.State{}, nil, 0)

	assert.Equal(t, 2.0, m.Value())
}

func TestEnergy(t *testing.T) {
	axis, err := physics.NewAxis(2)
	assert.NoError(t, err)
	m := NewEnergy(axis)

	m.Observe(dynamo.State{0, 2}, nil, 0)
	assert.Equal(t, 2.0, m.Value())

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
}

func TestEnergy_PlantWithoutEnergy(t *testing.T) {
	m := NewEnergy(physics.NewAirframe())

	m.Observe(make(dynamo.State, 12), nil, 0)

	assert.Equal(t, 0.0, m.Value())
}

func TestPeakControl(t *testing.T) {
	m := NewPeakControl(3)

	m.Observe(nil, dynamo.Control{-9}, 0)
	assert.Equal(t, 9.0, m.Value())

	m.Observe(nil, dynamo.Control{1}, 0)
	m.Observe(nil, dynamo.Control{2}, 0)
	m.Observe(nil, dynamo.Control{0.5}, 0)

	// -9 has left the window
	assert.Equal(t, 2.0, m.Value())

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
}

func TestPeakControl_DefaultWindow(t *testing.T) {
	m := NewPeakControl(0)
	assert.Equal(t, DefaultPeakWindow, m.size)
}
