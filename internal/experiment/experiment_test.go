package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/autopilot/internal/config"
	"github.com/san-kum/autopilot/internal/control"
	"github.com/san-kum/autopilot/internal/dynamo"
	"github.com/san-kum/autopilot/internal/harness"
	"github.com/san-kum/autopilot/internal/state"
)

func TestRegistry_Lists(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, []string{"airframe", "axis", "axis3"}, r.ListPlants())
	assert.Equal(t, []string{"euler", "midpoint", "rk4"}, r.ListIntegrators())
	assert.Equal(t, []string{"feedback", "hold", "manual", "pid", "pid-guarded"}, r.ListLaws("axis"))
	assert.Equal(t, []string{"manual", "trim", "trim-saturated"}, r.ListLaws("airframe"))
	assert.Nil(t, r.ListLaws("nonexistent"))
}

func TestRegistry_UnknownComponents(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"plant", func(c *config.Config) { c.Plant = "blimp" }},
		{"integrator", func(c *config.Config) { c.Integrator = "leapfrog" }},
		{"axis law", func(c *config.Config) { c.Law = "lqr" }},
		{"vehicle law on axis", func(c *config.Config) { c.Law = "trim" }},
		{"axis law on airframe", func(c *config.Config) { c.Plant = "airframe"; c.Law = "pid" }},
	}

	r := NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)

			_, err := r.Build(cfg)

			assert.True(t, errors.Is(err, dynamo.ErrUnknownComponent), "got %v", err)
		})
	}
}

func TestBuild_RejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PID.ResetPeriod = 0

	_, err := NewRegistry().Build(cfg)

	assert.True(t, errors.Is(err, dynamo.ErrParameterBounds))
}

func TestRun_DefaultPIDScenario(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Duration = 0.02

	e, err := NewRegistry().Build(cfg)
	require.NoError(t, err)

	result, err := e.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Controls, 2)
	assert.InDelta(t, -14.01, result.Controls[0][0], 1e-9)
	assert.Contains(t, result.Metrics, "control_effort")
	assert.Contains(t, result.Metrics, "peak_control")
	assert.Contains(t, result.Metrics, "abs_error")
}

func TestRun_RejectsNonFiniteInitialState(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.InitState.Position = math.NaN()

	e, err := NewRegistry().Build(cfg)
	require.NoError(t, err)

	result, err := e.Run(context.Background())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, dynamo.ErrInvalidState)

	_, err = e.Start()
	assert.ErrorIs(t, err, dynamo.ErrInvalidState)
}

func TestRun_ForceLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Duration = 0.5
	cfg.ForceLimit = &state.Range{Min: -3, Max: 3}

	e, err := NewRegistry().Build(cfg)
	require.NoError(t, err)

	result, err := e.Run(context.Background())
	require.NoError(t, err)

	for _, u := range result.Controls {
		assert.LessOrEqual(t, math.Abs(u[0]), 3.0)
	}
	assert.Equal(t, 3.0, result.Metrics["peak_control"])
}

func TestRun_AirframeTrimSaturated(t *testing.T) {
	cfg := config.GetPreset("airframe", "upset")
	require.NotNil(t, cfg)
	cfg.Duration = 1

	e, err := NewRegistry().Build(cfg)
	require.NoError(t, err)
	assert.Equal(t, KindVehicle, e.Kind())

	result, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Errors)
	assert.Equal(t, control.TrimSurfaces.Vector(), result.Controls[0])
}

func TestStart_StepsOneTickAtATime(t *testing.T) {
	e, err := NewRegistry().Build(config.DefaultConfig())
	require.NoError(t, err)

	session, err := e.Start()
	require.NoError(t, err)

	sample, err := session.Step(true)
	require.NoError(t, err)

	assert.Equal(t, 0, sample.Tick)
	assert.Equal(t, 1, session.Tick())
}

func TestStream_Observer(t *testing.T) {
	e, err := NewRegistry().Build(config.DefaultConfig())
	require.NoError(t, err)

	var ticks int
	e.AddObserver(observerFunc(func(int, dynamo.State, dynamo.Control, float64) { ticks++ }))

	err = e.Stream(context.Background(), func(s harness.Sample) bool { return s.Tick < 9 })

	require.NoError(t, err)
	assert.Equal(t, 10, ticks)
}

func TestInfo_CarriesLawParams(t *testing.T) {
	e, err := NewRegistry().Build(config.DefaultConfig())
	require.NoError(t, err)

	info := e.Info()

	assert.Equal(t, "pid", info.Law)
	assert.Equal(t, control.DefaultKp, info.Params["Kp"])
	_, isPID := e.Law().(*control.PID)
	assert.True(t, isPID)
}

func TestInfo_LooksThroughGuard(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Law = "pid-guarded"
	e, err := NewRegistry().Build(cfg)
	require.NoError(t, err)

	assert.Equal(t, control.DefaultKd, e.Info().Params["Kd"])
}

type observerFunc func(tick int, x dynamo.State, u dynamo.Control, t float64)

func (f observerFunc) OnTick(tick int, x dynamo.State, u dynamo.Control, t float64) {
	f(tick, x, u, t)
}
