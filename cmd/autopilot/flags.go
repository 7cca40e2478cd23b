package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/autopilot/internal/config"
	"github.com/san-kum/autopilot/internal/state"
)

// addRunFlags registers the flags shared by every command that flies a plant.
func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("preset", "", "start from a preset (see 'autopilot presets')")
	f.String("law", "", "control law")
	f.String("integrator", "", "integrator (euler, midpoint, rk4)")
	f.Float64("dt", config.DefaultDt, "timestep")
	f.Float64("time", config.DefaultDuration, "duration")
	f.Bool("realtime", false, "pace ticks at dt of wall time")
	f.Float64("pos", 0, "initial position (axis)")
	f.Float64("vel", 0, "initial velocity (axis)")
	f.Float64("phi", 0, "initial roll (airframe)")
	f.Float64("theta", 0, "initial pitch (airframe)")
	f.Float64("kp", 0, "pid proportional gain")
	f.Float64("kd", 0, "pid derivative gain")
	f.Float64("ki", 0, "pid integral gain")
	f.Int("reset-period", 0, "pid integral reset period in ticks")
	f.Bool("measured-dt", false, "integrate with the sampled dt instead of the nominal one")
	f.Float64("force-limit", 0, "clamp the axis force to [-limit, limit]")
}

// loadConfig resolves the run configuration: config file or preset or
// defaults, then the plant argument, then any flag or AUTOPILOT_* variable
// that was explicitly set.
func loadConfig(plant string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case viper.GetString("config") != "":
		loaded, err := config.Load(viper.GetString("config"))
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case viper.GetString("preset") != "":
		cfg = config.GetPreset(plant, viper.GetString("preset"))
		if cfg == nil {
			return nil, fmt.Errorf("no preset %q for plant %q", viper.GetString("preset"), plant)
		}
	default:
		cfg = config.DefaultConfig()
		if plant == "airframe" {
			cfg.Law = "trim"
		}
	}
	if plant != "" {
		cfg.Plant = plant
	}

	setString := func(key string, dst *string) {
		if viper.IsSet(key) {
			*dst = viper.GetString(key)
		}
	}
	setFloat := func(key string, dst *float64) {
		if viper.IsSet(key) {
			*dst = viper.GetFloat64(key)
		}
	}

	setString("law", &cfg.Law)
	setString("integrator", &cfg.Integrator)
	setFloat("dt", &cfg.Dt)
	setFloat("time", &cfg.Duration)
	setFloat("pos", &cfg.InitState.Position)
	setFloat("vel", &cfg.InitState.Velocity)
	setFloat("phi", &cfg.InitState.Vehicle.Phi)
	setFloat("theta", &cfg.InitState.Vehicle.Theta)
	setFloat("kp", &cfg.PID.Kp)
	setFloat("kd", &cfg.PID.Kd)
	setFloat("ki", &cfg.PID.Ki)
	if viper.IsSet("reset-period") {
		cfg.PID.ResetPeriod = viper.GetInt("reset-period")
	}
	if viper.IsSet("measured-dt") {
		cfg.PID.MeasuredDt = viper.GetBool("measured-dt")
	}
	if viper.IsSet("realtime") {
		cfg.Realtime = viper.GetBool("realtime")
	}
	if viper.IsSet("force-limit") {
		limit := viper.GetFloat64("force-limit")
		cfg.ForceLimit = &state.Range{Min: -limit, Max: limit}
	}

	return cfg, cfg.Validate()
}
