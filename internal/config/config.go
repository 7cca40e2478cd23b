package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/autopilot/internal/control"
	"github.com/san-kum/autopilot/internal/dynamo"
	"github.com/san-kum/autopilot/internal/state"
)

const (
	DefaultDt             = 0.01
	DefaultDuration       = 10.0
	DefaultPosition       = 2.0
	DefaultStatisticsPort = 9000
)

type Config struct {
	Plant      string              `yaml:"plant"`
	Law        string              `yaml:"law"`
	Integrator string              `yaml:"integrator"`
	Dt         float64             `yaml:"dt"`
	Duration   float64             `yaml:"duration"`
	Realtime   bool                `yaml:"realtime"`
	InitState  InitStateConfig     `yaml:"init_state"`
	PID        control.PIDConfig   `yaml:"pid"`
	Feedback   FeedbackConfig      `yaml:"feedback"`
	Limits     state.SurfaceLimits `yaml:"limits"`
	// ForceLimit clamps the axis command when set.
	ForceLimit *state.Range     `yaml:"force_limit,omitempty"`
	Statistics StatisticsConfig `yaml:"statistics"`
}

type InitStateConfig struct {
	Position     float64       `yaml:"position"`
	Velocity     float64       `yaml:"velocity"`
	Acceleration float64       `yaml:"acceleration"`
	Vehicle      state.Vehicle `yaml:"vehicle"`
}

type FeedbackConfig struct {
	KPos float64 `yaml:"k_pos"`
	KVel float64 `yaml:"k_vel"`
}

type StatisticsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

func DefaultConfig() *Config {
	return &Config{
		Plant:      "axis",
		Law:        "pid",
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		InitState: InitStateConfig{
			Position: DefaultPosition,
		},
		PID: control.DefaultPIDConfig(),
		Feedback: FeedbackConfig{
			KPos: control.DefaultFeedbackKPos,
			KVel: control.DefaultFeedbackKVel,
		},
		Limits: state.DefaultSurfaceLimits(),
		Statistics: StatisticsConfig{
			Port: DefaultStatisticsPort,
		},
	}
}

// Load reads a YAML file on top of DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

// Validate checks the numeric fields. Component names are resolved by the
// experiment registry.
func (c *Config) Validate() error {
	if !(c.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f: %w", c.Dt, dynamo.ErrParameterBounds)
	}
	if !(c.Duration >= 0) {
		return fmt.Errorf("duration must not be negative, got %f: %w", c.Duration, dynamo.ErrParameterBounds)
	}
	if err := c.PID.Validate(); err != nil {
		return fmt.Errorf("pid: %w", err)
	}
	if err := c.Limits.Validate(); err != nil {
		return fmt.Errorf("limits: %w", err)
	}
	if c.ForceLimit != nil && c.ForceLimit.Min > c.ForceLimit.Max {
		return fmt.Errorf("force_limit min %.3f exceeds max %.3f: %w", c.ForceLimit.Min, c.ForceLimit.Max, dynamo.ErrParameterBounds)
	}
	if c.Statistics.Port < 0 || c.Statistics.Port > 65535 {
		return fmt.Errorf("statistics port %d out of range: %w", c.Statistics.Port, dynamo.ErrParameterBounds)
	}
	return nil
}

// GetInitState builds the initial plant vector for the configured plant, or
// nil if the plant is unknown.
func (c *Config) GetInitState() dynamo.State {
	switch c.Plant {
	case "axis":
		return dynamo.State{c.InitState.Position, c.InitState.Velocity}
	case "axis3":
		return dynamo.State{c.InitState.Position, c.InitState.Velocity, c.InitState.Acceleration}
	case "airframe":
		return c.InitState.Vehicle.Vector()
	default:
		return nil
	}
}
