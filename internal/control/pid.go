package control

import (
	"fmt"
	"math"

	"github.com/san-kum/autopilot/internal/dynamo"
	"github.com/san-kum/autopilot/internal/state"
)

const (
	DefaultKp          = 7.0
	DefaultKd          = 3.0
	DefaultKi          = 0.5
	DefaultResetPeriod = 100
	DefaultNominalDt   = 0.01
)

// PIDConfig scopes a PID law. It is fixed for the lifetime of the law.
type PIDConfig struct {
	Kp float64 `yaml:"kp" json:"kp"`
	Kd float64 `yaml:"kd" json:"kd"`
	Ki float64 `yaml:"ki" json:"ki"`

	// ResetPeriod zeroes the integral on every tick where tick % ResetPeriod == 0.
	ResetPeriod int `yaml:"reset_period" json:"reset_period"`

	// NominalDt is the fixed step used to accumulate the integral.
	NominalDt float64 `yaml:"nominal_dt" json:"nominal_dt"`

	// MeasuredDt accumulates with the state's DeltaTime instead of NominalDt.
	MeasuredDt bool `yaml:"measured_dt" json:"measured_dt"`
}

func DefaultPIDConfig() PIDConfig {
	return PIDConfig{
		Kp:          DefaultKp,
		Kd:          DefaultKd,
		Ki:          DefaultKi,
		ResetPeriod: DefaultResetPeriod,
		NominalDt:   DefaultNominalDt,
	}
}

func (c PIDConfig) Validate() error {
	for name, v := range map[string]float64{"kp": c.Kp, "kd": c.Kd, "ki": c.Ki} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("pid gain %s must be finite, got %v: %w", name, v, dynamo.ErrParameterBounds)
		}
	}
	if c.ResetPeriod < 1 {
		return fmt.Errorf("pid reset period must be at least 1, got %d: %w", c.ResetPeriod, dynamo.ErrParameterBounds)
	}
	if !c.MeasuredDt && !(c.NominalDt > 0) {
		return fmt.Errorf("pid nominal dt must be positive, got %v: %w", c.NominalDt, dynamo.ErrParameterBounds)
	}
	return nil
}

// PID regulates an axis toward position zero.
//
// The integral accumulator belongs to the instance; it is reset to exactly
// zero on reset ticks before the tick's contribution is added. Tick 0 is a
// reset tick, so the first call always starts from an empty integral.
//
// PID is not safe for concurrent use.
type PID struct {
	cfg      PIDConfig
	integral float64
}

func NewPID(cfg PIDConfig) (*PID, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &PID{cfg: cfg}, nil
}

func (p *PID) Evaluate(s state.Axis) state.Force {
	if s.Tick%p.cfg.ResetPeriod == 0 {
		p.integral = 0
	}

	dt := p.cfg.NominalDt
	if p.cfg.MeasuredDt {
		dt = s.DeltaTime
	}
	p.integral += s.Position * dt

	force := -(p.cfg.Kp * s.Position) - (p.cfg.Kd * s.Velocity) - (p.cfg.Ki * p.integral)
	return state.Force{Force: force}
}

// Integral returns the accumulator as left by the last Evaluate.
func (p *PID) Integral() float64 {
	return p.integral
}

func (p *PID) Config() PIDConfig {
	return p.cfg
}

// Params returns the gains for display.
func (p *PID) Params() map[string]float64 {
	return map[string]float64{
		"Kp": p.cfg.Kp,
		"Kd": p.cfg.Kd,
		"Ki": p.cfg.Ki,
	}
}
