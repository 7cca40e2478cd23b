package optim

import (
	"github.com/qdm12/reprint"
	"github.com/san-kum/autopilot/internal/config"
	"github.com/san-kum/autopilot/internal/experiment"
)

// PID gain names understood by PIDBuilder.
const (
	ParamKp = "kp"
	ParamKd = "kd"
	ParamKi = "ki"
)

// PIDBuilder returns a BuildFunc that flies base with its PID gains replaced
// by the grid point. Gains missing from the point keep their base value.
func PIDBuilder(registry *experiment.Registry, base *config.Config) BuildFunc {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := reprint.This(base).(*config.Config)
		cfg.Realtime = false
		if v, ok := params[ParamKp]; ok {
			cfg.PID.Kp = v
		}
		if v, ok := params[ParamKd]; ok {
			cfg.PID.Kd = v
		}
		if v, ok := params[ParamKi]; ok {
			cfg.PID.Ki = v
		}
		return registry.Build(cfg)
	}
}
