package experiment

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/san-kum/autopilot/internal/config"
	"github.com/san-kum/autopilot/internal/control"
	"github.com/san-kum/autopilot/internal/dynamo"
	"github.com/san-kum/autopilot/internal/integrators"
	"github.com/san-kum/autopilot/internal/metrics"
	"github.com/san-kum/autopilot/internal/physics"
	"github.com/san-kum/autopilot/internal/state"
)

// Kind tells which state/command shapes a plant exchanges with its law.
type Kind int

const (
	KindAxis Kind = iota
	KindVehicle
)

func (k Kind) String() string {
	switch k {
	case KindAxis:
		return "axis"
	case KindVehicle:
		return "vehicle"
	default:
		return "unknown"
	}
}

type (
	AxisLaw    = dynamo.Law[state.Axis, state.Force]
	VehicleLaw = dynamo.Law[state.Vehicle, state.Surfaces]
)

type plantEntry struct {
	kind Kind
	new  func() (dynamo.System, error)
}

type Registry struct {
	plants      map[string]plantEntry
	integrators map[string]func() dynamo.Integrator
	axisLaws    map[string]func(*config.Config) (AxisLaw, error)
	vehicleLaws map[string]func(*config.Config) (VehicleLaw, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		plants:      make(map[string]plantEntry),
		integrators: make(map[string]func() dynamo.Integrator),
		axisLaws:    make(map[string]func(*config.Config) (AxisLaw, error)),
		vehicleLaws: make(map[string]func(*config.Config) (VehicleLaw, error)),
	}

	r.plants["axis"] = plantEntry{KindAxis, func() (dynamo.System, error) { return physics.NewAxis(2) }}
	r.plants["axis3"] = plantEntry{KindAxis, func() (dynamo.System, error) { return physics.NewAxis(3) }}
	r.plants["airframe"] = plantEntry{KindVehicle, func() (dynamo.System, error) { return physics.NewAirframe(), nil }}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["midpoint"] = func() dynamo.Integrator { return integrators.NewMidpoint() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }

	r.axisLaws["pid"] = func(cfg *config.Config) (AxisLaw, error) {
		return control.NewPID(cfg.PID)
	}
	r.axisLaws["pid-guarded"] = func(cfg *config.Config) (AxisLaw, error) {
		pid, err := control.NewPID(cfg.PID)
		if err != nil {
			return nil, err
		}
		return control.NewGuard[state.Axis, state.Force](pid, control.NewHold(), state.Axis.IsFinite), nil
	}
	r.axisLaws["feedback"] = func(cfg *config.Config) (AxisLaw, error) {
		return control.NewStateFeedback(cfg.Feedback.KPos, cfg.Feedback.KVel), nil
	}
	r.axisLaws["hold"] = func(cfg *config.Config) (AxisLaw, error) {
		return control.NewHold(), nil
	}
	r.axisLaws["manual"] = func(cfg *config.Config) (AxisLaw, error) {
		return control.NewManual[state.Axis](state.Force{}), nil
	}

	r.vehicleLaws["trim"] = func(cfg *config.Config) (VehicleLaw, error) {
		return control.NewTrim(), nil
	}
	r.vehicleLaws["trim-saturated"] = func(cfg *config.Config) (VehicleLaw, error) {
		return control.NewSaturated(control.NewTrim(), cfg.Limits)
	}
	r.vehicleLaws["manual"] = func(cfg *config.Config) (VehicleLaw, error) {
		return control.NewManual[state.Vehicle](control.TrimSurfaces), nil
	}

	return r
}

func (r *Registry) GetPlant(name string) (dynamo.System, Kind, error) {
	entry, ok := r.plants[name]
	if !ok {
		return nil, 0, fmt.Errorf("plant %q: %w", name, dynamo.ErrUnknownComponent)
	}
	sys, err := entry.new()
	return sys, entry.kind, err
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("integrator %q: %w", name, dynamo.ErrUnknownComponent)
	}
	return fn(), nil
}

func (r *Registry) GetAxisLaw(name string, cfg *config.Config) (AxisLaw, error) {
	fn, ok := r.axisLaws[name]
	if !ok {
		return nil, fmt.Errorf("axis law %q: %w", name, dynamo.ErrUnknownComponent)
	}
	return fn(cfg)
}

func (r *Registry) GetVehicleLaw(name string, cfg *config.Config) (VehicleLaw, error) {
	fn, ok := r.vehicleLaws[name]
	if !ok {
		return nil, fmt.Errorf("vehicle law %q: %w", name, dynamo.ErrUnknownComponent)
	}
	return fn(cfg)
}

func (r *Registry) ListPlants() []string {
	names := maps.Keys(r.plants)
	slices.Sort(names)
	return names
}

func (r *Registry) ListIntegrators() []string {
	names := maps.Keys(r.integrators)
	slices.Sort(names)
	return names
}

// ListLaws returns the laws that can fly the named plant.
func (r *Registry) ListLaws(plant string) []string {
	entry, ok := r.plants[plant]
	if !ok {
		return nil
	}
	var names []string
	if entry.kind == KindAxis {
		names = maps.Keys(r.axisLaws)
	} else {
		names = maps.Keys(r.vehicleLaws)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) DefaultMetrics(sys dynamo.System, kind Kind) []dynamo.Metric {
	ms := []dynamo.Metric{metrics.NewPeakControl(metrics.DefaultPeakWindow)}
	if kind == KindAxis {
		ms = append(ms, metrics.NewControlEffort())
	} else {
		// throttle sits near trim and would swamp the surface deflections
		ms = append(ms, metrics.NewWeightedControlEffort(1, 1, 1, 0))
	}
	if kind == KindAxis {
		ms = append(ms,
			metrics.NewAbsError(0),
			metrics.NewStability(10.0),
			metrics.NewEnergy(sys),
		)
	} else {
		ms = append(ms, metrics.NewStability(1e4))
	}
	return ms
}
