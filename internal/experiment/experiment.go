package experiment

import (
	"context"

	"github.com/san-kum/autopilot/internal/config"
	"github.com/san-kum/autopilot/internal/control"
	"github.com/san-kum/autopilot/internal/dynamo"
	"github.com/san-kum/autopilot/internal/harness"
	"github.com/san-kum/autopilot/internal/state"
	"github.com/san-kum/autopilot/internal/storage"
)

// Stepper advances a run one tick at a time.
type Stepper interface {
	Step(validate bool) (harness.Sample, error)
	Tick() int
	Time() float64
	State() dynamo.State
}

// runner hides the law's state and command types from callers.
type runner interface {
	run(ctx context.Context, x0 dynamo.State, cfg harness.Config) (*harness.Result, error)
	stream(ctx context.Context, x0 dynamo.State, cfg harness.Config, fn func(harness.Sample) bool) error
	start(x0 dynamo.State, cfg harness.Config) (Stepper, error)
	addObserver(o dynamo.Observer)
}

type loopRunner[S, C any] struct {
	loop *harness.Loop[S, C]
}

func (l loopRunner[S, C]) run(ctx context.Context, x0 dynamo.State, cfg harness.Config) (*harness.Result, error) {
	return l.loop.Run(ctx, x0, cfg)
}

func (l loopRunner[S, C]) stream(ctx context.Context, x0 dynamo.State, cfg harness.Config, fn func(harness.Sample) bool) error {
	return l.loop.Stream(ctx, x0, cfg, fn)
}

func (l loopRunner[S, C]) start(x0 dynamo.State, cfg harness.Config) (Stepper, error) {
	return l.loop.Start(x0, cfg)
}

func (l loopRunner[S, C]) addObserver(o dynamo.Observer) {
	l.loop.AddObserver(o)
}

// Experiment is a plant, law and integrator wired from a config.
type Experiment struct {
	cfg    *config.Config
	plant  dynamo.System
	kind   Kind
	law    any
	runner runner
}

// Build resolves every component named in cfg. Unknown names fail with an
// error wrapping dynamo.ErrUnknownComponent.
func (r *Registry) Build(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	plant, kind, err := r.GetPlant(cfg.Plant)
	if err != nil {
		return nil, err
	}
	integ, err := r.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	e := &Experiment{cfg: cfg, plant: plant, kind: kind}

	switch kind {
	case KindAxis:
		law, err := r.GetAxisLaw(cfg.Law, cfg)
		if err != nil {
			return nil, err
		}
		e.law = law
		if cfg.ForceLimit != nil {
			if law, err = control.NewForceLimited(law, *cfg.ForceLimit); err != nil {
				return nil, err
			}
		}
		loop := harness.New(plant, integ, law, harness.AxisBinding())
		for _, m := range r.DefaultMetrics(plant, kind) {
			loop.AddMetric(m)
		}
		e.runner = loopRunner[state.Axis, state.Force]{loop}
	default:
		law, err := r.GetVehicleLaw(cfg.Law, cfg)
		if err != nil {
			return nil, err
		}
		e.law = law
		loop := harness.New(plant, integ, law, harness.VehicleBinding())
		for _, m := range r.DefaultMetrics(plant, kind) {
			loop.AddMetric(m)
		}
		e.runner = loopRunner[state.Vehicle, state.Surfaces]{loop}
	}

	return e, nil
}

func (e *Experiment) harnessConfig() harness.Config {
	return harness.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		Realtime:      e.cfg.Realtime,
		ValidateState: true,
	}
}

// Run flies the configured duration from the configured initial state.
func (e *Experiment) Run(ctx context.Context) (*harness.Result, error) {
	return e.runner.run(ctx, e.cfg.GetInitState(), e.harnessConfig())
}

// Stream flies until ctx is done or fn returns false. A zero duration
// streams without end.
func (e *Experiment) Stream(ctx context.Context, fn func(harness.Sample) bool) error {
	return e.runner.stream(ctx, e.cfg.GetInitState(), e.harnessConfig(), fn)
}

// Start opens a session for tick-by-tick driving.
func (e *Experiment) Start() (Stepper, error) {
	return e.runner.start(e.cfg.GetInitState(), e.harnessConfig())
}

func (e *Experiment) AddObserver(o dynamo.Observer) {
	e.runner.addObserver(o)
}

func (e *Experiment) Config() *config.Config { return e.cfg }
func (e *Experiment) Plant() dynamo.System   { return e.plant }
func (e *Experiment) Kind() Kind             { return e.kind }

// Law returns the law as built by the registry, before any force limit.
func (e *Experiment) Law() any { return e.law }

// Info describes the run for the store.
func (e *Experiment) Info() storage.RunInfo {
	info := storage.RunInfo{
		Plant:      e.cfg.Plant,
		Law:        e.cfg.Law,
		Integrator: e.cfg.Integrator,
		Dt:         e.cfg.Dt,
		Duration:   e.cfg.Duration,
	}
	for law := e.law; law != nil; {
		if p, ok := law.(interface{ Params() map[string]float64 }); ok {
			info.Params = p.Params()
			break
		}
		w, ok := law.(interface{ Unwrap() any })
		if !ok {
			break
		}
		law = w.Unwrap()
	}
	return info
}
