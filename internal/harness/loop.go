package harness

import (
	"context"
	"fmt"

	"github.com/san-kum/autopilot/internal/dynamo"
	"github.com/san-kum/autopilot/internal/ui"
)

type Loop[S, C any] struct {
	sys        dynamo.System
	integrator dynamo.Integrator
	law        dynamo.Law[S, C]
	binding    Binding[S, C]
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

func New[S, C any](sys dynamo.System, integrator dynamo.Integrator, law dynamo.Law[S, C], binding Binding[S, C]) *Loop[S, C] {
	return &Loop[S, C]{
		sys:        sys,
		integrator: integrator,
		law:        law,
		binding:    binding,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (l *Loop[S, C]) AddMetric(m dynamo.Metric)     { l.metrics = append(l.metrics, m) }
func (l *Loop[S, C]) AddObserver(o dynamo.Observer) { l.observers = append(l.observers, o) }

// Law returns the law the loop evaluates.
func (l *Loop[S, C]) Law() dynamo.Law[S, C] {
	return l.law
}

// Start resets the metrics and opens a session at tick 0. Only cfg.Dt and
// cfg.ValidateState are consulted; with ValidateState set a non-finite x0 is
// rejected with a *dynamo.SimulationError before the law sees it.
func (l *Loop[S, C]) Start(x0 dynamo.State, cfg Config) (*Session[S, C], error) {
	if !(cfg.Dt > 0) {
		return nil, fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, dynamo.ErrParameterBounds)
	}
	if len(x0) != l.sys.StateDim() {
		return nil, fmt.Errorf("initial state has %d entries, plant expects %d: %w", len(x0), l.sys.StateDim(), dynamo.ErrDimensionMismatch)
	}
	if cfg.ValidateState && !x0.IsValid() {
		return nil, &dynamo.SimulationError{
			Tick:    0,
			Time:    0,
			State:   x0.Clone(),
			Wrapped: dynamo.ErrInvalidState,
		}
	}
	for _, m := range l.metrics {
		m.Reset()
	}
	return &Session[S, C]{loop: l, x: x0.Clone(), dt: cfg.Dt}, nil
}

// Run drives the law for cfg.Steps() ticks, or until ctx is done.
//
// A non-finite plant state ends the run early; the result then carries a
// *dynamo.SimulationError and Run itself returns nil.
func (l *Loop[S, C]) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	session, err := l.Start(x0, cfg)
	if err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	result := &Result{
		States:   make([]dynamo.State, 0, steps+1),
		Controls: make([]dynamo.Control, 0, steps),
		Times:    make([]float64, 0, steps+1),
		Ticks:    make([]int, 0, steps),
		Metrics:  make(map[string]float64),
		Errors:   make([]error, 0),
	}
	result.States = append(result.States, session.State())
	result.Times = append(result.Times, 0)

	pace := newPacer(cfg)
	defer pace.stop()

	for i := 0; i < steps; i++ {
		if err := pace.wait(ctx); err != nil {
			l.collect(result)
			return result, err
		}

		sample, err := session.Step(cfg.ValidateState)
		if err != nil {
			ui.Warning("run stopped: %v", err)
			result.Errors = append(result.Errors, err)
			break
		}

		result.StepsTaken++
		result.States = append(result.States, session.State())
		result.Controls = append(result.Controls, sample.Control)
		result.Times = append(result.Times, session.Time())
		result.Ticks = append(result.Ticks, sample.Tick)
	}

	l.collect(result)
	ui.Debug("run finished after %d ticks", result.StepsTaken)
	return result, nil
}

// Stream drives the law until ctx is done, fn returns false, or the
// configured duration elapses. A Duration of zero streams without end.
func (l *Loop[S, C]) Stream(ctx context.Context, x0 dynamo.State, cfg Config, fn func(Sample) bool) error {
	session, err := l.Start(x0, cfg)
	if err != nil {
		return err
	}

	steps := -1
	if cfg.Duration > 0 {
		steps = cfg.Steps()
	}

	pace := newPacer(cfg)
	defer pace.stop()

	for i := 0; steps < 0 || i < steps; i++ {
		if err := pace.wait(ctx); err != nil {
			return err
		}
		sample, err := session.Step(cfg.ValidateState)
		if err != nil {
			return err
		}
		if !fn(sample) {
			return nil
		}
	}
	return nil
}

func (l *Loop[S, C]) collect(result *Result) {
	for _, m := range l.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
