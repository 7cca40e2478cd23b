package harness

import (
	"context"
	"sync"

	"github.com/san-kum/autopilot/internal/dynamo"
)

// Ensemble runs one independent loop per initial state, e.g. one per
// simulated vehicle. Every run gets a fresh law and integrator, so no
// accumulator is ever shared.
type Ensemble[S, C any] struct {
	sys           dynamo.System
	newIntegrator func() dynamo.Integrator
	newLaw        func() dynamo.Law[S, C]
	binding       Binding[S, C]
}

func NewEnsemble[S, C any](sys dynamo.System, newIntegrator func() dynamo.Integrator, newLaw func() dynamo.Law[S, C], binding Binding[S, C]) *Ensemble[S, C] {
	return &Ensemble[S, C]{
		sys:           sys,
		newIntegrator: newIntegrator,
		newLaw:        newLaw,
		binding:       binding,
	}
}

func (e *Ensemble[S, C]) Run(ctx context.Context, initial []dynamo.State, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(initial))
	errs := make([]error, len(initial))

	var wg sync.WaitGroup
	for i := range initial {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			loop := New(e.sys, e.newIntegrator(), e.newLaw(), e.binding)
			results[idx], errs[idx] = loop.Run(ctx, initial[idx], cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
