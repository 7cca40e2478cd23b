package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/autopilot/internal/dynamo"
	"github.com/san-kum/autopilot/internal/experiment"
)

// Candidate is one point of the grid and the metric it scored.
type Candidate struct {
	Params map[string]float64
	Score  float64
	// Failed is set when the run could not be built or left the finite range.
	Failed bool
}

// BuildFunc builds an experiment for one set of parameters.
type BuildFunc func(params map[string]float64) (*experiment.Experiment, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameter names for %d ranges: %w", len(params), len(ranges), dynamo.ErrDimensionMismatch)
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("parameter %s has no values: %w", params[i], dynamo.ErrParameterBounds)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges, workers: defaultWorkers()}, nil
}

// WithWorkers caps the number of runs flown at once.
func (g *GridSearch) WithWorkers(n int) *GridSearch {
	if n >= 1 {
		g.workers = n
	}
	return g
}

// Points enumerates the full grid in row-major order.
func (g *GridSearch) Points() []map[string]float64 {
	points := []map[string]float64{{}}
	for depth, name := range g.paramNames {
		next := make([]map[string]float64, 0, len(points)*len(g.ranges[depth]))
		for _, p := range points {
			for _, val := range g.ranges[depth] {
				np := make(map[string]float64, len(p)+1)
				for k, v := range p {
					np[k] = v
				}
				np[name] = val
				next = append(next, np)
			}
		}
		points = next
	}
	return points
}

// Search flies every grid point and returns all candidates, best first.
// Lower scores are better; failed runs sort last.
func (g *GridSearch) Search(ctx context.Context, build BuildFunc, metricName string) ([]Candidate, error) {
	points := g.Points()
	candidates := make([]Candidate, len(points))

	parallelFor(len(points), g.workers, func(start, end int) {
		for i := start; i < end; i++ {
			candidates[i] = evaluate(ctx, build, points[i], metricName)
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Failed != candidates[j].Failed {
			return !candidates[i].Failed
		}
		return candidates[i].Score < candidates[j].Score
	})

	if len(candidates) == 0 || candidates[0].Failed {
		return candidates, fmt.Errorf("no grid point completed a run")
	}
	return candidates, nil
}

func evaluate(ctx context.Context, build BuildFunc, params map[string]float64, metricName string) Candidate {
	failed := Candidate{Params: params, Score: math.Inf(1), Failed: true}

	exp, err := build(params)
	if err != nil {
		return failed
	}
	result, err := exp.Run(ctx)
	if err != nil || len(result.Errors) > 0 {
		return failed
	}
	val, ok := result.Metrics[metricName]
	if !ok || math.IsNaN(val) {
		return failed
	}
	return Candidate{Params: params, Score: val}
}
