package control

import "github.com/san-kum/autopilot/internal/dynamo"

// Guard routes ticks whose input fails the finite check to a fallback law.
//
// On a fallback tick the primary law is not called, so a stateful primary
// does not see that tick at all.
type Guard[S, C any] struct {
	primary  dynamo.Law[S, C]
	fallback dynamo.Law[S, C]
	finite   func(S) bool
	trips    int
}

func NewGuard[S, C any](primary, fallback dynamo.Law[S, C], finite func(S) bool) *Guard[S, C] {
	return &Guard[S, C]{primary: primary, fallback: fallback, finite: finite}
}

func (g *Guard[S, C]) Evaluate(s S) C {
	if !g.finite(s) {
		g.trips++
		return g.fallback.Evaluate(s)
	}
	return g.primary.Evaluate(s)
}

// Unwrap returns the primary law.
func (g *Guard[S, C]) Unwrap() any {
	return g.primary
}

// Trips counts the ticks served by the fallback.
func (g *Guard[S, C]) Trips() int {
	return g.trips
}
