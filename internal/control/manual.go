package control

import "sync"

// Manual returns whatever command was last set on it. It lets an operator
// fly a plant by hand, e.g. from the live view. Set and Evaluate may be
// called from different goroutines.
type Manual[S, C any] struct {
	mu sync.Mutex
	u  C
}

func NewManual[S, C any](initial C) *Manual[S, C] {
	return &Manual[S, C]{u: initial}
}

// Set updates the command returned from the next Evaluate.
func (m *Manual[S, C]) Set(u C) {
	m.mu.Lock()
	m.u = u
	m.mu.Unlock()
}

func (m *Manual[S, C]) Evaluate(S) C {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.u
}
