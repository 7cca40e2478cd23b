package control

import (
	"sync"

	"github.com/san-kum/autopilot/internal/dynamo"
)

// Synchronized serializes Evaluate calls on a shared law.
//
// It only prevents data races on the law's accumulator; callers remain
// responsible for presenting ticks in order.
type Synchronized[S, C any] struct {
	mu  sync.Mutex
	law dynamo.Law[S, C]
}

func NewSynchronized[S, C any](law dynamo.Law[S, C]) *Synchronized[S, C] {
	return &Synchronized[S, C]{law: law}
}

// Unwrap returns the wrapped law. Calling it directly bypasses the lock.
func (s *Synchronized[S, C]) Unwrap() any {
	return s.law
}

func (s *Synchronized[S, C]) Evaluate(in S) C {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.law.Evaluate(in)
}
