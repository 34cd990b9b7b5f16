package model

import (
	"sync"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
)

// Accumulator owns the observations seen so far and the value fitted on them,
// guarded by a RWMutex so a streaming handle can be shared between goroutines.
type Accumulator[T any] struct {
	mu      sync.RWMutex
	data    []float64
	current T
	fitted  bool
	batches int
}

// NewAccumulator creates an empty Accumulator.
func NewAccumulator[T any]() *Accumulator[T] {
	return &Accumulator[T]{}
}

// IsFitted returns whether at least one batch has been committed.
func (a *Accumulator[T]) IsFitted() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.fitted
}

// RequireFitted returns a NotFittedError naming owner and method before the first commit.
func (a *Accumulator[T]) RequireFitted(owner, method string) error {
	if !a.IsFitted() {
		return errors.NewNotFittedError(owner, method)
	}
	return nil
}

// Current returns the latest fitted value and whether there is one.
func (a *Accumulator[T]) Current() (T, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current, a.fitted
}

// Observations returns a copy of the accumulated observations.
func (a *Accumulator[T]) Observations() []float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]float64, len(a.data))
	copy(out, a.data)
	return out
}

// Batches returns the number of committed batches.
func (a *Accumulator[T]) Batches() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.batches
}

// Apply runs fn with the write lock held. fn receives the current observations
// (nil before the first commit) and returns the observations and fitted value
// to keep. Nothing changes when fn returns an error.
func (a *Accumulator[T]) Apply(fn func(prev []float64, fitted bool) ([]float64, T, error)) (T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next, value, err := fn(a.data, a.fitted)
	if err != nil {
		var zero T
		return zero, err
	}
	a.data = next
	a.current = value
	a.fitted = true
	a.batches++
	return value, nil
}

// Reset drops all observations and the fitted value.
func (a *Accumulator[T]) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	var zero T
	a.data = nil
	a.current = zero
	a.fitted = false
	a.batches = 0
}
