// Package lazy provides thread-safe lazy initialization: values that are
// constructed at most once, on first use, no matter how many goroutines race
// to be first.
package lazy

import "sync"

// Value is a value that is computed on first Load and cached for every
// subsequent one. Use NewWithError if the computation can fail.
type Value[T any] struct {
	once   sync.Once
	fn     func() T
	cached T
}

// Load returns the value, computing it if this is the first call. Concurrent
// callers during the computation block until it finishes and then receive the
// same value.
func (v *Value[T]) Load() T {
	v.once.Do(func() {
		v.cached = v.fn()
		v.fn = nil
	})
	return v.cached
}

// New returns a Value that computes itself with fn on first Load.
func New[T any](fn func() T) *Value[T] {
	return &Value[T]{fn: fn}
}
