package lazy

import (
	"sync"
	"sync/atomic"
)

// ValueWithError is a lazily-initialized value whose constructor can fail.
//
// The constructor succeeds at most once. After the first successful Load every
// caller receives the identical value and the constructor is never invoked
// again. While a construction is in flight, concurrent callers block until it
// finishes. If it fails, the holder stays empty: the caller that ran the
// constructor gets the error, and each blocked caller retries the
// construction in turn rather than observing a zero value or a stale error.
type ValueWithError[T any] struct {
	mu     sync.Mutex
	done   atomic.Bool
	fn     func() (T, error)
	cached T
}

// NewWithError returns an empty holder that builds its value with fn.
func NewWithError[T any](fn func() (T, error)) *ValueWithError[T] {
	return &ValueWithError[T]{fn: fn}
}

// Load returns the value, constructing it if necessary.
func (v *ValueWithError[T]) Load() (T, error) {
	// done is set after cached, inside the critical section, so a fast-path
	// read that observes it is guaranteed to see the fully-written value.
	if v.done.Load() {
		return v.cached, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.done.Load() {
		return v.cached, nil
	}

	value, err := v.fn()
	if err != nil {
		var zero T
		return zero, err
	}
	v.cached = value
	v.done.Store(true)
	v.fn = nil
	return v.cached, nil
}
