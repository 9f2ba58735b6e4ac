// Package cache deduplicates expensive loads across concurrent callers.
package cache

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"cdr.dev/slog/v3"

	"github.com/coder/lazy"
)

// Fetcher loads the value for a key. It is invoked at most once per resident
// entry, with the context of the caller that first requested the key. A
// failed fetch does not poison the entry; a later Acquire fetches again.
type Fetcher[K comparable, V any] func(ctx context.Context, key K) (V, error)

// New returns an empty cache that loads values with fetch and registers its
// metrics on reg.
func New[K comparable, V any](log slog.Logger, reg prometheus.Registerer, fetch Fetcher[K, V]) *Cache[K, V] {
	factory := promauto.With(reg)
	return &Cache[K, V]{
		log:   log,
		data:  make(map[K]*entry[V]),
		fetch: fetch,

		entriesCurrent: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "lazy",
			Subsystem: "cache",
			Name:      "entries_current",
			Help:      "Number of entries currently resident in the cache.",
		}),
		entriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lazy",
			Subsystem: "cache",
			Name:      "entries_total",
			Help:      "Total number of entries ever created by the cache.",
		}),
		refsCurrent: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "lazy",
			Subsystem: "cache",
			Name:      "refs_current",
			Help:      "Number of references currently held on cache entries.",
		}),
		acquires: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lazy",
			Subsystem: "cache",
			Name:      "acquires_total",
			Help:      "Total number of Acquire calls, by whether the entry was already resident.",
		}, []string{"hit"}),
	}
}

// Cache hands out refcounted values keyed by K. When any number of callers
// acquires the same key, the value is loaded exactly once and shared. Entries
// stay resident until every reference is released, then the value is dropped
// from the map.
type Cache[K comparable, V any] struct {
	lock  sync.Mutex
	data  map[K]*entry[V]
	fetch Fetcher[K, V]
	log   slog.Logger

	entriesCurrent prometheus.Gauge
	entriesTotal   prometheus.Counter
	refsCurrent    prometheus.Gauge
	acquires       *prometheus.CounterVec
}

type entry[V any] struct {
	refCount atomic.Int64
	value    *lazy.ValueWithError[V]
}

// Acquire takes a reference on the entry for key and loads its value,
// fetching it if absent. Parallel calls for the same key result in one fetch;
// parallel calls for distinct keys fetch in parallel. On fetch failure the
// reference is dropped before returning, so the caller must not Release.
func (c *Cache[K, V]) Acquire(ctx context.Context, key K) (V, error) {
	// It's important that the Load happens outside of prepare, after the map
	// lock has been released. Holding the lock across a fetch would serialize
	// loads of distinct keys behind the slowest one.
	value, err := c.prepare(ctx, key).Load()
	if err != nil {
		c.log.Debug(ctx, "cache fetch failed", slog.F("key", key), slog.Error(err))
		c.Release(key)
		var zero V
		return zero, err
	}
	return value, nil
}

func (c *Cache[K, V]) prepare(ctx context.Context, key K) *lazy.ValueWithError[V] {
	c.lock.Lock()
	defer c.lock.Unlock()

	e, hit := c.data[key]
	if !hit {
		e = &entry[V]{
			value: lazy.NewWithError(func() (V, error) {
				return c.fetch(ctx, key)
			}),
		}
		c.data[key] = e
		c.entriesCurrent.Inc()
		c.entriesTotal.Inc()
	}

	e.refCount.Add(1)
	c.refsCurrent.Inc()
	c.acquires.WithLabelValues(strconv.FormatBool(hit)).Inc()
	return e.value
}

// Release drops one reference on the entry for key, and evicts the entry once
// no further references are held.
func (c *Cache[K, V]) Release(key K) {
	c.lock.Lock()
	defer c.lock.Unlock()

	e, ok := c.data[key]
	if !ok {
		// Releasing a key that is not resident means a reference was
		// double-released or never acquired; there is nothing to unwind.
		return
	}

	c.refsCurrent.Dec()
	if e.refCount.Add(-1) > 0 {
		return
	}

	delete(c.data, key)
	c.entriesCurrent.Dec()
}

// Count returns the number of entries currently resident.
func (c *Cache[K, V]) Count() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.data)
}
