package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	perrors "github.com/jmgilman/go/errors"
	"golang.org/x/sync/singleflight"
)

// ErrClosed is returned by mutating calls on a closed Synchronized cache.
var ErrClosed = perrors.New(perrors.CodeConflict, "cache is closed")

// SyncConfig controls the background behavior of a Synchronized cache.
//
//   - ReportInterval <= 0 disables the periodic diagnostics report
//   - Logger nil discards reports
type SyncConfig struct {
	ReportInterval time.Duration
	Logger         *slog.Logger
}

// Synchronized makes a Cache safe for concurrent use by putting the whole
// cache behind one mutex. Get reorders the recency list and Put may grow
// the index, so even reads take the exclusive lock.
//
// Ownership model:
// Synchronized owns its reporting goroutine. Call Close to stop it.
type Synchronized[K comparable, V any] struct {
	mu    sync.Mutex
	cache *Cache[K, V]

	// Collapses concurrent TryGet misses on the same key.
	flights singleflight.Group

	// Goroutine ownership.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	reportEvery time.Duration
	logger      *slog.Logger
	closed      bool
}

// NewSynchronized wraps c and starts background reporting (if enabled).
// The caller must not use c directly afterwards.
//
// NewSynchronized never returns nil.
func NewSynchronized[K comparable, V any](c *Cache[K, V], cfg SyncConfig) *Synchronized[K, V] {
	ctx, cancel := context.WithCancel(context.Background())

	logger := cfg.Logger
	if logger == nil {
		logger = discardLogger()
	}

	s := &Synchronized[K, V]{
		cache:       c,
		ctx:         ctx,
		cancel:      cancel,
		reportEvery: cfg.ReportInterval,
		logger:      logger,
	}

	if s.reportEvery > 0 {
		s.wg.Add(1)
		go s.reportLoop()
	}

	return s
}

// Close stops background goroutines and prevents further mutation.
//
// Close is safe to call multiple times.
func (s *Synchronized[K, V]) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	cancel := s.cancel
	s.mu.Unlock()

	// Cancel outside the lock so a report in progress can finish.
	cancel()
	s.wg.Wait()
	return nil
}

// Get returns the value for key and marks it most recently used. Because it
// reorders entries, it fails with ErrClosed after Close.
func (s *Synchronized[K, V]) Get(key K) (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		var zero V
		return zero, ErrClosed
	}
	return s.cache.Get(key)
}

// Put stores value under key.
func (s *Synchronized[K, V]) Put(key K, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return s.cache.Put(key, value)
}

// Remove deletes key.
func (s *Synchronized[K, V]) Remove(key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return s.cache.Remove(key)
}

// Contains reports whether key is cached without touching it.
func (s *Synchronized[K, V]) Contains(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Contains(key)
}

// Len returns the number of cached entries.
func (s *Synchronized[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

// PeekMRU returns the most recently used value without touching it.
func (s *Synchronized[K, V]) PeekMRU() (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.PeekMRU()
}

// PeekLRU returns the least recently used value without touching it.
func (s *Synchronized[K, V]) PeekLRU() (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.PeekLRU()
}

// Keys returns keys in MRU -> LRU order.
func (s *Synchronized[K, V]) Keys() []K {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]K, 0, s.cache.Len())
	for k := range s.cache.Keys() {
		out = append(out, k)
	}
	return out
}

// Snapshot returns an unsynchronized copy of the cache, order included.
func (s *Synchronized[K, V]) Snapshot() *Cache[K, V] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Copy()
}

// Stats returns the wrapped cache's counters.
func (s *Synchronized[K, V]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Stats()
}

// TryGet is the concurrent form of Cache.TryGet. compute runs without the
// lock held, and concurrent misses on the same key share one compute call.
func (s *Synchronized[K, V]) TryGet(key K, compute func() V) (V, error) {
	var zero V

	if v, ok, err := s.hit(key); err != nil || ok {
		return v, err
	}

	res, err, _ := s.flights.Do(flightKey(key), func() (any, error) {
		// A flight that finished between our miss and this call already
		// inserted the key.
		if v, ok, err := s.hit(key); err != nil || ok {
			return v, err
		}

		computed := compute()

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return zero, ErrClosed
		}
		return s.cache.TryGet(key, func() V { return computed })
	})
	if err != nil {
		return zero, err
	}
	return res.(V), nil
}

// hit returns the cached value for key if present, promoting it.
func (s *Synchronized[K, V]) hit(key K) (V, bool, error) {
	var zero V

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return zero, false, ErrClosed
	}
	if !s.cache.Contains(key) {
		return zero, false, nil
	}
	v, err := s.cache.Get(key)
	return v, err == nil, err
}

func flightKey(key any) string {
	return fmt.Sprintf("%T:%#v", key, key)
}
