package cache

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"gocache/internal/errs"
	"gocache/internal/table"
)

// MinCapacity is the smallest capacity New accepts.
const MinCapacity = 2

// Re-exported so callers of this package need not import errs.
var (
	ErrInvalidArgument = errs.ErrInvalidArgument
	ErrNotFound        = errs.ErrNotFound
	ErrEmpty           = errs.ErrEmpty
	ErrNoSuchElement   = errs.ErrNoSuchElement
)

// Stats counts cache traffic since construction.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache is a fixed-capacity key/value store that evicts the least recently
// used entry when full.
//
// Lookups go through a hash table of arena handles; recency is a doubly
// linked list threaded through the arena, head = MRU, tail = LRU. Both
// structures are updated together by every mutating call, and every
// argument check runs before the first mutation.
//
// Get counts as a use and reorders the list. Contains, PeekMRU, PeekLRU and
// the iterators do not.
//
// A Cache is not safe for concurrent use; wrap it in Synchronized.
type Cache[K comparable, V any] struct {
	capacity int
	index    *table.Table[K, handle]
	arena    arena[K, V]
	head     handle // MRU
	tail     handle // LRU

	logger *slog.Logger
	stats  Stats
}

// New creates a cache holding at most capacity entries.
func New[K comparable, V any](capacity int, opts ...Option) (*Cache[K, V], error) {
	if capacity < MinCapacity {
		return nil, fmt.Errorf("%w: capacity must be at least %d, got %d",
			ErrInvalidArgument, MinCapacity, capacity)
	}

	o := applyOptions(opts)
	tableOpts := []table.Option{table.WithCapacity(capacity << 1)}
	if o.byteHasher != nil {
		tableOpts = append(tableOpts, table.WithByteHasher(o.byteHasher))
	}

	return &Cache[K, V]{
		capacity: capacity,
		index:    table.New[K, handle](tableOpts...),
		head:     nilHandle,
		tail:     nilHandle,
		logger:   o.logger,
	}, nil
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int { return c.index.Len() }

// Capacity returns the maximum number of entries.
func (c *Cache[K, V]) Capacity() int { return c.capacity }

// IsEmpty reports whether the cache holds no entries.
func (c *Cache[K, V]) IsEmpty() bool { return c.index.IsEmpty() }

// Contains reports whether key is cached. It does not count as a use.
func (c *Cache[K, V]) Contains(key K) bool {
	return c.index.Contains(key)
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, error) {
	var zero V
	if err := table.CheckKey(key); err != nil {
		return zero, err
	}
	h, ok := c.index.Lookup(key)
	if !ok {
		c.stats.Misses++
		return zero, fmt.Errorf("%w: %v", ErrNotFound, key)
	}
	c.stats.Hits++
	c.promote(h)
	return c.arena.at(h).value, nil
}

// Put stores value under key as the most recently used entry. An existing
// entry for key is discarded first. When the cache is full the least
// recently used entry is evicted.
func (c *Cache[K, V]) Put(key K, value V) error {
	if err := table.CheckKey(key); err != nil {
		return err
	}
	if table.IsNil(value) {
		return fmt.Errorf("%w: nil value for key %v", ErrInvalidArgument, key)
	}

	if h, ok := c.index.Lookup(key); ok {
		if err := c.drop(h); err != nil {
			return err
		}
	} else if c.index.Len() >= c.capacity {
		if err := c.evictTail(); err != nil {
			return err
		}
	}

	h := c.arena.alloc(key, value)
	buckets := c.index.Capacity()
	if err := c.index.Put(key, h); err != nil {
		c.arena.release(h)
		return err
	}
	c.linkFront(h)
	if grown := c.index.Capacity(); grown != buckets {
		c.logger.Debug("cache index grown", "from", buckets, "to", grown, "entries", c.index.Len())
	}
	return nil
}

func (c *Cache[K, V]) evictTail() error {
	h := c.tail
	key := c.arena.at(h).key
	if err := c.drop(h); err != nil {
		return err
	}
	c.stats.Evictions++
	c.logger.Debug("cache evicted entry", "key", key, "capacity", c.capacity)
	return nil
}

// Remove deletes key from the cache.
func (c *Cache[K, V]) Remove(key K) error {
	if err := table.CheckKey(key); err != nil {
		return err
	}
	h, ok := c.index.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %v", ErrNotFound, key)
	}
	return c.drop(h)
}

// EvictMRU removes and returns the most recently used value.
func (c *Cache[K, V]) EvictMRU() (V, error) {
	return c.evictEnd(c.head)
}

// EvictLRU removes and returns the least recently used value.
func (c *Cache[K, V]) EvictLRU() (V, error) {
	return c.evictEnd(c.tail)
}

func (c *Cache[K, V]) evictEnd(h handle) (V, error) {
	if h == nilHandle {
		var zero V
		return zero, ErrEmpty
	}
	v := c.arena.at(h).value
	if err := c.drop(h); err != nil {
		var zero V
		return zero, err
	}
	return v, nil
}

// PeekMRU returns the most recently used value without touching it.
func (c *Cache[K, V]) PeekMRU() (V, error) {
	return c.peek(c.head)
}

// PeekLRU returns the least recently used value without touching it.
func (c *Cache[K, V]) PeekLRU() (V, error) {
	return c.peek(c.tail)
}

func (c *Cache[K, V]) peek(h handle) (V, error) {
	if h == nilHandle {
		var zero V
		return zero, ErrEmpty
	}
	return c.arena.at(h).value, nil
}

// Clear removes every entry. Stats are kept.
func (c *Cache[K, V]) Clear() {
	c.reset()
	c.logger.Debug("cache cleared", "capacity", c.capacity)
}

func (c *Cache[K, V]) reset() {
	c.index.Clear()
	c.arena.reset()
	c.head, c.tail = nilHandle, nilHandle
}

// Collisions returns the number of index buckets holding more than one key.
func (c *Cache[K, V]) Collisions() int { return c.index.Collisions() }

// MaxCollision returns the deepest index chain length minus one.
func (c *Cache[K, V]) MaxCollision() int { return c.index.MaxCollision() }

// LoadFactor returns the load factor of the index table.
func (c *Cache[K, V]) LoadFactor() float64 { return c.index.LoadFactor() }

// Stats returns the hit, miss and eviction counters.
func (c *Cache[K, V]) Stats() Stats { return c.stats }

// Copy returns an independent cache with the same capacity, options,
// entries and recency order.
func (c *Cache[K, V]) Copy() *Cache[K, V] {
	index := table.NewWithHasher[K, handle](c.index.HashFunc(), table.WithCapacity(c.capacity<<1))
	cp := &Cache[K, V]{
		capacity: c.capacity,
		index:    index,
		head:     nilHandle,
		tail:     nilHandle,
		logger:   c.logger,
	}
	for h := c.tail; h != nilHandle; {
		n := c.arena.at(h)
		_ = cp.Put(n.key, n.value)
		h = n.moreRecent
	}
	return cp
}

// Equal reports whether other has the same capacity and the same entries in
// the same recency order. Values are compared with == when comparable and
// reflect.DeepEqual otherwise.
func (c *Cache[K, V]) Equal(other *Cache[K, V]) bool {
	return c.EqualFunc(other, table.ValuesEqual[V])
}

// EqualFunc is like Equal but compares values with eq.
func (c *Cache[K, V]) EqualFunc(other *Cache[K, V], eq func(a, b V) bool) bool {
	if other == nil {
		return false
	}
	if c.capacity != other.capacity || c.Len() != other.Len() {
		return false
	}
	ours, theirs := c.head, other.head
	for ours != nilHandle && theirs != nilHandle {
		a, b := c.arena.at(ours), other.arena.at(theirs)
		if a.key != b.key || !eq(a.value, b.value) {
			return false
		}
		ours, theirs = a.lessRecent, b.lessRecent
	}
	return ours == nilHandle && theirs == nilHandle
}

// All yields entries from most to least recently used.
// The cache must not be mutated while iterating.
func (c *Cache[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for h := c.head; h != nilHandle; {
			n := c.arena.at(h)
			if !yield(n.key, n.value) {
				return
			}
			h = n.lessRecent
		}
	}
}

// Backward yields entries from least to most recently used.
func (c *Cache[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for h := c.tail; h != nilHandle; {
			n := c.arena.at(h)
			if !yield(n.key, n.value) {
				return
			}
			h = n.moreRecent
		}
	}
}

// Keys yields keys from most to least recently used.
func (c *Cache[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range c.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values yields values from most to least recently used.
func (c *Cache[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range c.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// String renders the cache as ['k1': 'v1', 'k2': 'v2'] from most to least
// recently used.
func (c *Cache[K, V]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for h := c.head; h != nilHandle; {
		n := c.arena.at(h)
		fmt.Fprintf(&sb, "'%v': '%v'", n.key, n.value)
		if h != c.tail {
			sb.WriteString(", ")
		}
		h = n.lessRecent
	}
	sb.WriteByte(']')
	return sb.String()
}
