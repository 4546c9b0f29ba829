package table

import (
	"fmt"
	"hash/maphash"
	"iter"
	"math/bits"
	"slices"
	"strings"

	"gocache/internal/errs"
)

const (
	// MaxLoad is the highest load factor a table tolerates after an insert.
	MaxLoad = 0.72

	// MinCapacity is the smallest bucket array a table allocates.
	MinCapacity = 64
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// bucket is a collision chain. A nil bucket marks an empty slot.
type bucket[K comparable, V any] []entry[K, V]

// Table maps unique keys to values using chained buckets over a
// power-of-two slot array that doubles when the load factor passes MaxLoad.
//
// A Table is not safe for concurrent use.
type Table[K comparable, V any] struct {
	buckets []bucket[K, V]
	count   int
	hash    func(K) uint32
}

// New creates a table. Without WithByteHasher, keys are hashed with a
// per-table seeded maphash of their own value.
func New[K comparable, V any](opts ...Option) *Table[K, V] {
	o := applyOptions(opts)

	var fn func(K) uint32
	if o.byteHasher != nil {
		bh := o.byteHasher
		fn = func(k K) uint32 { return uint32(bh(KeyBytes(k))) }
	} else {
		seed := maphash.MakeSeed()
		fn = func(k K) uint32 {
			h := maphash.Comparable(seed, k)
			return uint32(h>>32) ^ uint32(h)
		}
	}

	return newTable[K, V](fn, o.capacity)
}

// NewWithHasher creates a table that hashes keys with fn.
// WithByteHasher is ignored when fn is non-nil.
func NewWithHasher[K comparable, V any](fn func(K) uint32, opts ...Option) *Table[K, V] {
	if fn == nil {
		return New[K, V](opts...)
	}
	return newTable[K, V](fn, applyOptions(opts).capacity)
}

func newTable[K comparable, V any](fn func(K) uint32, capacity int) *Table[K, V] {
	return &Table[K, V]{
		buckets: make([]bucket[K, V], roundCapacity(capacity)),
		hash:    fn,
	}
}

// roundCapacity returns the next power of two >= n, never below MinCapacity.
func roundCapacity(n int) int {
	if n <= MinCapacity {
		return MinCapacity
	}
	return 1 << bits.Len(uint(n-1))
}

// HashFunc returns the key hash this table was built with.
func (t *Table[K, V]) HashFunc() func(K) uint32 {
	return t.hash
}

// Put associates value with key, replacing any previous value in place.
func (t *Table[K, V]) Put(key K, value V) error {
	if err := CheckKey(key); err != nil {
		return err
	}
	if IsNil(value) {
		return fmt.Errorf("%w: nil value for key %v", errs.ErrInvalidArgument, key)
	}
	t.insert(key, value)
	return nil
}

func (t *Table[K, V]) insert(key K, value V) {
	i := t.index(key)
	b := t.buckets[i]
	for j := range b {
		if b[j].key == key {
			b[j].value = value
			return
		}
	}

	t.buckets[i] = append(b, entry[K, V]{key: key, value: value})
	t.count++

	if float64(t.count)/float64(len(t.buckets)) > MaxLoad {
		t.grow()
	}
}

// grow doubles the slot array and re-inserts every entry through insert.
func (t *Table[K, V]) grow() {
	old := t.buckets
	t.buckets = make([]bucket[K, V], len(old)*2)
	t.count = 0
	for _, b := range old {
		for _, e := range b {
			t.insert(e.key, e.value)
		}
	}
}

func (t *Table[K, V]) index(key K) int {
	return int(t.hash(key) & uint32(len(t.buckets)-1))
}

// find returns the bucket index and chain position of key, or -1.
func (t *Table[K, V]) find(key K) (int, int) {
	i := t.index(key)
	for j, e := range t.buckets[i] {
		if e.key == key {
			return i, j
		}
	}
	return i, -1
}

// Get returns the value for key.
func (t *Table[K, V]) Get(key K) (V, error) {
	if err := CheckKey(key); err != nil {
		var zero V
		return zero, err
	}
	v, ok := t.Lookup(key)
	if !ok {
		return v, fmt.Errorf("%w: %v", errs.ErrNotFound, key)
	}
	return v, nil
}

// Lookup returns the value for key and whether it was present.
// A key rejected by CheckKey is never present.
func (t *Table[K, V]) Lookup(key K) (V, bool) {
	var zero V
	if CheckKey(key) != nil {
		return zero, false
	}
	i, j := t.find(key)
	if j < 0 {
		return zero, false
	}
	return t.buckets[i][j].value, true
}

// Contains reports whether key is present. It returns false for a nil key
// instead of failing.
func (t *Table[K, V]) Contains(key K) bool {
	_, ok := t.Lookup(key)
	return ok
}

// Remove deletes key. The bucket is released once its chain is empty.
func (t *Table[K, V]) Remove(key K) error {
	if err := CheckKey(key); err != nil {
		return err
	}
	i, j := t.find(key)
	if j < 0 {
		return fmt.Errorf("%w: %v", errs.ErrNotFound, key)
	}

	b := slices.Delete(t.buckets[i], j, j+1)
	if len(b) == 0 {
		b = nil
	}
	t.buckets[i] = b
	t.count--
	return nil
}

// Len returns the number of live entries.
func (t *Table[K, V]) Len() int { return t.count }

// IsEmpty reports whether the table has no entries.
func (t *Table[K, V]) IsEmpty() bool { return t.count == 0 }

// Capacity returns the length of the slot array.
func (t *Table[K, V]) Capacity() int { return len(t.buckets) }

// Clear drops every entry and shrinks the slot array back to MinCapacity.
// The hash function is kept.
func (t *Table[K, V]) Clear() {
	t.buckets = make([]bucket[K, V], MinCapacity)
	t.count = 0
}

// LoadFactor returns live entries divided by slot array length.
func (t *Table[K, V]) LoadFactor() float64 {
	return float64(t.count) / float64(len(t.buckets))
}

// Collisions returns the number of buckets holding more than one entry.
func (t *Table[K, V]) Collisions() int {
	n := 0
	for _, b := range t.buckets {
		if len(b) > 1 {
			n++
		}
	}
	return n
}

// MaxCollision returns the size of the fullest bucket minus one, or 0 when
// the table is empty.
func (t *Table[K, V]) MaxCollision() int {
	n := 0
	for _, b := range t.buckets {
		if len(b) > 0 {
			n = max(n, len(b)-1)
		}
	}
	return n
}

// All yields every entry once, in no particular order. The table must not
// be mutated while iterating.
func (t *Table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, b := range t.buckets {
			for _, e := range b {
				if !yield(e.key, e.value) {
					return
				}
			}
		}
	}
}

// Keys yields every key once, in no particular order.
func (t *Table[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range t.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values yields every value once, in no particular order.
func (t *Table[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range t.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Equal reports whether both tables hold the same keys mapped to equal values.
func (t *Table[K, V]) Equal(other *Table[K, V]) bool {
	if other == nil || t.count != other.count {
		return false
	}
	for k, v := range t.All() {
		ov, ok := other.Lookup(k)
		if !ok || !ValuesEqual(v, ov) {
			return false
		}
	}
	return true
}

// String renders the table as { 'k': 'v', ... } in iteration order.
func (t *Table[K, V]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	if t.count > 0 {
		sb.WriteByte(' ')
	}
	for k, v := range t.All() {
		fmt.Fprintf(&sb, "'%v': '%v', ", k, v)
	}
	sb.WriteByte('}')
	return sb.String()
}
