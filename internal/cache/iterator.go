package cache

// listView projects arena nodes onto the element type of a ListIterator.
type listView[T any] interface {
	front() handle
	back() handle
	neighbors(h handle) (moreRecent, lessRecent handle)
	get(h handle) T
}

type keyView[K comparable, V any] struct{ c *Cache[K, V] }

func (v keyView[K, V]) front() handle { return v.c.head }
func (v keyView[K, V]) back() handle { return v.c.tail }
func (v keyView[K, V]) neighbors(h handle) (handle, handle) {
	n := v.c.arena.at(h)
	return n.moreRecent, n.lessRecent
}
func (v keyView[K, V]) get(h handle) K { return v.c.arena.at(h).key }

type valueView[K comparable, V any] struct{ c *Cache[K, V] }

func (v valueView[K, V]) front() handle { return v.c.head }
func (v valueView[K, V]) back() handle { return v.c.tail }
func (v valueView[K, V]) neighbors(h handle) (handle, handle) {
	n := v.c.arena.at(h)
	return n.moreRecent, n.lessRecent
}
func (v valueView[K, V]) get(h handle) V { return v.c.arena.at(h).value }

// ListIterator walks a cache from most to least recently used in either
// direction. The cursor sits between two elements; Next returns the one
// after it and Previous the one before it.
//
// Iterating never reorders the cache. Mutating the cache invalidates the
// iterator.
type ListIterator[T any] struct {
	view listView[T]
	prev handle
	next handle
}

func newListIterator[T any](view listView[T]) *ListIterator[T] {
	it := &ListIterator[T]{view: view}
	it.Start()
	return it
}

// KeyIterator returns a bidirectional iterator over keys, MRU first.
func (c *Cache[K, V]) KeyIterator() *ListIterator[K] {
	return newListIterator[K](keyView[K, V]{c: c})
}

// ValueIterator returns a bidirectional iterator over values, MRU first.
func (c *Cache[K, V]) ValueIterator() *ListIterator[V] {
	return newListIterator[V](valueView[K, V]{c: c})
}

// HasNext reports whether Next would succeed.
func (it *ListIterator[T]) HasNext() bool { return it.next != nilHandle }

// HasPrevious reports whether Previous would succeed.
func (it *ListIterator[T]) HasPrevious() bool { return it.prev != nilHandle }

// Next advances toward the LRU end and returns the element it passed.
func (it *ListIterator[T]) Next() (T, error) {
	if it.next == nilHandle {
		var zero T
		return zero, ErrNoSuchElement
	}
	it.prev = it.next
	_, it.next = it.view.neighbors(it.prev)
	return it.view.get(it.prev), nil
}

// Previous moves back toward the MRU end and returns the element it passed.
func (it *ListIterator[T]) Previous() (T, error) {
	if it.prev == nilHandle {
		var zero T
		return zero, ErrNoSuchElement
	}
	it.next = it.prev
	it.prev, _ = it.view.neighbors(it.next)
	return it.view.get(it.next), nil
}

// Start moves the cursor before the most recently used element.
func (it *ListIterator[T]) Start() {
	it.prev = nilHandle
	it.next = it.view.front()
}

// End moves the cursor after the least recently used element.
func (it *ListIterator[T]) End() {
	it.prev = it.view.back()
	it.next = nilHandle
}
