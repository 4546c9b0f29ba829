package cache

import "fmt"

// handle addresses a node in the cache arena. The index table stores
// handles only; the arena is the sole owner of nodes.
type handle int32

const nilHandle handle = -1

// node is an entry in the recency list. moreRecent points toward the head
// (MRU) and lessRecent toward the tail (LRU).
type node[K comparable, V any] struct {
	key        K
	value      V
	moreRecent handle
	lessRecent handle
}

// arena holds every node of a cache. Released slots are recycled through
// free so live handles stay stable for the lifetime of their node.
type arena[K comparable, V any] struct {
	nodes []node[K, V]
	free  []handle
}

func (a *arena[K, V]) alloc(key K, value V) handle {
	n := node[K, V]{key: key, value: value, moreRecent: nilHandle, lessRecent: nilHandle}
	if last := len(a.free) - 1; last >= 0 {
		h := a.free[last]
		a.free = a.free[:last]
		a.nodes[h] = n
		return h
	}
	a.nodes = append(a.nodes, n)
	return handle(len(a.nodes) - 1)
}

func (a *arena[K, V]) release(h handle) {
	a.nodes[h] = node[K, V]{moreRecent: nilHandle, lessRecent: nilHandle}
	a.free = append(a.free, h)
}

func (a *arena[K, V]) at(h handle) *node[K, V] {
	return &a.nodes[h]
}

func (a *arena[K, V]) reset() {
	clear(a.nodes)
	a.nodes = a.nodes[:0]
	a.free = a.free[:0]
}

// linkFront makes h the new head.
func (c *Cache[K, V]) linkFront(h handle) {
	n := c.arena.at(h)
	n.moreRecent = nilHandle
	n.lessRecent = c.head
	if c.head != nilHandle {
		c.arena.at(c.head).moreRecent = h
	} else {
		c.tail = h
	}
	c.head = h
}

// unlink splices h out of the list, fixing head or tail when h sat at an end.
func (c *Cache[K, V]) unlink(h handle) {
	n := c.arena.at(h)
	if n.moreRecent != nilHandle {
		c.arena.at(n.moreRecent).lessRecent = n.lessRecent
	} else {
		c.head = n.lessRecent
	}
	if n.lessRecent != nilHandle {
		c.arena.at(n.lessRecent).moreRecent = n.moreRecent
	} else {
		c.tail = n.moreRecent
	}
	n.moreRecent, n.lessRecent = nilHandle, nilHandle
}

// promote moves h to the head.
func (c *Cache[K, V]) promote(h handle) {
	if h == c.head {
		return
	}
	c.unlink(h)
	c.linkFront(h)
}

// drop removes h from the index and the list and frees its slot. Dropping
// the last node resets the cache. If the index refuses the key, the list is
// left untouched.
func (c *Cache[K, V]) drop(h handle) error {
	if c.index.Len() <= 1 {
		c.reset()
		return nil
	}
	if err := c.index.Remove(c.arena.at(h).key); err != nil {
		return fmt.Errorf("drop cache entry: %w", err)
	}
	c.unlink(h)
	c.arena.release(h)
	return nil
}
