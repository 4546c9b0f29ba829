package cache

import "gocache/internal/table"

// TryGet returns the cached value for key, computing and inserting it with
// compute on a miss. Either way the entry ends up most recently used.
//
// compute should be deterministic for key; TryGet does not check. If compute
// returns nil the insert fails with ErrInvalidArgument and nothing changes,
// stats included.
func (c *Cache[K, V]) TryGet(key K, compute func() V) (V, error) {
	var zero V
	if err := table.CheckKey(key); err != nil {
		return zero, err
	}

	if h, ok := c.index.Lookup(key); ok {
		c.stats.Hits++
		c.promote(h)
		return c.arena.at(h).value, nil
	}

	if err := c.Put(key, compute()); err != nil {
		return zero, err
	}
	c.stats.Misses++
	return c.arena.at(c.head).value, nil
}
