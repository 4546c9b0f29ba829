package cache

import (
	"context"
	"time"
)

// reportLoop periodically logs cache diagnostics.
//
// The snapshot is taken under the cache lock and logged after releasing it,
// so a slow log handler never blocks cache users.
func (s *Synchronized[K, V]) reportLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.reportEvery)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			r := s.reportLocked()
			s.mu.Unlock()
			s.logReport(s.ctx, r)
		}
	}
}

// report is a point-in-time view of cache health.
type report struct {
	size         int
	capacity     int
	loadFactor   float64
	collisions   int
	maxCollision int
	stats        Stats
}

func (s *Synchronized[K, V]) reportLocked() report {
	c := s.cache
	return report{
		size:         c.Len(),
		capacity:     c.Capacity(),
		loadFactor:   c.LoadFactor(),
		collisions:   c.Collisions(),
		maxCollision: c.MaxCollision(),
		stats:        c.Stats(),
	}
}

func (s *Synchronized[K, V]) logReport(ctx context.Context, r report) {
	s.logger.InfoContext(ctx, "cache report",
		"size", r.size,
		"capacity", r.capacity,
		"load_factor", r.loadFactor,
		"collisions", r.collisions,
		"max_collision", r.maxCollision,
		"hits", r.stats.Hits,
		"misses", r.stats.Misses,
		"evictions", r.stats.Evictions,
	)
}
