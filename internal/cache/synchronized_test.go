package cache

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSynchronized(t *testing.T, capacity int, cfg SyncConfig) *Synchronized[string, string] {
	t.Helper()
	s := NewSynchronized(newCache[string, string](t, capacity), cfg)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSynchronized_LRUEviction(t *testing.T) {
	s := newSynchronized(t, 2, SyncConfig{})

	require.NoError(t, s.Put("a", "A"))
	require.NoError(t, s.Put("b", "B"))

	// Touch a so b becomes LRU.
	_, err := s.Get("a")
	require.NoError(t, err, "expected a to exist")

	// Insert c => should evict b.
	require.NoError(t, s.Put("c", "C"))

	_, err = s.Get("b")
	assert.ErrorIs(t, err, ErrNotFound, "expected b to be evicted")
	assert.Equal(t, []string{"c", "a"}, s.Keys())

	mru, err := s.PeekMRU()
	require.NoError(t, err)
	assert.Equal(t, "C", mru)
	lru, err := s.PeekLRU()
	require.NoError(t, err)
	assert.Equal(t, "A", lru)

	assert.True(t, s.Contains("a"))
	require.NoError(t, s.Remove("a"))
	assert.Equal(t, 1, s.Len())
}

func TestSynchronized_CloseIdempotentAndPreventsMutation(t *testing.T) {
	s := NewSynchronized(newCache[string, string](t, 2), SyncConfig{ReportInterval: 10 * time.Millisecond})
	require.NoError(t, s.Put("a", "A"))
	require.NoError(t, s.Put("b", "B"))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Get("a")
	assert.ErrorIs(t, err, ErrClosed, "Get promotes, so it is refused after Close")
	mru, err := s.PeekMRU()
	require.NoError(t, err)
	assert.Equal(t, "B", mru, "recency order must not change after Close")

	assert.ErrorIs(t, s.Put("k", "v"), ErrClosed)
	assert.ErrorIs(t, s.Remove("k"), ErrClosed)
	_, err = s.TryGet("k", func() string { return "v" })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSynchronized_Snapshot(t *testing.T) {
	s := newSynchronized(t, 3, SyncConfig{})
	for _, k := range []string{"x", "y", "z"} {
		require.NoError(t, s.Put(k, strings.ToUpper(k)))
	}

	snap := s.Snapshot()
	assert.Equal(t, "['z': 'Z', 'y': 'Y', 'x': 'X']", snap.String())

	require.NoError(t, snap.Put("w", "W"))
	assert.Equal(t, []string{"z", "y", "x"}, s.Keys(), "snapshot must be independent")
}

func TestSynchronized_TryGetComputesOnce(t *testing.T) {
	s := newSynchronized(t, 16, SyncConfig{})

	var calls atomic.Int32
	release := make(chan struct{})
	compute := func() string {
		calls.Add(1)
		<-release
		return "value"
	}

	const workers = 32
	var wg sync.WaitGroup
	results := make([]string, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.TryGet("key", compute)
		}(i)
	}

	// Let the leader block in compute, then release it.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "value", results[i])
	}
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, uint64(1), s.Stats().Misses)
}

func TestSynchronized_ConcurrentMixedLoad(t *testing.T) {
	s := newSynchronized(t, 8, SyncConfig{})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				k := string(rune('a' + (g+i)%20))
				switch i % 3 {
				case 0:
					_ = s.Put(k, k)
				case 1:
					_, _ = s.Get(k)
				default:
					_, _ = s.TryGet(k, func() string { return k })
				}
			}
		}(g)
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.LessOrEqual(t, snap.Len(), 8)
	checkInvariants(t, snap)
}

// syncBuffer lets the report goroutine write while the test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSynchronized_BackgroundReport(t *testing.T) {
	var out syncBuffer
	logger := slog.New(slog.NewTextHandler(&out, nil))

	s := newSynchronized(t, 4, SyncConfig{ReportInterval: 5 * time.Millisecond, Logger: logger})
	require.NoError(t, s.Put("a", "A"))

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "size=1")
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Close())
	report := out.String()
	assert.Contains(t, report, "cache report")
	assert.Contains(t, report, "capacity=4")
}
