package pyramid

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/shirou/gopsutil/mem"
	log "github.com/sirupsen/logrus"
)

// Artifact is one generated cache entry: the vector document and its
// raster sibling. Artifacts are immutable once stored.
type Artifact struct {
	SVG []byte
	PNG []byte
}

// DefaultCacheCapacity bounds the number of artifacts kept in memory.
const DefaultCacheCapacity = 512

// lowMemoryFraction triggers early eviction when available system
// memory drops below this share of the total.
const lowMemoryFraction = 0.1

// Cache is an in-memory artifact cache keyed by normalized request
// parameters. It guarantees at-most-one generation per key: while a
// key is being generated, later requesters for the same key wait for
// the in-flight generation instead of duplicating work. Completed
// entries are read concurrently without blocking generation; least
// recently used entries are evicted beyond the capacity.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*cacheEntry
	order    *list.List
	capacity int

	generations atomic.Int64
}

type cacheEntry struct {
	key      string
	done     chan struct{}
	artifact *Artifact
	err      error
	element  *list.Element
}

// NewCache creates a cache holding at most capacity completed
// artifacts. A non-positive capacity selects the default.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		entries:  make(map[string]*cacheEntry),
		order:    list.New(),
		capacity: capacity,
	}
}

// Generations reports how many times a generator has been invoked.
func (c *Cache) Generations() int64 {
	return c.generations.Load()
}

// GetOrGenerate returns the artifact for the key, invoking generate
// at most once per key even under concurrent requests. A failed
// generation is not cached, so a later request retries. A canceled
// context abandons the wait only; the generation itself is detached
// from the initiating request, so it still completes and populates
// the cache even when the request that started it gives up.
func (c *Cache) GetOrGenerate(ctx context.Context, key string, generate func(ctx context.Context) (*Artifact, error)) (*Artifact, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok {
		if entry.element != nil {
			c.order.MoveToFront(entry.element)
		}
	} else {
		entry = &cacheEntry{key: key, done: make(chan struct{})}
		c.entries[key] = entry
		c.generations.Add(1)

		// The initiator's cancellation must not abort work that
		// concurrent waiters depend on, so the generation runs in its
		// own goroutine with a context that survives the initiator.
		go func() {
			entry.artifact, entry.err = generate(context.WithoutCancel(ctx))

			c.mu.Lock()
			if entry.err != nil {
				// Never keep a failed entry; the next request
				// regenerates.
				delete(c.entries, key)
			} else {
				entry.element = c.order.PushFront(entry)
				c.evictLocked()
			}
			c.mu.Unlock()

			close(entry.done)
		}()
	}
	c.mu.Unlock()

	select {
	case <-entry.done:
		return entry.artifact, entry.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate drops a completed entry. In-flight generations are left
// alone.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok && entry.element != nil {
		c.order.Remove(entry.element)
		delete(c.entries, key)
	}
}

// Len returns the number of completed entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *Cache) evictLocked() {
	limit := c.capacity
	if memoryPressure() {
		limit = c.capacity / 2
	}
	for c.order.Len() > limit {
		oldest := c.order.Back()
		if oldest == nil {
			return
		}
		entry := oldest.Value.(*cacheEntry)
		c.order.Remove(oldest)
		delete(c.entries, entry.key)
		log.WithField("key", entry.key).Debug("evicted cache entry")
	}
}

// memoryPressure reports whether available system memory is running
// low. Probe failures report false so the cache keeps working on
// platforms without memory statistics.
func memoryPressure() bool {
	stat, err := mem.VirtualMemory()
	if err != nil || stat.Total == 0 {
		return false
	}
	return float64(stat.Available)/float64(stat.Total) < lowMemoryFraction
}
