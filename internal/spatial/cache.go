package spatial

import (
	"encoding/binary"
	"math"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/piwi3910/CarpetFit/internal/model"
)

// Fingerprint hashes an obstacle snapshot. Order matters: the same rectangles
// in a different order are a different snapshot, as index results refer to
// positions in the slice.
func Fingerprint(obstacles []model.Rect) uint64 {
	d := xxhash.New()
	var buf [32]byte
	for _, r := range obstacles {
		binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(r.MinX))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(r.MinY))
		binary.LittleEndian.PutUint64(buf[16:], math.Float64bits(r.MaxX))
		binary.LittleEndian.PutUint64(buf[24:], math.Float64bits(r.MaxY))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// CacheStats counts cache lookups.
type CacheStats struct {
	Hits   int `json:"hits" yaml:"hits"`
	Misses int `json:"misses" yaml:"misses"`
	Size   int `json:"size" yaml:"size"`
}

// Cache hands out the already built Index for an unchanged obstacle snapshot
// and builds a fresh one otherwise. At most capacity indexes are kept; the
// least recently used one is dropped first. Cache is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	nodeSize int
	entries  map[uint64]*Index
	order    []uint64 // least recently used first
	stats    CacheStats
}

// NewCache returns a cache holding up to capacity indexes built with nodeSize.
// A capacity below 1 disables caching: every lookup builds a new index.
func NewCache(capacity, nodeSize int) *Cache {
	return &Cache{
		capacity: capacity,
		nodeSize: nodeSize,
		entries:  make(map[uint64]*Index),
	}
}

// Get returns an index for obstacles, building it when no cached index was
// built from an identical snapshot.
func (c *Cache) Get(obstacles []model.Rect) *Index {
	idx, _ := c.Lookup(obstacles)
	return idx
}

// Lookup is Get that also reports whether the index came from the cache.
func (c *Cache) Lookup(obstacles []model.Rect) (*Index, bool) {
	key := Fingerprint(obstacles)

	c.mu.Lock()
	if idx, ok := c.entries[key]; ok && slices.Equal(idx.items, obstacles) {
		c.stats.Hits++
		c.touch(key)
		c.mu.Unlock()
		return idx, true
	}
	c.stats.Misses++
	c.mu.Unlock()

	idx := BuildWithNodeSize(obstacles, c.nodeSize)
	if c.capacity < 1 {
		return idx, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		c.touch(key)
	} else {
		c.order = append(c.order, key)
	}
	c.entries[key] = idx
	for len(c.order) > c.capacity {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	return idx, false
}

// NodeSize returns the node size indexes are built with.
func (c *Cache) NodeSize() int {
	if c.nodeSize < 2 {
		return DefaultNodeSize
	}
	return c.nodeSize
}

// touch moves key to the most recently used end. Caller holds c.mu.
func (c *Cache) touch(key uint64) {
	if i := slices.Index(c.order, key); i >= 0 {
		c.order = append(slices.Delete(c.order, i, i+1), key)
	}
}

// Stats returns lookup counters and the current number of cached indexes.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Size = len(c.entries)
	return s
}
