package main

import (
	"fmt"
	"sync"
	"sync/atomic"

	"grid-planner/uniformgrid"
)

// PathCacheKey identifies a raw route between two cells on one version of
// the grid's occupancy
type PathCacheKey struct {
	From, To   uniformgrid.CellIndex
	Generation uint64
}

// PathCache stores the unsmoothed cell centers of previously computed
// routes. The literal endpoints are not part of an entry, so any two
// queries that land in the same pair of cells share it.
type PathCache struct {
	mu         sync.RWMutex
	cache      map[PathCacheKey][]uniformgrid.Vector3
	maxSize    int
	generation uint64
	hits       int64 // Use atomic operations
	misses     int64 // Use atomic operations
	evictions  int64 // Use atomic operations
}

// NewPathCache creates a new path cache with the specified maximum size.
// A size of 0 disables caching.
func NewPathCache(maxSize int) *PathCache {
	return &PathCache{
		cache:   make(map[PathCacheKey][]uniformgrid.Vector3),
		maxSize: maxSize,
	}
}

// Get retrieves a route's cell centers if they were cached
func (pc *PathCache) Get(key PathCacheKey) ([]uniformgrid.Vector3, bool) {
	pc.mu.RLock()
	route, found := pc.cache[key]
	pc.mu.RUnlock()

	if found {
		atomic.AddInt64(&pc.hits, 1)
	} else {
		atomic.AddInt64(&pc.misses, 1)
	}

	return route, found
}

// Put stores a route's cell centers
func (pc *PathCache) Put(key PathCacheKey, route []uniformgrid.Vector3) {
	if pc.maxSize <= 0 {
		return
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()

	// Entries from older generations can never be hit again
	if key.Generation > pc.generation {
		pc.generation = key.Generation
		for k := range pc.cache {
			if k.Generation < key.Generation {
				delete(pc.cache, k)
				atomic.AddInt64(&pc.evictions, 1)
			}
		}
	}

	if _, exists := pc.cache[key]; !exists && len(pc.cache) >= pc.maxSize {
		// Simple eviction: remove the first entry found
		for k := range pc.cache {
			delete(pc.cache, k)
			atomic.AddInt64(&pc.evictions, 1)
			break
		}
	}

	pc.cache[key] = append([]uniformgrid.Vector3(nil), route...)
}

// Clear removes all entries from the cache
func (pc *PathCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.cache = make(map[PathCacheKey][]uniformgrid.Vector3)
	atomic.StoreInt64(&pc.hits, 0)
	atomic.StoreInt64(&pc.misses, 0)
	atomic.StoreInt64(&pc.evictions, 0)
}

// CacheStats is a snapshot of the cache counters
type CacheStats struct {
	Hits      int `json:"hits"`
	Misses    int `json:"misses"`
	Evictions int `json:"evictions"`
	Size      int `json:"size"`
}

// Stats returns cache statistics
func (pc *PathCache) Stats() CacheStats {
	pc.mu.RLock()
	size := len(pc.cache)
	pc.mu.RUnlock()

	return CacheStats{
		Hits:      int(atomic.LoadInt64(&pc.hits)),
		Misses:    int(atomic.LoadInt64(&pc.misses)),
		Evictions: int(atomic.LoadInt64(&pc.evictions)),
		Size:      size,
	}
}

// String returns a string representation of cache statistics
func (pc *PathCache) String() string {
	s := pc.Stats()
	hitRate := 0.0
	if total := s.Hits + s.Misses; total > 0 {
		hitRate = float64(s.Hits) / float64(total) * 100
	}

	return fmt.Sprintf("PathCache[size=%d/%d, hits=%d, misses=%d, hitRate=%.1f%%, evictions=%d]",
		s.Size, pc.maxSize, s.Hits, s.Misses, hitRate, s.Evictions)
}
