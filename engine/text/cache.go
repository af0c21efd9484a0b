package text

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/weft/core/dimen"
	"golang.org/x/text/language"
)

// Measurement memoization. Runs of text are measured over and over during
// layout; widths only depend on the fragment and the measurement context.

const defaultCacheLimit = 4096

type measureKey struct {
	frag string
	face string
	dir  Direction
	lang language.Tag
}

type measureEntry struct {
	width dimen.Dimen
	gen   uint32
}

// MeasureCache memoizes run widths, bounded by entry count and evicted by
// generation: advancing the generation invalidates all earlier entries,
// which are then dropped lazily on access.
//
// Access is single-threaded on the content thread; this is the only
// reason the cache carries no lock. Concurrent use needs external
// synchronization.
type MeasureCache struct {
	entries    *linkedhashmap.Map
	limit      int
	generation uint32
}

// NewMeasureCache creates a measurement cache holding up to limit
// entries; limit <= 0 selects the default bound.
func NewMeasureCache(limit int) *MeasureCache {
	if limit <= 0 {
		limit = defaultCacheLimit
	}
	return &MeasureCache{
		entries:    linkedhashmap.New(),
		limit:      limit,
		generation: 1,
	}
}

// Advance moves the cache to the next generation. Entries measured in
// earlier generations stop being served and fall out on access.
func (c *MeasureCache) Advance() {
	c.generation++
}

// Flush drops every entry at once. The cache stays usable.
func (c *MeasureCache) Flush() {
	c.entries.Clear()
}

// Size returns the number of entries currently held, stale ones included.
func (c *MeasureCache) Size() int {
	return c.entries.Size()
}

func (c *MeasureCache) lookup(key measureKey) (dimen.Dimen, bool) {
	v, ok := c.entries.Get(key)
	if !ok {
		return 0, false
	}
	entry := v.(measureEntry)
	if entry.gen != c.generation {
		c.entries.Remove(key)
		return 0, false
	}
	return entry.width, true
}

func (c *MeasureCache) store(key measureKey, width dimen.Dimen) {
	if _, ok := c.entries.Get(key); !ok && c.entries.Size() >= c.limit {
		it := c.entries.Iterator()
		if it.First() {
			c.entries.Remove(it.Key())
		}
	}
	c.entries.Put(key, measureEntry{width: width, gen: c.generation})
}

// --- Process-wide cache ----------------------------------------------------

var globalCacheOnce sync.Once
var globalCache *MeasureCache

// Cache returns the process-wide measurement cache, initializing it at
// first use.
func Cache() *MeasureCache {
	globalCacheOnce.Do(func() {
		globalCache = NewMeasureCache(defaultCacheLimit)
		tracer().Infof("measurement cache initialized, holds up to %d entries", defaultCacheLimit)
	})
	return globalCache
}

// FlushCaches is the teardown hook for the process-wide measurement
// state. Flushing an untouched cache is a no-op.
func FlushCaches() {
	if globalCache != nil {
		globalCache.Flush()
	}
}

// --- Caching measurer ------------------------------------------------------

type cachedMeasurer struct {
	m     Measurer
	cache *MeasureCache
}

// Cached wraps a measurer with the process-wide measurement cache.
func Cached(m Measurer) Measurer {
	return &cachedMeasurer{m: m, cache: Cache()}
}

// CachedWith wraps a measurer with a private cache.
func CachedWith(m Measurer, cache *MeasureCache) Measurer {
	return &cachedMeasurer{m: m, cache: cache}
}

func (cm *cachedMeasurer) Width(frag string, params Params) dimen.Dimen {
	key := measureKey{
		frag: frag,
		face: params.faceKey(),
		dir:  params.Direction,
		lang: params.Language,
	}
	if w, ok := cm.cache.lookup(key); ok {
		return w
	}
	w := cm.m.Width(frag, params)
	cm.cache.store(key, w)
	return w
}

// Split is not memoized: the result depends on the budget, which varies
// with every line.
func (cm *cachedMeasurer) Split(frag string, budget dimen.Dimen, params Params) int {
	return cm.m.Split(frag, budget, params)
}
