// Package cache provides the process-wide, memory-bounded skin cache.
//
// Eviction works on whole skins. An entry's estimated size is the sum of its
// decoded sheets plus every sprite extracted from them (width*height*4 each).
// Recency is a global tick taken on every access, so no two entries ever share
// an access time.
package cache

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/tejashwikalptaru/skinamp/internal/adapter/bitmap"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/ports"
	"golang.org/x/sync/singleflight"
)

// DefaultBudgetBytes is the resident budget used when none is configured.
const DefaultBudgetBytes int64 = 200 << 20

// EvictFunc is called after a skin has been evicted, outside the cache lock.
type EvictFunc func(key string, freedBytes, usedBytes int64)

// Options configure an AssetCache.
type Options struct {
	// BudgetBytes bounds the estimated resident size. Zero means DefaultBudgetBytes.
	BudgetBytes int64

	// OnEvict is notified for every skin evicted to make room.
	OnEvict EvictFunc
}

type entry struct {
	skin    *domain.Skin
	sprites map[string]*domain.Sprite
	size    int64
	tick    atomic.Uint64
}

// AssetCache is a byte-bounded LRU of loaded skins with lazy sprite extraction.
//
// Lookups take the read lock and only bump an atomic tick, so render consumers
// never wait on each other. Inserts, sprite stores and eviction take the write lock.
type AssetCache struct {
	logger  *slog.Logger
	budget  int64
	onEvict EvictFunc

	mu      sync.RWMutex
	entries map[string]*entry
	used    int64

	clock   atomic.Uint64
	extract singleflight.Group
}

// New creates an empty cache.
func New(logger *slog.Logger, opts Options) *AssetCache {
	if opts.BudgetBytes <= 0 {
		opts.BudgetBytes = DefaultBudgetBytes
	}
	return &AssetCache{
		logger:  logger,
		budget:  opts.BudgetBytes,
		onEvict: opts.OnEvict,
		entries: make(map[string]*entry),
	}
}

type eviction struct {
	key   string
	freed int64
}

// Put inserts or replaces a skin and evicts least recently used skins until the
// cache fits its budget again. The inserted skin is never evicted by its own Put.
func (c *AssetCache) Put(skin *domain.Skin) error {
	size := skin.SizeBytes()
	if size > c.budget {
		return fmt.Errorf("%w: %d bytes, budget %d", domain.ErrCacheEntryTooLarge, size, c.budget)
	}

	c.mu.Lock()
	if old, ok := c.entries[skin.Key]; ok {
		c.used -= old.size
	}
	e := &entry{skin: skin, sprites: make(map[string]*domain.Sprite), size: size}
	e.tick.Store(c.clock.Add(1))
	c.entries[skin.Key] = e
	c.used += size
	evicted := c.evictLocked(skin.Key)
	used := c.used
	c.mu.Unlock()

	c.logger.Debug("skin cached",
		slog.String("key", skin.Key),
		slog.Int64("bytes", size),
		slog.Int64("used", used),
		slog.Int("evicted", len(evicted)))
	c.notify(evicted, used)
	return nil
}

// Lookup returns a resident skin and marks it most recently used.
func (c *AssetCache) Lookup(key string) (*domain.Skin, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	if ok {
		e.tick.Store(c.clock.Add(1))
	}
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return e.skin, true
}

// Contains reports residency without affecting recency.
func (c *AssetCache) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// Sprite returns the named sprite of a resident skin, extracting and storing it
// on first use. Concurrent first requests for the same sprite share one extraction.
func (c *AssetCache) Sprite(key, name string) (*domain.Sprite, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	var cached *domain.Sprite
	if ok {
		e.tick.Store(c.clock.Add(1))
		cached = e.sprites[name]
	}
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSkinNotCached, key)
	}
	if cached != nil {
		return cached, nil
	}

	region, ok := domain.LookupSprite(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSpriteNotFound, name)
	}
	sheet, ok := e.skin.Sheet(region.Sheet)
	if !ok {
		return nil, fmt.Errorf("%w: %s needs %s", domain.ErrSheetMissing, name, region.Sheet)
	}

	v, err, _ := c.extract.Do(key+"\x00"+name, func() (interface{}, error) {
		sprite, err := bitmap.Extract(sheet, region)
		if err != nil {
			return nil, err
		}
		c.store(key, e, sprite)
		return sprite, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Sprite), nil
}

// store records an extracted sprite against its entry, growing the entry and
// evicting other skins if needed. A sprite that would push its own skin over the
// budget is handed out without being retained.
func (c *AssetCache) store(key string, e *entry, sprite *domain.Sprite) {
	size := sprite.SizeBytes()

	c.mu.Lock()
	if c.entries[key] != e || e.sprites[sprite.Region.Name] != nil || e.size+size > c.budget {
		c.mu.Unlock()
		return
	}
	e.sprites[sprite.Region.Name] = sprite
	e.size += size
	c.used += size
	evicted := c.evictLocked(key)
	used := c.used
	c.mu.Unlock()

	c.notify(evicted, used)
}

// evictLocked drops the oldest entries other than keep until used <= budget.
func (c *AssetCache) evictLocked(keep string) []eviction {
	var evicted []eviction
	for c.used > c.budget {
		var (
			victim string
			oldest uint64
			found  bool
		)
		for k, e := range c.entries {
			if k == keep {
				continue
			}
			if t := e.tick.Load(); !found || t < oldest {
				victim, oldest, found = k, t, true
			}
		}
		if !found {
			break
		}
		freed := c.entries[victim].size
		delete(c.entries, victim)
		c.used -= freed
		evicted = append(evicted, eviction{key: victim, freed: freed})
	}
	return evicted
}

func (c *AssetCache) notify(evicted []eviction, used int64) {
	for _, ev := range evicted {
		c.logger.Info("skin evicted",
			slog.String("key", ev.key),
			slog.Int64("freed", ev.freed),
			slog.Int64("used", used))
		if c.onEvict != nil {
			c.onEvict(ev.key, ev.freed, used)
		}
	}
}

// Remove drops a skin. Unknown keys are ignored.
func (c *AssetCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.used -= e.size
		delete(c.entries, key)
	}
}

// Len returns the number of resident skins.
func (c *AssetCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// UsedBytes returns the estimated resident size.
func (c *AssetCache) UsedBytes() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.used
}

// Budget returns the configured byte budget.
func (c *AssetCache) Budget() int64 {
	return c.budget
}

// Keys returns resident skin keys, most recently used first.
func (c *AssetCache) Keys() []string {
	c.mu.RLock()
	type kt struct {
		key  string
		tick uint64
	}
	all := make([]kt, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, kt{k, e.tick.Load()})
	}
	c.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].tick > all[j].tick })
	keys := make([]string, len(all))
	for i, v := range all {
		keys[i] = v.key
	}
	return keys
}

var _ ports.AssetCache = (*AssetCache)(nil)
