package services

import (
	"context"
	"sync"
	"time"

	"github.com/laurel-hq/laurel/modules/system/domain/aggregates/menu"
)

// MenuCache keeps the used menus of each app between writes. Implementations return
// copies so callers may not mutate cached state.
type MenuCache interface {
	Get(ctx context.Context, appID string) ([]*menu.Menu, bool, error)
	Set(ctx context.Context, appID string, menus []*menu.Menu) error
	Invalidate(ctx context.Context, appID string) error
}

type cachedMenus struct {
	Menus     []menu.Menu
	ExpiresAt time.Time
}

type memoryMenuCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cachedMenus
}

// NewMemoryMenuCache returns a process-local cache. A non-positive ttl keeps entries
// until they are invalidated.
func NewMemoryMenuCache(ttl time.Duration) MenuCache {
	return &memoryMenuCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedMenus),
	}
}

func (c *memoryMenuCache) Get(_ context.Context, appID string) ([]*menu.Menu, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[appID]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.ExpiresAt.IsZero() && !c.now().Before(entry.ExpiresAt) {
		c.mu.Lock()
		delete(c.entries, appID)
		c.mu.Unlock()
		return nil, false, nil
	}
	out := make([]*menu.Menu, len(entry.Menus))
	for i := range entry.Menus {
		m := entry.Menus[i]
		out[i] = &m
	}
	return out, true, nil
}

func (c *memoryMenuCache) Set(_ context.Context, appID string, menus []*menu.Menu) error {
	if appID == "" {
		return nil
	}
	entry := cachedMenus{Menus: make([]menu.Menu, 0, len(menus))}
	for _, m := range menus {
		entry.Menus = append(entry.Menus, *m)
	}
	if c.ttl > 0 {
		entry.ExpiresAt = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[appID] = entry
	return nil
}

func (c *memoryMenuCache) Invalidate(_ context.Context, appID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, appID)
	return nil
}

type nopMenuCache struct{}

// NewNopMenuCache disables caching; every lookup misses.
func NewNopMenuCache() MenuCache { return nopMenuCache{} }

func (nopMenuCache) Get(context.Context, string) ([]*menu.Menu, bool, error) { return nil, false, nil }
func (nopMenuCache) Set(context.Context, string, []*menu.Menu) error         { return nil }
func (nopMenuCache) Invalidate(context.Context, string) error                { return nil }
