package listview

import (
	"context"
	"sync"
	"time"
)

// defaultCacheEntries caps a CachedSource. Keys come from public query
// strings, so the map must not grow with them.
const defaultCacheEntries = 256

// CachedSource memoizes successful pages for a fixed TTL. Errors are never cached.
// Expired entries are dropped on lookup and swept on insert; past the entry
// limit the oldest entry is evicted.
type CachedSource[T any] struct {
	src   Source[T]
	ttl   time.Duration
	limit int
	now   func() time.Time

	mu    sync.RWMutex
	items map[Request]cachedPage[T]
}

type cachedPage[T any] struct {
	page    Page[T]
	expires time.Time
}

// NewCached wraps src. A non-positive ttl disables caching.
func NewCached[T any](src Source[T], ttl time.Duration) *CachedSource[T] {
	return &CachedSource[T]{
		src:   src,
		ttl:   ttl,
		limit: defaultCacheEntries,
		now:   time.Now,
		items: map[Request]cachedPage[T]{},
	}
}

func (c *CachedSource[T]) FetchPage(ctx context.Context, req Request) (Page[T], error) {
	if c.ttl <= 0 {
		return c.src.FetchPage(ctx, req)
	}
	c.mu.RLock()
	entry, ok := c.items[req]
	c.mu.RUnlock()
	if ok {
		if c.now().Before(entry.expires) {
			return clonePage(entry.page), nil
		}
		c.mu.Lock()
		if cur, still := c.items[req]; still && !c.now().Before(cur.expires) {
			delete(c.items, req)
		}
		c.mu.Unlock()
	}

	page, err := c.src.FetchPage(ctx, req)
	if err != nil {
		return Page[T]{}, err
	}
	c.mu.Lock()
	c.storeLocked(req, page)
	c.mu.Unlock()
	return page, nil
}

func (c *CachedSource[T]) storeLocked(req Request, page Page[T]) {
	now := c.now()
	for k, e := range c.items {
		if !now.Before(e.expires) {
			delete(c.items, k)
		}
	}
	if _, exists := c.items[req]; !exists && c.limit > 0 {
		for len(c.items) >= c.limit {
			c.evictOldestLocked()
		}
	}
	c.items[req] = cachedPage[T]{page: clonePage(page), expires: now.Add(c.ttl)}
}

func (c *CachedSource[T]) evictOldestLocked() {
	var (
		oldest  Request
		expires time.Time
		found   bool
	)
	for k, e := range c.items {
		if !found || e.expires.Before(expires) {
			oldest, expires, found = k, e.expires, true
		}
	}
	if found {
		delete(c.items, oldest)
	}
}

// Len reports how many pages are cached.
func (c *CachedSource[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Invalidate drops every cached page.
func (c *CachedSource[T]) Invalidate() {
	c.mu.Lock()
	c.items = map[Request]cachedPage[T]{}
	c.mu.Unlock()
}

func clonePage[T any](p Page[T]) Page[T] {
	items := make([]T, len(p.Items))
	copy(items, p.Items)
	return Page[T]{TotalCount: p.TotalCount, Items: items}
}
