package github

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Tibrahi/portfolio/internal/catalog"
)

type pageEntry struct {
	page    catalog.Page
	expires time.Time
}

// PageCache shares upstream pages between every mounted view. Successful pages
// are kept for ttl and concurrent requests for one page share a single call.
// Failures are never cached.
type PageCache struct {
	next catalog.Fetcher
	ttl  time.Duration
	now  func() time.Time

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]pageEntry
}

// NewPageCache wraps next. A ttl of zero or less only collapses concurrent calls.
func NewPageCache(next catalog.Fetcher, ttl time.Duration) *PageCache {
	return &PageCache{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]pageEntry),
	}
}

// FetchPage serves page from the cache or fetches it from next.
func (c *PageCache) FetchPage(ctx context.Context, owner string, page, size int) (catalog.Page, error) {
	key := fmt.Sprintf("%s/%d/%d", owner, page, size)
	if p, ok := c.cached(key); ok {
		return p, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		p, err := c.next.FetchPage(ctx, owner, page, size)
		if err != nil {
			return catalog.Page{}, err
		}
		c.store(key, p)
		return p, nil
	})
	if err != nil {
		return catalog.Page{}, err
	}
	return clonePage(v.(catalog.Page)), nil
}

func (c *PageCache) cached(key string) (catalog.Page, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return catalog.Page{}, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return catalog.Page{}, false
	}
	return clonePage(e.page), true
}

func (c *PageCache) store(key string, p catalog.Page) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = pageEntry{page: p, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// clonePage copies the record slice so callers never share backing arrays.
func clonePage(p catalog.Page) catalog.Page {
	p.Records = append([]catalog.RawRecord(nil), p.Records...)
	return p
}
