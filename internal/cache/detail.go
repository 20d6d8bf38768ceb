package cache

import (
	"context"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
)

// Detail memoizes single-title lookups for the whole session. Entries never
// expire. Two concurrent misses for the same id both fetch and the last one
// to finish is kept; detail data is identical in practice.
type Detail struct {
	mu    sync.RWMutex
	items map[int]domain.CatalogItem
}

// NewDetail creates an empty detail cache
func NewDetail() *Detail {
	return &Detail{items: make(map[int]domain.CatalogItem)}
}

// Get returns the memoized item for id.
func (d *Detail) Get(id int) (domain.CatalogItem, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	item, ok := d.items[id]
	return item, ok
}

// GetOrFetch returns the memoized item or calls fetch, stores and returns its
// result. Fetch errors are not cached.
func (d *Detail) GetOrFetch(ctx context.Context, id int, fetch func(ctx context.Context, id int) (*domain.CatalogItem, error)) (domain.CatalogItem, bool, error) {
	if item, ok := d.Get(id); ok {
		return item, true, nil
	}

	item, err := fetch(ctx, id)
	if err != nil {
		return domain.CatalogItem{}, false, err
	}

	d.mu.Lock()
	d.items[id] = *item
	d.mu.Unlock()
	return *item, false, nil
}

// Len returns the number of memoized items
func (d *Detail) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.items)
}
