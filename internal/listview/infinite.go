package listview

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
)

// InfiniteState is a snapshot of an Infinite
type InfiniteState struct {
	Items   []domain.CatalogItem // Accumulated, in load order
	Page    int                  // Next page to fetch
	HasMore bool
	Loading bool
	Err     error
}

// Infinite is the append-only list controller driven by a boundary signal.
// At most one fetch runs at a time. An empty page ends the list for good;
// a failed page leaves the cursor in place so the next signal retries it.
type Infinite struct {
	logger *slog.Logger

	mu      sync.Mutex
	fetch   domain.PageFetcher
	items   []domain.CatalogItem
	seen    map[int]struct{}
	page    int
	hasMore bool
	loading bool
	err     error
	gen     uint64
}

// NewInfinite creates a controller in its reset state
func NewInfinite(fetch domain.PageFetcher, logger *slog.Logger) *Infinite {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Infinite{fetch: fetch, logger: logger}
	c.Reset()
	return c
}

// Reset clears the accumulated items and rewinds to page 1. A fetch in
// flight when Reset is called is discarded on arrival.
func (c *Infinite) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// SetSource switches to another listing and resets
func (c *Infinite) SetSource(fetch domain.PageFetcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetch = fetch
	c.resetLocked()
}

func (c *Infinite) resetLocked() {
	c.items = nil
	c.seen = make(map[int]struct{})
	c.page = 1
	c.hasMore = true
	c.loading = false
	c.err = nil
	c.gen++
}

// LoadMore handles one boundary signal. It reports whether a fetch was
// started; signals while loading or after the end are ignored.
func (c *Infinite) LoadMore(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.loading || !c.hasMore {
		c.mu.Unlock()
		return false, nil
	}
	c.loading = true
	gen := c.gen
	page := c.page
	fetch := c.fetch
	c.mu.Unlock()

	items, err := fetch(ctx, page)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.logger.Debug("discarding page fetched before reset", "page", page)
		return true, nil
	}
	c.loading = false
	if err != nil {
		c.err = err
		return true, err
	}
	c.err = nil

	if len(items) == 0 {
		c.hasMore = false
		c.logger.Debug("list exhausted", "page", page, "count", len(c.items))
		return true, nil
	}

	for _, item := range items {
		if _, dup := c.seen[item.ID]; dup {
			continue
		}
		c.seen[item.ID] = struct{}{}
		c.items = append(c.items, item)
	}
	c.page++
	return true, nil
}

// State returns a snapshot
func (c *Infinite) State() InfiniteState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return InfiniteState{
		Items:   slices.Clone(c.items),
		Page:    c.page,
		HasMore: c.hasMore,
		Loading: c.loading,
		Err:     c.err,
	}
}
