package listview

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
)

// TableState is a snapshot of a Table
type TableState struct {
	Page    int
	Items   []domain.CatalogItem // Last successful page, service order
	View    []domain.CatalogItem // Items after filters and sort
	Filters Filters
	Sort    SortKey
	Loading bool
	Err     error // Last fetch failure; cleared by the next success
}

// Table is the paged list controller. A failed fetch keeps the previous page
// visible. When loads overlap, only the most recently started one may commit.
type Table struct {
	logger *slog.Logger

	mu      sync.Mutex
	fetch   domain.PageFetcher
	page    int
	items   []domain.CatalogItem
	filters Filters
	sort    SortKey
	loading bool
	err     error
	seq     uint64
}

// NewTable creates a table controller positioned at page 1
func NewTable(fetch domain.PageFetcher, logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	return &Table{fetch: fetch, page: 1, logger: logger}
}

// Load fetches the current page. A response that was superseded by a newer
// request is dropped and Load returns nil.
func (t *Table) Load(ctx context.Context) error {
	t.mu.Lock()
	page := t.page
	t.mu.Unlock()
	return t.loadPage(ctx, page)
}

// Next loads the page after the current one
func (t *Table) Next(ctx context.Context) error {
	t.mu.Lock()
	page := t.page + 1
	t.mu.Unlock()
	return t.loadPage(ctx, page)
}

// Prev loads the page before the current one. On page 1 it does nothing.
func (t *Table) Prev(ctx context.Context) error {
	t.mu.Lock()
	page := t.page - 1
	t.mu.Unlock()
	if page < 1 {
		return nil
	}
	return t.loadPage(ctx, page)
}

// SetPage jumps to page (at least 1) and loads it
func (t *Table) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	return t.loadPage(ctx, page)
}

// loadPage fetches page and makes it current on success. On failure the
// current page and its items stay as they were, so the next Next asks for
// the failed page again.
func (t *Table) loadPage(ctx context.Context, page int) error {
	t.mu.Lock()
	t.seq++
	seq := t.seq
	fetch := t.fetch
	t.loading = true
	t.mu.Unlock()

	items, err := fetch(ctx, page)

	t.mu.Lock()
	defer t.mu.Unlock()
	if seq != t.seq {
		t.logger.Debug("dropping stale page", "page", page)
		return nil
	}
	t.loading = false
	if err != nil {
		t.err = err
		t.logger.Debug("page load failed", "page", page, "current", t.page)
		return err
	}
	t.page = page
	t.items = items
	t.err = nil
	return nil
}

// SetSource switches to another listing and rewinds to page 1. Loads still
// in flight for the old source will not commit. Call Load afterwards.
func (t *Table) SetSource(fetch domain.PageFetcher) {
	t.mu.Lock()
	t.fetch = fetch
	t.page = 1
	t.err = nil
	t.loading = false
	t.seq++
	t.mu.Unlock()
}

// SetFilters replaces the filters. The view is re-derived without a fetch.
func (t *Table) SetFilters(f Filters) {
	t.mu.Lock()
	t.filters = f
	t.mu.Unlock()
}

// SetSort replaces the sort key. The view is re-derived without a fetch.
func (t *Table) SetSort(k SortKey) {
	t.mu.Lock()
	t.sort = k
	t.mu.Unlock()
}

// State returns a snapshot including the derived view
func (t *Table) State() TableState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TableState{
		Page:    t.page,
		Items:   slices.Clone(t.items),
		View:    Derive(t.items, t.filters, t.sort),
		Filters: t.filters,
		Sort:    t.sort,
		Loading: t.loading,
		Err:     t.err,
	}
}
