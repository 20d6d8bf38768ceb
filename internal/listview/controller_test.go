package listview

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = &domain.CatalogFetchError{Path: "/movie/popular", Err: errors.New("boom")}

// pagedSource serves fixed pages and records requested page numbers
type pagedSource struct {
	mu    sync.Mutex
	pages map[int][]domain.CatalogItem
	fail  map[int]error
	calls []int
}

func (p *pagedSource) fetch(ctx context.Context, page int) ([]domain.CatalogItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, page)
	if err := p.fail[page]; err != nil {
		return nil, err
	}
	return p.pages[page], nil
}

func (p *pagedSource) requested() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.calls...)
}

func items(ids ...int) []domain.CatalogItem {
	out := make([]domain.CatalogItem, len(ids))
	for i, id := range ids {
		out[i] = domain.CatalogItem{ID: id, VoteAverage: float64(id)}
	}
	return out
}

func TestTable_PagingAndFloor(t *testing.T) {
	src := &pagedSource{pages: map[int][]domain.CatalogItem{1: items(1, 2), 2: items(3, 4)}}
	tbl := NewTable(src.fetch, nil)
	ctx := context.Background()

	require.NoError(t, tbl.Load(ctx))
	require.NoError(t, tbl.Next(ctx))
	st := tbl.State()
	assert.Equal(t, 2, st.Page)
	assert.Equal(t, []int{3, 4}, idsOf(st.Items))

	require.NoError(t, tbl.Prev(ctx))
	require.NoError(t, tbl.Prev(ctx))
	assert.Equal(t, 1, tbl.State().Page)
	assert.Equal(t, []int{1, 2, 1}, src.requested(), "prev on page 1 does not fetch")

	require.NoError(t, tbl.SetPage(ctx, -4))
	assert.Equal(t, 1, tbl.State().Page)
}

func TestTable_FailureKeepsPriorItems(t *testing.T) {
	src := &pagedSource{
		pages: map[int][]domain.CatalogItem{1: items(1, 2)},
		fail:  map[int]error{2: errBoom},
	}
	tbl := NewTable(src.fetch, nil)
	ctx := context.Background()
	require.NoError(t, tbl.Load(ctx))

	err := tbl.Next(ctx)
	assert.ErrorIs(t, err, domain.ErrCatalogFetch)

	st := tbl.State()
	assert.Equal(t, 1, st.Page, "failed page is not made current")
	assert.Equal(t, []int{1, 2}, idsOf(st.Items))
	assert.ErrorIs(t, st.Err, domain.ErrCatalogFetch)
	assert.False(t, st.Loading)

	src.mu.Lock()
	delete(src.fail, 2)
	src.pages[2] = items(3)
	src.mu.Unlock()

	require.NoError(t, tbl.Next(ctx))
	st = tbl.State()
	assert.Equal(t, []int{1, 2, 2}, src.requested(), "next retries the failed page")
	assert.Equal(t, 2, st.Page)
	assert.Equal(t, []int{3}, idsOf(st.Items))
	assert.NoError(t, st.Err, "success clears the error")
}

func TestTable_FiltersAndSortDoNotFetch(t *testing.T) {
	src := &pagedSource{pages: map[int][]domain.CatalogItem{1: items(5, 9, 7)}}
	tbl := NewTable(src.fetch, nil)
	require.NoError(t, tbl.Load(context.Background()))

	tbl.SetSort(SortRating)
	tbl.SetFilters(Filters{MinRating: 6})
	st := tbl.State()
	assert.Equal(t, []int{9, 7}, idsOf(st.View))
	assert.Equal(t, []int{5, 9, 7}, idsOf(st.Items))
	assert.Len(t, src.requested(), 1)
}

func TestTable_StaleResponseIsDropped(t *testing.T) {
	slowRelease := make(chan struct{})
	slowStarted := make(chan struct{})
	fetch := func(ctx context.Context, page int) ([]domain.CatalogItem, error) {
		if page == 1 {
			close(slowStarted)
			<-slowRelease
			return items(1), nil
		}
		return items(2), nil
	}
	tbl := NewTable(fetch, nil)
	ctx := context.Background()

	done := make(chan error)
	go func() { done <- tbl.Load(ctx) }()
	<-slowStarted

	require.NoError(t, tbl.Next(ctx))
	close(slowRelease)
	require.NoError(t, <-done)

	st := tbl.State()
	assert.Equal(t, 2, st.Page)
	assert.Equal(t, []int{2}, idsOf(st.Items))
}

func TestTable_SetSourceRewinds(t *testing.T) {
	a := &pagedSource{pages: map[int][]domain.CatalogItem{1: items(1), 2: items(2)}}
	b := &pagedSource{pages: map[int][]domain.CatalogItem{1: items(10)}}
	tbl := NewTable(a.fetch, nil)
	ctx := context.Background()
	require.NoError(t, tbl.SetPage(ctx, 2))

	tbl.SetSource(b.fetch)
	require.NoError(t, tbl.Load(ctx))
	st := tbl.State()
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, []int{10}, idsOf(st.Items))
}

func TestInfinite_AppendsUntilEmptyPage(t *testing.T) {
	src := &pagedSource{pages: map[int][]domain.CatalogItem{1: items(1, 2)}}
	inf := NewInfinite(src.fetch, nil)
	ctx := context.Background()

	started, err := inf.LoadMore(ctx)
	require.NoError(t, err)
	assert.True(t, started)
	st := inf.State()
	assert.Equal(t, []int{1, 2}, idsOf(st.Items))
	assert.Equal(t, 2, st.Page)
	assert.True(t, st.HasMore)

	started, err = inf.LoadMore(ctx)
	require.NoError(t, err)
	assert.True(t, started)
	st = inf.State()
	assert.False(t, st.HasMore)
	assert.Equal(t, []int{1, 2}, idsOf(st.Items))

	started, err = inf.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, started)
	assert.Equal(t, []int{1, 2}, src.requested(), "no request after exhaustion")
}

func TestInfinite_DoubleTriggerIssuesOneRequest(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(ctx context.Context, page int) ([]domain.CatalogItem, error) {
		calls.Add(1)
		<-release
		return items(page), nil
	}
	inf := NewInfinite(fetch, nil)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		_, _ = inf.LoadMore(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return inf.State().Loading }, time.Second, time.Millisecond)

	started, err := inf.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, started)

	close(release)
	<-done
	assert.EqualValues(t, 1, calls.Load())

	started, err = inf.LoadMore(ctx)
	require.NoError(t, err)
	assert.True(t, started)
	assert.Equal(t, []int{1, 2}, idsOf(inf.State().Items), "no page skipped")
}

func TestInfinite_ErrorRetriesSamePage(t *testing.T) {
	src := &pagedSource{
		pages: map[int][]domain.CatalogItem{1: items(1), 2: items(2)},
		fail:  map[int]error{2: errBoom},
	}
	inf := NewInfinite(src.fetch, nil)
	ctx := context.Background()

	_, err := inf.LoadMore(ctx)
	require.NoError(t, err)
	_, err = inf.LoadMore(ctx)
	assert.ErrorIs(t, err, domain.ErrCatalogFetch)

	st := inf.State()
	assert.True(t, st.HasMore)
	assert.Equal(t, 2, st.Page)
	assert.Error(t, st.Err)

	src.mu.Lock()
	delete(src.fail, 2)
	src.mu.Unlock()

	_, err = inf.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, idsOf(inf.State().Items))
	assert.Equal(t, []int{1, 2, 2}, src.requested())
}

func TestInfinite_DedupesAcrossPages(t *testing.T) {
	src := &pagedSource{pages: map[int][]domain.CatalogItem{1: items(1, 2), 2: items(2, 3)}}
	inf := NewInfinite(src.fetch, nil)
	ctx := context.Background()

	_, _ = inf.LoadMore(ctx)
	_, _ = inf.LoadMore(ctx)
	assert.Equal(t, []int{1, 2, 3}, idsOf(inf.State().Items))
}

func TestInfinite_ResetDiscardsInFlightResult(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	fetch := func(ctx context.Context, page int) ([]domain.CatalogItem, error) {
		started <- struct{}{}
		<-release
		return items(42), nil
	}
	inf := NewInfinite(fetch, nil)

	done := make(chan struct{})
	go func() {
		_, _ = inf.LoadMore(context.Background())
		close(done)
	}()
	<-started

	inf.Reset()
	close(release)
	<-done

	st := inf.State()
	assert.Empty(t, st.Items)
	assert.Equal(t, 1, st.Page)
	assert.True(t, st.HasMore)
	assert.False(t, st.Loading)
}

func TestHighlighter(t *testing.T) {
	var h Highlighter
	assert.Equal(t, 1, h.Advance(3))
	assert.Equal(t, 2, h.Advance(3))
	assert.Equal(t, 0, h.Advance(3))
	assert.Equal(t, 0, h.Advance(0))

	h.Advance(5)
	assert.Equal(t, 1, h.Index(5))
	assert.Equal(t, 0, h.Index(1))
	h.Reset()
	assert.Equal(t, 0, h.Index(5))
}
