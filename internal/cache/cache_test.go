package cache

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestTTL_RoundTripWithinWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewTTL[[]int](5 * time.Minute).WithClock(clock.Now)

	c.Set("k", []int{1, 2})
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, got)

	clock.Advance(4*time.Minute + 59*time.Second)
	_, ok = c.Get("k")
	assert.True(t, ok, "still fresh just before the TTL")

	clock.Advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok, "age == ttl is stale")
}

func TestTTL_SetOverwritesAndRestamps(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := NewTTL[string](time.Minute).WithClock(clock.Now)

	c.Set("k", "old")
	clock.Advance(50 * time.Second)
	c.Set("k", "new")
	clock.Advance(30 * time.Second)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestTTL_DeletePurgeLen(t *testing.T) {
	c := NewTTL[int](0)
	c.Set("a", 1)
	c.Set("b", 2)
	assert.Equal(t, 2, c.Len())

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestKey_Deterministic(t *testing.T) {
	a := url.Values{}
	a.Set("page", "1")
	a.Set("language", "ko-KR")
	a.Set("region", "KR")

	b := url.Values{}
	b.Set("region", "KR")
	b.Set("language", "ko-KR")
	b.Set("page", "1")

	assert.Equal(t, Key("/movie/popular", a), Key("/movie/popular", b))
	assert.Equal(t, "/movie/popular?language=ko-KR&page=1&region=KR", Key("/movie/popular", a))
	assert.NotEqual(t, Key("/movie/popular", a), Key("/movie/top_rated", a))
	assert.Equal(t, "/genre/movie/list", Key("/genre/movie/list", nil))
}

func TestDetail_GetOrFetchMemoizes(t *testing.T) {
	d := NewDetail()
	var calls atomic.Int32
	fetch := func(ctx context.Context, id int) (*domain.CatalogItem, error) {
		calls.Add(1)
		return &domain.CatalogItem{ID: id, Title: "Arrival"}, nil
	}

	item, hit, err := d.GetOrFetch(context.Background(), 329865, fetch)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "Arrival", item.Title)

	item, hit, err = d.GetOrFetch(context.Background(), 329865, fetch)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 329865, item.ID)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, d.Len())
}

func TestDetail_ErrorsAreNotCached(t *testing.T) {
	d := NewDetail()
	boom := errors.New("boom")
	_, _, err := d.GetOrFetch(context.Background(), 1, func(context.Context, int) (*domain.CatalogItem, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, d.Len())
}
