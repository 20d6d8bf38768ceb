package wishlist

import (
	"errors"
	"testing"

	"github.com/mmcdole/marquee/internal/adapter"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenKV struct {
	domain.KeyValueStore
}

func (brokenKV) Set(name string, value []byte) error {
	return &domain.StorageError{Op: "write", Key: name, Err: errors.New("quota exceeded")}
}

func setupStore(t *testing.T) (*Store, *store.Store) {
	t.Helper()
	kv, err := store.Open("", "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return NewStore(kv, adapter.NullLogger()), kv
}

func ids(items []domain.CatalogItem) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

var (
	heat   = domain.CatalogItem{ID: 1, Title: "Heat"}
	alien  = domain.CatalogItem{ID: 2, Title: "Alien"}
	aliens = domain.CatalogItem{ID: 3, Title: "Aliens"}
)

func TestToggle_AddRemove(t *testing.T) {
	s, _ := setupStore(t)

	assert.True(t, s.Toggle(heat))
	assert.True(t, s.IsWishlisted(heat.ID))
	assert.False(t, s.Toggle(heat))
	assert.False(t, s.IsWishlisted(heat.ID))
	assert.Zero(t, s.Len())
}

func TestToggle_MembershipFlipsEachTime(t *testing.T) {
	s, _ := setupStore(t)

	for i := 1; i <= 5; i++ {
		s.Toggle(alien)
		assert.Equal(t, i%2 == 1, s.IsWishlisted(alien.ID), "after %d toggles", i)
	}
}

func TestToggle_ReAddingAppends(t *testing.T) {
	s, _ := setupStore(t)

	s.Toggle(heat)
	s.Toggle(alien)
	s.Toggle(aliens)
	s.Toggle(heat)
	s.Toggle(heat)

	assert.Equal(t, []int{2, 3, 1}, ids(s.List()))
}

func TestToggle_MatchesByIDOnly(t *testing.T) {
	s, _ := setupStore(t)

	s.Toggle(heat)
	added := s.Toggle(domain.CatalogItem{ID: heat.ID, Title: "Heat (1995)"})
	assert.False(t, added)
	assert.Zero(t, s.Len())
}

func TestPersistence(t *testing.T) {
	s, kv := setupStore(t)
	s.Toggle(heat)
	s.Toggle(alien)

	var stored []domain.CatalogItem
	require.NoError(t, store.ReadJSON(kv, store.KeyWishlist, &stored))
	assert.Equal(t, []int{1, 2}, ids(stored))

	reloaded := NewStore(kv, adapter.NullLogger())
	assert.Equal(t, []int{1, 2}, ids(reloaded.List()))

	reloaded.Clear()
	require.NoError(t, store.ReadJSON(kv, store.KeyWishlist, &stored))
	assert.Empty(t, stored)
}

func TestNewStore_CorruptDataLoadsEmpty(t *testing.T) {
	kv, err := store.Open("", "test")
	require.NoError(t, err)
	require.NoError(t, kv.Set(store.KeyWishlist, []byte(`{"id":1}`)))

	s := NewStore(kv, adapter.NullLogger())
	assert.Zero(t, s.Len())
	assert.True(t, s.Toggle(heat))
}

func TestToggle_WriteFailureStillChangesMemory(t *testing.T) {
	kv, err := store.Open("", "test")
	require.NoError(t, err)
	s := NewStore(brokenKV{kv}, adapter.NullLogger())

	assert.True(t, s.Toggle(heat))
	assert.True(t, s.IsWishlisted(heat.ID))

	_, err = kv.Get(store.KeyWishlist)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_ReturnsCopy(t *testing.T) {
	s, _ := setupStore(t)
	s.Toggle(heat)

	list := s.List()
	list[0].Title = "changed"
	assert.Equal(t, "Heat", s.List()[0].Title)
}

func TestFilter(t *testing.T) {
	s, _ := setupStore(t)
	s.Toggle(heat)
	s.Toggle(alien)
	s.Toggle(aliens)

	assert.Len(t, s.Filter(""), 3)

	got := s.Filter("ALIEN")
	require.Len(t, got, 2)
	assert.ElementsMatch(t, []int{2, 3}, ids(got))

	assert.Equal(t, []int{1}, ids(s.Filter("ht")))
	assert.Empty(t, s.Filter("zzz"))
}
