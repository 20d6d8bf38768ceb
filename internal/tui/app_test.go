package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/account"
	"github.com/mmcdole/marquee/internal/adapter"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/history"
	"github.com/mmcdole/marquee/internal/preferences"
	"github.com/mmcdole/marquee/internal/service"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tui/styles"
	"github.com/mmcdole/marquee/internal/wishlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	pages map[int][]domain.CatalogItem
}

func (s stubCatalog) FetchList(ctx context.Context, endpoint domain.ListEndpoint, page int) ([]domain.CatalogItem, error) {
	return s.pages[page], nil
}

func (s stubCatalog) Search(ctx context.Context, query string, page int) ([]domain.CatalogItem, error) {
	if page > 1 {
		return nil, nil
	}
	return []domain.CatalogItem{{ID: 900, Title: query}}, nil
}

func (s stubCatalog) FetchGenres(ctx context.Context) ([]domain.Genre, error) {
	return []domain.Genre{{ID: 28, Name: "Action"}}, nil
}

func (s stubCatalog) FetchDetail(ctx context.Context, id int) (*domain.CatalogItem, error) {
	return &domain.CatalogItem{ID: id, Title: "detail", Overview: "plot"}, nil
}

func setupModel(t *testing.T) (Model, Services) {
	t.Helper()
	kv, err := store.Open("", "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	logger := adapter.NullLogger()
	client := stubCatalog{pages: map[int][]domain.CatalogItem{
		1: {
			{ID: 1, Title: "A", VoteAverage: 7.5, GenreIDs: []int{28}},
			{ID: 2, Title: "B", VoteAverage: 9.0},
		},
		2: {{ID: 3, Title: "C", VoteAverage: 6.1}},
	}}

	catalog := service.NewCatalogService(client, kv, service.CatalogOptions{}, logger)
	accounts := account.NewStore(kv, logger)
	svc := Services{
		Catalog:  catalog,
		Session:  service.NewSessionService(accounts, catalog),
		Accounts: accounts,
		Wishlist: wishlist.NewStore(kv, logger),
		Prefs:    preferences.NewStore(kv, logger),
		Searches: history.NewSearchHistory(kv, logger),
		Watched:  history.NewWatchHistory(kv, logger),
	}
	m := NewModel(svc, Options{Logger: logger})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, svc
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// run executes cmd and feeds its message back into the model
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	return update(t, m, cmd())
}

func TestModel_TablePaging(t *testing.T) {
	m, _ := setupModel(t)
	m = run(t, m, PageCmd(ViewTable, m.table.Load))
	assert.Len(t, m.visibleItems(), 2)

	m, cmd := press(t, m, "l")
	m = run(t, m, cmd)
	assert.Equal(t, 2, m.table.State().Page)
	assert.Equal(t, "C", m.visibleItems()[0].Title)

	m, cmd = press(t, m, "h")
	m = run(t, m, cmd)
	assert.Equal(t, 1, m.table.State().Page)
	assert.NotEmpty(t, m.View())
}

func TestModel_SortAndFiltersReDerive(t *testing.T) {
	m, _ := setupModel(t)
	m = run(t, m, PageCmd(ViewTable, m.table.Load))

	m, _ = press(t, m, "s")
	assert.Equal(t, "B", m.visibleItems()[0].Title, "rating sort puts 9.0 first")

	m = update(t, m, GenresLoadedMsg{Genres: []domain.Genre{{ID: 28, Name: "Action"}}})
	m, _ = press(t, m, "g")
	require.Len(t, m.visibleItems(), 1)
	assert.Equal(t, "A", m.visibleItems()[0].Title)

	m, _ = press(t, m, "x")
	assert.Len(t, m.visibleItems(), 2)
}

func TestModel_WishlistToggle(t *testing.T) {
	m, svc := setupModel(t)
	m = run(t, m, PageCmd(ViewTable, m.table.Load))

	m, cmd := press(t, m, "w")
	assert.True(t, svc.Wishlist.IsWishlisted(1))
	m = run(t, m, cmd)
	assert.NotEmpty(t, m.StatusMsg)

	m, _ = press(t, m, "3")
	assert.Equal(t, ViewWishlist, m.Mode)
	assert.Len(t, m.visibleItems(), 1)

	m, _ = press(t, m, "w")
	assert.False(t, svc.Wishlist.IsWishlisted(1))
	assert.Empty(t, m.visibleItems())
}

func TestModel_SearchRecordsHistory(t *testing.T) {
	m, svc := setupModel(t)

	m, _ = press(t, m, "/")
	require.True(t, m.searchBox.IsVisible())
	m, _ = press(t, m, "heat")
	m, cmd := press(t, m, "enter")

	assert.False(t, m.searchBox.IsVisible())
	assert.Equal(t, ViewSearch, m.Mode)
	assert.Equal(t, []string{"heat"}, svc.Searches.List())

	m = run(t, m, cmd)
	items := m.visibleItems()
	require.Len(t, items, 1)
	assert.Equal(t, "heat", items[0].Title)
}

func TestModel_ScrollLoadsAtBoundary(t *testing.T) {
	m, _ := setupModel(t)

	m, cmd := press(t, m, "2")
	assert.Equal(t, ViewScroll, m.Mode)
	m = run(t, m, cmd)
	assert.Len(t, m.visibleItems(), 2)

	m, cmd = press(t, m, "G")
	m = run(t, m, cmd)
	assert.Len(t, m.visibleItems(), 3)

	m, cmd = press(t, m, "G")
	m = run(t, m, cmd)
	assert.False(t, m.scroll.State().HasMore)

	_, cmd = press(t, m, "G")
	assert.Nil(t, cmd, "no boundary signal once exhausted")
}

func TestModel_DetailRecordsWatchHistory(t *testing.T) {
	m, svc := setupModel(t)
	m = run(t, m, PageCmd(ViewTable, m.table.Load))

	m, cmd := press(t, m, "enter")
	assert.True(t, m.showDetail)
	m = run(t, m, cmd)

	item, ok := m.detail.Item()
	require.True(t, ok)
	assert.Equal(t, "plot", item.Overview)
	require.Len(t, svc.Watched.List(), 1)
	assert.Equal(t, 1, svc.Watched.List()[0].ID)

	m, _ = press(t, m, "esc")
	assert.False(t, m.showDetail)

	// Reopening shows when the title was last viewed
	m, _ = press(t, m, "enter")
	view := m.detail.View(m.styles, m.text.Detail)
	assert.Contains(t, view, m.text.Detail.LastViewed)
	assert.Contains(t, view, "★ 7.5")
}

func TestModel_PreferencesToggle(t *testing.T) {
	m, svc := setupModel(t)

	m, _ = press(t, m, "t")
	assert.Equal(t, domain.ThemeDark, svc.Prefs.Get().Theme)
	assert.Equal(t, styles.Dark, m.styles.Palette)

	m, _ = press(t, m, "L")
	assert.Equal(t, domain.LanguageEnglish, svc.Prefs.Get().Language)
	assert.Equal(t, "Table", m.text.Views[0])
}

func TestModel_SignOut(t *testing.T) {
	m, svc := setupModel(t)
	require.NoError(t, svc.Accounts.SignUp("kim@example.com", "k", "k", true))
	require.NoError(t, svc.Accounts.SignIn("kim@example.com", "k", false))
	assert.Contains(t, m.renderHeader(), "kim@example.com")

	m, cmd := press(t, m, "O")
	assert.True(t, m.SignedOut)
	assert.False(t, svc.Accounts.Session().Authenticated)
	assert.NotNil(t, cmd)
	assert.NotContains(t, m.renderHeader(), "kim@example.com")
}

func TestParseViewMode(t *testing.T) {
	assert.Equal(t, ViewScroll, ParseViewMode("scroll"))
	assert.Equal(t, ViewTable, ParseViewMode("table"))
	assert.Equal(t, ViewTable, ParseViewMode(""))
}
