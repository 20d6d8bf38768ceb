package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/account"
	"github.com/mmcdole/marquee/internal/adapter/tmdb"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/history"
	"github.com/mmcdole/marquee/internal/listview"
	"github.com/mmcdole/marquee/internal/preferences"
	"github.com/mmcdole/marquee/internal/service"
	"github.com/mmcdole/marquee/internal/tui/components"
	"github.com/mmcdole/marquee/internal/tui/styles"
	"github.com/mmcdole/marquee/internal/wishlist"
)

// ViewMode is the list shown in the main area
type ViewMode int

const (
	ViewTable ViewMode = iota
	ViewScroll
	ViewWishlist
	ViewSearch
)

// ParseViewMode maps a config value to a ViewMode
func ParseViewMode(s string) ViewMode {
	if s == "scroll" || s == "infinite" {
		return ViewScroll
	}
	return ViewTable
}

// Filter cycles
var (
	ratingSteps = []float64{0, 5, 6, 7, 8}
	yearSteps   = []int{0, 2000, 2010, 2020}
)

const statusDuration = 3 * time.Second

// Services bundles the stores and services the UI drives
type Services struct {
	Catalog  *service.CatalogService
	Session  *service.SessionService
	Accounts *account.Store
	Wishlist *wishlist.Store
	Prefs    *preferences.Store
	Searches *history.SearchHistory
	Watched  *history.WatchHistory
}

// Options configures presentation
type Options struct {
	ImageBaseURL string
	AutoAdvance  time.Duration // 0 disables highlight rotation
	DefaultView  ViewMode
	Logger       *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	svc    Services
	opts   Options
	logger *slog.Logger

	// Application state
	Mode      ViewMode
	Ready     bool
	ShowHelp  bool
	SignedOut bool // Set when the user signs out; the caller returns to sign-in

	// List controllers
	endpointIdx int
	table       *listview.Table
	scroll      *listview.Infinite
	results     *listview.Table
	query       string
	highlight   *listview.Highlighter
	cursors     [4]int

	// Filters shared by the table and result views
	genres    []domain.Genre
	genreIdx  int // -1 for all genres
	ratingIdx int
	yearIdx   int
	sortIdx   int

	// UI Components
	searchBox  components.SearchBox
	filterBox  components.SearchBox
	wishFilter string
	detail     components.DetailPane
	showDetail bool
	spinner    spinner.Model

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
	styles      styles.Styles
	text        labels
}

// NewModel creates a new application model
func NewModel(svc Services, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	endpoint := domain.ListEndpoints()[0]
	prefs := svc.Prefs.Get()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		svc:       svc,
		opts:      opts,
		logger:    logger,
		Mode:      opts.DefaultView,
		table:     listview.NewTable(svc.Catalog.ListFetcher(endpoint), logger),
		scroll:    listview.NewInfinite(svc.Catalog.ListFetcher(endpoint), logger),
		results:   listview.NewTable(svc.Catalog.SearchFetcher(""), logger),
		highlight: &listview.Highlighter{},
		genreIdx:  -1,
		searchBox: components.NewSearchBox(svc.Searches.Suggest),
		filterBox: components.NewSearchBox(nil),
		detail:    components.NewDetailPane(),
		spinner:   sp,
	}
	m.applyPreferences(prefs)
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		LoadGenresCmd(m.svc.Catalog),
		PageCmd(ViewTable, m.table.Load),
	}
	if m.Mode == ViewScroll {
		cmds = append(cmds, LoadMoreCmd(m.scroll))
	}
	if m.opts.AutoAdvance > 0 {
		cmds = append(cmds, HighlightTickCmd(m.opts.AutoAdvance))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.detail.SetSize(msg.Width*2/3, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case PageLoadedMsg:
		if msg.Err != nil {
			m.logger.Error("page load failed", "mode", msg.Mode, "error", msg.Err)
			return m, m.setStatus(m.text.FetchFailed, true)
		}
		m.clampCursor(msg.Mode)
		return m, nil

	case MoreLoadedMsg:
		if msg.Err != nil {
			m.logger.Error("infinite load failed", "error", msg.Err)
			return m, m.setStatus(m.text.FetchFailed, true)
		}
		return m, nil

	case GenresLoadedMsg:
		m.genres = msg.Genres
		m.detail.SetGenres(msg.Genres)
		return m, nil

	case DetailLoadedMsg:
		if cur, ok := m.detail.Item(); m.showDetail && ok && cur.ID == msg.Item.ID {
			m.detail.SetItem(msg.Item, tmdb.ImageURL(m.opts.ImageBaseURL, tmdb.SizeW500, msg.Item.PosterPath))
			m.svc.Watched.Record(msg.Item)
		}
		return m, nil

	case DetailFailedMsg:
		if cur, ok := m.detail.Item(); m.showDetail && ok && cur.ID == msg.ID {
			m.detail.SetError(msg.Err)
		}
		return m, nil

	case HighlightTickMsg:
		if m.opts.AutoAdvance <= 0 {
			return m, nil
		}
		m.highlight.Advance(len(m.scroll.State().Items))
		return m, HighlightTickCmd(m.opts.AutoAdvance)

	case ErrMsg:
		m.logger.Error("operation failed", "context", msg.Context, "error", msg.Err)
		text := msg.Error()
		if errors.Is(msg.Err, domain.ErrCatalogFetch) {
			text = m.text.FetchFailed
		}
		return m, m.setStatus(text, true)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal inputs take every key while visible
	if m.searchBox.IsVisible() {
		return m.handleSearchBox(msg)
	}
	if m.filterBox.IsVisible() {
		return m.handleFilterBox(msg)
	}
	if m.showDetail {
		return m.handleDetailKeys(msg)
	}
	if m.ShowHelp {
		m.ShowHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil
	case key.Matches(msg, Keys.SignOut):
		m.svc.Session.Logout()
		m.SignedOut = true
		return m, tea.Quit

	case key.Matches(msg, Keys.TableView):
		return m.switchMode(ViewTable)
	case key.Matches(msg, Keys.ScrollView):
		return m.switchMode(ViewScroll)
	case key.Matches(msg, Keys.WishlistView):
		return m.switchMode(ViewWishlist)
	case key.Matches(msg, Keys.SearchView):
		return m.switchMode(ViewSearch)

	case key.Matches(msg, Keys.Search):
		m.searchBox.Show(m.text.Search)
		return m, nil
	case key.Matches(msg, Keys.Filter):
		if m.Mode == ViewWishlist {
			m.filterBox.Show(m.text.FilterTitle)
		}
		return m, nil

	case key.Matches(msg, Keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, Keys.Down):
		m.moveCursor(1)
		return m, m.boundaryCmd()
	case key.Matches(msg, Keys.Home):
		m.cursors[m.Mode] = 0
		return m, nil
	case key.Matches(msg, Keys.End):
		m.cursors[m.Mode] = len(m.visibleItems()) - 1
		m.clampCursor(m.Mode)
		return m, m.boundaryCmd()

	case key.Matches(msg, Keys.NextPage):
		if tbl := m.pagedTable(); tbl != nil {
			m.cursors[m.Mode] = 0
			return m, PageCmd(m.Mode, tbl.Next)
		}
		return m, nil
	case key.Matches(msg, Keys.PrevPage):
		if tbl := m.pagedTable(); tbl != nil {
			m.cursors[m.Mode] = 0
			return m, PageCmd(m.Mode, tbl.Prev)
		}
		return m, nil
	case key.Matches(msg, Keys.NextTab):
		return m.switchEndpoint(1)
	case key.Matches(msg, Keys.PrevTab):
		return m.switchEndpoint(-1)

	case key.Matches(msg, Keys.Enter):
		return m.openDetail()
	case key.Matches(msg, Keys.Wishlist):
		item, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		return m, m.toggleWishlist(item)

	case key.Matches(msg, Keys.Sort):
		keys := listview.SortKeys()
		m.sortIdx = (m.sortIdx + 1) % len(keys)
		return m.applyFilters()
	case key.Matches(msg, Keys.Genre):
		if len(m.genres) == 0 {
			return m, LoadGenresCmd(m.svc.Catalog)
		}
		m.genreIdx++
		if m.genreIdx >= len(m.genres) {
			m.genreIdx = -1
		}
		return m.applyFilters()
	case key.Matches(msg, Keys.Rating):
		m.ratingIdx = (m.ratingIdx + 1) % len(ratingSteps)
		return m.applyFilters()
	case key.Matches(msg, Keys.Year):
		m.yearIdx = (m.yearIdx + 1) % len(yearSteps)
		return m.applyFilters()
	case key.Matches(msg, Keys.ClearAll):
		m.genreIdx, m.ratingIdx, m.yearIdx, m.sortIdx = -1, 0, 0, 0
		return m.applyFilters()

	case key.Matches(msg, Keys.Refresh):
		return m.refresh()
	case key.Matches(msg, Keys.Theme):
		m.svc.Prefs.ToggleTheme()
		m.applyPreferences(m.svc.Prefs.Get())
		return m, nil
	case key.Matches(msg, Keys.Language):
		m.svc.Prefs.ToggleLanguage()
		m.applyPreferences(m.svc.Prefs.Get())
		return m, nil
	}

	return m, nil
}

func (m Model) handleSearchBox(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var submitted bool
	m.searchBox, cmd, submitted = m.searchBox.Update(msg)
	if !submitted {
		return m, cmd
	}

	query := m.searchBox.Value()
	m.searchBox.Hide()
	m.svc.Searches.Add(query)
	m.query = query
	m.results.SetSource(m.svc.Catalog.SearchFetcher(query))
	m.Mode = ViewSearch
	m.cursors[ViewSearch] = 0
	return m, PageCmd(ViewSearch, m.results.Load)
}

func (m Model) handleFilterBox(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var submitted bool
	m.filterBox, cmd, submitted = m.filterBox.Update(msg)
	if msg.String() == "esc" {
		m.wishFilter = ""
	} else {
		m.wishFilter = m.filterBox.Value()
	}
	if submitted {
		m.filterBox.Hide()
	}
	m.clampCursor(ViewWishlist)
	return m, cmd
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Back), key.Matches(msg, Keys.Enter):
		m.showDetail = false
		m.detail.Clear()
		return m, nil
	case key.Matches(msg, Keys.Wishlist):
		item, ok := m.detail.Item()
		if !ok {
			return m, nil
		}
		cmd := m.toggleWishlist(item)
		m.detail.SetWishlisted(m.svc.Wishlist.IsWishlisted(item.ID))
		return m, cmd
	}
	return m, nil
}

func (m Model) switchMode(mode ViewMode) (tea.Model, tea.Cmd) {
	prev := m.Mode
	m.Mode = mode
	if mode == ViewScroll && prev != ViewScroll {
		// Entering the scroll view always starts over
		m.scroll.Reset()
		m.highlight.Reset()
		m.cursors[ViewScroll] = 0
		return m, LoadMoreCmd(m.scroll)
	}
	m.clampCursor(mode)
	return m, nil
}

func (m Model) switchEndpoint(delta int) (tea.Model, tea.Cmd) {
	if m.Mode != ViewTable && m.Mode != ViewScroll {
		return m, nil
	}
	endpoints := domain.ListEndpoints()
	m.endpointIdx = (m.endpointIdx + delta + len(endpoints)) % len(endpoints)
	fetch := m.svc.Catalog.ListFetcher(endpoints[m.endpointIdx])

	m.table.SetSource(fetch)
	m.scroll.SetSource(fetch)
	m.highlight.Reset()
	m.cursors[ViewTable] = 0
	m.cursors[ViewScroll] = 0

	if m.Mode == ViewScroll {
		return m, LoadMoreCmd(m.scroll)
	}
	return m, PageCmd(ViewTable, m.table.Load)
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	m.svc.Catalog.InvalidateAll()
	switch m.Mode {
	case ViewTable:
		return m, PageCmd(ViewTable, m.table.Load)
	case ViewSearch:
		return m, PageCmd(ViewSearch, m.results.Load)
	case ViewScroll:
		m.scroll.Reset()
		m.cursors[ViewScroll] = 0
		return m, LoadMoreCmd(m.scroll)
	}
	return m, nil
}

func (m Model) openDetail() (tea.Model, tea.Cmd) {
	item, ok := m.selectedItem()
	if !ok {
		return m, nil
	}
	m.showDetail = true
	m.detail.SetLoading(item)
	if at, ok := m.svc.Watched.LastViewed(item.ID); ok {
		m.detail.SetLastViewed(at)
	}
	m.detail.SetWishlisted(m.svc.Wishlist.IsWishlisted(item.ID))
	return m, LoadDetailCmd(m.svc.Catalog, item.ID)
}

func (m Model) toggleWishlist(item domain.CatalogItem) tea.Cmd {
	if m.svc.Wishlist.Toggle(item) {
		return func() tea.Msg { return StatusMsg{Message: m.text.Saved} }
	}
	return func() tea.Msg { return StatusMsg{Message: m.text.Removed} }
}

func (m Model) applyFilters() (tea.Model, tea.Cmd) {
	f := m.filters()
	sortKey := listview.SortKeys()[m.sortIdx]
	m.table.SetFilters(f)
	m.table.SetSort(sortKey)
	m.results.SetFilters(f)
	m.results.SetSort(sortKey)
	m.clampCursor(ViewTable)
	m.clampCursor(ViewSearch)
	return m, nil
}

func (m Model) filters() listview.Filters {
	f := listview.Filters{
		MinRating: ratingSteps[m.ratingIdx],
		MinYear:   yearSteps[m.yearIdx],
	}
	if m.genreIdx >= 0 && m.genreIdx < len(m.genres) {
		f.GenreID = m.genres[m.genreIdx].ID
	}
	return f
}

func (m *Model) applyPreferences(prefs domain.Preferences) {
	m.styles = styles.For(prefs.Theme)
	m.text = textFor(prefs.Language)
	m.spinner.Style = m.styles.Accent
}

// pagedTable returns the table controller behind the current view
func (m Model) pagedTable() *listview.Table {
	switch m.Mode {
	case ViewTable:
		return m.table
	case ViewSearch:
		if m.query == "" {
			return nil
		}
		return m.results
	}
	return nil
}

// visibleItems returns the rows of the current view
func (m Model) visibleItems() []domain.CatalogItem {
	return m.itemsFor(m.Mode)
}

func (m Model) itemsFor(mode ViewMode) []domain.CatalogItem {
	switch mode {
	case ViewTable:
		return m.table.State().View
	case ViewSearch:
		return m.results.State().View
	case ViewScroll:
		return m.scroll.State().Items
	case ViewWishlist:
		return m.svc.Wishlist.Filter(m.wishFilter)
	}
	return nil
}

func (m Model) selectedItem() (domain.CatalogItem, bool) {
	items := m.visibleItems()
	idx := m.cursors[m.Mode]
	if idx < 0 || idx >= len(items) {
		return domain.CatalogItem{}, false
	}
	return items[idx], true
}

func (m *Model) moveCursor(delta int) {
	m.cursors[m.Mode] += delta
	m.clampCursor(m.Mode)
}

func (m *Model) clampCursor(mode ViewMode) {
	n := len(m.itemsFor(mode))
	if m.cursors[mode] >= n {
		m.cursors[mode] = n - 1
	}
	if m.cursors[mode] < 0 {
		m.cursors[mode] = 0
	}
}

// boundaryCmd signals the infinite list when the cursor sits on the last
// loaded row. The controller ignores the signal while a fetch is running.
func (m Model) boundaryCmd() tea.Cmd {
	if m.Mode != ViewScroll {
		return nil
	}
	st := m.scroll.State()
	if !st.HasMore || st.Loading {
		return nil
	}
	if len(st.Items) > 0 && m.cursors[ViewScroll] < len(st.Items)-1 {
		return nil
	}
	return LoadMoreCmd(m.scroll)
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusDuration)
}

// loadingFor reports whether the list behind mode has a fetch in flight
func (m Model) loadingFor(mode ViewMode) bool {
	switch mode {
	case ViewTable:
		return m.table.State().Loading
	case ViewSearch:
		return m.results.State().Loading
	case ViewScroll:
		return m.scroll.State().Loading
	}
	return false
}

// Run starts the program and reports whether the user signed out
func Run(ctx context.Context, svc Services, opts Options) (bool, error) {
	model := NewModel(svc, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if fm, ok := final.(Model); ok {
		return fm.SignedOut, nil
	}
	return false, nil
}
