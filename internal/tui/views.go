package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/listview"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Column widths for list rows
const (
	markWidth   = 2
	yearWidth   = 6
	ratingWidth = 6
	minTitle    = 10

	// header, tabs, filter bar, footer
	chromeHeight = 5
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return m.spinner.View() + " " + m.text.Loading
	}

	body := m.renderBody()
	switch {
	case m.searchBox.IsVisible():
		body = m.overlay(m.searchBox.View(m.styles, m.Width/2))
	case m.filterBox.IsVisible():
		body = m.overlay(m.filterBox.View(m.styles, m.Width/2))
	case m.showDetail:
		body = m.overlay(m.detail.View(m.styles, m.text.Detail))
	case m.ShowHelp:
		body = m.overlay(m.renderHelp())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTabs(),
		m.renderFilterBar(),
		body,
		m.renderFooter(),
	)
}

func (m Model) overlay(content string) string {
	return lipgloss.Place(m.Width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, content)
}

func (m Model) bodyHeight() int {
	h := m.Height - chromeHeight
	if h < 3 {
		h = 3
	}
	return h
}

func (m Model) renderHeader() string {
	left := m.styles.Badge.Render("MARQUEE")
	right := ""
	if acct, ok := m.svc.Accounts.CurrentAccount(); ok {
		right = m.styles.Dim.Render(m.text.SignedInAs + " " + acct.ID)
	}
	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderTabs() string {
	var parts []string
	for i, name := range m.text.Views {
		label := fmt.Sprintf("%d %s", i+1, name)
		if ViewMode(i) == ViewWishlist {
			label = fmt.Sprintf("%s (%d)", label, m.svc.Wishlist.Len())
		}
		if ViewMode(i) == m.Mode {
			parts = append(parts, m.styles.ActiveTab.Render(label))
		} else {
			parts = append(parts, m.styles.Tab.Render(label))
		}
	}

	if m.Mode == ViewTable || m.Mode == ViewScroll {
		parts = append(parts, m.styles.Dim.Render("│"))
		for i, ep := range domain.ListEndpoints() {
			label := m.text.Endpoints[ep]
			if i == m.endpointIdx {
				parts = append(parts, m.styles.Accent.Render(label))
			} else {
				parts = append(parts, m.styles.Dim.Render(label))
			}
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderFilterBar() string {
	switch m.Mode {
	case ViewWishlist:
		if m.wishFilter == "" {
			return ""
		}
		return m.styles.Accent.Render("/ " + m.wishFilter)
	case ViewScroll:
		return ""
	}

	genre := m.text.AllGenres
	if m.genreIdx >= 0 && m.genreIdx < len(m.genres) {
		genre = m.genres[m.genreIdx].Name
	}
	sortKey := listview.SortKeys()[m.sortIdx]

	parts := []string{
		m.chip(m.text.Genre, genre, m.genreIdx >= 0),
		m.chip(m.text.Sort, m.text.Sorts[sortKey], sortKey != listview.SortNone),
		m.chip(m.text.MinRating, fmt.Sprintf("%.0f+", ratingSteps[m.ratingIdx]), m.ratingIdx > 0),
		m.chip(m.text.MinYear, fmt.Sprintf("%d+", yearSteps[m.yearIdx]), m.yearIdx > 0),
	}
	if m.filters().Active() {
		h := Keys.ClearAll.Help()
		parts = append(parts, m.styles.HelpKey.Render(h.Key)+" "+m.styles.HelpDesc.Render(h.Desc))
	}
	if m.Mode == ViewSearch && m.query != "" {
		parts = append([]string{m.styles.Accent.Render("\"" + m.query + "\"")}, parts...)
	}
	return strings.Join(parts, " ")
}

func (m Model) chip(name, value string, active bool) string {
	if active {
		return m.styles.Badge.Render(name + " " + value)
	}
	return m.styles.DimBadge.Render(name + " " + value)
}

func (m Model) renderBody() string {
	items := m.visibleItems()
	height := m.bodyHeight()

	if len(items) == 0 {
		msg := m.text.Empty
		if m.loadingFor(m.Mode) {
			msg = m.spinner.View() + " " + m.text.Loading
		}
		return lipgloss.NewStyle().Height(height).Render(m.styles.Dim.Render(msg))
	}

	// Keep the cursor in view
	cursor := m.cursors[m.Mode]
	rowsAvail := height - 1
	if rowsAvail < 1 {
		rowsAvail = 1
	}
	start := 0
	if cursor >= rowsAvail {
		start = cursor - rowsAvail + 1
	}
	end := start + rowsAvail
	if end > len(items) {
		end = len(items)
	}

	highlighted := -1
	if m.Mode == ViewScroll && m.opts.AutoAdvance > 0 {
		highlighted = m.highlight.Index(len(items))
	}

	lines := make([]string, 0, rowsAvail+1)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(items[i], i == cursor, i == highlighted))
	}
	lines = append(lines, m.renderListStatus(len(items)))

	return lipgloss.NewStyle().Height(height).Render(strings.Join(lines, "\n"))
}

func (m Model) renderRow(item domain.CatalogItem, selected, highlighted bool) string {
	titleWidth := m.Width - markWidth - yearWidth - ratingWidth - 4
	if titleWidth < minTitle {
		titleWidth = minTitle
	}

	mark := "  "
	if m.svc.Wishlist.IsWishlisted(item.ID) {
		mark = styles.Star + " "
	}
	year := ""
	if y := item.Year(); y > 0 {
		year = fmt.Sprintf("%d", y)
	}

	row := mark +
		styles.Pad(item.Title, titleWidth) +
		styles.Pad(year, yearWidth) +
		fmt.Sprintf("%*.1f", ratingWidth-1, item.VoteAverage)

	switch {
	case selected:
		return m.styles.Selected.Render(row)
	case highlighted:
		return m.styles.Highlight.Render(row)
	default:
		return m.styles.Row.Render(row)
	}
}

func (m Model) renderListStatus(count int) string {
	switch m.Mode {
	case ViewTable, ViewSearch:
		tbl := m.pagedTable()
		if tbl == nil {
			return ""
		}
		st := tbl.State()
		text := fmt.Sprintf("%s %d · %d/%d", m.text.Page, st.Page, len(st.View), len(st.Items))
		if st.Loading {
			text = m.spinner.View() + " " + text
		}
		return m.styles.Dim.Render(text)
	case ViewScroll:
		st := m.scroll.State()
		switch {
		case st.Loading:
			return m.styles.Dim.Render(m.spinner.View() + " " + m.text.Loading)
		case !st.HasMore:
			return m.styles.Dim.Render(fmt.Sprintf("%s · %d", m.text.End, count))
		}
		return m.styles.Dim.Render(fmt.Sprintf("%d ↓", count))
	}
	return m.styles.Dim.Render(fmt.Sprintf("%d", count))
}

func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return m.styles.Error.Render(m.StatusMsg)
		}
		return m.styles.Success.Render(m.StatusMsg)
	}

	bindings := []key.Binding{Keys.Search, Keys.Enter, Keys.Wishlist, Keys.NextTab, Keys.Sort, Keys.Genre, Keys.Help, Keys.Quit}
	return m.renderBindings(bindings, " ")
}

func (m Model) renderBindings(bindings []key.Binding, sep string) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, m.styles.HelpKey.Render(h.Key)+" "+m.styles.HelpDesc.Render(h.Desc))
	}
	return strings.Join(parts, sep)
}

func (m Model) renderHelp() string {
	groups := [][]key.Binding{
		{Keys.Up, Keys.Down, Keys.Home, Keys.End, Keys.NextPage, Keys.PrevPage, Keys.NextTab, Keys.PrevTab},
		{Keys.TableView, Keys.ScrollView, Keys.WishlistView, Keys.SearchView, Keys.Search, Keys.Filter, Keys.Enter, Keys.Back},
		{Keys.Wishlist, Keys.Sort, Keys.Genre, Keys.Rating, Keys.Year, Keys.ClearAll, Keys.Refresh},
		{Keys.Theme, Keys.Language, Keys.SignOut, Keys.Quit},
	}
	cols := make([]string, len(groups))
	for i, g := range groups {
		cols[i] = m.renderBindings(g, "\n")
	}
	return m.styles.Modal.Render(lipgloss.JoinHorizontal(lipgloss.Top, spaced(cols)...))
}

func spaced(cols []string) []string {
	out := make([]string, 0, len(cols)*2)
	for i, c := range cols {
		if i > 0 {
			out = append(out, "   ")
		}
		out = append(out, c)
	}
	return out
}
