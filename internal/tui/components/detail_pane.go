package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// DetailLabels are the localized captions used by the pane
type DetailLabels struct {
	Loading    string
	Released   string
	Genres     string
	Poster     string
	LastViewed string
	NoInfo     string
}

// DetailPane shows one title's full record
type DetailPane struct {
	item       *domain.CatalogItem
	loading    bool
	err        error
	wishlisted bool
	posterURL  string
	lastViewed time.Time
	genres     map[int]string
	width      int
	height     int
}

// NewDetailPane creates an empty pane
func NewDetailPane() DetailPane {
	return DetailPane{genres: make(map[int]string)}
}

// SetGenres sets the id to name lookup
func (d *DetailPane) SetGenres(genres []domain.Genre) {
	d.genres = make(map[int]string, len(genres))
	for _, g := range genres {
		d.genres[g.ID] = g.Name
	}
}

// SetLoading shows the placeholder for a pending fetch
func (d *DetailPane) SetLoading(item domain.CatalogItem) {
	d.item = &item
	d.loading = true
	d.err = nil
}

// SetItem shows a fetched item
func (d *DetailPane) SetItem(item domain.CatalogItem, posterURL string) {
	d.item = &item
	d.posterURL = posterURL
	d.loading = false
	d.err = nil
}

// SetError records a failed fetch; the partial item stays visible
func (d *DetailPane) SetError(err error) {
	d.loading = false
	d.err = err
}

// SetWishlisted updates the saved marker
func (d *DetailPane) SetWishlisted(v bool) {
	d.wishlisted = v
}

// SetLastViewed records when the title was previously opened; the zero
// time hides the line
func (d *DetailPane) SetLastViewed(at time.Time) {
	d.lastViewed = at
}

// SetSize updates the pane dimensions
func (d *DetailPane) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Item returns the displayed item
func (d DetailPane) Item() (domain.CatalogItem, bool) {
	if d.item == nil {
		return domain.CatalogItem{}, false
	}
	return *d.item, true
}

// Clear empties the pane
func (d *DetailPane) Clear() {
	d.item = nil
	d.loading = false
	d.err = nil
	d.posterURL = ""
	d.lastViewed = time.Time{}
}

// View renders the pane
func (d DetailPane) View(st styles.Styles, labels DetailLabels) string {
	contentWidth := d.width - 6
	if contentWidth < 20 {
		contentWidth = 20
	}

	if d.item == nil {
		return st.Panel.Width(contentWidth).Render(st.Dim.Render(labels.NoInfo))
	}
	item := d.item

	title := item.Title
	if d.wishlisted {
		title = st.Wishlisted.Render(styles.Star) + " " + title
	}

	var lines []string
	lines = append(lines, st.Title.Render(styles.Truncate(title, contentWidth)))
	lines = append(lines, st.Subtitle.Render(item.Description()))
	lines = append(lines, "")

	if item.ReleaseDate != "" {
		lines = append(lines, fmt.Sprintf("%s %s", st.Dim.Render(labels.Released), item.ReleaseDate))
	}
	if names := d.genreNames(item.GenreIDs); names != "" {
		lines = append(lines, fmt.Sprintf("%s %s", st.Dim.Render(labels.Genres), names))
	}
	if d.posterURL != "" {
		lines = append(lines, fmt.Sprintf("%s %s", st.Dim.Render(labels.Poster), styles.Truncate(d.posterURL, contentWidth-len(labels.Poster)-1)))
	}

	if !d.lastViewed.IsZero() {
		lines = append(lines, fmt.Sprintf("%s %s", st.Dim.Render(labels.LastViewed), d.lastViewed.Format("2006-01-02 15:04")))
	}

	switch {
	case d.loading:
		lines = append(lines, "", st.Dim.Render(labels.Loading))
	case d.err != nil:
		lines = append(lines, "", st.Error.Render(styles.Truncate(d.err.Error(), contentWidth)))
	}

	if overview := strings.TrimSpace(item.Overview); overview != "" {
		lines = append(lines, "")
		lines = append(lines, wrap(overview, contentWidth)...)
	}

	if d.height > 4 && len(lines) > d.height-4 {
		lines = lines[:d.height-4]
	}

	return st.Modal.Width(contentWidth).Render(strings.Join(lines, "\n"))
}

func (d DetailPane) genreNames(ids []int) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := d.genres[id]; ok {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// wrap breaks text into lines of at most width display cells
func wrap(text string, width int) []string {
	return strings.Split(lipgloss.NewStyle().Width(width).Render(text), "\n")
}
