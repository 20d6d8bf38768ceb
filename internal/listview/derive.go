// Package listview holds the paged and infinite list controllers and the
// filter and sort derivation they share.
package listview

import (
	"slices"
	"strings"

	"github.com/mmcdole/marquee/internal/domain"
)

// SortKey selects the ordering of a derived view
type SortKey string

const (
	// SortNone keeps service order
	SortNone SortKey = ""
	// SortRating orders by vote average, highest first
	SortRating SortKey = "rating"
	// SortRelease orders by release date, newest first
	SortRelease SortKey = "release"
)

// ParseSortKey maps a stored or user-entered name to a SortKey. The older
// name "popularity" means SortRating.
func ParseSortKey(name string) SortKey {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rating", "popularity":
		return SortRating
	case "release":
		return SortRelease
	default:
		return SortNone
	}
}

// String returns the display name
func (k SortKey) String() string {
	switch k {
	case SortRating:
		return "Rating"
	case SortRelease:
		return "Release"
	default:
		return "Default"
	}
}

// SortKeys returns the keys in cycling order
func SortKeys() []SortKey {
	return []SortKey{SortNone, SortRating, SortRelease}
}

// Filters narrows a list. Zero values are inactive.
type Filters struct {
	GenreID       int     // Item must carry this genre; 0 for any
	MinRating     float64 // vote_average >= MinRating
	MinYear       int     // release year >= MinYear; missing year counts as 0
	MinPopularity float64 // popularity >= MinPopularity; missing counts as 0
}

// Active reports whether any filter narrows the list
func (f Filters) Active() bool {
	return f.GenreID != 0 || f.MinRating > 0 || f.MinYear > 0 || f.MinPopularity > 0
}

// Match reports whether item passes every filter
func (f Filters) Match(item domain.CatalogItem) bool {
	if f.GenreID != 0 && !item.HasGenre(f.GenreID) {
		return false
	}
	if item.VoteAverage < f.MinRating {
		return false
	}
	if item.Year() < f.MinYear {
		return false
	}
	return item.Popularity >= f.MinPopularity
}

// Derive filters then sorts items into a new slice. The input is never
// modified. Sorting is stable, so equal keys keep service order.
func Derive(items []domain.CatalogItem, filters Filters, sortKey SortKey) []domain.CatalogItem {
	out := make([]domain.CatalogItem, 0, len(items))
	if !filters.Active() {
		out = append(out, items...)
	} else {
		for _, item := range items {
			if filters.Match(item) {
				out = append(out, item)
			}
		}
	}

	switch sortKey {
	case SortRating:
		slices.SortStableFunc(out, func(a, b domain.CatalogItem) int {
			switch {
			case a.VoteAverage > b.VoteAverage:
				return -1
			case a.VoteAverage < b.VoteAverage:
				return 1
			}
			return 0
		})
	case SortRelease:
		// ISO dates order lexically
		slices.SortStableFunc(out, func(a, b domain.CatalogItem) int {
			return strings.Compare(b.ReleaseDate, a.ReleaseDate)
		})
	}
	return out
}
