package domain

import (
	"strconv"
	"strings"
	"time"
)

// CatalogItem represents one movie title returned by the catalog service.
// Items are immutable once received; two items are the same title when their
// IDs match.
type CatalogItem struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path,omitempty"` // Relative path, needs image base URL
	VoteAverage float64 `json:"vote_average"`          // 0-10
	ReleaseDate string  `json:"release_date"`          // ISO date or empty
	GenreIDs    []int   `json:"genre_ids,omitempty"`   // nil when the service omitted it
	Popularity  float64 `json:"popularity,omitempty"`  // 0 when absent
}

// Year returns the release year parsed from the first four characters of the
// release date, or 0 when the date is missing or malformed.
func (c CatalogItem) Year() int {
	if len(c.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(c.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// HasGenre reports whether the item is tagged with the given genre.
func (c CatalogItem) HasGenre(genreID int) bool {
	for _, id := range c.GenreIDs {
		if id == genreID {
			return true
		}
	}
	return false
}

// Description returns secondary info for list display, e.g. "2024 · ★ 7.8".
func (c CatalogItem) Description() string {
	var parts []string
	if y := c.Year(); y > 0 {
		parts = append(parts, strconv.Itoa(y))
	}
	parts = append(parts, "★ "+strconv.FormatFloat(c.VoteAverage, 'f', 1, 64))
	return strings.Join(parts, " · ")
}

// Genre is a catalog genre. Read-mostly reference data.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ListEndpoint identifies one of the fixed catalog listings.
type ListEndpoint string

const (
	EndpointPopular    ListEndpoint = "popular"
	EndpointNowPlaying ListEndpoint = "now_playing"
	EndpointTopRated   ListEndpoint = "top_rated"
	EndpointUpcoming   ListEndpoint = "upcoming"
	EndpointTrending   ListEndpoint = "trending"
)

// ListEndpoints returns all listings in display order.
func ListEndpoints() []ListEndpoint {
	return []ListEndpoint{
		EndpointPopular,
		EndpointNowPlaying,
		EndpointTopRated,
		EndpointUpcoming,
		EndpointTrending,
	}
}

// Path returns the service path for the listing, or "" for an unknown endpoint.
func (e ListEndpoint) Path() string {
	switch e {
	case EndpointPopular:
		return "/movie/popular"
	case EndpointNowPlaying:
		return "/movie/now_playing"
	case EndpointTopRated:
		return "/movie/top_rated"
	case EndpointUpcoming:
		return "/movie/upcoming"
	case EndpointTrending:
		return "/trending/movie/day"
	default:
		return ""
	}
}

// String returns the display name for the listing
func (e ListEndpoint) String() string {
	switch e {
	case EndpointPopular:
		return "Popular"
	case EndpointNowPlaying:
		return "Now Playing"
	case EndpointTopRated:
		return "Top Rated"
	case EndpointUpcoming:
		return "Upcoming"
	case EndpointTrending:
		return "Trending"
	default:
		return string(e)
	}
}

// WatchEntry is one recently viewed title.
type WatchEntry struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	PosterPath string `json:"posterPath,omitempty"`
	Timestamp  int64  `json:"ts"` // Unix milliseconds
}

// ViewedAt returns the entry timestamp as a time.Time
func (w WatchEntry) ViewedAt() time.Time {
	return time.UnixMilli(w.Timestamp)
}
