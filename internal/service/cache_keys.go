package service

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/marquee/internal/adapter/tmdb"
	"github.com/mmcdole/marquee/internal/cache"
	"github.com/mmcdole/marquee/internal/domain"
)

// listKey returns the response cache key for one page of a listing. Defaults
// are filled in so an implicit page 1 and an explicit page 1 share an entry.
func (s *CatalogService) listKey(endpoint domain.ListEndpoint, page int) string {
	params := s.baseParams()
	params.Set("page", strconv.Itoa(tmdb.NormalizePage(page)))
	return cache.Key(endpoint.Path(), params)
}

// searchKey returns the response cache key for one page of search results
func (s *CatalogService) searchKey(query string, page int) string {
	params := s.baseParams()
	params.Set("page", strconv.Itoa(tmdb.NormalizePage(page)))
	params.Set("query", query)
	params.Set("include_adult", "false")
	return cache.Key(tmdb.SearchPath, params)
}

// genresKey returns the in-memory cache key for the genre list
func (s *CatalogService) genresKey() string {
	return cache.Key(tmdb.GenresPath, s.baseParams())
}

func (s *CatalogService) baseParams() url.Values {
	params := url.Values{}
	params.Set("language", s.language)
	params.Set("region", s.region)
	return params
}

// normalizeQuery trims surrounding whitespace from a search query
func normalizeQuery(query string) string {
	return strings.TrimSpace(query)
}
