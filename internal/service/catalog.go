package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/mmcdole/marquee/internal/adapter/tmdb"
	"github.com/mmcdole/marquee/internal/cache"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultGenreTTL is how long the durable genre list stays fresh
	DefaultGenreTTL = 24 * time.Hour

	// sharedFetchTimeout bounds a fetch that outlives the caller which started it
	sharedFetchTimeout = 30 * time.Second
)

// genreRecord is the durable genre entry
type genreRecord struct {
	TS     int64          `json:"ts"` // Unix milliseconds
	Genres []domain.Genre `json:"genres"`
}

// CatalogOptions configures a CatalogService
type CatalogOptions struct {
	ResponseTTL time.Duration
	GenreTTL    time.Duration
	Now         func() time.Time
}

// localizedClient is implemented by clients that attach fixed language and
// region parameters to every request. Cache keys use the same values.
type localizedClient interface {
	Language() string
	Region() string
}

// CatalogService fronts the catalog client with the response cache, the
// durable genre tier and the detail cache.
type CatalogService struct {
	client domain.CatalogClient
	kv     domain.KeyValueStore // Optional; nil disables the durable genre tier
	logger *slog.Logger

	lists   *cache.TTL[[]domain.CatalogItem]
	genres  *cache.TTL[[]domain.Genre]
	details *cache.Detail
	group   singleflight.Group

	genreTTL time.Duration
	language string
	region   string
	now      func() time.Time
}

// NewCatalogService creates a new catalog service
func NewCatalogService(client domain.CatalogClient, kv domain.KeyValueStore, opts CatalogOptions, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.GenreTTL <= 0 {
		opts.GenreTTL = DefaultGenreTTL
	}
	language, region := tmdb.DefaultLanguage, tmdb.DefaultRegion
	if lc, ok := client.(localizedClient); ok {
		language, region = lc.Language(), lc.Region()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &CatalogService{
		client:   client,
		kv:       kv,
		logger:   logger,
		lists:    cache.NewTTL[[]domain.CatalogItem](opts.ResponseTTL).WithClock(opts.Now),
		genres:   cache.NewTTL[[]domain.Genre](opts.ResponseTTL).WithClock(opts.Now),
		details:  cache.NewDetail(),
		genreTTL: opts.GenreTTL,
		language: language,
		region:   region,
		now:      opts.Now,
	}
}

// List returns one page of a listing, served from cache while fresh
func (s *CatalogService) List(ctx context.Context, endpoint domain.ListEndpoint, page int) ([]domain.CatalogItem, error) {
	key := s.listKey(endpoint, page)
	return s.cachedItems(ctx, key, func(ctx context.Context) ([]domain.CatalogItem, error) {
		return s.client.FetchList(ctx, endpoint, tmdb.NormalizePage(page))
	})
}

// Search returns one page of title matches. A blank query returns no results
// without a network call.
func (s *CatalogService) Search(ctx context.Context, query string, page int) ([]domain.CatalogItem, error) {
	query = normalizeQuery(query)
	if query == "" {
		return nil, nil
	}

	key := s.searchKey(query, page)
	return s.cachedItems(ctx, key, func(ctx context.Context) ([]domain.CatalogItem, error) {
		return s.client.Search(ctx, query, tmdb.NormalizePage(page))
	})
}

// cachedItems serves key from the response cache or runs fetch once per key
// across concurrent callers. Failures are never cached. Each caller waits
// under its own ctx; cancelling one caller does not fail the others.
func (s *CatalogService) cachedItems(ctx context.Context, key string, fetch func(context.Context) ([]domain.CatalogItem, error)) ([]domain.CatalogItem, error) {
	if items, ok := s.lists.Get(key); ok {
		s.logger.Debug("cache hit", "key", key)
		return slices.Clone(items), nil
	}

	v, shared, err := s.shared(ctx, key, func(ctx context.Context) (any, error) {
		items, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.lists.Set(key, items)
		return items, nil
	})
	if err != nil {
		s.logger.Error("failed to fetch catalog page", "key", key, "error", err)
		return nil, err
	}

	items := v.([]domain.CatalogItem)
	s.logger.Debug("fetched catalog page", "key", key, "count", len(items), "shared", shared)
	return slices.Clone(items), nil
}

// shared runs fetch once per key. The fetch itself is detached from the
// caller that started it and bounded by sharedFetchTimeout.
func (s *CatalogService) shared(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, bool, error) {
	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		return fetch(fetchCtx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Shared, res.Err
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// Genres returns the genre list. The durable entry is consulted first; an
// unreadable or expired entry falls through to memory and then the network,
// and a successful fetch rewrites the durable entry.
func (s *CatalogService) Genres(ctx context.Context) ([]domain.Genre, error) {
	if genres, ok := s.loadDurableGenres(); ok {
		s.logger.Debug("cache hit", "key", store.KeyGenres, "tier", "durable")
		return genres, nil
	}

	key := s.genresKey()
	if genres, ok := s.genres.Get(key); ok {
		s.logger.Debug("cache hit", "key", key)
		return slices.Clone(genres), nil
	}

	v, _, err := s.shared(ctx, key, func(ctx context.Context) (any, error) {
		genres, err := s.client.FetchGenres(ctx)
		if err != nil {
			return nil, err
		}
		s.genres.Set(key, genres)
		s.saveDurableGenres(genres)
		return genres, nil
	})
	if err != nil {
		s.logger.Error("failed to fetch genres", "error", err)
		return nil, err
	}

	genres := v.([]domain.Genre)
	s.logger.Info("loaded genres", "count", len(genres))
	return slices.Clone(genres), nil
}

func (s *CatalogService) loadDurableGenres() ([]domain.Genre, bool) {
	if s.kv == nil {
		return nil, false
	}

	var rec genreRecord
	if err := store.ReadJSON(s.kv, store.KeyGenres, &rec); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("ignoring unreadable genre cache", "error", err)
		}
		return nil, false
	}
	if rec.Genres == nil {
		return nil, false
	}

	age := s.now().Sub(time.UnixMilli(rec.TS))
	if age >= s.genreTTL {
		s.logger.Debug("durable genre cache expired", "age", age)
		return nil, false
	}
	return rec.Genres, true
}

func (s *CatalogService) saveDurableGenres(genres []domain.Genre) {
	if s.kv == nil {
		return
	}
	rec := genreRecord{TS: s.now().UnixMilli(), Genres: genres}
	if err := store.WriteJSON(s.kv, store.KeyGenres, rec); err != nil {
		s.logger.Warn("failed to persist genre cache", "error", err)
	}
}

// Detail returns a single title, memoized for the session
func (s *CatalogService) Detail(ctx context.Context, id int) (domain.CatalogItem, error) {
	item, hit, err := s.details.GetOrFetch(ctx, id, s.client.FetchDetail)
	if err != nil {
		s.logger.Error("failed to fetch detail", "id", id, "error", err)
		return domain.CatalogItem{}, err
	}
	if hit {
		s.logger.Debug("cache hit", "key", "detail", "id", id)
	}
	return item, nil
}

// ListFetcher binds a listing endpoint for the list controllers
func (s *CatalogService) ListFetcher(endpoint domain.ListEndpoint) domain.PageFetcher {
	return func(ctx context.Context, page int) ([]domain.CatalogItem, error) {
		return s.List(ctx, endpoint, page)
	}
}

// SearchFetcher binds a search query for the list controllers
func (s *CatalogService) SearchFetcher(query string) domain.PageFetcher {
	return func(ctx context.Context, page int) ([]domain.CatalogItem, error) {
		return s.Search(ctx, query, page)
	}
}

// InvalidateAll drops the in-memory response caches. The durable genre
// entry and memoized details are kept.
func (s *CatalogService) InvalidateAll() {
	s.lists.Purge()
	s.genres.Purge()
	s.logger.Info("catalog caches invalidated")
}
