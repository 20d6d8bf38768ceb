package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmcdole/marquee/internal/adapter"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts.BaseURL = srv.URL
	return NewClient(opts, adapter.NullLogger())
}

func TestClient_FetchListSendsDefaultsAndPreservesOrder(t *testing.T) {
	var got *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Write([]byte(`{"page":2,"results":[
			{"id":2,"title":"B","vote_average":7.5,"release_date":"2020-01-01","genre_ids":[18],"poster_path":"/b.jpg","popularity":12.5},
			{"id":1,"title":"A","vote_average":9.0,"release_date":"2021-01-01","poster_path":null}
		]}`))
	}, Options{APIKey: "secret", BearerToken: "tok"})

	items, err := client.FetchList(context.Background(), domain.EndpointPopular, 2)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "/movie/popular", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "secret", q.Get("api_key"))
	assert.Equal(t, "ko-KR", q.Get("language"))
	assert.Equal(t, "KR", q.Get("region"))
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json;charset=utf-8", got.Header.Get("Content-Type"))

	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].ID)
	assert.Equal(t, "/b.jpg", items[0].PosterPath)
	assert.Equal(t, []int{18}, items[0].GenreIDs)
	assert.Equal(t, 12.5, items[0].Popularity)
	assert.Equal(t, 1, items[1].ID)
	assert.Empty(t, items[1].PosterPath)
	assert.Nil(t, items[1].GenreIDs)
	assert.Zero(t, items[1].Popularity)
}

func TestClient_EndpointPaths(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"results":[]}`))
	}, Options{})

	for _, ep := range domain.ListEndpoints() {
		_, err := client.FetchList(context.Background(), ep, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{
		"/movie/popular",
		"/movie/now_playing",
		"/movie/top_rated",
		"/movie/upcoming",
		"/trending/movie/day",
	}, paths)
}

func TestClient_PageBelowOneIsSentAsOne(t *testing.T) {
	var page string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		page = r.URL.Query().Get("page")
		w.Write([]byte(`{"results":[]}`))
	}, Options{})

	_, err := client.FetchList(context.Background(), domain.EndpointUpcoming, -3)
	require.NoError(t, err)
	assert.Equal(t, "1", page)
}

func TestClient_Search(t *testing.T) {
	var got *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Write([]byte(`{"results":[{"id":603,"title":"The Matrix"}]}`))
	}, Options{Language: "en-US", Region: "US"})

	items, err := client.Search(context.Background(), "matrix", 1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "/search/movie", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "matrix", q.Get("query"))
	assert.Equal(t, "false", q.Get("include_adult"))
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "en-US", q.Get("language"))
	assert.Equal(t, "US", q.Get("region"))
	assert.Empty(t, got.Header.Get("Authorization"))
}

func TestClient_FetchGenresAndDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/genre/movie/list":
			w.Write([]byte(`{"genres":[{"id":28,"name":"Action"},{"id":35,"name":"Comedy"}]}`))
		case "/movie/550":
			w.Write([]byte(`{"id":550,"title":"Fight Club","vote_average":8.4,"genres":[{"id":18,"name":"Drama"}],"runtime":139}`))
		default:
			http.NotFound(w, r)
		}
	}, Options{})

	genres, err := client.FetchGenres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Genre{{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}}, genres)

	item, err := client.FetchDetail(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", item.Title)
	assert.Equal(t, []int{18}, item.GenreIDs)
}

func TestClient_KeyFuncFallback(t *testing.T) {
	var key string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		key = r.URL.Query().Get("api_key")
		w.Write([]byte(`{"genres":[]}`))
	}, Options{KeyFunc: func() string { return "from-account" }})

	_, err := client.FetchGenres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-account", key)
}

func TestClient_FailuresAreCatalogFetchErrors(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key"}`))
		}, Options{})

		_, err := client.FetchList(context.Background(), domain.EndpointPopular, 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCatalogFetch)

		var fetchErr *domain.CatalogFetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusUnauthorized, fetchErr.StatusCode)
	})

	t.Run("bad body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		}, Options{})

		_, err := client.FetchGenres(context.Background())
		assert.ErrorIs(t, err, domain.ErrCatalogFetch)
	})

	t.Run("transport", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		client := NewClient(Options{BaseURL: srv.URL}, adapter.NullLogger())

		_, err := client.FetchDetail(context.Background(), 1)
		assert.ErrorIs(t, err, domain.ErrCatalogFetch)
	})

	t.Run("unknown endpoint", func(t *testing.T) {
		client := NewClient(Options{}, adapter.NullLogger())
		_, err := client.FetchList(context.Background(), domain.ListEndpoint("nope"), 1)
		assert.ErrorIs(t, err, domain.ErrCatalogFetch)
	})
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "https://image.tmdb.org/t/p/w300/abc.jpg", ImageURL(DefaultImageBaseURL, SizeW300, "/abc.jpg"))
	assert.Equal(t, "http://img/original/abc.jpg", ImageURL("http://img/", SizeOriginal, "abc.jpg"))
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/x.jpg", ImageURL("", ImageSize("w9000"), "/x.jpg"))
	assert.Empty(t, ImageURL(DefaultImageBaseURL, SizeW200, ""))
}
