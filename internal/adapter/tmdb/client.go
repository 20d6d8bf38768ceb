package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
)

const (
	DefaultBaseURL  = "https://api.themoviedb.org/3"
	DefaultLanguage = "ko-KR"
	DefaultRegion   = "KR"
	defaultTimeout  = 15 * time.Second

	// SearchPath and GenresPath are the fixed non-listing paths
	SearchPath = "/search/movie"
	GenresPath = "/genre/movie/list"
)

// Options configures a Client
type Options struct {
	BaseURL     string
	APIKey      string
	KeyFunc     func() string // Consulted when APIKey is empty
	BearerToken string
	Language    string
	Region      string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client implements domain.CatalogClient against the TMDB v3 API.
// It holds only fixed configuration; it never caches or retries.
type Client struct {
	baseURL     string
	apiKey      string
	keyFunc     func() string
	bearerToken string
	language    string
	region      string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a new TMDB API client
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.Region == "" {
		opts.Region = DefaultRegion
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		keyFunc:     opts.KeyFunc,
		bearerToken: opts.BearerToken,
		language:    opts.Language,
		region:      opts.Region,
		httpClient:  httpClient,
		logger:      logger,
	}
}

// Language returns the language parameter sent with every request
func (c *Client) Language() string { return c.language }

// Region returns the region parameter sent with every request
func (c *Client) Region() string { return c.region }

func (c *Client) resolveAPIKey() string {
	if c.apiKey != "" {
		return c.apiKey
	}
	if c.keyFunc != nil {
		return c.keyFunc()
	}
	return ""
}

// doRequest performs a GET and decodes the JSON body into dest.
// Every failure is returned as a *domain.CatalogFetchError.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values, dest any) error {
	if query == nil {
		query = url.Values{}
	}
	if key := c.resolveAPIKey(); key != "" {
		query.Set("api_key", key)
	}
	query.Set("language", c.language)
	query.Set("region", c.region)

	reqURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &domain.CatalogFetchError{Path: path, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json;charset=utf-8")
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}

	c.logger.Debug("tmdb request", "path", path, "page", query.Get("page"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("tmdb request failed", "path", path, "error", err)
		return &domain.CatalogFetchError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.CatalogFetchError{Path: path, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		msg := string(body)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.StatusMessage != "" {
			msg = apiErr.StatusMessage
		}
		c.logger.Error("tmdb request error", "path", path, "status", resp.StatusCode, "message", msg)
		return &domain.CatalogFetchError{
			Path:       path,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return &domain.CatalogFetchError{Path: path, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}

// FetchList returns one page of a listing
func (c *Client) FetchList(ctx context.Context, endpoint domain.ListEndpoint, page int) ([]domain.CatalogItem, error) {
	path := endpoint.Path()
	if path == "" {
		return nil, &domain.CatalogFetchError{Path: string(endpoint), Err: fmt.Errorf("unknown endpoint %q", endpoint)}
	}

	var resp PageResponse
	if err := c.doRequest(ctx, path, pageQuery(page), &resp); err != nil {
		return nil, err
	}
	return MapMovies(resp.Results), nil
}

// Search returns one page of title search results. Callers must not send an
// empty query.
func (c *Client) Search(ctx context.Context, query string, page int) ([]domain.CatalogItem, error) {
	q := pageQuery(page)
	q.Set("query", query)
	q.Set("include_adult", "false")

	var resp PageResponse
	if err := c.doRequest(ctx, SearchPath, q, &resp); err != nil {
		return nil, err
	}
	return MapMovies(resp.Results), nil
}

// FetchGenres returns the movie genre list
func (c *Client) FetchGenres(ctx context.Context) ([]domain.Genre, error) {
	var resp GenreListResponse
	if err := c.doRequest(ctx, GenresPath, nil, &resp); err != nil {
		return nil, err
	}
	return MapGenres(resp.Genres), nil
}

// FetchDetail returns a single movie
func (c *Client) FetchDetail(ctx context.Context, id int) (*domain.CatalogItem, error) {
	path := DetailPath(id)

	var resp MovieDetailDTO
	if err := c.doRequest(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	item := MapMovieDetail(resp)
	return &item, nil
}

// DetailPath returns the service path for a single movie
func DetailPath(id int) string {
	return "/movie/" + strconv.Itoa(id)
}

// NormalizePage clamps a page cursor to the 1-based range
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func pageQuery(page int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(NormalizePage(page)))
	return q
}
