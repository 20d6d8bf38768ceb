package domain

import "context"

// CatalogClient issues requests against the remote catalog service
// (implemented by adapter/tmdb). It does not cache and does not retry.
type CatalogClient interface {
	// FetchList returns one page of a listing in service order
	FetchList(ctx context.Context, endpoint ListEndpoint, page int) ([]CatalogItem, error)

	// Search returns one page of title search results
	Search(ctx context.Context, query string, page int) ([]CatalogItem, error)

	// FetchGenres returns the movie genre list
	FetchGenres(ctx context.Context) ([]Genre, error)

	// FetchDetail returns a single title
	FetchDetail(ctx context.Context, id int) (*CatalogItem, error)
}

// KeyValueStore is durable string-keyed storage. Keys are logical names; the
// implementation applies its namespace. Get returns ErrNotFound for a
// missing key; every other failure is a *StorageError.
type KeyValueStore interface {
	Get(name string) ([]byte, error)
	Set(name string, value []byte) error
	Delete(name string) error
}

// PageFetcher loads one page of items for a list controller.
type PageFetcher func(ctx context.Context, page int) ([]CatalogItem, error)
