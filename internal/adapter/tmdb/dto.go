package tmdb

// MovieDTO is a movie as it appears in list and search results.
type MovieDTO struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	PosterPath  *string  `json:"poster_path"`
	VoteAverage float64  `json:"vote_average"`
	ReleaseDate string   `json:"release_date"`
	GenreIDs    []int    `json:"genre_ids"`
	Popularity  *float64 `json:"popularity"`
}

// PageResponse is the envelope for paginated listings.
type PageResponse struct {
	Page         int        `json:"page"`
	Results      []MovieDTO `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

// GenreDTO is one genre entry
type GenreDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreListResponse is the body of /genre/movie/list
type GenreListResponse struct {
	Genres []GenreDTO `json:"genres"`
}

// MovieDetailDTO is the body of /movie/{id}. Details carry full genre
// objects instead of genre_ids.
type MovieDetailDTO struct {
	MovieDTO
	Genres  []GenreDTO `json:"genres"`
	Runtime int        `json:"runtime"`
	Tagline string     `json:"tagline"`
}

// errorResponse is the service's error body
type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
