package tmdb

import "github.com/mmcdole/marquee/internal/domain"

// MapMovie converts a list/search result to a domain item
func MapMovie(dto MovieDTO) domain.CatalogItem {
	item := domain.CatalogItem{
		ID:          dto.ID,
		Title:       dto.Title,
		Overview:    dto.Overview,
		VoteAverage: dto.VoteAverage,
		ReleaseDate: dto.ReleaseDate,
		GenreIDs:    dto.GenreIDs,
	}
	if dto.PosterPath != nil {
		item.PosterPath = *dto.PosterPath
	}
	if dto.Popularity != nil {
		item.Popularity = *dto.Popularity
	}
	return item
}

// MapMovies converts results preserving service order
func MapMovies(dtos []MovieDTO) []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, MapMovie(dto))
	}
	return items
}

// MapMovieDetail converts a detail response, folding genre objects into GenreIDs
func MapMovieDetail(dto MovieDetailDTO) domain.CatalogItem {
	item := MapMovie(dto.MovieDTO)
	if len(item.GenreIDs) == 0 && len(dto.Genres) > 0 {
		item.GenreIDs = make([]int, 0, len(dto.Genres))
		for _, g := range dto.Genres {
			item.GenreIDs = append(item.GenreIDs, g.ID)
		}
	}
	return item
}

// MapGenres converts the genre list
func MapGenres(dtos []GenreDTO) []domain.Genre {
	genres := make([]domain.Genre, 0, len(dtos))
	for _, g := range dtos {
		genres = append(genres, domain.Genre{ID: g.ID, Name: g.Name})
	}
	return genres
}
