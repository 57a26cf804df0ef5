package handler

import "github.com/actuallystonmai/movie-catalog/internal/domain"

type FavoritesResponse struct {
	ClientID  string            `json:"client_id"`
	Sort      string            `json:"sort"`
	Favorites []domain.Favorite `json:"favorites"`
	Total     int               `json:"total"`
}

type FavoriteStatusResponse struct {
	MovieID  int64 `json:"movie_id"`
	Favorite bool  `json:"favorite"`
}

type FavoriteAddedResponse struct {
	Movie *domain.Movie `json:"movie"`
	Added bool          `json:"added"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
