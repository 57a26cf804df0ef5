package domain

import "errors"

var (
	ErrMovieNotFound       = errors.New("movie not found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrQueryTooShort       = errors.New("query too short")
	ErrInvalidPage         = errors.New("invalid page")
	ErrFavoriteNotFound    = errors.New("favorite not found")
	ErrInvalidSort         = errors.New("invalid sort")
)
