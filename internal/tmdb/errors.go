package tmdb

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
)

// APIError is a non-2xx answer from TMDB.
type APIError struct {
	Endpoint   string
	HTTPStatus int
	// Code and Message come from the TMDB error body when it has one.
	Code    int    `json:"status_code"`
	Message string `json:"status_message"`
}

func (e *APIError) Error() string {
	if e == nil {
		return "tmdb error"
	}
	if e.Message == "" {
		return fmt.Sprintf("tmdb %s: HTTP %d", e.Endpoint, e.HTTPStatus)
	}
	return fmt.Sprintf("tmdb %s: HTTP %d: %s (code %d)", e.Endpoint, e.HTTPStatus, e.Message, e.Code)
}

// Unwrap maps the status onto the domain errors callers branch on.
func (e *APIError) Unwrap() error {
	switch {
	case e.HTTPStatus == http.StatusNotFound:
		return domain.ErrMovieNotFound
	case e.HTTPStatus == http.StatusTooManyRequests, e.HTTPStatus >= 500:
		return domain.ErrUpstreamUnavailable
	}
	return nil
}

func IsAPIError(err error) bool {
	var target *APIError
	return errors.As(err, &target)
}
