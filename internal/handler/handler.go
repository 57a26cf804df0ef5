package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
	"github.com/actuallystonmai/movie-catalog/internal/service"
	"go.uber.org/zap"
)

type Handler struct {
	service *service.Service
	log     *zap.Logger
	checks  map[string]Pinger
}

func NewHandler(svc *service.Service, log *zap.Logger) *Handler {
	return &Handler{service: svc, log: log.Named("handler")}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// writeServiceError maps service errors onto HTTP responses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPage):
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid page parameter")
	case errors.Is(err, domain.ErrQueryTooShort):
		writeError(w, http.StatusBadRequest, "query_too_short",
			fmt.Sprintf("Search query must have at least %d characters", domain.MinQueryLength))
	case errors.Is(err, domain.ErrInvalidSort):
		writeError(w, http.StatusBadRequest, "invalid_sort", err.Error())
	case errors.Is(err, domain.ErrMovieNotFound):
		writeError(w, http.StatusNotFound, "movie_not_found", "Movie does not exist")
	case errors.Is(err, domain.ErrFavoriteNotFound):
		writeError(w, http.StatusNotFound, "favorite_not_found", "Movie is not in favorites")
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		writeError(w, http.StatusServiceUnavailable, "upstream_unavailable",
			"Movie database is temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "request_timeout",
			"Request timed out, please try again")
	default:
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// pageParam parses ?page=, defaulting to 1.
func pageParam(r *http.Request) (int, bool) {
	pageStr := r.URL.Query().Get("page")
	if pageStr == "" {
		return 1, true
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 || page > domain.MaxPage {
		return 0, false
	}
	return page, true
}

func movieIDParam(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
