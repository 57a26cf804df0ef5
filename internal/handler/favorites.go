package handler

import (
	"net/http"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
	"github.com/actuallystonmai/movie-catalog/internal/favorites"
	"github.com/go-chi/chi/v5"
)

// GET /favorites?sort=
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	sortSpec := r.URL.Query().Get("sort")
	if sortSpec == "" {
		sortSpec = favorites.DefaultSort
	}

	client := clientID(r)
	favs, err := h.service.Favorites().List(r.Context(), client, sortSpec)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if favs == nil {
		favs = []domain.Favorite{}
	}

	writeJSON(w, http.StatusOK, FavoritesResponse{
		ClientID:  client,
		Sort:      sortSpec,
		Favorites: favs,
		Total:     len(favs),
	})
}

// GET /favorites/stats
func (h *Handler) FavoriteStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Favorites().Stats(r.Context(), clientID(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GET /favorites/{movieID}
func (h *Handler) GetFavorite(w http.ResponseWriter, r *http.Request) {
	movieID, ok := movieIDParam(chi.URLParam(r, "movieID"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid movie id")
		return
	}

	fav, err := h.service.Favorites().IsFavorite(r.Context(), clientID(r), movieID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FavoriteStatusResponse{MovieID: movieID, Favorite: fav})
}

// PUT /favorites/{movieID}
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	movieID, ok := movieIDParam(chi.URLParam(r, "movieID"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid movie id")
		return
	}

	movie, added, err := h.service.Favorites().Add(r.Context(), clientID(r), movieID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, FavoriteAddedResponse{Movie: movie, Added: added})
}

// DELETE /favorites/{movieID}
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	movieID, ok := movieIDParam(chi.URLParam(r, "movieID"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid movie id")
		return
	}

	if err := h.service.Favorites().Remove(r.Context(), clientID(r), movieID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /favorites/refresh
func (h *Handler) RefreshFavorites(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Favorites().Refresh(r.Context(), clientID(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
