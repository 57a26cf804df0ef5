package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GET /movies?page=
func (h *Handler) GetPopular(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid page parameter")
		return
	}

	listing, err := h.service.Popular(r.Context(), clientID(r), page)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// GET /search?q=&page=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid page parameter")
		return
	}

	listing, err := h.service.Search(r.Context(), clientID(r), r.URL.Query().Get("q"), page)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// GET /movies/{movieID}
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := movieIDParam(chi.URLParam(r, "movieID"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid movie id")
		return
	}

	view, err := h.service.Details(r.Context(), clientID(r), movieID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
