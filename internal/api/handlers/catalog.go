// catalog.go — обработчики справочников /genres и /mpa.
package handlers

import (
	"net/http"
)

// ListGenres — GET /genres.
func (h *APIHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.catalogs.ListGenres(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := make([]idRef, 0, len(genres))
	for _, g := range genres {
		resp = append(resp, idRef{ID: g.ID, Name: g.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetGenre — GET /genres/{id}.
func (h *APIHandler) GetGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	g, err := h.catalogs.GetGenre(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, idRef{ID: g.ID, Name: g.Name})
}

// ListRatings — GET /mpa.
func (h *APIHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.catalogs.ListRatings(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := make([]idRef, 0, len(ratings))
	for _, m := range ratings {
		resp = append(resp, idRef{ID: m.ID, Name: m.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRating — GET /mpa/{id}.
func (h *APIHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	m, err := h.catalogs.GetRating(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, idRef{ID: m.ID, Name: m.Name})
}
