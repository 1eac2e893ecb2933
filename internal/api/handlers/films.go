// films.go — обработчики /films endpoints.
// CRUD фильмов, лайки, рейтинг популярности.
package handlers

import (
	"net/http"
	"strconv"

	apierrors "github.com/bigkaa/filmorate/internal/api/errors"
)

// ListFilms — GET /films.
func (h *APIHandler) ListFilms(w http.ResponseWriter, r *http.Request) {
	films, err := h.films.GetAll(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, filmsToDTO(films))
}

// GetFilm — GET /films/{id}.
func (h *APIHandler) GetFilm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	film, err := h.films.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, filmToDTO(film))
}

// CreateFilm — POST /films. ID в теле игнорируется.
func (h *APIHandler) CreateFilm(w http.ResponseWriter, r *http.Request) {
	var req filmDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	film, err := req.toModel()
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	film.ID = 0

	created, err := h.films.Add(r.Context(), film)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, filmToDTO(created))
}

// UpdateFilm — PUT /films. ID берётся из тела.
func (h *APIHandler) UpdateFilm(w http.ResponseWriter, r *http.Request) {
	var req filmDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	film, err := req.toModel()
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	updated, err := h.films.Update(r.Context(), film)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, filmToDTO(updated))
}

// DeleteFilm — DELETE /films/{id}.
func (h *APIHandler) DeleteFilm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.films.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LikeFilm — PUT /films/{id}/like/{userId}.
func (h *APIHandler) LikeFilm(w http.ResponseWriter, r *http.Request) {
	filmID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	if err := h.films.Like(r.Context(), filmID, userID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// UnlikeFilm — DELETE /films/{id}/like/{userId}.
func (h *APIHandler) UnlikeFilm(w http.ResponseWriter, r *http.Request) {
	filmID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	if err := h.films.Unlike(r.Context(), filmID, userID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// PopularFilms — GET /films/popular?count=N.
// size — устаревший синоним count. Без параметра используется значение из конфигурации.
func (h *APIHandler) PopularFilms(w http.ResponseWriter, r *http.Request) {
	limit := h.popularDefault

	q := r.URL.Query()
	raw := q.Get("count")
	if raw == "" {
		raw = q.Get("size")
	}
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			apierrors.ValidationError(w, "Параметр count должен быть целым числом: "+strconv.Quote(raw))
			return
		}
		limit = n
	}

	films, err := h.films.MostPopular(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, filmsToDTO(films))
}
