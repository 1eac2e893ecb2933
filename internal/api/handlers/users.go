// users.go — обработчики /users endpoints.
// CRUD пользователей и направленный граф дружбы.
package handlers

import (
	"net/http"

	apierrors "github.com/bigkaa/filmorate/internal/api/errors"
)

// ListUsers — GET /users.
func (h *APIHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAll(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usersToDTO(users))
}

// GetUser — GET /users/{id}.
func (h *APIHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userToDTO(user))
}

// CreateUser — POST /users. ID в теле игнорируется.
func (h *APIHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := req.toModel()
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	user.ID = 0

	created, err := h.users.Add(r.Context(), user)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, userToDTO(created))
}

// UpdateUser — PUT /users. ID берётся из тела.
func (h *APIHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req userDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := req.toModel()
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	updated, err := h.users.Update(r.Context(), user)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userToDTO(updated))
}

// DeleteUser — DELETE /users/{id}.
func (h *APIHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddFriend — PUT /users/{id}/friends/{friendId}.
func (h *APIHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	id, friendID, ok := h.userPair(w, r, "friendId")
	if !ok {
		return
	}

	if err := h.users.AddFriend(r.Context(), id, friendID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveFriend — DELETE /users/{id}/friends/{friendId}.
func (h *APIHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	id, friendID, ok := h.userPair(w, r, "friendId")
	if !ok {
		return
	}

	if err := h.users.RemoveFriend(r.Context(), id, friendID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListFriends — GET /users/{id}/friends.
func (h *APIHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	friends, err := h.users.ListFriends(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usersToDTO(friends))
}

// ListFollowers — GET /users/{id}/followers.
func (h *APIHandler) ListFollowers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	followers, err := h.users.ListFollowers(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usersToDTO(followers))
}

// CommonFriends — GET /users/{id}/friends/common/{otherId}.
func (h *APIHandler) CommonFriends(w http.ResponseWriter, r *http.Request) {
	id, otherID, ok := h.userPair(w, r, "otherId")
	if !ok {
		return
	}

	common, err := h.users.CommonFriends(r.Context(), id, otherID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usersToDTO(common))
}

func (h *APIHandler) userPair(w http.ResponseWriter, r *http.Request, second string) (int64, int64, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return 0, 0, false
	}
	other, ok := pathID(w, r, second)
	if !ok {
		return 0, 0, false
	}
	return id, other, true
}
