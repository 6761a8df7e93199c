package rest

import (
	"net/http"

	"github.com/dmitrijs2005/gophaccounts/internal/server/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	list, err := h.users.ListAll(r.Context(), actor)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.users.GetByID(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	res, err := h.users.DeleteByID(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// UpdateUser applies a partial update. Unknown JSON fields are ignored.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var upd models.UserUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	user, err := h.users.UpdateByID(r.Context(), chi.URLParam(r, "id"), upd, actor)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
