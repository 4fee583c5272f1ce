package httpx

import (
	"errors"
	"net/http"

	"github.com/fincompass/console/internal/domain/model"
	"github.com/fincompass/console/internal/service"
)

// UserHandlers serves the /api/users management surface.
type UserHandlers struct {
	Users *service.UserService
}

// List handles GET /api/users.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	users, err := h.Users.List(r.Context(), limit, offset)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

// Get handles GET /api/users/{id}.
func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.Users.Get(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Create handles POST /api/users.
func (h *UserHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if claims, ok := GetClaimsFromContext(r.Context()); ok {
		req.CreatedBy = &claims.UserID
	}

	user, err := h.Users.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// Update handles PUT /api/users/{id}.
func (h *UserHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("authentication required")})
		return
	}
	var req model.UpdateUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Users.Update(r.Context(), claims.UserID, id, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("authentication required")})
		return
	}

	deleted, err := h.Users.Delete(r.Context(), claims.UserID, id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("user not found")})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
