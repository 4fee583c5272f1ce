package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fincompass/console/internal/domain/model"
	"github.com/fincompass/console/internal/service"
)

// AuthHandlers serves login, logout, first-run setup, and the current
// user endpoint.
type AuthHandlers struct {
	Auth    *service.AuthService
	Cookies *CookieWriter
	Logger  *slog.Logger
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User *model.User `json:"user"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.Cookies.Set(w, r, result.Token, result.ExpiresAt)
	WriteJSON(w, http.StatusOK, loginResponse{User: result.User})
}

// Logout handles POST /api/auth/logout. Sessions are stateless tokens,
// so logout only removes the cookie.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Cookies.Clear(w, r)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Setup handles POST /api/auth/setup: creates the bootstrap admin while
// the user table is still empty.
func (h *AuthHandlers) Setup(w http.ResponseWriter, r *http.Request) {
	user, err := h.Auth.Setup(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// Me handles GET /api/auth/me. The gate already verified the token
// signature; this re-verifies through the auth service so a deactivated
// account is cut off immediately rather than at token expiry.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(r)
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("authentication required")})
		return
	}

	user, _, err := h.Auth.CurrentUser(r.Context(), token)
	if err != nil {
		h.Cookies.Clear(w, r)
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}
