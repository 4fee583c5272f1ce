package httpx

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/fincompass/console/internal/service"
)

//go:embed templates/*.html.tmpl
var templatesFS embed.FS

// PageHandlers renders the server-side HTML pages.
type PageHandlers struct {
	Auth      *service.AuthService
	Dashboard *service.DashboardService
	Cookies   *CookieWriter
	Logger    *slog.Logger

	templates *template.Template
}

// NewPageHandlers parses the embedded templates once at startup.
func NewPageHandlers(auth *service.AuthService, dashboard *service.DashboardService, cookies *CookieWriter, logger *slog.Logger) (*PageHandlers, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, err
	}
	return &PageHandlers{
		Auth:      auth,
		Dashboard: dashboard,
		Cookies:   cookies,
		Logger:    logger,
		templates: tmpl,
	}, nil
}

// LoginPage handles GET /login.
func (h *PageHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	// Already signed in with a token that fully verifies? Go straight
	// to the dashboard.
	if token, ok := sessionToken(r); ok {
		if _, _, err := h.Auth.CurrentUser(r.Context(), token); err == nil {
			http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
			return
		}
	}

	data := map[string]any{
		"RedirectURI": safeRedirectPath(r.URL.Query().Get("redirect_uri")),
	}
	h.render(w, "login.html.tmpl", data)
}

// DashboardPage handles GET /dashboard. The gate's structural check let
// the request through; rendering user data requires full verification.
func (h *PageHandlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(r)
	if !ok {
		redirectToLogin(w, r)
		return
	}
	user, _, err := h.Auth.CurrentUser(r.Context(), token)
	if err != nil {
		h.Cookies.Clear(w, r)
		redirectToLogin(w, r)
		return
	}

	stats, err := h.Dashboard.Stats(r.Context())
	if err != nil {
		h.Logger.Error("failed to load dashboard stats", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render(w, "dashboard.html.tmpl", map[string]any{
		"User":  user,
		"Stats": stats,
	})
}

func (h *PageHandlers) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.Logger.Error("template render failed", "template", name, "error", err)
	}
}
