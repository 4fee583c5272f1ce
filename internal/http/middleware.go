package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fincompass/console/internal/ports"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// routeClass is the access classification of an incoming request.
type routeClass int

const (
	routePublic routeClass = iota
	routeRoot
	routeProtectedAPI
	routeProtectedPage
)

// classifyRoute buckets a request into the gate's four access classes.
func classifyRoute(r *http.Request) routeClass {
	path := r.URL.Path
	switch {
	case path == "/":
		return routeRoot
	case path == loginPath,
		path == "/healthz",
		path == "/api/auth/login",
		path == "/api/auth/logout",
		path == "/api/auth/setup",
		strings.HasPrefix(path, "/static/"):
		return routePublic
	case strings.HasPrefix(path, "/api/"):
		return routeProtectedAPI
	default:
		return routeProtectedPage
	}
}

// Gate enforces the access policy in front of the whole router: public
// routes pass through, API routes get fully verified claims or a 401,
// and page routes get a cheap structural token check or a redirect to
// the login page. Corrupt cookies are cleared on the way out.
type Gate struct {
	Tokens  ports.TokenCodec
	Cookies *CookieWriter
	Logger  *slog.Logger
}

// Middleware returns the gate as a standard middleware.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch classifyRoute(r) {
		case routePublic:
			next.ServeHTTP(w, r)
		case routeRoot:
			g.serveRoot(w, r)
		case routeProtectedAPI:
			g.serveAPI(w, r, next)
		case routeProtectedPage:
			g.servePage(w, r, next)
		}
	})
}

// serveRoot sends authenticated-looking visitors to the dashboard and
// everyone else to the login page.
func (g *Gate) serveRoot(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(r)
	if ok {
		if _, err := g.Tokens.VerifyConstrained(token); err == nil {
			http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
			return
		}
		g.Cookies.Clear(w, r)
	}
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// serveAPI requires a fully verified token. The signature check happens
// here; handlers can trust the claims attached to the context.
func (g *Gate) serveAPI(w http.ResponseWriter, r *http.Request, next http.Handler) {
	token, ok := sessionToken(r)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	claims, err := g.Tokens.Verify(token)
	if err != nil {
		g.Cookies.Clear(w, r)
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	next.ServeHTTP(w, r.WithContext(SetClaimsInContext(r.Context(), claims)))
}

// servePage requires a structurally valid token and redirects to login
// otherwise. Page handlers that render user data still re-verify fully
// through the auth service; this check only filters obvious no-sessions
// without paying for signature verification on every asset navigation.
func (g *Gate) servePage(w http.ResponseWriter, r *http.Request, next http.Handler) {
	token, ok := sessionToken(r)
	if !ok {
		redirectToLogin(w, r)
		return
	}

	claims, err := g.Tokens.VerifyConstrained(token)
	if err != nil {
		g.Cookies.Clear(w, r)
		redirectToLogin(w, r)
		return
	}

	next.ServeHTTP(w, r.WithContext(SetClaimsInContext(r.Context(), claims)))
}

// sessionToken extracts the session token from the request cookie.
func sessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// redirectToLogin redirects browser requests to the login page with the
// current URL as redirect_uri.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectPath := safeRedirectPath(r.URL.RequestURI())
	loginURL := loginPath
	if redirectPath != "" && redirectPath != "/" {
		loginURL += "?redirect_uri=" + url.QueryEscape(redirectPath)
	}
	http.Redirect(w, r, loginURL, http.StatusSeeOther)
}

// safeRedirectPath keeps redirects within the application: only rooted
// paths survive, never scheme-relative or absolute URLs.
func safeRedirectPath(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return ""
	}
	if strings.ContainsAny(raw, "\r\n") {
		return ""
	}
	return raw
}
