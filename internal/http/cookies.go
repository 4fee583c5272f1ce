package httpx

import (
	"net/http"
	"strings"
	"time"
)

// CookieWriter sets and clears the session cookie with consistent
// attributes. Clearing mirrors the attributes used when setting to
// maximize compatibility across browsers during deletion.
type CookieWriter struct {
	Domain string
	IsDev  bool
}

// Set writes the session cookie with the token and its expiry.
func (c *CookieWriter) Set(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   c.isSecure(r),
		Expires:  expiresAt,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie.
func (c *CookieWriter) Clear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   c.isSecure(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// isSecure reports whether the cookie should carry the Secure flag. Dev
// mode keeps it off so plain-HTTP localhost sessions work.
func (c *CookieWriter) isSecure(r *http.Request) bool {
	if c.IsDev {
		return false
	}
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
