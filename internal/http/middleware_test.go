package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/fincompass/console/internal/domain/auth"
	mockauth "github.com/fincompass/console/internal/mocks/auth"
)

func TestClassifyRoute(t *testing.T) {
	tests := []struct {
		path string
		want routeClass
	}{
		{"/", routeRoot},
		{"/login", routePublic},
		{"/healthz", routePublic},
		{"/api/auth/login", routePublic},
		{"/api/auth/logout", routePublic},
		{"/api/auth/setup", routePublic},
		{"/static/css/app.css", routePublic},
		{"/api/auth/me", routeProtectedAPI},
		{"/api/companies", routeProtectedAPI},
		{"/api/products/42", routeProtectedAPI},
		{"/api/dashboard/stats", routeProtectedAPI},
		{"/dashboard", routeProtectedPage},
		{"/anything-else", routeProtectedPage},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.want, classifyRoute(r))
		})
	}
}

func TestSafeRedirectPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"rooted path", "/dashboard", "/dashboard"},
		{"rooted with query", "/dashboard?tab=products", "/dashboard?tab=products"},
		{"empty", "", ""},
		{"absolute url", "https://evil.example/phish", ""},
		{"scheme relative", "//evil.example/phish", ""},
		{"no leading slash", "dashboard", ""},
		{"header injection", "/dash\r\nSet-Cookie: x=1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, safeRedirectPath(tt.in))
		})
	}
}

func testGate(codec *mockauth.MockTokenCodec) *Gate {
	return &Gate{
		Tokens:  codec,
		Cookies: &CookieWriter{IsDev: true},
		Logger:  slog.New(slog.DiscardHandler),
	}
}

func claimsFor(userID int64) *domainauth.TokenClaims {
	return &domainauth.TokenClaims{
		UserID:   userID,
		Username: "alice",
		Role:     domainauth.RoleAdmin,
		IssuedAt: time.Now(),
		Expires:  time.Now().Add(time.Hour),
	}
}

func sessionCookie(value string) *http.Cookie {
	return &http.Cookie{Name: SessionCookieName, Value: value}
}

func TestGateAPIWithoutCookie(t *testing.T) {
	gate := testGate(&mockauth.MockTokenCodec{
		VerifyFunc: func(string) (*domainauth.TokenClaims, error) {
			t.Fatal("Verify should not be called without a cookie")
			return nil, nil
		},
	})
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next should not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	rr := httptest.NewRecorder()
	gate.Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "authentication_required")
}

func TestGateAPIInvalidTokenClearsCookie(t *testing.T) {
	gate := testGate(&mockauth.MockTokenCodec{
		VerifyFunc: func(string) (*domainauth.TokenClaims, error) {
			return nil, errors.New("bad signature")
		},
	})
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next should not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	req.AddCookie(sessionCookie("garbage"))
	rr := httptest.NewRecorder()
	gate.Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	setCookie := rr.Header().Get("Set-Cookie")
	assert.Contains(t, setCookie, SessionCookieName+"=")
	assert.Contains(t, setCookie, "Max-Age=0")
}

func TestGateAPIValidTokenAttachesClaims(t *testing.T) {
	gate := testGate(&mockauth.MockTokenCodec{
		VerifyFunc: func(string) (*domainauth.TokenClaims, error) {
			return claimsFor(7), nil
		},
	})

	var seen *domainauth.TokenClaims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := GetClaimsFromContext(r.Context())
		require.True(t, ok)
		seen = got
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	req.AddCookie(sessionCookie("valid"))
	rr := httptest.NewRecorder()
	gate.Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, seen)
	assert.Equal(t, int64(7), seen.UserID)
}

func TestGatePageWithoutCookieRedirects(t *testing.T) {
	gate := testGate(&mockauth.MockTokenCodec{
		VerifyConstrainedFunc: func(string) (*domainauth.TokenClaims, error) {
			t.Fatal("VerifyConstrained should not be called without a cookie")
			return nil, nil
		},
		VerifyFunc: func(string) (*domainauth.TokenClaims, error) { return nil, nil },
	})
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next should not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rr := httptest.NewRecorder()
	gate.Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login?redirect_uri=%2Fdashboard", rr.Header().Get("Location"))
}

func TestGatePageCorruptTokenClearsAndRedirects(t *testing.T) {
	gate := testGate(&mockauth.MockTokenCodec{
		VerifyConstrainedFunc: func(string) (*domainauth.TokenClaims, error) {
			return nil, errors.New("malformed")
		},
		VerifyFunc: func(string) (*domainauth.TokenClaims, error) { return nil, nil },
	})
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next should not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookie("garbage"))
	rr := httptest.NewRecorder()
	gate.Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, rr.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestGatePageValidTokenPasses(t *testing.T) {
	gate := testGate(&mockauth.MockTokenCodec{
		VerifyConstrainedFunc: func(string) (*domainauth.TokenClaims, error) {
			return claimsFor(3), nil
		},
		VerifyFunc: func(string) (*domainauth.TokenClaims, error) { return nil, nil },
	})

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookie("valid"))
	rr := httptest.NewRecorder()
	gate.Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, reached)
}

func TestGateRootRedirects(t *testing.T) {
	t.Run("authenticated goes to dashboard", func(t *testing.T) {
		gate := testGate(&mockauth.MockTokenCodec{
			VerifyConstrainedFunc: func(string) (*domainauth.TokenClaims, error) {
				return claimsFor(1), nil
			},
			VerifyFunc: func(string) (*domainauth.TokenClaims, error) { return nil, nil },
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(sessionCookie("valid"))
		rr := httptest.NewRecorder()
		gate.Middleware(http.NotFoundHandler()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, dashboardPath, rr.Header().Get("Location"))
	})

	t.Run("anonymous goes to login", func(t *testing.T) {
		gate := testGate(&mockauth.MockTokenCodec{
			VerifyFunc: func(string) (*domainauth.TokenClaims, error) { return nil, nil },
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		gate.Middleware(http.NotFoundHandler()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, loginPath, rr.Header().Get("Location"))
	})

	t.Run("root never carries a redirect_uri", func(t *testing.T) {
		gate := testGate(&mockauth.MockTokenCodec{
			VerifyConstrainedFunc: func(string) (*domainauth.TokenClaims, error) {
				return nil, errors.New("expired")
			},
			VerifyFunc: func(string) (*domainauth.TokenClaims, error) { return nil, nil },
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(sessionCookie("stale"))
		rr := httptest.NewRecorder()
		gate.Middleware(http.NotFoundHandler()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, loginPath, rr.Header().Get("Location"))
		assert.Contains(t, rr.Header().Get("Set-Cookie"), "Max-Age=0")
	})
}

func TestGatePublicRoutePassesWithoutToken(t *testing.T) {
	gate := testGate(&mockauth.MockTokenCodec{
		VerifyFunc: func(string) (*domainauth.TokenClaims, error) {
			t.Fatal("public routes must not touch the token codec")
			return nil, nil
		},
	})

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rr := httptest.NewRecorder()
	gate.Middleware(next).ServeHTTP(rr, req)

	assert.True(t, reached)
}

func TestCookieWriterSecureFlag(t *testing.T) {
	t.Run("dev mode never secure", func(t *testing.T) {
		cw := &CookieWriter{IsDev: true}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		rr := httptest.NewRecorder()
		cw.Set(rr, req, "tok", time.Now().Add(time.Hour))
		assert.NotContains(t, rr.Header().Get("Set-Cookie"), "Secure")
	})

	t.Run("forwarded https is secure", func(t *testing.T) {
		cw := &CookieWriter{}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		rr := httptest.NewRecorder()
		cw.Set(rr, req, "tok", time.Now().Add(time.Hour))
		assert.Contains(t, rr.Header().Get("Set-Cookie"), "Secure")
	})

	t.Run("plain http is not secure", func(t *testing.T) {
		cw := &CookieWriter{}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		cw.Set(rr, req, "tok", time.Now().Add(time.Hour))
		assert.NotContains(t, rr.Header().Get("Set-Cookie"), "Secure")
	})
}
