package httpx

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "fintech-auth-token"

// Route paths referenced from middleware and handlers.
const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

// Pagination defaults for list endpoints.
const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)
