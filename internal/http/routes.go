package httpx

import (
	"log/slog"
	"net/http"

	"github.com/fincompass/console/internal/ports"
	"github.com/fincompass/console/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      *service.AuthService
	Users     *service.UserService
	Companies *service.CompanyService
	Products  *service.ProductService
	Dashboard *service.DashboardService
	Tokens    ports.TokenCodec

	CookieDomain string
	IsDev        bool
	Logger       *slog.Logger
}

// NewRouter creates the HTTP handler: all routes behind the access gate,
// wrapped with request logging and panic recovery.
func NewRouter(services RouterServices) (http.Handler, error) {
	mux := http.NewServeMux()

	cookies := &CookieWriter{Domain: services.CookieDomain, IsDev: services.IsDev}

	authHandlers := &AuthHandlers{Auth: services.Auth, Cookies: cookies, Logger: services.Logger}
	userHandlers := &UserHandlers{Users: services.Users}
	companyHandlers := &CompanyHandlers{Companies: services.Companies}
	productHandlers := &ProductHandlers{Products: services.Products}
	dashboardHandlers := &DashboardHandlers{Dashboard: services.Dashboard}

	pageHandlers, err := NewPageHandlers(services.Auth, services.Dashboard, cookies, services.Logger)
	if err != nil {
		return nil, err
	}

	registerAuthRoutes(mux, authHandlers)
	registerCRUD(mux, crudRoutes{
		Base:    "/api/users",
		Create:  userHandlers.Create,
		List:    userHandlers.List,
		GetByID: userHandlers.Get,
		Update:  userHandlers.Update,
		Delete:  userHandlers.Delete,
	})
	registerCRUD(mux, crudRoutes{
		Base:    "/api/companies",
		Create:  companyHandlers.Create,
		List:    companyHandlers.List,
		GetByID: companyHandlers.Get,
		Update:  companyHandlers.Update,
		Delete:  companyHandlers.Delete,
	})
	registerCRUD(mux, crudRoutes{
		Base:    "/api/products",
		Create:  productHandlers.Create,
		List:    productHandlers.List,
		GetByID: productHandlers.Get,
		Update:  productHandlers.Update,
		Delete:  productHandlers.Delete,
	})
	mux.HandleFunc("GET /api/dashboard/stats", dashboardHandlers.Stats)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	mux.HandleFunc("GET /login", pageHandlers.LoginPage)
	mux.HandleFunc("GET /dashboard", pageHandlers.DashboardPage)
	// "/" never reaches the mux for real work: the gate redirects it to
	// either the dashboard or the login page.
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
	})

	gate := &Gate{Tokens: services.Tokens, Cookies: cookies, Logger: services.Logger}

	var handler http.Handler = mux
	handler = gate.Middleware(handler)
	handler = Logging(services.Logger)(handler)
	handler = Recover(services.Logger)(handler)
	return handler, nil
}

// crudRoutes describes standard CRUD handlers for a resource base path.
type crudRoutes struct {
	Base    string
	Create  http.HandlerFunc
	List    http.HandlerFunc
	GetByID http.HandlerFunc
	Update  http.HandlerFunc
	Delete  http.HandlerFunc
}

func registerCRUD(mux *http.ServeMux, cfg crudRoutes) {
	if cfg.Base == "" {
		panic("registerCRUD: Base must not be empty") //nolint:forbidigo // Fail fast during server setup.
	}
	if cfg.Create == nil ||
		cfg.List == nil ||
		cfg.GetByID == nil ||
		cfg.Update == nil ||
		cfg.Delete == nil {
		panic("registerCRUD: nil handler for base " + cfg.Base) //nolint:forbidigo // Fail fast during server setup.
	}

	mux.HandleFunc("POST "+cfg.Base, cfg.Create)
	mux.HandleFunc("GET "+cfg.Base, cfg.List)
	mux.HandleFunc("GET "+cfg.Base+"/{id}", cfg.GetByID)
	mux.HandleFunc("PUT "+cfg.Base+"/{id}", cfg.Update)
	mux.HandleFunc("DELETE "+cfg.Base+"/{id}", cfg.Delete)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("POST /api/auth/setup", h.Setup)
	mux.HandleFunc("GET /api/auth/me", h.Me)
}
