package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fincompass/console/config"
	httpx "github.com/fincompass/console/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handler, err := httpx.NewRouter(httpx.RouterServices{
		Auth:         cfg.Services.Auth,
		Users:        cfg.Services.Users,
		Companies:    cfg.Services.Companies,
		Products:     cfg.Services.Products,
		Dashboard:    cfg.Services.Dashboard,
		Tokens:       cfg.Services.Tokens,
		CookieDomain: cfg.Config.HTTP.CookieDomain,
		IsDev:        cfg.Config.IsDev,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	addr := cfg.Config.HTTP.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server, nil
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}

	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}

	return nil
}
