// Package app wires the report server: config, directory client, hygiene
// service, and the HTTP router.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"adsweep/internal/api"
	"adsweep/internal/config"
	"adsweep/internal/directory"
	"adsweep/internal/middleware"
	"adsweep/internal/service/hygiene"
	"adsweep/internal/ui"
)

// shutdownGrace bounds how long in-flight requests may finish on shutdown.
const shutdownGrace = 10 * time.Second

// Run starts the report server and blocks until ctx is cancelled or the
// listener fails.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	dir, err := directory.Connect(directory.Config{
		URL:          cfg.Directory.URL,
		BindDN:       cfg.Directory.BindDN,
		BindPassword: cfg.Directory.BindPassword,
		BaseDN:       cfg.Directory.BaseDN,
		DialTimeout:  cfg.Directory.DialTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("connect directory: %w", err)
	}
	defer dir.Close() //nolint:errcheck

	svc := hygiene.New(dir, logger)
	router := NewRouter(cfg, logger, svc)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("report server listening", "addr", cfg.ListenAddr, "directory", cfg.Directory.URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// NewRouter assembles the chi router with the full middleware stack and
// both the JSON API and the HTML page. Split from Run so handler tests can
// exercise the exact production routing.
func NewRouter(cfg *config.Config, logger *slog.Logger, svc *hygiene.Service) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	api.NewHandler(svc, logger, cfg.Directory.URL).Routes(r)
	ui.NewHandler(svc, logger).Routes(r)
	return r
}
