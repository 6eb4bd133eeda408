package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vahanpulse/internal/config"
	apierrors "vahanpulse/internal/errors"
	"vahanpulse/internal/dataprocessing"
	"vahanpulse/internal/infrastructure"
	customMiddleware "vahanpulse/internal/middleware"
	"vahanpulse/internal/services"
	handlers "vahanpulse/internal/transport/http"
	"vahanpulse/pkg/contracts"
)

// Version may be overridden at build time via -ldflags
var Version = contracts.Version

// Application is the main application container
type Application struct {
	Config           *config.Config
	Router           *chi.Mux
	Server           *http.Server
	Logger           *slog.Logger
	Metrics          *infrastructure.Metrics
	Loader           *dataprocessing.Loader
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
}

// NewApplication creates a new application instance with dependency injection
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	metrics := infrastructure.NewMetrics("vahanpulse")
	loader := dataprocessing.NewLoader(cfg.Sources, logger, metrics)

	app := &Application{
		Config:           cfg,
		Logger:           logger,
		Metrics:          metrics,
		Loader:           loader,
		DashboardService: services.NewDashboardService(loader, cfg.Cache.TTL, metrics, logger),
		HealthService:    services.NewHealthService(Version, cfg.Sources, logger),
	}

	app.setupRouter()
	app.setupServer()

	return app, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.Metrics(a.Metrics))
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.Compress(5))

	if a.Config.Security.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)

		dashboardHandler := handlers.NewDashboardHandler(a.DashboardService, a.Logger, errorHandler)
		r.Mount("/", dashboardHandler.Routes())
	})

	// Prometheus metrics outside the middleware chain
	r.Handle("/metrics", promhttp.Handler())

	a.Router = r
}

// setupServer configures the HTTP server
func (a *Application) setupServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run starts the HTTP server and blocks until shutdown
func (a *Application) Run() error {
	errCh := make(chan error, 1)

	go func() {
		a.Logger.Info("server starting",
			slog.String("addr", a.Server.Addr),
			slog.String("version", Version))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		a.Logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	return a.Shutdown(context.Background())
}

// Shutdown gracefully stops the server
func (a *Application) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
		return err
	}

	a.Logger.Info("server stopped")
	if err := infrastructure.CloseLogFile(); err != nil {
		return err
	}

	return nil
}

// WarmCache preloads both sources so the first request is served from cache.
// Load failures are logged and tolerated: the health endpoint reports them.
func (a *Application) WarmCache(ctx context.Context) {
	start := time.Now()
	if _, err := a.DashboardService.FilterOptions(ctx, false); err != nil {
		a.Logger.Warn("cache warmup failed", slog.String("error", err.Error()))
		return
	}
	a.Logger.Info("cache warmed", slog.Duration("took", time.Since(start)))
}
