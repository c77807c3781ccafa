package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/iho/parklot/internal/adapter/http/handler"
	"github.com/iho/parklot/internal/adapter/http/middleware"
	"github.com/iho/parklot/internal/domain"
	"github.com/iho/parklot/internal/infrastructure/auth"
	"github.com/iho/parklot/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EntryHandler     *handler.EntryHandler
	ReportHandler    *handler.ReportHandler
	ExportHandler    *handler.ExportHandler
	AuthHandler      *handler.AuthHandler
	AuditHandler     *handler.AuditHandler
	HealthHandler    *handler.HealthHandler
	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	LoginRateLimiter *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(log.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Health and observability endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// Login, rate limited when a limiter is configured
	if cfg.LoginRateLimiter != nil {
		r.With(cfg.LoginRateLimiter.Limit).Post("/login", cfg.AuthHandler.Login)
	} else {
		r.Post("/login", cfg.AuthHandler.Login)
	}

	// Staff endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.JWTManager))

		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Get("/me", cfg.AuthHandler.GetCurrentUser)
		r.Get("/stats", cfg.ReportHandler.Stats)

		// Admin-only management endpoints
		r.With(middleware.RequireRole(domain.RoleAdmin)).Post("/users", cfg.AuthHandler.CreateUser)
		r.With(middleware.RequireRole(domain.RoleAdmin)).Get("/audit", cfg.AuditHandler.List)

		// Entries and exits
		r.Post("/two-wheeler-entry", cfg.EntryHandler.CreateTwoWheeler)
		r.Post("/four-wheeler-entry", cfg.EntryHandler.CreateFourWheeler)

		r.Route("/two-wheeler-exit/{token_id}", func(r chi.Router) {
			r.Get("/", cfg.EntryHandler.LookupTwoWheelerExit)
			r.Post("/", cfg.EntryHandler.ProcessTwoWheelerExit)
		})
		r.Route("/four-wheeler-exit/{token_id}", func(r chi.Router) {
			r.Get("/", cfg.EntryHandler.LookupFourWheelerExit)
			r.Post("/", cfg.EntryHandler.ProcessFourWheelerExit)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/", cfg.ReportHandler.Get)
			r.Get("/charts/{kind}", cfg.ReportHandler.Chart)
			r.Get("/export-excel", cfg.ExportHandler.Filtered)
			r.Get("/export/daily", cfg.ExportHandler.Daily)
			r.Get("/export/weekly", cfg.ExportHandler.Weekly)
			r.Get("/export/monthly", cfg.ExportHandler.Monthly)
		})
	})

	return r
}
