package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sh2nam/bree-takehome-nam/internal/adapter/http/handler"
	"github.com/sh2nam/bree-takehome-nam/internal/adapter/http/middleware"
	"github.com/sh2nam/bree-takehome-nam/internal/infrastructure/metrics"
	"github.com/sh2nam/bree-takehome-nam/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	FeatureHandler   *handler.FeatureHandler
	RunHandler       *handler.RunHandler
	QualityHandler   *handler.QualityHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	Metrics          *metrics.Metrics
	Gatherer         prometheus.Gatherer
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics.HTTPRequests, cfg.Metrics.HTTPDuration).Wrap)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/runs", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if cfg.IdempotencyStore != nil {
					r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
				}
				r.Post("/", cfg.RunHandler.Create)
			})
			r.Get("/latest", cfg.RunHandler.Latest)
			r.Get("/{id}", cfg.RunHandler.Get)
		})

		r.Get("/features/{loanID}", cfg.FeatureHandler.GetByLoan)
		r.Get("/users/{userID}/features", cfg.FeatureHandler.ListByUser)
		r.Get("/quality", cfg.QualityHandler.Run)
	})

	return r
}
