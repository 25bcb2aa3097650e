package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shantanuseth8203/Data-Visualization/internal/config"
	apierrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
	"github.com/shantanuseth8203/Data-Visualization/internal/infrastructure"
	"github.com/shantanuseth8203/Data-Visualization/internal/middleware"
)

// RouterConfig collects the router's collaborators
type RouterConfig struct {
	Analytics      AnalyticsServiceInterface
	Health         *HealthHandler
	ErrorHandler   *apierrors.ErrorHandler
	Logger         *slog.Logger
	HTTPMetrics    *infrastructure.HTTPMetrics
	Metrics        http.Handler // prometheus scrape endpoint, optional
	RateLimit      config.RateLimitConfig
	RequestTimeout time.Duration
	CORS           middleware.CORSConfig
}

// NewRouter builds the HTTP API.
// Ordering: RequestID → RealIP → OTel → Logger → Recovery → Timeout.
func NewRouter(cfg RouterConfig) chi.Router {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = apierrors.NewErrorHandler(cfg.Logger, false)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StripSlashes)

	r.NotFound(cfg.ErrorHandler.NotFound)
	r.MethodNotAllowed(cfg.ErrorHandler.MethodNotAllowed)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewOTelMiddleware(cfg.HTTPMetrics).Handler)
		r.Use(middleware.StructuredLogger(cfg.Logger))
		r.Use(cfg.ErrorHandler.Recovery)
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.CORS(cfg.CORS))

		if cfg.Health != nil {
			r.Get("/healthz", cfg.Health.LivenessCheck)
			r.Get("/readyz", cfg.Health.ReadinessCheck)
		}

		r.Group(func(r chi.Router) {
			if cfg.RateLimit.Enabled {
				r.Use(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.Logger).Handler)
			}
			if cfg.RequestTimeout > 0 {
				r.Use(middleware.Timeout(cfg.RequestTimeout))
			}
			handler := NewAnalyticsHandler(cfg.Analytics, cfg.Logger, cfg.ErrorHandler)
			r.Mount("/api/v1", handler.Routes())
		})
	})

	return r
}
