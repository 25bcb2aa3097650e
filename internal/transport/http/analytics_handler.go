package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/shantanuseth8203/Data-Visualization/internal/dataprocessing"
	apierrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
	"github.com/shantanuseth8203/Data-Visualization/internal/infrastructure"
	"github.com/shantanuseth8203/Data-Visualization/internal/middleware"
	"github.com/shantanuseth8203/Data-Visualization/internal/services"
	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

// AnalyticsServiceInterface defines the analytics operations used by the handler
type AnalyticsServiceInterface interface {
	Compute(ctx context.Context) (*dataprocessing.ResultSet, error)
	Dashboard(ctx context.Context) (*services.Dashboard, error)
	Trend(ctx context.Context) (*services.TrendView, error)
	ColorDistribution(ctx context.Context, allowed []string, category string) (domain.DistributionGroup, error)
	SubcategoryDistribution(ctx context.Context, allowed []string) (*services.SubcategoryView, error)
}

// DailyResponse is the body of GET /daily
type DailyResponse struct {
	RunID string             `json:"run_id"`
	Daily domain.DailySeries `json:"daily"`
}

// MonthlyResponse is the body of GET /monthly
type MonthlyResponse struct {
	RunID   string               `json:"run_id"`
	Monthly domain.MonthlyRollup `json:"monthly"`
}

// SummaryResponse is the body of GET /summary
type SummaryResponse struct {
	RunID    string              `json:"run_id"`
	Summary  domain.SummaryStats `json:"summary"`
	Warnings []string            `json:"warnings"`
}

// ReportResponse is the body of GET /report
type ReportResponse struct {
	RunID      string             `json:"run_id"`
	ComputedAt time.Time          `json:"computed_at"`
	Report     domain.StageReport `json:"report"`
	Warnings   []string           `json:"warnings"`
}

type colorQuery struct {
	Allowed  []string `query:"allowed" validate:"max=50,dive,max=100"`
	Category string   `query:"category" validate:"max=100"`
}

type subcategoryQuery struct {
	Allowed []string `query:"allowed" validate:"max=50,dive,max=100"`
}

// AnalyticsHandler serves the read-only analytics API. Every request runs a
// fresh computation over the current snapshot.
type AnalyticsHandler struct {
	service      AnalyticsServiceInterface
	validator    *middleware.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service AnalyticsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsHandler{
		service:      service,
		validator:    middleware.NewQueryValidator(),
		logger:       infrastructure.WithComponent(logger, "analytics_handler"),
		errorHandler: errorHandler,
	}
}

// Routes returns the analytics routes
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/analytics", h.GetDashboard)
	r.Get("/daily", h.GetDaily)
	r.Get("/monthly", h.GetMonthly)
	r.Get("/summary", h.GetSummary)
	r.Get("/trend", h.GetTrend)
	r.Get("/report", h.GetReport)
	r.Route("/distribution", func(r chi.Router) {
		r.Get("/color", h.GetColorDistribution)
		r.Get("/subcategory", h.GetSubcategoryDistribution)
	})
	return r
}

// GetDashboard handles GET /api/v1/analytics
func (h *AnalyticsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, dashboard)
}

// GetDaily handles GET /api/v1/daily
func (h *AnalyticsHandler) GetDaily(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Compute(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, DailyResponse{RunID: result.RunID, Daily: result.Daily()})
}

// GetMonthly handles GET /api/v1/monthly
func (h *AnalyticsHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Compute(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, MonthlyResponse{RunID: result.RunID, Monthly: result.Monthly()})
}

// GetSummary handles GET /api/v1/summary
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Compute(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, SummaryResponse{RunID: result.RunID, Summary: result.Summary, Warnings: result.Warnings})
}

// GetTrend handles GET /api/v1/trend. The line is null when the series has
// fewer than two days.
func (h *AnalyticsHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Trend(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// GetReport handles GET /api/v1/report
func (h *AnalyticsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Compute(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, ReportResponse{
		RunID:      result.RunID,
		ComputedAt: result.ComputedAt,
		Report:     result.Report,
		Warnings:   result.Warnings,
	})
}

// GetColorDistribution handles GET /api/v1/distribution/color?allowed=Red,Blue&category=Bikes
func (h *AnalyticsHandler) GetColorDistribution(w http.ResponseWriter, r *http.Request) {
	query := colorQuery{
		Allowed:  middleware.QueryList(r.URL.Query(), "allowed"),
		Category: r.URL.Query().Get("category"),
	}
	if err := h.validator.Validate(query); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	group, err := h.service.ColorDistribution(r.Context(), query.Allowed, query.Category)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, group)
}

// GetSubcategoryDistribution handles GET /api/v1/distribution/subcategory?allowed=Road%20Bikes
func (h *AnalyticsHandler) GetSubcategoryDistribution(w http.ResponseWriter, r *http.Request) {
	query := subcategoryQuery{Allowed: middleware.QueryList(r.URL.Query(), "allowed")}
	if err := h.validator.Validate(query); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.SubcategoryDistribution(r.Context(), query.Allowed)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}
