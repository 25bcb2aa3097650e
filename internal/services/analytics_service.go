package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/shantanuseth8203/Data-Visualization/internal/dataprocessing"
	"github.com/shantanuseth8203/Data-Visualization/internal/infrastructure"
	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

// SnapshotSource produces the three input tables. dataprocessing.WorkbookSource
// and dataprocessing.CSVDirSource implement it.
type SnapshotSource interface {
	Load(ctx context.Context) (domain.Snapshot, error)
}

// SnapshotSourceFunc adapts a function to SnapshotSource
type SnapshotSourceFunc func(ctx context.Context) (domain.Snapshot, error)

// Load implements SnapshotSource
func (f SnapshotSourceFunc) Load(ctx context.Context) (domain.Snapshot, error) {
	return f(ctx)
}

// DashboardSettings holds the allow-lists used when a request names none
type DashboardSettings struct {
	ColorOrder    []string
	BikeCategory  string
	SubCategories []string
}

// Dashboard is every view of one computation, laid out for a single page
type Dashboard struct {
	RunID         string                   `json:"run_id"`
	ComputedAt    time.Time                `json:"computed_at"`
	Summary       domain.SummaryStats      `json:"summary"`
	Daily         domain.DailySeries       `json:"daily"`
	Trend         *domain.TrendLine        `json:"trend"`
	TrendValues   []float64                `json:"trend_values"`
	Monthly       domain.MonthlyRollup     `json:"monthly"`
	Colors        domain.DistributionGroup `json:"colors"`
	SubCategories domain.DistributionGroup `json:"sub_categories"`
	Report        domain.StageReport       `json:"report"`
	Warnings      []string                 `json:"warnings"`
}

// TrendView is the fitted line with its value for each day of the series
type TrendView struct {
	Line   *domain.TrendLine  `json:"line"`
	Daily  domain.DailySeries `json:"daily"`
	Values []float64          `json:"values"`
}

// SubcategoryView holds the matching records and their amounts per subcategory
type SubcategoryView struct {
	Allowed []string                 `json:"allowed"`
	Groups  domain.DistributionGroup `json:"groups"`
	Records []domain.EnrichedSale    `json:"records"`
}

// AnalyticsService loads a fresh snapshot and recomputes the pipeline for
// every call. Concurrent calls share one in-flight computation; a ResultSet
// is immutable, so sharing it is safe.
type AnalyticsService struct {
	source   SnapshotSource
	pipeline *dataprocessing.Pipeline
	settings DashboardSettings
	logger   *slog.Logger
	flight   singleflight.Group
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(source SnapshotSource, pipeline *dataprocessing.Pipeline, settings DashboardSettings, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	if pipeline == nil {
		pipeline = dataprocessing.NewPipeline(logger, dataprocessing.DefaultOptions())
	}
	return &AnalyticsService{
		source:   source,
		pipeline: pipeline,
		settings: settings,
		logger:   infrastructure.WithComponent(logger, "analytics_service"),
	}
}

// Compute loads the snapshot and runs the pipeline
func (s *AnalyticsService) Compute(ctx context.Context) (*dataprocessing.ResultSet, error) {
	if s.source == nil {
		return nil, ErrNoSource
	}

	// The shared run outlives any single caller; each caller waits on its own context.
	runCtx := context.WithoutCancel(ctx)
	ch := s.flight.DoChan("compute", func() (interface{}, error) {
		snap, err := s.source.Load(runCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
		return s.pipeline.Compute(runCtx, snap)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.DebugContext(ctx, "computation shared with concurrent caller")
		}
		return res.Val.(*dataprocessing.ResultSet), nil
	}
}

// Dashboard computes every view with the configured allow-lists
func (s *AnalyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	result, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}

	colors, err := result.ColorDistribution(domain.FieldColor, s.settings.ColorOrder, s.bikeFilter("")...)
	if err != nil {
		return nil, err
	}
	subs, err := dataprocessing.Bin(result.Enriched(), domain.FieldSubCategory, s.settings.SubCategories)
	if err != nil {
		return nil, err
	}

	trendValues := result.TrendValues()
	if trendValues == nil {
		trendValues = []float64{}
	}

	return &Dashboard{
		RunID:         result.RunID,
		ComputedAt:    result.ComputedAt,
		Summary:       result.Summary,
		Daily:         result.Daily(),
		Trend:         result.Trend,
		TrendValues:   trendValues,
		Monthly:       result.Monthly(),
		Colors:        colors,
		SubCategories: subs,
		Report:        result.Report,
		Warnings:      result.Warnings,
	}, nil
}

// Trend returns the daily series with its fitted line
func (s *AnalyticsService) Trend(ctx context.Context) (*TrendView, error) {
	result, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}
	values := result.TrendValues()
	if values == nil {
		values = []float64{}
	}
	return &TrendView{Line: result.Trend, Daily: result.Daily(), Values: values}, nil
}

// ColorDistribution bins sale amounts by color. An empty allowed list uses
// the configured color order; an empty category uses the configured bike
// category.
func (s *AnalyticsService) ColorDistribution(ctx context.Context, allowed []string, category string) (domain.DistributionGroup, error) {
	result, err := s.Compute(ctx)
	if err != nil {
		return domain.DistributionGroup{}, err
	}
	if len(allowed) == 0 {
		allowed = s.settings.ColorOrder
	}
	return result.ColorDistribution(domain.FieldColor, allowed, s.bikeFilter(category)...)
}

// SubcategoryDistribution returns the records of the allowed subcategories.
// An empty allowed list uses the configured subcategories.
func (s *AnalyticsService) SubcategoryDistribution(ctx context.Context, allowed []string) (*SubcategoryView, error) {
	result, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}
	if len(allowed) == 0 {
		allowed = s.settings.SubCategories
	}

	records := result.SubcategoryDistribution(dataprocessing.NewCategorySet(allowed...))
	groups, err := dataprocessing.Bin(records, domain.FieldSubCategory, allowed)
	if err != nil {
		return nil, err
	}
	return &SubcategoryView{Allowed: allowed, Groups: groups, Records: records}, nil
}

func (s *AnalyticsService) bikeFilter(category string) []dataprocessing.BinOption {
	category = strings.TrimSpace(category)
	if category == "" {
		category = s.settings.BikeCategory
	}
	if category == "" {
		return nil
	}
	return []dataprocessing.BinOption{dataprocessing.WithCategory(category)}
}
