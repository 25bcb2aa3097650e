package dataprocessing

import (
	"time"

	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

// ResultSet is the immutable outcome of one pipeline run. Query methods hand
// out fresh slices, so callers cannot alter what other callers observe.
type ResultSet struct {
	RunID         string               `json:"run_id"`
	ComputedAt    time.Time            `json:"computed_at"`
	DailySeries   domain.DailySeries   `json:"daily_series"`
	MonthlyRollup domain.MonthlyRollup `json:"monthly_rollup"`
	Summary       domain.SummaryStats  `json:"summary"`
	Trend         *domain.TrendLine    `json:"trend"`
	Report        domain.StageReport   `json:"report"`
	Warnings      []string             `json:"warnings"`

	enriched []domain.EnrichedSale
}

// Daily returns a copy of the daily series.
func (r *ResultSet) Daily() domain.DailySeries {
	return append(domain.DailySeries(nil), r.DailySeries...)
}

// Monthly returns a copy of the monthly rollup.
func (r *ResultSet) Monthly() domain.MonthlyRollup {
	return append(domain.MonthlyRollup(nil), r.MonthlyRollup...)
}

// Enriched returns a copy of the joined sales records in sales order.
func (r *ResultSet) Enriched() []domain.EnrichedSale {
	return append([]domain.EnrichedSale(nil), r.enriched...)
}

// TrendValues returns the fitted trend for every day of the series, or nil
// when no trend could be fitted.
func (r *ResultSet) TrendValues() []float64 {
	if r.Trend == nil {
		return nil
	}
	return r.Trend.Project(len(r.DailySeries))
}

// ColorDistribution partitions sale amounts by field restricted to allowed,
// in allowed's order. Typically field is domain.FieldColor with
// WithCategory("Bikes").
func (r *ResultSet) ColorDistribution(field domain.CategoryField, allowed []string, opts ...BinOption) (domain.DistributionGroup, error) {
	return Bin(r.enriched, field, allowed, opts...)
}

// SubcategoryDistribution returns the enriched records whose subcategory is allowed.
func (r *ResultSet) SubcategoryDistribution(allowed CategorySet) []domain.EnrichedSale {
	return FilterSubcategories(r.enriched, allowed)
}
