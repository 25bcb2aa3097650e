package domain

import (
	"fmt"
	"time"
)

// DailyPoint is the total sales of one calendar date.
type DailyPoint struct {
	Date  time.Time `json:"date"`
	Sales float64   `json:"sales"`
}

// DailySeries is ordered ascending by date with one entry per distinct date.
type DailySeries []DailyPoint

// Values returns the sales values in series order.
func (s DailySeries) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Sales
	}
	return values
}

// Month identifies a calendar month.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthOf returns the calendar month of t in t's own location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Before reports whether m is earlier than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// Start returns the first instant of the month in UTC.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalText implements encoding.TextMarshaler.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Month) UnmarshalText(b []byte) error {
	t, err := time.Parse("2006-01", string(b))
	if err != nil {
		return fmt.Errorf("invalid month %q: %w", string(b), err)
	}
	*m = MonthOf(t)
	return nil
}

// MonthlyPoint is the sales, cost and profit rollup of one calendar month.
type MonthlyPoint struct {
	Month  Month   `json:"month"`
	Sales  float64 `json:"sales"`
	Cost   float64 `json:"cost"`
	Profit float64 `json:"profit"`
}

// MonthlyRollup is ordered ascending by month.
type MonthlyRollup []MonthlyPoint

// SummaryStats describes the daily sales series. Nil fields are absent:
// extrema and mean need at least one point, StdDev needs two.
type SummaryStats struct {
	Count  int      `json:"count"`
	Total  float64  `json:"total"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Mean   *float64 `json:"mean"`
	StdDev *float64 `json:"std_dev"`
}

// TrendLine is value = Slope*index + Intercept over the 0-based series index.
type TrendLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the line at the given index.
func (l TrendLine) At(index int) float64 {
	return l.Slope*float64(index) + l.Intercept
}

// Project returns the fitted values for indices 0..n-1.
func (l TrendLine) Project(n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = l.At(i)
	}
	return values
}

// CategoryField names the product attribute used to partition enriched sales.
type CategoryField string

const (
	FieldColor       CategoryField = "color"
	FieldSubCategory CategoryField = "sub_category"
	FieldCategory    CategoryField = "category"
)

// Valid reports whether f is a known field.
func (f CategoryField) Valid() bool {
	switch f {
	case FieldColor, FieldSubCategory, FieldCategory:
		return true
	}
	return false
}

// Of returns the value of the field on an enriched record.
func (f CategoryField) Of(r EnrichedSale) string {
	switch f {
	case FieldColor:
		return r.Color
	case FieldSubCategory:
		return r.SubCategory
	case FieldCategory:
		return r.Category
	}
	return ""
}

// CategoryValues holds the sale amounts of one category in record order.
type CategoryValues struct {
	Category string    `json:"category"`
	Values   []float64 `json:"values"`
}

// DistributionGroup partitions sale amounts by category, ordered by the
// caller's allow-list. Categories without records are omitted.
type DistributionGroup struct {
	Field  CategoryField    `json:"field"`
	Groups []CategoryValues `json:"groups"`
}

// Count returns the number of grouped values.
func (g DistributionGroup) Count() int {
	n := 0
	for _, grp := range g.Groups {
		n += len(grp.Values)
	}
	return n
}

// Get returns the values of one category.
func (g DistributionGroup) Get(category string) ([]float64, bool) {
	for _, grp := range g.Groups {
		if grp.Category == category {
			return grp.Values, true
		}
	}
	return nil, false
}

// TableReport accounts for the rows a normalization pass removed.
type TableReport struct {
	Table              string `json:"table"`
	Input              int    `json:"input"`
	DroppedNull        int    `json:"dropped_null"`
	DroppedUnparseable int    `json:"dropped_unparseable"`
	DroppedDuplicate   int    `json:"dropped_duplicate"`
	Output             int    `json:"output"`
}

// Dropped returns the total number of removed rows.
func (r TableReport) Dropped() int {
	return r.DroppedNull + r.DroppedUnparseable + r.DroppedDuplicate
}

// JoinReport accounts for sales rows that found no product.
type JoinReport struct {
	Input     int `json:"input"`
	Unmatched int `json:"unmatched"`
	Output    int `json:"output"`
}

// StageReport collects row accounting for every stage of one invocation.
type StageReport struct {
	Sales     TableReport `json:"sales"`
	Products  TableReport `json:"products"`
	Customers TableReport `json:"customers"`
	Join      JoinReport  `json:"join"`
}
