package exporter

import (
	"strconv"
	"time"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatOptional renders a nil statistic as an empty cell
func formatOptional(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

// formatDate formats a calendar date as YYYY-MM-DD
func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
