package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shantanuseth8203/Data-Visualization/internal/config"
	"github.com/shantanuseth8203/Data-Visualization/internal/dataprocessing"
	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
	"github.com/shantanuseth8203/Data-Visualization/internal/infrastructure"
	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

// Format is an output file format
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatParquet Format = "parquet"
)

// File names used for every export
const (
	DailyFile        = "daily_sales"
	MonthlyFile      = "monthly_rollup"
	SummaryFile      = "summary"
	DistributionFile = "color_distribution"
	EnrichedFile     = "enriched_sales"
	WorkbookFile     = "sales_report.xlsx"
)

// ParseFormats parses a list such as "csv,xlsx". Duplicates are ignored.
func ParseFormats(values ...string) ([]Format, error) {
	var formats []Format
	seen := map[Format]bool{}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			f := Format(strings.ToLower(strings.TrimSpace(part)))
			if f == "" || seen[f] {
				continue
			}
			switch f {
			case FormatCSV, FormatXLSX, FormatParquet:
			default:
				return nil, apperrors.NewAppValidationError(fmt.Sprintf("unsupported export format %q", part))
			}
			seen[f] = true
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return nil, apperrors.NewAppValidationError("no export format given")
	}
	return formats, nil
}

// Report is everything written by one export
type Report struct {
	Result *dataprocessing.ResultSet
	// Colors is the bike color distribution shown next to the series.
	Colors domain.DistributionGroup
}

// ReportExporter writes pipeline results to the report directory
type ReportExporter struct {
	paths     *config.Paths
	csvWriter *CSVWriter
	logger    *slog.Logger
}

// NewReportExporter creates a new report exporter
func NewReportExporter(paths *config.Paths, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{
		paths:     paths,
		csvWriter: NewCSVWriter(paths, logger),
		logger:    infrastructure.WithComponent(logger, "exporter"),
	}
}

// Export writes the report in each requested format and returns the files written
func (e *ReportExporter) Export(ctx context.Context, report Report, formats []Format) ([]string, error) {
	if report.Result == nil {
		return nil, apperrors.NewAppValidationError("no result to export")
	}

	var files []string
	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return files, err
		}
		var (
			written []string
			err     error
		)
		switch format {
		case FormatCSV:
			written, err = e.ExportCSV(report)
		case FormatXLSX:
			var path string
			path, err = e.ExportWorkbook(report)
			written = []string{path}
		case FormatParquet:
			written, err = e.ExportParquet(report.Result)
		default:
			err = apperrors.NewAppValidationError(fmt.Sprintf("unsupported export format %q", format))
		}
		if err != nil {
			return files, err
		}
		files = append(files, written...)
	}

	e.logger.InfoContext(ctx, "report exported",
		slog.String("run_id", report.Result.RunID),
		slog.Int("files", len(files)))
	return files, nil
}

// ExportCSV writes one CSV file per view of the result
func (e *ReportExporter) ExportCSV(report Report) ([]string, error) {
	result := report.Result
	var files []string

	writes := []struct {
		name    string
		headers []string
		records [][]string
	}{
		{DailyFile, dailyHeaders(result), dailyRecords(result)},
		{MonthlyFile, monthlyHeaders, monthlyRecords(result.Monthly())},
		{SummaryFile, summaryHeaders, summaryRecords(result)},
		{DistributionFile, distributionHeaders, distributionRecords(report.Colors)},
	}
	for _, w := range writes {
		path, err := e.csvWriter.WriteSimpleCSV(w.name+".csv", w.headers, w.records)
		if err != nil {
			return files, fmt.Errorf("failed to write %s: %w", w.name, err)
		}
		files = append(files, path)
	}

	path, err := e.exportEnrichedCSV(result.Enriched())
	if err != nil {
		return files, err
	}
	return append(files, path), nil
}

func (e *ReportExporter) exportEnrichedCSV(records []domain.EnrichedSale) (string, error) {
	stream, err := e.csvWriter.CreateStreamWriter(EnrichedFile+".csv", enrichedHeaders)
	if err != nil {
		return "", err
	}
	for _, r := range records {
		if err := stream.WriteRecord(enrichedRecord(r)); err != nil {
			stream.Close()
			return "", apperrors.NewStorageError("failed to write enriched sale", err)
		}
	}
	if err := stream.Close(); err != nil {
		return "", apperrors.NewStorageError("failed to close enriched sales file", err)
	}
	return stream.Path(), nil
}

var (
	monthlyHeaders      = []string{"Month", "Sales", "Cost", "Profit"}
	summaryHeaders      = []string{"Metric", "Value"}
	distributionHeaders = []string{"Category", "Amount"}
	enrichedHeaders     = []string{"Date", "ProductKey", "CustomerKey", "Amount", "Cost", "Category", "SubCategory", "Color"}
)

func dailyHeaders(result *dataprocessing.ResultSet) []string {
	if result.Trend == nil {
		return []string{"Date", "Sales"}
	}
	return []string{"Date", "Sales", "Trend"}
}

func dailyRecords(result *dataprocessing.ResultSet) [][]string {
	daily := result.Daily()
	trend := result.TrendValues()
	records := make([][]string, len(daily))
	for i, p := range daily {
		row := []string{formatDate(p.Date), formatFloat(p.Sales)}
		if trend != nil {
			row = append(row, formatFloat(trend[i]))
		}
		records[i] = row
	}
	return records
}

func monthlyRecords(rollup domain.MonthlyRollup) [][]string {
	records := make([][]string, len(rollup))
	for i, m := range rollup {
		records[i] = []string{m.Month.String(), formatFloat(m.Sales), formatFloat(m.Cost), formatFloat(m.Profit)}
	}
	return records
}

func summaryRecords(result *dataprocessing.ResultSet) [][]string {
	s := result.Summary
	records := [][]string{
		{"count", fmt.Sprintf("%d", s.Count)},
		{"total", formatFloat(s.Total)},
		{"min", formatOptional(s.Min)},
		{"max", formatOptional(s.Max)},
		{"mean", formatOptional(s.Mean)},
		{"std_dev", formatOptional(s.StdDev)},
	}
	if result.Trend != nil {
		records = append(records,
			[]string{"trend_slope", formatFloat(result.Trend.Slope)},
			[]string{"trend_intercept", formatFloat(result.Trend.Intercept)})
	}
	return records
}

func distributionRecords(group domain.DistributionGroup) [][]string {
	records := make([][]string, 0, group.Count())
	for _, g := range group.Groups {
		for _, v := range g.Values {
			records = append(records, []string{g.Category, formatFloat(v)})
		}
	}
	return records
}

func enrichedRecord(r domain.EnrichedSale) []string {
	return []string{
		formatDate(r.Date), r.ProductKey, r.CustomerKey,
		formatFloat(r.Amount), formatFloat(r.Cost),
		r.Category, r.SubCategory, r.Color,
	}
}
