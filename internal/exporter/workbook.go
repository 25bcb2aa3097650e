package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
)

const (
	dailySheet        = "Daily"
	monthlySheet      = "Monthly"
	summarySheet      = "Summary"
	distributionSheet = "Colors"
)

// ExportWorkbook writes every view into a single xlsx file with a line chart
// of the daily series.
func (e *ReportExporter) ExportWorkbook(report Report) (string, error) {
	result := report.Result
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dailySheet); err != nil {
		return "", apperrors.NewStorageError("failed to create workbook", err)
	}
	for _, sheet := range []string{monthlySheet, summarySheet, distributionSheet} {
		if _, err := f.NewSheet(sheet); err != nil {
			return "", apperrors.NewStorageError("failed to create workbook", err)
		}
	}

	daily := result.Daily()
	trend := result.TrendValues()
	dailyRows := make([][]interface{}, len(daily))
	for i, p := range daily {
		row := []interface{}{formatDate(p.Date), p.Sales}
		if trend != nil {
			row = append(row, trend[i])
		}
		dailyRows[i] = row
	}
	if err := writeSheet(f, dailySheet, dailyHeaders(result), dailyRows); err != nil {
		return "", err
	}

	monthly := result.Monthly()
	monthlyRows := make([][]interface{}, len(monthly))
	for i, m := range monthly {
		monthlyRows[i] = []interface{}{m.Month.String(), m.Sales, m.Cost, m.Profit}
	}
	if err := writeSheet(f, monthlySheet, monthlyHeaders, monthlyRows); err != nil {
		return "", err
	}

	summary := summaryRecords(result)
	summaryRows := make([][]interface{}, len(summary))
	for i, r := range summary {
		summaryRows[i] = []interface{}{r[0], r[1]}
	}
	if err := writeSheet(f, summarySheet, summaryHeaders, summaryRows); err != nil {
		return "", err
	}

	var colorRows [][]interface{}
	for _, g := range report.Colors.Groups {
		for _, v := range g.Values {
			colorRows = append(colorRows, []interface{}{g.Category, v})
		}
	}
	if err := writeSheet(f, distributionSheet, distributionHeaders, colorRows); err != nil {
		return "", err
	}

	if len(daily) > 0 {
		if err := addDailyChart(f, len(daily), trend != nil); err != nil {
			return "", apperrors.NewStorageError("failed to add daily chart", err)
		}
	}

	path := filepath.Join(e.paths.OutputDir, WorkbookFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create directory", err)
	}
	if err := f.SaveAs(path); err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to save %s", path), err)
	}

	e.logger.Debug("Workbook written", slog.String("path", path))
	return path, nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s header", sheet), err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.NewStorageError("invalid cell", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write %s row %d", sheet, i+1), err)
		}
	}
	return nil
}

func addDailyChart(f *excelize.File, points int, withTrend bool) error {
	last := points + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", dailySheet, last)
	series := []excelize.ChartSeries{{
		Name:       fmt.Sprintf("%s!$B$1", dailySheet),
		Categories: categories,
		Values:     fmt.Sprintf("%s!$B$2:$B$%d", dailySheet, last),
	}}
	if withTrend {
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$C$1", dailySheet),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$C$2:$C$%d", dailySheet, last),
		})
	}
	return f.AddChart(dailySheet, "E2", &excelize.Chart{
		Type:   excelize.Line,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: "Daily Sales"}},
	})
}
