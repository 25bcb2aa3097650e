package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/shantanuseth8203/Data-Visualization/internal/dataprocessing"
	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
)

// DailyRow is the parquet layout of the daily series
type DailyRow struct {
	Date  string   `parquet:"date"`
	Sales float64  `parquet:"sales"`
	Trend *float64 `parquet:"trend,optional"`
}

// MonthlyRow is the parquet layout of the monthly rollup
type MonthlyRow struct {
	Month  string  `parquet:"month"`
	Sales  float64 `parquet:"sales"`
	Cost   float64 `parquet:"cost"`
	Profit float64 `parquet:"profit"`
}

// EnrichedRow is the parquet layout of a joined sale
type EnrichedRow struct {
	Date        string  `parquet:"date"`
	ProductKey  string  `parquet:"product_key"`
	CustomerKey string  `parquet:"customer_key"`
	Amount      float64 `parquet:"amount"`
	Cost        float64 `parquet:"cost"`
	Category    string  `parquet:"category"`
	SubCategory string  `parquet:"sub_category"`
	Color       string  `parquet:"color"`
}

// ExportParquet writes the daily, monthly and enriched tables as parquet files
func (e *ReportExporter) ExportParquet(result *dataprocessing.ResultSet) ([]string, error) {
	daily := result.Daily()
	trend := result.TrendValues()
	dailyRows := make([]DailyRow, len(daily))
	for i, p := range daily {
		dailyRows[i] = DailyRow{Date: formatDate(p.Date), Sales: p.Sales}
		if trend != nil {
			v := trend[i]
			dailyRows[i].Trend = &v
		}
	}

	monthly := result.Monthly()
	monthlyRows := make([]MonthlyRow, len(monthly))
	for i, m := range monthly {
		monthlyRows[i] = MonthlyRow{Month: m.Month.String(), Sales: m.Sales, Cost: m.Cost, Profit: m.Profit}
	}

	enriched := result.Enriched()
	enrichedRows := make([]EnrichedRow, len(enriched))
	for i, r := range enriched {
		enrichedRows[i] = EnrichedRow{
			Date:        formatDate(r.Date),
			ProductKey:  r.ProductKey,
			CustomerKey: r.CustomerKey,
			Amount:      r.Amount,
			Cost:        r.Cost,
			Category:    r.Category,
			SubCategory: r.SubCategory,
			Color:       r.Color,
		}
	}

	var files []string
	path, err := writeParquet(e.paths.GetReportPath(DailyFile+".parquet"), dailyRows)
	if err != nil {
		return files, err
	}
	files = append(files, path)
	if path, err = writeParquet(e.paths.GetReportPath(MonthlyFile+".parquet"), monthlyRows); err != nil {
		return files, err
	}
	files = append(files, path)
	if path, err = writeParquet(e.paths.GetReportPath(EnrichedFile+".parquet"), enrichedRows); err != nil {
		return files, err
	}
	return append(files, path), nil
}

func writeParquet[T any](path string, rows []T) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create directory", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to write %s", path), err)
	}
	if err := writer.Close(); err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to close %s", path), err)
	}
	return path, nil
}
