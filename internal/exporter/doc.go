// Package exporter writes pipeline results to the report directory.
//
// Three formats are supported:
//
// CSV: one UTF-8 file with BOM per view (daily series with trend, monthly
// rollup, summary, color distribution) plus a streamed file of enriched sales.
//
// XLSX: a single workbook with one sheet per view and a line chart of the
// daily series, written with excelize.
//
// Parquet: the daily, monthly and enriched tables for downstream tools.
//
// Example usage:
//
//	exp := exporter.NewReportExporter(paths, logger)
//	files, err := exp.Export(ctx, exporter.Report{Result: result, Colors: colors},
//		[]exporter.Format{exporter.FormatCSV, exporter.FormatXLSX})
package exporter
