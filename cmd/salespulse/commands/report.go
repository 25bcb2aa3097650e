package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/shantanuseth8203/Data-Visualization/internal/app"
	"github.com/shantanuseth8203/Data-Visualization/internal/config"
	"github.com/shantanuseth8203/Data-Visualization/internal/exporter"
	"github.com/shantanuseth8203/Data-Visualization/internal/files"
	"github.com/shantanuseth8203/Data-Visualization/internal/infrastructure"
)

// reportCmd computes the analytics once and writes the report files
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute the analytics and export the report",
	Long: `Loads the snapshot, runs the pipeline once and writes the daily series,
monthly rollup, summary, colour distribution and enriched sales.

Formats:
- csv: one file per view
- xlsx: a single workbook with a daily sales chart
- parquet: typed columnar files for the series and enriched sales

Example:
  salespulse report --workbook data/AdventureWorks.xlsx
  salespulse report --csv-dir exports --format csv,parquet --drop-unparseable
  salespulse report --latest --archive`,
	RunE: runReport,
}

var (
	// Report flags
	reportWorkbook        string
	reportCSVDir          string
	reportOutDir          string
	reportFormats         []string
	reportDropUnparseable bool
	reportLatest          bool
	reportArchive         bool
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportWorkbook, "workbook", "", "Excel workbook holding the snapshot")
	reportCmd.Flags().StringVar(&reportCSVDir, "csv-dir", "", "directory of sales.csv, products.csv and customers.csv")
	reportCmd.Flags().StringVar(&reportOutDir, "out", "", "output directory (default from config)")
	reportCmd.Flags().StringSliceVar(&reportFormats, "format", []string{"csv", "xlsx"}, "report formats (csv, xlsx, parquet)")
	reportCmd.Flags().BoolVar(&reportDropUnparseable, "drop-unparseable", false, "drop rows with unparseable values instead of failing")
	reportCmd.Flags().BoolVar(&reportLatest, "latest", false, "use the newest snapshot in the data directory")
	reportCmd.Flags().BoolVar(&reportArchive, "archive", false, "move earlier reports to the archive directory first")
}

func runReport(cmd *cobra.Command, args []string) error {
	formats, err := exporter.ParseFormats(reportFormats...)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(func(c *config.Config) {
		if reportOutDir != "" {
			c.Paths.OutputDir = reportOutDir
		}
		if reportDropUnparseable {
			c.Analytics.DropUnparseable = true
		}
		switch {
		case reportWorkbook != "":
			c.Source.Workbook = reportWorkbook
			c.Source.CSVDir = ""
		case reportCSVDir != "":
			c.Source.Workbook = ""
			c.Source.CSVDir = reportCSVDir
		case reportLatest:
			useLatestSnapshot(c)
		}
	})
	if err != nil {
		return err
	}

	logger, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer infrastructure.CloseLogFile()

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer application.OTelProviders.Shutdown(ctx)

	if reportArchive {
		if _, err := files.NewManager(application.Paths, logger).ArchiveReports(time.Now()); err != nil {
			return err
		}
	}

	start := time.Now()
	written, err := application.ExportReport(ctx, formats)
	if err != nil {
		logger.ErrorContext(ctx, "report failed", slog.String("error", err.Error()))
		return err
	}

	out := cmd.OutOrStdout()
	for _, f := range written {
		fmt.Fprintln(out, f)
	}
	logger.InfoContext(ctx, "report written",
		slog.Int("files", len(written)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// useLatestSnapshot points the source at the newest snapshot in the data
// directory. The configured source is kept when nothing is found.
func useLatestSnapshot(c *config.Config) {
	snapshots, err := files.NewDiscovery("").FindSnapshots(c.Paths.DataDir)
	if err != nil {
		return
	}
	latest, ok := files.GetLatestFile(snapshots)
	if !ok {
		return
	}
	if latest.Kind == files.KindWorkbook {
		c.Source.Workbook, c.Source.CSVDir = latest.Path, ""
	} else {
		c.Source.Workbook, c.Source.CSVDir = "", latest.Path
	}
}
