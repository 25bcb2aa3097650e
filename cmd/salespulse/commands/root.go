package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shantanuseth8203/Data-Visualization/internal/config"
	"github.com/shantanuseth8203/Data-Visualization/internal/infrastructure"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "salespulse",
	Short: "Sales analytics over a product sales snapshot",
	Long: `salespulse normalizes a sales, products and customers snapshot, joins
sales to products and derives the daily series, monthly rollup, summary
statistics, trend line and colour distribution.

Usage:
  salespulse [command]

Examples:
  salespulse report --workbook data/AdventureWorks.xlsx --format csv,xlsx
  salespulse report --csv-dir exports --out reports --format parquet
  salespulse serve --port 8080`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is salespulse.yaml or config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration honouring the global flags. apply may
// override fields from command flags before the result is validated again.
func loadConfig(apply func(*config.Config)) (*config.Config, error) {
	if configFile != "" {
		if err := os.Setenv(config.EnvPrefix+"_CONFIG_FILE", configFile); err != nil {
			return nil, fmt.Errorf("failed to set config file: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if apply != nil {
		apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger initializes the global logger from cfg
func setupLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	slog.SetDefault(logger)
	return logger, nil
}
