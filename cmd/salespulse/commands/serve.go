package commands

import (
	"github.com/spf13/cobra"

	"github.com/shantanuseth8203/Data-Visualization/internal/app"
	"github.com/shantanuseth8203/Data-Visualization/internal/config"
	"github.com/shantanuseth8203/Data-Visualization/internal/infrastructure"
)

// serveCmd runs the analytics HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analytics HTTP API",
	Long: `Starts the HTTP API. Every request recomputes the analytics from the
current snapshot, so edits to the source are picked up without a restart.

Endpoints:
  /api/v1/analytics, /api/v1/daily, /api/v1/monthly, /api/v1/summary,
  /api/v1/trend, /api/v1/report, /api/v1/distribution/color,
  /api/v1/distribution/subcategory, /healthz, /readyz, /metrics

Example:
  salespulse serve
  salespulse serve --port 9090 -v`,
	RunE: runServe,
}

var (
	// Serve flags
	servePort int
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(func(c *config.Config) {
		if servePort != 0 {
			c.Server.Port = servePort
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
	return application.Run()
}
