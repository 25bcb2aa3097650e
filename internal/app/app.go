package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/shantanuseth8203/Data-Visualization/internal/config"
	"github.com/shantanuseth8203/Data-Visualization/internal/dataprocessing"
	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
	"github.com/shantanuseth8203/Data-Visualization/internal/exporter"
	"github.com/shantanuseth8203/Data-Visualization/internal/infrastructure"
	"github.com/shantanuseth8203/Data-Visualization/internal/middleware"
	"github.com/shantanuseth8203/Data-Visualization/internal/services"
	handlers "github.com/shantanuseth8203/Data-Visualization/internal/transport/http"
	"github.com/shantanuseth8203/Data-Visualization/internal/validation"
	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

// Application wires configuration, observability, services and the HTTP API
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	Paths         *config.Paths
	OTelProviders *infrastructure.OTelProviders
	Analytics     *services.AnalyticsService
	Health        *services.HealthService
	Validator     *validation.FileValidator
	Router        chi.Router
	Server        *http.Server
}

// New creates a new application instance with dependency injection
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	paths, err := cfg.ResolvePaths("")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		Paths:         paths,
		OTelProviders: otelProviders,
		Validator:     validation.NewFileValidator(logger),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()
	return app, nil
}

// NewSnapshotSource picks the workbook when configured, otherwise the CSV directory
func NewSnapshotSource(cfg *config.Config, logger *slog.Logger) services.SnapshotSource {
	if cfg.Source.Workbook != "" {
		return dataprocessing.WorkbookSource{
			Path:   cfg.Source.Workbook,
			Sheets: cfg.SheetNames(),
			Logger: logger,
		}
	}
	return dataprocessing.CSVDirSource{
		Dir:    cfg.Source.CSVDir,
		Files:  dataprocessing.DefaultCSVFiles(),
		Logger: logger,
	}
}

func (a *Application) initializeServices() error {
	metrics, err := infrastructure.NewPipelineMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	pipeline := dataprocessing.NewPipeline(a.Logger, a.Config.PipelineOptions(), dataprocessing.WithRecorder(metrics))
	a.Analytics = services.NewAnalyticsService(
		NewSnapshotSource(a.Config, a.Logger),
		pipeline,
		services.DashboardSettings{
			ColorOrder:    a.Config.Analytics.ColorOrder,
			BikeCategory:  a.Config.Analytics.BikeCategory,
			SubCategories: a.Config.Analytics.SubCategories,
		},
		a.Logger,
	)
	a.Health = services.NewHealthService(config.AppVersion, a.Config.Source, a.Logger)
	return nil
}

func (a *Application) setupRouter() {
	httpMetrics, err := infrastructure.NewHTTPMetrics(a.OTelProviders.Meter)
	if err != nil {
		a.Logger.Error("Failed to create HTTP metrics", slog.String("error", err.Error()))
		httpMetrics = nil
	}

	a.Router = handlers.NewRouter(handlers.RouterConfig{
		Analytics:      a.Analytics,
		Health:         handlers.NewHealthHandler(a.Health, a.Logger),
		ErrorHandler:   apperrors.NewErrorHandler(a.Logger, a.Config.Logging.Level == "debug"),
		Logger:         a.Logger,
		HTTPMetrics:    httpMetrics,
		Metrics:        a.OTelProviders.PrometheusHTTP,
		RateLimit:      a.Config.Server.RateLimit,
		RequestTimeout: a.Config.Server.RequestTimeout,
		CORS:           middleware.CORSConfig{AllowedOrigins: a.Config.Server.AllowedOrigins},
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Addr(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// ExportReport computes once and writes the report in the given formats
func (a *Application) ExportReport(ctx context.Context, formats []exporter.Format) ([]string, error) {
	if err := a.Validator.ValidateSource(a.Config.Source); err != nil {
		return nil, err
	}
	if err := a.Validator.ValidateOutputDirectory(a.Paths.OutputDir); err != nil {
		return nil, err
	}

	result, err := a.Analytics.Compute(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range result.Warnings {
		a.Logger.WarnContext(ctx, "computation warning", slog.String("warning", w))
	}

	colors, err := result.ColorDistribution(domain.FieldColor, a.Config.Analytics.ColorOrder,
		dataprocessing.WithCategory(a.Config.Analytics.BikeCategory))
	if err != nil {
		return nil, err
	}

	exp := exporter.NewReportExporter(a.Paths, a.Logger)
	return exp.Export(ctx, exporter.Report{Result: result, Colors: colors}, formats)
}

// Start starts the HTTP server in the background. cancel is called if the
// server stops unexpectedly.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("addr", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started", slog.String("address", "http://localhost"+a.Server.Addr))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")

	return a.Stop(context.Background())
}

// performStartupHealthCheck checks the source exists and the output directory is writable
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	var warnings []string

	if err := a.Validator.ValidateSource(a.Config.Source); err != nil {
		warnings = append(warnings, err.Error())
	}
	if err := a.Paths.EnsureDirectories(); err != nil {
		warnings = append(warnings, err.Error())
	} else if err := a.Validator.ValidateOutputDirectory(a.Paths.OutputDir); err != nil {
		warnings = append(warnings, err.Error())
	}

	if len(warnings) > 0 {
		return fmt.Errorf("startup health check warnings: %s", strings.Join(warnings, "; "))
	}

	a.Logger.InfoContext(ctx, "Startup health check passed")
	return nil
}
