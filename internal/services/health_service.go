package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shantanuseth8203/Data-Visualization/internal/config"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	source    config.SourceConfig
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, source config.SourceConfig, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		source:    source,
		startTime: time.Now(),
		logger:    logger,
	}
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// ReadinessCheck reports whether the configured snapshot source exists
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  map[string]interface{}{"source": hs.checkSource()},
	}

	if sh := status.Services["source"].(ServiceHealth); sh.Status != "ready" {
		status.Status = "not_ready"
		hs.logger.WarnContext(ctx, "snapshot source unavailable", slog.String("message", sh.Message))
	}
	return status
}

func (hs *HealthService) checkSource() ServiceHealth {
	switch {
	case hs.source.Workbook != "":
		if !config.FileExists(hs.source.Workbook) {
			return ServiceHealth{Status: "not_ready", Message: "workbook not found: " + hs.source.Workbook}
		}
	case hs.source.CSVDir != "":
		if !config.FileExists(hs.source.CSVDir) {
			return ServiceHealth{Status: "not_ready", Message: "csv directory not found: " + hs.source.CSVDir}
		}
	default:
		return ServiceHealth{Status: "not_ready", Message: ErrNoSource.Error()}
	}
	return ServiceHealth{Status: "ready"}
}
