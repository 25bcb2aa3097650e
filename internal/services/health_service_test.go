package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shantanuseth8203/Data-Visualization/internal/config"
)

func TestHealthService_Readiness(t *testing.T) {
	dir := t.TempDir()
	workbook := filepath.Join(dir, "book.xlsx")
	require.NoError(t, os.WriteFile(workbook, []byte("x"), 0644))

	tests := []struct {
		name   string
		source config.SourceConfig
		want   string
	}{
		{"workbook present", config.SourceConfig{Workbook: workbook}, "ready"},
		{"workbook missing", config.SourceConfig{Workbook: filepath.Join(dir, "nope.xlsx")}, "not_ready"},
		{"csv dir present", config.SourceConfig{CSVDir: dir}, "ready"},
		{"nothing configured", config.SourceConfig{}, "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := NewHealthService("1.0.0", tt.source, testLogger())
			status := hs.ReadinessCheck(context.Background())
			assert.Equal(t, tt.want, status.Status)
			assert.Equal(t, "1.0.0", status.Version)
		})
	}
}

func TestHealthService_Liveness(t *testing.T) {
	hs := NewHealthService("1.0.0", config.SourceConfig{}, nil)
	status := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
	assert.Contains(t, status.Runtime, "go_version")
}
