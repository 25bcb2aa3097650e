package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shantanuseth8203/Data-Visualization/internal/config"
	"github.com/shantanuseth8203/Data-Visualization/internal/infrastructure"
	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts"
)

func TestReportCommand(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "exports")
	out := filepath.Join(dir, "reports")
	require.NoError(t, os.MkdirAll(data, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(data, "sales.csv"), []byte(
		"Date,ProductKey,Sales,Costs\n2023-01-01,1,100,40\n2023-01-02,1,150,60\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(data, "products.csv"), []byte(
		"ProductKey,Category,SubCategory,Color\n1,Bikes,Road Bikes,Red\n"), 0644))

	t.Setenv("SALESPULSE_LOGGING_LEVEL", "error")
	t.Setenv("SALESPULSE_TELEMETRY_METRICS_ENABLED", "false")
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"report", "--csv-dir", data, "--out", out, "--format", "csv,parquet"})
	require.NoError(t, Execute())

	files := strings.Fields(stdout.String())
	assert.Len(t, files, 8)
	for _, f := range files {
		assert.FileExists(t, f)
	}
	assert.FileExists(t, filepath.Join(out, "daily_sales.csv"))
}

func TestReportCommand_InvalidFormat(t *testing.T) {
	rootCmd.SetArgs([]string{"report", "--format", "pdf"})
	assert.Error(t, Execute())
}

func TestUseLatestSnapshot(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = dir

	useLatestSnapshot(cfg)
	assert.Equal(t, config.DefaultWorkbook, cfg.Source.Workbook, "kept when nothing is found")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "export"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "export", "sales.csv"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "export", "products.csv"), []byte("x"), 0644))

	useLatestSnapshot(cfg)
	assert.Empty(t, cfg.Source.Workbook)
	assert.Equal(t, filepath.Join(dir, "export"), cfg.Source.CSVDir)
}

func TestVersionCommand(t *testing.T) {
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, Execute())
	assert.Contains(t, stdout.String(), "salespulse v"+contracts.Version)
}
