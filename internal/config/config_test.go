package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salespulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"Red", "Silver", "Black", "Yellow", "Blue"}, cfg.Analytics.ColorOrder)
	assert.Equal(t, "Bikes", cfg.Analytics.BikeCategory)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "ProductKey", cfg.Analytics.JoinKey)
				assert.Equal(t, "Sales", cfg.Source.Sheets.Sales)
			},
		},
		{
			name: "file overrides defaults",
			file: `
server:
  port: 9090
analytics:
  join_key: SKU
  color_order: [Black, Red]
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "SKU", cfg.Analytics.JoinKey)
				assert.Equal(t, []string{"Black", "Red"}, cfg.Analytics.ColorOrder)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout, "untouched keys keep defaults")
			},
		},
		{
			name: "env overrides file",
			file: "server:\n  port: 9090\n",
			env: map[string]string{
				"SALESPULSE_SERVER_PORT":                "7070",
				"SALESPULSE_ANALYTICS_COLOR_ORDER":      "Blue,Yellow",
				"SALESPULSE_LOGGING_LEVEL":              "DEBUG",
				"SALESPULSE_ANALYTICS_DROP_UNPARSEABLE": "true",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, []string{"Blue", "Yellow"}, cfg.Analytics.ColorOrder)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.True(t, cfg.PipelineOptions().DropUnparseable)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"SALESPULSE_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "invalid log level",
			file:    "logging:\n  level: verbose\n",
			wantErr: true,
		},
		{
			name:    "no snapshot source",
			file:    "source:\n  workbook: \"\"\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "server: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, &apperrors.AppError{Type: apperrors.ErrTypeConfig})
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_ReadsExplicitConfigFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 6060\n")
	t.Setenv("SALESPULSE_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port)
}

func TestPipelineOptions(t *testing.T) {
	cfg := Default()
	cfg.Analytics.JoinKey = "SKU"
	cfg.Analytics.Columns.Amount = "Revenue"

	opts := cfg.PipelineOptions()
	assert.Equal(t, "SKU", opts.JoinKey)
	assert.Equal(t, "SKU", opts.Sales.ProductKey)
	assert.Equal(t, "SKU", opts.Products.Key)
	assert.Equal(t, "Revenue", opts.Sales.Amount)
	assert.NoError(t, opts.Validate())

	sheets := cfg.SheetNames()
	assert.Equal(t, "Products", sheets.Products)
}

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.LogsDir = filepath.Join(base, "abs-logs")

	paths, err := cfg.ResolvePaths(base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "reports"), paths.OutputDir)
	assert.Equal(t, filepath.Join(base, "abs-logs"), paths.LogsDir)
	assert.Equal(t, filepath.Join(base, "reports", "daily.csv"), paths.GetReportPath("daily.csv"))

	require.NoError(t, paths.EnsureDirectories())
	assert.True(t, FileExists(paths.OutputDir))
	assert.True(t, FileExists(paths.DataDir))
}
