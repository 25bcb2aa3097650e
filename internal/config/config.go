package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/shantanuseth8203/Data-Visualization/internal/dataprocessing"
	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
)

// EnvPrefix namespaces every environment variable, e.g. SALESPULSE_SERVER_PORT.
const EnvPrefix = "SALESPULSE"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Source    SourceConfig    `yaml:"source" envconfig:"SOURCE"`
	Analytics AnalyticsConfig `yaml:"analytics" envconfig:"ANALYTICS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	RequestTimeout  time.Duration   `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
	AllowedOrigins  []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"min=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// SourceConfig locates the snapshot. Workbook wins when both are set.
type SourceConfig struct {
	Workbook string       `yaml:"workbook" envconfig:"WORKBOOK" validate:"required_without=CSVDir"`
	CSVDir   string       `yaml:"csv_dir" envconfig:"CSV_DIR" validate:"required_without=Workbook"`
	Sheets   SheetsConfig `yaml:"sheets" envconfig:"SHEETS"`
}

// SheetsConfig names the workbook sheets
type SheetsConfig struct {
	Sales     string `yaml:"sales" envconfig:"SALES" validate:"required"`
	Products  string `yaml:"products" envconfig:"PRODUCTS" validate:"required"`
	Customers string `yaml:"customers" envconfig:"CUSTOMERS"`
}

// AnalyticsConfig holds the pipeline options and dashboard allow-lists
type AnalyticsConfig struct {
	JoinKey         string        `yaml:"join_key" envconfig:"JOIN_KEY" validate:"required"`
	DropUnparseable bool          `yaml:"drop_unparseable" envconfig:"DROP_UNPARSEABLE"`
	Columns         ColumnsConfig `yaml:"columns" envconfig:"COLUMNS"`
	ColorOrder      []string      `yaml:"color_order" envconfig:"COLOR_ORDER" validate:"min=1,dive,required"`
	BikeCategory    string        `yaml:"bike_category" envconfig:"BIKE_CATEGORY"`
	SubCategories   []string      `yaml:"sub_categories" envconfig:"SUB_CATEGORIES" validate:"min=1,dive,required"`
}

// ColumnsConfig names the source columns. The product key column is JoinKey.
type ColumnsConfig struct {
	Date        string `yaml:"date" envconfig:"DATE" validate:"required"`
	Amount      string `yaml:"amount" envconfig:"AMOUNT" validate:"required"`
	Cost        string `yaml:"cost" envconfig:"COST" validate:"required"`
	CustomerKey string `yaml:"customer_key" envconfig:"CUSTOMER_KEY"`
	Category    string `yaml:"category" envconfig:"CATEGORY" validate:"required"`
	SubCategory string `yaml:"sub_category" envconfig:"SUB_CATEGORY" validate:"required"`
	Color       string `yaml:"color" envconfig:"COLOR" validate:"required"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TracesExporter string `yaml:"traces_exporter" envconfig:"TRACES_EXPORTER" validate:"oneof=none stdout"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
}

var validate = validator.New()

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is read first; variables already set are not overwritten.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.NewConfigError("failed to read .env file", err)
	}
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load without the .env step, reading YAML from configFile when non-empty.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config file %s", configFile), err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Keys absent from the file
// keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks every field constraint
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	if err := c.PipelineOptions().Validate(); err != nil {
		return apperrors.NewConfigError("invalid analytics configuration", err)
	}
	return nil
}

// PipelineOptions converts the analytics section to dataprocessing options
func (c *Config) PipelineOptions() dataprocessing.Options {
	col := c.Analytics.Columns
	return dataprocessing.Options{
		JoinKey: c.Analytics.JoinKey,
		Sales: dataprocessing.SalesSchema{
			Date:        col.Date,
			ProductKey:  c.Analytics.JoinKey,
			Amount:      col.Amount,
			Cost:        col.Cost,
			CustomerKey: col.CustomerKey,
		},
		Products: dataprocessing.ProductSchema{
			Key:         c.Analytics.JoinKey,
			Category:    col.Category,
			SubCategory: col.SubCategory,
			Color:       col.Color,
		},
		Customers: dataprocessing.CustomerSchema{
			Key: col.CustomerKey,
		},
		DropUnparseable: c.Analytics.DropUnparseable,
	}
}

// SheetNames returns the workbook sheet names
func (c *Config) SheetNames() dataprocessing.SheetNames {
	return dataprocessing.SheetNames{
		Sales:     c.Source.Sheets.Sales,
		Products:  c.Source.Sheets.Products,
		Customers: c.Source.Sheets.Customers,
	}
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// getConfigFilePath returns the path to the config file, or "" when none exists
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"salespulse.yaml",
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  20 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/salespulse.log",
		},
		Paths: PathsConfig{
			DataDir:   DefaultDataDir,
			OutputDir: DefaultOutputDir,
			LogsDir:   DefaultLogsDir,
		},
		Source: SourceConfig{
			Workbook: DefaultWorkbook,
			Sheets: SheetsConfig{
				Sales:     "Sales",
				Products:  "Products",
				Customers: "Customers",
			},
		},
		Analytics: AnalyticsConfig{
			JoinKey: "ProductKey",
			Columns: ColumnsConfig{
				Date:        "Date",
				Amount:      "Sales",
				Cost:        "Costs",
				CustomerKey: "CustomerKey",
				Category:    "Category",
				SubCategory: "SubCategory",
				Color:       "Color",
			},
			ColorOrder:    append([]string(nil), DefaultColorOrder...),
			BikeCategory:  DefaultBikeCategory,
			SubCategories: append([]string(nil), DefaultSubCategories...),
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			TracesExporter: "none",
			MetricsEnabled: true,
		},
	}
}
