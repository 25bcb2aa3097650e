// Package config loads salespulse configuration.
//
// # Configuration Sources
//
// Values are resolved in increasing order of precedence:
//
//  1. Default() values
//  2. A YAML file: $SALESPULSE_CONFIG_FILE, or salespulse.yaml / config.yaml / configs/config.yaml
//  3. Environment variables, optionally seeded from a .env file
//
// # Environment Variables
//
// Variables follow the struct layout under the SALESPULSE prefix:
//
//	SALESPULSE_SERVER_PORT=8080
//	SALESPULSE_SOURCE_WORKBOOK=data/AdventureWorks.xlsx
//	SALESPULSE_ANALYTICS_JOIN_KEY=ProductKey
//	SALESPULSE_ANALYTICS_COLOR_ORDER=Red,Silver,Black,Yellow,Blue
//	SALESPULSE_LOGGING_LEVEL=debug
//
// The result is checked with go-playground/validator struct tags and the
// analytics section is converted to dataprocessing.Options by PipelineOptions.
package config
