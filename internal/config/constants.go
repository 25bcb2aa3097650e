package config

import "github.com/shantanuseth8203/Data-Visualization/pkg/contracts"

// Application info
const (
	AppName    = "salespulse"
	AppVersion = contracts.Version
)

// Defaults for the AdventureWorks dashboard
const (
	DefaultWorkbook     = "data/AdventureWorks.xlsx"
	DefaultBikeCategory = "Bikes"

	DefaultDataDir   = "data"
	DefaultOutputDir = "reports"
	DefaultLogsDir   = "logs"

	// Requests per second
	DefaultRateLimit = 20
	DefaultBurstSize = 40
)

var (
	// DefaultColorOrder is the order colour groups are rendered in.
	DefaultColorOrder = []string{"Red", "Silver", "Black", "Yellow", "Blue"}

	DefaultSubCategories = []string{"Mountain Bikes", "Road Bikes", "Touring Bikes"}
)
