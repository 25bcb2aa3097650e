// Package shared holds helpers used across salespulse packages that belong
// to no single layer.
//
// testutil provides BufferedSlogHandler, a slog.Handler that records log
// output so tests can assert on what the pipeline, services and HTTP layer
// logged.
package shared
