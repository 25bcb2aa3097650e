// Package app wires the salespulse components together.
//
// New builds, from a loaded configuration: the OpenTelemetry providers, the
// snapshot source (workbook or CSV directory), the pipeline with its metrics
// recorder, the analytics and health services, the chi router and the HTTP
// server. The CLI uses Run for the API server and ExportReport for one-shot
// report generation.
package app
