// Package services implements the business logic layer between the HTTP
// handlers and the analytics pipeline.
//
// AnalyticsService loads a snapshot from its SnapshotSource and runs a full
// pipeline computation for every call. Concurrent callers share one in-flight
// computation. HealthService reports liveness and whether the configured
// source exists.
//
//	source := dataprocessing.WorkbookSource{Path: "data/AdventureWorks.xlsx", Sheets: dataprocessing.DefaultSheetNames()}
//	svc := services.NewAnalyticsService(source, pipeline, settings, logger)
//	dashboard, err := svc.Dashboard(ctx)
package services
