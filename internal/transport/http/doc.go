// Package http implements the read-only JSON API over the analytics pipeline.
//
// Handlers stay thin: they parse and validate query parameters, call the
// analytics service and render the result with chi/render. Failures go
// through errors.ErrorHandler and reach the client as RFC 7807 problem
// details, with data errors (schema, integrity, join ambiguity) as 422.
//
// Routes:
//
//	GET /api/v1/analytics                   every view of one computation
//	GET /api/v1/daily                       daily sales series
//	GET /api/v1/monthly                     monthly sales, cost and profit
//	GET /api/v1/summary                     summary statistics
//	GET /api/v1/trend                       fitted trend line and values
//	GET /api/v1/report                      per-stage row accounting
//	GET /api/v1/distribution/color          ?allowed=Red,Blue&category=Bikes
//	GET /api/v1/distribution/subcategory    ?allowed=Road%20Bikes
//	GET /healthz, /readyz, /metrics
package http
