// Package observability provides structured logging and metrics for the
// product discovery service.
//
// This package implements:
//   - Structured logging (zap-based), JSON in production and console
//     output in development
//   - Prometheus metrics for HTTP traffic and the retrieval pipeline
//   - Request instrumentation middleware for chi routers
package observability
