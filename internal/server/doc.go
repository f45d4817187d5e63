// Package server holds what the MCP tools share at runtime.
//
// ServerContext caches one Docs client per Google account, created lazily
// from a TokenProvider, together with the tab selection policy, the default
// output folder and the optional analyzer. MetricsServer and HealthChecker
// expose Prometheus metrics and health endpoints next to the MCP transport.
package server
