// Package observe wires logging, tracing, and metrics for the cache service.
//
// NewObserver builds OpenTelemetry providers and a JSON logger from Config.
// Middleware wraps a lookup function so every request gets a span, request
// metrics, and a log line.
package observe
