// Package server exposes the hot-value lookup over HTTP.
//
// Routes:
//   - GET /api/hot?id=<key>: resolved value as text/plain ("" when absent);
//     400 for a missing or invalid id, 503 when the remote store failed.
//   - GET /api/cache/stats: cache statistics as JSON.
//   - GET /healthz, /readyz, /health: liveness, readiness, detail.
//   - GET /metrics: Prometheus exposition.
package server
