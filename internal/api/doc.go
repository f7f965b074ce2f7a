// Package api is the HTTP serving layer. It exposes the aggregated trending
// list, per-source health, a liveness probe, active alerts, and a full
// observability overview as JSON under /api/v1/. Response shaping lives
// here; all aggregation semantics belong to internal/trending.
package api
