package api

import "github.com/trendpulse/trendpulse/internal/trending"

// TrendingResponse is the envelope for GET /api/v1/trending.
type TrendingResponse struct {
	Count int                     `json:"count"`
	Limit int                     `json:"limit"`
	Items []trending.TrendingItem `json:"items"`
}

// SourcesResponse pairs per-source health with the engine status snapshot.
type SourcesResponse struct {
	Sources []trending.SourceHealth `json:"sources"`
	Service trending.Status         `json:"service"`
}

// HealthResponse is the liveness probe payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// OverviewResponse is the full observability dump, shared between the
// /api/v1/overview endpoint and the WebSocket hub broadcast.
type OverviewResponse struct {
	Service     trending.Status         `json:"service"`
	Top         []trending.TrendingItem `json:"top"`
	GeneratedAt string                  `json:"generated_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}
