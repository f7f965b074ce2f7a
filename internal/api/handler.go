package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/trendpulse/trendpulse/internal/alerts"
	"github.com/trendpulse/trendpulse/internal/config"
	"github.com/trendpulse/trendpulse/internal/trending"
)

// maxLimit bounds the limit query parameter.
const maxLimit = 100

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	engine *trending.Engine
	alerts *alerts.Engine
	auth   config.AuthConfig
	mux    *http.ServeMux
}

// New creates a Handler wired to the given engine and registers all routes.
// alertEngine may be nil, in which case /api/v1/alerts returns an empty list.
func New(engine *trending.Engine, alertEngine *alerts.Engine, auth config.AuthConfig) http.Handler {
	h := &Handler{engine: engine, alerts: alertEngine, auth: auth, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/trending", h.trending)
	h.mux.HandleFunc("/api/v1/trending/sources", h.sources)
	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/overview", h.overview)
	h.mux.HandleFunc("/api/v1/alerts", h.activeAlerts)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		jsonErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.mux.ServeHTTP(w, r)
}

// authorized checks the API key header when apikey auth is configured.
// The liveness probe stays open so orchestration keeps working.
func (h *Handler) authorized(r *http.Request) bool {
	if h.auth.Mode != "apikey" {
		return true
	}
	if r.URL.Path == "/api/v1/health" {
		return true
	}
	key := h.auth.Key()
	return key != "" && r.Header.Get(h.auth.Header) == key
}

// --- route handlers ---------------------------------------------------------

// trending returns GET /api/v1/trending: the ranked, deduplicated list.
// Query parameters: limit (1..100, default from config), refresh=true to
// bypass the cache.
func (h *Handler) trending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			jsonErr(w, http.StatusBadRequest, "limit must be an integer between 1 and 100")
			return
		}
		limit = n
	}
	force := r.URL.Query().Get("refresh") == "true"

	items := h.engine.FetchTrending(r.Context(), limit, force)
	if items == nil {
		items = []trending.TrendingItem{}
	}
	if limit == 0 {
		limit = h.engine.DefaultLimit()
	}
	jsonResp(w, http.StatusOK, TrendingResponse{
		Count: len(items),
		Limit: limit,
		Items: items,
	})
}

// sources returns GET /api/v1/trending/sources: health and diagnostics for
// each provider.
func (h *Handler) sources(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, SourcesResponse{
		Sources: h.engine.SourceHealth(),
		Service: h.engine.Snapshot(),
	})
}

// health returns GET /api/v1/health: a basic liveness probe.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// overview returns GET /api/v1/overview: the same payload the WebSocket hub
// broadcasts.
func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, BuildOverview(h.engine))
}

// activeAlerts returns GET /api/v1/alerts: firing and recently resolved
// alerts.
func (h *Handler) activeAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.alerts == nil {
		jsonResp(w, http.StatusOK, []alerts.Alert{})
		return
	}
	jsonResp(w, http.StatusOK, h.alerts.Active())
}

// BuildOverview assembles the observability payload from the engine's cached
// state. It never triggers a refresh, so it is safe to call on every
// broadcast tick.
func BuildOverview(e *trending.Engine) OverviewResponse {
	st := e.Snapshot()
	top := e.Cached(st.DefaultLimit)
	if top == nil {
		top = []trending.TrendingItem{}
	}
	return OverviewResponse{
		Service:     st,
		Top:         top,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
