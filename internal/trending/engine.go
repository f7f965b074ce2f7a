package trending

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// Source is one upstream trending provider. The engine never looks past this
// capability; concrete adapters live in internal/source.
type Source interface {
	// Name is the stable identity used as the health, weighting, and merge key.
	Name() string

	// Weight is the positive multiplier applied to this source's raw scores
	// before merging, reconciling providers whose native scales differ
	// (star counts vs. point counts).
	Weight() float64

	// Fetch returns up to limit normalized items from the provider.
	// It may return fewer. Items missing a title or URL must be dropped by
	// the adapter, not surfaced as errors.
	Fetch(ctx context.Context, limit int) ([]TrendingItem, error)
}

// Engine coordinates concurrent retrieval, weighted merging, and caching of
// trending items across all configured sources. One Engine instance serves an
// entire deployment: request handlers, the background refresh loop, and the
// self-healing monitor all share it.
//
// All exported methods are safe for concurrent use. Two callers that both
// observe a cache miss may both refresh; the last writer wins, which costs
// redundant upstream calls but never corrupts state since every cache slot is
// replaced whole under the lock.
type Engine struct {
	sources         []Source
	defaultLimit    int
	refreshInterval time.Duration

	mu            sync.Mutex
	cache         map[int]*cacheEntry
	health        map[string]SourceHealth
	lastRefreshAt time.Time // zero until the first refresh completes

	now func() time.Time // injectable for deterministic tests

	loopMu sync.Mutex
	stop   chan struct{}
	done   chan struct{}
}

// cacheEntry holds one ranked result set and its absolute expiry.
// Entries are replaced whole on refresh, never edited in place.
type cacheEntry struct {
	items     []TrendingItem
	expiresAt time.Time
}

// Status is the observability record returned by Snapshot.
type Status struct {
	DefaultLimit           int            `json:"default_limit"`
	RefreshIntervalSeconds int            `json:"refresh_interval_seconds"`
	LastRefreshAt          *time.Time     `json:"last_refresh_at"`
	Sources                []SourceHealth `json:"sources"`
	CachedLimits           []int          `json:"cached_limits"`
}

// NewEngine creates an Engine over the given sources. Source order matters:
// it is the tie-break order during merging and the order of health snapshots.
// Every source starts in the unknown health state.
func NewEngine(sources []Source, defaultLimit int, refreshInterval time.Duration) *Engine {
	e := &Engine{
		sources:         sources,
		defaultLimit:    defaultLimit,
		refreshInterval: refreshInterval,
		cache:           make(map[int]*cacheEntry),
		health:          make(map[string]SourceHealth, len(sources)),
		now:             time.Now,
	}
	for _, src := range sources {
		e.health[src.Name()] = SourceHealth{Source: src.Name(), Status: StatusUnknown}
	}
	return e
}

// DefaultLimit returns the configured default result size.
func (e *Engine) DefaultLimit() int { return e.defaultLimit }

// FetchTrending returns at most limit trending items, ranked by weighted
// score descending. limit <= 0 selects the configured default. A valid cache
// entry for the exact limit is returned without any network activity unless
// forceRefresh is set; otherwise a full refresh runs first.
//
// FetchTrending never fails outward: a source that errors contributes no
// items and has its health marked, and total upstream unavailability yields
// an empty slice rather than an error. Callers must not modify the returned
// slice or its items.
func (e *Engine) FetchTrending(ctx context.Context, limit int, forceRefresh bool) []TrendingItem {
	if limit <= 0 {
		limit = e.defaultLimit
	}

	e.mu.Lock()
	if entry, ok := e.cache[limit]; ok && !forceRefresh && e.now().Before(entry.expiresAt) {
		items := entry.items
		e.mu.Unlock()
		return truncate(items, limit)
	}
	e.mu.Unlock()

	return truncate(e.refresh(ctx, limit), limit)
}

// Cached returns the currently cached ranked list for limit, or nil when no
// valid entry exists. It never triggers a refresh.
func (e *Engine) Cached(limit int) []TrendingItem {
	if limit <= 0 {
		limit = e.defaultLimit
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if entry, ok := e.cache[limit]; ok && e.now().Before(entry.expiresAt) {
		return truncate(entry.items, limit)
	}
	return nil
}

// SourceHealth returns a snapshot copy of every source's health record, in
// configuration order.
func (e *Engine) SourceHealth() []SourceHealth {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]SourceHealth, 0, len(e.sources))
	for _, src := range e.sources {
		out = append(out, e.health[src.Name()])
	}
	return out
}

// Snapshot returns status metadata for observability endpoints. It is
// side-effect-free.
func (e *Engine) Snapshot() Status {
	healths := e.SourceHealth()

	e.mu.Lock()
	defer e.mu.Unlock()
	st := Status{
		DefaultLimit:           e.defaultLimit,
		RefreshIntervalSeconds: int(e.refreshInterval / time.Second),
		Sources:                healths,
		CachedLimits:           make([]int, 0, len(e.cache)),
	}
	if !e.lastRefreshAt.IsZero() {
		t := e.lastRefreshAt
		st.LastRefreshAt = &t
	}
	for limit := range e.cache {
		st.CachedLimits = append(st.CachedLimits, limit)
	}
	sort.Ints(st.CachedLimits)
	return st
}

// refresh performs one full fetch-merge-rank-cache cycle and returns the
// complete ranked list (not yet truncated to the caller's limit).
func (e *Engine) refresh(ctx context.Context, limit int) []TrendingItem {
	// Always fetch at least the default page size so smaller-limit cache
	// entries can be served from the same refresh.
	fetchLimit := limit
	if e.defaultLimit > fetchLimit {
		fetchLimit = e.defaultLimit
	}
	slog.Debug("trending: refreshing cache", "fetch_limit", fetchLimit)

	// Fan out concurrently. Results land in configuration-order slots so the
	// merge tie-break stays deterministic regardless of completion order.
	results := make([][]TrendingItem, len(e.sources))
	var wg sync.WaitGroup
	for i, src := range e.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			results[i] = e.fetchSource(ctx, src, fetchLimit)
		}(i, src)
	}
	wg.Wait()

	merged := mergeResults(results)

	entry := &cacheEntry{items: merged, expiresAt: e.now().Add(e.refreshInterval)}
	e.mu.Lock()
	e.cache[fetchLimit] = entry
	e.cache[limit] = entry
	e.lastRefreshAt = e.now()
	e.mu.Unlock()

	return merged
}

// fetchSource invokes one adapter, applies its weight, and records health.
// Failures are contained here: the source contributes no items and its
// health flips to error, but the refresh as a whole proceeds.
func (e *Engine) fetchSource(ctx context.Context, src Source, limit int) []TrendingItem {
	items, err := src.Fetch(ctx, limit)
	if err != nil {
		msg := fmt.Sprintf("%s fetch failed: %v", src.Name(), err)
		slog.Warn("trending: source fetch failed", "source", src.Name(), "err", err)
		e.setHealth(healthError(src.Name(), msg, e.now()))
		return nil
	}

	weighted := make([]TrendingItem, 0, len(items))
	for _, item := range items {
		md := make(map[string]any, len(item.Metadata)+1)
		for k, v := range item.Metadata {
			md[k] = v
		}
		md["raw_score"] = item.Score
		item.Score *= src.Weight()
		item.Metadata = md
		weighted = append(weighted, item)
	}
	e.setHealth(healthOK(src.Name(), e.now()))
	return weighted
}

func (e *Engine) setHealth(h SourceHealth) {
	e.mu.Lock()
	e.health[h.Source] = h
	e.mu.Unlock()
}

// mergeResults deduplicates on lower-cased URL, keeping the item with the
// higher weighted score (ties keep the first seen, i.e. the earlier source in
// configuration order), then sorts by weighted score descending. The sort is
// stable so equal-score survivors retain merge order.
func mergeResults(results [][]TrendingItem) []TrendingItem {
	index := make(map[string]int)
	merged := make([]TrendingItem, 0)
	for _, items := range results {
		for _, item := range items {
			key := strings.ToLower(item.URL)
			if at, ok := index[key]; ok {
				if item.Score > merged[at].Score {
					merged[at] = item
				}
				continue
			}
			index[key] = len(merged)
			merged = append(merged, item)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	return merged
}

func truncate(items []TrendingItem, limit int) []TrendingItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
