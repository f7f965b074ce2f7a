// Package trending implements the aggregation engine at the heart of
// trendpulse. The engine fans out to every configured source concurrently,
// applies per-source score weighting, merges and deduplicates the results
// into a single ranked list, and serves that list from a limit-keyed TTL
// cache. A background refresh loop keeps the cache warm independently of
// caller traffic, and a per-source health registry records the outcome of
// every fetch attempt for observability and self-healing.
//
// Sources implement the Source interface declared here; concrete adapters
// live in internal/source.
package trending
