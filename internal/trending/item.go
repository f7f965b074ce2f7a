package trending

import "time"

// Health status values for a source.
const (
	StatusUnknown = "unknown"
	StatusOK      = "ok"
	StatusError   = "error"
)

// TrendingItem is the normalized representation of a single trending
// artefact. Adapters produce items with the provider's raw score; the engine
// replaces Score with the weighted score during a refresh and preserves the
// original under the "raw_score" metadata key. Items are value types and must
// not be mutated after they leave the engine.
type TrendingItem struct {
	Title  string  `json:"title"`
	URL    string  `json:"url"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`

	// Metadata carries provider-specific fields (subreddit, language,
	// comment counts, ...). Key order is irrelevant.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SourceHealth records the outcome of the most recent fetch attempt for one
// source. The registry is last-write-wins: every attempt replaces the whole
// record, it is not an accumulated history.
type SourceHealth struct {
	Source        string     `json:"source"`
	Status        string     `json:"status"`
	Message       string     `json:"message,omitempty"`
	LastSuccessAt *time.Time `json:"last_success_at,omitempty"`
	LastErrorAt   *time.Time `json:"last_error_at,omitempty"`
}

func healthOK(source string, now time.Time) SourceHealth {
	return SourceHealth{Source: source, Status: StatusOK, LastSuccessAt: &now}
}

func healthError(source, message string, now time.Time) SourceHealth {
	return SourceHealth{Source: source, Status: StatusError, Message: message, LastErrorAt: &now}
}
