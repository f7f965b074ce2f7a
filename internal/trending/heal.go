package trending

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/trendpulse/trendpulse/internal/heal"
)

// Name identifies the engine to the self-healing monitor.
func (e *Engine) Name() string { return "trending" }

// Diagnose reports unhealthy when every configured source is in the error
// state. Sources still in the unknown state (no fetch attempted yet) do not
// count as failures.
func (e *Engine) Diagnose(ctx context.Context) heal.Diagnosis {
	healths := e.SourceHealth()
	var failing int
	for _, h := range healths {
		if h.Status == StatusError {
			failing++
		}
	}
	details := map[string]string{
		"sources_total": strconv.Itoa(len(healths)),
		"sources_error": strconv.Itoa(failing),
	}
	if len(healths) > 0 && failing == len(healths) {
		return heal.Diagnosis{Status: heal.StatusUnhealthy, Reason: "all sources failing", Details: details}
	}
	return heal.Diagnosis{Status: heal.StatusHealthy, Details: details}
}

// Heal forces a cache refresh so recovered providers repopulate the ranked
// list immediately instead of waiting for the next scheduled cycle.
func (e *Engine) Heal(ctx context.Context, reason string) error {
	slog.Info("trending: forcing refresh to recover", "reason", reason)
	e.FetchTrending(ctx, 0, true)
	return nil
}
