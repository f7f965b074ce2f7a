package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/trendpulse/trendpulse/internal/config"
	"github.com/trendpulse/trendpulse/internal/trending"
)

const (
	defaultCooldown = 15 * time.Minute
	maxHistoryLen   = 200

	// recentWindow bounds how long resolved alerts remain visible in Active.
	recentWindow = time.Hour

	// evaluateInterval is the cadence of the Run loop.
	evaluateInterval = time.Minute
)

// Alert is a single alert event produced by the rule engine.
type Alert struct {
	ID         string     `json:"id"`
	RuleName   string     `json:"rule_name"`
	Source     string     `json:"source"`
	Severity   string     `json:"severity"`
	Message    string     `json:"message"`
	Value      float64    `json:"value"`
	FiredAt    time.Time  `json:"fired_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	State      string     `json:"state"` // "firing" | "resolved"
}

// Engine evaluates alert rules against source health snapshots and delivers
// webhook notifications when rules fire or resolve.
//
// Engine is safe for concurrent use.
type Engine struct {
	rules    []config.AlertRule
	webhooks []config.WebhookConfig
	healths  func() []trending.SourceHealth

	mu       sync.Mutex
	active   map[string]*Alert    // key: "ruleName:source"
	lastFire map[string]time.Time // last fire time per key, for cooldown
	history  []*Alert             // recently resolved alerts
	client   *http.Client
}

// New creates an Engine from the alert configuration. healths supplies the
// current per-source health snapshot on every evaluation pass. An Engine
// with empty rules is valid; evaluation becomes a no-op.
func New(cfg config.AlertsConfig, healths func() []trending.SourceHealth) *Engine {
	return &Engine{
		rules:    cfg.Rules,
		webhooks: cfg.Webhooks,
		healths:  healths,
		active:   make(map[string]*Alert),
		lastFire: make(map[string]time.Time),
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Run evaluates all rules against the current health snapshot once per
// minute. It blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	if len(e.rules) == 0 {
		slog.Info("alerts: no rules configured; engine idle")
		return
	}
	t := time.NewTicker(evaluateInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			for _, h := range e.healths() {
				e.Evaluate(h)
			}
		}
	}
}

// Evaluate tests all configured rules against one source's health record.
// Alerts that fire are stored and webhook delivery runs asynchronously;
// alerts whose condition no longer holds are resolved.
func (e *Engine) Evaluate(h trending.SourceHealth) {
	now := time.Now()
	for _, rule := range e.rules {
		key := rule.Name + ":" + h.Source
		fires, value := evalCondition(rule.Condition, h, now)

		if fires {
			e.fire(rule, h.Source, key, value, now)
		} else {
			e.resolve(rule, key, now)
		}
	}
}

// Active returns copies of all currently firing alerts plus any alerts
// resolved within the past hour.
func (e *Engine) Active() []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := time.Now().Add(-recentWindow)
	out := make([]Alert, 0, len(e.active))
	for _, a := range e.active {
		out = append(out, *a)
	}
	for _, a := range e.history {
		if a.ResolvedAt != nil && a.ResolvedAt.After(cutoff) {
			out = append(out, *a)
		}
	}
	return out
}

func (e *Engine) fire(rule config.AlertRule, source, key string, value float64, now time.Time) {
	cooldown := rule.Cooldown
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	sev := rule.Severity
	if sev == "" {
		sev = "warning"
	}

	e.mu.Lock()
	if now.Sub(e.lastFire[key]) <= cooldown {
		e.mu.Unlock()
		return
	}
	a := &Alert{
		ID:       fmt.Sprintf("%s:%s:%d", rule.Name, source, now.UnixNano()),
		RuleName: rule.Name,
		Source:   source,
		Severity: sev,
		Value:    value,
		Message: fmt.Sprintf("[%s] %s fired on %s; %s (value %.2f)",
			sev, rule.Name, source, rule.Condition, value),
		FiredAt: now,
		State:   "firing",
	}
	e.active[key] = a
	e.lastFire[key] = now
	delivery := *a
	e.mu.Unlock()

	slog.Warn("alert fired", "rule", rule.Name, "source", source, "value", value, "severity", sev)
	go e.deliver(&delivery)
}

func (e *Engine) resolve(rule config.AlertRule, key string, now time.Time) {
	e.mu.Lock()
	a, ok := e.active[key]
	if !ok || a.State != "firing" {
		e.mu.Unlock()
		return
	}
	resolved := now
	a.State = "resolved"
	a.ResolvedAt = &resolved
	delete(e.active, key)

	e.history = append(e.history, a)
	if len(e.history) > maxHistoryLen {
		e.history = e.history[len(e.history)-maxHistoryLen:]
	}
	delivery := *a
	e.mu.Unlock()

	slog.Info("alert resolved", "rule", rule.Name, "source", a.Source)
	go e.deliver(&delivery)
}
