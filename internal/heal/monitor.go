package heal

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Diagnosis status values.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusHealing   = "healing"
)

// Healable is a subsystem that supports automated remediation.
type Healable interface {
	// Name identifies the component in logs and results.
	Name() string

	// Diagnose reports the component's current condition.
	Diagnose(ctx context.Context) Diagnosis

	// Heal attempts to restore the component after a failure.
	Heal(ctx context.Context, reason string) error
}

// Diagnosis is the outcome of a single Diagnose call.
type Diagnosis struct {
	Status  string
	Reason  string
	Details map[string]string
}

// Result records the outcome of one health cycle for a component.
type Result struct {
	Component string
	Status    string
	Details   map[string]string
}

// RunCycle executes a single diagnose-then-heal pass. Heal runs only when the
// diagnosis is not healthy; in that case the result status is "healing".
func RunCycle(ctx context.Context, c Healable) (Result, error) {
	d := c.Diagnose(ctx)
	res := Result{Component: c.Name(), Status: d.Status, Details: d.Details}
	if d.Status == StatusHealthy {
		return res, nil
	}
	if err := c.Heal(ctx, d.Reason); err != nil {
		return res, fmt.Errorf("heal %s: %w", c.Name(), err)
	}
	res.Status = StatusHealing
	return res, nil
}

// Monitor periodically runs health cycles for a fixed set of components.
type Monitor struct {
	components []Healable
	interval   time.Duration
}

// NewMonitor creates a Monitor that checks each component every interval.
func NewMonitor(interval time.Duration, components ...Healable) *Monitor {
	return &Monitor{components: components, interval: interval}
}

// Run blocks until ctx is cancelled, executing one cycle per component per
// tick. A failed cycle is logged and does not affect other components.
func (m *Monitor) Run(ctx context.Context) {
	slog.Info("heal: monitor started", "interval", m.interval, "components", len(m.components))
	t := time.NewTicker(m.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			for _, c := range m.components {
				res, err := RunCycle(ctx, c)
				if err != nil {
					slog.Error("heal: cycle failed", "component", c.Name(), "err", err)
					continue
				}
				if res.Status == StatusHealing {
					slog.Warn("heal: remediation triggered", "component", res.Component)
				}
			}
		}
	}
}
