package trending

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/trendpulse/trendpulse/internal/heal"
)

func TestDiagnose_FreshEngineIsHealthy(t *testing.T) {
	e := NewEngine([]Source{&stubSource{name: "a"}}, 10, time.Minute)

	// Sources still in the unknown state are not failures.
	if d := e.Diagnose(context.Background()); d.Status != heal.StatusHealthy {
		t.Errorf("status: got %q, want healthy", d.Status)
	}
}

func TestDiagnose_UnhealthyWhenAllSourcesFail(t *testing.T) {
	a := &stubSource{name: "a", weight: 1.0, err: errors.New("down")}
	b := &stubSource{name: "b", weight: 1.0, err: errors.New("down")}
	e := NewEngine([]Source{a, b}, 10, time.Minute)

	e.FetchTrending(context.Background(), 10, true)

	d := e.Diagnose(context.Background())
	if d.Status != heal.StatusUnhealthy {
		t.Fatalf("status: got %q, want unhealthy", d.Status)
	}
	if d.Reason == "" {
		t.Error("reason is empty")
	}
	if d.Details["sources_error"] != "2" {
		t.Errorf("sources_error: got %q, want 2", d.Details["sources_error"])
	}
}

func TestDiagnose_HealthyWhileAnySourceOK(t *testing.T) {
	ok := &stubSource{name: "ok", weight: 1.0, items: []TrendingItem{
		item("1", "https://example.com/1", 5),
	}}
	down := &stubSource{name: "down", weight: 1.0, err: errors.New("down")}
	e := NewEngine([]Source{ok, down}, 10, time.Minute)

	e.FetchTrending(context.Background(), 10, true)

	if d := e.Diagnose(context.Background()); d.Status != heal.StatusHealthy {
		t.Errorf("status: got %q, want healthy", d.Status)
	}
}

func TestHeal_ForcesRefresh(t *testing.T) {
	src := &stubSource{name: "a", weight: 1.0}
	e := NewEngine([]Source{src}, 10, time.Minute)

	if err := e.Heal(context.Background(), "all sources failing"); err != nil {
		t.Fatalf("Heal: %v", err)
	}
	if got := src.callCount(); got != 1 {
		t.Errorf("adapter calls: got %d, want 1", got)
	}
}
