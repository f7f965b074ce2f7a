package heal

import (
	"context"
	"errors"
	"testing"
)

// fakeComponent implements Healable with scripted outcomes.
type fakeComponent struct {
	name      string
	diagnosis Diagnosis
	healErr   error
	healed    int
	reason    string
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Diagnose(context.Context) Diagnosis { return f.diagnosis }

func (f *fakeComponent) Heal(_ context.Context, reason string) error {
	f.healed++
	f.reason = reason
	return f.healErr
}

func TestRunCycle_HealthySkipsHeal(t *testing.T) {
	c := &fakeComponent{name: "svc", diagnosis: Diagnosis{Status: StatusHealthy}}

	res, err := RunCycle(context.Background(), c)
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if res.Status != StatusHealthy {
		t.Errorf("status: got %q, want healthy", res.Status)
	}
	if c.healed != 0 {
		t.Errorf("heal calls: got %d, want 0", c.healed)
	}
}

func TestRunCycle_UnhealthyTriggersHeal(t *testing.T) {
	c := &fakeComponent{name: "svc", diagnosis: Diagnosis{
		Status: StatusUnhealthy,
		Reason: "all sources failing",
	}}

	res, err := RunCycle(context.Background(), c)
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if res.Status != StatusHealing {
		t.Errorf("status: got %q, want healing", res.Status)
	}
	if c.healed != 1 {
		t.Errorf("heal calls: got %d, want 1", c.healed)
	}
	if c.reason != "all sources failing" {
		t.Errorf("reason: got %q", c.reason)
	}
}

func TestRunCycle_HealFailure(t *testing.T) {
	c := &fakeComponent{
		name:      "svc",
		diagnosis: Diagnosis{Status: StatusUnhealthy, Reason: "broken"},
		healErr:   errors.New("still broken"),
	}

	res, err := RunCycle(context.Background(), c)
	if err == nil {
		t.Fatal("expected error from failed heal")
	}
	if res.Component != "svc" {
		t.Errorf("component: got %q", res.Component)
	}
}

func TestRunCycle_CarriesDetails(t *testing.T) {
	c := &fakeComponent{name: "svc", diagnosis: Diagnosis{
		Status:  StatusHealthy,
		Details: map[string]string{"sources_total": "3"},
	}}

	res, _ := RunCycle(context.Background(), c)
	if res.Details["sources_total"] != "3" {
		t.Errorf("details: got %v", res.Details)
	}
}
