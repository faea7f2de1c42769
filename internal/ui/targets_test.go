package ui

import (
	"testing"

	"vantage/internal/api"
	"vantage/internal/state"
)

func modelWithSnapshot(snap state.Snapshot) Model {
	m := New(Options{})
	m.snapshot = snap
	return m
}

func TestVisibleTargets_FilterModes(t *testing.T) {
	snap := state.Snapshot{
		Pods: []api.Pod{
			{Name: "train-0", Phase: "Running"},
			{Name: "infer-0", Phase: "CrashLoopBackOff"},
		},
		Jobs: []api.JobRun{
			{Name: "train", Status: "running"},
			{Name: "eval", Status: "failed"},
		},
	}

	tests := []struct {
		name   string
		filter TargetFilter
		want   int
	}{
		{"all", FilterAll, 4},
		{"pods only", FilterPods, 2},
		{"jobs only", FilterJobs, 2},
		{"problems only", FilterProblems, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := modelWithSnapshot(snap)
			m.filterMode = tt.filter
			if got := len(m.visibleTargets()); got != tt.want {
				t.Errorf("visibleTargets() returned %d targets, want %d", got, tt.want)
			}
		})
	}
}

func TestVisibleTargets_ProblemsSortFirst(t *testing.T) {
	m := modelWithSnapshot(state.Snapshot{
		Pods: []api.Pod{
			{Name: "zz-healthy", Phase: "Running"},
			{Name: "aa-done", Phase: "Succeeded"},
			{Name: "mm-broken", Phase: "Failed"},
		},
	})

	targets := m.visibleTargets()
	if len(targets) != 3 {
		t.Fatalf("got %d targets", len(targets))
	}
	if targets[0].Name != "mm-broken" {
		t.Errorf("first target = %q, want the failed pod", targets[0].Name)
	}
	if targets[1].Name != "zz-healthy" {
		t.Errorf("second target = %q, want the running pod", targets[1].Name)
	}
}

func TestSelectedTarget_EmptyAndClamped(t *testing.T) {
	m := modelWithSnapshot(state.Snapshot{})
	if m.selectedTarget() != nil {
		t.Fatal("selectedTarget() on empty snapshot != nil")
	}

	m = modelWithSnapshot(state.Snapshot{Pods: []api.Pod{{Name: "only", Phase: "Running"}}})
	m.selectedRow = 99
	target := m.selectedTarget()
	if target == nil || target.Name != "only" {
		t.Fatalf("selectedTarget() = %+v, want clamped to last row", target)
	}
}

func TestClampSelection(t *testing.T) {
	m := modelWithSnapshot(state.Snapshot{Pods: []api.Pod{{Name: "a"}, {Name: "b"}}})
	m.selectedRow = 5
	m.clampSelection()
	if m.selectedRow != 1 {
		t.Errorf("selectedRow = %d, want 1", m.selectedRow)
	}

	m.snapshot = state.Snapshot{}
	m.clampSelection()
	if m.selectedRow != 0 {
		t.Errorf("selectedRow after empty = %d, want 0", m.selectedRow)
	}
}

func TestIsProblemStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"failed", true},
		{"Failed", true},
		{" CrashLoopBackOff ", true},
		{"running", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isProblemStatus(tt.status); got != tt.want {
			t.Errorf("isProblemStatus(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
