package schedule

import (
	"testing"
	"time"
)

func entryAt(jobID string, t time.Time, status Status) RunLogEntry {
	return RunLogEntry{JobID: jobID, TS: t.UnixMilli(), Status: status}
}

func TestRunsOnDate(t *testing.T) {
	day := time.Date(2026, time.January, 7, 0, 0, 0, 0, time.Local)
	runs := []RunLogEntry{
		entryAt("a", day.Add(9*time.Hour), StatusOK),
		entryAt("b", day.Add(17*time.Hour), StatusError),
		entryAt("c", day.Add(26*time.Hour), StatusOK), // next day
	}

	got := RunsOnDate(runs, DateOf(day))
	if len(got) != 2 {
		t.Fatalf("expected 2 same-day entries, got %d", len(got))
	}
	// Input order is preserved; sorting is a display concern.
	if got[0].JobID != "a" || got[1].JobID != "b" {
		t.Errorf("unexpected order: %q, %q", got[0].JobID, got[1].JobID)
	}
}

func TestRunsOnDate_Empty(t *testing.T) {
	if got := RunsOnDate(nil, wednesday); len(got) != 0 {
		t.Errorf("no runs should filter to none, got %d", len(got))
	}
}

func TestHasErrorRun(t *testing.T) {
	now := time.Now()
	ok := []RunLogEntry{
		entryAt("a", now, StatusOK),
		entryAt("a", now, StatusSkipped),
	}
	if HasErrorRun(ok) {
		t.Error("no error entries present")
	}
	if !HasErrorRun(append(ok, entryAt("a", now, StatusError))) {
		t.Error("error entry should be detected")
	}
}

func TestOrderRunsForDisplay(t *testing.T) {
	base := time.Date(2026, time.January, 7, 8, 0, 0, 0, time.Local)
	runs := []RunLogEntry{
		entryAt("a", base, StatusOK),
		entryAt("b", base.Add(2*time.Hour), StatusOK),
		entryAt("c", base.Add(time.Hour), StatusOK),
	}

	got := OrderRunsForDisplay(runs)
	want := []string{"b", "c", "a"}
	for i, id := range want {
		if got[i].JobID != id {
			t.Errorf("position %d: got %q, want %q", i, got[i].JobID, id)
		}
	}
	// The input slice must not be reordered.
	if runs[0].JobID != "a" {
		t.Error("input slice was mutated")
	}
}
