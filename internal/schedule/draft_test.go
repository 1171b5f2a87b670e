package schedule

import (
	"testing"
	"time"
)

func modePtr(m DraftMode) *DraftMode { return &m }
func strPtr(s string) *string        { return &s }
func unitPtr(u Unit) *Unit           { return &u }

func TestDraft_ApplyIsolatesModes(t *testing.T) {
	d := NewDraft()

	// Type a cron expression, then switch back to interval mode and
	// edit the amount: the expression must survive untouched.
	d = d.Apply(DraftPatch{Mode: modePtr(ModeDaysAndTime), CronExpr: strPtr("0 7 * * 1")})
	d = d.Apply(DraftPatch{Mode: modePtr(ModeInterval), EveryAmount: strPtr("15"), EveryUnit: unitPtr(UnitMinutes)})

	if d.CronExpr != "0 7 * * 1" {
		t.Errorf("interval edits corrupted the cron expression: %q", d.CronExpr)
	}

	s, ok := d.Commit()
	if !ok || s.Kind != KindEvery || *s.EveryAmount != 15 {
		t.Fatalf("unexpected commit: %+v ok=%v", s, ok)
	}

	// Switching back still commits the preserved expression.
	d = d.Apply(DraftPatch{Mode: modePtr(ModeDaysAndTime)})
	s, ok = d.Commit()
	if !ok || s.Kind != KindCron || *s.Expr != "0 7 * * 1" {
		t.Fatalf("unexpected commit: %+v ok=%v", s, ok)
	}
}

func TestDraft_CommitInterval_BadAmount(t *testing.T) {
	for _, amount := range []string{"", "0", "-3", "abc"} {
		d := NewDraft().Apply(DraftPatch{EveryAmount: strPtr(amount)})
		if _, ok := d.Commit(); ok {
			t.Errorf("amount %q should not commit", amount)
		}
		if d.Preview() != "" {
			t.Errorf("amount %q should have no preview", amount)
		}
	}
}

func TestDraft_CommitOneTime(t *testing.T) {
	d := NewDraft().Apply(DraftPatch{Mode: modePtr(ModeOneTime), ScheduleAt: strPtr("2026-03-15T09:30")})
	s, ok := d.Commit()
	if !ok || s.Kind != KindAt {
		t.Fatalf("unexpected commit: %+v ok=%v", s, ok)
	}
	want := time.Date(2026, time.March, 15, 9, 30, 0, 0, time.Local).UnixMilli()
	if *s.AtMs != want {
		t.Errorf("atMs = %d, want %d", *s.AtMs, want)
	}
}

func TestDraft_CommitOneTime_Invalid(t *testing.T) {
	for _, raw := range []string{"", "soon", "2026-13-45T99:99"} {
		d := NewDraft().Apply(DraftPatch{Mode: modePtr(ModeOneTime), ScheduleAt: strPtr(raw)})
		if _, ok := d.Commit(); ok {
			t.Errorf("scheduleAt %q should not commit", raw)
		}
	}
}

func TestDraft_ToggleDay(t *testing.T) {
	d := NewDraft() // cron primed at "0 9 * * *"
	d = d.ToggleDay(1)
	if d.CronExpr != "0 9 * * 1" {
		t.Fatalf("got %q", d.CronExpr)
	}
	d = d.ToggleDay(5)
	if d.CronExpr != "0 9 * * 1,5" {
		t.Fatalf("got %q", d.CronExpr)
	}
	d = d.ToggleDay(1)
	if d.CronExpr != "0 9 * * 5" {
		t.Fatalf("got %q", d.CronExpr)
	}
	if d.Mode != ModeDaysAndTime {
		t.Error("toggling a day should activate the days-and-time mode")
	}
}

func TestDraft_WithTimeKeepsDays(t *testing.T) {
	d := NewDraft().WithDays(NewWeekdays(1, 2, 3, 4, 5))
	d = d.WithTime("18", "30")
	if d.CronExpr != "30 18 * * 1,2,3,4,5" {
		t.Fatalf("got %q", d.CronExpr)
	}
}

func TestDraft_Preview(t *testing.T) {
	d := NewDraft()
	if got := d.Preview(); got != "Runs every hour" {
		t.Errorf("default preview = %q", got)
	}
	d = d.Apply(DraftPatch{Mode: modePtr(ModeDaysAndTime), TZ: strPtr("UTC")})
	if got := d.Preview(); got != "Cron: 0 9 * * * (UTC)" {
		t.Errorf("cron preview = %q", got)
	}
}

func TestDraft_ApplyDoesNotMutateReceiver(t *testing.T) {
	d := NewDraft()
	_ = d.Apply(DraftPatch{EveryAmount: strPtr("99")})
	if d.EveryAmount != "1" {
		t.Error("Apply must not mutate the original draft")
	}
}
