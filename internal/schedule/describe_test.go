package schedule

import (
	"testing"
	"time"
)

func TestDescribe_Interval(t *testing.T) {
	tests := []struct {
		amount int
		unit   Unit
		want   string
	}{
		{1, UnitHours, "Runs every hour"},
		{1, UnitMinutes, "Runs every minute"},
		{1, UnitDays, "Runs every day"},
		{30, UnitMinutes, "Runs every 30 minutes"},
		{3, UnitHours, "Runs every 3 hours"},
		{2, UnitDays, "Runs every 2 days"},
	}
	for _, tt := range tests {
		got := Describe(Every(tt.amount, tt.unit))
		if got != tt.want {
			t.Errorf("Describe(Every(%d, %s)) = %q, want %q", tt.amount, tt.unit, got, tt.want)
		}
	}
}

func TestDescribe_Interval_InvalidAmount(t *testing.T) {
	for _, amount := range []int{0, -1, -30} {
		if got := Describe(Every(amount, UnitMinutes)); got != "" {
			t.Errorf("Describe(Every(%d)) = %q, want empty", amount, got)
		}
	}
	if got := Describe(Schedule{Kind: KindEvery}); got != "" {
		t.Errorf("interval without amount should be undescribable, got %q", got)
	}
}

func TestDescribe_Once(t *testing.T) {
	at := time.Date(2026, time.March, 15, 9, 30, 0, 0, time.Local)
	got := Describe(At(at.UnixMilli()))
	want := "Runs once on Mar 15, 2026 at 9:30 AM"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDescribe_Once_Unset(t *testing.T) {
	if got := Describe(Schedule{Kind: KindAt}); got != "" {
		t.Errorf("unset instant should be undescribable, got %q", got)
	}
}

func TestDescribe_Cron(t *testing.T) {
	if got := Describe(Cron("0 9 * * 1,2,3,4,5", "")); got != "Cron: 0 9 * * 1,2,3,4,5" {
		t.Errorf("got %q", got)
	}
	if got := Describe(Cron("0 9 * * *", "America/New_York")); got != "Cron: 0 9 * * * (America/New_York)" {
		t.Errorf("got %q", got)
	}
	if got := Describe(Cron("  0 9 * * *  ", "")); got != "Cron: 0 9 * * *" {
		t.Errorf("expression should be trimmed, got %q", got)
	}
}

func TestDescribe_Cron_Blank(t *testing.T) {
	for _, expr := range []string{"", "   "} {
		if got := Describe(Cron(expr, "UTC")); got != "" {
			t.Errorf("blank expression should be undescribable, got %q", got)
		}
	}
}

func TestDescribe_UnknownKind(t *testing.T) {
	if got := Describe(Schedule{Kind: "weekly"}); got != "" {
		t.Errorf("unknown kind should be undescribable, got %q", got)
	}
}
