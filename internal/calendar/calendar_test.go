package calendar

import (
	"testing"
	"time"

	"github.com/harborseal/harborseal/internal/schedule"
)

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2026, time.January, 31},
		{2026, time.February, 28},
		{2028, time.February, 29}, // leap year
		{2026, time.April, 30},
	}
	for _, tt := range tests {
		if got := DaysIn(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysIn(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestMonthGrid_January2026(t *testing.T) {
	// January 2026 starts on a Thursday (slot 4) and has 31 days.
	weeks := MonthGrid(2026, time.January)
	if len(weeks) != 5 {
		t.Fatalf("expected 5 weeks, got %d", len(weeks))
	}

	first := weeks[0]
	for i := 0; i < 4; i++ {
		if !first[i].Blank() {
			t.Errorf("slot %d of first week should be blank", i)
		}
	}
	if first[4].Day != 1 {
		t.Errorf("Jan 1 should land on Thursday slot, got day %d", first[4].Day)
	}

	last := weeks[4]
	if last[6].Day != 31 {
		t.Errorf("Jan 31 should land on the last Saturday slot, got %d", last[6].Day)
	}

	// Every non-blank cell carries its civil date.
	got := 0
	for _, w := range weeks {
		for _, c := range w {
			if c.Blank() {
				continue
			}
			got++
			if c.Date.Day != c.Day || c.Date.Month != time.January || c.Date.Year != 2026 {
				t.Errorf("cell %d has wrong date %v", c.Day, c.Date)
			}
		}
	}
	if got != 31 {
		t.Errorf("expected 31 day cells, got %d", got)
	}
}

func TestMonthGrid_TrailingBlanks(t *testing.T) {
	// February 2026 ends on a Saturday, so the last week is full.
	weeks := MonthGrid(2026, time.February)
	last := weeks[len(weeks)-1]
	if last[6].Day != 28 {
		t.Errorf("Feb 28 2026 should be the last Saturday, got %d", last[6].Day)
	}
}

func TestDayIndex(t *testing.T) {
	wednesday := schedule.CalendarDate{Year: 2026, Month: time.January, Day: 7}
	saturday := schedule.CalendarDate{Year: 2026, Month: time.January, Day: 10}

	jobs := []schedule.CronJob{
		{ID: "wk", Name: "weekday-report", Enabled: true, Schedule: schedule.Cron("0 9 * * 1,2,3,4,5", "")},
		{ID: "ev", Name: "pulse", Enabled: true, Schedule: schedule.Every(30, schedule.UnitMinutes)},
		{ID: "off", Name: "disabled", Enabled: false, Schedule: schedule.Every(1, schedule.UnitHours)},
	}
	wedMorning := time.Date(2026, time.January, 7, 9, 0, 0, 0, time.Local)
	runs := []schedule.RunLogEntry{
		{JobID: "wk", TS: wedMorning.UnixMilli(), Status: schedule.StatusOK},
		{JobID: "ev", TS: wedMorning.Add(time.Hour).UnixMilli(), Status: schedule.StatusError},
		{JobID: "ev", TS: wedMorning.Add(72 * time.Hour).UnixMilli(), Status: schedule.StatusOK},
	}

	idx := NewDayIndex(jobs, runs)

	wedJobs := idx.JobsOn(wednesday)
	if len(wedJobs) != 2 {
		t.Fatalf("expected 2 jobs on Wednesday, got %d", len(wedJobs))
	}
	if wedJobs[0].ID != "wk" || wedJobs[1].ID != "ev" {
		t.Errorf("input order not preserved: %q, %q", wedJobs[0].ID, wedJobs[1].ID)
	}

	satJobs := idx.JobsOn(saturday)
	if len(satJobs) != 1 || satJobs[0].ID != "ev" {
		t.Errorf("expected only the interval job on Saturday, got %d", len(satJobs))
	}

	if n := len(idx.RunsOn(wednesday)); n != 2 {
		t.Errorf("expected 2 runs on Wednesday, got %d", n)
	}
	if !idx.HasError(wednesday) {
		t.Error("Wednesday has a failed run")
	}
	if idx.HasError(saturday) {
		t.Error("Saturday has no failed run")
	}
}
