// Package calendar builds the month-grid and per-day indexes that back
// the cron calendar view. Like the schedule core it is pure: callers
// hand it a snapshot of jobs and runs and render whatever comes back.
package calendar

import (
	"time"

	"github.com/harborseal/harborseal/internal/schedule"
)

// Cell is one slot in the month grid. Blank leading/trailing cells have
// Day == 0.
type Cell struct {
	Day  int
	Date schedule.CalendarDate
}

// Blank reports whether the cell pads the grid outside the month.
func (c Cell) Blank() bool { return c.Day == 0 }

// Week is one grid row, Sunday first.
type Week [7]Cell

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthGrid lays out a month as whole weeks with blank cells before the
// first and after the last day.
func MonthGrid(year int, month time.Month) []Week {
	total := DaysIn(year, month)
	firstDow := int(time.Date(year, month, 1, 0, 0, 0, 0, time.Local).Weekday())

	var weeks []Week
	var current Week
	slot := firstDow
	for day := 1; day <= total; day++ {
		current[slot] = Cell{
			Day:  day,
			Date: schedule.CalendarDate{Year: year, Month: month, Day: day},
		}
		slot++
		if slot == 7 {
			weeks = append(weeks, current)
			current = Week{}
			slot = 0
		}
	}
	if slot > 0 {
		weeks = append(weeks, current)
	}
	return weeks
}

// DayIndex answers per-date queries over one snapshot of jobs and runs.
type DayIndex struct {
	jobs []schedule.CronJob
	runs []schedule.RunLogEntry
}

// NewDayIndex captures a snapshot. The slices are read, never mutated,
// and may be stale; every query is data-in, data-out.
func NewDayIndex(jobs []schedule.CronJob, runs []schedule.RunLogEntry) DayIndex {
	return DayIndex{jobs: jobs, runs: runs}
}

// JobsOn returns the jobs due on the given date, in input order.
func (x DayIndex) JobsOn(date schedule.CalendarDate) []schedule.CronJob {
	var out []schedule.CronJob
	for _, j := range x.jobs {
		if schedule.JobRunsOn(j, date) {
			out = append(out, j)
		}
	}
	return out
}

// RunsOn returns the run-log entries recorded on the given local day.
func (x DayIndex) RunsOn(date schedule.CalendarDate) []schedule.RunLogEntry {
	return schedule.RunsOnDate(x.runs, date)
}

// HasError reports whether any run on the given day failed.
func (x DayIndex) HasError(date schedule.CalendarDate) bool {
	return schedule.HasErrorRun(x.RunsOn(date))
}
