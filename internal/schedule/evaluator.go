package schedule

import (
	"strings"
	"time"
)

// CalendarDate is a timezone-naive civil date. The zero value is not a
// valid date.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its civil date in t's location.
func DateOf(t time.Time) CalendarDate {
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Time returns the date at midnight local time, which is enough to
// derive the weekday.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

// Weekday returns the day of week, Sunday = 0, matching cron's
// day-of-week numbering.
func (d CalendarDate) Weekday() time.Weekday { return d.Time().Weekday() }

// String formats the date as YYYY-MM-DD.
func (d CalendarDate) String() string { return d.Time().Format("2006-01-02") }

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (CalendarDate, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return CalendarDate{}, err
	}
	return DateOf(t), nil
}

// Due reports whether a schedule indicates the job should fire at some
// point on the given date. This is a day-granularity predicate for the
// calendar: minute and hour fields are deliberately ignored, and
// interval schedules are reported due on every date (the scheduler
// applies the real sub-day precision; see the run-time side).
func Due(s Schedule, date CalendarDate) bool {
	switch s.Kind {
	case KindAt:
		if s.AtMs == nil {
			return false
		}
		return DateOf(time.UnixMilli(*s.AtMs)) == date
	case KindEvery:
		// Known over-approximation: an "every 3 days" job is marked on
		// every calendar day. Kept as-is so the calendar stays in
		// lockstep with the gateway's published semantics.
		return true
	case KindCron:
		if s.Expr == nil {
			return true
		}
		parts := strings.Fields(strings.TrimSpace(*s.Expr))
		if len(parts) < 5 {
			// Underspecified expression: fail open rather than hide
			// the job from the calendar.
			return true
		}
		dayOfMonth, month, dayOfWeek := ParseField(parts[2]), ParseField(parts[3]), ParseField(parts[4])
		if !month.Matches(int(date.Month)) {
			return false
		}
		if !dayOfMonth.Matches(date.Day) {
			return false
		}
		if !dayOfWeek.Matches(int(date.Weekday())) {
			return false
		}
		return true
	}
	return false
}

// JobRunsOn reports whether the job appears on the given calendar date.
// Disabled jobs are never due, independent of their schedule.
func JobRunsOn(job CronJob, date CalendarDate) bool {
	if !job.Enabled {
		return false
	}
	return Due(job.Schedule, date)
}
