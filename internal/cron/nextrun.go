package cron

import (
	"time"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/harborseal/harborseal/internal/schedule"
)

// cronParser is the gateway's five-field dialect:
// minute hour dayOfMonth month dayOfWeek.
var cronParser = robfigcron.NewParser(
	robfigcron.Minute | robfigcron.Hour | robfigcron.Dom | robfigcron.Month | robfigcron.Dow,
)

// computeNextRun returns the next firing instant in unix ms, or nil
// when the schedule cannot fire again (past one-time instant, invalid
// interval, unparseable expression).
func computeNextRun(s schedule.Schedule, nowMillis int64, loc *time.Location) *int64 {
	switch s.Kind {
	case schedule.KindAt:
		if s.AtMs != nil && *s.AtMs > nowMillis {
			v := *s.AtMs
			return &v
		}
	case schedule.KindEvery:
		if d := s.IntervalDuration(); d > 0 {
			v := nowMillis + d.Milliseconds()
			return &v
		}
	case schedule.KindCron:
		if s.Expr == nil {
			return nil
		}
		parsed, err := cronParser.Parse(*s.Expr)
		if err != nil {
			return nil
		}
		next := parsed.Next(time.UnixMilli(nowMillis).In(s.Timezone(loc)))
		if next.IsZero() {
			return nil
		}
		v := next.UnixMilli()
		return &v
	}
	return nil
}

// locSchedule pins a parsed cron schedule to a fixed location.
type locSchedule struct {
	inner robfigcron.Schedule
	loc   *time.Location
}

func (l locSchedule) Next(t time.Time) time.Time {
	return l.inner.Next(t.In(l.loc))
}

func withLocation(s robfigcron.Schedule, loc *time.Location) robfigcron.Schedule {
	return locSchedule{inner: s, loc: loc}
}
