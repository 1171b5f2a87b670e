package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Describe renders a one-line human summary of a schedule, or "" when
// there is not enough data to describe it (zero interval, blank
// expression, unset instant). Callers treat "" as "nothing to show".
func Describe(s Schedule) string {
	switch s.Kind {
	case KindEvery:
		if s.EveryAmount == nil || *s.EveryAmount <= 0 || s.EveryUnit == nil {
			return ""
		}
		unit := unitLabel(*s.EveryUnit)
		if unit == "" {
			return ""
		}
		if *s.EveryAmount == 1 {
			return fmt.Sprintf("Runs every %s", unit)
		}
		return fmt.Sprintf("Runs every %d %ss", *s.EveryAmount, unit)
	case KindAt:
		if s.AtMs == nil || *s.AtMs <= 0 {
			return ""
		}
		t := time.UnixMilli(*s.AtMs)
		return fmt.Sprintf("Runs once on %s at %s", t.Format("Jan 2, 2006"), t.Format("3:04 PM"))
	case KindCron:
		if s.Expr == nil {
			return ""
		}
		expr := strings.TrimSpace(*s.Expr)
		if expr == "" {
			return ""
		}
		if s.TZ != nil && strings.TrimSpace(*s.TZ) != "" {
			return fmt.Sprintf("Cron: %s (%s)", expr, strings.TrimSpace(*s.TZ))
		}
		return "Cron: " + expr
	}
	return ""
}

func unitLabel(u Unit) string {
	switch u {
	case UnitMinutes:
		return "minute"
	case UnitHours:
		return "hour"
	case UnitDays:
		return "day"
	}
	return ""
}
