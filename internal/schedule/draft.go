package schedule

import (
	"strconv"
	"strings"
	"time"
)

// DraftMode is the schedule builder's active tab.
type DraftMode string

const (
	ModeInterval    DraftMode = "interval"
	ModeDaysAndTime DraftMode = "daysAndTime"
	ModeOneTime     DraftMode = "oneTime"
)

// Draft is the transient editing state of the schedule builder. It is
// never persisted; only the Schedule derived by Commit is. Each mode
// keeps its own raw fields, so partially-typed input in one mode cannot
// leak into another mode's derived value.
type Draft struct {
	Mode DraftMode

	// ModeInterval: raw amount string plus unit.
	EveryAmount string
	EveryUnit   Unit

	// ModeDaysAndTime edits go through CronExpr; the raw expression and
	// timezone stay directly editable regardless of mode.
	CronExpr string
	TZ       string

	// ModeOneTime: local datetime, "2006-01-02T15:04" style.
	ScheduleAt string
}

// NewDraft returns the builder's initial state: every hour, with the
// days-and-time tab primed at 9:00 daily.
func NewDraft() Draft {
	return Draft{
		Mode:        ModeInterval,
		EveryAmount: "1",
		EveryUnit:   UnitHours,
		CronExpr:    "0 9 * * *",
	}
}

// DraftPatch is one edit: only non-nil fields are applied.
type DraftPatch struct {
	Mode        *DraftMode
	EveryAmount *string
	EveryUnit   *Unit
	CronExpr    *string
	TZ          *string
	ScheduleAt  *string
}

// Apply folds a patch into the draft and returns the new draft. The
// receiver is unchanged; the builder is a pure reducer over edits.
func (d Draft) Apply(p DraftPatch) Draft {
	if p.Mode != nil {
		d.Mode = *p.Mode
	}
	if p.EveryAmount != nil {
		d.EveryAmount = *p.EveryAmount
	}
	if p.EveryUnit != nil {
		d.EveryUnit = *p.EveryUnit
	}
	if p.CronExpr != nil {
		d.CronExpr = *p.CronExpr
	}
	if p.TZ != nil {
		d.TZ = *p.TZ
	}
	if p.ScheduleAt != nil {
		d.ScheduleAt = *p.ScheduleAt
	}
	return d
}

// Weekdays returns the day/time selection derived from the current
// expression.
func (d Draft) Weekdays() (days Weekdays, hour, minute string) {
	return ExtractDraft(d.CronExpr)
}

// ToggleDay flips one weekday in the days-and-time selection and
// re-canonicalises the expression.
func (d Draft) ToggleDay(day int) Draft {
	days, hour, minute := ExtractDraft(d.CronExpr)
	if days[day] {
		delete(days, day)
	} else {
		days[day] = true
	}
	d.Mode = ModeDaysAndTime
	d.CronExpr = BuildCronFromDaysAndTime(days, hour, minute)
	return d
}

// WithTime sets the firing time of the days-and-time selection.
func (d Draft) WithTime(hour, minute string) Draft {
	days, _, _ := ExtractDraft(d.CronExpr)
	d.Mode = ModeDaysAndTime
	d.CronExpr = BuildCronFromDaysAndTime(days, hour, minute)
	return d
}

// WithDays replaces the whole weekday selection (the "Weekdays" /
// "Weekends" / "Every day" shortcuts).
func (d Draft) WithDays(days Weekdays) Draft {
	_, hour, minute := ExtractDraft(d.CronExpr)
	d.Mode = ModeDaysAndTime
	d.CronExpr = BuildCronFromDaysAndTime(days, hour, minute)
	return d
}

// Commit derives the canonical Schedule from the active mode. ok is
// false when the active mode's input is incomplete or unparseable;
// nothing is ever persisted from a draft except this result.
func (d Draft) Commit() (Schedule, bool) {
	switch d.Mode {
	case ModeInterval:
		n, err := strconv.Atoi(strings.TrimSpace(d.EveryAmount))
		if err != nil || n <= 0 {
			return Schedule{}, false
		}
		return Every(n, d.EveryUnit), true
	case ModeDaysAndTime:
		expr := strings.TrimSpace(d.CronExpr)
		if expr == "" {
			return Schedule{}, false
		}
		return Cron(expr, strings.TrimSpace(d.TZ)), true
	case ModeOneTime:
		t, ok := parseLocalDateTime(d.ScheduleAt)
		if !ok {
			return Schedule{}, false
		}
		return At(t.UnixMilli()), true
	}
	return Schedule{}, false
}

// Preview is the builder's live one-line summary, or "" when the draft
// cannot be described yet.
func (d Draft) Preview() string {
	s, ok := d.Commit()
	if !ok {
		return ""
	}
	return Describe(s)
}

func parseLocalDateTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
