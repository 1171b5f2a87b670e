// Package schedule models when a scheduled gateway job should run.
//
// Everything here is pure data-in/data-out: no I/O, no clocks, no shared
// state. The same types back the calendar view, the schedule builder, and
// the scheduler's persisted jobs.json, so the "is this job due on this
// date" answer is computed in exactly one place.
//
// JSON keys use camelCase to stay byte-compatible with the gateway's
// existing jobs.json files.
package schedule

import "time"

// Kind discriminates the schedule union. Exactly one variant is active.
type Kind string

const (
	// KindEvery repeats on a fixed interval.
	KindEvery Kind = "every"
	// KindCron follows a five-field cron expression.
	KindCron Kind = "cron"
	// KindAt fires once at an absolute instant.
	KindAt Kind = "at"
)

// Unit is the interval unit for KindEvery schedules.
type Unit string

const (
	UnitMinutes Unit = "minutes"
	UnitHours   Unit = "hours"
	UnitDays    Unit = "days"
)

// Schedule is the tagged "when" of a job.
//
// Optional variant fields are pointers so absent values stay absent in
// JSON rather than serialising as zeroes.
type Schedule struct {
	Kind Kind `json:"kind"`

	// KindAt: absolute firing instant, unix milliseconds.
	AtMs *int64 `json:"atMs,omitempty"`

	// KindEvery: fire every Amount Units.
	EveryAmount *int  `json:"everyAmount,omitempty"`
	EveryUnit   *Unit `json:"everyUnit,omitempty"`

	// KindCron: five-field expression plus optional IANA timezone.
	Expr *string `json:"expr,omitempty"`
	TZ   *string `json:"tz,omitempty"`
}

// Every builds an interval schedule.
func Every(amount int, unit Unit) Schedule {
	return Schedule{Kind: KindEvery, EveryAmount: &amount, EveryUnit: &unit}
}

// Cron builds a cron schedule. tz may be empty.
func Cron(expr, tz string) Schedule {
	s := Schedule{Kind: KindCron, Expr: &expr}
	if tz != "" {
		s.TZ = &tz
	}
	return s
}

// At builds a one-time schedule firing at the given unix-ms instant.
func At(ms int64) Schedule {
	return Schedule{Kind: KindAt, AtMs: &ms}
}

// IntervalDuration returns the repeat period of a KindEvery schedule,
// or zero when the schedule is not a valid interval.
func (s Schedule) IntervalDuration() time.Duration {
	if s.Kind != KindEvery || s.EveryAmount == nil || *s.EveryAmount <= 0 || s.EveryUnit == nil {
		return 0
	}
	switch *s.EveryUnit {
	case UnitMinutes:
		return time.Duration(*s.EveryAmount) * time.Minute
	case UnitHours:
		return time.Duration(*s.EveryAmount) * time.Hour
	case UnitDays:
		return time.Duration(*s.EveryAmount) * 24 * time.Hour
	}
	return 0
}

// Timezone resolves the schedule's location, falling back to fallback
// (or time.Local) when no valid tz is set.
func (s Schedule) Timezone(fallback *time.Location) *time.Location {
	if fallback == nil {
		fallback = time.Local
	}
	if s.TZ == nil || *s.TZ == "" {
		return fallback
	}
	loc, err := time.LoadLocation(*s.TZ)
	if err != nil {
		return fallback
	}
	return loc
}
