package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Canonicalization between the "days of week + time of day" builder and
// the persisted five-field cron string.
//
// The two directions are consistent but not perfect inverses: cron can
// express restrictions (months, days of month) the builder cannot, and
// "*" cannot distinguish "no days selected" from "all seven selected".
// That loss happens only here, at the wire boundary, never inside the
// evaluator.

// Weekdays is the builder's day-of-week selection, Sunday = 0.
type Weekdays map[int]bool

// NewWeekdays builds a selection from the given day values.
func NewWeekdays(days ...int) Weekdays {
	w := make(Weekdays, len(days))
	for _, d := range days {
		w[d] = true
	}
	return w
}

// Sorted returns the selected days in ascending numeric order.
func (w Weekdays) Sorted() []int {
	out := make([]int, 0, len(w))
	for d, on := range w {
		if on {
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}

// Equal reports whether two selections contain the same days.
func (w Weekdays) Equal(other Weekdays) bool {
	a, b := w.Sorted(), other.Sorted()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// BuildCronFromDaysAndTime produces the canonical five-field expression
// "<minute> <hour> * * <dayOfWeek>". An empty or full selection both
// collapse to "*"; day-of-month and month are always wildcarded by
// this builder.
func BuildCronFromDaysAndTime(days Weekdays, hour, minute string) string {
	selected := days.Sorted()
	dow := "*"
	if len(selected) > 0 && len(selected) < 7 {
		parts := make([]string, len(selected))
		for i, d := range selected {
			parts[i] = strconv.Itoa(d)
		}
		dow = strings.Join(parts, ",")
	}
	return fmt.Sprintf("%s %s * * %s", minute, hour, dow)
}

// ExtractDraft pulls the builder's weekdays/hour/minute back out of an
// arbitrary cron expression, best effort. Expressions with fewer than
// five fields yield the builder defaults (9:00, every day). Hour and
// minute come back as raw strings so partially-typed input survives a
// round trip without numeric coercion.
func ExtractDraft(expr string) (days Weekdays, hour, minute string) {
	parts := strings.Fields(strings.TrimSpace(expr))
	if len(parts) < 5 {
		return Weekdays{}, "9", "0"
	}
	minute, hour = parts[0], parts[1]
	days = Weekdays{}
	if parts[4] == "*" {
		return days, hour, minute
	}
	for _, tok := range strings.Split(parts[4], ",") {
		if d, err := strconv.Atoi(strings.TrimSpace(tok)); err == nil {
			days[d] = true
		}
	}
	return days, hour, minute
}
