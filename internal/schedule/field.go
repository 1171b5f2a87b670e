package schedule

import (
	"strconv"
	"strings"
)

// Field is one parsed cron field: either the wildcard (matches every
// value) or an exact set of integers.
//
// Only wildcards and comma-separated exact lists are understood; ranges
// (a-b) and steps (*/n) are not part of the gateway's cron dialect.
// Anything unparseable degrades to the wildcard: a calendar that
// refuses to render because one job carries a bad expression is worse
// than over-marking, so the matcher fails open.
type Field struct {
	wildcard bool
	values   map[int]struct{}
}

// ParseField parses a single raw cron field.
func ParseField(raw string) Field {
	raw = strings.TrimSpace(raw)
	if raw == "*" {
		return Field{wildcard: true}
	}
	values := make(map[int]struct{})
	for _, tok := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			// Malformed token: treat the whole field as unrestricted.
			return Field{wildcard: true}
		}
		values[n] = struct{}{}
	}
	return Field{values: values}
}

// Matches reports whether v satisfies the field.
func (f Field) Matches(v int) bool {
	if f.wildcard {
		return true
	}
	_, ok := f.values[v]
	return ok
}

// IsWildcard reports whether the field matches every value.
func (f Field) IsWildcard() bool { return f.wildcard }
