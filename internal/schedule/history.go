package schedule

import (
	"sort"
	"time"
)

// RunLogEntry is one recorded execution of a job. Entries are immutable
// once recorded.
type RunLogEntry struct {
	ID         string `json:"id,omitempty"`
	JobID      string `json:"jobId"`
	TS         int64  `json:"ts"`
	Status     Status `json:"status"`
	DurationMs *int64 `json:"durationMs,omitempty"`
	Summary    string `json:"summary,omitempty"`
	Error      string `json:"error,omitempty"`
	SessionKey string `json:"sessionKey,omitempty"`
}

// RunsOnDate filters runs to those whose timestamp falls on the given
// local calendar day, preserving input order. Sorting for display is a
// separate concern (OrderRunsForDisplay).
func RunsOnDate(runs []RunLogEntry, date CalendarDate) []RunLogEntry {
	var out []RunLogEntry
	for _, r := range runs {
		if DateOf(time.UnixMilli(r.TS)) == date {
			out = append(out, r)
		}
	}
	return out
}

// HasErrorRun reports whether any entry failed. The calendar uses this
// to flag a day cell.
func HasErrorRun(runs []RunLogEntry) bool {
	for _, r := range runs {
		if r.Status == StatusError {
			return true
		}
	}
	return false
}

// OrderRunsForDisplay returns a copy of runs sorted newest first.
func OrderRunsForDisplay(runs []RunLogEntry) []RunLogEntry {
	out := make([]RunLogEntry, len(runs))
	copy(out, runs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TS > out[j].TS })
	return out
}
