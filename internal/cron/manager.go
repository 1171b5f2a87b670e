// Package cron owns the gateway's scheduled jobs: the jobs.json /
// runs.json stores, next-run computation, timer arming, and run-log
// recording.
//
// Day-level due-ness for the calendar is computed by internal/schedule;
// this package must stay semantically compatible with it (it only adds
// the sub-day precision the calendar predicate deliberately ignores).
package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	robfigcron "github.com/robfig/cron/v3"

	"github.com/harborseal/harborseal/internal/schedule"
)

const defaultTimeoutSeconds = 300

// OnJobFunc executes a fired job and returns a short result summary.
// Delivery of the result is the callback's concern, not the manager's.
type OnJobFunc func(ctx context.Context, job schedule.CronJob) (string, error)

// SchedulerStatus is the dashboard's scheduler card.
type SchedulerStatus struct {
	Enabled      bool   `json:"enabled"`
	Jobs         int    `json:"jobs"`
	NextWakeAtMs *int64 `json:"nextWakeAtMs,omitempty"`
}

// JobManager manages scheduled jobs and their run history.
type JobManager struct {
	jobsPath string
	runsPath string
	enabled  bool
	loc      *time.Location
	runCap   int

	onJob    OnJobFunc
	onChange func([]schedule.CronJob)
	metrics  *Metrics

	mu    sync.Mutex
	store jobStore
	runs  runStore

	// Active timers / cron entries keyed by job ID.
	timers    map[string]*time.Timer
	robfig    *robfigcron.Cron
	robfigIDs map[string]robfigcron.EntryID
}

// NewJobManager creates a manager over the given store paths. The
// scheduler starts enabled, in the local timezone, with a 500-entry
// run-log cap.
func NewJobManager(jobsPath, runsPath string) *JobManager {
	return &JobManager{
		jobsPath:  jobsPath,
		runsPath:  runsPath,
		enabled:   true,
		loc:       time.Local,
		runCap:    500,
		timers:    make(map[string]*time.Timer),
		robfig:    robfigcron.New(),
		robfigIDs: make(map[string]robfigcron.EntryID),
	}
}

// SetOnJob registers the callback executed when a job fires.
// Must be set before Start().
func (m *JobManager) SetOnJob(fn OnJobFunc) { m.onJob = fn }

// SetOnChange registers a hook called with the full job list after
// every mutation or run. Used by the gateway's websocket feed.
func (m *JobManager) SetOnChange(fn func([]schedule.CronJob)) { m.onChange = fn }

// SetEnabled gates timer arming. Jobs stay listable when disabled.
func (m *JobManager) SetEnabled(enabled bool) { m.enabled = enabled }

// SetLocation sets the default timezone for cron expressions without
// an explicit tz.
func (m *JobManager) SetLocation(loc *time.Location) {
	if loc != nil {
		m.loc = loc
	}
}

// SetRunLogCap caps runs.json to the newest n entries.
func (m *JobManager) SetRunLogCap(n int) {
	if n > 0 {
		m.runCap = n
	}
}

// SetMetrics attaches run counters. Nil metrics are valid and ignored.
func (m *JobManager) SetMetrics(mt *Metrics) { m.metrics = mt }

// Start loads the stores, (re)computes next-run times, arms all timers,
// and blocks until ctx is cancelled.
func (m *JobManager) Start(ctx context.Context) error {
	m.mu.Lock()
	if err := m.loadLocked(); err != nil {
		slog.Warn("cron: load failed, starting empty", "err", err)
	}
	m.recomputeNextRunsLocked()
	m.saveLocked()
	if m.enabled {
		m.armAllLocked(ctx)
	}
	jobs := len(m.store.Jobs)
	m.mu.Unlock()

	if m.enabled {
		m.robfig.Start()
	}
	slog.Info("cron: started", "jobs", jobs, "enabled", m.enabled)

	<-ctx.Done()

	<-m.robfig.Stop().Done()
	m.mu.Lock()
	for _, t := range m.timers {
		t.Stop()
	}
	m.mu.Unlock()
	return ctx.Err()
}

// ---- CRUD ------------------------------------------------------------------

// Add validates, persists, and (when running) arms a new job. The
// returned job carries its assigned ID and computed next run.
func (m *JobManager) Add(job schedule.CronJob) (schedule.CronJob, error) {
	if err := validateJob(job); err != nil {
		return schedule.CronJob{}, err
	}

	now := nowMs()
	job.ID = shortID()
	job.CreatedAtMs = now
	job.UpdatedAtMs = now
	job.State = schedule.JobState{}
	if job.Enabled {
		job.State.NextRunAtMs = computeNextRun(job.Schedule, now, m.loc)
	}

	m.mu.Lock()
	_ = m.loadLocked()
	m.store.Jobs = append(m.store.Jobs, job)
	m.saveLocked()
	m.mu.Unlock()

	slog.Info("cron: added job", "name", job.Name, "id", job.ID, "kind", job.Schedule.Kind)
	m.notifyChange()
	return job, nil
}

// Remove deletes a job by ID and returns true if it existed.
func (m *JobManager) Remove(id string) bool {
	m.mu.Lock()
	_ = m.loadLocked()
	before := len(m.store.Jobs)
	filtered := m.store.Jobs[:0]
	for _, j := range m.store.Jobs {
		if j.ID != id {
			filtered = append(filtered, j)
		}
	}
	m.store.Jobs = filtered
	removed := len(filtered) < before
	if removed {
		m.cancelTimerLocked(id)
		m.saveLocked()
	}
	m.mu.Unlock()

	if removed {
		slog.Info("cron: removed job", "id", id)
		m.notifyChange()
	}
	return removed
}

// Enable turns a job on or off, recomputing or clearing its next run.
func (m *JobManager) Enable(id string, enabled bool) (schedule.CronJob, bool) {
	m.mu.Lock()
	_ = m.loadLocked()
	var out schedule.CronJob
	found := false
	for i := range m.store.Jobs {
		if m.store.Jobs[i].ID != id {
			continue
		}
		m.store.Jobs[i].Enabled = enabled
		m.store.Jobs[i].UpdatedAtMs = nowMs()
		if enabled {
			m.store.Jobs[i].State.NextRunAtMs = computeNextRun(m.store.Jobs[i].Schedule, nowMs(), m.loc)
		} else {
			m.store.Jobs[i].State.NextRunAtMs = nil
			m.cancelTimerLocked(id)
		}
		m.saveLocked()
		out, found = m.store.Jobs[i], true
		break
	}
	m.mu.Unlock()

	if found {
		m.notifyChange()
	}
	return out, found
}

// UpdateSchedule replaces a job's schedule (the builder's commit path).
func (m *JobManager) UpdateSchedule(id string, s schedule.Schedule) (schedule.CronJob, error) {
	if err := validateSchedule(s); err != nil {
		return schedule.CronJob{}, err
	}

	m.mu.Lock()
	_ = m.loadLocked()
	var out schedule.CronJob
	found := false
	for i := range m.store.Jobs {
		if m.store.Jobs[i].ID != id {
			continue
		}
		m.store.Jobs[i].Schedule = s
		m.store.Jobs[i].UpdatedAtMs = nowMs()
		if m.store.Jobs[i].Enabled {
			m.store.Jobs[i].State.NextRunAtMs = computeNextRun(s, nowMs(), m.loc)
		}
		m.saveLocked()
		out, found = m.store.Jobs[i], true
		break
	}
	m.mu.Unlock()

	if !found {
		return schedule.CronJob{}, fmt.Errorf("job %s not found", id)
	}
	m.notifyChange()
	return out, nil
}

// List returns jobs sorted by next run time, soonest first.
func (m *JobManager) List(includeDisabled bool) []schedule.CronJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.loadLocked()
	var jobs []schedule.CronJob
	for _, j := range m.store.Jobs {
		if includeDisabled || j.Enabled {
			jobs = append(jobs, j)
		}
	}
	sort.SliceStable(jobs, func(i, k int) bool {
		a := int64(^uint64(0) >> 1)
		b := int64(^uint64(0) >> 1)
		if jobs[i].State.NextRunAtMs != nil {
			a = *jobs[i].State.NextRunAtMs
		}
		if jobs[k].State.NextRunAtMs != nil {
			b = *jobs[k].State.NextRunAtMs
		}
		return a < b
	})
	return jobs
}

// Get returns one job by ID.
func (m *JobManager) Get(id string) (schedule.CronJob, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.loadLocked()
	for _, j := range m.store.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return schedule.CronJob{}, false
}

// Runs returns a job's run history, newest first. limit <= 0 means all.
func (m *JobManager) Runs(jobID string, limit int) []schedule.RunLogEntry {
	m.mu.Lock()
	_ = m.loadRunsLocked()
	var out []schedule.RunLogEntry
	for _, r := range m.runs.Entries {
		if r.JobID == jobID {
			out = append(out, r)
		}
	}
	m.mu.Unlock()

	out = schedule.OrderRunsForDisplay(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// AllRuns returns every recorded run, in store (chronological) order.
// The calendar correlates these by local day.
func (m *JobManager) AllRuns() []schedule.RunLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.loadRunsLocked()
	out := make([]schedule.RunLogEntry, len(m.runs.Entries))
	copy(out, m.runs.Entries)
	return out
}

// Status summarises the scheduler for the dashboard card.
func (m *JobManager) Status() SchedulerStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.loadLocked()
	st := SchedulerStatus{Enabled: m.enabled, Jobs: len(m.store.Jobs)}
	for _, j := range m.store.Jobs {
		if !j.Enabled || j.State.NextRunAtMs == nil {
			continue
		}
		if st.NextWakeAtMs == nil || *j.State.NextRunAtMs < *st.NextWakeAtMs {
			v := *j.State.NextRunAtMs
			st.NextWakeAtMs = &v
		}
	}
	return st
}

// RunJob manually executes a job (force=true ignores the enabled flag).
func (m *JobManager) RunJob(ctx context.Context, id string, force bool) bool {
	m.mu.Lock()
	_ = m.loadLocked()
	var job *schedule.CronJob
	for i := range m.store.Jobs {
		if m.store.Jobs[i].ID == id {
			if !force && !m.store.Jobs[i].Enabled {
				m.mu.Unlock()
				return false
			}
			job = &m.store.Jobs[i]
			break
		}
	}
	if job == nil {
		m.mu.Unlock()
		return false
	}
	jobCopy := *job
	m.mu.Unlock()

	m.executeJob(ctx, jobCopy, force)
	return true
}

// FirePending executes every enabled wake-on-heartbeat job whose next
// run has passed. Called by the heartbeat service; returns the number
// of jobs fired.
func (m *JobManager) FirePending(ctx context.Context, now time.Time) int {
	nowMillis := now.UnixMilli()

	m.mu.Lock()
	_ = m.loadLocked()
	var pending []schedule.CronJob
	for _, j := range m.store.Jobs {
		if !j.Enabled || j.WakeMode != schedule.WakeNextHeartbeat {
			continue
		}
		if j.State.NextRunAtMs != nil && *j.State.NextRunAtMs <= nowMillis {
			pending = append(pending, j)
		}
	}
	m.mu.Unlock()

	for _, j := range pending {
		m.executeJob(ctx, j, false)
	}
	return len(pending)
}

// ---- internal scheduling ---------------------------------------------------

func (m *JobManager) recomputeNextRunsLocked() {
	now := nowMs()
	for i := range m.store.Jobs {
		if m.store.Jobs[i].Enabled {
			m.store.Jobs[i].State.NextRunAtMs = computeNextRun(m.store.Jobs[i].Schedule, now, m.loc)
		}
	}
}

func (m *JobManager) armAllLocked(ctx context.Context) {
	for _, j := range m.store.Jobs {
		if j.Enabled {
			m.armJobLocked(ctx, j)
		}
	}
}

func (m *JobManager) armJobLocked(ctx context.Context, job schedule.CronJob) {
	m.cancelTimerLocked(job.ID)

	// Wake-on-heartbeat jobs keep a computed next run but no timer of
	// their own; the heartbeat tick collects them via FirePending.
	if job.WakeMode == schedule.WakeNextHeartbeat {
		return
	}

	switch job.Schedule.Kind {
	case schedule.KindEvery:
		d := job.Schedule.IntervalDuration()
		if d <= 0 {
			return
		}
		t := time.AfterFunc(d, func() {
			m.executeJob(ctx, job, false)
			m.mu.Lock()
			// Refresh from the store in case the job changed meanwhile.
			for _, j := range m.store.Jobs {
				if j.ID == job.ID && j.Enabled {
					m.armJobLocked(ctx, j)
					break
				}
			}
			m.mu.Unlock()
		})
		m.timers[job.ID] = t

	case schedule.KindAt:
		if job.Schedule.AtMs == nil {
			return
		}
		delay := time.Until(time.UnixMilli(*job.Schedule.AtMs))
		if delay < 0 {
			return
		}
		t := time.AfterFunc(delay, func() {
			m.executeJob(ctx, job, false)
		})
		m.timers[job.ID] = t

	case schedule.KindCron:
		if job.Schedule.Expr == nil {
			return
		}
		parsed, err := cronParser.Parse(*job.Schedule.Expr)
		if err != nil {
			slog.Warn("cron: invalid cron expression", "job", job.ID, "expr", *job.Schedule.Expr, "err", err)
			return
		}
		loc := job.Schedule.Timezone(m.loc)
		jobCopy := job
		entryID := m.robfig.Schedule(
			withLocation(parsed, loc),
			robfigcron.FuncJob(func() { m.executeJob(ctx, jobCopy, false) }),
		)
		m.robfigIDs[job.ID] = entryID
	}
}

func (m *JobManager) cancelTimerLocked(id string) {
	if t, ok := m.timers[id]; ok {
		t.Stop()
		delete(m.timers, id)
	}
	if eid, ok := m.robfigIDs[id]; ok {
		m.robfig.Remove(eid)
		delete(m.robfigIDs, id)
	}
}

func (m *JobManager) executeJob(ctx context.Context, job schedule.CronJob, force bool) {
	startMs := nowMs()

	// Re-check the stored job: it may have been disabled or removed
	// between arming and firing.
	current, ok := m.Get(job.ID)
	if ok {
		job = current
	}
	if !ok || (!job.Enabled && !force) {
		m.recordRun(schedule.RunLogEntry{
			ID:     uuid.NewString(),
			JobID:  job.ID,
			TS:     startMs,
			Status: schedule.StatusSkipped,
		})
		slog.Info("cron: skipped job", "id", job.ID, "present", ok)
		return
	}

	slog.Info("cron: executing job", "name", job.Name, "id", job.ID)

	timeout := defaultTimeoutSeconds
	if job.TimeoutSeconds != nil && *job.TimeoutSeconds > 0 {
		timeout = *job.TimeoutSeconds
	}
	runCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	status := schedule.StatusOK
	summary := ""
	errText := ""
	if m.onJob != nil {
		out, err := m.onJob(runCtx, job)
		summary = out
		if err != nil {
			status = schedule.StatusError
			errText = err.Error()
			slog.Error("cron: job failed", "name", job.Name, "err", err)
		}
	}

	duration := nowMs() - startMs
	entry := schedule.RunLogEntry{
		ID:         uuid.NewString(),
		JobID:      job.ID,
		TS:         startMs,
		Status:     status,
		DurationMs: &duration,
		Summary:    summary,
		Error:      errText,
	}
	if job.SessionTarget == schedule.SessionIsolated {
		entry.SessionKey = "cron:" + job.ID
	}
	m.recordRun(entry)

	m.mu.Lock()
	for i := range m.store.Jobs {
		if m.store.Jobs[i].ID != job.ID {
			continue
		}
		now := nowMs()
		m.store.Jobs[i].State.LastRunAtMs = &startMs
		m.store.Jobs[i].State.LastStatus = status
		m.store.Jobs[i].UpdatedAtMs = now

		if job.Schedule.Kind == schedule.KindAt {
			if job.DeleteAfterRun {
				filtered := m.store.Jobs[:0]
				for _, j := range m.store.Jobs {
					if j.ID != job.ID {
						filtered = append(filtered, j)
					}
				}
				m.store.Jobs = filtered
			} else {
				m.store.Jobs[i].Enabled = false
				m.store.Jobs[i].State.NextRunAtMs = nil
			}
		} else {
			m.store.Jobs[i].State.NextRunAtMs = computeNextRun(job.Schedule, now, m.loc)
		}
		break
	}
	m.saveLocked()
	m.mu.Unlock()

	m.notifyChange()
}

func (m *JobManager) recordRun(entry schedule.RunLogEntry) {
	m.mu.Lock()
	_ = m.loadRunsLocked()
	m.runs.Entries = append(m.runs.Entries, entry)
	if len(m.runs.Entries) > m.runCap {
		m.runs.Entries = m.runs.Entries[len(m.runs.Entries)-m.runCap:]
	}
	m.saveRunsLocked()
	m.mu.Unlock()

	m.metrics.ObserveRun(entry.Status, entry.DurationMs)
}

func (m *JobManager) notifyChange() {
	m.metrics.SetJobCount(len(m.List(true)))
	if m.onChange != nil {
		m.onChange(m.List(true))
	}
}

// ---- validation ------------------------------------------------------------

func validateJob(job schedule.CronJob) error {
	if strings.TrimSpace(job.Name) == "" {
		return fmt.Errorf("job name is required")
	}
	switch job.Payload.Kind {
	case schedule.PayloadAgentTurn, schedule.PayloadSystemEvent:
	default:
		return fmt.Errorf("unknown payload kind %q", job.Payload.Kind)
	}
	return validateSchedule(job.Schedule)
}

func validateSchedule(s schedule.Schedule) error {
	switch s.Kind {
	case schedule.KindEvery:
		if s.IntervalDuration() <= 0 {
			return fmt.Errorf("interval schedule needs a positive amount and unit")
		}
	case schedule.KindCron:
		if s.Expr == nil || strings.TrimSpace(*s.Expr) == "" {
			return fmt.Errorf("cron schedule needs an expression")
		}
	case schedule.KindAt:
		if s.AtMs == nil || *s.AtMs <= 0 {
			return fmt.Errorf("one-time schedule needs an instant")
		}
	default:
		return fmt.Errorf("unknown schedule kind %q", s.Kind)
	}
	return nil
}

// ---- utility ---------------------------------------------------------------

func nowMs() int64 { return time.Now().UnixMilli() }

func shortID() string {
	return fmt.Sprintf("%08x", time.Now().UnixNano()&0xFFFFFFFF)
}
