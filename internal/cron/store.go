package cron

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/harborseal/harborseal/internal/schedule"
)

// jobStore is the on-disk shape of jobs.json.
type jobStore struct {
	Version int                `json:"version"`
	Jobs    []schedule.CronJob `json:"jobs"`
}

// runStore is the on-disk shape of runs.json. Entries are appended in
// execution order and capped to the newest runCap entries.
type runStore struct {
	Version int                    `json:"version"`
	Entries []schedule.RunLogEntry `json:"entries"`
}

func (m *JobManager) loadLocked() error {
	if len(m.store.Jobs) > 0 || m.store.Version != 0 {
		return nil // already loaded
	}
	data, err := os.ReadFile(m.jobsPath)
	if os.IsNotExist(err) {
		m.store = jobStore{Version: 1}
		return nil
	}
	if err != nil {
		return err
	}
	var st jobStore
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	m.store = st
	return nil
}

func (m *JobManager) saveLocked() {
	writeStore(m.jobsPath, m.store)
}

func (m *JobManager) loadRunsLocked() error {
	if len(m.runs.Entries) > 0 || m.runs.Version != 0 {
		return nil
	}
	data, err := os.ReadFile(m.runsPath)
	if os.IsNotExist(err) {
		m.runs = runStore{Version: 1}
		return nil
	}
	if err != nil {
		return err
	}
	var st runStore
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	m.runs = st
	return nil
}

func (m *JobManager) saveRunsLocked() {
	writeStore(m.runsPath, m.runs)
}

func writeStore(path string, v any) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		slog.Warn("cron: mkdir failed", "path", path, "err", err)
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		slog.Warn("cron: marshal failed", "path", path, "err", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Warn("cron: write failed", "path", path, "err", err)
	}
}
