package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/harborseal/harborseal/internal/cron"
	"github.com/harborseal/harborseal/internal/schedule"
)

func newTestServer(t *testing.T) (*Server, *cron.JobManager) {
	t.Helper()
	dir := t.TempDir()
	mgr := cron.NewJobManager(filepath.Join(dir, "jobs.json"), filepath.Join(dir, "runs.json"))
	return New(0, mgr, nil), mgr
}

func addJob(t *testing.T, mgr *cron.JobManager, name string, s schedule.Schedule) schedule.CronJob {
	t.Helper()
	job, err := mgr.Add(schedule.CronJob{
		Name:          name,
		Schedule:      s,
		Enabled:       true,
		Payload:       schedule.Payload{Kind: schedule.PayloadAgentTurn, Message: "hello"},
		SessionTarget: schedule.SessionIsolated,
		WakeMode:      schedule.WakeNow,
	})
	if err != nil {
		t.Fatal(err)
	}
	return job
}

func getJSON(t *testing.T, ts *httptest.Server, path string, out any) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatal(err)
	}
}

func TestJobsEndpoint(t *testing.T) {
	srv, mgr := newTestServer(t)
	addJob(t, mgr, "tick", schedule.Every(5, schedule.UnitMinutes))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var body struct {
		Jobs []schedule.CronJob `json:"jobs"`
	}
	getJSON(t, ts, "/api/cron/jobs", &body)
	if len(body.Jobs) != 1 || body.Jobs[0].Name != "tick" {
		t.Errorf("unexpected jobs: %+v", body.Jobs)
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv, mgr := newTestServer(t)
	addJob(t, mgr, "tick", schedule.Every(1, schedule.UnitHours))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var st cron.SchedulerStatus
	getJSON(t, ts, "/api/cron/status", &st)
	if !st.Enabled || st.Jobs != 1 {
		t.Errorf("unexpected status: %+v", st)
	}
}

func TestRunsEndpoint(t *testing.T) {
	srv, mgr := newTestServer(t)
	job := addJob(t, mgr, "tick", schedule.Every(5, schedule.UnitMinutes))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var body struct {
		Entries []schedule.RunLogEntry `json:"entries"`
	}
	getJSON(t, ts, "/api/cron/runs?job="+job.ID, &body)
	if len(body.Entries) != 0 {
		t.Errorf("expected no runs yet, got %d", len(body.Entries))
	}

	resp, err := http.Get(ts.URL + "/api/cron/runs?limit=bogus")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad limit: status %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics: status %d", resp.StatusCode)
	}
}

func TestWebsocketFeed(t *testing.T) {
	srv, mgr := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// Give the server a moment to register the client before mutating.
	time.Sleep(50 * time.Millisecond)
	addJob(t, mgr, "tick", schedule.Every(5, schedule.UnitMinutes))

	var msg struct {
		Type string             `json:"type"`
		Jobs []schedule.CronJob `json:"jobs"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "jobs" || len(msg.Jobs) != 1 {
		t.Errorf("unexpected snapshot: %+v", msg)
	}
}
