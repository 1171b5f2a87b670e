package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harborseal/harborseal/internal/schedule"
)

type fakeAnnouncer struct {
	name string
	to   string
	text string
	err  error
}

func (f *fakeAnnouncer) Name() string { return f.name }
func (f *fakeAnnouncer) Announce(_ context.Context, to, text string) error {
	f.to, f.text = to, text
	return f.err
}

func agentTurnJob(del *schedule.Delivery) schedule.CronJob {
	return schedule.CronJob{
		ID:            "j1",
		Name:          "daily-summary",
		Enabled:       true,
		Payload:       schedule.Payload{Kind: schedule.PayloadAgentTurn, Message: "summarize"},
		SessionTarget: schedule.SessionIsolated,
		Delivery:      del,
	}
}

func TestDispatch_None(t *testing.T) {
	d := New(time.Second)
	err := d.Dispatch(context.Background(), agentTurnJob(nil), Result{JobID: "j1"})
	if err != nil {
		t.Fatalf("no delivery should be a silent success: %v", err)
	}
}

func TestDispatch_Webhook(t *testing.T) {
	var got Result
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
	}))
	defer srv.Close()

	d := New(time.Second)
	job := agentTurnJob(&schedule.Delivery{Mode: schedule.DeliveryWebhook, URL: srv.URL})
	res := Result{JobID: "j1", JobName: "daily-summary", Status: schedule.StatusOK, Summary: "done"}
	if err := d.Dispatch(context.Background(), job, res); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if got.JobID != "j1" || got.Summary != "done" {
		t.Errorf("webhook received %+v", got)
	}
}

func TestDispatch_WebhookFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := New(time.Second)
	job := agentTurnJob(&schedule.Delivery{Mode: schedule.DeliveryWebhook, URL: srv.URL})
	if err := d.Dispatch(context.Background(), job, Result{}); err == nil {
		t.Error("5xx response should surface as an error")
	}
}

func TestDispatch_Announce(t *testing.T) {
	fake := &fakeAnnouncer{name: "slack"}
	d := New(time.Second)
	d.Register(fake)

	job := agentTurnJob(&schedule.Delivery{Mode: schedule.DeliveryAnnounce, Channel: "slack", To: "#ops"})
	res := Result{JobID: "j1", Summary: "all clear"}
	if err := d.Dispatch(context.Background(), job, res); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if fake.to != "#ops" || fake.text != "all clear" {
		t.Errorf("announced (%q, %q)", fake.to, fake.text)
	}
}

func TestDispatch_AnnounceFallbackText(t *testing.T) {
	fake := &fakeAnnouncer{name: "slack"}
	d := New(time.Second)
	d.Register(fake)

	job := agentTurnJob(&schedule.Delivery{Mode: schedule.DeliveryAnnounce, Channel: "slack", To: "#ops"})
	d.Dispatch(context.Background(), job, Result{Status: schedule.StatusOK})
	if fake.text != "daily-summary finished: ok" {
		t.Errorf("fallback text = %q", fake.text)
	}
}

func TestDispatch_AnnounceUnknownChannelDropped(t *testing.T) {
	d := New(time.Second)
	job := agentTurnJob(&schedule.Delivery{Mode: schedule.DeliveryAnnounce, Channel: "pager", To: "x"})
	if err := d.Dispatch(context.Background(), job, Result{}); err != nil {
		t.Errorf("unknown channel is dropped, not an error: %v", err)
	}
}

// Announce on a main-session job resolves to none and must not reach
// the announcer.
func TestDispatch_AnnounceMainSessionSuppressed(t *testing.T) {
	fake := &fakeAnnouncer{name: "slack"}
	d := New(time.Second)
	d.Register(fake)

	job := agentTurnJob(&schedule.Delivery{Mode: schedule.DeliveryAnnounce, Channel: "slack", To: "#ops"})
	job.SessionTarget = schedule.SessionMain
	if err := d.Dispatch(context.Background(), job, Result{Summary: "leak?"}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if fake.text != "" {
		t.Errorf("announcer should not have been called, got %q", fake.text)
	}
}
