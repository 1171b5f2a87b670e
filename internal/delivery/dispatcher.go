// Package delivery routes finished cron-run results to their
// destination: a webhook URL or an announce channel. Jobs with no
// (effective) delivery are a valid, silent case.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/harborseal/harborseal/internal/schedule"
)

// Result is the outcome payload handed to webhooks and announcers.
type Result struct {
	JobID   string          `json:"jobId"`
	JobName string          `json:"jobName"`
	Status  schedule.Status `json:"status"`
	Summary string          `json:"summary,omitempty"`
	Error   string          `json:"error,omitempty"`
	TS      int64           `json:"ts"`
}

// Announcer sends a text message to a recipient on one channel.
type Announcer interface {
	Name() string
	Announce(ctx context.Context, to, text string) error
}

// Dispatcher resolves a job's effective delivery and sends the result.
type Dispatcher struct {
	client     *http.Client
	announcers map[string]Announcer
}

// New creates a dispatcher. timeout bounds webhook POSTs.
func New(timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		client:     &http.Client{Timeout: timeout},
		announcers: make(map[string]Announcer),
	}
}

// Register adds an announce channel.
func (d *Dispatcher) Register(a Announcer) {
	d.announcers[a.Name()] = a
}

// Dispatch sends the result where the job's effective delivery points.
// An unconfigured announce channel is logged and dropped, not an error
// back to the scheduler: delivery trouble must never poison job state.
func (d *Dispatcher) Dispatch(ctx context.Context, job schedule.CronJob, res Result) error {
	del := job.EffectiveDelivery()
	switch del.Mode {
	case schedule.DeliveryNone:
		return nil
	case schedule.DeliveryWebhook:
		return d.postWebhook(ctx, del.URL, res)
	case schedule.DeliveryAnnounce:
		a, ok := d.announcers[del.Channel]
		if !ok {
			slog.Warn("delivery: no announcer for channel", "channel", del.Channel, "job", job.ID)
			return nil
		}
		text := res.Summary
		if text == "" {
			text = fmt.Sprintf("%s finished: %s", job.Name, res.Status)
		}
		return a.Announce(ctx, del.To, text)
	}
	return nil
}

func (d *Dispatcher) postWebhook(ctx context.Context, url string, res Result) error {
	if url == "" {
		return fmt.Errorf("webhook delivery without a url")
	}
	body, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
