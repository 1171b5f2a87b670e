package schedule

// PayloadKind says what a job does when it fires.
type PayloadKind string

const (
	// PayloadAgentTurn asks the assistant to run a prompt.
	PayloadAgentTurn PayloadKind = "agentTurn"
	// PayloadSystemEvent injects an internal system event.
	PayloadSystemEvent PayloadKind = "systemEvent"
)

// Payload is the job's action. Message is set for agent turns, Text for
// system events.
type Payload struct {
	Kind    PayloadKind `json:"kind"`
	Message string      `json:"message,omitempty"`
	Text    string      `json:"text,omitempty"`
}

// DeliveryMode says where a run's result goes.
type DeliveryMode string

const (
	DeliveryNone     DeliveryMode = "none"
	DeliveryWebhook  DeliveryMode = "webhook"
	DeliveryAnnounce DeliveryMode = "announce"
)

// Delivery routes the result of an agent turn.
type Delivery struct {
	Mode DeliveryMode `json:"mode"`
	// Webhook target URL.
	URL string `json:"url,omitempty"`
	// Announce channel ("slack", "telegram", ...) and recipient.
	Channel string `json:"channel,omitempty"`
	To      string `json:"to,omitempty"`
}

// SessionTarget controls which agent session a job runs in.
type SessionTarget string

const (
	SessionIsolated SessionTarget = "isolated"
	SessionMain     SessionTarget = "main"
)

// WakeMode controls when a due job actually executes.
type WakeMode string

const (
	WakeNow           WakeMode = "now"
	WakeNextHeartbeat WakeMode = "next-heartbeat"
)

// Status is the outcome of a run.
type Status string

const (
	StatusOK      Status = "ok"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// JobState is the scheduler-maintained bookkeeping for a job.
type JobState struct {
	LastStatus  Status `json:"lastStatus,omitempty"`
	LastRunAtMs *int64 `json:"lastRunAtMs,omitempty"`
	NextRunAtMs *int64 `json:"nextRunAtMs,omitempty"`
}

// CronJob is one scheduled job as stored by the gateway. This package
// only reads jobs; the store owns and mutates them.
type CronJob struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	Schedule       Schedule      `json:"schedule"`
	Enabled        bool          `json:"enabled"`
	AgentID        string        `json:"agentId,omitempty"`
	Payload        Payload       `json:"payload"`
	Delivery       *Delivery     `json:"delivery,omitempty"`
	SessionTarget  SessionTarget `json:"sessionTarget"`
	WakeMode       WakeMode      `json:"wakeMode"`
	TimeoutSeconds *int          `json:"timeoutSeconds,omitempty"`
	State          JobState      `json:"state"`
	CreatedAtMs    int64         `json:"createdAtMs,omitempty"`
	UpdatedAtMs    int64         `json:"updatedAtMs,omitempty"`
	DeleteAfterRun bool          `json:"deleteAfterRun,omitempty"`
}

// EffectiveDelivery resolves the job's delivery, enforcing the announce
// invariant: announcing to a channel is only meaningful for agent turns
// running in an isolated session. Any other announce configuration is
// treated as no delivery.
func (j CronJob) EffectiveDelivery() Delivery {
	if j.Delivery == nil {
		return Delivery{Mode: DeliveryNone}
	}
	d := *j.Delivery
	if d.Mode == DeliveryAnnounce &&
		(j.SessionTarget != SessionIsolated || j.Payload.Kind != PayloadAgentTurn) {
		return Delivery{Mode: DeliveryNone}
	}
	if d.Mode == "" {
		d.Mode = DeliveryNone
	}
	return d
}
