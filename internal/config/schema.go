// Package config defines the harborseal configuration schema.
//
// The file lives at ~/.harborseal/config.json. JSON keys use camelCase
// to match the gateway's other on-disk files (jobs.json, runs.json).
package config

// SchedulerConfig controls the cron scheduler.
type SchedulerConfig struct {
	// Enabled gates arming of all timers; jobs stay listable when off.
	Enabled bool `json:"enabled"`
	// Timezone is the default IANA zone for cron expressions without
	// an explicit tz. Empty means the host's local zone.
	Timezone string `json:"timezone,omitempty"`
	// MaxRunLogEntries caps runs.json. Zero means the default (500).
	MaxRunLogEntries int `json:"maxRunLogEntries,omitempty"`
}

// GatewayConfig controls the HTTP/ws surface.
type GatewayConfig struct {
	Port int `json:"port"`
}

// HeartbeatConfig controls the heartbeat tick that fires
// wake-on-heartbeat jobs.
type HeartbeatConfig struct {
	IntervalMinutes int `json:"intervalMinutes,omitempty"`
}

// SlackConfig holds credentials for announcing to Slack.
type SlackConfig struct {
	BotToken string `json:"botToken,omitempty"`
}

// TelegramConfig holds credentials for announcing to Telegram.
type TelegramConfig struct {
	Token string `json:"token,omitempty"`
}

// ChannelsConfig groups announce-channel credentials.
type ChannelsConfig struct {
	Slack    SlackConfig    `json:"slack"`
	Telegram TelegramConfig `json:"telegram"`
}

// WebhookConfig controls webhook delivery.
type WebhookConfig struct {
	TimeoutSeconds int `json:"timeoutSeconds,omitempty"`
}

// Config is the root configuration.
type Config struct {
	Scheduler SchedulerConfig `json:"scheduler"`
	Gateway   GatewayConfig   `json:"gateway"`
	Heartbeat HeartbeatConfig `json:"heartbeat"`
	Channels  ChannelsConfig  `json:"channels"`
	Webhook   WebhookConfig   `json:"webhook"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Scheduler: SchedulerConfig{Enabled: true, MaxRunLogEntries: 500},
		Gateway:   GatewayConfig{Port: 18790},
		Heartbeat: HeartbeatConfig{IntervalMinutes: 30},
		Webhook:   WebhookConfig{TimeoutSeconds: 10},
	}
}
