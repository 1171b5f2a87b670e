// Package dependency wires core harborseal services using go.uber.org/dig.
package dependency

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"github.com/harborseal/harborseal/internal/config"
	"github.com/harborseal/harborseal/internal/cron"
	"github.com/harborseal/harborseal/internal/delivery"
	"github.com/harborseal/harborseal/internal/gateway"
	"github.com/harborseal/harborseal/internal/heartbeat"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	mgr        *cron.JobManager
	dispatcher *delivery.Dispatcher
	heartbeat  *heartbeat.Service
	server     *gateway.Server
}

func (c *Container) JobManager() *cron.JobManager     { return c.mgr }
func (c *Container) Dispatcher() *delivery.Dispatcher { return c.dispatcher }
func (c *Container) Heartbeat() *heartbeat.Service    { return c.heartbeat }
func (c *Container) GatewayServer() *gateway.Server   { return c.server }

// New builds and wires all core services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(newRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newMetrics); err != nil {
		return nil, err
	}
	if err := d.Provide(newJobManager); err != nil {
		return nil, err
	}
	if err := d.Provide(newDispatcher); err != nil {
		return nil, err
	}
	if err := d.Provide(newHeartbeat); err != nil {
		return nil, err
	}
	if err := d.Provide(newGatewayServer); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		mgr *cron.JobManager,
		dispatcher *delivery.Dispatcher,
		hb *heartbeat.Service,
		server *gateway.Server,
	) {
		result = &Container{
			mgr:        mgr,
			dispatcher: dispatcher,
			heartbeat:  hb,
			server:     server,
		}
	})
	return result, err
}

func newRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func newMetrics(reg *prometheus.Registry) *cron.Metrics {
	return cron.NewMetrics(reg)
}

func newJobManager(cfg *config.Config, mt *cron.Metrics) *cron.JobManager {
	mgr := cron.NewJobManager(config.JobsPath(), config.RunsPath())
	mgr.SetEnabled(cfg.Scheduler.Enabled)
	mgr.SetRunLogCap(cfg.Scheduler.MaxRunLogEntries)
	mgr.SetMetrics(mt)
	if tz := cfg.Scheduler.Timezone; tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			slog.Warn("cron: bad timezone in config, using local", "tz", tz, "err", err)
		} else {
			mgr.SetLocation(loc)
		}
	}
	return mgr
}

func newDispatcher(cfg *config.Config) *delivery.Dispatcher {
	d := delivery.New(time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second)
	if tok := cfg.Channels.Slack.BotToken; tok != "" {
		d.Register(delivery.NewSlackAnnouncer(tok))
	}
	if tok := cfg.Channels.Telegram.Token; tok != "" {
		a, err := delivery.NewTelegramAnnouncer(tok)
		if err != nil {
			slog.Warn("delivery: telegram init failed", "err", err)
		} else {
			d.Register(a)
		}
	}
	return d
}

func newHeartbeat(cfg *config.Config, mgr *cron.JobManager) *heartbeat.Service {
	interval := time.Duration(cfg.Heartbeat.IntervalMinutes) * time.Minute
	return heartbeat.NewService(interval, mgr.FirePending)
}

func newGatewayServer(cfg *config.Config, mgr *cron.JobManager, reg *prometheus.Registry) *gateway.Server {
	return gateway.New(cfg.Gateway.Port, mgr, reg)
}
