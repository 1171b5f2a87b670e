package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/harborseal/harborseal/internal/config"
	"github.com/harborseal/harborseal/internal/cron"
	"github.com/harborseal/harborseal/internal/delivery"
	"github.com/harborseal/harborseal/internal/dependency"
	"github.com/harborseal/harborseal/internal/schedule"
	"github.com/harborseal/harborseal/internal/shared/cmdutils"
)

var gatewayPort int

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the harborseal gateway server",
	RunE:  runGateway,
}

func init() {
	gatewayCmd.Flags().IntVarP(&gatewayPort, "port", "p", 0, "Gateway port (overrides config)")
}

func runGateway(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if gatewayPort > 0 {
		cfg.Gateway.Port = gatewayPort
	}

	c, err := dependency.New(cfg)
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}

	mgr := c.JobManager()
	srv := c.GatewayServer()
	mgr.SetOnJob(jobCallback(c.Dispatcher(), srv.BroadcastEvent))

	fmt.Printf("%s Starting harborseal gateway on port %d...\n", logo, cfg.Gateway.Port)

	// Graceful shutdown context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return mgr.Start(gctx) })
	g.Go(func() error { return c.Heartbeat().Start(gctx) })
	g.Go(func() error { return srv.Start(gctx) })

	fmt.Printf("%s Gateway running. Press Ctrl+C to stop.\n", logo)

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "gateway error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}

// newDispatcher builds a delivery dispatcher with whatever announce
// channels the config has credentials for.
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

// jobCallback is the scheduler's execute hook. It emits the job's
// payload (over the websocket feed when broadcast is non-nil, to the
// terminal otherwise) and dispatches the run result per the job's
// delivery settings.
func jobCallback(dispatcher *delivery.Dispatcher, broadcast func(string, any)) cron.OnJobFunc {
	return func(ctx context.Context, job schedule.CronJob) (string, error) {
		var summary string
		switch job.Payload.Kind {
		case schedule.PayloadSystemEvent:
			summary = job.Payload.Text
			slog.Info("gateway: system event", "job", job.ID, "text", job.Payload.Text)
			if broadcast != nil {
				broadcast("systemEvent", map[string]any{"jobId": job.ID, "text": job.Payload.Text})
			}
		default:
			summary = job.Payload.Message
			if broadcast != nil {
				broadcast("agentTurn", map[string]any{
					"jobId":         job.ID,
					"sessionTarget": job.SessionTarget,
					"message":       job.Payload.Message,
				})
			} else {
				cmdutils.PrintResponse(job.Payload.Message)
			}
		}

		res := delivery.Result{
			JobID:   job.ID,
			JobName: job.Name,
			Status:  schedule.StatusOK,
			Summary: summary,
			TS:      time.Now().UnixMilli(),
		}
		if err := dispatcher.Dispatch(ctx, job, res); err != nil {
			return summary, fmt.Errorf("deliver result: %w", err)
		}
		return summary, nil
	}
}
