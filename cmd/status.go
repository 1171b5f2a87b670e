package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harborseal/harborseal/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show harborseal status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	fmt.Printf("%s harborseal Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:    %s %s\n", cfgPath, cfgMark)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}
	fmt.Printf("Gateway:   port %d\n", cfg.Gateway.Port)
	fmt.Printf("Heartbeat: every %d minutes\n\n", cfg.Heartbeat.IntervalMinutes)

	mgr := newManager()
	mgr.SetEnabled(cfg.Scheduler.Enabled)
	st := mgr.Status()

	fmt.Println("Scheduler:")
	state := "enabled"
	if !st.Enabled {
		state = "disabled"
	}
	fmt.Printf("  State:     %s\n", state)
	fmt.Printf("  Jobs:      %d\n", st.Jobs)
	if st.NextWakeAtMs != nil {
		fmt.Printf("  Next wake: %s\n", time.UnixMilli(*st.NextWakeAtMs).Format("2006-01-02 15:04"))
	} else {
		fmt.Println("  Next wake: (none scheduled)")
	}

	fmt.Println("\nChannels:")
	slackMark := "(not set)"
	if cfg.Channels.Slack.BotToken != "" {
		slackMark = "✓"
	}
	telegramMark := "(not set)"
	if cfg.Channels.Telegram.Token != "" {
		telegramMark = "✓"
	}
	fmt.Printf("  %-10s %s\n", "slack", slackMark)
	fmt.Printf("  %-10s %s\n", "telegram", telegramMark)
	return nil
}
