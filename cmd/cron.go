package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/harborseal/harborseal/internal/config"
	"github.com/harborseal/harborseal/internal/cron"
	"github.com/harborseal/harborseal/internal/presets"
	"github.com/harborseal/harborseal/internal/schedule"
	"github.com/harborseal/harborseal/internal/shared/stringutils"
)

var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "Manage scheduled jobs",
}

func init() {
	cronCmd.AddCommand(cronListCmd)
	cronCmd.AddCommand(cronAddCmd)
	cronCmd.AddCommand(cronRemoveCmd)
	cronCmd.AddCommand(cronEnableCmd)
	cronCmd.AddCommand(cronRunCmd)
	cronCmd.AddCommand(cronRunsCmd)
	cronCmd.AddCommand(cronEditCmd)
	cronCmd.AddCommand(cronCalendarCmd)
}

func newManager() *cron.JobManager {
	return cron.NewJobManager(config.JobsPath(), config.RunsPath())
}

// applyScheduleFlags folds the shared schedule flags into a draft. ok is
// false when no schedule flag was given.
func applyScheduleFlags(d schedule.Draft, every int, unit, cronExpr, tz, at string) (schedule.Draft, bool, error) {
	if tz != "" && cronExpr == "" {
		return d, false, fmt.Errorf("--tz can only be used with --cron")
	}
	switch {
	case every > 0:
		mode := schedule.ModeInterval
		amount := strconv.Itoa(every)
		u := schedule.Unit(unit)
		return d.Apply(schedule.DraftPatch{Mode: &mode, EveryAmount: &amount, EveryUnit: &u}), true, nil
	case cronExpr != "":
		mode := schedule.ModeDaysAndTime
		return d.Apply(schedule.DraftPatch{Mode: &mode, CronExpr: &cronExpr, TZ: &tz}), true, nil
	case at != "":
		mode := schedule.ModeOneTime
		return d.Apply(schedule.DraftPatch{Mode: &mode, ScheduleAt: &at}), true, nil
	}
	return d, false, nil
}

// ---- list ------------------------------------------------------------------

var cronListAll bool

var cronListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled jobs",
	RunE: func(_ *cobra.Command, _ []string) error {
		jobs := newManager().List(cronListAll)
		if len(jobs) == 0 {
			fmt.Println("No scheduled jobs.")
			return nil
		}
		fmt.Printf("%-10s %-20s %-32s %-10s %-20s\n", "ID", "Name", "Schedule", "Status", "Next Run")
		for _, j := range jobs {
			desc := schedule.Describe(j.Schedule)
			if desc == "" {
				desc = string(j.Schedule.Kind)
			}
			status := "enabled"
			if !j.Enabled {
				status = "disabled"
			}
			if j.State.LastStatus == schedule.StatusError {
				status = "error"
			}
			nextRun := ""
			if j.State.NextRunAtMs != nil {
				nextRun = time.UnixMilli(*j.State.NextRunAtMs).Format("2006-01-02 15:04")
			}
			fmt.Printf("%-10s %-20s %-32s %-10s %-20s\n",
				j.ID, stringutils.Truncate(j.Name, 19), stringutils.Truncate(desc, 31), status, nextRun)
		}
		return nil
	},
}

func init() {
	cronListCmd.Flags().BoolVarP(&cronListAll, "all", "a", false, "Include disabled jobs")
}

// ---- add -------------------------------------------------------------------

var (
	cronAddName     string
	cronAddMsg      string
	cronAddSystem   string
	cronAddEvery    int
	cronAddUnit     string
	cronAddCron     string
	cronAddTZ       string
	cronAddAt       string
	cronAddPreset   string
	cronAddWebhook  string
	cronAddAnnounce bool
	cronAddChannel  string
	cronAddTo       string
	cronAddSession  string
	cronAddWake     string
	cronAddTimeout  int
	cronAddDelete   bool
)

var cronAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a scheduled job",
	RunE: func(_ *cobra.Command, _ []string) error {
		d := schedule.NewDraft()
		if cronAddPreset != "" {
			p, err := presets.Find(config.PresetsPath(), cronAddPreset)
			if err != nil {
				return err
			}
			d = p.Apply(d)
			if cronAddMsg == "" {
				cronAddMsg = p.Message
			}
		}

		d, flagged, err := applyScheduleFlags(d, cronAddEvery, cronAddUnit, cronAddCron, cronAddTZ, cronAddAt)
		if err != nil {
			return err
		}
		if !flagged && cronAddPreset == "" {
			return fmt.Errorf("must specify --every, --cron, --at, or --preset")
		}
		s, ok := d.Commit()
		if !ok {
			return fmt.Errorf("invalid schedule")
		}

		var payload schedule.Payload
		switch {
		case cronAddSystem != "":
			payload = schedule.Payload{Kind: schedule.PayloadSystemEvent, Text: cronAddSystem}
		case cronAddMsg != "":
			payload = schedule.Payload{Kind: schedule.PayloadAgentTurn, Message: cronAddMsg}
		default:
			return fmt.Errorf("must specify --message or --system")
		}

		var del *schedule.Delivery
		switch {
		case cronAddWebhook != "":
			del = &schedule.Delivery{Mode: schedule.DeliveryWebhook, URL: cronAddWebhook}
		case cronAddAnnounce:
			if cronAddChannel == "" {
				return fmt.Errorf("--announce requires --channel")
			}
			del = &schedule.Delivery{Mode: schedule.DeliveryAnnounce, Channel: cronAddChannel, To: cronAddTo}
		}

		job := schedule.CronJob{
			Name:           cronAddName,
			Schedule:       s,
			Enabled:        true,
			Payload:        payload,
			Delivery:       del,
			SessionTarget:  schedule.SessionTarget(cronAddSession),
			WakeMode:       schedule.WakeMode(cronAddWake),
			DeleteAfterRun: cronAddDelete,
		}
		if cronAddTimeout > 0 {
			job.TimeoutSeconds = &cronAddTimeout
		}

		added, err := newManager().Add(job)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Added job '%s' (%s)\n", added.Name, added.ID)
		if desc := schedule.Describe(added.Schedule); desc != "" {
			fmt.Println("  " + desc)
		}
		return nil
	},
}

func init() {
	cronAddCmd.Flags().StringVarP(&cronAddName, "name", "n", "", "Job name (required)")
	cronAddCmd.Flags().StringVarP(&cronAddMsg, "message", "m", "", "Prompt for the agent turn")
	cronAddCmd.Flags().StringVar(&cronAddSystem, "system", "", "System event text instead of an agent turn")
	cronAddCmd.Flags().IntVarP(&cronAddEvery, "every", "e", 0, "Run every N units")
	cronAddCmd.Flags().StringVar(&cronAddUnit, "unit", "minutes", "Interval unit: minutes, hours, or days")
	cronAddCmd.Flags().StringVarP(&cronAddCron, "cron", "c", "", "Cron expression (e.g. '0 9 * * *')")
	cronAddCmd.Flags().StringVar(&cronAddTZ, "tz", "", "IANA timezone for --cron")
	cronAddCmd.Flags().StringVar(&cronAddAt, "at", "", "Run once at ISO datetime")
	cronAddCmd.Flags().StringVar(&cronAddPreset, "preset", "", "Start from a named schedule preset")
	cronAddCmd.Flags().StringVar(&cronAddWebhook, "webhook", "", "POST the run result to this URL")
	cronAddCmd.Flags().BoolVar(&cronAddAnnounce, "announce", false, "Announce the result to a channel")
	cronAddCmd.Flags().StringVar(&cronAddChannel, "channel", "", "Announce channel (slack, telegram)")
	cronAddCmd.Flags().StringVar(&cronAddTo, "to", "", "Announce recipient ID")
	cronAddCmd.Flags().StringVar(&cronAddSession, "session", string(schedule.SessionIsolated), "Session target: isolated or main")
	cronAddCmd.Flags().StringVar(&cronAddWake, "wake", string(schedule.WakeNow), "Wake mode: now or next-heartbeat")
	cronAddCmd.Flags().IntVar(&cronAddTimeout, "timeout", 0, "Per-run timeout in seconds")
	cronAddCmd.Flags().BoolVar(&cronAddDelete, "delete-after-run", false, "Delete one-time jobs after they fire")

	_ = cronAddCmd.MarkFlagRequired("name")
}

// ---- remove / enable -------------------------------------------------------

var cronRemoveCmd = &cobra.Command{
	Use:   "remove <job-id>",
	Short: "Remove a scheduled job",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if newManager().Remove(args[0]) {
			fmt.Printf("✓ Removed job %s\n", args[0])
		} else {
			fmt.Printf("Job %s not found\n", args[0])
		}
		return nil
	},
}

var cronEnableDisable bool

var cronEnableCmd = &cobra.Command{
	Use:   "enable <job-id>",
	Short: "Enable (or disable) a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		job, ok := newManager().Enable(args[0], !cronEnableDisable)
		if !ok {
			fmt.Printf("Job %s not found\n", args[0])
			return nil
		}
		action := "enabled"
		if cronEnableDisable {
			action = "disabled"
		}
		fmt.Printf("✓ Job '%s' %s\n", job.Name, action)
		return nil
	},
}

func init() {
	cronEnableCmd.Flags().BoolVar(&cronEnableDisable, "disable", false, "Disable instead of enable")
}

// ---- run -------------------------------------------------------------------

var cronRunForce bool

var cronRunCmd = &cobra.Command{
	Use:   "run <job-id>",
	Short: "Manually run a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		cfg, err := config.Load(config.ConfigPath())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		mgr := newManager()
		mgr.SetOnJob(jobCallback(newDispatcher(cfg), nil))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if mgr.RunJob(ctx, args[0], cronRunForce) {
			fmt.Println("✓ Job executed")
		} else {
			fmt.Printf("Failed to run job %s (not found or disabled; use --force)\n", args[0])
		}
		return nil
	},
}

func init() {
	cronRunCmd.Flags().BoolVarP(&cronRunForce, "force", "f", false, "Run even if disabled")
}

// ---- runs ------------------------------------------------------------------

var cronRunsLimit int

var cronRunsCmd = &cobra.Command{
	Use:   "runs [job-id]",
	Short: "Show run history",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		mgr := newManager()
		var entries []schedule.RunLogEntry
		if len(args) == 1 {
			entries = mgr.Runs(args[0], cronRunsLimit)
		} else {
			entries = schedule.OrderRunsForDisplay(mgr.AllRuns())
			if cronRunsLimit > 0 && len(entries) > cronRunsLimit {
				entries = entries[:cronRunsLimit]
			}
		}
		if len(entries) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}
		fmt.Printf("%-17s %-10s %-8s %-8s %s\n", "Time", "Job", "Status", "Took", "Summary")
		for _, r := range entries {
			took := ""
			if r.DurationMs != nil {
				took = (time.Duration(*r.DurationMs) * time.Millisecond).String()
			}
			text := r.Summary
			if r.Status == schedule.StatusError && r.Error != "" {
				text = r.Error
			}
			fmt.Printf("%-17s %-10s %-8s %-8s %s\n",
				time.UnixMilli(r.TS).Format("2006-01-02 15:04"), r.JobID, r.Status, took,
				stringutils.Truncate(text, 50))
		}
		return nil
	},
}

func init() {
	cronRunsCmd.Flags().IntVar(&cronRunsLimit, "limit", 20, "Maximum entries to show")
}

// ---- edit ------------------------------------------------------------------

var (
	cronEditEvery int
	cronEditUnit  string
	cronEditCron  string
	cronEditTZ    string
	cronEditAt    string
)

var cronEditCmd = &cobra.Command{
	Use:   "edit <job-id>",
	Short: "Change a job's schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		d, flagged, err := applyScheduleFlags(schedule.NewDraft(), cronEditEvery, cronEditUnit, cronEditCron, cronEditTZ, cronEditAt)
		if err != nil {
			return err
		}
		if !flagged {
			return fmt.Errorf("must specify --every, --cron, or --at")
		}
		s, ok := d.Commit()
		if !ok {
			return fmt.Errorf("invalid schedule")
		}

		job, err := newManager().UpdateSchedule(args[0], s)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Job '%s' rescheduled\n", job.Name)
		if desc := schedule.Describe(job.Schedule); desc != "" {
			fmt.Println("  " + desc)
		}
		return nil
	},
}

func init() {
	cronEditCmd.Flags().IntVarP(&cronEditEvery, "every", "e", 0, "Run every N units")
	cronEditCmd.Flags().StringVar(&cronEditUnit, "unit", "minutes", "Interval unit: minutes, hours, or days")
	cronEditCmd.Flags().StringVarP(&cronEditCron, "cron", "c", "", "Cron expression")
	cronEditCmd.Flags().StringVar(&cronEditTZ, "tz", "", "IANA timezone for --cron")
	cronEditCmd.Flags().StringVar(&cronEditAt, "at", "", "Run once at ISO datetime")
}
