package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harborseal/harborseal/internal/calendar"
	"github.com/harborseal/harborseal/internal/schedule"
	"github.com/harborseal/harborseal/internal/shared/stringutils"
)

var (
	calendarMonth string
	calendarDate  string
)

var cronCalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show the schedule calendar",
	RunE:  runCalendar,
}

func init() {
	cronCalendarCmd.Flags().StringVar(&calendarMonth, "month", "", "Month to show (YYYY-MM, default current)")
	cronCalendarCmd.Flags().StringVar(&calendarDate, "date", "", "Show job and run detail for one day (YYYY-MM-DD)")
}

func runCalendar(_ *cobra.Command, _ []string) error {
	mgr := newManager()
	idx := calendar.NewDayIndex(mgr.List(true), mgr.AllRuns())

	if calendarDate != "" {
		date, err := schedule.ParseDate(calendarDate)
		if err != nil {
			return fmt.Errorf("invalid --date value %q: %w", calendarDate, err)
		}
		printDayDetail(idx, date)
		return nil
	}

	now := time.Now()
	year, month := now.Year(), now.Month()
	if calendarMonth != "" {
		t, err := time.ParseInLocation("2006-01", calendarMonth, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --month value %q: %w", calendarMonth, err)
		}
		year, month = t.Year(), t.Month()
	}

	printMonth(idx, year, month)
	return nil
}

// printMonth renders the month grid. Days with due jobs get a "*" mark,
// days with a failed run a "!".
func printMonth(idx calendar.DayIndex, year int, month time.Month) {
	fmt.Printf("%s %s %d\n\n", logo, month, year)
	fmt.Println(" Sun  Mon  Tue  Wed  Thu  Fri  Sat")
	for _, week := range calendar.MonthGrid(year, month) {
		for _, cell := range week {
			if cell.Blank() {
				fmt.Print("     ")
				continue
			}
			mark := " "
			switch {
			case idx.HasError(cell.Date):
				mark = "!"
			case len(idx.JobsOn(cell.Date)) > 0:
				mark = "*"
			}
			fmt.Printf(" %2d%s ", cell.Day, mark)
		}
		fmt.Println()
	}
	fmt.Println("\n  * jobs due   ! failed run")
}

func printDayDetail(idx calendar.DayIndex, date schedule.CalendarDate) {
	fmt.Printf("%s %s\n\n", logo, date)

	jobs := idx.JobsOn(date)
	if len(jobs) == 0 {
		fmt.Println("No jobs due.")
	} else {
		fmt.Println("Jobs due:")
		for _, j := range jobs {
			desc := schedule.Describe(j.Schedule)
			if desc == "" {
				desc = string(j.Schedule.Kind)
			}
			fmt.Printf("  %-10s %-20s %s\n", j.ID, stringutils.Truncate(j.Name, 19), desc)
		}
	}

	runs := schedule.OrderRunsForDisplay(idx.RunsOn(date))
	if len(runs) == 0 {
		fmt.Println("\nNo runs recorded.")
		return
	}
	fmt.Println("\nRuns:")
	for _, r := range runs {
		text := r.Summary
		if r.Status == schedule.StatusError && r.Error != "" {
			text = r.Error
		}
		fmt.Printf("  %-7s %-10s %-8s %s\n",
			time.UnixMilli(r.TS).Format("15:04"), r.JobID, r.Status, stringutils.Truncate(text, 50))
	}
}
