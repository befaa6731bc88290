package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/digest"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/schedule"
)

var (
	flagSchedulePause  bool
	flagScheduleResume bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show or toggle the delivery schedule",
	Long: `Show the remote delivery schedule and its recent executions.

With --pause or --resume the schedule is toggled first; toggling a schedule
that is already in the requested state is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagSchedulePause && flagScheduleResume {
			return fmt.Errorf("--pause and --resume are mutually exclusive")
		}

		s, err := newServices()
		if err != nil {
			return err
		}
		defer s.close()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.TimeoutDuration())
		defer cancel()

		sched, logs, err := s.app.ScheduleState(ctx)
		if err != nil {
			return err
		}

		switch {
		case flagSchedulePause && !sched.IsActive:
			fmt.Println("Schedule is already paused.")
		case flagScheduleResume && sched.IsActive:
			fmt.Println("Schedule is already active.")
		case flagSchedulePause || flagScheduleResume:
			sched, logs, err = s.app.ToggleSchedule(ctx, sched)
			if err != nil {
				return err
			}
		}

		printSchedule(sched, logs)
		return nil
	},
}

func init() {
	scheduleCmd.Flags().BoolVar(&flagSchedulePause, "pause", false, "pause the schedule")
	scheduleCmd.Flags().BoolVar(&flagScheduleResume, "resume", false, "resume the schedule")
}

func printSchedule(sched digest.Schedule, logs []digest.ExecutionLog) {
	state := "PAUSED"
	if sched.IsActive {
		state = "ACTIVE"
	}
	fmt.Printf("Schedule: %s\n", state)
	fmt.Printf("Cadence:  %s\n", schedule.CronToHuman(sched.CronExpression))
	fmt.Printf("Next run: %s\n", schedule.FormatNextRun(sched.NextRunTime, time.Now()))

	if len(logs) == 0 {
		fmt.Println("No executions yet.")
		return
	}
	fmt.Println("Recent executions:")
	for _, l := range logs {
		glyph := "✓"
		if !l.Success {
			glyph = "✗"
		}
		when := l.ExecutedAt
		if t, err := schedule.ParseISO(l.ExecutedAt); err == nil {
			when = t.Format("Jan 2 15:04")
		}
		fmt.Printf("  %s %s\n", glyph, when)
	}
}
