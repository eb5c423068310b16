package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotwise/internal/dateutil"
)

func (a *App) holidayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "holiday [date]",
		Short: "Toggle a whole-day holiday block",
		Long: `Block or unblock a whole date. A blocked date shadows recurring
availability and conflicts with anything scheduled on it.

Example:
  slotwise holiday 2025-12-25`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensurePlanner(); err != nil {
				return err
			}
			date, err := dateutil.ParseRelativeDate(args[0], time.Now())
			if err != nil {
				return fmt.Errorf("date %q: %w", args[0], err)
			}

			blocked, err := a.planner.ToggleHoliday(context.Background(), a.currentProfile(), date)
			if err != nil {
				return fmt.Errorf("toggling holiday: %w", err)
			}
			if blocked {
				fmt.Printf("%s is now %s\n", dateutil.Key(date), formatConflict("blocked"))
			} else {
				fmt.Printf("%s is now %s\n", dateutil.Key(date), formatSuccess("open"))
			}
			return nil
		},
	}
}
