package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *App) checkCmd() *cobra.Command {
	var (
		date      string
		start     string
		end       string
		copyFirst bool
	)

	cmd := &cobra.Command{
		Use:   "check [title]",
		Short: "Check a candidate event for conflicts",
		Long: `Check whether an event fits your calendar without storing it.

On conflict, lists nearby alternatives and new times for the event in the way.

Example:
  slotwise check "Team lunch" --date=monday --start=14:00 --end=15:00 --copy`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensurePlanner(); err != nil {
				return err
			}

			c, err := parseCandidate(args[0], date, start, end, time.Now().In(a.planner.Location()))
			if err != nil {
				return err
			}

			prop, err := a.planner.Propose(context.Background(), a.currentProfile(), c)
			if err != nil {
				return fmt.Errorf("checking %q: %w", c.Title, err)
			}
			printProposal(os.Stdout, prop)

			if copyFirst && len(prop.Alternatives) > 0 {
				if err := clipboard.WriteAll(prop.Alternatives[0].Label); err != nil {
					a.log.Warn("copy to clipboard failed", zap.Error(err))
				} else {
					fmt.Println(formatMuted("\n  Copied first alternative to clipboard."))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow, weekday; default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")
	cmd.Flags().BoolVar(&copyFirst, "copy", false, "Copy the first alternative to the clipboard")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
