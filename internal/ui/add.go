package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotwise/internal/planner"
)

func (a *App) addCmd() *cobra.Command {
	var (
		date     string
		start    string
		end      string
		location string
		pick     int
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add an event if it fits",
		Long: `Add a one-off event to your calendar.

The event is stored only when it does not conflict. Otherwise the
alternatives are listed; rerun with --pick=N to store alternative N.
Adding an event that is already on the calendar is a no-op.

Example:
  slotwise add "Dentist" --date=2025-01-10 --start=09:00 --end=10:00 --location="Main St"`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensurePlanner(); err != nil {
				return err
			}

			ctx := context.Background()
			c, err := parseCandidate(args[0], date, start, end, time.Now().In(a.planner.Location()))
			if err != nil {
				return err
			}

			prop, err := a.planner.Propose(ctx, a.currentProfile(), c)
			if err != nil {
				return fmt.Errorf("checking %q: %w", c.Title, err)
			}

			if !prop.Free() && !prop.Result.Duplicate {
				if pick < 1 || pick > len(prop.Alternatives) {
					printProposal(os.Stdout, prop)
					return fmt.Errorf("%w: pick an alternative with --pick", planner.ErrConflict)
				}
				c = prop.Alternatives[pick-1].Candidate(c)
			}

			got, err := a.planner.Accept(ctx, a.currentProfile(), c, location)
			if err != nil {
				if errors.Is(err, planner.ErrConflict) {
					return fmt.Errorf("calendar changed while adding: %w", err)
				}
				return fmt.Errorf("adding %q: %w", c.Title, err)
			}

			if got.Duplicate {
				fmt.Printf("Skipped %q: already on your calendar.\n", c.Title)
				return nil
			}
			for _, sl := range got.Slots {
				fmt.Printf("Added %s\n", slotLine(sl))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow, weekday; default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")
	cmd.Flags().StringVar(&location, "location", "", "Event location")
	cmd.Flags().IntVar(&pick, "pick", 0, "Store alternative N when the event conflicts")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
