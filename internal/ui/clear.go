package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotwise/internal/dateutil"
)

func (a *App) clearCmd() *cobra.Command {
	var (
		from string
		to   string
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete date-specific slots in a range",
		Long: `Delete every date-specific slot, event and holiday between two dates
(inclusive). Weekly slots are kept.

Example:
  slotwise clear --from=2025-01-06 --to=2025-01-12`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			r, err := dateutil.NewDateRange(from, to)
			if err != nil {
				return err
			}
			if err := a.ensurePlanner(); err != nil {
				return err
			}

			n, err := a.planner.DeleteRange(context.Background(), a.currentProfile(), r.Start, r.End)
			if err != nil {
				return fmt.Errorf("clearing: %w", err)
			}
			fmt.Printf("Removed %d slot(s) across %d day(s), %s to %s\n", n, len(r.Days()), dateutil.Key(r.Start), dateutil.Key(r.End))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&to, "to", "", "Last date (YYYY-MM-DD, default: same as --from)")
	return cmd
}
