package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotwise/internal/combo"
	"github.com/javiermolinar/slotwise/internal/intent"
)

func (a *App) combosCmd() *cobra.Command {
	var apply int

	cmd := &cobra.Command{
		Use:   "combos [records.json]",
		Short: "Build conflict-free timetables from a list of weekly records",
		Long: `Read a JSON array of weekly records, such as classes extracted from a
timetable, and print several combinations in which no two entries overlap.

Each record has title, startTime, endTime and weekdays (0 = Sunday).
With --apply=N combination N is stored as weekly personal time.

Example:
  slotwise combos classes.json --apply=1`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening records: %w", err)
			}
			defer func() { _ = f.Close() }()

			records, err := intent.DecodeRecurring(f)
			if err != nil {
				return err
			}
			if err := a.ensurePlanner(); err != nil {
				return err
			}

			combos, err := a.planner.Combinations(records)
			if err != nil {
				return err
			}
			for i, c := range combos {
				printCombination(i+1, c)
			}

			if apply == 0 {
				return nil
			}
			if apply < 0 || apply > len(combos) {
				return fmt.Errorf("--apply must be between 1 and %d", len(combos))
			}
			added, err := a.planner.ApplyCombination(context.Background(), a.currentProfile(), combos[apply-1])
			if err != nil {
				return fmt.Errorf("applying combination %d: %w", apply, err)
			}
			fmt.Printf("\nStored %d weekly slot(s) from combination %d\n", len(added), apply)
			return nil
		},
	}

	cmd.Flags().IntVar(&apply, "apply", 0, "Store combination N as weekly personal time")
	return cmd
}

func printCombination(n int, c combo.Combination) {
	fmt.Printf("  %s\n", formatHeader(fmt.Sprintf("Combination %d (%d items)", n, c.Len())))
	for _, it := range c.Items {
		days := make([]string, len(it.Weekdays))
		for i, wd := range it.Weekdays {
			days[i] = wd.String()[:3]
		}
		fmt.Printf("    %s-%s  %s  %s\n", it.Start, it.End, it.Title, formatMuted(strings.Join(days, ",")))
	}
	fmt.Println()
}
