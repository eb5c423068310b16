package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotwise/internal/dateutil"
	"github.com/javiermolinar/slotwise/internal/slot"
)

func (a *App) availCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avail",
		Short: "Manage weekly and date-specific availability",
	}
	cmd.AddCommand(a.availAddCmd())
	cmd.AddCommand(a.availCycleCmd())
	cmd.AddCommand(a.availListCmd())
	return cmd
}

func (a *App) availAddCmd() *cobra.Command {
	var priority string

	cmd := &cobra.Command{
		Use:   "add [day] [start] [end]",
		Short: "Add an availability range",
		Long: `Add availability on a weekday (recurring) or a date (override).

Ranges whose end is at or before the start run overnight and are split
at midnight. Parts already covered are left as they are.

Example:
  slotwise avail add mon 09:00 12:00 --priority=preferred
  slotwise avail add 2025-01-10 22:00 02:00`,
		Args: cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			anchor, err := parseAnchor(args[0])
			if err != nil {
				return err
			}
			start, err := slot.ParseTimeOfDay(args[1])
			if err != nil {
				return fmt.Errorf("start: %w", err)
			}
			end, err := slot.ParseEndTime(args[2])
			if err != nil {
				return fmt.Errorf("end: %w", err)
			}
			p, err := slot.ParsePriority(priority)
			if err != nil {
				return err
			}

			if err := a.ensurePlanner(); err != nil {
				return err
			}
			added, err := a.planner.AddAvailability(context.Background(), a.currentProfile(), anchor, start, end, p)
			if err != nil {
				return fmt.Errorf("adding availability: %w", err)
			}

			if len(added) == 0 {
				fmt.Println("Already covered, nothing added.")
				return nil
			}
			for _, sl := range added {
				fmt.Printf("Added %s %s\n", anchor, slotLine(sl))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&priority, "priority", "preferred", "Priority: preferred, normal or flexible")
	return cmd
}

func (a *App) availCycleCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "cycle [day] [time]",
		Short: "Cycle the priority of one 10-minute tick",
		Long: `Click through the priority of the tick containing time:
empty -> preferred -> normal -> flexible -> removed.

Example:
  slotwise avail cycle tue 09:10`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			anchor, err := parseAnchor(args[0])
			if err != nil {
				return err
			}
			t, err := slot.ParseTimeOfDay(args[1])
			if err != nil {
				return err
			}
			k, err := slot.ParseKind(kind)
			if err != nil {
				return err
			}

			if err := a.ensurePlanner(); err != nil {
				return err
			}
			res, err := a.planner.CycleAt(context.Background(), a.currentProfile(), anchor, k, t)
			if err != nil {
				return fmt.Errorf("cycling %s %s: %w", anchor, t, err)
			}

			tick := fmt.Sprintf("%s %s-%s", anchor, res.Start, res.End)
			if res.Deleted {
				fmt.Printf("%s %s\n", tick, formatMuted("removed"))
				return nil
			}
			fmt.Printf("%s %s\n", tick, formatPriority(res.Priority, res.Priority.Label()))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(slot.KindAvailability), "Slot kind: availability or personal")
	return cmd
}

func (a *App) availListCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list [day]",
		Short: "List stored slots",
		Long: `List stored slots, optionally only those on one weekday or date.

With --date every stored slot that applies to that date is listed, both
weekly and date-specific, before overrides and holidays are resolved.

Example:
  slotwise avail list
  slotwise avail list fri
  slotwise avail list --date=2025-01-10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if date != "" && len(args) == 1 {
				return fmt.Errorf("use either a day argument or --date")
			}
			if err := a.ensurePlanner(); err != nil {
				return err
			}
			snap, err := a.planner.Snapshot(context.Background(), a.currentProfile())
			if err != nil {
				return err
			}

			slots := snap.Slots()
			if len(args) == 1 {
				anchor, err := parseAnchor(args[0])
				if err != nil {
					return err
				}
				slots = snap.ForAnchor(anchor)
			}
			if date != "" {
				day, err := dateutil.ParseKey(date)
				if err != nil {
					return err
				}
				slots = snap.ForDate(day)
			}

			if len(slots) == 0 {
				fmt.Println("No slots stored.")
				return nil
			}
			printSlots(os.Stdout, slots)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "List every slot that applies on this date (YYYY-MM-DD)")
	return cmd
}
