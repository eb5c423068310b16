package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotwise/internal/slot"
)

func (a *App) rescheduleCmd() *cobra.Command {
	var (
		date  string
		start string
		end   string
	)

	cmd := &cobra.Command{
		Use:   "reschedule [event-id]",
		Short: "Move an event to a new time",
		Long: `Move a stored event. The id may be shortened to any unique prefix,
as printed by "week" and "avail list".

Example:
  slotwise reschedule 3f2a9c1e --date=tomorrow --start=15:30 --end=16:30`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensurePlanner(); err != nil {
				return err
			}

			ctx := context.Background()
			id, err := a.resolveID(ctx, args[0])
			if err != nil {
				return err
			}

			c, err := parseCandidate("", date, start, end, time.Now().In(a.planner.Location()))
			if err != nil {
				return err
			}

			moved, err := a.planner.Move(ctx, a.currentProfile(), id, c.Start, c.End)
			if err != nil {
				return fmt.Errorf("rescheduling: %w", err)
			}
			fmt.Printf("Moved to %s\n", slotLine(moved))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD, today, tomorrow, weekday; default: today)")
	cmd.Flags().StringVar(&start, "start", "", "New start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "New end time (HH:MM, required)")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

// resolveID expands a unique id prefix against the current profile.
func (a *App) resolveID(ctx context.Context, prefix string) (uuid.UUID, error) {
	if id, err := uuid.Parse(prefix); err == nil {
		return id, nil
	}
	snap, err := a.planner.Snapshot(ctx, a.currentProfile())
	if err != nil {
		return uuid.Nil, err
	}
	return matchID(snap.Slots(), prefix)
}

// matchID finds the single slot whose id starts with prefix.
func matchID(slots []slot.Slot, prefix string) (uuid.UUID, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return uuid.Nil, fmt.Errorf("empty id")
	}
	var found []uuid.UUID
	for _, sl := range slots {
		if strings.HasPrefix(sl.ID.String(), prefix) {
			found = append(found, sl.ID)
		}
	}
	switch len(found) {
	case 0:
		return uuid.Nil, fmt.Errorf("%w: %s", slot.ErrSlotNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return uuid.Nil, fmt.Errorf("id prefix %q matches %d slots", prefix, len(found))
	}
}
