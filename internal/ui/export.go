package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func (a *App) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export the schedule as JSON",
		Long: `Write the current profile's schedule as a JSON snapshot with
recurringSlots, dateOverrides, exceptions and personalTimes.
Writes to stdout when no file is given.

Example:
  slotwise export backup.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensurePlanner(); err != nil {
				return err
			}
			snap, err := a.planner.Snapshot(context.Background(), a.currentProfile())
			if err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			if len(args) == 1 {
				path, err := resolvePath(args[0])
				if err != nil {
					return err
				}
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating %s: %w", path, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			if err := snap.Encode(w); err != nil {
				return fmt.Errorf("encoding snapshot: %w", err)
			}
			if len(args) == 1 {
				fmt.Fprintf(os.Stderr, "Exported %d slot(s)\n", snap.Len())
			}
			return nil
		},
	}
}
