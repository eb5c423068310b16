package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/slotwise/internal/db"
	"github.com/javiermolinar/slotwise/internal/intent"
	"github.com/javiermolinar/slotwise/internal/planner"
	"github.com/javiermolinar/slotwise/internal/snapshot"
)

// Import formats.
const (
	formatSnapshot  = "snapshot"
	formatEvents    = "events"
	formatRecurring = "recurring"
	formatDatabase  = "db"
)

func (a *App) importCmd() *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "import [path]",
		Short: "Import a snapshot, event records, weekly records or another database",
		Long: `Import schedule data into the current profile.

Formats (--as):
  snapshot   JSON written by "export"; replaces the profile's schedule
  events     JSON array of {intent, title, startDateTime, endDateTime, location}
  recurring  JSON array of {title, startTime, endTime, weekdays, priority, kind}
  db         the same profile from another slotwise database

The format defaults to db for *.db files and snapshot otherwise.

Example:
  slotwise import backup.json
  slotwise import events.json --as=events`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensurePlanner(); err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source path is a directory: %s", sourcePath)
			}

			if as == "" {
				as = formatSnapshot
				if filepath.Ext(sourcePath) == ".db" {
					as = formatDatabase
				}
			}

			ctx := context.Background()
			profile := a.currentProfile()

			if as == formatDatabase {
				destPath, err := resolvePath(a.config.Storage.DBPath)
				if err != nil {
					return err
				}
				if sourcePath == destPath {
					return fmt.Errorf("source database matches current database")
				}
				n, err := importDatabase(ctx, a.planner, profile, sourcePath)
				if err != nil {
					return err
				}
				fmt.Printf("Imported %d slot(s) from %s\n", n, sourcePath)
				return nil
			}

			f, err := os.Open(sourcePath)
			if err != nil {
				return fmt.Errorf("opening %s: %w", sourcePath, err)
			}
			defer func() { _ = f.Close() }()

			switch as {
			case formatSnapshot:
				n, err := importSnapshot(ctx, a.planner, profile, f)
				if err != nil {
					return err
				}
				fmt.Printf("Restored %d slot(s)\n", n)
			case formatEvents:
				sum, err := importEvents(ctx, a.planner, profile, f)
				if err != nil {
					return err
				}
				for _, msg := range sum.Problems {
					a.log.Warn("record not applied", zap.String("reason", msg))
				}
				fmt.Printf("Added %d, cancelled %d, moved %d, skipped %d duplicate(s), %d problem(s)\n",
					sum.Added, sum.Cancelled, sum.Moved, sum.Duplicates, len(sum.Problems))
			case formatRecurring:
				n, err := importRecurring(ctx, a.planner, profile, f)
				if err != nil {
					return err
				}
				fmt.Printf("Stored %d weekly slot(s)\n", n)
			default:
				return fmt.Errorf("unknown format %q", as)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "Format: snapshot, events, recurring or db")
	return cmd
}

// importSnapshot replaces the profile's schedule with a decoded snapshot.
func importSnapshot(ctx context.Context, p *planner.Planner, profile string, r io.Reader) (int, error) {
	snap, err := snapshot.Decode(r)
	if err != nil {
		return 0, err
	}
	if err := p.Restore(ctx, profile, snap); err != nil {
		return 0, fmt.Errorf("restoring snapshot: %w", err)
	}
	return snap.Len(), nil
}

// importDatabase copies the profile from another database into this one.
func importDatabase(ctx context.Context, p *planner.Planner, profile, sourcePath string) (int, error) {
	sourceRepo, err := db.New(sourcePath)
	if err != nil {
		return 0, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = sourceRepo.Close() }()

	snap, err := sourceRepo.Load(ctx, profile)
	if err != nil {
		return 0, fmt.Errorf("loading source profile: %w", err)
	}
	if err := p.Restore(ctx, profile, snap); err != nil {
		return 0, fmt.Errorf("restoring profile: %w", err)
	}
	return snap.Len(), nil
}

// eventSummary counts what importEvents did.
type eventSummary struct {
	Added      int
	Cancelled  int
	Moved      int
	Duplicates int
	Problems   []string
}

// importEvents applies event records one by one. Records that conflict or
// fail validation are reported and skipped.
func importEvents(ctx context.Context, p *planner.Planner, profile string, r io.Reader) (eventSummary, error) {
	var sum eventSummary
	records, err := intent.DecodeEvents(r)
	if err != nil {
		return sum, err
	}

	for i, rec := range records {
		c, err := rec.Candidate()
		if err != nil {
			sum.Problems = append(sum.Problems, fmt.Sprintf("record %d: %v", i, err))
			continue
		}

		switch rec.Intent {
		case intent.IntentDelete:
			_, err = p.Cancel(ctx, profile, c)
			if err == nil {
				sum.Cancelled++
			}
		case intent.IntentReschedule:
			_, err = p.MoveByTitle(ctx, profile, c.Title, c.Start, c.End)
			if err == nil {
				sum.Moved++
			}
		default:
			var got *planner.Accepted
			got, err = p.Accept(ctx, profile, c, rec.Location)
			switch {
			case err != nil:
			case got.Duplicate:
				sum.Duplicates++
			default:
				sum.Added++
			}
		}

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return sum, err
			}
			sum.Problems = append(sum.Problems, fmt.Sprintf("record %d (%s): %v", i, rec.Title, err))
		}
	}
	return sum, nil
}

// importRecurring stores weekly records.
func importRecurring(ctx context.Context, p *planner.Planner, profile string, r io.Reader) (int, error) {
	records, err := intent.DecodeRecurring(r)
	if err != nil {
		return 0, err
	}
	stored := 0
	for i, rec := range records {
		added, err := p.AddRecurring(ctx, profile, rec)
		if err != nil {
			return stored, fmt.Errorf("record %d (%s): %w", i, rec.Title, err)
		}
		stored += len(added)
	}
	return stored, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
