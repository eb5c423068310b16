// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/slotwise/internal/slot"
	"github.com/javiermolinar/slotwise/internal/snapshot"
)

// SQLite implements snapshot.Repository using SQLite.
type SQLite struct {
	db *sql.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex // one writer per profile
}

var _ snapshot.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, locks: make(map[string]*sync.Mutex)}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Load returns the stored snapshot of profile.
func (s *SQLite) Load(ctx context.Context, profile string) (*snapshot.Snapshot, error) {
	slots, err := listSlots(ctx, s.db, profile)
	if err != nil {
		return nil, err
	}
	snap, err := snapshot.FromSlots(slots)
	if err != nil {
		return nil, fmt.Errorf("loading profile %q: %w", profile, err)
	}
	return snap, nil
}

// Update serializes read-compute-write for one profile. The profile lock
// covers writers in this process; the transaction covers the rest.
func (s *SQLite) Update(ctx context.Context, profile string, fn func(*snapshot.Snapshot) error) error {
	lock := s.profileLock(profile)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	slots, err := listSlots(ctx, tx, profile)
	if err != nil {
		return err
	}
	snap, err := snapshot.FromSlots(slots)
	if err != nil {
		return fmt.Errorf("loading profile %q: %w", profile, err)
	}

	if err := fn(snap); err != nil {
		return err
	}

	if err := replaceSlots(ctx, tx, profile, snap.Slots()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLite) profileLock(profile string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[profile]
	if !ok {
		l = &sync.Mutex{}
		s.locks[profile] = l
	}
	return l
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func listSlots(ctx context.Context, q querier, profile string) ([]slot.Slot, error) {
	query := `
		SELECT id, weekday, specific_date, start_min, end_min, priority, kind, title, location
		FROM slots
		WHERE profile = ?
		ORDER BY specific_date, weekday, start_min
	`

	rows, err := q.QueryContext(ctx, query, profile)
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var slots []slot.Slot
	for rows.Next() {
		var (
			sl      slot.Slot
			id      string
			weekday sql.NullInt64
			date    sql.NullString
			kind    string
		)
		err := rows.Scan(&id, &weekday, &date, &sl.Start, &sl.End, &sl.Priority, &kind, &sl.Title, &sl.Location)
		if err != nil {
			return nil, fmt.Errorf("scanning slot: %w", err)
		}

		if sl.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing slot id %q: %w", id, err)
		}
		sl.Kind = slot.Kind(kind)

		if date.Valid {
			d, err := parseDate(date.String)
			if err != nil {
				return nil, fmt.Errorf("parsing specific date: %w", err)
			}
			sl.Anchor = slot.OnDate(d)
		} else {
			sl.Anchor = slot.OnWeekday(time.Weekday(weekday.Int64))
		}

		slots = append(slots, sl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slots: %w", err)
	}

	return slots, nil
}

func replaceSlots(ctx context.Context, tx *sql.Tx, profile string, slots []slot.Slot) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM slots WHERE profile = ?`, profile); err != nil {
		return fmt.Errorf("clearing slots: %w", err)
	}
	if len(slots) == 0 {
		return nil
	}

	query := `
		INSERT INTO slots (
			id, profile, weekday, specific_date, start_min, end_min,
			priority, kind, title, location, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().Format(time.RFC3339)
	for _, sl := range slots {
		var (
			weekday sql.NullInt64
			date    sql.NullString
		)
		if sl.Anchor.IsDate() {
			date = sql.NullString{String: sl.Anchor.Date(), Valid: true}
		} else {
			weekday = sql.NullInt64{Int64: int64(sl.Anchor.Weekday()), Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			sl.ID.String(),
			profile,
			weekday,
			date,
			int(sl.Start),
			int(sl.End),
			int(sl.Priority),
			string(sl.Kind),
			sl.Title,
			sl.Location,
			now,
		)
		if err != nil {
			return fmt.Errorf("inserting slot %s: %w", sl, err)
		}
	}

	return nil
}

// parseDate parses a date string in the formats SQLite might return.
// Date-only values are parsed in the local timezone.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}

	// Columns typed DATE come back as "2006-01-02T00:00:00Z".
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' {
		if t, err := time.ParseInLocation("2006-01-02", s[:10], time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}
