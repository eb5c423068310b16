package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS slots (
			id            TEXT NOT NULL,
			profile       TEXT NOT NULL,
			weekday       INTEGER CHECK(weekday BETWEEN 0 AND 6),
			specific_date TEXT,
			start_min     INTEGER NOT NULL CHECK(start_min >= 0 AND start_min < 1440),
			end_min       INTEGER NOT NULL CHECK(end_min > start_min AND end_min <= 1440),
			priority      INTEGER NOT NULL CHECK(priority BETWEEN 1 AND 3),
			kind          TEXT NOT NULL CHECK(kind IN ('availability', 'personal', 'holiday', 'event')),
			title         TEXT NOT NULL DEFAULT '',
			location      TEXT NOT NULL DEFAULT '',
			updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (profile, id),
			CHECK ((weekday IS NULL) <> (specific_date IS NULL))
		);

		CREATE INDEX IF NOT EXISTS idx_slots_profile_date ON slots(profile, specific_date);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating slots table: %w", err)
	}

	return nil
}
