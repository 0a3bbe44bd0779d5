package cache

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS weeks (
			week_start TEXT PRIMARY KEY,
			fetched_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS slots (
			week_start       TEXT NOT NULL REFERENCES weeks(week_start),
			slot_date        TEXT NOT NULL,
			slot_time        TEXT NOT NULL,
			available        BOOLEAN NOT NULL,
			has_booking      BOOLEAN NOT NULL DEFAULT 0,
			booking_customer TEXT,
			booking_service  TEXT,
			PRIMARY KEY (slot_date, slot_time)
		);

		CREATE INDEX IF NOT EXISTS idx_slots_week ON slots(week_start);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating snapshot tables: %w", err)
	}

	return nil
}
