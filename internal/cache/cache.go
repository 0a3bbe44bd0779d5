// Package cache provides SQLite storage for offline week snapshots.
//
// Every successful week load is written here; the week command can then
// render the last known state when the booking API is unreachable.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/turno/internal/dateutil"
	"github.com/javiermolinar/turno/internal/slot"
)

// SQLite stores week snapshots in a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// New creates a new snapshot store and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Snapshot is a cached week with the time it was fetched from the API.
type Snapshot struct {
	Week      *slot.Week
	FetchedAt time.Time
}

// SaveWeek replaces the stored snapshot for the week's start date. Only
// server-confirmed slots are written; provisional fill is recomputed on read.
func (s *SQLite) SaveWeek(ctx context.Context, week *slot.Week, fetchedAt time.Time) error {
	weekStart := dateutil.FormatDate(week.StartDate)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsert := `
		INSERT INTO weeks (week_start, fetched_at) VALUES (?, ?)
		ON CONFLICT(week_start) DO UPDATE SET fetched_at = excluded.fetched_at
	`
	if _, err := tx.ExecContext(ctx, upsert, weekStart, fetchedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("recording snapshot time: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM slots WHERE week_start = ?`, weekStart); err != nil {
		return fmt.Errorf("clearing week slots: %w", err)
	}

	insert := `
		INSERT INTO slots (
			week_start, slot_date, slot_time, available, has_booking,
			booking_customer, booking_service
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for _, sl := range week.AllSlots() {
		if sl.Provisional {
			continue
		}
		var customer, service sql.NullString
		if sl.Booking != nil {
			customer = sql.NullString{String: sl.Booking.CustomerName, Valid: true}
			service = sql.NullString{String: sl.Booking.ServiceName, Valid: true}
		}
		_, err := tx.ExecContext(ctx, insert,
			weekStart,
			dateutil.FormatDate(sl.Date),
			sl.Time,
			sl.Available,
			sl.HasBooking,
			customer,
			service,
		)
		if err != nil {
			return fmt.Errorf("inserting slot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// LoadWeek returns the stored snapshot for the week containing ref, or nil
// if none was saved.
func (s *SQLite) LoadWeek(ctx context.Context, ref time.Time) (*Snapshot, error) {
	weekStart := dateutil.WeekStart(ref)
	key := dateutil.FormatDate(weekStart)

	var fetchedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT fetched_at FROM weeks WHERE week_start = ?`, key,
	).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}

	fetched, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing fetched_at: %w", err)
	}

	query := `
		SELECT slot_date, slot_time, available, has_booking,
		       booking_customer, booking_service
		FROM slots
		WHERE week_start = ?
		ORDER BY slot_date, slot_time
	`
	rows, err := s.db.QueryContext(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var slots []*slot.Slot
	for rows.Next() {
		var (
			date       string
			timeLabel  string
			available  bool
			hasBooking bool
			customer   sql.NullString
			service    sql.NullString
		)
		err := rows.Scan(&date, &timeLabel, &available, &hasBooking, &customer, &service)
		if err != nil {
			return nil, fmt.Errorf("scanning slot: %w", err)
		}

		// slot.New re-validates the row; a corrupted snapshot surfaces here
		// instead of rendering as a malformed grid.
		sl, err := slot.New(date, timeLabel, available)
		if err != nil {
			return nil, fmt.Errorf("decoding slot %s %s: %w", date, timeLabel, err)
		}
		if hasBooking {
			sl.HasBooking = true
			sl.Booking = &slot.BookingRef{
				CustomerName: customer.String,
				ServiceName:  service.String,
			}
		}

		slots = append(slots, sl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slots: %w", err)
	}

	week := slot.NewWeekFromSlots(weekStart, slots)
	week.FillProvisional()
	return &Snapshot{Week: week, FetchedAt: fetched}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
