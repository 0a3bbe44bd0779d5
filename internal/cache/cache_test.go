package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/turno/internal/slot"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func TestLoadWeek_NoSnapshot(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.LoadWeek(context.Background(), monday)
	if err != nil {
		t.Fatalf("LoadWeek failed: %v", err)
	}
	if snap != nil {
		t.Errorf("expected nil snapshot for empty store, got %+v", snap)
	}
}

func TestSaveAndLoadWeek(t *testing.T) {
	store := newTestStore(t)

	week := slot.NewWeekFromSlots(monday, []*slot.Slot{
		{Date: monday, Time: "09:00", Available: true},
		{Date: monday, Time: "09:30", Available: false},
		{
			Date: monday.AddDate(0, 0, 2), Time: "14:00",
			Available: false, HasBooking: true,
			Booking: &slot.BookingRef{CustomerName: "Ana Torres", ServiceName: "Haircut"},
		},
	})
	fetchedAt := time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)

	if err := store.SaveWeek(context.Background(), week, fetchedAt); err != nil {
		t.Fatalf("SaveWeek failed: %v", err)
	}

	// Load by any day of the week, not just the start.
	snap, err := store.LoadWeek(context.Background(), monday.AddDate(0, 0, 4))
	if err != nil {
		t.Fatalf("LoadWeek failed: %v", err)
	}
	if snap == nil {
		t.Fatal("expected a snapshot")
	}
	if !snap.FetchedAt.Equal(fetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", snap.FetchedAt, fetchedAt)
	}

	s := snap.Week.Get(monday, "09:30")
	if s == nil || s.Available || s.Provisional {
		t.Errorf("monday 09:30 = %+v, want confirmed blocked slot", s)
	}

	booked := snap.Week.Get(monday.AddDate(0, 0, 2), "14:00")
	if booked == nil || !booked.HasBooking || booked.Booking == nil {
		t.Fatalf("wednesday 14:00 = %+v, want booked slot", booked)
	}
	if booked.Booking.CustomerName != "Ana Torres" || booked.Booking.ServiceName != "Haircut" {
		t.Errorf("booking = %+v", booked.Booking)
	}

	// Cells never confirmed by the API come back as provisional fill.
	if s := snap.Week.Get(monday, "10:00"); s == nil || !s.Provisional {
		t.Errorf("monday 10:00 = %+v, want provisional", s)
	}
}

func TestSaveWeek_SkipsProvisional(t *testing.T) {
	store := newTestStore(t)

	week := slot.NewWeekFromSlots(monday, []*slot.Slot{
		{Date: monday, Time: "09:00", Available: false},
	})
	week.FillProvisional()

	if err := store.SaveWeek(context.Background(), week, time.Now()); err != nil {
		t.Fatalf("SaveWeek failed: %v", err)
	}

	snap, err := store.LoadWeek(context.Background(), monday)
	if err != nil {
		t.Fatalf("LoadWeek failed: %v", err)
	}

	confirmed := 0
	for _, s := range snap.Week.AllSlots() {
		if !s.Provisional {
			confirmed++
		}
	}
	if confirmed != 1 {
		t.Errorf("expected 1 confirmed slot round-tripped, got %d", confirmed)
	}
}

func TestSaveWeek_ReplacesSnapshot(t *testing.T) {
	store := newTestStore(t)

	first := slot.NewWeekFromSlots(monday, []*slot.Slot{
		{Date: monday, Time: "09:00", Available: true},
		{Date: monday, Time: "09:30", Available: true},
	})
	if err := store.SaveWeek(context.Background(), first, time.Now()); err != nil {
		t.Fatalf("SaveWeek failed: %v", err)
	}

	second := slot.NewWeekFromSlots(monday, []*slot.Slot{
		{Date: monday, Time: "09:00", Available: false},
	})
	later := time.Date(2025, 6, 3, 8, 0, 0, 0, time.UTC)
	if err := store.SaveWeek(context.Background(), second, later); err != nil {
		t.Fatalf("SaveWeek failed: %v", err)
	}

	snap, err := store.LoadWeek(context.Background(), monday)
	if err != nil {
		t.Fatalf("LoadWeek failed: %v", err)
	}
	if !snap.FetchedAt.Equal(later) {
		t.Errorf("FetchedAt = %v, want %v", snap.FetchedAt, later)
	}
	if s := snap.Week.Get(monday, "09:00"); s == nil || s.Available {
		t.Errorf("monday 09:00 = %+v, want blocked from second snapshot", s)
	}
	// The 09:30 row from the first snapshot is gone.
	if s := snap.Week.Get(monday, "09:30"); s == nil || !s.Provisional {
		t.Errorf("monday 09:30 = %+v, want provisional after replace", s)
	}
}

func TestLoadWeek_RejectsCorruptRow(t *testing.T) {
	store := newTestStore(t)

	week := slot.NewWeekFromSlots(monday, []*slot.Slot{
		{Date: monday, Time: "09:00", Available: true},
	})
	if err := store.SaveWeek(context.Background(), week, time.Now()); err != nil {
		t.Fatalf("SaveWeek failed: %v", err)
	}

	// Mangle the stored time label behind the store's back.
	if _, err := store.db.Exec(`UPDATE slots SET slot_time = '9am'`); err != nil {
		t.Fatalf("updating row: %v", err)
	}

	if _, err := store.LoadWeek(context.Background(), monday); err == nil {
		t.Fatal("expected error for a snapshot row that fails validation")
	}
}

func TestSaveWeek_TwoWeeksIndependent(t *testing.T) {
	store := newTestStore(t)
	nextMonday := monday.AddDate(0, 0, 7)

	weekA := slot.NewWeekFromSlots(monday, []*slot.Slot{
		{Date: monday, Time: "09:00", Available: true},
	})
	weekB := slot.NewWeekFromSlots(nextMonday, []*slot.Slot{
		{Date: nextMonday, Time: "09:00", Available: false},
	})

	if err := store.SaveWeek(context.Background(), weekA, time.Now()); err != nil {
		t.Fatalf("SaveWeek failed: %v", err)
	}
	if err := store.SaveWeek(context.Background(), weekB, time.Now()); err != nil {
		t.Fatalf("SaveWeek failed: %v", err)
	}

	snapA, err := store.LoadWeek(context.Background(), monday)
	if err != nil {
		t.Fatalf("LoadWeek failed: %v", err)
	}
	snapB, err := store.LoadWeek(context.Background(), nextMonday)
	if err != nil {
		t.Fatalf("LoadWeek failed: %v", err)
	}

	if s := snapA.Week.Get(monday, "09:00"); s == nil || !s.Available {
		t.Errorf("week A slot = %+v, want available", s)
	}
	if s := snapB.Week.Get(nextMonday, "09:00"); s == nil || s.Available {
		t.Errorf("week B slot = %+v, want blocked", s)
	}
}
