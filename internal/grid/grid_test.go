package grid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/turno/internal/dateutil"
	"github.com/javiermolinar/turno/internal/slot"
)

// fakeStore is an in-memory slot.Store for tests.
type fakeStore struct {
	slots       map[string]*slot.Slot // keyed by "date|time"
	calls       []string
	fail        error // when set, every operation fails with this error
	lastPattern slot.PatternSubmission
}

func newFakeStore() *fakeStore {
	return &fakeStore{slots: make(map[string]*slot.Slot)}
}

func key(date time.Time, timeLabel string) string {
	return dateutil.FormatDate(date) + "|" + timeLabel
}

func (f *fakeStore) put(s *slot.Slot) {
	f.slots[key(s.Date, s.Time)] = s
}

func (f *fakeStore) ListRange(_ context.Context, start, end time.Time) ([]*slot.Slot, error) {
	f.calls = append(f.calls, "list")
	if f.fail != nil {
		return nil, f.fail
	}
	var result []*slot.Slot
	for _, s := range f.slots {
		if !s.Date.Before(start) && !s.Date.After(end) {
			copied := *s
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeStore) Create(_ context.Context, slots []*slot.Slot) (slot.Summary, error) {
	f.calls = append(f.calls, "create")
	if f.fail != nil {
		return slot.Summary{}, f.fail
	}
	var summary slot.Summary
	for _, s := range slots {
		k := key(s.Date, s.Time)
		if _, ok := f.slots[k]; ok {
			summary.Updated++
		} else {
			summary.Created++
		}
		copied := *s
		f.slots[k] = &copied
	}
	return summary, nil
}

func (f *fakeStore) SetAvailability(_ context.Context, date time.Time, timeLabel string, available bool) error {
	f.calls = append(f.calls, "set")
	if f.fail != nil {
		return f.fail
	}
	s, ok := f.slots[key(date, timeLabel)]
	if !ok {
		s = &slot.Slot{Date: date, Time: timeLabel}
		f.slots[key(date, timeLabel)] = s
	}
	s.Available = available
	return nil
}

func (f *fakeStore) SetAvailabilityBatch(_ context.Context, keys []slot.Key, available bool) (slot.Summary, error) {
	f.calls = append(f.calls, "batch")
	if f.fail != nil {
		return slot.Summary{}, f.fail
	}
	var summary slot.Summary
	for _, k := range keys {
		kk := key(k.Date, k.Time)
		if existing, ok := f.slots[kk]; ok {
			existing.Available = available
			summary.Updated++
		} else {
			f.slots[kk] = &slot.Slot{Date: k.Date, Time: k.Time, Available: available}
			summary.Created++
		}
	}
	return summary, nil
}

func (f *fakeStore) ApplyPattern(_ context.Context, sub slot.PatternSubmission) (string, error) {
	f.calls = append(f.calls, "pattern")
	f.lastPattern = sub
	if f.fail != nil {
		return "", f.fail
	}
	days := sub.Days
	if len(days) == 0 {
		switch sub.Pattern {
		case slot.PatternWeekdays:
			days = []int{0, 1, 2, 3, 4}
		case slot.PatternWeekends:
			days = []int{5, 6}
		default:
			days = []int{0, 1, 2, 3, 4, 5, 6}
		}
	}
	covered := make(map[int]bool)
	for _, d := range days {
		covered[d] = true
	}

	for d := sub.StartDate; !d.After(sub.EndDate); d = d.AddDate(0, 0, 1) {
		if !covered[dateutil.WeekdayIndex(d)] {
			continue
		}
		for _, t := range sub.WorkingTimes {
			f.slots[key(d, t)] = &slot.Slot{Date: d, Time: t, Available: true}
		}
		for _, t := range sub.NonWorkingTimes {
			f.slots[key(d, t)] = &slot.Slot{Date: d, Time: t, Available: false}
		}
	}
	return "pattern applied", nil
}

func (f *fakeStore) GetBooking(_ context.Context, _ time.Time, _ string) (*slot.BookingDetail, error) {
	f.calls = append(f.calls, "booking")
	if f.fail != nil {
		return nil, f.fail
	}
	return &slot.BookingDetail{CustomerName: "Ana Torres", Status: "confirmed"}, nil
}

func countCalls(f *fakeStore, name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func TestNew_NormalizesToMonday(t *testing.T) {
	g := New(newFakeStore(), monday.AddDate(0, 0, 3)) // Thursday
	if !g.WeekStartDate().Equal(monday) {
		t.Errorf("WeekStartDate = %v, want %v", g.WeekStartDate(), monday)
	}
}

// An empty store yields a fully initialized default week: 5 weekdays of 18
// slots plus 2 weekend days of 12 slots, 114 records in total.
func TestLoadWeek_EmptyStoreInitializes(t *testing.T) {
	store := newFakeStore()
	g := New(store, monday)

	result, err := g.LoadWeek(context.Background())
	if err != nil {
		t.Fatalf("LoadWeek error: %v", err)
	}

	if result.Initialized.Created != 114 {
		t.Errorf("initialized %d records, want 114", result.Initialized.Created)
	}
	if len(store.slots) != 114 {
		t.Errorf("store holds %d records, want 114", len(store.slots))
	}
	if got := len(g.Week().AllSlots()); got != 114 {
		t.Errorf("loaded week has %d slots, want 114", got)
	}
	for _, s := range g.Week().AllSlots() {
		if s.Provisional {
			t.Fatal("initialized slots should be server-confirmed after reload")
		}
	}
}

// Days present in the response are never re-initialized; only fully missing
// days get the default grid.
func TestLoadWeek_PartialWeekInitializesMissingDaysOnly(t *testing.T) {
	store := newFakeStore()
	// Monday is fully blocked on the server: a legitimate, loaded day.
	store.put(&slot.Slot{Date: monday, Time: "09:00", Available: false})

	g := New(store, monday)
	result, err := g.LoadWeek(context.Background())
	if err != nil {
		t.Fatalf("LoadWeek error: %v", err)
	}

	// 4 weekdays x 18 + 2 weekend days x 12 = 96 defaults; Monday untouched.
	if result.Initialized.Created != 96 {
		t.Errorf("initialized %d records, want 96", result.Initialized.Created)
	}
	mondaySlot := g.GetSlot(monday, "09:00")
	if mondaySlot == nil || mondaySlot.Available {
		t.Errorf("monday 09:00 = %+v, want blocked and untouched", mondaySlot)
	}
	// The rest of Monday's grid renders as provisional, not server state.
	if s := g.GetSlot(monday, "09:30"); s == nil || !s.Provisional {
		t.Errorf("monday 09:30 = %+v, want provisional fill", s)
	}
}

func TestLoadWeek_FullWeekNoInit(t *testing.T) {
	store := newFakeStore()
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		store.put(&slot.Slot{Date: d, Time: "10:00", Available: true})
	}

	g := New(store, monday)
	result, err := g.LoadWeek(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Initialized.Total() != 0 {
		t.Errorf("initialized = %+v, want none", result.Initialized)
	}
	if countCalls(store, "create") != 0 {
		t.Error("create called for a fully covered week")
	}
}

func TestLoadWeek_FailureKeepsState(t *testing.T) {
	store := newFakeStore()
	g := New(store, monday)
	if _, err := g.LoadWeek(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := g.Week()

	store.fail = errors.New("boom")
	if _, err := g.LoadWeek(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if g.Week() != before {
		t.Error("loaded week replaced on failure")
	}
	if !g.WeekStartDate().Equal(monday) {
		t.Error("week start moved on failure")
	}
}

func TestNavigate(t *testing.T) {
	g := New(newFakeStore(), monday)

	next := g.Navigate(1)
	if !next.Equal(monday.AddDate(0, 0, 7)) {
		t.Errorf("Navigate(1) = %v", next)
	}
	back := g.Navigate(-2)
	if !back.Equal(monday.AddDate(0, 0, -7)) {
		t.Errorf("Navigate(-2) = %v", back)
	}
}

func TestFocusToday(t *testing.T) {
	now := monday.AddDate(0, 0, 37) // a Wednesday five weeks out
	g := New(newFakeStore(), monday, WithNow(func() time.Time { return now }))

	g.Navigate(3)
	got := g.FocusToday()
	want := dateutil.WeekStart(now)
	if !got.Equal(want) {
		t.Errorf("FocusToday = %v, want %v", got, want)
	}
}

func TestInstall_DiscardsStale(t *testing.T) {
	g := New(newFakeStore(), monday)
	gen := g.Generation()

	staleWeek := slot.NewWeek(monday)
	g.Navigate(1)

	if g.Install(gen, staleWeek) {
		t.Error("stale install accepted")
	}
	if g.Week() != nil {
		t.Error("stale week installed")
	}

	fresh := slot.NewWeek(monday.AddDate(0, 0, 7))
	if !g.Install(g.Generation(), fresh) {
		t.Error("current install rejected")
	}
	if g.Week() != fresh {
		t.Error("fresh week not installed")
	}
}

func TestGetSlot(t *testing.T) {
	store := newFakeStore()
	store.put(&slot.Slot{Date: monday.AddDate(0, 0, 1), Time: "14:00", Available: false})
	g := New(store, monday)

	if g.GetSlot(monday, "14:00") != nil {
		t.Error("GetSlot on unloaded grid should be nil")
	}

	if _, err := g.LoadWeek(context.Background()); err != nil {
		t.Fatal(err)
	}

	s := g.GetSlot(monday.AddDate(0, 0, 1), "14:00")
	if s == nil || s.Available {
		t.Errorf("GetSlot = %+v, want blocked slot", s)
	}
	if g.GetSlot(monday.AddDate(0, 0, 14), "14:00") != nil {
		t.Error("GetSlot outside week should be nil")
	}
}

func TestSetSlotAvailability(t *testing.T) {
	store := newFakeStore()
	tuesday := monday.AddDate(0, 0, 1)
	g := New(store, monday)
	if _, err := g.LoadWeek(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := g.SetSlotAvailability(context.Background(), tuesday, "14:00", false); err != nil {
		t.Fatalf("SetSlotAvailability error: %v", err)
	}

	s := g.GetSlot(tuesday, "14:00")
	if s == nil || s.Available {
		t.Errorf("slot after disable = %+v", s)
	}

	if err := g.SetSlotAvailability(context.Background(), tuesday, "14:00", true); err != nil {
		t.Fatal(err)
	}
	s = g.GetSlot(tuesday, "14:00")
	if s == nil || !s.Available {
		t.Errorf("slot after enable = %+v", s)
	}
}

func TestSetSlotAvailability_RejectsBadTime(t *testing.T) {
	store := newFakeStore()
	g := New(store, monday)

	err := g.SetSlotAvailability(context.Background(), monday, "14:10", false)
	if !errors.Is(err, slot.ErrTimeNotAligned) {
		t.Fatalf("error = %v, want ErrTimeNotAligned", err)
	}
	if countCalls(store, "set") != 0 {
		t.Error("remote call issued for invalid time")
	}
}

func TestBatchSetAvailability_Disable(t *testing.T) {
	store := newFakeStore()
	g := New(store, monday)
	if _, err := g.LoadWeek(context.Background()); err != nil {
		t.Fatal(err)
	}

	summary, err := g.BatchSetAvailability(context.Background(), false)
	if err != nil {
		t.Fatalf("BatchSetAvailability error: %v", err)
	}
	if summary.Total() != 114 {
		t.Errorf("summary = %+v, want 114 touched", summary)
	}

	for _, s := range g.Week().AllSlots() {
		if s.Available {
			t.Fatalf("slot %s %s still available after batch disable", s.DateLabel(), s.Time)
		}
	}
}

// Enabling twice in a row: the second call finds no candidates.
func TestBatchSetAvailability_Idempotent(t *testing.T) {
	store := newFakeStore()
	g := New(store, monday)
	if _, err := g.LoadWeek(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := g.BatchSetAvailability(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if _, err := g.BatchSetAvailability(context.Background(), true); err != nil {
		t.Fatal(err)
	}

	_, err := g.BatchSetAvailability(context.Background(), true)
	if !errors.Is(err, slot.ErrNothingToApply) {
		t.Fatalf("second enable error = %v, want ErrNothingToApply", err)
	}
}

func TestBatchCandidates_SkipBooked(t *testing.T) {
	store := newFakeStore()
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		store.put(&slot.Slot{Date: d, Time: "10:00", Available: true})
	}
	store.put(&slot.Slot{
		Date: monday, Time: "11:00", Available: true, HasBooking: true,
		Booking: &slot.BookingRef{CustomerName: "Ana Torres"},
	})

	g := New(store, monday)
	if _, err := g.LoadWeek(context.Background()); err != nil {
		t.Fatal(err)
	}

	for _, c := range g.BatchCandidates(false) {
		if c.HasBooking {
			t.Fatalf("booked slot %s %s selected as batch candidate", c.DateLabel(), c.Time)
		}
	}
}

func TestApplyWorkingPattern(t *testing.T) {
	store := newFakeStore()
	g := New(store, monday)
	if _, err := g.LoadWeek(context.Background()); err != nil {
		t.Fatal(err)
	}

	p, err := slot.NewWorkingPattern(slot.PatternWeekdays, "09:00", "12:00", 30, nil)
	if err != nil {
		t.Fatal(err)
	}

	msg, err := g.ApplyWorkingPattern(context.Background(), p)
	if err != nil {
		t.Fatalf("ApplyWorkingPattern error: %v", err)
	}
	if msg != "pattern applied" {
		t.Errorf("message = %q", msg)
	}

	// Morning slots open, afternoon slots blocked, weekend untouched by the
	// pattern days but still loaded.
	if s := g.GetSlot(monday, "09:30"); s == nil || !s.Available {
		t.Errorf("monday 09:30 = %+v, want available", s)
	}
	if s := g.GetSlot(monday, "15:00"); s == nil || s.Available {
		t.Errorf("monday 15:00 = %+v, want blocked", s)
	}
}

func TestViewBookingDetails(t *testing.T) {
	store := newFakeStore()
	store.put(&slot.Slot{
		Date: monday, Time: "11:00", Available: false, HasBooking: true,
		Booking: &slot.BookingRef{CustomerName: "Ana Torres"},
	})
	g := New(store, monday)
	if _, err := g.LoadWeek(context.Background()); err != nil {
		t.Fatal(err)
	}

	detail, err := g.ViewBookingDetails(context.Background(), monday, "11:00")
	if err != nil {
		t.Fatalf("ViewBookingDetails error: %v", err)
	}
	if detail.CustomerName != "Ana Torres" {
		t.Errorf("detail = %+v", detail)
	}

	// A loaded, unbooked slot short-circuits without a remote call.
	before := countCalls(store, "booking")
	if _, err := g.ViewBookingDetails(context.Background(), monday, "09:00"); !errors.Is(err, slot.ErrSlotNotFound) {
		t.Fatalf("error = %v, want ErrSlotNotFound", err)
	}
	if countCalls(store, "booking") != before {
		t.Error("remote booking call issued for unbooked slot")
	}
}

func TestInitializeWeek(t *testing.T) {
	store := newFakeStore()
	store.put(&slot.Slot{Date: monday, Time: "09:00", Available: false})

	g := New(store, monday)
	summary, err := g.InitializeWeek(context.Background())
	if err != nil {
		t.Fatalf("InitializeWeek error: %v", err)
	}

	// All 7 days initialized; Monday's existing 09:00 is not resubmitted.
	if summary.Created != 113 {
		t.Errorf("created = %d, want 113", summary.Created)
	}
	if s := g.GetSlot(monday, "09:00"); s == nil || s.Available {
		t.Errorf("existing slot overwritten: %+v", s)
	}
}

func TestSetSlotAvailability_RefusesBookedSlot(t *testing.T) {
	store := newFakeStore()
	store.put(&slot.Slot{
		Date: monday, Time: "11:00", Available: false, HasBooking: true,
		Booking: &slot.BookingRef{CustomerName: "Ana Torres"},
	})
	g := New(store, monday)
	if _, err := g.LoadWeek(context.Background()); err != nil {
		t.Fatal(err)
	}

	err := g.SetSlotAvailability(context.Background(), monday, "11:00", true)
	if !errors.Is(err, slot.ErrSlotBooked) {
		t.Fatalf("error = %v, want ErrSlotBooked", err)
	}
	if countCalls(store, "set") != 0 {
		t.Error("remote call issued for booked slot")
	}
}

func TestFillWeek(t *testing.T) {
	store := newFakeStore()

	summary, err := FillWeek(context.Background(), store, monday.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("FillWeek error: %v", err)
	}
	if summary.Created != 114 {
		t.Errorf("created = %d, want 114", summary.Created)
	}
	// The reference date normalizes to its Monday before creation.
	if store.slots[key(monday, "09:00")] == nil {
		t.Error("monday 09:00 not created")
	}
	if store.slots[key(monday.AddDate(0, 0, 5), "10:00")] == nil {
		t.Error("saturday 10:00 not created")
	}
}

// SubmitPattern works entirely off the store with the week it was handed,
// so a concurrent week change cannot redirect the submission.
func TestSubmitPattern_UsesGivenWeek(t *testing.T) {
	store := newFakeStore()
	nextMonday := monday.AddDate(0, 0, 7)

	p, err := slot.NewWorkingPattern(slot.PatternWeekdays, "09:00", "12:00", 30, nil)
	if err != nil {
		t.Fatal(err)
	}

	msg, err := SubmitPattern(context.Background(), store, nextMonday, p)
	if err != nil {
		t.Fatalf("SubmitPattern error: %v", err)
	}
	if msg != "pattern applied" {
		t.Errorf("message = %q", msg)
	}

	sub := store.lastPattern
	if !sub.StartDate.Equal(nextMonday) {
		t.Errorf("StartDate = %v, want %v", sub.StartDate, nextMonday)
	}
	if !sub.EndDate.Equal(nextMonday.AddDate(0, 0, 6)) {
		t.Errorf("EndDate = %v, want %v", sub.EndDate, nextMonday.AddDate(0, 0, 6))
	}
	if sub.Pattern != slot.PatternWeekdays {
		t.Errorf("Pattern = %q", sub.Pattern)
	}
}
