// Package grid owns the weekly slot grid: the mapping from (date, time) to
// slot for the selected week, kept in sync with the remote slot store.
package grid

import (
	"context"
	"fmt"
	"time"

	"github.com/javiermolinar/turno/internal/dateutil"
	"github.com/javiermolinar/turno/internal/slot"
)

// Grid holds the currently selected week and its loaded slots. All mutation
// goes through methods; nothing else writes the week or the week start.
//
// Grid itself is not safe for concurrent use. Callers that run remote
// operations off the main loop (the TUI) capture the week start and
// generation up front and install results through Install, which discards
// anything stale.
type Grid struct {
	store slot.Store
	now   func() time.Time

	weekStart time.Time // always the Monday of the selected week
	week      *slot.Week
	gen       uint64 // bumped on every navigation; stale loads are dropped
}

// Option configures optional Grid behavior.
type Option func(*Grid)

// WithNow injects the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(g *Grid) {
		g.now = now
	}
}

// New creates a Grid focused on the week containing ref.
func New(store slot.Store, ref time.Time, opts ...Option) *Grid {
	g := &Grid{
		store:     store,
		now:       time.Now,
		weekStart: dateutil.WeekStart(ref),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WeekStartDate returns the Monday of the selected week.
func (g *Grid) WeekStartDate() time.Time {
	return g.weekStart
}

// Week returns the loaded week, or nil before the first successful load.
func (g *Grid) Week() *slot.Week {
	return g.week
}

// Generation returns the current load generation. A remote operation started
// off the main loop captures this value and passes it back to Install.
func (g *Grid) Generation() uint64 {
	return g.gen
}

// Navigate shifts the selected week by deltaWeeks and invalidates any
// in-flight load. It does not touch the loaded slots: the previous week
// keeps rendering until the new one arrives.
func (g *Grid) Navigate(deltaWeeks int) time.Time {
	g.weekStart = g.weekStart.AddDate(0, 0, 7*deltaWeeks)
	g.gen++
	return g.weekStart
}

// Focus moves the selected week to the one containing date.
func (g *Grid) Focus(date time.Time) time.Time {
	g.weekStart = dateutil.WeekStart(date)
	g.gen++
	return g.weekStart
}

// FocusToday jumps back to the current week.
func (g *Grid) FocusToday() time.Time {
	return g.Focus(g.now())
}

// Install replaces the loaded week if gen is still current. Returns false
// when the result is stale and was dropped.
func (g *Grid) Install(gen uint64, week *slot.Week) bool {
	if gen != g.gen {
		return false
	}
	g.week = week
	return true
}

// GetSlot returns the loaded slot at (date, time), or nil if absent.
// It never errors: an unloaded grid simply has no slots.
func (g *Grid) GetSlot(date time.Time, timeLabel string) *slot.Slot {
	if g.week == nil {
		return nil
	}
	return g.week.Get(date, timeLabel)
}

// LoadResult reports what a week load did.
type LoadResult struct {
	Week        *slot.Week
	Initialized slot.Summary // default slots submitted for missing days
}

// FetchWeek loads the week starting at weekStart from the store. Days with
// no record at all are initialized with the default grid (submitted to the
// store as available slots) and the week is re-fetched so the view reflects
// server-confirmed state. Remaining gaps inside a day are filled with
// provisional defaults for rendering only.
//
// Days the server did answer for are never re-initialized, so a day that is
// legitimately fully blocked round-trips untouched.
func FetchWeek(ctx context.Context, store slot.Store, weekStart time.Time) (LoadResult, error) {
	weekStart = dateutil.WeekStart(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 6)

	slots, err := store.ListRange(ctx, weekStart, weekEnd)
	if err != nil {
		return LoadResult{}, err
	}
	week := slot.NewWeekFromSlots(weekStart, slots)

	var initialized slot.Summary
	if missing := week.MissingDays(); len(missing) > 0 {
		initialized, err = initializeDays(ctx, store, week, missing)
		if err != nil {
			return LoadResult{}, err
		}

		slots, err = store.ListRange(ctx, weekStart, weekEnd)
		if err != nil {
			return LoadResult{}, err
		}
		week = slot.NewWeekFromSlots(weekStart, slots)
	}

	week.FillProvisional()
	return LoadResult{Week: week, Initialized: initialized}, nil
}

// initializeDays submits the default grid for the given weekday indexes:
// every applicable slot time not already loaded, created as available.
func initializeDays(ctx context.Context, store slot.Store, week *slot.Week, weekdays []int) (slot.Summary, error) {
	var defaults []*slot.Slot
	for _, wd := range weekdays {
		day := week.Day(wd)
		if day == nil {
			continue
		}
		for _, label := range slot.GridForWeekday(wd) {
			if day.Get(label) == nil {
				defaults = append(defaults, &slot.Slot{Date: day.Date, Time: label, Available: true})
			}
		}
	}
	if len(defaults) == 0 {
		return slot.Summary{}, nil
	}

	summary, err := store.Create(ctx, defaults)
	if err != nil {
		return slot.Summary{}, fmt.Errorf("initializing default slots: %w", err)
	}
	return summary, nil
}

// LoadWeek fetches the selected week and installs it. On failure the
// previously loaded week and the selected week start are left untouched.
func (g *Grid) LoadWeek(ctx context.Context) (LoadResult, error) {
	gen := g.gen
	result, err := FetchWeek(ctx, g.store, g.weekStart)
	if err != nil {
		return LoadResult{}, err
	}
	g.Install(gen, result.Week)
	return result, nil
}

// FillWeek submits the full default grid for every missing cell of the week
// starting at weekStart. Store-level: safe to run off the main loop.
func FillWeek(ctx context.Context, store slot.Store, weekStart time.Time) (slot.Summary, error) {
	weekStart = dateutil.WeekStart(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 6)

	slots, err := store.ListRange(ctx, weekStart, weekEnd)
	if err != nil {
		return slot.Summary{}, err
	}
	week := slot.NewWeekFromSlots(weekStart, slots)

	return initializeDays(ctx, store, week, []int{0, 1, 2, 3, 4, 5, 6})
}

// InitializeWeek submits the full default grid for every missing cell of the
// selected week, then reloads. Returns the counts of submitted records.
func (g *Grid) InitializeWeek(ctx context.Context) (slot.Summary, error) {
	summary, err := FillWeek(ctx, g.store, g.weekStart)
	if err != nil {
		return slot.Summary{}, err
	}

	if _, err := g.LoadWeek(ctx); err != nil {
		return summary, err
	}
	return summary, nil
}

// SetSlotAvailability updates one slot remotely, then reloads the week to
// reconcile; no local patch is trusted.
func (g *Grid) SetSlotAvailability(ctx context.Context, date time.Time, timeLabel string, available bool) error {
	if err := slot.ValidateTime(timeLabel); err != nil {
		return err
	}
	// A confirmed booking is server-asserted state this client only
	// reflects; refuse locally instead of bouncing off the server.
	if s := g.GetSlot(date, timeLabel); s != nil && s.HasBooking {
		return fmt.Errorf("%s %s: %w", dateutil.FormatDate(date), timeLabel, slot.ErrSlotBooked)
	}
	if err := g.store.SetAvailability(ctx, dateutil.TruncateToDay(date), timeLabel, available); err != nil {
		return err
	}
	_, err := g.LoadWeek(ctx)
	return err
}

// BatchCandidates returns the loaded slots whose availability is the
// opposite of the target value. Booked slots are never candidates: a
// confirmed booking is server-asserted state this client only reflects.
func (g *Grid) BatchCandidates(available bool) []*slot.Slot {
	if g.week == nil {
		return nil
	}
	var candidates []*slot.Slot
	for _, s := range g.week.AllSlots() {
		if s.HasBooking {
			continue
		}
		if s.Available != available {
			candidates = append(candidates, s)
		}
	}
	return candidates
}

// BatchSetAvailability submits every candidate slot in one batch update and
// reloads. Returns ErrNothingToApply when there are no candidates, so the
// caller can show a message instead of issuing an empty request.
func (g *Grid) BatchSetAvailability(ctx context.Context, available bool) (slot.Summary, error) {
	candidates := g.BatchCandidates(available)
	if len(candidates) == 0 {
		return slot.Summary{}, slot.ErrNothingToApply
	}

	keys := make([]slot.Key, 0, len(candidates))
	for _, s := range candidates {
		keys = append(keys, slot.Key{Date: s.Date, Time: s.Time})
	}

	summary, err := g.store.SetAvailabilityBatch(ctx, keys, available)
	if err != nil {
		return slot.Summary{}, err
	}

	if _, err := g.LoadWeek(ctx); err != nil {
		return summary, err
	}
	return summary, nil
}

// SubmitPattern submits the pattern for the week starting at weekStart,
// never a rolling range. Store-level: safe to run off the main loop.
func SubmitPattern(ctx context.Context, store slot.Store, weekStart time.Time, p *slot.WorkingPattern) (string, error) {
	weekStart = dateutil.WeekStart(weekStart)
	sub := slot.PatternSubmission{
		Pattern:         p.Kind,
		StartDate:       weekStart,
		EndDate:         weekStart.AddDate(0, 0, 6),
		WorkingTimes:    p.WorkingTimes(),
		NonWorkingTimes: p.NonWorkingTimes(),
	}
	if p.Kind == slot.PatternCustom {
		sub.Days = p.Weekdays()
	}
	return store.ApplyPattern(ctx, sub)
}

// ApplyWorkingPattern submits the pattern for the currently displayed week,
// then reloads. Returns the server's result message.
func (g *Grid) ApplyWorkingPattern(ctx context.Context, p *slot.WorkingPattern) (string, error) {
	msg, err := SubmitPattern(ctx, g.store, g.weekStart, p)
	if err != nil {
		return "", err
	}

	if _, err := g.LoadWeek(ctx); err != nil {
		return msg, err
	}
	return msg, nil
}

// ViewBookingDetails fetches booking info for an occupied slot. Display
// only; no mutation, no reload.
func (g *Grid) ViewBookingDetails(ctx context.Context, date time.Time, timeLabel string) (*slot.BookingDetail, error) {
	s := g.GetSlot(date, timeLabel)
	if s != nil && !s.HasBooking {
		return nil, slot.ErrSlotNotFound
	}
	return g.store.GetBooking(ctx, dateutil.TruncateToDay(date), timeLabel)
}
