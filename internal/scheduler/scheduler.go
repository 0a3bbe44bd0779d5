// Package scheduler provides time-aware search over a loaded week of slots.
package scheduler

import (
	"time"

	"github.com/javiermolinar/turno/internal/dateutil"
	"github.com/javiermolinar/turno/internal/slot"
)

// NextOpen returns the first open slot in the week starting at or after ref.
// A slot is open when it is available and has no booking; provisional slots
// count, since a cell the server never answered for defaults to available.
// Returns nil when the week has no open slot at or after ref.
func NextOpen(week *slot.Week, ref time.Time) *slot.Slot {
	if week == nil {
		return nil
	}

	refDay := dateutil.TruncateToDay(ref)
	refMinutes := ref.Hour()*60 + ref.Minute()

	for i := 0; i < 7; i++ {
		day := week.Day(i)
		if day == nil || day.Date.Before(refDay) {
			continue
		}
		sameDay := dateutil.SameDay(day.Date, refDay)
		for _, s := range day.Slots() {
			if !isOpen(s) {
				continue
			}
			if sameDay && slot.TimeToMinutes(s.Time) < refMinutes {
				continue
			}
			return s
		}
	}
	return nil
}

// Run is a consecutive stretch of open slots on one day.
type Run struct {
	Date  time.Time
	Start string // first open slot, "HH:MM"
	End   string // half-open: the boundary after the last open slot
	Slots int
}

// Minutes returns the run's length in minutes.
func (r Run) Minutes() int {
	return r.Slots * slot.Interval
}

// OpenRuns returns every consecutive stretch of open slots in the week,
// ordered by day and start time. Gaps in the grid (blocked or booked slots)
// break a run.
func OpenRuns(week *slot.Week) []Run {
	if week == nil {
		return nil
	}

	var runs []Run
	for i := 0; i < 7; i++ {
		day := week.Day(i)
		if day == nil {
			continue
		}

		var current *Run
		nextExpected := -1
		for _, s := range day.Slots() {
			if !isOpen(s) {
				current = nil
				continue
			}
			start := slot.TimeToMinutes(s.Time)
			if current == nil || start != nextExpected {
				runs = append(runs, Run{Date: day.Date, Start: s.Time})
				current = &runs[len(runs)-1]
			}
			current.Slots++
			current.End = slot.MinutesToTime(start + slot.Interval)
			nextExpected = start + slot.Interval
		}
	}
	return runs
}

// LongestRun returns the longest open stretch in the week, preferring the
// earlier one on ties. Returns a zero Run when the week has no open slots.
func LongestRun(week *slot.Week) Run {
	var best Run
	for _, r := range OpenRuns(week) {
		if r.Slots > best.Slots {
			best = r
		}
	}
	return best
}

// CountOpen returns the number of open slots in the week.
func CountOpen(week *slot.Week) int {
	if week == nil {
		return 0
	}
	n := 0
	for _, s := range week.AllSlots() {
		if isOpen(s) {
			n++
		}
	}
	return n
}

func isOpen(s *slot.Slot) bool {
	return s.Available && !s.HasBooking
}
