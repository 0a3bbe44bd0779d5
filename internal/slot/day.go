package slot

import (
	"slices"
	"time"

	"github.com/javiermolinar/turno/internal/dateutil"
)

// Day holds the slots for a single calendar date, sorted by time label.
type Day struct {
	Date  time.Time
	slots []*Slot
}

// NewDay creates an empty Day for the given date.
func NewDay(date time.Time) *Day {
	return &Day{
		Date:  dateutil.TruncateToDay(date),
		slots: make([]*Slot, 0),
	}
}

// Slots returns a copy of the slot slice.
func (d *Day) Slots() []*Slot {
	result := make([]*Slot, len(d.slots))
	copy(result, d.slots)
	return result
}

// Add inserts a slot keeping time order. A slot already present at the same
// time label is replaced; at most one slot exists per (date, time) pair.
func (d *Day) Add(s *Slot) {
	if s == nil {
		return
	}
	for i, existing := range d.slots {
		if existing.Time == s.Time {
			d.slots[i] = s
			return
		}
	}
	d.slots = append(d.slots, s)
	slices.SortFunc(d.slots, func(a, b *Slot) int {
		return TimeToMinutes(a.Time) - TimeToMinutes(b.Time)
	})
}

// Get returns the slot at the given time label, or nil if absent.
func (d *Day) Get(timeLabel string) *Slot {
	for _, s := range d.slots {
		if s.Time == timeLabel {
			return s
		}
	}
	return nil
}

// Len returns the number of slots held for the day.
func (d *Day) Len() int {
	return len(d.slots)
}

// Confirmed reports whether the day holds at least one server-confirmed
// (non-provisional) slot.
func (d *Day) Confirmed() bool {
	for _, s := range d.slots {
		if !s.Provisional {
			return true
		}
	}
	return false
}

// DayStats holds per-day slot counts by rendered state.
type DayStats struct {
	Available int
	Booked    int
	Blocked   int
}

// Total returns the number of counted slots.
func (s DayStats) Total() int {
	return s.Available + s.Booked + s.Blocked
}

// Stats counts the day's slots by rendered state.
func (d *Day) Stats() DayStats {
	var stats DayStats
	for _, s := range d.slots {
		switch s.State() {
		case StateBooked:
			stats.Booked++
		case StateAvailable:
			stats.Available++
		default:
			stats.Blocked++
		}
	}
	return stats
}
