package slot

import (
	"time"

	"github.com/javiermolinar/turno/internal/dateutil"
)

// Week holds 7 days of slots starting from Monday.
type Week struct {
	StartDate time.Time // Monday of the week
	Days      [7]*Day   // Monday (0) through Sunday (6)
}

// NewWeek creates an empty Week starting from the Monday of the given date.
func NewWeek(date time.Time) *Week {
	monday := dateutil.WeekStart(date)
	w := &Week{StartDate: monday}
	for i := 0; i < 7; i++ {
		w.Days[i] = NewDay(monday.AddDate(0, 0, i))
	}
	return w
}

// NewWeekFromSlots creates a Week and distributes slots to their days.
// Slots outside the week's date range are ignored.
func NewWeekFromSlots(date time.Time, slots []*Slot) *Week {
	w := NewWeek(date)
	for _, s := range slots {
		if day := w.DayByDate(s.Date); day != nil {
			day.Add(s)
		}
	}
	return w
}

// EndDate returns the Sunday of the week.
func (w *Week) EndDate() time.Time {
	return w.StartDate.AddDate(0, 0, 6)
}

// Day returns the Day for the given weekday (0=Monday, 6=Sunday).
// Returns nil if weekday is out of range.
func (w *Week) Day(weekday int) *Day {
	if weekday < 0 || weekday > 6 {
		return nil
	}
	return w.Days[weekday]
}

// DayByDate returns the Day for the given date, nil if not in this week.
func (w *Week) DayByDate(date time.Time) *Day {
	truncated := dateutil.TruncateToDay(date)
	for _, day := range w.Days {
		if day.Date.Equal(truncated) {
			return day
		}
	}
	return nil
}

// Get returns the slot at (date, time), or nil if absent.
func (w *Week) Get(date time.Time, timeLabel string) *Slot {
	day := w.DayByDate(date)
	if day == nil {
		return nil
	}
	return day.Get(timeLabel)
}

// AllSlots returns all slots across all days, ordered by date and time.
func (w *Week) AllSlots() []*Slot {
	var result []*Slot
	for _, day := range w.Days {
		result = append(result, day.Slots()...)
	}
	return result
}

// MissingDays returns the weekday indexes with no server-confirmed slot.
func (w *Week) MissingDays() []int {
	var missing []int
	for i, day := range w.Days {
		if !day.Confirmed() {
			missing = append(missing, i)
		}
	}
	return missing
}

// FillProvisional fabricates default slots for every grid cell the week does
// not hold, so the full grid always renders. Fabricated slots are tagged
// provisional and replaced on the next successful load.
func (w *Week) FillProvisional() {
	for i, day := range w.Days {
		for _, label := range GridForWeekday(i) {
			if day.Get(label) == nil {
				day.Add(NewProvisional(day.Date, label))
			}
		}
	}
}

// WeekStats aggregates slot counts for the week.
type WeekStats struct {
	Available int
	Booked    int
	Blocked   int
	DayStats  [7]DayStats
}

// Total returns the number of counted slots.
func (s WeekStats) Total() int {
	return s.Available + s.Booked + s.Blocked
}

// BookedPercent returns the share of non-blocked slots that are booked.
func (s WeekStats) BookedPercent() int {
	open := s.Available + s.Booked
	if open == 0 {
		return 0
	}
	return (s.Booked * 100) / open
}

// BusiestDay returns the weekday (0=Monday) with the most bookings and the
// booking count. Returns -1 when the week has no bookings.
func (s WeekStats) BusiestDay() (weekday int, booked int) {
	weekday = -1
	for i, ds := range s.DayStats {
		if ds.Booked > booked {
			booked = ds.Booked
			weekday = i
		}
	}
	return weekday, booked
}

// Stats calculates statistics for the week.
func (w *Week) Stats() WeekStats {
	var stats WeekStats
	for i, day := range w.Days {
		ds := day.Stats()
		stats.DayStats[i] = ds
		stats.Available += ds.Available
		stats.Booked += ds.Booked
		stats.Blocked += ds.Blocked
	}
	return stats
}

// WeekdayName returns the name of the weekday (0=Monday).
func WeekdayName(weekday int) string {
	names := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return names[weekday]
}

// WeekdayShortName returns the short name of the weekday (0=Monday).
func WeekdayShortName(weekday int) string {
	names := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return names[weekday]
}
