package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/turno/internal/slot"
)

// cursorDate returns the date of the day column under the cursor.
func (m Model) cursorDate() time.Time {
	return m.grid.WeekStartDate().AddDate(0, 0, m.cursor.Day)
}

// cursorLabel returns the time label of the row under the cursor.
func (m Model) cursorLabel() string {
	grid := slot.WeekdayGrid()
	if m.cursor.Row < 0 || m.cursor.Row >= len(grid) {
		return ""
	}
	return grid[m.cursor.Row]
}

// slotAtCursor returns the loaded slot under the cursor, or nil when the
// cursor sits outside the day's grid.
func (m Model) slotAtCursor() *slot.Slot {
	label := m.cursorLabel()
	if label == "" || !onDayGrid(m.cursor.Day, label) {
		return nil
	}
	return m.grid.GetSlot(m.cursorDate(), label)
}

// onDayGrid reports whether the time label belongs to the weekday's grid.
func onDayGrid(weekday int, label string) bool {
	for _, t := range slot.GridForWeekday(weekday) {
		if t == label {
			return true
		}
	}
	return false
}

// buildWeekCopyText renders a plain-text week summary for the clipboard.
func buildWeekCopyText(week *slot.Week) string {
	var b strings.Builder
	stats := week.Stats()

	fmt.Fprintf(&b, "Week of %s\n", week.StartDate.Format("Mon Jan 2 2006"))
	fmt.Fprintf(&b, "Available: %d  Booked: %d  Blocked: %d\n\n", stats.Available, stats.Booked, stats.Blocked)

	for i := 0; i < 7; i++ {
		day := week.Day(i)
		if day == nil {
			continue
		}

		var booked []string
		for _, label := range slot.GridForWeekday(i) {
			s := day.Get(label)
			if s != nil && s.HasBooking {
				booked = append(booked, fmt.Sprintf("%s %s", label, s.CustomerName()))
			}
		}
		if len(booked) == 0 {
			continue
		}

		fmt.Fprintf(&b, "%s %s\n", slot.WeekdayShortName(i), day.Date.Format("Jan 2"))
		for _, line := range booked {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}

	return b.String()
}
