package ui

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/turno/internal/slot"
)

// Slot cell symbols for the week grid.
const (
	symbolAvailable   = "o"
	symbolBooked      = "#"
	symbolBlocked     = "."
	symbolProvisional = "?"
	symbolOffGrid     = " "
)

// SlotSymbol returns the plain (uncolored) grid symbol for a slot.
func SlotSymbol(s *slot.Slot) string {
	if s == nil {
		return symbolOffGrid
	}
	switch {
	case s.HasBooking:
		return symbolBooked
	case s.Provisional:
		return symbolProvisional
	case s.Available:
		return symbolAvailable
	default:
		return symbolBlocked
	}
}

// slotCell returns the colored grid cell for a slot.
func slotCell(s *slot.Slot) string {
	sym := SlotSymbol(s)
	if s == nil {
		return sym
	}
	switch {
	case s.HasBooking:
		return formatBooked(sym)
	case s.Provisional:
		return formatProvisional(sym)
	case s.Available:
		return formatAvailable(sym)
	default:
		return formatBlocked(sym)
	}
}

// PrintWeekGrid renders the week as a time-by-day grid. Rows follow the
// weekday time range; weekend columns are blank outside the weekend range.
func PrintWeekGrid(week *slot.Week) {
	// Header: day short names with dates
	fmt.Print("         ")
	for i := 0; i < 7; i++ {
		day := week.Day(i)
		fmt.Printf("  %s %s", slot.WeekdayShortName(i), day.Date.Format("02"))
	}
	fmt.Println()
	fmt.Println("  " + strings.Repeat("─", 7+7*8))

	for _, label := range slot.WeekdayGrid() {
		fmt.Printf("  %s  ", formatMuted(label))
		for i := 0; i < 7; i++ {
			day := week.Day(i)
			s := day.Get(label)
			if s == nil && !onGrid(i, label) {
				fmt.Printf("  %-6s", symbolOffGrid)
				continue
			}
			fmt.Printf("  %-6s", slotCell(s))
		}
		fmt.Println()
	}
}

// onGrid reports whether the time label belongs to the weekday's grid.
func onGrid(weekday int, label string) bool {
	for _, t := range slot.GridForWeekday(weekday) {
		if t == label {
			return true
		}
	}
	return false
}

// PrintLegend prints the grid symbol legend.
func PrintLegend() {
	fmt.Printf("  %s available   %s booked   %s blocked   %s unconfirmed\n",
		formatAvailable(symbolAvailable),
		formatBooked(symbolBooked),
		formatBlocked(symbolBlocked),
		formatProvisional(symbolProvisional))
}

// PrintWeekStats prints the availability summary for a week.
func PrintWeekStats(stats slot.WeekStats) {
	availStr := formatAvailable(fmt.Sprintf("Available: %d", stats.Available))
	bookedStr := formatBooked(fmt.Sprintf("Booked: %d", stats.Booked))
	blockedStr := formatBlocked(fmt.Sprintf("Blocked: %d", stats.Blocked))

	fmt.Printf("  %s  |  %s  |  %s  |  Slots: %d\n",
		availStr, bookedStr, blockedStr, stats.Total())

	if day, booked := stats.BusiestDay(); day >= 0 {
		fmt.Printf("  Busiest day: %s (%d %s)\n",
			slot.WeekdayName(day), booked, plural(booked, "booking", "bookings"))
	}

	if stats.Available+stats.Booked > 0 {
		fmt.Printf("  Load: %s\n", OccupancyBar(stats, 20))
	}
}

// OccupancyBar creates an ASCII bar showing how much open time is booked.
func OccupancyBar(stats slot.WeekStats, width int) string {
	open := stats.Available + stats.Booked
	if open == 0 {
		return "[" + strings.Repeat("░", width) + "] (0% booked)"
	}

	filled := (stats.Booked * width) / open
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", formatBooked(bar), formatStats(fmt.Sprintf("(%d%% booked)", stats.BookedPercent())))
}

// FormatSummary renders a write summary like "3 created, 2 updated".
func FormatSummary(s slot.Summary) string {
	switch {
	case s.Created > 0 && s.Updated > 0:
		return fmt.Sprintf("%d created, %d updated", s.Created, s.Updated)
	case s.Created > 0:
		return fmt.Sprintf("%d created", s.Created)
	case s.Updated > 0:
		return fmt.Sprintf("%d updated", s.Updated)
	default:
		return "no changes"
	}
}

// PrintBookingDetail renders a booking for one slot.
func PrintBookingDetail(dateLabel, timeLabel string, d *slot.BookingDetail) {
	fmt.Printf("\n  %s\n", formatHeader(fmt.Sprintf("BOOKING  %s %s", dateLabel, timeLabel)))
	fmt.Println("  " + strings.Repeat("─", 40))
	fmt.Printf("  Customer: %s\n", d.CustomerName)
	if d.ServiceName != "" {
		fmt.Printf("  Service:  %s\n", d.ServiceName)
	}
	if d.Status != "" {
		fmt.Printf("  Status:   %s\n", d.Status)
	}
	if d.Notes != "" {
		fmt.Printf("  Notes:    %s\n", d.Notes)
	}
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
