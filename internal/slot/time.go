package slot

import "fmt"

// Interval is the slot granularity in minutes.
const Interval = 30

// Standard grid boundaries, minutes since midnight.
const (
	weekdayStartMinutes = 9 * 60  // 09:00
	weekdayEndMinutes   = 18 * 60 // 18:00, exclusive
	weekendStartMinutes = 10 * 60 // 10:00
	weekendEndMinutes   = 16 * 60 // 16:00, exclusive
)

// TimeToMinutes converts "HH:MM" to minutes since midnight.
// Returns 0 for invalid input.
func TimeToMinutes(t string) int {
	if len(t) < 5 {
		return 0
	}
	hours := int(t[0]-'0')*10 + int(t[1]-'0')
	mins := int(t[3]-'0')*10 + int(t[4]-'0')
	return hours*60 + mins
}

// MinutesToTime converts minutes since midnight to "HH:MM" format.
func MinutesToTime(m int) string {
	if m < 0 {
		m = 0
	}
	if m >= 24*60 {
		m = 24*60 - 1
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Times returns the slot start labels in [start, end) at the given step.
// A step of zero or less falls back to the standard Interval.
func Times(start, end string, stepMinutes int) []string {
	if stepMinutes <= 0 {
		stepMinutes = Interval
	}
	from := TimeToMinutes(start)
	to := TimeToMinutes(end)

	var result []string
	for m := from; m < to; m += stepMinutes {
		result = append(result, MinutesToTime(m))
	}
	return result
}

// WeekdayGrid returns the standard weekday slot labels:
// 09:00 through 17:30, 18 half-hour slots.
func WeekdayGrid() []string {
	return Times(MinutesToTime(weekdayStartMinutes), MinutesToTime(weekdayEndMinutes), Interval)
}

// WeekendGrid returns the standard weekend slot labels:
// 10:00 through 15:30, 12 half-hour slots.
func WeekendGrid() []string {
	return Times(MinutesToTime(weekendStartMinutes), MinutesToTime(weekendEndMinutes), Interval)
}

// GridForWeekday returns the applicable slot labels for a weekday index
// (0=Monday, 6=Sunday): the weekday grid Monday-Friday, the weekend grid
// Saturday and Sunday.
func GridForWeekday(weekday int) []string {
	if weekday == 5 || weekday == 6 {
		return WeekendGrid()
	}
	return WeekdayGrid()
}
