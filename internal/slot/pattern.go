package slot

import (
	"errors"
	"fmt"
	"strings"
)

// Pattern errors.
var (
	ErrInvalidPattern     = errors.New("pattern must be 'weekdays', 'weekends', 'everyday' or 'custom'")
	ErrInvalidWeekdayName = errors.New("unknown weekday name")
	ErrEmptyDaySelection  = errors.New("pattern selects no days")
)

// Pattern is a named rule for bulk-generating slot availability.
type Pattern string

const (
	PatternWeekdays Pattern = "weekdays" // Monday through Friday
	PatternWeekends Pattern = "weekends" // Saturday and Sunday
	PatternEveryday Pattern = "everyday"
	PatternCustom   Pattern = "custom" // explicit weekday range or day-set
)

// ParsePattern validates a pattern name.
func ParsePattern(s string) (Pattern, error) {
	switch Pattern(strings.ToLower(strings.TrimSpace(s))) {
	case PatternWeekdays:
		return PatternWeekdays, nil
	case PatternWeekends:
		return PatternWeekends, nil
	case PatternEveryday:
		return PatternEveryday, nil
	case PatternCustom:
		return PatternCustom, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidPattern, s)
	}
}

var weekdayNames = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// ParseWeekdayName maps a weekday name to its Monday-based index.
func ParseWeekdayName(s string) (int, error) {
	if idx, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return idx, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekdayName, s)
}

// WorkingPattern describes a working-hours rule applied to one week.
type WorkingPattern struct {
	Kind      Pattern
	StartTime string // "HH:MM", inclusive
	EndTime   string // "HH:MM", exclusive
	Interval  int    // minutes per slot
	Days      []int  // weekday indexes (0=Monday); used only for PatternCustom
}

// NewWorkingPattern builds and validates a WorkingPattern. For the custom
// kind either an explicit day-set or a [startWeekday, endWeekday] range is
// accepted; the builtin kinds ignore the days argument.
func NewWorkingPattern(kind Pattern, startTime, endTime string, interval int, days []int) (*WorkingPattern, error) {
	if _, err := ParsePattern(string(kind)); err != nil {
		return nil, err
	}
	if err := ValidateTime(startTime); err != nil {
		return nil, fmt.Errorf("start time: %w", err)
	}
	if err := ValidateTime(endTime); err != nil {
		return nil, fmt.Errorf("end time: %w", err)
	}
	if endTime <= startTime {
		return nil, ErrEndBeforeStart
	}
	if interval <= 0 {
		interval = Interval
	}

	p := &WorkingPattern{
		Kind:      kind,
		StartTime: startTime,
		EndTime:   endTime,
		Interval:  interval,
		Days:      days,
	}
	if len(p.Weekdays()) == 0 {
		return nil, ErrEmptyDaySelection
	}
	return p, nil
}

// NewWorkingPatternRange builds a custom pattern covering the weekday range
// [startWeekday, endWeekday], 0=Monday.
func NewWorkingPatternRange(startTime, endTime string, interval, startWeekday, endWeekday int) (*WorkingPattern, error) {
	if startWeekday < 0 || endWeekday > 6 || startWeekday > endWeekday {
		return nil, ErrEmptyDaySelection
	}
	var days []int
	for d := startWeekday; d <= endWeekday; d++ {
		days = append(days, d)
	}
	return NewWorkingPattern(PatternCustom, startTime, endTime, interval, days)
}

// Weekdays returns the weekday indexes (0=Monday) the pattern covers.
func (p *WorkingPattern) Weekdays() []int {
	switch p.Kind {
	case PatternWeekdays:
		return []int{0, 1, 2, 3, 4}
	case PatternWeekends:
		return []int{5, 6}
	case PatternEveryday:
		return []int{0, 1, 2, 3, 4, 5, 6}
	default:
		seen := make(map[int]bool)
		var days []int
		for _, d := range p.Days {
			if d >= 0 && d <= 6 && !seen[d] {
				seen[d] = true
				days = append(days, d)
			}
		}
		return days
	}
}

// CoversWeekday reports whether the pattern includes the given weekday index.
func (p *WorkingPattern) CoversWeekday(weekday int) bool {
	for _, d := range p.Weekdays() {
		if d == weekday {
			return true
		}
	}
	return false
}

// WorkingTimes returns the slot labels in [StartTime, EndTime) at the
// pattern's interval.
func (p *WorkingPattern) WorkingTimes() []string {
	return Times(p.StartTime, p.EndTime, p.Interval)
}

// NonWorkingTimes returns the complement of the working set against the full
// standard weekday grid. Working and non-working sets are disjoint and their
// union is the complete 09:00-18:00 grid.
func (p *WorkingPattern) NonWorkingTimes() []string {
	working := make(map[string]bool)
	for _, t := range p.WorkingTimes() {
		working[t] = true
	}

	var rest []string
	for _, t := range WeekdayGrid() {
		if !working[t] {
			rest = append(rest, t)
		}
	}
	return rest
}
