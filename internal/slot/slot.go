// Package slot defines the core domain types for turno.
package slot

import (
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/turno/internal/dateutil"
)

// Validation errors.
var (
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrTimeNotAligned    = errors.New("time must be aligned to the half-hour grid")
	ErrEndBeforeStart    = errors.New("end time must be after start time")
)

// Domain errors.
var (
	ErrSlotNotFound   = errors.New("slot not found")
	ErrSlotBooked     = errors.New("slot has a confirmed booking")
	ErrNothingToApply = errors.New("no slots match the requested change")
)

// State is the rendered state of a slot cell. Exactly one state applies
// to any slot: a booked slot never renders as available or blocked.
type State int

const (
	StateBlocked State = iota // not bookable by customers
	StateAvailable
	StateBooked
)

// String returns the display name of the state.
func (s State) String() string {
	switch s {
	case StateBooked:
		return "booked"
	case StateAvailable:
		return "available"
	default:
		return "blocked"
	}
}

// BookingRef is the booking summary carried on an occupied slot.
type BookingRef struct {
	CustomerName string
	ServiceName  string
}

// Slot represents one bookable half-hour unit on a calendar date.
type Slot struct {
	Date       time.Time // date only, normalized to midnight
	Time       string    // "HH:MM" start-of-slot label
	Available  bool
	HasBooking bool
	Booking    *BookingRef // present only when HasBooking is true

	// Provisional marks a client-fabricated default for a (date, time) the
	// server did not return. Provisional slots exist for rendering only and
	// are replaced, never merged, on the next successful load.
	Provisional bool
}

// New creates a server-confirmed Slot with validation.
// date must be in YYYY-MM-DD format and timeLabel in HH:MM, half-hour aligned.
func New(date, timeLabel string, available bool) (*Slot, error) {
	d, err := dateutil.ParseDate(date)
	if err != nil {
		return nil, err
	}
	if err := ValidateTime(timeLabel); err != nil {
		return nil, err
	}
	return &Slot{
		Date:      dateutil.TruncateToDay(d),
		Time:      timeLabel,
		Available: available,
	}, nil
}

// NewProvisional creates a fabricated default slot for a (date, time) pair
// missing from the server response. Defaults are always available and never
// carry a booking; that is server-asserted state, reflected, not invented.
func NewProvisional(date time.Time, timeLabel string) *Slot {
	return &Slot{
		Date:        dateutil.TruncateToDay(date),
		Time:        timeLabel,
		Available:   true,
		Provisional: true,
	}
}

// State projects the slot to its single rendered state.
// Precedence: HasBooking > Available > blocked.
func (s *Slot) State() State {
	switch {
	case s.HasBooking:
		return StateBooked
	case s.Available:
		return StateAvailable
	default:
		return StateBlocked
	}
}

// DateLabel returns the slot date formatted for the HTTP boundary.
func (s *Slot) DateLabel() string {
	return s.Date.Format("2006-01-02")
}

// Matches reports whether the slot occupies the given (date, time) cell.
func (s *Slot) Matches(date time.Time, timeLabel string) bool {
	return s.Time == timeLabel && dateutil.SameDay(s.Date, date)
}

// CustomerName returns the booked customer's display name, or "" when the
// slot has no booking.
func (s *Slot) CustomerName() string {
	if s.Booking == nil {
		return ""
	}
	return s.Booking.CustomerName
}

// ValidateTime checks that a time label is HH:MM and half-hour aligned.
func ValidateTime(t string) error {
	if len(t) != 5 || t[2] != ':' {
		return ErrInvalidTimeFormat
	}
	if _, err := time.Parse("15:04", t); err != nil {
		return ErrInvalidTimeFormat
	}
	if m := TimeToMinutes(t); m%30 != 0 {
		return fmt.Errorf("%w: %q", ErrTimeNotAligned, t)
	}
	return nil
}
