package slot

import (
	"context"
	"time"
)

// Key identifies one slot cell for batch operations.
type Key struct {
	Date time.Time
	Time string
}

// Summary reports how many records a bulk operation touched.
type Summary struct {
	Created int
	Updated int
}

// Total returns the number of touched records.
func (s Summary) Total() int {
	return s.Created + s.Updated
}

// BookingDetail is the display-only payload for an occupied slot.
type BookingDetail struct {
	CustomerName string
	ServiceName  string
	Status       string
	Notes        string
}

// PatternSubmission is the remote payload for applying a working pattern to
// a date range.
type PatternSubmission struct {
	Pattern         Pattern
	StartDate       time.Time
	EndDate         time.Time
	WorkingTimes    []string
	NonWorkingTimes []string
	Days            []int // weekday indexes, only for the custom pattern
}

// Store defines the remote slot store interface.
type Store interface {
	// ListRange returns all slots whose date falls in [start, end], inclusive.
	ListRange(ctx context.Context, start, end time.Time) ([]*Slot, error)

	// Create submits new slot records and returns created/updated counts.
	Create(ctx context.Context, slots []*Slot) (Summary, error)

	// SetAvailability updates one slot's availability.
	SetAvailability(ctx context.Context, date time.Time, timeLabel string, available bool) error

	// SetAvailabilityBatch updates the availability of every listed slot in
	// a single request.
	SetAvailabilityBatch(ctx context.Context, keys []Key, available bool) (Summary, error)

	// ApplyPattern submits a working pattern for a date range and returns
	// the server's result message.
	ApplyPattern(ctx context.Context, sub PatternSubmission) (string, error)

	// GetBooking fetches booking details for an occupied slot.
	GetBooking(ctx context.Context, date time.Time, timeLabel string) (*BookingDetail, error)
}
