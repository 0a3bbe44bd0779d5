// Package api implements the REST client for the remote slot store.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/javiermolinar/turno/internal/dateutil"
	"github.com/javiermolinar/turno/internal/slot"
)

const defaultTimeout = 20 * time.Second

// Client talks to the booking platform's timeslot API.
// It implements slot.Store.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a Client for the given base URL and bearer token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// timeslotPayload is the wire form of a slot record.
type timeslotPayload struct {
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	IsAvailable bool            `json:"is_available"`
	HasBooking  bool            `json:"has_booking,omitempty"`
	Booking     *bookingPayload `json:"booking,omitempty"`
}

type bookingPayload struct {
	CustomerName string `json:"customer_name"`
	ServiceName  string `json:"service_name,omitempty"`
	Status       string `json:"status,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type slotKeyPayload struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// errorPayload is the conventional error body `{"error": "..."}` or
// `{"message": "..."}`.
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (p errorPayload) text() string {
	if p.Error != "" {
		return p.Error
	}
	return p.Message
}

func (p timeslotPayload) toSlot() (*slot.Slot, error) {
	d, err := dateutil.ParseDate(p.Date)
	if err != nil {
		return nil, fmt.Errorf("slot %s %s: %w", p.Date, p.Time, err)
	}
	s := &slot.Slot{
		Date:       dateutil.TruncateToDay(d),
		Time:       p.Time,
		Available:  p.IsAvailable,
		HasBooking: p.HasBooking,
	}
	if p.Booking != nil {
		s.HasBooking = true
		s.Booking = &slot.BookingRef{
			CustomerName: p.Booking.CustomerName,
			ServiceName:  p.Booking.ServiceName,
		}
	}
	return s, nil
}

// ListRange returns all slots whose date falls in [start, end], inclusive.
func (c *Client) ListRange(ctx context.Context, start, end time.Time) ([]*slot.Slot, error) {
	q := url.Values{}
	q.Set("start_date", dateutil.FormatDate(start))
	q.Set("end_date", dateutil.FormatDate(end))

	var payload []timeslotPayload
	if err := c.do(ctx, "list timeslots", http.MethodGet, "/api/timeslots?"+q.Encode(), nil, &payload); err != nil {
		return nil, err
	}

	slots := make([]*slot.Slot, 0, len(payload))
	for _, p := range payload {
		s, err := p.toSlot()
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, nil
}

// Create submits new slot records and returns created/updated counts.
func (c *Client) Create(ctx context.Context, slots []*slot.Slot) (slot.Summary, error) {
	body := make([]timeslotPayload, 0, len(slots))
	for _, s := range slots {
		body = append(body, timeslotPayload{
			Date:        s.DateLabel(),
			Time:        s.Time,
			IsAvailable: s.Available,
		})
	}

	var resp struct {
		Created []timeslotPayload `json:"created"`
		Updated []timeslotPayload `json:"updated"`
	}
	if err := c.do(ctx, "create timeslots", http.MethodPost, "/api/timeslots", body, &resp); err != nil {
		return slot.Summary{}, err
	}
	return slot.Summary{Created: len(resp.Created), Updated: len(resp.Updated)}, nil
}

// SetAvailability updates one slot's availability.
func (c *Client) SetAvailability(ctx context.Context, date time.Time, timeLabel string, available bool) error {
	path := fmt.Sprintf("/api/timeslots/%s/%s", dateutil.FormatDate(date), url.PathEscape(timeLabel))
	body := map[string]bool{"is_available": available}

	var updated timeslotPayload
	return c.do(ctx, "update timeslot", http.MethodPut, path, body, &updated)
}

// SetAvailabilityBatch updates the availability of every listed slot in a
// single request.
func (c *Client) SetAvailabilityBatch(ctx context.Context, keys []slot.Key, available bool) (slot.Summary, error) {
	payloadKeys := make([]slotKeyPayload, 0, len(keys))
	for _, k := range keys {
		payloadKeys = append(payloadKeys, slotKeyPayload{
			Date: dateutil.FormatDate(k.Date),
			Time: k.Time,
		})
	}
	body := struct {
		Timeslots   []slotKeyPayload `json:"timeslots"`
		IsAvailable bool             `json:"is_available"`
	}{payloadKeys, available}

	var resp struct {
		Created int `json:"created"`
		Updated int `json:"updated"`
	}
	if err := c.do(ctx, "batch update timeslots", http.MethodPut, "/api/timeslots/batch", body, &resp); err != nil {
		return slot.Summary{}, err
	}
	return slot.Summary{Created: resp.Created, Updated: resp.Updated}, nil
}

// ApplyPattern submits a working pattern for a date range and returns the
// server's result message.
func (c *Client) ApplyPattern(ctx context.Context, sub slot.PatternSubmission) (string, error) {
	body := struct {
		Pattern         string   `json:"pattern"`
		StartDate       string   `json:"start_date"`
		EndDate         string   `json:"end_date"`
		TimeSlots       []string `json:"time_slots"`
		NonWorkingSlots []string `json:"non_working_time_slots"`
		Days            []int    `json:"days,omitempty"`
	}{
		Pattern:         string(sub.Pattern),
		StartDate:       dateutil.FormatDate(sub.StartDate),
		EndDate:         dateutil.FormatDate(sub.EndDate),
		TimeSlots:       sub.WorkingTimes,
		NonWorkingSlots: sub.NonWorkingTimes,
		Days:            sub.Days,
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, "apply pattern", http.MethodPost, "/api/timeslots/pattern", body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// GetBooking fetches booking details for an occupied slot.
func (c *Client) GetBooking(ctx context.Context, date time.Time, timeLabel string) (*slot.BookingDetail, error) {
	path := fmt.Sprintf("/api/bookings/%s/%s", dateutil.FormatDate(date), url.PathEscape(timeLabel))

	var payload bookingPayload
	if err := c.do(ctx, "get booking", http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return &slot.BookingDetail{
		CustomerName: payload.CustomerName,
		ServiceName:  payload.ServiceName,
		Status:       payload.Status,
		Notes:        payload.Notes,
	}, nil
}

// do performs one JSON round-trip. A missing token fails locally before any
// request is sent.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	if c.token == "" {
		return fmt.Errorf("%s: %w", op, ErrNoToken)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody errorPayload
		_ = json.Unmarshal(data, &errBody)
		return &HTTPError{Op: op, StatusCode: resp.StatusCode, Message: errBody.text()}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}
