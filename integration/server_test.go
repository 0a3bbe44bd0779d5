package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/javiermolinar/turno/internal/api"
)

// record is the server-side state of one timeslot.
type record struct {
	Date      string
	Time      string
	Available bool
	Booking   *bookingRecord
}

type bookingRecord struct {
	CustomerName string
	ServiceName  string
	Status       string
	Notes        string
}

// fakeAPI is an in-memory booking service speaking the timeslot wire
// protocol. Booked slots reject availability changes the way the real
// service does.
type fakeAPI struct {
	mu    sync.Mutex
	slots map[string]*record // keyed by "date time"
	url   string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{slots: make(map[string]*record)}
}

func key(date, timeLabel string) string {
	return date + " " + timeLabel
}

// seed inserts a slot directly, bypassing the HTTP surface.
func (f *fakeAPI) seed(date, timeLabel string, available bool, booking *bookingRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots[key(date, timeLabel)] = &record{
		Date:      date,
		Time:      timeLabel,
		Available: available,
		Booking:   booking,
	}
}

func (f *fakeAPI) get(date, timeLabel string) *record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slots[key(date, timeLabel)]
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.slots)
}

type slotJSON struct {
	Date        string       `json:"date"`
	Time        string       `json:"time"`
	IsAvailable bool         `json:"is_available"`
	HasBooking  bool         `json:"has_booking,omitempty"`
	Booking     *bookingJSON `json:"booking,omitempty"`
}

type bookingJSON struct {
	CustomerName string `json:"customer_name"`
	ServiceName  string `json:"service_name,omitempty"`
	Status       string `json:"status,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

func (r *record) toJSON() slotJSON {
	s := slotJSON{
		Date:        r.Date,
		Time:        r.Time,
		IsAvailable: r.Available,
		HasBooking:  r.Booking != nil,
	}
	if r.Booking != nil {
		s.Booking = &bookingJSON{
			CustomerName: r.Booking.CustomerName,
			ServiceName:  r.Booking.ServiceName,
		}
	}
	return s
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/timeslots", f.handleTimeslots)
	mux.HandleFunc("/api/timeslots/batch", f.handleBatch)
	mux.HandleFunc("/api/timeslots/pattern", f.handlePattern)
	mux.HandleFunc("/api/timeslots/", f.handleTimeslot)
	mux.HandleFunc("/api/bookings/", f.handleBooking)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleTimeslots serves GET (range listing) and POST (bulk create).
func (f *fakeAPI) handleTimeslots(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		start := r.URL.Query().Get("start_date")
		end := r.URL.Query().Get("end_date")

		f.mu.Lock()
		var out []slotJSON
		for _, rec := range f.slots {
			if rec.Date >= start && rec.Date <= end {
				out = append(out, rec.toJSON())
			}
		}
		f.mu.Unlock()

		sort.Slice(out, func(i, j int) bool {
			if out[i].Date != out[j].Date {
				return out[i].Date < out[j].Date
			}
			return out[i].Time < out[j].Time
		})
		if out == nil {
			out = []slotJSON{}
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var body []slotJSON
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "malformed body")
			return
		}

		f.mu.Lock()
		var created, updated []slotJSON
		for _, s := range body {
			k := key(s.Date, s.Time)
			if existing, ok := f.slots[k]; ok {
				existing.Available = s.IsAvailable
				updated = append(updated, existing.toJSON())
				continue
			}
			rec := &record{Date: s.Date, Time: s.Time, Available: s.IsAvailable}
			f.slots[k] = rec
			created = append(created, rec.toJSON())
		}
		f.mu.Unlock()

		writeJSON(w, http.StatusCreated, map[string][]slotJSON{
			"created": created,
			"updated": updated,
		})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleTimeslot serves PUT /api/timeslots/{date}/{time}.
func (f *fakeAPI) handleTimeslot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	date, timeLabel, ok := splitDateTime(r.URL.Path, "/api/timeslots/")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var body struct {
		IsAvailable bool `json:"is_available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.slots[key(date, timeLabel)]
	if !ok {
		writeError(w, http.StatusNotFound, "timeslot not found")
		return
	}
	if rec.Booking != nil {
		writeError(w, http.StatusConflict, "slot has a confirmed booking")
		return
	}
	rec.Available = body.IsAvailable
	writeJSON(w, http.StatusOK, rec.toJSON())
}

// handleBatch serves PUT /api/timeslots/batch.
func (f *fakeAPI) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		Timeslots []struct {
			Date string `json:"date"`
			Time string `json:"time"`
		} `json:"timeslots"`
		IsAvailable bool `json:"is_available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	created, updated := 0, 0
	for _, k := range body.Timeslots {
		rec, ok := f.slots[key(k.Date, k.Time)]
		if !ok {
			f.slots[key(k.Date, k.Time)] = &record{Date: k.Date, Time: k.Time, Available: body.IsAvailable}
			created++
			continue
		}
		if rec.Booking != nil {
			continue
		}
		rec.Available = body.IsAvailable
		updated++
	}
	writeJSON(w, http.StatusOK, map[string]int{"created": created, "updated": updated})
}

// handlePattern serves POST /api/timeslots/pattern. Working times in the
// date range become available, non-working times blocked; booked slots are
// left alone.
func (f *fakeAPI) handlePattern(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		Pattern         string   `json:"pattern"`
		StartDate       string   `json:"start_date"`
		EndDate         string   `json:"end_date"`
		TimeSlots       []string `json:"time_slots"`
		NonWorkingSlots []string `json:"non_working_time_slots"`
		Days            []int    `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	touched := 0
	for _, rec := range f.slots {
		if rec.Date < body.StartDate || rec.Date > body.EndDate || rec.Booking != nil {
			continue
		}
		if !patternCovers(body.Pattern, body.Days, rec.Date) {
			continue
		}
		switch {
		case contains(body.TimeSlots, rec.Time):
			rec.Available = true
			touched++
		case contains(body.NonWorkingSlots, rec.Time):
			rec.Available = false
			touched++
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Pattern %s applied to %d timeslots", body.Pattern, touched),
	})
}

// handleBooking serves GET /api/bookings/{date}/{time}.
func (f *fakeAPI) handleBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	date, timeLabel, ok := splitDateTime(r.URL.Path, "/api/bookings/")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.slots[key(date, timeLabel)]
	if !ok || rec.Booking == nil {
		writeError(w, http.StatusNotFound, "no booking for this timeslot")
		return
	}
	writeJSON(w, http.StatusOK, bookingJSON{
		CustomerName: rec.Booking.CustomerName,
		ServiceName:  rec.Booking.ServiceName,
		Status:       rec.Booking.Status,
		Notes:        rec.Booking.Notes,
	})
}

func splitDateTime(path, prefix string) (date, timeLabel string, ok bool) {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	timeLabel, err := url.PathUnescape(parts[1])
	if err != nil {
		return "", "", false
	}
	return parts[0], timeLabel, true
}

// patternCovers reports whether the named pattern touches the given date.
// days carries Monday-based indexes and applies only to the custom pattern.
func patternCovers(pattern string, days []int, date string) bool {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	wd := (int(d.Weekday()) + 6) % 7 // Monday-based
	switch pattern {
	case "weekdays":
		return wd <= 4
	case "weekends":
		return wd >= 5
	case "custom":
		for _, v := range days {
			if v == wd {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// startServer spins up the fake service and returns a client pointed at it.
func startServer(t *testing.T) (*fakeAPI, *api.Client) {
	t.Helper()
	f := newFakeAPI()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	f.url = srv.URL
	return f, api.New(srv.URL, "test-token")
}
