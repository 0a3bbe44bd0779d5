// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/turno/internal/cache"
	"github.com/javiermolinar/turno/internal/grid"
	"github.com/javiermolinar/turno/internal/llm"
	"github.com/javiermolinar/turno/internal/slot"
)

// WeekLoadedMsg is sent when week data is loaded. Gen identifies the
// navigation generation the load was started for; the model discards the
// message when the user has navigated away since.
type WeekLoadedMsg struct {
	Gen    uint64
	Result grid.LoadResult
}

// WeekLoadFailedMsg is sent when a week load fails. It carries the week
// start so the model can fall back to a cached snapshot.
type WeekLoadFailedMsg struct {
	Gen       uint64
	WeekStart time.Time
	Err       error
}

// SnapshotLoadedMsg is sent when a cached snapshot is loaded after a
// failed remote fetch.
type SnapshotLoadedMsg struct {
	Gen      uint64
	Snapshot *cache.Snapshot // nil when no snapshot exists
	LoadErr  error           // the remote error that triggered the fallback
}

// SlotSavedMsg is sent when a single slot availability update lands.
type SlotSavedMsg struct {
	Gen       uint64
	Date      time.Time
	TimeLabel string
	Available bool
}

// BatchAppliedMsg is sent when a batch availability update lands.
type BatchAppliedMsg struct {
	Gen       uint64
	Summary   slot.Summary
	Available bool
}

// InitializedMsg is sent when a week initialization completes.
type InitializedMsg struct {
	Gen     uint64
	Summary slot.Summary
}

// PatternAppliedMsg is sent when a working pattern has been applied.
type PatternAppliedMsg struct {
	Gen     uint64
	Message string
}

// SuggestionMsg is sent when the LLM pattern suggestion completes.
type SuggestionMsg struct {
	Pattern  *slot.WorkingPattern
	Warnings []string
	Input    string
}

// BookingMsg is sent when booking details are fetched.
type BookingMsg struct {
	Date      time.Time
	TimeLabel string
	Detail    *slot.BookingDetail
}

// SnapshotSavedMsg is sent after the week snapshot is persisted.
type SnapshotSavedMsg struct{}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadWeek fetches one week from the store, initializing missing days.
func LoadWeek(store slot.Store, weekStart time.Time, gen uint64) tea.Cmd {
	return func() tea.Msg {
		result, err := grid.FetchWeek(context.Background(), store, weekStart)
		if err != nil {
			return WeekLoadFailedMsg{Gen: gen, WeekStart: weekStart, Err: err}
		}
		return WeekLoadedMsg{Gen: gen, Result: result}
	}
}

// LoadSnapshot loads the cached snapshot for a week after a remote failure.
func LoadSnapshot(snapshots *cache.SQLite, weekStart time.Time, gen uint64, loadErr error) tea.Cmd {
	return func() tea.Msg {
		if snapshots == nil {
			return SnapshotLoadedMsg{Gen: gen, Snapshot: nil, LoadErr: loadErr}
		}
		snap, err := snapshots.LoadWeek(context.Background(), weekStart)
		if err != nil {
			return SnapshotLoadedMsg{Gen: gen, Snapshot: nil, LoadErr: loadErr}
		}
		return SnapshotLoadedMsg{Gen: gen, Snapshot: snap, LoadErr: loadErr}
	}
}

// SaveSnapshot persists the loaded week for offline viewing.
func SaveSnapshot(snapshots *cache.SQLite, week *slot.Week) tea.Cmd {
	return func() tea.Msg {
		if snapshots == nil || week == nil {
			return nil
		}
		if err := snapshots.SaveWeek(context.Background(), week, time.Now()); err != nil {
			return ErrMsg{Err: fmt.Errorf("saving snapshot: %w", err)}
		}
		return SnapshotSavedMsg{}
	}
}

// SetAvailability updates one slot on the server.
func SetAvailability(store slot.Store, date time.Time, timeLabel string, available bool, gen uint64) tea.Cmd {
	return func() tea.Msg {
		if err := store.SetAvailability(context.Background(), date, timeLabel, available); err != nil {
			return ErrMsg{Err: err}
		}
		return SlotSavedMsg{Gen: gen, Date: date, TimeLabel: timeLabel, Available: available}
	}
}

// BatchSetAvailability updates the listed slots in one request.
func BatchSetAvailability(store slot.Store, keys []slot.Key, available bool, gen uint64) tea.Cmd {
	return func() tea.Msg {
		summary, err := store.SetAvailabilityBatch(context.Background(), keys, available)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return BatchAppliedMsg{Gen: gen, Summary: summary, Available: available}
	}
}

// InitializeWeek submits the full default grid for the week's missing cells.
// weekStart and gen are captured at dispatch; the model reloads and installs
// through the gen-checked path.
func InitializeWeek(store slot.Store, weekStart time.Time, gen uint64) tea.Cmd {
	return func() tea.Msg {
		summary, err := grid.FillWeek(context.Background(), store, weekStart)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return InitializedMsg{Gen: gen, Summary: summary}
	}
}

// ApplyPattern submits a working pattern for the week selected at dispatch
// time.
func ApplyPattern(store slot.Store, weekStart time.Time, p *slot.WorkingPattern, gen uint64) tea.Cmd {
	return func() tea.Msg {
		msg, err := grid.SubmitPattern(context.Background(), store, weekStart, p)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("applying pattern: %w", err)}
		}
		return PatternAppliedMsg{Gen: gen, Message: msg}
	}
}

// Suggest runs the LLM working-pattern suggestion.
func Suggest(req llm.SuggestRequest, provider, model, baseURL string) tea.Cmd {
	return func() tea.Msg {
		client, err := llm.NewClient(provider, model, baseURL)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("creating LLM client: %w", err)}
		}

		resp, err := llm.NewSuggester(client).Suggest(context.Background(), req)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("getting suggestion: %w", err)}
		}

		p, warnings, err := resp.ToWorkingPattern()
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("suggestion unusable: %w", err)}
		}
		return SuggestionMsg{Pattern: p, Warnings: warnings, Input: req.Input}
	}
}

// FetchBooking loads the booking details for an occupied slot.
func FetchBooking(store slot.Store, date time.Time, timeLabel string) tea.Cmd {
	return func() tea.Msg {
		detail, err := store.GetBooking(context.Background(), date, timeLabel)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return BookingMsg{Date: date, TimeLabel: timeLabel, Detail: detail}
	}
}
