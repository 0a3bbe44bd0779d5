package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/turno/internal/api"
	"github.com/javiermolinar/turno/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case commands.WeekLoadedMsg:
		// Install discards the week when the user navigated away since the
		// load started.
		if !m.grid.Install(msg.Gen, msg.Result.Week) {
			LogStaleLoad(msg.Gen, m.grid.Generation())
			return m, nil
		}
		m.loading = false
		m.offline = false
		m.err = nil
		if msg.Result.Initialized.Total() > 0 {
			m.statusMsg = fmt.Sprintf("Initialized %d default slots", msg.Result.Initialized.Total())
		}
		return m, commands.SaveSnapshot(m.snapshots, msg.Result.Week)

	case commands.WeekLoadFailedMsg:
		if msg.Gen != m.grid.Generation() {
			return m, nil
		}
		LogError("load_week", msg.Err)
		return m, commands.LoadSnapshot(m.snapshots, msg.WeekStart, msg.Gen, msg.Err)

	case commands.SnapshotLoadedMsg:
		if msg.Gen != m.grid.Generation() {
			return m, nil
		}
		m.loading = false
		if msg.Snapshot == nil {
			m.err = msg.LoadErr
			m.statusMsg = "Error: " + api.UserMessage(msg.LoadErr)
			m.statusTime = time.Now().Add(5 * time.Second)
			return m, nil
		}
		m.grid.Install(msg.Gen, msg.Snapshot.Week)
		m.offline = true
		m.snapshotTime = msg.Snapshot.FetchedAt
		m.statusMsg = "API unreachable, showing last saved snapshot"
		return m, nil

	case commands.SlotSavedMsg:
		state := "available"
		if !msg.Available {
			state = "blocked"
		}
		m.statusMsg = fmt.Sprintf("Slot %s %s is now %s", msg.Date.Format("Mon Jan 2"), msg.TimeLabel, state)
		return m, commands.LoadWeek(m.store, m.grid.WeekStartDate(), m.grid.Generation())

	case commands.BatchAppliedMsg:
		verb := "opened"
		if !msg.Available {
			verb = "blocked"
		}
		m.statusMsg = fmt.Sprintf("Batch applied: %d slots %s", msg.Summary.Total(), verb)
		return m, commands.LoadWeek(m.store, m.grid.WeekStartDate(), m.grid.Generation())

	case commands.InitializedMsg:
		if msg.Gen != m.grid.Generation() {
			LogStaleLoad(msg.Gen, m.grid.Generation())
			return m, nil
		}
		if msg.Summary.Total() == 0 {
			m.statusMsg = "Week already fully initialized"
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Initialized %d slots", msg.Summary.Total())
		return m, commands.LoadWeek(m.store, m.grid.WeekStartDate(), m.grid.Generation())

	case commands.PatternAppliedMsg:
		if msg.Gen != m.grid.Generation() {
			LogStaleLoad(msg.Gen, m.grid.Generation())
			return m, nil
		}
		if msg.Message != "" {
			m.statusMsg = msg.Message
		} else {
			m.statusMsg = "Pattern applied"
		}
		return m, commands.LoadWeek(m.store, m.grid.WeekStartDate(), m.grid.Generation())

	case commands.SuggestionMsg:
		m.suggestion = msg.Pattern
		m.suggestionWarnings = msg.Warnings
		m.suggestionInput = msg.Input
		m.mode = ModeModal
		m.modalType = ModalSuggestion
		m.statusMsg = ""
		return m, nil

	case commands.BookingMsg:
		m.bookingDetail = msg.Detail
		return m, nil

	case commands.SnapshotSavedMsg:
		return m, nil

	case commands.ErrMsg:
		m.err = msg.Err
		m.loading = false
		m.statusMsg = "Error: " + api.UserMessage(msg.Err)
		m.statusTime = time.Now().Add(5 * time.Second)
		if m.modalType == ModalBooking {
			// Booking fetch failed, close the modal
			m.mode = ModeNormal
			m.modalType = ModalNone
			m.bookingDetail = nil
		}
		return m, nil

	case commands.StatusMsgCmd:
		m.statusMsg = msg.Msg
		m.statusTime = time.Now().Add(3 * time.Second)
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return commands.ClearStatusMsg{}
		})

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	return m, nil
}
