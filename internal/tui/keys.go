package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/turno/internal/llm"
	"github.com/javiermolinar/turno/internal/slot"
	"github.com/javiermolinar/turno/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Navigation
	case "h", "left":
		if m.cursor.Day > 0 {
			m.cursor.Day--
		} else {
			m.grid.Navigate(-1)
			m.cursor.Day = 6
			return m.reload()
		}
	case "l", "right":
		if m.cursor.Day < 6 {
			m.cursor.Day++
		} else {
			m.grid.Navigate(1)
			m.cursor.Day = 0
			return m.reload()
		}
	case "j", "down":
		if m.cursor.Row < len(slot.WeekdayGrid())-1 {
			m.cursor.Row++
		}
		LogCursorMove(m.cursor.Day, m.cursor.Row, "down")
	case "k", "up":
		if m.cursor.Row > 0 {
			m.cursor.Row--
		}
		LogCursorMove(m.cursor.Day, m.cursor.Row, "up")

	// Week navigation
	case "H", "shift+left":
		m.grid.Navigate(-1)
		return m.reload()
	case "L", "shift+right":
		m.grid.Navigate(1)
		return m.reload()
	case "t":
		today := m.grid.FocusToday()
		m.cursor.Day = weekdayIndex(today)
		return m.reload()

	case "r":
		return m.reload()

	// Slot actions
	case " ", "a":
		return m.toggleCursorSlot()

	case "enter":
		return m.openBookingAtCursor()

	// Batch actions
	case "o":
		return m.confirmBatch(true)
	case "x":
		return m.confirmBatch(false)

	// Week initialization
	case "i":
		m.statusMsg = "Initializing week..."
		return m, commands.InitializeWeek(m.store, m.grid.WeekStartDate(), m.grid.Generation())

	// Pattern prompt
	case "p":
		m.mode = ModePrompt
		m.prompt.SetValue("")
		m.prompt.Focus()
		return m, textinput.Blink

	case "y":
		return m.copyWeekSummary()

	case "?":
		m.mode = ModeModal
		m.modalType = ModalHelp
		return m, nil
	}

	return m, nil
}

// reload kicks off a week load for the selected week.
func (m Model) reload() (tea.Model, tea.Cmd) {
	m.loading = true
	m.offline = false
	return m, commands.LoadWeek(m.store, m.grid.WeekStartDate(), m.grid.Generation())
}

// toggleCursorSlot flips the availability of the slot under the cursor.
func (m Model) toggleCursorSlot() (tea.Model, tea.Cmd) {
	if m.offline {
		m.statusMsg = "Showing a cached snapshot, edits are disabled"
		return m, nil
	}

	s := m.slotAtCursor()
	if s == nil {
		m.statusMsg = "No slot here"
		return m, nil
	}
	if s.HasBooking {
		m.statusMsg = fmt.Sprintf("Slot has a confirmed booking for %s", s.CustomerName())
		return m, nil
	}

	next := !s.Available
	LogSlotChange(s.Date, s.Time, next)
	return m, commands.SetAvailability(m.store, s.Date, s.Time, next, m.grid.Generation())
}

// openBookingAtCursor opens the booking modal for a booked slot.
func (m Model) openBookingAtCursor() (tea.Model, tea.Cmd) {
	s := m.slotAtCursor()
	if s == nil || !s.HasBooking {
		m.statusMsg = "No booking on this slot"
		return m, nil
	}

	m.bookingDate = s.Date
	m.bookingTime = s.Time
	m.bookingDetail = nil
	m.mode = ModeModal
	m.modalType = ModalBooking
	return m, commands.FetchBooking(m.store, s.Date, s.Time)
}

// confirmBatch opens the confirmation modal for a whole-week batch update.
func (m Model) confirmBatch(available bool) (tea.Model, tea.Cmd) {
	if m.offline {
		m.statusMsg = "Showing a cached snapshot, edits are disabled"
		return m, nil
	}

	candidates := m.grid.BatchCandidates(available)
	if len(candidates) == 0 {
		m.statusMsg = "Nothing to change"
		return m, nil
	}

	m.batchAvailable = available
	m.batchCount = len(candidates)
	m.mode = ModeModal
	m.modalType = ModalBatchConfirm
	return m, nil
}

// handlePromptKeys handles keys while typing a pattern description.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.prompt.Blur()
		m.prompt.SetValue("")
		return m, nil

	case "enter":
		input := strings.TrimSpace(m.prompt.Value())
		m.mode = ModeNormal
		m.prompt.Blur()
		m.prompt.SetValue("")
		if input == "" {
			return m, nil
		}
		m.statusMsg = "Interpreting request..."
		return m, commands.Suggest(llm.SuggestRequest{
			Input:            input,
			DayStart:         m.config.Schedule.DayStart,
			DayEnd:           m.config.Schedule.DayEnd,
			DefaultPattern:   m.config.Schedule.Pattern,
			UseCompactPrompt: llm.IsLocalProvider(m.config.LLM.Provider),
		}, m.config.LLM.Provider, m.config.LLM.Model, m.config.LLM.BaseURL)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handleModalKeys handles keys in modal mode.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modalType {
	case ModalBooking:
		switch msg.String() {
		case "esc", "enter", "q":
			m.mode = ModeNormal
			m.modalType = ModalNone
			m.bookingDetail = nil
			return m, nil
		}

	case ModalBatchConfirm:
		switch msg.String() {
		case "esc", "n":
			m.mode = ModeNormal
			m.modalType = ModalNone
			m.statusMsg = "Batch cancelled"
			return m, nil
		case "enter", "y":
			m.mode = ModeNormal
			m.modalType = ModalNone
			keys := make([]slot.Key, 0, m.batchCount)
			for _, s := range m.grid.BatchCandidates(m.batchAvailable) {
				keys = append(keys, slot.Key{Date: s.Date, Time: s.Time})
			}
			if len(keys) == 0 {
				m.statusMsg = "Nothing to change"
				return m, nil
			}
			return m, commands.BatchSetAvailability(m.store, keys, m.batchAvailable, m.grid.Generation())
		}

	case ModalSuggestion:
		switch msg.String() {
		case "esc", "c":
			m.mode = ModeNormal
			m.modalType = ModalNone
			m.suggestion = nil
			m.suggestionWarnings = nil
			m.statusMsg = "Pattern cancelled"
			return m, nil
		case "enter", "a":
			if m.suggestion == nil {
				return m, nil
			}
			p := m.suggestion
			m.mode = ModeNormal
			m.modalType = ModalNone
			m.suggestion = nil
			m.suggestionWarnings = nil
			m.statusMsg = "Applying pattern..."
			return m, commands.ApplyPattern(m.store, m.grid.WeekStartDate(), p, m.grid.Generation())
		case "m":
			// Back to the prompt with the previous input for refinement
			m.mode = ModePrompt
			m.modalType = ModalNone
			m.prompt.SetValue(m.suggestionInput)
			m.prompt.CursorEnd()
			m.prompt.Focus()
			m.suggestion = nil
			m.suggestionWarnings = nil
			return m, textinput.Blink
		}

	case ModalHelp:
		switch msg.String() {
		case "esc", "enter", "q", "?":
			m.mode = ModeNormal
			m.modalType = ModalNone
			return m, nil
		}

	default:
		if msg.String() == "esc" {
			m.mode = ModeNormal
			m.modalType = ModalNone
			return m, nil
		}
	}
	return m, nil
}

// copyWeekSummary puts a plain-text week summary on the clipboard.
func (m Model) copyWeekSummary() (tea.Model, tea.Cmd) {
	week := m.grid.Week()
	if week == nil {
		m.statusMsg = "Nothing to copy"
		return m, nil
	}

	text := buildWeekCopyText(week)
	if err := clipboard.WriteAll(text); err != nil {
		m.statusMsg = fmt.Sprintf("Copy failed: %v", err)
		return m, nil
	}
	m.statusMsg = "Copied week summary"
	return m, nil
}
