package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/turno/internal/dateutil"
	"github.com/javiermolinar/turno/internal/slot"
)

// View renders the TUI.
func (m Model) View() string {
	base := m.renderApp()

	if m.mode == ModeModal && m.modalType != ModalNone {
		m.overlay.active = true
		m.overlay.SetBackground(m.styles.ModalBackdropColor)
		return m.overlay.Render(base, m.width, m.height, m.renderModal())
	}

	return base
}

func (m Model) renderApp() string {
	if m.width > 0 && m.width < 40 {
		return "Terminal too small"
	}

	sections := []string{
		m.renderHeader(),
		m.renderGrid(),
		m.renderFooter(),
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return m.styles.AppStyle.Render(content)
}

func (m Model) renderHeader() string {
	weekStart, weekEnd := dateutil.WeekRange(m.grid.WeekStartDate())

	title := m.styles.TitleStyle.Render("turno")
	rangeLabel := fmt.Sprintf("  %s - %s", weekStart.Format("Jan 2"), weekEnd.Format("Jan 2 2006"))

	line := title + m.styles.StatsBarStyle.Render(rangeLabel)
	if m.offline {
		badge := m.styles.OfflineBadgeStyle.Render("OFFLINE")
		stamp := m.styles.HelpStyle.Render("  snapshot from " + m.snapshotTime.Format("Jan 2 15:04"))
		line += "  " + badge + stamp
	}
	if m.loading {
		line += m.styles.HelpStyle.Render("  loading...")
	}
	return line + "\n"
}

func (m Model) renderGrid() string {
	week := m.grid.Week()
	if week == nil {
		return m.styles.TableStyle.Render("Loading week...")
	}

	var b strings.Builder

	// Header row: day names with dates
	b.WriteString(m.styles.TimeColumnStyle.Render(""))
	today := time.Now()
	weekStart := m.grid.WeekStartDate()
	for i := 0; i < 7; i++ {
		date := weekStart.AddDate(0, 0, i)
		label := fmt.Sprintf("%s %s", slot.WeekdayShortName(i), date.Format("02"))
		style := m.styles.DayHeaderStyle
		if sameDay(date, today) {
			style = m.styles.DayHeaderTodayStyle
		}
		b.WriteString(style.Render(label))
	}
	b.WriteString("\n")

	for row, label := range slot.WeekdayGrid() {
		b.WriteString(m.styles.TimeColumnStyle.Render(label))
		for day := 0; day < 7; day++ {
			b.WriteString(m.renderCell(week, day, row, label))
		}
		b.WriteString("\n")
	}

	return m.styles.TableStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderCell(week *slot.Week, day, row int, label string) string {
	isCursor := m.cursor.Day == day && m.cursor.Row == row

	if !onDayGrid(day, label) {
		if isCursor {
			return m.styles.CursorStyle.Render("")
		}
		return m.styles.CellOffGridStyle.Render("")
	}

	s := week.Day(day).Get(label)
	text, style := cellContent(m.styles, s)
	if isCursor {
		style = m.styles.CursorStyle
	}
	return style.Render(text)
}

func cellContent(styles *Styles, s *slot.Slot) (string, lipgloss.Style) {
	if s == nil {
		return "", styles.CellBlockedStyle
	}
	switch {
	case s.HasBooking:
		return truncate(s.CustomerName(), dayColWidth-2), styles.CellBookedStyle
	case s.Provisional:
		return "?", styles.CellProvisionalStyle
	case s.Available:
		return "open", styles.CellAvailableStyle
	default:
		return "-", styles.CellBlockedStyle
	}
}

func (m Model) renderFooter() string {
	var lines []string

	lines = append(lines, "", m.renderStatsBar())

	if m.mode == ModePrompt {
		lines = append(lines, m.styles.PromptFocusedStyle.Render(m.prompt.View()))
	}

	if m.statusMsg != "" {
		lines = append(lines, m.styles.StatusStyle.Render(m.statusMsg))
	}

	lines = append(lines, m.styles.HelpStyle.Render(m.renderHelp()))
	return strings.Join(lines, "\n")
}

func (m Model) renderStatsBar() string {
	week := m.grid.Week()
	if week == nil {
		return ""
	}
	stats := week.Stats()

	avail := m.styles.StatsAvailStyle.Render(fmt.Sprintf("%d open", stats.Available))
	booked := m.styles.StatsBookedStyle.Render(fmt.Sprintf("%d booked", stats.Booked))
	blocked := m.styles.HelpStyle.Render(fmt.Sprintf("%d blocked", stats.Blocked))

	line := fmt.Sprintf("%s  %s  %s", avail, booked, blocked)
	if day, count := stats.BusiestDay(); day >= 0 {
		line += m.styles.StatsBarStyle.Render(fmt.Sprintf("   busiest: %s (%d)", slot.WeekdayName(day), count))
	}
	return line
}

func (m Model) renderHelp() string {
	switch m.mode {
	case ModePrompt:
		return "enter: suggest pattern - esc: cancel"
	default:
		return "hjkl: move - space: toggle - enter: booking - o/x: batch open/block - i: init - p: pattern - t: today - H/L: week - y: copy - ?: help - q: quit"
	}
}

func (m Model) renderModal() string {
	switch m.modalType {
	case ModalBooking:
		return m.renderBookingModal()
	case ModalBatchConfirm:
		return m.renderBatchModal()
	case ModalSuggestion:
		return m.renderSuggestionModal()
	case ModalHelp:
		return m.renderHelpModal()
	}
	return ""
}

func (m Model) renderBookingModal() string {
	title := m.styles.ModalTitleStyle.Render(
		fmt.Sprintf("Booking  %s %s", m.bookingDate.Format("Mon Jan 2"), m.bookingTime))

	var body string
	if m.bookingDetail == nil {
		body = m.styles.ModalMetaStyle.Render("Loading...")
	} else {
		rows := []string{
			m.styles.ModalLabelStyle.Render("Customer") + m.styles.ModalBodyStyle.Render(m.bookingDetail.CustomerName),
		}
		if m.bookingDetail.ServiceName != "" {
			rows = append(rows, m.styles.ModalLabelStyle.Render("Service")+m.styles.ModalBodyStyle.Render(m.bookingDetail.ServiceName))
		}
		if m.bookingDetail.Status != "" {
			rows = append(rows, m.styles.ModalLabelStyle.Render("Status")+m.styles.ModalBodyStyle.Render(m.bookingDetail.Status))
		}
		if m.bookingDetail.Notes != "" {
			rows = append(rows, m.styles.ModalLabelStyle.Render("Notes")+m.styles.ModalBodyStyle.Render(m.bookingDetail.Notes))
		}
		body = strings.Join(rows, "\n")
	}

	hint := m.styles.ModalHintStyle.Render("esc: close")
	return m.styles.ModalStyle.Render(title + "\n\n" + body + "\n\n" + hint)
}

func (m Model) renderBatchModal() string {
	verb := "open"
	if !m.batchAvailable {
		verb = "block"
	}
	title := m.styles.ModalTitleStyle.Render("Batch " + verb)
	body := m.styles.ModalBodyStyle.Render(
		fmt.Sprintf("This will %s %d slots in the week of %s.\nSlots with a confirmed booking keep their booking.",
			verb, m.batchCount, m.grid.WeekStartDate().Format("Mon Jan 2")))
	hint := m.styles.ModalHintStyle.Render("y/enter: apply - n/esc: cancel")
	return m.styles.ModalStyle.Render(title + "\n\n" + body + "\n\n" + hint)
}

func (m Model) renderSuggestionModal() string {
	title := m.styles.ModalTitleStyle.Render("Suggested pattern")
	if m.suggestion == nil {
		return m.styles.ModalStyle.Render(title + "\n\n" + m.styles.ModalMetaStyle.Render("Loading..."))
	}

	dayNames := make([]string, 0, 7)
	for _, d := range m.suggestion.Weekdays() {
		dayNames = append(dayNames, slot.WeekdayShortName(d))
	}

	rows := []string{
		m.styles.ModalLabelStyle.Render("Pattern") + m.styles.ModalBodyStyle.Render(string(m.suggestion.Kind)),
		m.styles.ModalLabelStyle.Render("Hours") + m.styles.ModalBodyStyle.Render(m.suggestion.StartTime+" - "+m.suggestion.EndTime),
		m.styles.ModalLabelStyle.Render("Days") + m.styles.ModalBodyStyle.Render(strings.Join(dayNames, ", ")),
	}
	body := strings.Join(rows, "\n")

	if len(m.suggestionWarnings) > 0 {
		warns := make([]string, 0, len(m.suggestionWarnings))
		for _, w := range m.suggestionWarnings {
			warns = append(warns, m.styles.ModalWarnStyle.Render("! "+w))
		}
		body += "\n\n" + strings.Join(warns, "\n")
	}

	hint := m.styles.ModalHintStyle.Render("a/enter: apply - m: modify - esc: cancel")
	return m.styles.ModalStyle.Render(title + "\n\n" + body + "\n\n" + hint)
}

func (m Model) renderHelpModal() string {
	title := m.styles.ModalTitleStyle.Render("Keys")
	rows := []string{
		"hjkl / arrows   move around the grid",
		"H / L           previous / next week",
		"t               jump to today",
		"space / a       toggle slot availability",
		"enter           booking details",
		"o / x           open / block the whole week",
		"i               initialize missing slots",
		"p               describe a working pattern",
		"y               copy week summary",
		"r               reload",
		"q               quit",
	}
	body := m.styles.ModalBodyStyle.Render(strings.Join(rows, "\n"))
	hint := m.styles.ModalHintStyle.Render("esc: close")
	return m.styles.ModalStyle.Render(title + "\n\n" + body + "\n\n" + hint)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return string(r[:1])
	}
	return string(r[:max-1]) + "…"
}
