package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/turno/internal/tui/theme"
)

// Column width for each day column in the week grid.
const dayColWidth = 9

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorAvailable   lipgloss.Color
	colorBooked      lipgloss.Color
	colorProvisional lipgloss.Color
	colorToday       lipgloss.Color
	colorWarning     lipgloss.Color

	// Title and headers
	TitleStyle          lipgloss.Style
	DayHeaderStyle      lipgloss.Style
	DayHeaderTodayStyle lipgloss.Style
	TimeColumnStyle     lipgloss.Style

	// Slot cell styles
	CellAvailableStyle   lipgloss.Style
	CellBookedStyle      lipgloss.Style
	CellBlockedStyle     lipgloss.Style
	CellProvisionalStyle lipgloss.Style
	CellOffGridStyle     lipgloss.Style
	CursorStyle          lipgloss.Style

	// Footer
	StatsBarStyle      lipgloss.Style
	StatsAvailStyle    lipgloss.Style
	StatsBookedStyle   lipgloss.Style
	StatusStyle        lipgloss.Style
	HelpStyle          lipgloss.Style
	OfflineBadgeStyle  lipgloss.Style
	PromptStyle        lipgloss.Style
	PromptFocusedStyle lipgloss.Style
	PromptTextStyle    lipgloss.Style

	// Modal styles
	ModalStyle            lipgloss.Style
	ModalBgColor          lipgloss.Color
	ModalBackdropColor    lipgloss.Color
	ModalTitleStyle       lipgloss.Style
	ModalBodyStyle        lipgloss.Style
	ModalMetaStyle        lipgloss.Style
	ModalLabelStyle       lipgloss.Style
	ModalHintStyle        lipgloss.Style
	ModalWarnStyle        lipgloss.Style
	ModalPlaceholderStyle lipgloss.Style

	// Containers
	TableStyle lipgloss.Style
	AppStyle   lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	palette := theme.NewPalette(t)

	s.colorBg = palette.Bg
	s.colorBgHighlight = palette.BgHighlight
	s.colorBgSelection = palette.BgSelection
	s.colorFg = palette.Fg
	s.colorFgMuted = palette.FgMuted
	s.colorAccent = palette.Accent
	s.colorAvailable = palette.Available
	s.colorBooked = palette.Booked
	s.colorProvisional = palette.Provisional
	s.colorToday = palette.Today
	s.colorWarning = palette.Warning

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(s.colorFg).
		Background(s.colorBg).
		Width(dayColWidth)

	s.DayHeaderTodayStyle = s.DayHeaderStyle.
		Foreground(s.colorToday)

	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg).
		Width(6)

	cell := lipgloss.NewStyle().
		Width(dayColWidth).
		Align(lipgloss.Center)

	s.CellAvailableStyle = cell.
		Background(palette.AvailableBg).
		Foreground(s.colorFg)

	s.CellBookedStyle = cell.
		Background(palette.BookedBg).
		Foreground(s.colorFg).
		Bold(true)

	s.CellBlockedStyle = cell.
		Background(s.colorBg).
		Foreground(s.colorFgMuted)

	s.CellProvisionalStyle = cell.
		Background(palette.ProvisionalBg).
		Foreground(s.colorFgMuted)

	s.CellOffGridStyle = cell.
		Background(s.colorBg).
		Foreground(s.colorBg)

	s.CursorStyle = cell.
		Background(s.colorBgSelection).
		Foreground(s.colorAccent).
		Bold(true)

	s.StatsBarStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)

	s.StatsAvailStyle = lipgloss.NewStyle().
		Foreground(s.colorAvailable).
		Background(s.colorBg).
		Bold(true)

	s.StatsBookedStyle = lipgloss.NewStyle().
		Foreground(s.colorBooked).
		Background(s.colorBg).
		Bold(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(s.colorBg).
		Bold(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.OfflineBadgeStyle = lipgloss.NewStyle().
		Foreground(s.colorBg).
		Background(s.colorWarning).
		Bold(true).
		Padding(0, 1)

	s.PromptStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorFgMuted).
		Background(s.colorBgHighlight).
		Foreground(s.colorFg).
		Padding(0, 1)

	s.PromptFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorAccent).
		Background(s.colorBgSelection).
		Foreground(s.colorFg).
		Bold(true).
		Padding(0, 1)

	s.PromptTextStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBgSelection)

	modal := palette.Modal
	s.ModalBgColor = modal.Bg
	s.ModalBackdropColor = modal.Backdrop

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.Border).
		Background(modal.Bg).
		Foreground(modal.Text).
		Padding(1, 2).
		Width(56).
		Align(lipgloss.Left)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalBodyStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalMetaStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.ModalLabelStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Bold(true).
		Width(10).
		Background(modal.Bg)

	s.ModalHintStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.ModalWarnStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(modal.Bg)

	s.ModalPlaceholderStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.TableStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorAccent).
		Background(s.colorBg).
		Padding(0, 1)

	s.AppStyle = lipgloss.NewStyle().
		Background(s.colorBg).
		PaddingTop(1).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingBottom(1)

	return s
}
