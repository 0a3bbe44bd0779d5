// Package tui provides the interactive week grid for turno.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/turno/internal/cache"
	"github.com/javiermolinar/turno/internal/config"
	"github.com/javiermolinar/turno/internal/grid"
	"github.com/javiermolinar/turno/internal/slot"
	"github.com/javiermolinar/turno/internal/tui/commands"
	"github.com/javiermolinar/turno/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt      // Typing a pattern description
	ModeModal
)

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalBooking
	ModalBatchConfirm
	ModalSuggestion // LLM pattern suggestion awaiting accept/cancel
	ModalHelp
)

// Position represents a cursor position in the grid.
type Position struct {
	Day int // 0=Monday, 6=Sunday
	Row int // Index into the weekday time grid
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	store     slot.Store
	snapshots *cache.SQLite
	config    *config.Config

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Week state
	grid    *grid.Grid
	cursor  Position
	mode    Mode
	loading bool

	// Snapshot fallback state
	offline      bool // showing a cached snapshot
	snapshotTime time.Time

	// Modal state
	modalType      ModalType
	bookingDate    time.Time
	bookingTime    string
	bookingDetail  *slot.BookingDetail
	batchAvailable bool // pending batch direction
	batchCount     int

	// Pattern suggestion state
	suggestion         *slot.WorkingPattern
	suggestionWarnings []string
	suggestionInput    string

	// Overlay state
	overlay OverlayModel

	// Components
	prompt textinput.Model

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string
	statusTime time.Time

	// Error state
	err error
}

// New creates a new TUI model.
func New(store slot.Store, snapshots *cache.SQLite, cfg *config.Config) *Model {
	ti := textinput.New()
	ti.Placeholder = "describe your working hours, e.g. \"mornings only during the week\""
	ti.CharLimit = 256

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}

	styles := NewStyles(t)
	ti.PlaceholderStyle = styles.ModalPlaceholderStyle
	ti.TextStyle = styles.PromptTextStyle
	ti.PromptStyle = styles.PromptTextStyle

	now := time.Now()
	g := grid.New(store, now)

	return &Model{
		store:     store,
		snapshots: snapshots,
		config:    cfg,
		theme:     t,
		styles:    styles,
		grid:      g,
		cursor:    Position{Day: weekdayIndex(now), Row: 0},
		mode:      ModeNormal,
		loading:   true,
		prompt:    ti,
		overlay:   NewOverlayModel(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return commands.LoadWeek(m.store, m.grid.WeekStartDate(), m.grid.Generation())
}

// Run starts the TUI.
func Run(store slot.Store, snapshots *cache.SQLite, cfg *config.Config) error {
	return RunWithDebug(store, snapshots, cfg, false)
}

// RunWithDebug starts the TUI with optional debug logging.
func RunWithDebug(store slot.Store, snapshots *cache.SQLite, cfg *config.Config, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	model := New(store, snapshots, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// weekdayIndex converts a time to a Monday-based weekday index.
func weekdayIndex(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}
