package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Available slots: green, the provider wants these to stand out
	colorAvailable = color.New(color.FgGreen)

	// Booked slots: bold yellow, committed time
	colorBooked = color.New(color.FgYellow, color.Bold)

	// Blocked slots: dim/grey
	colorBlocked = color.New(color.FgWhite, color.Faint)

	// Provisional slots: cyan, not yet confirmed by the server
	colorProvisional = color.New(color.FgCyan, color.Faint)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for positive metrics
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	// Warnings: red
	colorWarn = color.New(color.FgRed)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatAvailable formats text for available slots.
func formatAvailable(s string) string {
	return colorAvailable.Sprint(s)
}

// formatBooked formats text for booked slots.
func formatBooked(s string) string {
	return colorBooked.Sprint(s)
}

// formatBlocked formats text for blocked slots.
func formatBlocked(s string) string {
	return colorBlocked.Sprint(s)
}

// formatProvisional formats text for provisional slots.
func formatProvisional(s string) string {
	return colorProvisional.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// formatWarn formats text as a warning.
func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}
