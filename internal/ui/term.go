package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/slotwise/internal/slot"
)

// Color definitions for consistent styling across the UI.
var (
	// Priorities: green for preferred, yellow for normal, grey for flexible
	colorPreferred = color.New(color.FgGreen, color.Bold)
	colorNormal    = color.New(color.FgYellow)
	colorFlexible  = color.New(color.FgWhite, color.Faint)

	// Holidays and conflicts: red so they stand out
	colorHoliday  = color.New(color.FgRed, color.Bold)
	colorConflict = color.New(color.FgRed)

	// Events: cyan
	colorEvent = color.New(color.FgCyan)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Success: green for stored or free results
	colorSuccess = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
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

// formatPriority colors text by priority.
func formatPriority(p slot.Priority, s string) string {
	switch p {
	case slot.Preferred:
		return colorPreferred.Sprint(s)
	case slot.Normal:
		return colorNormal.Sprint(s)
	case slot.Flexible:
		return colorFlexible.Sprint(s)
	default:
		return s
	}
}

// formatKind colors text by kind, falling back to priority colors for
// availability.
func formatKind(sl slot.Slot, s string) string {
	switch sl.Kind {
	case slot.KindHoliday:
		return colorHoliday.Sprint(s)
	case slot.KindEvent:
		return colorEvent.Sprint(s)
	default:
		return formatPriority(sl.Priority, s)
	}
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatConflict formats text for conflicts.
func formatConflict(s string) string {
	return colorConflict.Sprint(s)
}

// formatSuccess formats text for positive results.
func formatSuccess(s string) string {
	return colorSuccess.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
