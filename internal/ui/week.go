package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotwise/internal/dateutil"
	"github.com/javiermolinar/slotwise/internal/planner"
	"github.com/javiermolinar/slotwise/internal/slot"
	"github.com/javiermolinar/slotwise/internal/summary"
	"github.com/javiermolinar/slotwise/internal/ui/theme"
)

const minColumnWidth = 13

func (a *App) weekCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the resolved schedule for a week",
		Long: `Display Monday through Sunday of the week containing --date as a grid.

Weekly availability is shown with date-specific overrides applied, and a
holiday replaces the whole day.

Example:
  slotwise week --date=2025-01-08`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			day, err := dateutil.ParseDate(date)
			if err != nil {
				return err
			}
			th, err := theme.Load(a.config.UI.Theme)
			if err != nil {
				return err
			}
			if err := a.ensurePlanner(); err != nil {
				return err
			}

			monday, sunday := dateutil.WeekRange(day)
			days, err := a.planner.Agenda(context.Background(), a.currentProfile(), monday, sunday)
			if err != nil {
				return fmt.Errorf("building week: %w", err)
			}

			header := fmt.Sprintf("WEEK: %s - %s", monday.Format("Mon Jan 2"), sunday.Format("Mon Jan 2, 2006"))
			fmt.Printf("\n  %s\n\n", formatHeader(header))
			fmt.Println(renderWeek(days, monday, termWidth(), theme.NewPalette(th)))
			fmt.Println()
			for _, line := range summary.SummarizeWeek(monday, days).Lines() {
				fmt.Printf("  %s\n", formatMuted(line))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any date in the week (YYYY-MM-DD, default: today)")
	return cmd
}

// renderWeek lays out seven day columns side by side.
func renderWeek(days []planner.Day, monday time.Time, width int, pal *theme.Palette) string {
	byKey := make(map[string][]slot.Slot, len(days))
	for _, d := range days {
		byKey[dateutil.Key(d.Date)] = d.Slots
	}

	colWidth := (width - 2) / 7
	if colWidth < minColumnWidth {
		colWidth = minColumnWidth
	}
	column := lipgloss.NewStyle().Width(colWidth).PaddingRight(1)
	heading := lipgloss.NewStyle().Bold(true).Underline(true).Foreground(pal.Accent)

	cols := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		date := monday.AddDate(0, 0, i)
		lines := []string{heading.Render(date.Format("Mon 02"))}
		lines = append(lines, dayLines(byKey[dateutil.Key(date)], date, colWidth-1, pal)...)
		cols = append(cols, column.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// dayLines renders the slots of one date, collapsing a holiday into a
// single line.
func dayLines(slots []slot.Slot, date time.Time, width int, pal *theme.Palette) []string {
	if len(slots) == 0 {
		return []string{lipgloss.NewStyle().Foreground(pal.Muted).Render("-")}
	}
	if slot.IsHolidayBlocked(slots, date) {
		chip := lipgloss.NewStyle().Background(pal.Holiday).Foreground(pal.HolidayText).Bold(true)
		return []string{chip.Render("holiday")}
	}

	lines := make([]string, 0, len(slots))
	for _, sl := range slots {
		text := fmt.Sprintf("%s-%s", sl.Start, sl.End)
		if sl.Title != "" {
			text += " " + sl.Title
		}
		lines = append(lines, slotStyle(sl, pal).MaxWidth(width).Render(text))
	}
	return lines
}

func slotStyle(sl slot.Slot, pal *theme.Palette) lipgloss.Style {
	style := lipgloss.NewStyle()
	switch {
	case sl.Kind == slot.KindEvent:
		return style.Foreground(pal.Event).Bold(true)
	case sl.Kind == slot.KindPersonal:
		return style.Foreground(pal.Personal).Italic(true)
	case sl.Priority == slot.Flexible:
		return style.Foreground(pal.FlexibleSoft)
	default:
		return style.Foreground(pal.Priority(sl.Priority))
	}
}
