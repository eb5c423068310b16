// Package summary provides shared week summary utilities.
package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/slotwise/internal/dateutil"
	"github.com/javiermolinar/slotwise/internal/planner"
	"github.com/javiermolinar/slotwise/internal/slot"
)

// WeekSummary holds aggregated availability for one Monday-Sunday week.
type WeekSummary struct {
	Start time.Time
	End   time.Time

	// Available is the resolved availability per priority, in minutes.
	Available map[slot.Priority]int
	// Personal is the blocked personal time in minutes.
	Personal int
	// Events counts booked events; EventMinutes is their total length.
	Events       int
	EventMinutes int
	// Holidays counts holiday-blocked dates.
	Holidays int
	// Busiest is the date with the most event minutes, zero if none.
	Busiest time.Time
}

// SummarizeWeek aggregates resolved days. Days outside the week of
// weekStart are ignored.
func SummarizeWeek(weekStart time.Time, days []planner.Day) *WeekSummary {
	start, end := dateutil.WeekRange(weekStart)
	s := &WeekSummary{
		Start:     start,
		End:       end,
		Available: make(map[slot.Priority]int, 3),
	}
	week := dateutil.DateRange{Start: start, End: end}

	busiest := 0
	for _, d := range days {
		if !week.Contains(d.Date) {
			continue
		}
		if slot.IsHolidayBlocked(d.Slots, d.Date) {
			s.Holidays++
			continue
		}

		booked := 0
		for _, sl := range d.Slots {
			switch sl.Kind {
			case slot.KindAvailability:
				s.Available[sl.Priority] += sl.Duration()
			case slot.KindPersonal:
				s.Personal += sl.Duration()
			case slot.KindEvent:
				s.Events++
				booked += sl.Duration()
			}
		}
		s.EventMinutes += booked
		if booked > busiest {
			busiest = booked
			s.Busiest = d.Date
		}
	}
	return s
}

// TotalAvailable returns availability minutes across all priorities.
func (s *WeekSummary) TotalAvailable() int {
	total := 0
	for _, m := range s.Available {
		total += m
	}
	return total
}

// Lines renders the summary as short display lines.
func (s *WeekSummary) Lines() []string {
	var parts []string
	for _, p := range []slot.Priority{slot.Preferred, slot.Normal, slot.Flexible} {
		if m := s.Available[p]; m > 0 {
			parts = append(parts, fmt.Sprintf("%s %s", p.Label(), FormatMinutes(m)))
		}
	}
	avail := "Available: none"
	if len(parts) > 0 {
		avail = fmt.Sprintf("Available: %s (%s)", FormatMinutes(s.TotalAvailable()), strings.Join(parts, ", "))
	}

	lines := []string{
		avail,
		fmt.Sprintf("Events: %d (%s)", s.Events, FormatMinutes(s.EventMinutes)),
	}
	if s.Personal > 0 {
		lines = append(lines, "Personal: "+FormatMinutes(s.Personal))
	}
	if s.Holidays > 0 {
		lines = append(lines, fmt.Sprintf("Holidays: %d", s.Holidays))
	}
	if !s.Busiest.IsZero() {
		lines = append(lines, "Busiest: "+s.Busiest.Format("Mon Jan 2"))
	}
	return lines
}

// FormatMinutes renders minutes as "2h30m", "2h" or "45m".
func FormatMinutes(m int) string {
	h, rest := m/60, m%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", rest)
	case rest == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, rest)
	}
}
