package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/javiermolinar/slotwise/internal/conflict"
	"github.com/javiermolinar/slotwise/internal/dateutil"
	"github.com/javiermolinar/slotwise/internal/planner"
	"github.com/javiermolinar/slotwise/internal/search"
	"github.com/javiermolinar/slotwise/internal/slot"
)

// parseCandidate builds a candidate from CLI date and clock flags. An end
// at or before the start rolls over to the next day.
func parseCandidate(title, date, start, end string, now time.Time) (conflict.Candidate, error) {
	day, err := dateutil.ParseRelativeDate(date, now)
	if err != nil {
		return conflict.Candidate{}, fmt.Errorf("date %q: %w", date, err)
	}
	from, err := slot.ParseTimeOfDay(start)
	if err != nil {
		return conflict.Candidate{}, fmt.Errorf("start: %w", err)
	}
	to, err := slot.ParseEndTime(end)
	if err != nil {
		return conflict.Candidate{}, fmt.Errorf("end: %w", err)
	}

	endDay := day
	if to <= from {
		endDay = day.AddDate(0, 0, 1)
	}
	return conflict.NewCandidate(title, dateutil.At(day, int(from)), dateutil.At(endDay, int(to)))
}

// parseAnchor accepts a weekday ("mon", "friday", "5") or a YYYY-MM-DD date.
func parseAnchor(s string) (slot.Anchor, error) {
	if wd, err := dateutil.ParseWeekday(s); err == nil {
		return slot.OnWeekday(wd), nil
	}
	a, err := slot.ParseDateAnchor(strings.TrimSpace(s))
	if err != nil {
		return slot.Anchor{}, fmt.Errorf("%q is neither a weekday nor a date", s)
	}
	return a, nil
}

// slotLine renders one slot as a table row.
func slotLine(sl slot.Slot) string {
	clock := fmt.Sprintf("%s-%s", sl.Start, sl.End)
	label := string(sl.Kind)
	if sl.Title != "" {
		label = sl.Title
	}
	if sl.Location != "" {
		label += formatMuted(" @ " + sl.Location)
	}
	return fmt.Sprintf("%s  %-9s  %s  %s",
		formatKind(sl, clock),
		formatPriority(sl.Priority, sl.Priority.Label()),
		label,
		formatMuted(sl.ID.String()[:8]),
	)
}

// printSlots prints slots grouped under their anchor.
func printSlots(w io.Writer, slots []slot.Slot) {
	var current slot.Anchor
	for i, sl := range slots {
		if i == 0 || sl.Anchor != current {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "  %s\n", formatHeader(anchorTitle(sl.Anchor)))
			current = sl.Anchor
		}
		fmt.Fprintf(w, "    %s\n", slotLine(sl))
	}
}

// anchorTitle renders an anchor for headings.
func anchorTitle(a slot.Anchor) string {
	if a.IsDate() {
		return a.Time().Format("Mon Jan 2, 2006")
	}
	return "Every " + a.Weekday().String()
}

// printRecommendations prints numbered offers.
func printRecommendations(w io.Writer, recs []search.Recommendation) {
	for i, r := range recs {
		fmt.Fprintf(w, "    %d. %s %s\n", i+1, r.Label, formatMuted(offsetLabel(r.OffsetMinutes)))
	}
}

// offsetLabel renders a probe offset such as "(-1h)" or "(+30m)".
func offsetLabel(minutes int) string {
	if minutes == 0 {
		return "(same time)"
	}
	sign := "+"
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	switch {
	case minutes%60 == 0:
		return fmt.Sprintf("(%s%dh)", sign, minutes/60)
	case minutes > 60:
		return fmt.Sprintf("(%s%dh%02dm)", sign, minutes/60, minutes%60)
	default:
		return fmt.Sprintf("(%s%dm)", sign, minutes)
	}
}

// printProposal renders the outcome of a conflict check.
func printProposal(w io.Writer, prop *planner.Proposal) {
	c := prop.Candidate
	fmt.Fprintf(w, "  %s %s\n", formatHeader(c.Title), search.Label(c.Start, c.End))

	if prop.Free() {
		fmt.Fprintf(w, "  %s\n", formatSuccess("No conflicts."))
		return
	}
	if prop.Result.Duplicate {
		first, _ := prop.Result.First()
		fmt.Fprintf(w, "  %s %s\n", formatConflict("Already on your calendar:"), slotLine(first))
		return
	}

	fmt.Fprintf(w, "  %s\n", formatConflict(fmt.Sprintf("Conflicts with %d commitment(s):", len(prop.Result.Conflicts))))
	for _, sl := range prop.Result.Conflicts {
		fmt.Fprintf(w, "    %s\n", slotLine(sl))
	}

	fmt.Fprintln(w)
	switch {
	case len(prop.Alternatives) == 0:
		fmt.Fprintf(w, "  %s\n", formatMuted("No conflict-free time found nearby."))
	case prop.DaysAhead > 0:
		fmt.Fprintf(w, "  Nothing free that day. Alternatives %d day(s) later:\n", prop.DaysAhead)
		printRecommendations(w, prop.Alternatives)
	default:
		fmt.Fprintln(w, "  Alternatives:")
		printRecommendations(w, prop.Alternatives)
	}

	if prop.Displaced != nil && len(prop.Reschedule) > 0 {
		fmt.Fprintf(w, "\n  Or move %q to:\n", prop.Displaced.Title)
		printRecommendations(w, prop.Reschedule)
	}
}
