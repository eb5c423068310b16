package slot

import (
	"strings"
	"time"

	"github.com/javiermolinar/slotwise/internal/dateutil"
)

// Anchor is the recurrence key of a slot: either a weekday (recurring) or a
// specific calendar date (override). The zero value is the Sunday weekday anchor.
type Anchor struct {
	weekday time.Weekday
	date    string // YYYY-MM-DD; empty for weekday anchors
}

// OnWeekday returns a recurring anchor.
func OnWeekday(wd time.Weekday) Anchor {
	return Anchor{weekday: wd}
}

// OnDate returns an override anchor for the calendar date of t.
func OnDate(t time.Time) Anchor {
	return Anchor{weekday: t.Weekday(), date: dateutil.Key(t)}
}

// ParseDateAnchor parses a YYYY-MM-DD key into an override anchor.
func ParseDateAnchor(key string) (Anchor, error) {
	t, err := dateutil.ParseKey(key)
	if err != nil {
		return Anchor{}, err
	}
	return OnDate(t), nil
}

// IsDate reports whether the anchor is a specific date.
func (a Anchor) IsDate() bool {
	return a.date != ""
}

// IsWeekday reports whether the anchor recurs weekly.
func (a Anchor) IsWeekday() bool {
	return a.date == ""
}

// Weekday returns the anchored weekday. For date anchors it is the
// weekday of that date.
func (a Anchor) Weekday() time.Weekday {
	return a.weekday
}

// Date returns the anchored date key, empty for weekday anchors.
func (a Anchor) Date() string {
	return a.date
}

// Time returns the anchored date at local midnight; the zero time for
// weekday anchors.
func (a Anchor) Time() time.Time {
	if a.date == "" {
		return time.Time{}
	}
	t, _ := dateutil.ParseKey(a.date)
	return t
}

// AppliesTo reports whether a slot with this anchor is active on date.
func (a Anchor) AppliesTo(date time.Time) bool {
	if a.date != "" {
		return a.date == dateutil.Key(date)
	}
	return a.weekday == date.Weekday()
}

// String returns "mon" style names for weekdays and the date key otherwise.
func (a Anchor) String() string {
	if a.date != "" {
		return a.date
	}
	return strings.ToLower(a.weekday.String()[:3])
}

// Compare orders weekday anchors (Sunday first) before date anchors, and
// date anchors chronologically.
func (a Anchor) Compare(b Anchor) int {
	switch {
	case a.IsWeekday() && b.IsDate():
		return -1
	case a.IsDate() && b.IsWeekday():
		return 1
	case a.IsWeekday():
		return int(a.weekday) - int(b.weekday)
	default:
		return strings.Compare(a.date, b.date)
	}
}
