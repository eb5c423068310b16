package slot

import (
	"errors"
	"fmt"
)

// Granularity constants.
const (
	TickMinutes   = 10
	MinutesPerDay = 24 * 60

	// EndOfDay is the only end bound that is not a valid start value.
	EndOfDay TimeOfDay = MinutesPerDay
	// LastTick is the start of the final tick of the day (23:50).
	LastTick TimeOfDay = MinutesPerDay - TickMinutes
	// TicksPerDay is the number of ticks in a full day.
	TicksPerDay = MinutesPerDay / TickMinutes
)

// ErrInvalidTimeFormat is returned for malformed time-of-day text.
var ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")

// TimeOfDay is a count of minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" with 0 <= HH < 24 and 0 <= MM < 60.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	h, ok1 := twoDigits(s[0], s[1])
	m, ok2 := twoDigits(s[3], s[4])
	if !ok1 || !ok2 || h >= 24 || m >= 60 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return TimeOfDay(h*60 + m), nil
}

// ParseEndTime is like ParseTimeOfDay but also accepts "24:00" as an end bound.
func ParseEndTime(s string) (TimeOfDay, error) {
	if s == "24:00" {
		return EndOfDay, nil
	}
	return ParseTimeOfDay(s)
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// String formats the value as zero-padded "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

// Valid reports whether t can be used as a start value.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < EndOfDay
}

// Duration returns b - a in minutes.
// Overnight ranges must be split before calling.
func Duration(a, b TimeOfDay) int {
	return int(b - a)
}

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) overlap. Touching ranges do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && aEnd > bStart
}

// NextTick advances t by one tick.
func NextTick(t TimeOfDay) TimeOfDay {
	return t + TickMinutes
}

// TruncateToTick rounds t down to the tick boundary.
func TruncateToTick(t TimeOfDay) TimeOfDay {
	return t - t%TickMinutes
}
