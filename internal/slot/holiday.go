package slot

import (
	"time"

	"github.com/google/uuid"
)

// IsHolidayBlocked reports whether any holiday slot is anchored on date.
func IsHolidayBlocked(slots []Slot, date time.Time) bool {
	anchor := OnDate(date)
	for _, s := range slots {
		if s.Anchor == anchor && s.Kind == KindHoliday {
			return true
		}
	}
	return false
}

// ToggleHoliday flips date between fully blocked and fully unblocked.
// Either way every slot anchored on date is removed first; when the date
// was not blocked, a full day of holiday ticks is inserted. The input is
// not modified. The second result is the new state.
func ToggleHoliday(slots []Slot, date time.Time) ([]Slot, bool) {
	anchor := OnDate(date)
	wasBlocked := IsHolidayBlocked(slots, date)

	out := make([]Slot, 0, len(slots)+TicksPerDay)
	for _, s := range slots {
		if s.Anchor != anchor {
			out = append(out, s)
		}
	}
	if wasBlocked {
		return out, false
	}
	return append(out, HolidayTicks(anchor)...), true
}

// HolidayTicks returns a full 00:00-24:00 sequence of holiday ticks.
func HolidayTicks(anchor Anchor) []Slot {
	ticks := make([]Slot, 0, TicksPerDay)
	for t := TimeOfDay(0); t < EndOfDay; t = NextTick(t) {
		ticks = append(ticks, Slot{
			ID:       uuid.New(),
			Anchor:   anchor,
			Start:    t,
			End:      NextTick(t),
			Priority: Preferred,
			Kind:     KindHoliday,
		})
	}
	return ticks
}
