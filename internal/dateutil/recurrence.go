package dateutil

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

// WeeklyOccurrences returns every date in [from, to] that falls on one of
// the given weekdays, in chronological order.
func WeeklyOccurrences(weekdays []time.Weekday, from, to time.Time) ([]time.Time, error) {
	if len(weekdays) == 0 {
		return nil, nil
	}
	start := TruncateToDay(from)
	end := TruncateToDay(to)
	if end.Before(start) {
		return nil, ErrEndDateBeforeStart
	}

	byDay := make([]rrule.Weekday, 0, len(weekdays))
	for _, wd := range weekdays {
		byDay = append(byDay, rruleWeekdays[wd])
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   start,
		Byweekday: byDay,
		Until:     end,
	})
	if err != nil {
		return nil, fmt.Errorf("building weekly rule: %w", err)
	}
	return rule.All(), nil
}
