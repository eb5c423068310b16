package conflict

import (
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/slotwise/internal/slot"
)

var monday = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func mustCandidate(t *testing.T, title string, start, end time.Time) Candidate {
	t.Helper()
	c, err := NewCandidate(title, start, end)
	if err != nil {
		t.Fatalf("NewCandidate failed: %v", err)
	}
	return c
}

func mustEvent(t *testing.T, date time.Time, start, end slot.TimeOfDay, title string) slot.Slot {
	t.Helper()
	s, err := slot.NewEvent(slot.OnDate(date), start, end, title, "", slot.Normal)
	if err != nil {
		t.Fatalf("NewEvent failed: %v", err)
	}
	return s
}

func TestNewCandidate_InvalidRange(t *testing.T) {
	start := at(monday, 14, 0)
	for _, end := range []time.Time{start, start.Add(-time.Hour)} {
		if _, err := NewCandidate("x", start, end); !errors.Is(err, slot.ErrInvalidRange) {
			t.Errorf("end %v: expected ErrInvalidRange, got %v", end, err)
		}
	}
}

func TestNewCandidate_SubMinute(t *testing.T) {
	start := at(monday, 10, 0)
	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"seconds on start", start.Add(30 * time.Second), start.Add(time.Hour)},
		{"nanoseconds on end", start, start.Add(time.Hour + time.Nanosecond)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewCandidate("x", tc.start, tc.end); !errors.Is(err, ErrSubMinute) {
				t.Errorf("expected ErrSubMinute, got %v", err)
			}
		})
	}
}

func TestSegments(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  []Segment
	}{
		{
			name:  "same day",
			start: at(monday, 14, 0),
			end:   at(monday, 15, 0),
			want:  []Segment{{Date: monday, Start: 840, End: 900}},
		},
		{
			name:  "ends at midnight",
			start: at(monday, 23, 0),
			end:   monday.AddDate(0, 0, 1),
			want:  []Segment{{Date: monday, Start: 1380, End: slot.EndOfDay}},
		},
		{
			name:  "overnight",
			start: at(monday, 23, 0),
			end:   at(monday.AddDate(0, 0, 1), 1, 0),
			want: []Segment{
				{Date: monday, Start: 1380, End: slot.EndOfDay},
				{Date: monday.AddDate(0, 0, 1), Start: 0, End: 60},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mustCandidate(t, "x", tc.start, tc.end).Segments()
			if len(got) != len(tc.want) {
				t.Fatalf("got %d segments, want %d: %+v", len(got), len(tc.want), got)
			}
			for i, w := range tc.want {
				if !got[i].Date.Equal(w.Date) || got[i].Start != w.Start || got[i].End != w.End {
					t.Errorf("segment %d = %+v, want %+v", i, got[i], w)
				}
			}
		})
	}
}

func TestCheck_Overlap(t *testing.T) {
	existing := []slot.Slot{mustEvent(t, monday, 870, 930, "Review")} // 14:30-15:30

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"partial overlap", at(monday, 14, 0), at(monday, 15, 0), true},
		{"touching before", at(monday, 13, 30), at(monday, 14, 30), false},
		{"touching after", at(monday, 15, 30), at(monday, 16, 0), false},
		{"contained", at(monday, 14, 40), at(monday, 15, 0), true},
		{"other day", at(monday.AddDate(0, 0, 1), 14, 0), at(monday.AddDate(0, 0, 1), 15, 0), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Detect(mustCandidate(t, "Call", tc.start, tc.end), existing)
			if res.HasConflict != tc.want {
				t.Errorf("HasConflict = %v, want %v", res.HasConflict, tc.want)
			}
			if res.Duplicate {
				t.Error("unexpected duplicate")
			}
			if tc.want {
				if first, ok := res.First(); !ok || first.ID != existing[0].ID {
					t.Errorf("First() = %v, %v", first, ok)
				}
			}
		})
	}
}

func TestCheck_RecurringCommitments(t *testing.T) {
	gym, err := slot.New(slot.OnWeekday(time.Monday), 1080, 1140, slot.Preferred, slot.KindPersonal)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	existing := []slot.Slot{gym}

	nextMonday := monday.AddDate(0, 0, 7)
	if !Detect(mustCandidate(t, "Dinner", at(nextMonday, 18, 30), at(nextMonday, 19, 30)), existing).HasConflict {
		t.Error("weekday slot should apply to every Monday")
	}
	tuesday := monday.AddDate(0, 0, 1)
	if Detect(mustCandidate(t, "Dinner", at(tuesday, 18, 30), at(tuesday, 19, 30)), existing).HasConflict {
		t.Error("Monday slot should not apply on Tuesday")
	}
}

func TestCheck_ConflictsOrderedByStart(t *testing.T) {
	late := mustEvent(t, monday, 660, 720, "Late")
	early := mustEvent(t, monday, 540, 600, "Early")

	res := Detect(mustCandidate(t, "Long", at(monday, 9, 30), at(monday, 11, 30)), []slot.Slot{late, early})
	if len(res.Conflicts) != 2 {
		t.Fatalf("expected 2 conflicts, got %d", len(res.Conflicts))
	}
	if res.Conflicts[0].ID != early.ID {
		t.Errorf("first conflict = %s, want Early", res.Conflicts[0])
	}
}

func TestCheck_Overnight(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)
	existing := []slot.Slot{mustEvent(t, tuesday, 30, 90, "Early flight")}

	res := Detect(mustCandidate(t, "Party", at(monday, 22, 0), at(tuesday, 1, 0)), existing)
	if !res.HasConflict {
		t.Fatal("expected conflict on the second date")
	}
	if res.Duplicate {
		t.Error("overnight candidates are never duplicates")
	}
}

func TestCheck_Duplicate(t *testing.T) {
	existing := []slot.Slot{mustEvent(t, monday, 840, 900, "Standup")}

	res := Detect(mustCandidate(t, "Standup", at(monday, 14, 0), at(monday, 15, 0)), existing)
	if !res.Duplicate || !res.HasConflict {
		t.Errorf("expected duplicate, got %+v", res)
	}

	res = Detect(mustCandidate(t, "Retro", at(monday, 14, 0), at(monday, 15, 0)), existing)
	if res.Duplicate || !res.HasConflict {
		t.Errorf("different title should be a plain conflict, got %+v", res)
	}
}

func TestDetector_Without(t *testing.T) {
	ev := mustEvent(t, monday, 840, 900, "Standup")
	det := NewDetector([]slot.Slot{ev})

	c := mustCandidate(t, "Standup", at(monday, 14, 30), at(monday, 15, 30))
	if !det.Check(c).HasConflict {
		t.Fatal("expected conflict with the full detector")
	}
	if det.Without(ev.ID).Check(c).HasConflict {
		t.Error("excluded slot should be ignored")
	}
}

func TestFromSlot(t *testing.T) {
	ev := mustEvent(t, monday, 840, 900, "Standup")

	c, err := FromSlot(ev, time.UTC)
	if err != nil {
		t.Fatalf("FromSlot failed: %v", err)
	}
	if c.ID != ev.ID || c.Title != "Standup" {
		t.Errorf("identity not carried: %+v", c)
	}
	if !c.Start.Equal(at(monday, 14, 0)) || c.Duration() != time.Hour {
		t.Errorf("got %v for %v", c.Start, c.Duration())
	}

	weekly, _ := slot.New(slot.OnWeekday(time.Monday), 540, 600, slot.Normal, slot.KindAvailability)
	if _, err := FromSlot(weekly, time.UTC); err == nil {
		t.Error("expected error for weekday-anchored slot")
	}
}

func TestShift(t *testing.T) {
	c := mustCandidate(t, "x", at(monday, 14, 0), at(monday, 15, 0))
	moved := c.Shift(-time.Hour)
	if !moved.Start.Equal(at(monday, 13, 0)) || moved.Duration() != time.Hour {
		t.Errorf("Shift gave %v-%v", moved.Start, moved.End)
	}
}
