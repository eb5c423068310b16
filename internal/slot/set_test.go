package slot

import (
	"errors"
	"testing"
	"time"
)

func TestNewSetWithSlots_RejectsOverlap(t *testing.T) {
	a := mustNew(t, monday, 540, 600, Normal, KindAvailability)
	b := mustNew(t, monday, 570, 630, Preferred, KindAvailability)

	if _, err := NewSetWithSlots([]Slot{a, b}); !errors.Is(err, ErrOverlap) {
		t.Errorf("expected ErrOverlap, got %v", err)
	}

	// Different kinds may overlap.
	p := mustNew(t, monday, 570, 630, Preferred, KindPersonal)
	set, err := NewSetWithSlots([]Slot{a, p})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}
}

func TestSet_AddSubtractsCoveredTime(t *testing.T) {
	set := NewSet()
	if _, err := set.Add(mustNew(t, monday, 600, 660, Preferred, KindAvailability)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	added, err := set.Add(mustNew(t, monday, 540, 720, Normal, KindAvailability))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if len(added) != 2 {
		t.Fatalf("expected 2 inserted pieces, got %v", added)
	}
	if added[0].Start != 540 || added[0].End != 600 || added[1].Start != 660 || added[1].End != 720 {
		t.Errorf("inserted %v, want 09:00-10:00 and 11:00-12:00", added)
	}
	if added[0].ID == added[1].ID {
		t.Error("pieces should have distinct IDs")
	}

	added, err = set.Add(mustNew(t, monday, 600, 660, Flexible, KindAvailability))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if len(added) != 0 {
		t.Errorf("fully covered add should insert nothing, got %v", added)
	}
	if set.Len() != 3 {
		t.Errorf("Len() = %d, want 3", set.Len())
	}
}

func TestSet_AddMergesAdjacent(t *testing.T) {
	set := NewSet()
	for _, r := range [][2]TimeOfDay{{540, 550}, {550, 560}} {
		if _, err := set.Add(mustNew(t, monday, r[0], r[1], Preferred, KindAvailability)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	if _, err := set.Add(mustNew(t, monday, 560, 570, Flexible, KindAvailability)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	slots := set.Slots()
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %v", slots)
	}
	if slots[0].Start != 540 || slots[0].End != 560 || slots[0].Priority != Preferred {
		t.Errorf("slots[0] = %s", slots[0])
	}
	if slots[1].Priority != Flexible {
		t.Errorf("slots[1] = %s", slots[1])
	}
}

func TestSet_AddRejectsInvalid(t *testing.T) {
	set := NewSet()
	_, err := set.Add(Slot{Anchor: monday, Start: 600, End: 540, Priority: Normal, Kind: KindAvailability})
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestSet_RemoveAndReplace(t *testing.T) {
	set := NewSet()
	a := mustNew(t, monday, 540, 600, Normal, KindPersonal)
	b := mustNew(t, monday, 660, 720, Normal, KindPersonal)
	for _, s := range []Slot{a, b} {
		if _, err := set.Add(s); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	moved := a
	moved.Start, moved.End = 690, 750
	if err := set.Replace(a.ID, moved); !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}
	if got, ok := set.Get(a.ID); !ok || got != a {
		t.Error("failed replace should restore the original slot")
	}

	moved.Start, moved.End = 780, 840
	if err := set.Replace(a.ID, moved); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if got, _ := set.Get(a.ID); got.Start != 780 {
		t.Errorf("replaced slot starts at %s, want 13:00", got.Start)
	}

	if _, err := set.Remove(b.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := set.Remove(b.ID); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("expected ErrSlotNotFound, got %v", err)
	}
	if set.Len() != 1 {
		t.Errorf("Len() = %d, want 1", set.Len())
	}
}

func TestSet_CycleAt(t *testing.T) {
	set := NewSet()
	if _, err := set.Add(mustNew(t, monday, 540, 600, Preferred, KindAvailability)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	res, err := set.CycleAt(monday, KindAvailability, 565)
	if err != nil {
		t.Fatalf("CycleAt failed: %v", err)
	}
	if res.Start != 560 || res.End != 570 || res.Priority != Normal || res.Deleted {
		t.Errorf("CycleAt = %+v", res)
	}

	slots := set.ForAnchor(monday)
	want := []struct {
		start, end TimeOfDay
		p          Priority
	}{
		{540, 560, Preferred},
		{560, 570, Normal},
		{570, 600, Preferred},
	}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %v", len(want), slots)
	}
	for i, w := range want {
		if slots[i].Start != w.start || slots[i].End != w.end || slots[i].Priority != w.p {
			t.Errorf("slot %d = %s, want %s-%s %s", i, slots[i], w.start, w.end, w.p)
		}
	}

	// Normal -> Flexible -> removed, then back to one gap.
	for _, wantP := range []Priority{Flexible, Removed} {
		res, err = set.CycleAt(monday, KindAvailability, 560)
		if err != nil {
			t.Fatalf("CycleAt failed: %v", err)
		}
		if res.Priority != wantP {
			t.Errorf("CycleAt priority = %s, want %s", res.Priority, wantP)
		}
	}
	if !res.Deleted {
		t.Error("third click should delete the tick")
	}
	if n := len(set.ForAnchor(monday)); n != 2 {
		t.Errorf("expected 2 slots around the gap, got %d", n)
	}

	// Clicking the gap recreates a Preferred tick, which re-merges.
	res, err = set.CycleAt(monday, KindAvailability, 560)
	if err != nil {
		t.Fatalf("CycleAt failed: %v", err)
	}
	if res.Priority != Preferred || res.Deleted {
		t.Errorf("CycleAt on empty tick = %+v", res)
	}
	slots = set.ForAnchor(monday)
	if len(slots) != 1 || slots[0].Start != 540 || slots[0].End != 600 {
		t.Errorf("expected single 09:00-10:00 slot, got %v", slots)
	}
}

func TestSet_CycleAtErrors(t *testing.T) {
	set := NewSet()
	date := time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local)
	set.ToggleHoliday(date)

	if _, err := set.CycleAt(OnDate(date), KindAvailability, 600); !errors.Is(err, ErrOverlap) {
		t.Errorf("cycling a holiday: expected ErrOverlap, got %v", err)
	}
	if _, err := set.CycleAt(monday, KindHoliday, 600); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("cycling holiday kind: expected ErrInvalidKind, got %v", err)
	}
	if _, err := set.CycleAt(monday, KindEvent, 600); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("cycling event kind: expected ErrInvalidKind, got %v", err)
	}
	if _, err := set.CycleAt(monday, KindAvailability, EndOfDay); err == nil {
		t.Error("expected error for 24:00")
	}
}

func TestToggleHoliday(t *testing.T) {
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.Local)
	anchor := OnDate(date)
	other := OnDate(date.AddDate(0, 0, 1))

	slots := []Slot{
		mustNew(t, anchor, 540, 600, Normal, KindAvailability),
		mustNew(t, other, 540, 600, Normal, KindAvailability),
		mustNew(t, OnWeekday(time.Friday), 540, 600, Normal, KindAvailability),
	}

	blocked, on := ToggleHoliday(slots, date)
	if !on {
		t.Fatal("first toggle should block the date")
	}
	if !IsHolidayBlocked(blocked, date) {
		t.Error("date should be blocked")
	}
	if got := len(blocked); got != 2+TicksPerDay {
		t.Errorf("expected %d slots, got %d", 2+TicksPerDay, got)
	}
	for _, s := range blocked {
		if s.Anchor == anchor && s.Kind != KindHoliday {
			t.Errorf("non-holiday slot left on blocked date: %s", s)
		}
	}

	unblocked, on := ToggleHoliday(blocked, date)
	if on {
		t.Fatal("second toggle should unblock the date")
	}
	if len(unblocked) != 2 {
		t.Errorf("expected the 2 untouched slots, got %d", len(unblocked))
	}
	if len(slots) != 3 {
		t.Error("ToggleHoliday must not modify its input")
	}

	reblocked, on := ToggleHoliday(unblocked, date)
	if !on || !IsHolidayBlocked(reblocked, date) {
		t.Fatal("third toggle should block the date again")
	}
	if got := len(reblocked); got != 2+TicksPerDay {
		t.Errorf("third toggle: expected %d slots, got %d", 2+TicksPerDay, got)
	}
}

func TestToggleHoliday_StartBlocked(t *testing.T) {
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.Local)
	start := HolidayTicks(OnDate(date))

	unblocked, on := ToggleHoliday(start, date)
	if on {
		t.Fatal("toggling a blocked date should unblock it")
	}
	if len(unblocked) != 0 || IsHolidayBlocked(unblocked, date) {
		t.Errorf("expected no slots left on the date, got %d", len(unblocked))
	}

	blocked, on := ToggleHoliday(unblocked, date)
	if !on {
		t.Fatal("second toggle should block the date")
	}
	holidays := 0
	for _, s := range blocked {
		if s.Kind == KindHoliday && s.Anchor == OnDate(date) {
			holidays++
		}
	}
	if holidays != TicksPerDay {
		t.Errorf("expected %d holiday ticks back, got %d", TicksPerDay, holidays)
	}
}

func TestSet_AdjacentEventsKeepIdentity(t *testing.T) {
	date := OnDate(time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local))
	first, err := NewEvent(date, 600, 660, "Math", "", Normal)
	if err != nil {
		t.Fatalf("NewEvent failed: %v", err)
	}
	second, err := NewEvent(date, 660, 720, "Math", "", Normal)
	if err != nil {
		t.Fatalf("NewEvent failed: %v", err)
	}

	set := NewSet()
	for _, ev := range []Slot{first, second} {
		if _, err := set.Add(ev); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	if set.Len() != 2 {
		t.Fatalf("expected 2 events, got %v", set.Slots())
	}
	for _, ev := range []Slot{first, second} {
		got, ok := set.Get(ev.ID)
		if !ok {
			t.Fatalf("event %s-%s lost its ID", ev.Start, ev.End)
		}
		if got.Start != ev.Start || got.End != ev.End {
			t.Errorf("event %s = %s-%s, want %s-%s", ev.ID, got.Start, got.End, ev.Start, ev.End)
		}
	}
}

func TestSet_HolidayBlocksInsertion(t *testing.T) {
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.Local)
	set := NewSet()
	if !set.ToggleHoliday(date) {
		t.Fatal("expected date to be blocked")
	}

	added, err := set.Add(mustNew(t, OnDate(date), 540, 600, Normal, KindEvent))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if len(added) != 0 {
		t.Errorf("holiday should cover every kind, inserted %v", added)
	}

	if n := len(set.ForAnchor(OnDate(date))); n != TicksPerDay {
		t.Errorf("holiday ticks should stay unmerged, got %d ranges", n)
	}
}

func TestSet_Effective(t *testing.T) {
	date := time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local) // Monday
	set := NewSet()
	for _, s := range []Slot{
		mustNew(t, monday, 540, 720, Preferred, KindAvailability),
		mustNew(t, OnDate(date), 600, 660, Flexible, KindAvailability),
		mustNew(t, monday, 1200, 1260, Normal, KindPersonal),
	} {
		if _, err := set.Add(s); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	got := set.Effective(date)
	want := []struct {
		start, end TimeOfDay
		p          Priority
		kind       Kind
	}{
		{540, 600, Preferred, KindAvailability},
		{600, 660, Flexible, KindAvailability},
		{660, 720, Preferred, KindAvailability},
		{1200, 1260, Normal, KindPersonal},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d slots, got %v", len(want), got)
	}
	for i, w := range want {
		if got[i].Start != w.start || got[i].End != w.end || got[i].Priority != w.p || got[i].Kind != w.kind {
			t.Errorf("slot %d = %s (%s), want %s-%s %s (%s)", i, got[i], got[i].Kind, w.start, w.end, w.p, w.kind)
		}
	}

	if n := len(set.Effective(date.AddDate(0, 0, 7))); n != 2 {
		t.Errorf("next Monday: expected the 2 recurring slots, got %d", n)
	}

	set.ToggleHoliday(date)
	for _, s := range set.Effective(date) {
		if s.Kind != KindHoliday {
			t.Errorf("holiday date should only show holiday ticks, got %s", s)
		}
	}
}

func TestSet_ForDate(t *testing.T) {
	date := time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local) // Monday
	set := NewSet()
	for _, s := range []Slot{
		mustNew(t, monday, 540, 720, Preferred, KindAvailability),
		mustNew(t, OnDate(date), 600, 660, Flexible, KindAvailability),
		mustNew(t, OnWeekday(time.Tuesday), 540, 600, Normal, KindAvailability),
		mustNew(t, OnDate(date.AddDate(0, 0, 7)), 540, 600, Normal, KindAvailability),
	} {
		if _, err := set.Add(s); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	got := set.ForDate(date)
	if len(got) != 2 {
		t.Fatalf("expected the Monday template and the override, got %v", got)
	}
	for _, s := range got {
		if !s.Anchor.AppliesTo(date) {
			t.Errorf("%s does not apply to %s", s, date.Format("2006-01-02"))
		}
	}
}

func TestSet_RemoveDateRange(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local)
	set := NewSet()
	for i := 0; i < 5; i++ {
		d := start.AddDate(0, 0, i)
		if _, err := set.Add(mustNew(t, OnDate(d), 540, 600, Normal, KindAvailability)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	if _, err := set.Add(mustNew(t, monday, 540, 600, Normal, KindAvailability)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	removed := set.RemoveDateRange(start.AddDate(0, 0, 1), start.AddDate(0, 0, 3))
	if removed != 3 {
		t.Errorf("removed %d, want 3", removed)
	}
	if set.Len() != 3 {
		t.Errorf("Len() = %d, want 3", set.Len())
	}
}
