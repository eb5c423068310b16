package slot

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/slotwise/internal/dateutil"
)

// Set holds the stored slots of one profile. Within an anchor no two slots
// of the same kind overlap, and a holiday-blocked date holds nothing else.
type Set struct {
	slots []Slot // sorted by Compare
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{}
}

// NewSetWithSlots loads stored slots. It returns ErrOverlap if the slots
// overlap where one would block the other.
func NewSetWithSlots(slots []Slot) (*Set, error) {
	for i, a := range slots {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("slot %s: %w", a.ID, err)
		}
		for _, b := range slots[i+1:] {
			if covers(a, b.Kind) && a.OverlapsWith(b) {
				return nil, fmt.Errorf("%w: %s conflicts with %s", ErrOverlap, a, b)
			}
		}
	}
	set := &Set{slots: slices.Clone(slots)}
	Sort(set.slots)
	return set, nil
}

// covers reports whether an existing slot blocks insertion of kind.
func covers(existing Slot, kind Kind) bool {
	return existing.Kind == kind || existing.Kind == KindHoliday || kind == KindHoliday
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	return &Set{slots: slices.Clone(s.slots)}
}

// Slots returns a copy of the stored slots.
func (s *Set) Slots() []Slot {
	return slices.Clone(s.slots)
}

// Len returns the number of stored slots.
func (s *Set) Len() int {
	return len(s.slots)
}

// Get returns the slot with the given ID.
func (s *Set) Get(id uuid.UUID) (Slot, bool) {
	for _, sl := range s.slots {
		if sl.ID == id {
			return sl, true
		}
	}
	return Slot{}, false
}

// Add inserts the part of sl not already covered by a slot of the same
// kind on the same anchor, then compacts the set. It returns the pieces
// that were actually inserted, which may be empty.
func (s *Set) Add(sl Slot) ([]Slot, error) {
	if sl.ID == uuid.Nil {
		sl.ID = uuid.New()
	}
	if err := sl.Validate(); err != nil {
		return nil, err
	}

	var blockers []Slot
	for _, existing := range s.slots {
		if existing.Anchor == sl.Anchor && covers(existing, sl.Kind) {
			blockers = append(blockers, existing)
		}
	}

	pieces := Subtract(sl, blockers)
	s.slots = Merge(append(s.slots, pieces...))
	return pieces, nil
}

// Subtract returns the parts of sl not overlapped by any of covers.
// The first remaining piece keeps the ID of sl.
func Subtract(sl Slot, covers []Slot) []Slot {
	remaining := []Slot{sl}
	for _, c := range covers {
		var next []Slot
		for _, r := range remaining {
			if !Overlaps(r.Start, r.End, c.Start, c.End) {
				next = append(next, r)
				continue
			}
			if r.Start < c.Start {
				left := r
				left.End = c.Start
				next = append(next, left)
			}
			if r.End > c.End {
				right := r
				right.Start = c.End
				next = append(next, right)
			}
		}
		remaining = next
	}
	for i := 1; i < len(remaining); i++ {
		remaining[i].ID = uuid.New()
	}
	return remaining
}

// Remove deletes the slot with the given ID.
func (s *Set) Remove(id uuid.UUID) (Slot, error) {
	for i, sl := range s.slots {
		if sl.ID == id {
			s.slots = slices.Delete(s.slots, i, i+1)
			return sl, nil
		}
	}
	return Slot{}, fmt.Errorf("%w: %s", ErrSlotNotFound, id)
}

// Replace swaps the slot with the given ID for sl, re-checking overlaps.
// The replaced slot is restored if sl cannot be stored whole.
func (s *Set) Replace(id uuid.UUID, sl Slot) error {
	old, err := s.Remove(id)
	if err != nil {
		return err
	}
	for _, existing := range s.slots {
		if existing.Anchor == sl.Anchor && covers(existing, sl.Kind) &&
			Overlaps(existing.Start, existing.End, sl.Start, sl.End) {
			s.slots = Merge(append(s.slots, old))
			return fmt.Errorf("%w: %s conflicts with %s", ErrOverlap, sl, existing)
		}
	}
	if err := sl.Validate(); err != nil {
		s.slots = Merge(append(s.slots, old))
		return err
	}
	s.slots = Merge(append(s.slots, sl))
	return nil
}

// RemoveDateRange deletes every date-anchored slot between from and to
// (inclusive) and returns how many were removed.
func (s *Set) RemoveDateRange(from, to time.Time) int {
	r := dateutil.DateRange{Start: from, End: to}
	before := len(s.slots)
	s.slots = slices.DeleteFunc(s.slots, func(sl Slot) bool {
		return sl.Anchor.IsDate() && r.Contains(sl.Anchor.Time())
	})
	return before - len(s.slots)
}

// ForAnchor returns the slots stored on one anchor.
func (s *Set) ForAnchor(a Anchor) []Slot {
	var out []Slot
	for _, sl := range s.slots {
		if sl.Anchor == a {
			out = append(out, sl)
		}
	}
	return out
}

// ForDate returns every slot that applies to date, both recurring and
// date-anchored, without resolving precedence.
func (s *Set) ForDate(date time.Time) []Slot {
	var out []Slot
	for _, sl := range s.slots {
		if sl.Anchor.AppliesTo(date) {
			out = append(out, sl)
		}
	}
	return out
}

// Effective resolves what is in force on date. Date-anchored slots shadow
// recurring slots of the same kind over the same clock range, and a
// holiday-blocked date shadows every recurring slot.
func (s *Set) Effective(date time.Time) []Slot {
	dated := s.ForAnchor(OnDate(date))
	if IsHolidayBlocked(dated, date) {
		return dated
	}

	out := slices.Clone(dated)
	for _, sl := range s.slots {
		if !sl.Anchor.IsWeekday() || !sl.Anchor.AppliesTo(date) {
			continue
		}
		var shadows []Slot
		for _, d := range dated {
			if d.Kind == sl.Kind {
				shadows = append(shadows, d)
			}
		}
		out = append(out, Subtract(sl, shadows)...)
	}
	slices.SortFunc(out, func(a, b Slot) int {
		if a.Start != b.Start {
			return int(a.Start - b.Start)
		}
		return Compare(a, b)
	})
	return out
}

// CycleResult describes the tick after a CycleAt click.
type CycleResult struct {
	Start    TimeOfDay
	End      TimeOfDay
	Priority Priority
	Deleted  bool
}

// CycleAt applies one priority click to the tick containing t. Merged
// ranges are expanded to ticks, the tick is cycled, and the anchor is
// re-merged. An empty tick is created as Preferred.
func (s *Set) CycleAt(anchor Anchor, kind Kind, t TimeOfDay) (CycleResult, error) {
	if !t.Valid() {
		return CycleResult{}, fmt.Errorf("%w: %s", ErrInvalidTimeFormat, t)
	}
	switch kind {
	case KindHoliday:
		return CycleResult{}, fmt.Errorf("%w: holiday ticks are toggled per date", ErrInvalidKind)
	case KindEvent:
		return CycleResult{}, fmt.Errorf("%w: events are moved, not cycled", ErrInvalidKind)
	}
	tick := TruncateToTick(t)

	for i, sl := range s.slots {
		if sl.Anchor != anchor || !sl.Contains(t) {
			continue
		}
		if sl.Kind == KindHoliday {
			return CycleResult{}, fmt.Errorf("%w: %s is a holiday", ErrOverlap, anchor)
		}
		if sl.Kind != kind {
			continue
		}

		pieces := Expand(sl)
		rest := slices.Delete(slices.Clone(s.slots), i, i+1)
		result := CycleResult{}
		for j, p := range pieces {
			if !p.Contains(t) {
				continue
			}
			result.Start, result.End = p.Start, p.End
			next, keep := p.Priority.Next()
			if !keep {
				pieces = slices.Delete(pieces, j, j+1)
				result.Deleted = true
				result.Priority = Removed
			} else {
				pieces[j].Priority = next
				result.Priority = next
			}
			break
		}
		s.slots = Merge(append(rest, pieces...))
		return result, nil
	}

	end := NextTick(tick)
	created, err := New(anchor, tick, end, Preferred, kind)
	if err != nil {
		return CycleResult{}, err
	}
	if _, err := s.Add(created); err != nil {
		return CycleResult{}, err
	}
	return CycleResult{Start: tick, End: end, Priority: Preferred}, nil
}

// ToggleHoliday flips date between fully blocked and unblocked and
// returns the new state.
func (s *Set) ToggleHoliday(date time.Time) bool {
	slots, blocked := ToggleHoliday(s.slots, date)
	s.slots = slots
	Sort(s.slots)
	return blocked
}
