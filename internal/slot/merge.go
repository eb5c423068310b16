package slot

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Compare is the total order used by Merge: anchor, kind, start, end,
// priority, title, then ID.
func Compare(a, b Slot) int {
	if c := a.Anchor.Compare(b.Anchor); c != 0 {
		return c
	}
	if c := strings.Compare(string(a.Kind), string(b.Kind)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	if c := cmp.Compare(a.End, b.End); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
		return c
	}
	if c := strings.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}

// Sort orders slots in place by Compare.
func Sort(slots []Slot) {
	slices.SortFunc(slots, Compare)
}

// groupCompare orders by merge group first so that foldable pieces are
// contiguous, then by start.
func groupCompare(a, b Slot) int {
	if c := a.Anchor.Compare(b.Anchor); c != 0 {
		return c
	}
	if c := strings.Compare(string(a.Kind), string(b.Kind)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
		return c
	}
	if c := strings.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	if c := strings.Compare(a.Location, b.Location); c != 0 {
		return c
	}
	return Compare(a, b)
}

// Merge collapses strictly adjacent slots that share anchor, kind, priority
// and title into single ranges. The input is not modified. A merged range
// keeps the ID of its earliest piece. The result is ordered by Compare.
func Merge(slots []Slot) []Slot {
	if len(slots) == 0 {
		return nil
	}
	sorted := slices.Clone(slots)
	slices.SortFunc(sorted, groupCompare)

	merged := make([]Slot, 0, len(sorted))
	group := sorted[0]
	for _, s := range sorted[1:] {
		if group.sameGroup(s) && group.End == s.Start {
			group.End = s.End
			continue
		}
		merged = append(merged, group)
		group = s
	}
	merged = append(merged, group)
	Sort(merged)
	return merged
}

// Split cuts s at a point strictly inside it. The first half keeps the ID.
func Split(s Slot, at TimeOfDay) (Slot, Slot, error) {
	if at <= s.Start || at >= s.End {
		return Slot{}, Slot{}, fmt.Errorf("%w: split point %s outside %s-%s", ErrInvalidRange, at, s.Start, s.End)
	}
	first, second := s, s
	first.End = at
	second.Start = at
	second.ID = uuid.New()
	return first, second, nil
}

// Expand breaks s into tick-aligned pieces. Unaligned edges produce
// shorter first or last pieces. The first piece keeps the ID.
func Expand(s Slot) []Slot {
	var pieces []Slot
	for start := s.Start; start < s.End; {
		end := min(TruncateToTick(start)+TickMinutes, s.End)
		piece := s
		piece.Start = start
		piece.End = end
		if start != s.Start {
			piece.ID = uuid.New()
		}
		pieces = append(pieces, piece)
		start = end
	}
	return pieces
}
