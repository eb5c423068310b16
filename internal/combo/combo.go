// Package combo builds several non-conflicting timetables from a bag of
// independently extracted schedule items.
package combo

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/javiermolinar/slotwise/internal/slot"
)

// Defaults used when a generator is built with non-positive limits.
const (
	DefaultTarget   = 3
	DefaultAttempts = 50
)

// Item is one extracted recurring entry, e.g. a class from a timetable.
type Item struct {
	Title    string
	Start    slot.TimeOfDay
	End      slot.TimeOfDay
	Weekdays []time.Weekday
	Location string
}

// Conflicts reports whether two items share a weekday and overlap in time.
func Conflicts(a, b Item) bool {
	if !slot.Overlaps(a.Start, a.End, b.Start, b.End) {
		return false
	}
	for _, wd := range a.Weekdays {
		if slices.Contains(b.Weekdays, wd) {
			return true
		}
	}
	return false
}

// Combination is one conflict-free subset of the bag.
type Combination struct {
	Items     []Item
	Signature string
}

// Len returns the number of items that survived.
func (c Combination) Len() int {
	return len(c.Items)
}

// Signature returns a content key that ignores item order.
func Signature(items []Item) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		days := slices.Clone(it.Weekdays)
		slices.Sort(days)
		parts := make([]string, len(days))
		for i, d := range days {
			parts[i] = fmt.Sprint(int(d))
		}
		lines = append(lines, fmt.Sprintf("%s|%s|%s", strings.ToLower(strings.TrimSpace(it.Title)), it.Start, strings.Join(parts, ",")))
	}
	sort.Strings(lines)
	return strings.Join(lines, ";")
}

// Generator produces combinations with an injectable random source.
type Generator struct {
	rng      *rand.Rand
	target   int
	attempts int
}

// NewGenerator creates a generator seeded with seed. The same seed and
// input always yield the same combinations.
func NewGenerator(seed uint64, target, attempts int) *Generator {
	if target <= 0 {
		target = DefaultTarget
	}
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	return &Generator{
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		target:   target,
		attempts: attempts,
	}
}

// Generate returns up to target distinct combinations ordered by size,
// largest first. When nothing could be built the original bag is returned
// as the only combination.
func (g *Generator) Generate(items []Item) []Combination {
	seen := make(map[string]bool)
	var combos []Combination

	for attempt := 0; attempt < g.attempts && len(combos) < g.target; attempt++ {
		bag := slices.Clone(items)
		g.rng.Shuffle(len(bag), func(i, j int) { bag[i], bag[j] = bag[j], bag[i] })

		var accepted []Item
		for _, it := range bag {
			if !conflictsWithAny(it, accepted) {
				accepted = append(accepted, it)
			}
		}
		if len(accepted) == 0 {
			continue
		}

		sig := Signature(accepted)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		combos = append(combos, Combination{Items: accepted, Signature: sig})
	}

	if len(combos) == 0 {
		return []Combination{{Items: slices.Clone(items), Signature: Signature(items)}}
	}

	slices.SortStableFunc(combos, func(a, b Combination) int {
		return b.Len() - a.Len()
	})
	return combos
}

func conflictsWithAny(it Item, accepted []Item) bool {
	for _, a := range accepted {
		if Conflicts(it, a) {
			return true
		}
	}
	return false
}

// Slots converts a combination into recurring slots, one per weekday.
func (c Combination) Slots(priority slot.Priority, kind slot.Kind) ([]slot.Slot, error) {
	var out []slot.Slot
	for _, it := range c.Items {
		for _, wd := range it.Weekdays {
			s, err := slot.New(slot.OnWeekday(wd), it.Start, it.End, priority, kind)
			if err != nil {
				return nil, fmt.Errorf("item %q: %w", it.Title, err)
			}
			s.Title = it.Title
			s.Location = it.Location
			out = append(out, s)
		}
	}
	return out, nil
}
