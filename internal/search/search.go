// Package search proposes conflict-free alternatives around a rejected
// candidate.
package search

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/javiermolinar/slotwise/internal/conflict"
	"github.com/javiermolinar/slotwise/internal/dateutil"
	"github.com/javiermolinar/slotwise/internal/slot"
)

// Option errors.
var (
	ErrNoOffsets           = errors.New("at least one non-zero probe offset is required")
	ErrInvalidWorkingHours = errors.New("working hours must satisfy 0 <= min_hour < max_hour <= 24")
)

// Options configures a Searcher.
type Options struct {
	Offsets    []int // probe offsets in minutes
	MinHour    int   // earliest allowed start hour (inclusive)
	MaxHour    int   // latest allowed start hour (exclusive)
	MaxResults int   // stop after this many; <= 0 means no cap
}

// DefaultOptions returns three-hour symmetric probing inside 09:00-22:00.
func DefaultOptions() Options {
	return Options{
		Offsets:    []int{-180, -120, -60, 60, 120, 180},
		MinHour:    9,
		MaxHour:    22,
		MaxResults: 3,
	}
}

// Validate checks the working-hours window and offsets.
func (o Options) Validate() error {
	if o.MinHour < 0 || o.MaxHour > 24 || o.MinHour >= o.MaxHour {
		return fmt.Errorf("%w: got %d-%d", ErrInvalidWorkingHours, o.MinHour, o.MaxHour)
	}
	if len(NormalizeOffsets(o.Offsets)) == 0 {
		return ErrNoOffsets
	}
	return nil
}

// NormalizeOffsets orders offsets nearest-first by magnitude with the
// negative offset first at equal magnitude. Zero and repeats are dropped.
func NormalizeOffsets(offsets []int) []int {
	out := make([]int, 0, len(offsets))
	for _, o := range offsets {
		if o != 0 && !slices.Contains(out, o) {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b int) int {
		if c := cmp.Compare(abs(a), abs(b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Recommendation is one conflict-free alternative.
type Recommendation struct {
	Start         time.Time
	End           time.Time
	OffsetMinutes int
	Label         string
}

// Candidate converts the recommendation back into a candidate carrying
// the original title and identity.
func (r Recommendation) Candidate(from conflict.Candidate) conflict.Candidate {
	from.Start = r.Start
	from.End = r.End
	return from
}

// Searcher probes fixed offsets around an original start.
type Searcher struct {
	offsets    []int
	minHour    int
	maxHour    int
	maxResults int
}

// New creates a Searcher. Options are validated.
func New(opts Options) (*Searcher, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Searcher{
		offsets:    NormalizeOffsets(opts.Offsets),
		minHour:    opts.MinHour,
		maxHour:    opts.MaxHour,
		maxResults: opts.MaxResults,
	}, nil
}

// Offsets returns the probe order.
func (s *Searcher) Offsets() []int {
	return slices.Clone(s.offsets)
}

// Alternatives returns conflict-free moves of the candidate on its own
// date, in probe order. An empty result means no slot was found.
func (s *Searcher) Alternatives(c conflict.Candidate, existing []slot.Slot) []Recommendation {
	return s.probe(c, conflict.NewDetector(existing))
}

// Reschedule searches around the displaced event's original slot and
// ignores the displaced event itself.
func (s *Searcher) Reschedule(displaced conflict.Candidate, existing []slot.Slot) []Recommendation {
	return s.probe(displaced, conflict.NewDetector(existing).Without(displaced.ID))
}

func (s *Searcher) probe(c conflict.Candidate, det *conflict.Detector) []Recommendation {
	var recs []Recommendation
	duration := c.Duration()

	for _, offset := range s.offsets {
		start := c.Start.Add(time.Duration(offset) * time.Minute)
		if !s.InWorkingHours(start) || !dateutil.SameDay(start, c.Start) {
			continue
		}

		probe := c
		probe.Start = start
		probe.End = start.Add(duration)
		if det.Check(probe).HasConflict {
			continue
		}

		recs = append(recs, Recommendation{
			Start:         probe.Start,
			End:           probe.End,
			OffsetMinutes: offset,
			Label:         Label(probe.Start, probe.End),
		})
		if s.maxResults > 0 && len(recs) >= s.maxResults {
			break
		}
	}
	return recs
}

// InWorkingHours reports whether start's hour is inside [MinHour, MaxHour).
func (s *Searcher) InWorkingHours(start time.Time) bool {
	return start.Hour() >= s.minHour && start.Hour() < s.maxHour
}

// Label renders a recommendation for display.
func Label(start, end time.Time) string {
	return fmt.Sprintf("%s %s-%s", start.Format("Mon Jan 2"), start.Format("15:04"), end.Format("15:04"))
}
