// Package conflict decides whether a candidate interval collides with
// existing commitments.
package conflict

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/slotwise/internal/dateutil"
	"github.com/javiermolinar/slotwise/internal/slot"
)

// ErrSubMinute is returned for candidates whose bounds are not on whole
// minutes.
var ErrSubMinute = errors.New("candidate times must fall on whole minutes")

// Candidate is a proposed interval. ID is set when the candidate stands
// for an already stored event, e.g. one being rescheduled.
type Candidate struct {
	ID    uuid.UUID
	Title string
	Start time.Time
	End   time.Time
}

// NewCandidate validates that end is after start and that both fall on
// whole minutes.
func NewCandidate(title string, start, end time.Time) (Candidate, error) {
	if !end.After(start) {
		return Candidate{}, fmt.Errorf("%w: %s-%s", slot.ErrInvalidRange,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	for _, t := range []time.Time{start, end} {
		if t.Second() != 0 || t.Nanosecond() != 0 {
			return Candidate{}, fmt.Errorf("%w: %s", ErrSubMinute, t.Format(time.RFC3339Nano))
		}
	}
	return Candidate{Title: title, Start: start, End: end}, nil
}

// FromSlot turns a date-anchored slot into a candidate in loc.
func FromSlot(s slot.Slot, loc *time.Location) (Candidate, error) {
	if !s.Anchor.IsDate() {
		return Candidate{}, fmt.Errorf("slot %s is not anchored to a date", s.ID)
	}
	day, err := time.ParseInLocation(dateutil.DateLayout, s.Anchor.Date(), loc)
	if err != nil {
		return Candidate{}, err
	}
	return Candidate{
		ID:    s.ID,
		Title: s.Title,
		Start: dateutil.At(day, int(s.Start)),
		End:   dateutil.At(day, int(s.End)),
	}, nil
}

// Duration returns the candidate length.
func (c Candidate) Duration() time.Duration {
	return c.End.Sub(c.Start)
}

// Shift returns the candidate moved by d.
func (c Candidate) Shift(d time.Duration) Candidate {
	c.Start = c.Start.Add(d)
	c.End = c.End.Add(d)
	return c
}

// Segment is the part of a candidate that falls on one calendar date.
type Segment struct {
	Date  time.Time
	Start slot.TimeOfDay
	End   slot.TimeOfDay
}

// Segments splits the candidate at midnight boundaries, in the location
// of its start.
func (c Candidate) Segments() []Segment {
	loc := c.Start.Location()
	end := c.End.In(loc)

	var segs []Segment
	for day := dateutil.TruncateToDay(c.Start); day.Before(end); day = day.AddDate(0, 0, 1) {
		next := day.AddDate(0, 0, 1)
		from := day
		if c.Start.After(day) {
			from = c.Start
		}
		to := end
		if to.After(next) {
			to = next
		}
		if !to.After(from) {
			continue
		}
		segEnd := slot.EndOfDay
		if to.Before(next) {
			segEnd = minutesOf(to)
		}
		segs = append(segs, Segment{Date: day, Start: minutesOf(from), End: segEnd})
	}
	return segs
}

func minutesOf(t time.Time) slot.TimeOfDay {
	return slot.TimeOfDay(t.Hour()*60 + t.Minute())
}

// Result reports the outcome of a check. Conflicts are ordered by start,
// so Conflicts[0] is the one to report.
type Result struct {
	HasConflict bool
	Duplicate   bool
	Conflicts   []slot.Slot
}

// First returns the most relevant conflict.
func (r Result) First() (slot.Slot, bool) {
	if len(r.Conflicts) == 0 {
		return slot.Slot{}, false
	}
	return r.Conflicts[0], true
}

// Detector checks candidates against a fixed commitment list.
type Detector struct {
	existing []slot.Slot
	exclude  uuid.UUID
}

// NewDetector creates a detector over existing commitments.
func NewDetector(existing []slot.Slot) *Detector {
	return &Detector{existing: existing}
}

// Without returns a detector that ignores the commitment with id.
func (d *Detector) Without(id uuid.UUID) *Detector {
	return &Detector{existing: d.existing, exclude: id}
}

// Check runs the exact-duplicate test and then the overlap test on every
// date the candidate touches.
func (d *Detector) Check(c Candidate) Result {
	segs := c.Segments()

	if dup, ok := d.duplicate(c, segs); ok {
		return Result{HasConflict: true, Duplicate: true, Conflicts: []slot.Slot{dup}}
	}

	var conflicts []slot.Slot
	for _, seg := range segs {
		var day []slot.Slot
		for _, s := range d.existing {
			if d.skip(s) || !s.Anchor.AppliesTo(seg.Date) {
				continue
			}
			if slot.Overlaps(seg.Start, seg.End, s.Start, s.End) {
				day = append(day, s)
			}
		}
		slices.SortStableFunc(day, func(a, b slot.Slot) int { return int(a.Start - b.Start) })
		conflicts = append(conflicts, day...)
	}

	return Result{HasConflict: len(conflicts) > 0, Conflicts: conflicts}
}

// duplicate looks for a commitment with the same date, times and title.
func (d *Detector) duplicate(c Candidate, segs []Segment) (slot.Slot, bool) {
	if len(segs) != 1 {
		return slot.Slot{}, false
	}
	seg := segs[0]
	for _, s := range d.existing {
		if d.skip(s) {
			continue
		}
		if s.Anchor.AppliesTo(seg.Date) && s.Start == seg.Start && s.End == seg.End && s.Title == c.Title {
			return s, true
		}
	}
	return slot.Slot{}, false
}

func (d *Detector) skip(s slot.Slot) bool {
	return d.exclude != uuid.Nil && s.ID == d.exclude
}

// Detect is a shorthand for NewDetector(existing).Check(c).
func Detect(c Candidate, existing []slot.Slot) Result {
	return NewDetector(existing).Check(c)
}
