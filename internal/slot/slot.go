// Package slot defines the availability model: time-of-day arithmetic,
// anchored slots, priority cycling, and the merge/split engine.
package slot

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/javiermolinar/slotwise/internal/dateutil"
)

// Validation errors.
var (
	ErrInvalidRange = errors.New("end time must be after start time")
	ErrInvalidKind  = errors.New("kind must be availability, personal, holiday or event")
)

// Domain errors.
var (
	ErrSlotNotFound = errors.New("slot not found")
	ErrOverlap      = errors.New("slot overlaps with an existing slot")
)

// IsFormatError reports whether err comes from malformed time or date text.
func IsFormatError(err error) bool {
	return errors.Is(err, ErrInvalidTimeFormat) || errors.Is(err, dateutil.ErrInvalidDateFormat)
}

// Kind distinguishes the kinds of stored commitments.
type Kind string

const (
	KindAvailability Kind = "availability"
	KindPersonal     Kind = "personal"
	KindHoliday      Kind = "holiday"
	KindEvent        Kind = "event"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindAvailability, KindPersonal, KindHoliday, KindEvent:
		return true
	default:
		return false
	}
}

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

// Slot is any stored time-bound commitment: recurring availability, a
// date override, personal time, a holiday tick or a user event.
type Slot struct {
	ID       uuid.UUID
	Anchor   Anchor
	Start    TimeOfDay
	End      TimeOfDay
	Priority Priority
	Kind     Kind
	Title    string
	Location string
}

// New creates a slot with a fresh ID after validating its range.
func New(anchor Anchor, start, end TimeOfDay, priority Priority, kind Kind) (Slot, error) {
	s := Slot{
		ID:       uuid.New(),
		Anchor:   anchor,
		Start:    start,
		End:      end,
		Priority: priority,
		Kind:     kind,
	}
	if err := s.Validate(); err != nil {
		return Slot{}, err
	}
	return s, nil
}

// NewEvent creates a user-visible event anchored to a specific date.
func NewEvent(anchor Anchor, start, end TimeOfDay, title, location string, priority Priority) (Slot, error) {
	if !anchor.IsDate() {
		return Slot{}, fmt.Errorf("event %q must be anchored to a date", title)
	}
	s, err := New(anchor, start, end, priority, KindEvent)
	if err != nil {
		return Slot{}, err
	}
	s.Title = title
	s.Location = location
	return s, nil
}

// Validate checks the range, priority and kind.
func (s Slot) Validate() error {
	if !s.Start.Valid() || s.End <= s.Start || s.End > EndOfDay {
		return fmt.Errorf("%w: %s-%s", ErrInvalidRange, s.Start, s.End)
	}
	if !s.Priority.Valid() {
		return ErrInvalidPriority
	}
	if !s.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, s.Kind)
	}
	if (s.Kind == KindEvent || s.Kind == KindHoliday) && !s.Anchor.IsDate() {
		return fmt.Errorf("%w: %s slots must be anchored to a date", ErrInvalidKind, s.Kind)
	}
	return nil
}

// Duration returns the slot length in minutes.
func (s Slot) Duration() int {
	return Duration(s.Start, s.End)
}

// Contains reports whether t falls inside [Start, End).
func (s Slot) Contains(t TimeOfDay) bool {
	return t >= s.Start && t < s.End
}

// OverlapsWith reports whether both slots share an anchor and overlap.
func (s Slot) OverlapsWith(other Slot) bool {
	return s.Anchor == other.Anchor && Overlaps(s.Start, s.End, other.Start, other.End)
}

// sameGroup reports whether two slots may be folded into one range.
// Holiday ticks and events keep their own identity and are never folded.
func (s Slot) sameGroup(other Slot) bool {
	return s.Kind != KindHoliday && s.Kind != KindEvent &&
		s.Anchor == other.Anchor &&
		s.Kind == other.Kind &&
		s.Priority == other.Priority &&
		s.Title == other.Title &&
		s.Location == other.Location
}

func (s Slot) String() string {
	if s.Title != "" {
		return fmt.Sprintf("%s %s-%s %s %q", s.Anchor, s.Start, s.End, s.Priority, s.Title)
	}
	return fmt.Sprintf("%s %s-%s %s", s.Anchor, s.Start, s.End, s.Priority)
}
