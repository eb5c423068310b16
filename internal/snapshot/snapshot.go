// Package snapshot defines the schedule snapshot exchanged with the
// persistence layer and its JSON wire format.
package snapshot

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/javiermolinar/slotwise/internal/slot"
)

// Snapshot is the full schedule of one profile.
type Snapshot struct {
	*slot.Set
}

// New returns an empty snapshot.
func New() *Snapshot {
	return &Snapshot{Set: slot.NewSet()}
}

// FromSlots builds a snapshot, rejecting overlapping slots.
func FromSlots(slots []slot.Slot) (*Snapshot, error) {
	set, err := slot.NewSetWithSlots(slots)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Set: set}, nil
}

// Clone returns an independent copy.
func (s *Snapshot) Clone() *Snapshot {
	return &Snapshot{Set: s.Set.Clone()}
}

// RecurringSlots returns weekday-anchored availability.
func (s *Snapshot) RecurringSlots() []slot.Slot {
	return s.filter(func(sl slot.Slot) bool {
		return sl.Anchor.IsWeekday() && sl.Kind == slot.KindAvailability
	})
}

// DateOverrides returns date-anchored availability and holiday blocks.
func (s *Snapshot) DateOverrides() []slot.Slot {
	return s.filter(func(sl slot.Slot) bool {
		return sl.Anchor.IsDate() && (sl.Kind == slot.KindAvailability || sl.Kind == slot.KindHoliday)
	})
}

// Exceptions returns user-visible events.
func (s *Snapshot) Exceptions() []slot.Slot {
	return s.filter(func(sl slot.Slot) bool { return sl.Kind == slot.KindEvent })
}

// PersonalTimes returns personal or blocked time on either anchor.
func (s *Snapshot) PersonalTimes() []slot.Slot {
	return s.filter(func(sl slot.Slot) bool { return sl.Kind == slot.KindPersonal })
}

// Commitments returns everything the conflict detector considers.
func (s *Snapshot) Commitments() []slot.Slot {
	return s.Slots()
}

func (s *Snapshot) filter(keep func(slot.Slot) bool) []slot.Slot {
	var out []slot.Slot
	for _, sl := range s.Slots() {
		if keep(sl) {
			out = append(out, sl)
		}
	}
	return out
}

// wireSlot is the boundary form of a slot.
type wireSlot struct {
	ID        string `json:"id"`
	DayOfWeek *int   `json:"dayOfWeek,omitempty"`
	Date      string `json:"specificDate,omitempty"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Priority  int    `json:"priority"`
	Kind      string `json:"kind"`
	Title     string `json:"title,omitempty"`
	Location  string `json:"location,omitempty"`
}

type wireSnapshot struct {
	RecurringSlots []wireSlot `json:"recurringSlots"`
	DateOverrides  []wireSlot `json:"dateOverrides"`
	Exceptions     []wireSlot `json:"exceptions"`
	PersonalTimes  []wireSlot `json:"personalTimes"`
}

func toWire(slots []slot.Slot) []wireSlot {
	out := make([]wireSlot, 0, len(slots))
	for _, sl := range slots {
		w := wireSlot{
			ID:        sl.ID.String(),
			StartTime: sl.Start.String(),
			EndTime:   sl.End.String(),
			Priority:  int(sl.Priority),
			Kind:      string(sl.Kind),
			Title:     sl.Title,
			Location:  sl.Location,
		}
		if sl.Anchor.IsDate() {
			w.Date = sl.Anchor.Date()
		} else {
			wd := int(sl.Anchor.Weekday())
			w.DayOfWeek = &wd
		}
		out = append(out, w)
	}
	return out
}

func fromWire(w wireSlot) (slot.Slot, error) {
	var (
		sl  slot.Slot
		err error
	)
	switch {
	case w.Date != "":
		if sl.Anchor, err = slot.ParseDateAnchor(w.Date); err != nil {
			return slot.Slot{}, err
		}
	case w.DayOfWeek != nil && *w.DayOfWeek >= 0 && *w.DayOfWeek <= 6:
		sl.Anchor = slot.OnWeekday(time.Weekday(*w.DayOfWeek))
	default:
		return slot.Slot{}, fmt.Errorf("slot %q needs a dayOfWeek 0-6 or a specificDate", w.ID)
	}

	if sl.Start, err = slot.ParseTimeOfDay(w.StartTime); err != nil {
		return slot.Slot{}, err
	}
	if sl.End, err = slot.ParseEndTime(w.EndTime); err != nil {
		return slot.Slot{}, err
	}
	if w.ID == "" {
		sl.ID = uuid.New()
	} else if sl.ID, err = uuid.Parse(w.ID); err != nil {
		return slot.Slot{}, fmt.Errorf("slot id %q: %w", w.ID, err)
	}
	sl.Priority = slot.Priority(w.Priority)
	sl.Kind = slot.Kind(w.Kind)
	sl.Title = w.Title
	sl.Location = w.Location
	if sl.Kind == slot.KindHoliday && !sl.Anchor.IsDate() {
		return slot.Slot{}, fmt.Errorf("holiday slot %q must use a specificDate", w.ID)
	}
	return sl, sl.Validate()
}

// Encode writes the snapshot as indented JSON.
func (s *Snapshot) Encode(w io.Writer) error {
	doc := wireSnapshot{
		RecurringSlots: toWire(s.RecurringSlots()),
		DateOverrides:  toWire(s.DateOverrides()),
		Exceptions:     toWire(s.Exceptions()),
		PersonalTimes:  toWire(s.PersonalTimes()),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// Decode reads a snapshot written by Encode or by the persistence layer.
func Decode(r io.Reader) (*Snapshot, error) {
	var doc wireSnapshot
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	var slots []slot.Slot
	for _, list := range [][]wireSlot{doc.RecurringSlots, doc.DateOverrides, doc.Exceptions, doc.PersonalTimes} {
		for _, w := range list {
			sl, err := fromWire(w)
			if err != nil {
				return nil, err
			}
			slots = append(slots, sl)
		}
	}
	return FromSlots(slots)
}
