// Package intent holds the structured records emitted by the chat, voice
// and OCR layers, and turns them into candidates, slots and items.
package intent

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/javiermolinar/slotwise/internal/combo"
	"github.com/javiermolinar/slotwise/internal/conflict"
	"github.com/javiermolinar/slotwise/internal/slot"
)

// ErrInvalidRecord wraps structural validation failures.
var ErrInvalidRecord = errors.New("invalid intent record")

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Holidays and events are per-date, so weekly records cannot carry them.
	err := validate.RegisterValidation("recurringkind", func(fl validator.FieldLevel) bool {
		switch slot.Kind(fl.Field().String()) {
		case slot.KindAvailability, slot.KindPersonal:
			return true
		}
		return false
	})
	if err != nil {
		panic(fmt.Sprintf("intent: registering recurringkind: %v", err))
	}
}

// Intent names what the user asked for.
type Intent string

const (
	IntentAdd        Intent = "add"
	IntentReschedule Intent = "reschedule"
	IntentDelete     Intent = "delete"
)

// EventRecord is a one-off request with ISO-8601 instants.
type EventRecord struct {
	Intent        Intent `json:"intent" validate:"omitempty,oneof=add reschedule delete"`
	Title         string `json:"title" validate:"required"`
	StartDateTime string `json:"startDateTime" validate:"required"`
	EndDateTime   string `json:"endDateTime" validate:"required"`
	Location      string `json:"location,omitempty"`
}

// RecurringRecord is a weekly request with clock times.
type RecurringRecord struct {
	Title     string `json:"title" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	Weekdays  []int  `json:"weekdays" validate:"required,min=1,dive,min=0,max=6"`
	Priority  string `json:"priority,omitempty" validate:"omitempty,oneof=preferred normal flexible"`
	Kind      string `json:"kind,omitempty" validate:"omitempty,recurringkind"`
	Location  string `json:"location,omitempty"`
}

// Validate runs the struct rules.
func (r EventRecord) Validate() error {
	return validateStruct(r)
}

// Validate runs the struct rules.
func (r RecurringRecord) Validate() error {
	return validateStruct(r)
}

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

// Candidate parses the instants into a candidate.
func (r EventRecord) Candidate() (conflict.Candidate, error) {
	if err := r.Validate(); err != nil {
		return conflict.Candidate{}, err
	}
	start, err := parseInstant(r.StartDateTime)
	if err != nil {
		return conflict.Candidate{}, fmt.Errorf("startDateTime: %w", err)
	}
	end, err := parseInstant(r.EndDateTime)
	if err != nil {
		return conflict.Candidate{}, fmt.Errorf("endDateTime: %w", err)
	}
	return conflict.NewCandidate(r.Title, start, end.In(start.Location()))
}

// parseInstant accepts RFC 3339 with or without seconds.
func parseInstant(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not an ISO-8601 instant", slot.ErrInvalidTimeFormat, s)
}

// template parses the shared clock fields.
func (r RecurringRecord) template() (slot.Slot, error) {
	if err := r.Validate(); err != nil {
		return slot.Slot{}, err
	}
	start, err := slot.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return slot.Slot{}, fmt.Errorf("startTime: %w", err)
	}
	end, err := slot.ParseEndTime(r.EndTime)
	if err != nil {
		return slot.Slot{}, fmt.Errorf("endTime: %w", err)
	}

	priority := slot.Preferred
	if r.Priority != "" {
		if priority, err = slot.ParsePriority(r.Priority); err != nil {
			return slot.Slot{}, err
		}
	}
	kind := slot.KindPersonal
	if r.Kind != "" {
		kind = slot.Kind(r.Kind)
	}
	return slot.Slot{
		Start:    start,
		End:      end,
		Priority: priority,
		Kind:     kind,
		Title:    r.Title,
		Location: r.Location,
	}, nil
}

// Slots expands the record into weekday-anchored slots, splitting
// overnight ranges.
func (r RecurringRecord) Slots() ([]slot.Slot, error) {
	tmpl, err := r.template()
	if err != nil {
		return nil, err
	}
	var out []slot.Slot
	for _, wd := range r.Weekdays {
		tmpl.Anchor = slot.OnWeekday(time.Weekday(wd))
		pieces, err := slot.SplitOvernight(tmpl)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tmpl.Anchor, err)
		}
		out = append(out, pieces...)
	}
	return out, nil
}

// Item converts the record into a combination item. Overnight records
// are rejected because items compare clock ranges directly.
func (r RecurringRecord) Item() (combo.Item, error) {
	tmpl, err := r.template()
	if err != nil {
		return combo.Item{}, err
	}
	if tmpl.End <= tmpl.Start {
		return combo.Item{}, fmt.Errorf("%w: %s-%s", slot.ErrInvalidRange, tmpl.Start, tmpl.End)
	}
	days := make([]time.Weekday, len(r.Weekdays))
	for i, wd := range r.Weekdays {
		days[i] = time.Weekday(wd)
	}
	return combo.Item{
		Title:    r.Title,
		Start:    tmpl.Start,
		End:      tmpl.End,
		Weekdays: days,
		Location: r.Location,
	}, nil
}

// DecodeEvents reads a JSON array of event records.
func DecodeEvents(r io.Reader) ([]EventRecord, error) {
	var records []EventRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding event records: %w", err)
	}
	return records, nil
}

// DecodeRecurring reads a JSON array of recurring records.
func DecodeRecurring(r io.Reader) ([]RecurringRecord, error) {
	var records []RecurringRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding recurring records: %w", err)
	}
	return records, nil
}

// Items converts recurring records into combination items, stopping at
// the first invalid record.
func Items(records []RecurringRecord) ([]combo.Item, error) {
	items := make([]combo.Item, 0, len(records))
	for i, rec := range records {
		it, err := rec.Item()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		items = append(items, it)
	}
	return items, nil
}
