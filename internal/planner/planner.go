// Package planner coordinates the conflict engine with a snapshot repository.
// It is the layer the CLI talks to: every mutation is a single serialized
// read, compute, write cycle on one profile.
package planner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/javiermolinar/slotwise/internal/combo"
	"github.com/javiermolinar/slotwise/internal/config"
	"github.com/javiermolinar/slotwise/internal/conflict"
	"github.com/javiermolinar/slotwise/internal/dateutil"
	"github.com/javiermolinar/slotwise/internal/intent"
	"github.com/javiermolinar/slotwise/internal/search"
	"github.com/javiermolinar/slotwise/internal/slot"
	"github.com/javiermolinar/slotwise/internal/snapshot"
)

// Planner errors.
var (
	ErrConflict = errors.New("candidate conflicts with an existing commitment")
	ErrNotEvent = errors.New("slot is not an event")
)

// Planner orchestrates conflict checks, searches and schedule edits.
type Planner struct {
	repo         snapshot.Repository
	searcher     *search.Searcher
	loc          *time.Location
	fallbackDays int
	combos       config.CombinationConfig
	log          *zap.Logger
}

// New creates a Planner with the given dependencies.
func New(repo snapshot.Repository, cfg *config.Config, log *zap.Logger) (*Planner, error) {
	searcher, err := search.New(cfg.SearchOptions())
	if err != nil {
		return nil, fmt.Errorf("search options: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("search configured",
		zap.Ints("offsets", searcher.Offsets()),
		zap.Int("fallback_days", cfg.Search.FallbackDays),
		zap.Stringer("timezone", loc))
	return &Planner{
		repo:         repo,
		searcher:     searcher,
		loc:          loc,
		fallbackDays: cfg.Search.FallbackDays,
		combos:       cfg.Combinations,
		log:          log,
	}, nil
}

// Location returns the timezone candidates are interpreted in.
func (p *Planner) Location() *time.Location {
	return p.loc
}

// local expresses c in the planner's timezone. Stored slots are wall-clock
// times per date, so candidates must be compared in the same zone.
func (p *Planner) local(c conflict.Candidate) conflict.Candidate {
	c.Start = c.Start.In(p.loc)
	c.End = c.End.In(p.loc)
	return c
}

// Proposal is the outcome of checking one candidate.
type Proposal struct {
	Candidate conflict.Candidate
	Result    conflict.Result

	// Alternatives are conflict-free moves of the candidate. When the
	// candidate's own date had none, they come from the first later date
	// that did, and DaysAhead says how far that is.
	Alternatives []search.Recommendation
	DaysAhead    int

	// Displaced is the first conflicting event, with the moves that would
	// free the candidate's slot.
	Displaced  *conflict.Candidate
	Reschedule []search.Recommendation
}

// Free reports whether the candidate can be accepted as is.
func (p *Proposal) Free() bool {
	return !p.Result.HasConflict
}

// Propose checks a candidate against the profile's commitments and, on
// conflict, searches for alternatives.
func (p *Planner) Propose(ctx context.Context, profile string, c conflict.Candidate) (*Proposal, error) {
	c = p.local(c)
	snap, err := p.repo.Load(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", profile, err)
	}
	existing := snap.Commitments()

	prop := &Proposal{Candidate: c, Result: conflict.Detect(c, existing)}
	log := p.log.With(zap.String("profile", profile), zap.String("candidate", search.Label(c.Start, c.End)))
	if prop.Free() {
		log.Debug("candidate is free")
		return prop, nil
	}
	if prop.Result.Duplicate {
		log.Info("candidate duplicates an existing commitment")
		return prop, nil
	}
	log.Info("candidate conflicts", zap.Int("conflicts", len(prop.Result.Conflicts)))

	prop.Alternatives, prop.DaysAhead, err = p.alternatives(ctx, c, existing)
	if err != nil {
		return nil, err
	}

	if first, ok := prop.Result.First(); ok && first.Kind == slot.KindEvent {
		displaced, err := conflict.FromSlot(first, p.loc)
		if err == nil {
			// The displaced event must also clear the candidate it makes room for.
			held, err := p.events(c, "")
			if err != nil {
				return nil, err
			}
			prop.Displaced = &displaced
			prop.Reschedule = p.searcher.Reschedule(displaced, append(slices.Clone(existing), held...))
		}
	}

	log.Debug("search finished",
		zap.Int("alternatives", len(prop.Alternatives)),
		zap.Int("days_ahead", prop.DaysAhead),
		zap.Int("reschedule", len(prop.Reschedule)))
	return prop, nil
}

// alternatives searches the candidate's own date first and then each
// following date up to the fallback horizon.
func (p *Planner) alternatives(ctx context.Context, c conflict.Candidate, existing []slot.Slot) ([]search.Recommendation, int, error) {
	if recs := p.searcher.Alternatives(c, existing); len(recs) > 0 {
		return recs, 0, nil
	}

	for day := 1; day <= p.fallbackDays; day++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		shifted := c
		shifted.Start = c.Start.AddDate(0, 0, day)
		shifted.End = c.End.AddDate(0, 0, day)

		var recs []search.Recommendation
		if p.searcher.InWorkingHours(shifted.Start) && !conflict.Detect(shifted, existing).HasConflict {
			recs = append(recs, search.Recommendation{
				Start: shifted.Start,
				End:   shifted.End,
				Label: search.Label(shifted.Start, shifted.End),
			})
		}
		recs = append(recs, p.searcher.Alternatives(shifted, existing)...)
		if len(recs) > 0 {
			p.log.Debug("fallback found alternatives", zap.Int("days_ahead", day))
			return recs, day, nil
		}
	}
	return nil, 0, nil
}

// Accepted reports what Accept stored.
type Accepted struct {
	Slots     []slot.Slot
	Duplicate bool
}

// Accept stores a conflict-free candidate as an event. A candidate that
// duplicates an existing commitment is skipped, and any other conflict is
// reported as ErrConflict.
func (p *Planner) Accept(ctx context.Context, profile string, c conflict.Candidate, location string) (*Accepted, error) {
	c = p.local(c)
	var out Accepted
	err := p.repo.Update(ctx, profile, func(snap *snapshot.Snapshot) error {
		res := conflict.Detect(c, snap.Commitments())
		if res.Duplicate {
			out.Duplicate = true
			return nil
		}
		if res.HasConflict {
			first, _ := res.First()
			return fmt.Errorf("%w: %s", ErrConflict, first)
		}

		events, err := p.events(c, location)
		if err != nil {
			return err
		}
		for _, ev := range events {
			added, err := snap.Add(ev)
			if err != nil {
				return err
			}
			out.Slots = append(out.Slots, added...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.Duplicate {
		p.log.Info("skipped duplicate", zap.String("profile", profile), zap.String("title", c.Title))
	} else {
		p.log.Info("accepted", zap.String("profile", profile), zap.String("candidate", search.Label(c.Start, c.End)))
	}
	return &out, nil
}

// events turns a candidate into one event per calendar date it touches.
// The first event takes the candidate's ID when it has one.
func (p *Planner) events(c conflict.Candidate, location string) ([]slot.Slot, error) {
	var out []slot.Slot
	for i, seg := range c.Segments() {
		ev, err := slot.NewEvent(slot.OnDate(seg.Date), seg.Start, seg.End, c.Title, location, slot.Normal)
		if err != nil {
			return nil, err
		}
		if i == 0 && c.ID != uuid.Nil {
			ev.ID = c.ID
		}
		out = append(out, ev)
	}
	return out, nil
}

// Move reschedules a stored event to a new interval on a single date.
// The event itself is ignored by the conflict check.
func (p *Planner) Move(ctx context.Context, profile string, id uuid.UUID, start, end time.Time) (slot.Slot, error) {
	var moved slot.Slot
	err := p.repo.Update(ctx, profile, func(snap *snapshot.Snapshot) error {
		old, ok := snap.Get(id)
		if !ok {
			return fmt.Errorf("%w: %s", slot.ErrSlotNotFound, id)
		}
		if old.Kind != slot.KindEvent {
			return fmt.Errorf("%w: %s", ErrNotEvent, old)
		}

		c, err := conflict.NewCandidate(old.Title, start.In(p.loc), end.In(p.loc))
		if err != nil {
			return err
		}
		c.ID = id
		segs := c.Segments()
		if len(segs) != 1 {
			return fmt.Errorf("%w: an event must start and end on the same date", slot.ErrInvalidRange)
		}
		res := conflict.NewDetector(snap.Commitments()).Without(id).Check(c)
		if res.HasConflict {
			first, _ := res.First()
			return fmt.Errorf("%w: %s", ErrConflict, first)
		}

		moved = old
		moved.Anchor = slot.OnDate(segs[0].Date)
		moved.Start = segs[0].Start
		moved.End = segs[0].End
		return snap.Replace(id, moved)
	})
	if err != nil {
		return slot.Slot{}, err
	}
	p.log.Info("moved event", zap.String("profile", profile), zap.Stringer("id", id), zap.Stringer("slot", moved))
	return moved, nil
}

// Cancel removes the stored event with the candidate's date, times and
// title.
func (p *Planner) Cancel(ctx context.Context, profile string, c conflict.Candidate) (slot.Slot, error) {
	c = p.local(c)
	var removed slot.Slot
	err := p.repo.Update(ctx, profile, func(snap *snapshot.Snapshot) error {
		res := conflict.Detect(c, snap.Exceptions())
		if !res.Duplicate {
			return fmt.Errorf("%w: no event %q at %s", slot.ErrSlotNotFound, c.Title, search.Label(c.Start, c.End))
		}
		first, _ := res.First()
		var err error
		removed, err = snap.Remove(first.ID)
		return err
	})
	if err != nil {
		return slot.Slot{}, err
	}
	p.log.Info("cancelled event", zap.String("profile", profile), zap.Stringer("slot", removed))
	return removed, nil
}

// MoveByTitle moves the single event titled title on start's date.
func (p *Planner) MoveByTitle(ctx context.Context, profile, title string, start, end time.Time) (slot.Slot, error) {
	start, end = start.In(p.loc), end.In(p.loc)
	snap, err := p.repo.Load(ctx, profile)
	if err != nil {
		return slot.Slot{}, fmt.Errorf("loading %s: %w", profile, err)
	}
	var matches []slot.Slot
	for _, ev := range snap.Exceptions() {
		if ev.Title == title && ev.Anchor.AppliesTo(start) {
			matches = append(matches, ev)
		}
	}
	switch len(matches) {
	case 0:
		return slot.Slot{}, fmt.Errorf("%w: no event %q on %s", slot.ErrSlotNotFound, title, dateutil.Key(start))
	case 1:
		return p.Move(ctx, profile, matches[0].ID, start, end)
	default:
		return slot.Slot{}, fmt.Errorf("%d events titled %q on %s", len(matches), title, dateutil.Key(start))
	}
}

// AddAvailability inserts an availability range on anchor. Overnight
// ranges are split and any part already covered is skipped.
func (p *Planner) AddAvailability(ctx context.Context, profile string, anchor slot.Anchor, start, end slot.TimeOfDay, priority slot.Priority) ([]slot.Slot, error) {
	tmpl := slot.Slot{Anchor: anchor, Start: start, End: end, Priority: priority, Kind: slot.KindAvailability}
	pieces, err := slot.SplitOvernight(tmpl)
	if err != nil {
		return nil, err
	}
	return p.addAll(ctx, profile, pieces)
}

// AddRecurring stores a recurring personal or availability record.
func (p *Planner) AddRecurring(ctx context.Context, profile string, rec intent.RecurringRecord) ([]slot.Slot, error) {
	pieces, err := rec.Slots()
	if err != nil {
		return nil, err
	}
	return p.addAll(ctx, profile, pieces)
}

func (p *Planner) addAll(ctx context.Context, profile string, pieces []slot.Slot) ([]slot.Slot, error) {
	var added []slot.Slot
	err := p.repo.Update(ctx, profile, func(snap *snapshot.Snapshot) error {
		for _, sl := range pieces {
			got, err := snap.Add(sl)
			if err != nil {
				return err
			}
			added = append(added, got...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.log.Info("added slots", zap.String("profile", profile), zap.Int("requested", len(pieces)), zap.Int("stored", len(added)))
	return added, nil
}

// CycleAt applies one priority click to the tick at t on anchor.
func (p *Planner) CycleAt(ctx context.Context, profile string, anchor slot.Anchor, kind slot.Kind, t slot.TimeOfDay) (slot.CycleResult, error) {
	var res slot.CycleResult
	err := p.repo.Update(ctx, profile, func(snap *snapshot.Snapshot) error {
		var err error
		res, err = snap.CycleAt(anchor, kind, t)
		return err
	})
	if err != nil {
		return slot.CycleResult{}, err
	}
	p.log.Debug("cycled tick",
		zap.String("profile", profile),
		zap.Stringer("anchor", anchor),
		zap.Stringer("tick", res.Start),
		zap.Stringer("priority", res.Priority))
	return res, nil
}

// ToggleHoliday flips the holiday block on date and returns the new state.
func (p *Planner) ToggleHoliday(ctx context.Context, profile string, date time.Time) (bool, error) {
	var blocked bool
	err := p.repo.Update(ctx, profile, func(snap *snapshot.Snapshot) error {
		blocked = snap.ToggleHoliday(date)
		return nil
	})
	if err != nil {
		return false, err
	}
	p.log.Info("toggled holiday", zap.String("profile", profile), zap.String("date", dateutil.Key(date)), zap.Bool("blocked", blocked))
	return blocked, nil
}

// DeleteRange removes every date-anchored slot between from and to.
func (p *Planner) DeleteRange(ctx context.Context, profile string, from, to time.Time) (int, error) {
	if to.Before(from) {
		return 0, dateutil.ErrEndDateBeforeStart
	}
	var n int
	err := p.repo.Update(ctx, profile, func(snap *snapshot.Snapshot) error {
		n = snap.RemoveDateRange(from, to)
		return nil
	})
	if err != nil {
		return 0, err
	}
	p.log.Info("deleted range", zap.String("profile", profile), zap.Int("removed", n))
	return n, nil
}

// Day is the resolved schedule of one date.
type Day struct {
	Date  time.Time
	Slots []slot.Slot
}

// Agenda resolves every date between from and to that has something in
// force. Recurring slots are expanded by weekday rule; date-anchored slots
// add their own dates.
func (p *Planner) Agenda(ctx context.Context, profile string, from, to time.Time) ([]Day, error) {
	if to.Before(from) {
		return nil, dateutil.ErrEndDateBeforeStart
	}
	snap, err := p.repo.Load(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", profile, err)
	}

	var weekdays []time.Weekday
	dates := make(map[string]time.Time)
	r := dateutil.DateRange{Start: from, End: to}
	for _, sl := range snap.Slots() {
		switch {
		case sl.Anchor.IsWeekday():
			if !slices.Contains(weekdays, sl.Anchor.Weekday()) {
				weekdays = append(weekdays, sl.Anchor.Weekday())
			}
		case r.Contains(sl.Anchor.Time()):
			d := sl.Anchor.Time()
			dates[dateutil.Key(d)] = d
		}
	}

	occurrences, err := dateutil.WeeklyOccurrences(weekdays, from, to)
	if err != nil {
		return nil, err
	}
	for _, d := range occurrences {
		dates[dateutil.Key(d)] = d
	}

	keys := make([]string, 0, len(dates))
	for k := range dates {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	days := make([]Day, 0, len(keys))
	for _, k := range keys {
		if slots := snap.Effective(dates[k]); len(slots) > 0 {
			days = append(days, Day{Date: dates[k], Slots: slots})
		}
	}
	return days, nil
}

// Combinations builds non-conflicting timetables from recurring records.
// A zero configured seed draws one from the clock.
func (p *Planner) Combinations(records []intent.RecurringRecord) ([]combo.Combination, error) {
	items, err := intent.Items(records)
	if err != nil {
		return nil, err
	}
	seed := p.combos.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	gen := combo.NewGenerator(seed, p.combos.Target, p.combos.Attempts)
	combos := gen.Generate(items)
	p.log.Debug("generated combinations", zap.Int("items", len(items)), zap.Int("combinations", len(combos)), zap.Uint64("seed", seed))
	return combos, nil
}

// ApplyCombination stores one combination as recurring personal time.
func (p *Planner) ApplyCombination(ctx context.Context, profile string, c combo.Combination) ([]slot.Slot, error) {
	pieces, err := c.Slots(slot.Preferred, slot.KindPersonal)
	if err != nil {
		return nil, err
	}
	return p.addAll(ctx, profile, pieces)
}

// Snapshot returns the stored schedule of profile.
func (p *Planner) Snapshot(ctx context.Context, profile string) (*snapshot.Snapshot, error) {
	return p.repo.Load(ctx, profile)
}

// Restore replaces the stored schedule of profile with snap.
func (p *Planner) Restore(ctx context.Context, profile string, snap *snapshot.Snapshot) error {
	err := p.repo.Update(ctx, profile, func(cur *snapshot.Snapshot) error {
		cur.Set = snap.Clone().Set
		return nil
	})
	if err != nil {
		return err
	}
	p.log.Info("restored snapshot", zap.String("profile", profile), zap.Int("slots", snap.Len()))
	return nil
}
