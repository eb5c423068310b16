package slot

import "fmt"

// SplitOvernight normalizes a clock range that may wrap past midnight.
// A range with end <= start becomes [start, 23:50] and [00:00, end] on the
// same anchor. Zero-length pieces are dropped. start == end is rejected.
func SplitOvernight(tmpl Slot) ([]Slot, error) {
	if tmpl.Start == tmpl.End {
		return nil, fmt.Errorf("%w: zero-length range at %s", ErrInvalidRange, tmpl.Start)
	}
	if tmpl.End > tmpl.Start {
		s, err := New(tmpl.Anchor, tmpl.Start, tmpl.End, tmpl.Priority, tmpl.Kind)
		if err != nil {
			return nil, err
		}
		return []Slot{withDetails(s, tmpl)}, nil
	}

	var out []Slot
	for _, r := range [][2]TimeOfDay{{tmpl.Start, LastTick}, {0, tmpl.End}} {
		if r[1] <= r[0] {
			continue
		}
		s, err := New(tmpl.Anchor, r[0], r[1], tmpl.Priority, tmpl.Kind)
		if err != nil {
			return nil, err
		}
		out = append(out, withDetails(s, tmpl))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s-%s", ErrInvalidRange, tmpl.Start, tmpl.End)
	}
	return out, nil
}

func withDetails(s, tmpl Slot) Slot {
	s.Title = tmpl.Title
	s.Location = tmpl.Location
	return s
}
