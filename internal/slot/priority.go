package slot

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPriority is returned for priorities outside the closed set.
var ErrInvalidPriority = errors.New("priority must be preferred, normal or flexible")

// Priority ranks how strongly a slot is wanted.
type Priority int

const (
	Removed   Priority = 0
	Flexible  Priority = 1
	Normal    Priority = 2
	Preferred Priority = 3
)

// Next returns the priority after one click. The second result is false
// when the slot must be deleted instead.
func (p Priority) Next() (Priority, bool) {
	switch p {
	case Preferred:
		return Normal, true
	case Normal:
		return Flexible, true
	case Flexible:
		return Removed, false
	default:
		return Preferred, true
	}
}

// Valid reports whether p can be stored.
func (p Priority) Valid() bool {
	switch p {
	case Preferred, Normal, Flexible:
		return true
	default:
		return false
	}
}

// Label returns the display name.
func (p Priority) Label() string {
	switch p {
	case Preferred:
		return "preferred"
	case Normal:
		return "normal"
	case Flexible:
		return "flexible"
	case Removed:
		return "removed"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

func (p Priority) String() string {
	return p.Label()
}

// ParsePriority accepts a label or its number.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "preferred", "3":
		return Preferred, nil
	case "normal", "2":
		return Normal, nil
	case "flexible", "1":
		return Flexible, nil
	default:
		return Removed, fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
}
