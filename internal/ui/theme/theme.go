// Package theme provides color themes for the week grid.
package theme

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrUnknownTheme is returned for names that are neither built in nor a
// .toml file.
var ErrUnknownTheme = errors.New("unknown theme")

// DefaultName is used when no theme is configured.
const DefaultName = "mocha"

// Theme holds all colors used to draw a schedule.
type Theme struct {
	Name      string `toml:"name"`
	Bg        string `toml:"bg"`        // Terminal background the theme targets
	Fg        string `toml:"fg"`        // Primary foreground
	Muted     string `toml:"muted"`     // Empty days, secondary text
	Accent    string `toml:"accent"`    // Headings
	Preferred string `toml:"preferred"` // Preferred availability
	Normal    string `toml:"normal"`    // Normal availability
	Flexible  string `toml:"flexible"`  // Flexible availability
	Personal  string `toml:"personal"`  // Personal or blocked time
	Event     string `toml:"event"`     // Booked events
	Holiday   string `toml:"holiday"`   // Holiday-blocked dates
}

var builtin = map[string]Theme{
	"mocha": {
		Name: "mocha", Bg: "#1e1e2e", Fg: "#cdd6f4", Muted: "#6c7086", Accent: "#cba6f7",
		Preferred: "#a6e3a1", Normal: "#f9e2af", Flexible: "#89b4fa",
		Personal: "#f5c2e7", Event: "#89dceb", Holiday: "#f38ba8",
	},
	"frappe": {
		Name: "frappe", Bg: "#303446", Fg: "#c6d0f5", Muted: "#737994", Accent: "#ca9ee6",
		Preferred: "#a6d189", Normal: "#e5c890", Flexible: "#8caaee",
		Personal: "#f4b8e4", Event: "#99d1db", Holiday: "#e78284",
	},
	"latte": {
		Name: "latte", Bg: "#eff1f5", Fg: "#4c4f69", Muted: "#9ca0b0", Accent: "#8839ef",
		Preferred: "#40a02b", Normal: "#df8e1d", Flexible: "#1e66f5",
		Personal: "#ea76cb", Event: "#04a5e5", Holiday: "#d20f39",
	},
}

// Load returns a built-in theme by name, or reads a theme file when name
// ends in ".toml". An empty name selects the default theme.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = DefaultName
	}
	if strings.HasSuffix(name, ".toml") {
		return LoadFile(name)
	}

	t, ok := builtin[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownTheme, name, strings.Join(Available(), ", "))
	}
	return &t, nil
}

// LoadFile reads a theme from a TOML file. Colors the file leaves out are
// taken from the default theme.
func LoadFile(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file: %w", err)
	}

	t := builtin[DefaultName]
	t.Name = ""
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", path, err)
	}
	if t.Name == "" {
		t.Name = path
	}
	return &t, nil
}

// Available returns the built-in theme names in sorted order.
func Available() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsAvailable reports whether a theme name can be loaded without a file.
func IsAvailable(name string) bool {
	_, ok := builtin[strings.ToLower(name)]
	return ok
}
