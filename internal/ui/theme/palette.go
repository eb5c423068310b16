package theme

import (
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/slotwise/internal/slot"
)

// Palette holds lipgloss colors derived from a Theme.
type Palette struct {
	Fg       lipgloss.Color
	Muted    lipgloss.Color
	Accent   lipgloss.Color
	Personal lipgloss.Color
	Event    lipgloss.Color
	Holiday  lipgloss.Color

	// HolidayText is the readable text color on a Holiday background.
	HolidayText lipgloss.Color
	// FlexibleSoft is Flexible pushed toward the background, for
	// low-priority time that should not compete with events.
	FlexibleSoft lipgloss.Color

	priorities map[slot.Priority]lipgloss.Color
}

// NewPalette derives a Palette from the provided Theme. A nil theme uses
// the default.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		def := builtin[DefaultName]
		t = &def
	}

	softRatio := 0.35
	if isLightTheme(t.Bg) {
		softRatio = 0.25
	}

	return &Palette{
		Fg:           lipgloss.Color(t.Fg),
		Muted:        lipgloss.Color(t.Muted),
		Accent:       lipgloss.Color(t.Accent),
		Personal:     lipgloss.Color(t.Personal),
		Event:        lipgloss.Color(t.Event),
		Holiday:      lipgloss.Color(t.Holiday),
		HolidayText:  lipgloss.Color(chooseTextColor(t.Holiday, t.Bg, t.Fg)),
		FlexibleSoft: lipgloss.Color(blendColors(t.Flexible, t.Bg, softRatio)),
		priorities: map[slot.Priority]lipgloss.Color{
			slot.Preferred: lipgloss.Color(t.Preferred),
			slot.Normal:    lipgloss.Color(t.Normal),
			slot.Flexible:  lipgloss.Color(t.Flexible),
		},
	}
}

// Priority returns the color for availability of priority p.
func (p *Palette) Priority(pr slot.Priority) lipgloss.Color {
	if c, ok := p.priorities[pr]; ok {
		return c
	}
	return p.Muted
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

// parseHex parses a 2-character hex string into an integer.
func parseHex(s string, v *int) {
	var val int
	for i := 0; i < len(s); i++ {
		val *= 16
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	*v = val
}

func parseRGB(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	parseHex(hex[1:3], &r)
	parseHex(hex[3:5], &g)
	parseHex(hex[5:7], &b)
	return r, g, b, true
}

// formatHexColor formats RGB values as a hex color string.
func formatHexColor(r, g, b int) string {
	const hex = "0123456789abcdef"
	return string([]byte{'#', hex[r>>4], hex[r&0xf], hex[g>>4], hex[g&0xf], hex[b>>4], hex[b&0xf]})
}

// chooseTextColor picks whichever of two text colors reads better on bg.
func chooseTextColor(bg, a, b string) string {
	if contrastRatio(bg, a) >= contrastRatio(bg, b) {
		return a
	}
	return b
}

func contrastRatio(a, b string) float64 {
	l1 := relativeLuminance(a)
	l2 := relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func relativeLuminance(hex string) float64 {
	r, g, b, ok := parseRGB(hex)
	if !ok {
		return 0
	}
	return 0.2126*srgbToLinear(r) + 0.7152*srgbToLinear(g) + 0.0722*srgbToLinear(b)
}

func srgbToLinear(c int) float64 {
	v := float64(c) / 255.0
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// blendColors moves a toward b by ratio in [0, 1].
func blendColors(a, b string, ratio float64) string {
	ar, ag, ab, okA := parseRGB(a)
	br, bg, bb, okB := parseRGB(b)
	if !okA || !okB {
		return a
	}
	ratio = max(0, min(1, ratio))

	mix := func(x, y int) int {
		return int(float64(x)*(1-ratio) + float64(y)*ratio)
	}
	return formatHexColor(mix(ar, br), mix(ag, bg), mix(ab, bb))
}
