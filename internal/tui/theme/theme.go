// Package theme holds the color palettes foogie renders with. The TUI reads
// Active; `foogie setup` and the [appearance] config key pick it by name.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps the color roles the TUI and CLI renderers draw with.
type Theme struct {
	Name string

	Background   lipgloss.Color // screen
	Surface      lipgloss.Color // cards, tab bar
	SurfaceHover lipgloss.Color // selected row, active tab
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // focused card

	TextDim     lipgloss.Color // hints, key help
	TextMuted   lipgloss.Color // labels
	TextPrimary lipgloss.Color

	Accent       lipgloss.Color
	AccentBright lipgloss.Color

	// Budget and expiry states: under goal, nearing it, over it.
	Green  lipgloss.Color
	Yellow lipgloss.Color
	Orange lipgloss.Color
	Red    lipgloss.Color

	Blue lipgloss.Color // macros
	Cyan lipgloss.Color // sync status
}

// FlexokiDark is the default palette.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   "#100F0F",
	Surface:      "#1C1B1A",
	SurfaceHover: "#282726",
	Border:       "#403E3C",
	BorderAccent: "#3AA99F",
	TextDim:      "#575653",
	TextMuted:    "#878580",
	TextPrimary:  "#FFFCF0",
	Accent:       "#3AA99F",
	AccentBright: "#5BC8BE",
	Green:        "#879A39",
	Yellow:       "#D0A215",
	Orange:       "#DA702C",
	Red:          "#D14D41",
	Blue:         "#4385BE",
	Cyan:         "#24837B",
}

var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   "#1E1E2E",
	Surface:      "#313244",
	SurfaceHover: "#45475A",
	Border:       "#585B70",
	BorderAccent: "#89B4FA",
	TextDim:      "#6C7086",
	TextMuted:    "#A6ADC8",
	TextPrimary:  "#CDD6F4",
	Accent:       "#89B4FA",
	AccentBright: "#B4D0FB",
	Green:        "#A6E3A1",
	Yellow:       "#F9E2AF",
	Orange:       "#FAB387",
	Red:          "#F38BA8",
	Blue:         "#89B4FA",
	Cyan:         "#94E2D5",
}

var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   "#1A1B26",
	Surface:      "#24283B",
	SurfaceHover: "#343A52",
	Border:       "#565F89",
	BorderAccent: "#7AA2F7",
	TextDim:      "#565F89",
	TextMuted:    "#A9B1D6",
	TextPrimary:  "#C0CAF5",
	Accent:       "#7AA2F7",
	AccentBright: "#A9C1FF",
	Green:        "#9ECE6A",
	Yellow:       "#E0AF68",
	Orange:       "#FF9E64",
	Red:          "#F7768E",
	Blue:         "#7AA2F7",
	Cyan:         "#7DCFFF",
}

// All lists the palettes in the order setup offers them.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight}

// Active is the palette in use.
var Active = FlexokiDark

// ByName returns the named palette, or FlexokiDark for unknown names.
func ByName(name string) Theme {
	if t, ok := lookup(name); ok {
		return t
	}
	return FlexokiDark
}

// Valid reports whether name is a known palette.
func Valid(name string) bool {
	_, ok := lookup(name)
	return ok
}

func lookup(name string) (Theme, bool) {
	for _, t := range All {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// Names lists the palette names in All order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// SetActive switches Active by name.
func SetActive(name string) { Active = ByName(name) }
