// Package theme defines color themes for the compras dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name         string
	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	SurfaceHover lipgloss.Color // Selected row
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // Focused overlays
	TextDim      lipgloss.Color // Hints, axis labels
	TextMuted    lipgloss.Color // Labels, metadata
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	Money        lipgloss.Color // Amounts and totals
	Warn         lipgloss.Color // Skip notices, fetch errors

	// Series colors, one per process type in model.ProcessTypes order.
	Series [3]lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Money:        lipgloss.Color("#A3B859"),
	Warn:         lipgloss.Color("#DA702C"),
	Series: [3]lipgloss.Color{
		lipgloss.Color("#4385BE"),
		lipgloss.Color("#D0A215"),
		lipgloss.Color("#CE5D97"),
	},
}

// TokyoNight is a cool blue/purple theme.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Money:        lipgloss.Color("#9ECE6A"),
	Warn:         lipgloss.Color("#FF9E64"),
	Series: [3]lipgloss.Color{
		lipgloss.Color("#7DCFFF"),
		lipgloss.Color("#E0AF68"),
		lipgloss.Color("#BB9AF7"),
	},
}

// Terminal uses ANSI 16 colors only.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Money:        lipgloss.Color("10"),
	Warn:         lipgloss.Color("3"),
	Series: [3]lipgloss.Color{
		lipgloss.Color("4"),
		lipgloss.Color("3"),
		lipgloss.Color("5"),
	},
}

// All available themes.
var All = []Theme{FlexokiDark, TokyoNight, Terminal}

// Names returns the name of every theme, for select prompts.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// SeriesColor returns the color for the i-th series, cycling.
func (t Theme) SeriesColor(i int) lipgloss.Color {
	if i < 0 {
		i = -i
	}
	return t.Series[i%len(t.Series)]
}
