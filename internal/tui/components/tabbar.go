package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/compras/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name
}

// Tabs defines all available tabs, in display order.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o', KeyPos: 0},
	{Name: "Providers", Key: 'p', KeyPos: 0},
	{Name: "Timeline", Key: 't', KeyPos: 0},
	{Name: "Types", Key: 'y', KeyPos: 1},
	{Name: "Years", Key: 'a', KeyPos: 2},
	{Name: "Data", Key: 'd', KeyPos: 0},
}

const tabPadding = 1

// TabVisualWidth returns the rendered width of one tab, padding included.
// Inactive tabs show their shortcut wrapped in brackets.
func TabVisualWidth(tab Tab, active bool) int {
	w := len([]rune(tab.Name)) + 2*tabPadding
	if !active {
		w += 2
	}
	return w
}

func renderTab(tab Tab, active bool) string {
	t := theme.Active

	if active {
		return lipgloss.NewStyle().
			Foreground(t.AccentBright).
			Background(t.SurfaceHover).
			Bold(true).
			Padding(0, tabPadding).
			Render(tab.Name)
	}

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	name := []rune(tab.Name)
	pos := tab.KeyPos
	if pos < 0 || pos >= len(name) {
		pos = 0
	}
	pad := base.Render(strings.Repeat(" ", tabPadding))
	return pad +
		base.Render(string(name[:pos])) +
		dim.Render("[") + key.Render(string(name[pos])) + dim.Render("]") +
		base.Render(string(name[pos+1:])) +
		pad
}

// RenderTabBar renders a single-row tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	row := strings.Join(parts, sep)

	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
