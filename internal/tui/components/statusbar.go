package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/compras/internal/tui/theme"
)

// Status holds what the bottom bar shows besides the key hints.
type Status struct {
	Source  string // memo, cache or remote
	Age     string // how old the loaded batch is
	Notice  string // transient message, e.g. an export path
	Warning bool   // render Notice in the warning color
	Busy    bool   // a reload is in flight
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	notice := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	if s.Warning {
		notice = notice.Foreground(t.Warn)
	}

	hint := func(k, label string) string {
		return key.Render("["+k+"]") + base.Render(label+"  ")
	}
	left := base.Render(" ") +
		hint("f", "filter") + hint("e", "export") + hint("r", "reload") +
		hint("?", "help") + hint("q", "quit")

	right := ""
	switch {
	case s.Busy:
		right = "reloading… "
	case s.Source != "":
		right = s.Source
		if s.Age != "" {
			right += " · " + s.Age
		}
		right += " "
	}
	rightR := base.Render(right)

	middle := ""
	if s.Notice != "" {
		middle = notice.Render(s.Notice)
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(rightR)
	if padding < 0 {
		// Drop the notice before the hints.
		middle = ""
		padding = width - lipgloss.Width(left) - lipgloss.Width(rightR)
		if padding < 0 {
			padding = 0
		}
	}

	gap := lipgloss.NewStyle().Background(t.Surface).Width(padding).Render("")
	return lipgloss.NewStyle().Background(t.Surface).Width(width).
		Render(left + middle + gap + rightR)
}
