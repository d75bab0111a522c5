package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/tui/theme"
)

// ShareBar renders "label ████░░░░ 42.0% (n)" for one slice of a whole.
func ShareBar(label string, count, total int, color lipgloss.Color, labelW, barWidth int) string {
	t := theme.Active

	pct := 0.0
	if total > 0 {
		pct = float64(count) / float64(total)
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.Border)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	countStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(label, labelW))) +
		space +
		bar.ViewAs(pct) +
		space +
		pctStyle.Render(fmt.Sprintf("%6s", cli.FormatPercent(pct))) +
		countStyle.Render(fmt.Sprintf("  (%s)", cli.FormatNumber(int64(count))))
}
