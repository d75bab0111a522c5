package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/compras/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorBlue      = lipgloss.Color("#4385BE")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	moneyStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	countStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	// Calculate column widths
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			if w := lipgloss.Width(h); w > widths[i] {
				widths[i] = w
			}
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols && lipgloss.Width(cell) > widths[i] {
					widths[i] = lipgloss.Width(cell)
				}
			}
		}
	}

	var b strings.Builder

	// Title above table if present
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	// Top border
	b.WriteString(dimStyle.Render("╭"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┬"))
		}
	}
	b.WriteString(dimStyle.Render("╮"))
	b.WriteString("\n")

	// Header row
	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			w := widths[i]
			padded := fmt.Sprintf(" %-*s ", w, h)
			b.WriteString(headerStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")

		// Header separator
		b.WriteString(dimStyle.Render("├"))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("┼"))
			}
		}
		b.WriteString(dimStyle.Render("┤"))
		b.WriteString("\n")
	}

	// Data rows
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			// Separator row
			b.WriteString(dimStyle.Render("├"))
			for i, w := range widths {
				b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
				if i < numCols-1 {
					b.WriteString(dimStyle.Render("┼"))
				}
			}
			b.WriteString(dimStyle.Render("┤"))
			b.WriteString("\n")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			w := widths[i]
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all except first)
			var padded string
			if i == 0 {
				padded = fmt.Sprintf(" %-*s ", w, cell)
			} else {
				padded = fmt.Sprintf(" %*s ", w, cell)
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	// Bottom border
	b.WriteString(dimStyle.Render("╰"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┴"))
		}
	}
	b.WriteString(dimStyle.Render("╯"))
	b.WriteString("\n")

	return b.String()
}

// RenderShareBar renders a proportion bar with the share as a percentage.
func RenderShareBar(part, total int, width int) string {
	if total <= 0 {
		return ""
	}

	pct := float64(part) / float64(total)
	if pct > 1 {
		pct = 1
	}

	filled := int(math.Round(pct * float64(width)))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %6s", countStyle.Render(bar), FormatPercent(pct))
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(blocks[idx])
	}

	return b.String()
}

// Bar is one labelled entry of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Text  string // rendered value; defaults to the plain number
}

// RenderBarChart renders labelled horizontal bars scaled to the largest
// value. Labels are left-aligned to the widest label.
func RenderBarChart(title string, bars []Bar, maxWidth int) string {
	if len(bars) == 0 {
		return ""
	}

	labelWidth := 0
	peak := 0.0
	for _, bar := range bars {
		if w := lipgloss.Width(bar.Label); w > labelWidth {
			labelWidth = w
		}
		if bar.Value > peak {
			peak = bar.Value
		}
	}

	var b strings.Builder
	if title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(title))
		b.WriteString("\n")
	}
	for _, bar := range bars {
		barLen := 0
		if peak > 0 {
			barLen = int(math.Round(bar.Value / peak * float64(maxWidth)))
		}
		if barLen < 0 {
			barLen = 0
		}
		text := bar.Text
		if text == "" {
			text = FormatCompact(bar.Value)
		}
		label := bar.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(bar.Label))
		fmt.Fprintf(&b, "  %s %s %s\n",
			valueStyle.Render(label),
			countStyle.Render(strings.Repeat("█", barLen)),
			mutedStyle.Render(text),
		)
	}
	return b.String()
}

// heatLevels shades heatmap cells from empty to the busiest month.
var heatLevels = []rune{'·', '░', '▒', '▓', '█'}

// RenderHeatmap renders the (year, month) density grid, one row per year.
func RenderHeatmap(hm *model.Heatmap) string {
	if hm == nil || len(hm.Years) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("        ")
	for m := 1; m <= 12; m++ {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-4s", FormatMonthAbbrev(m))))
	}
	b.WriteString("\n")

	for i, year := range hm.Years {
		fmt.Fprintf(&b, "  %s  ", headerStyle.Render(fmt.Sprintf("%4d", year)))
		for _, c := range hm.Counts[i] {
			b.WriteString(countStyle.Render(fmt.Sprintf("%-4s", string(heatCell(c, hm.Max)))))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf("max %s per month", FormatNumber(int64(hm.Max)))))
	return b.String()
}

func heatCell(count, peak int) rune {
	if count <= 0 || peak <= 0 {
		return heatLevels[0]
	}
	idx := 1 + int(float64(count)/float64(peak)*float64(len(heatLevels)-2)+0.5)
	if idx >= len(heatLevels) {
		idx = len(heatLevels) - 1
	}
	return heatLevels[idx]
}

// RenderNotice renders an informational line, e.g. a skipped view.
func RenderNotice(msg string) string {
	return "  " + warnStyle.Render("• "+msg)
}

// RenderMoney renders an amount in the money color.
func RenderMoney(v float64) string {
	return moneyStyle.Render(FormatMoney(v))
}

// RenderKV renders an aligned label/value pair.
func RenderKV(label, value string, labelWidth int) string {
	return fmt.Sprintf("  %s %s",
		mutedStyle.Render(fmt.Sprintf("%-*s", labelWidth, label)),
		valueStyle.Render(value))
}

// RenderHeading renders a section heading, indented like table titles.
func RenderHeading(s string) string {
	return "  " + headerStyle.Render(s)
}
