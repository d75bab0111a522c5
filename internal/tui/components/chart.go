package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/model"
	"github.com/theirongolddev/compras/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := values[0]
	for _, v := range values[1:] {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = min(max(idx, 0), len(sparkBlocks)-1)
		buf.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// BarChart renders a vertical bar chart with a y-axis and sampled x labels.
// Falls back to a sparkline when the area is too small.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	step := chartTickStep(peak)
	for math.Ceil(peak/step) > float64(max(height/2, 2)) {
		step *= 2
	}
	ceiling := math.Ceil(peak/step) * step
	intervals := max(int(math.Round(ceiling/step)), 1)
	rowsPerTick := max(height/intervals, 2)
	chartH := rowsPerTick * intervals

	yLabelW := max(len(cli.FormatCompact(ceiling))+1, 4)
	ticks := make(map[int]string, intervals)
	for i := 1; i <= intervals; i++ {
		ticks[i*rowsPerTick] = cli.FormatCompact(step * float64(i))
	}

	chartW := max(width-yLabelW-1, 5)

	// Too many points for one column each: sample evenly.
	n := len(values)
	if maxN := (chartW + 1) / 3; n > maxN && maxN >= 2 {
		sampled := make([]float64, maxN)
		var sampledLabels []string
		if len(labels) == n {
			sampledLabels = make([]string, maxN)
		}
		for i := range sampled {
			src := i * (n - 1) / (maxN - 1)
			sampled[i] = values[src]
			if sampledLabels != nil {
				sampledLabels[i] = labels[src]
			}
		}
		values, labels, n = sampled, sampledLabels, maxN
	}

	gap := 1
	if n == 1 {
		gap = 0
	}
	barW := min(max((chartW-(n-1)*gap)/n, 1), 6)
	axisLen := n*barW + (n-1)*gap

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	bar := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	partial := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := ceiling * float64(row) / float64(chartH)
		bottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axis.Render(fmt.Sprintf("%*s│", yLabelW, ticks[row])))
		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(" ", gap)))
			}
			switch {
			case v >= top:
				b.WriteString(bar.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * 8)
				idx = min(max(idx, 1), 8)
				b.WriteString(bar.Render(strings.Repeat(string(partial[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", yLabelW, "0", strings.Repeat("─", axisLen))))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axis.Render(xAxisLabels(labels, barW+gap, axisLen)))
	}
	return b.String()
}

// xAxisLabels places labels at their bar offsets, skipping any that would
// overlap the previous one.
func xAxisLabels(labels []string, stride, axisLen int) string {
	buf := []rune(strings.Repeat(" ", axisLen))
	lastEnd := -1
	for i, lbl := range labels {
		pos := i * stride
		r := []rune(lbl)
		if pos <= lastEnd || pos+len(r) > axisLen {
			continue
		}
		copy(buf[pos:], r)
		lastEnd = pos + len(r)
	}
	return strings.TrimRight(string(buf), " ")
}

// chartTickStep computes a round tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return math.Max(base, 1)
	case frac < 3.5:
		return math.Max(2*base, 1)
	default:
		return math.Max(5*base, 1)
	}
}

// HBar is one row of a horizontal bar chart.
type HBar struct {
	Label string
	Value float64
	Text  string // value column; defaults to the compact number
	Color lipgloss.Color
}

// HBarChart renders labelled horizontal bars scaled to the largest value.
func HBarChart(bars []HBar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW, textW := 0, 0
	peak := 0.0
	for i := range bars {
		if bars[i].Text == "" {
			bars[i].Text = cli.FormatCompact(bars[i].Value)
		}
		labelW = max(labelW, lipgloss.Width(bars[i].Label))
		textW = max(textW, lipgloss.Width(bars[i].Text))
		peak = math.Max(peak, bars[i].Value)
	}
	labelW = min(labelW, max(width/3, 8))
	barMax := max(width-labelW-textW-2, 4)
	if peak == 0 {
		peak = 1
	}

	label := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, len(bars))
	for i, hb := range bars {
		color := hb.Color
		if color == "" {
			color = t.Accent
		}
		n := int(math.Round(hb.Value / peak * float64(barMax)))
		if hb.Value > 0 && n == 0 {
			n = 1
		}
		lines[i] = label.Render(fmt.Sprintf("%-*s", labelW, truncate(hb.Label, labelW))) +
			blank.Render(" ") +
			lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(strings.Repeat("█", n)) +
			blank.Render(strings.Repeat(" ", barMax-n+1)) +
			value.Render(fmt.Sprintf("%*s", textW, hb.Text))
	}
	return strings.Join(lines, "\n")
}

// HeatGrid renders a year by month density grid with a shade legend.
func HeatGrid(hm *model.Heatmap) string {
	if hm == nil || len(hm.Years) == 0 {
		return ""
	}
	t := theme.Active
	shades := []lipgloss.Color{t.Border, t.TextDim, t.Accent, t.AccentBright, t.TextPrimary}

	head := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(head.Render("      "))
	for m := 1; m <= 12; m++ {
		b.WriteString(head.Render(fmt.Sprintf("%-4s", cli.FormatMonthAbbrev(m))))
	}
	for i, year := range hm.Years {
		b.WriteString("\n")
		b.WriteString(head.Render(fmt.Sprintf("%-6d", year)))
		for m := 0; m < 12; m++ {
			count := hm.Counts[i][m]
			level := heatLevel(count, hm.Max, len(shades))
			cell := lipgloss.NewStyle().Foreground(shades[level]).Background(t.Surface).Render("██")
			b.WriteString(cell + blank.Render("  "))
		}
	}

	b.WriteString("\n")
	b.WriteString(head.Render("      0 "))
	for _, c := range shades {
		b.WriteString(lipgloss.NewStyle().Foreground(c).Background(t.Surface).Render("█"))
	}
	b.WriteString(head.Render(fmt.Sprintf(" %d", hm.Max)))
	return b.String()
}

func heatLevel(count, peak, levels int) int {
	if count <= 0 || peak <= 0 {
		return 0
	}
	l := 1 + count*(levels-2)/peak
	return min(l, levels-1)
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
