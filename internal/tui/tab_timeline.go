package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/model"
	"github.com/theirongolddev/compras/internal/tui/components"
	"github.com/theirongolddev/compras/internal/tui/theme"
)

func (a App) renderTimelineTab(cw int) string {
	t := theme.Active
	r := a.report
	var b strings.Builder

	if len(r.Monthly) > 0 {
		vals, labels := monthlySeries(r.Monthly)
		first, last := r.Monthly[0].Month, r.Monthly[len(r.Monthly)-1].Month
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Records per month · %s to %s", cli.FormatMonth(first), cli.FormatMonth(last)),
			components.BarChart(vals, labels, t.SeriesColor(0), components.CardInnerWidth(cw), 12),
			cw,
		))
		b.WriteString("\n")
	}

	if len(r.MonthType) > 0 {
		b.WriteString(components.ContentCard(
			"Monthly records by process type",
			typeSparklines(r.Monthly, r.MonthType, components.CardInnerWidth(cw)),
			cw,
		))
		b.WriteString("\n")
	}

	b.WriteString(a.skipNotice(model.ViewMonthly, model.ViewMonthType))
	return b.String()
}

// typeSparklines draws one sparkline per process type over the months of
// the monthly series, so every line shares the same x positions.
func typeSparklines(months []model.MonthCount, byType []model.MonthTypeCount, width int) string {
	t := theme.Active

	index := make(map[time.Time]int, len(months))
	for i, m := range months {
		index[m.Month] = i
	}

	var types []string
	series := make(map[string][]float64)
	totals := make(map[string]int)
	for _, mt := range byType {
		s, ok := series[mt.Type]
		if !ok {
			types = append(types, mt.Type)
			s = make([]float64, len(months))
			series[mt.Type] = s
		}
		if i, ok := index[mt.Month]; ok {
			s[i] += float64(mt.Count)
		}
		totals[mt.Type] += mt.Count
	}

	labelW := 0
	for _, typ := range types {
		labelW = max(labelW, lipgloss.Width(typ))
	}
	label := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	sparkW := width - labelW - 12
	lines := make([]string, len(types))
	for i, typ := range types {
		vals := series[typ]
		if sparkW > 0 && len(vals) > sparkW {
			vals = vals[len(vals)-sparkW:]
		}
		lines[i] = label.Render(fmt.Sprintf("%-*s", labelW, typ)) + space +
			components.Sparkline(vals, t.SeriesColor(typeIndex(typ))) + space +
			muted.Render(cli.FormatNumber(int64(totals[typ])))
	}
	return strings.Join(lines, "\n")
}

// typeIndex gives known process types stable series colors.
func typeIndex(typ string) int {
	for i, known := range model.ProcessTypes {
		if typ == known {
			return i
		}
	}
	return len(typ)
}
