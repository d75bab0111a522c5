package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/model"
	"github.com/theirongolddev/compras/internal/tui/components"
	"github.com/theirongolddev/compras/internal/tui/theme"
)

// describeWidth is the outer width of the amount statistics card beside the chart.
const describeWidth = 36

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	r := a.report
	var b strings.Builder

	// Row 1: KPI cards
	amount := components.Metric{Label: "Total amount", Value: "n/a", Note: "no amount field"}
	if r.HasAmount {
		amount.Value = cli.FormatCompactMoney(r.Amount.Sum)
		amount.Note = cli.FormatNumber(int64(r.Amount.Count)) + " with amount"
	}
	top := components.Metric{Label: "Top provider", Value: "n/a"}
	if len(r.Providers) > 0 {
		top.Value = truncStr(r.Providers[0].Provider, 24)
		top.Note = cli.FormatNumber(int64(r.Providers[0].Count)) + " records"
	}
	metrics := []components.Metric{
		{
			Label: "Records",
			Value: cli.FormatNumber(int64(r.Records)),
			Note:  "of " + cli.FormatNumber(int64(r.Fetched)) + " fetched",
		},
		amount,
		{
			Label: "Mean amount",
			Value: cli.FormatCompactMoney(r.Amount.Mean),
			Note:  "median " + cli.FormatCompactMoney(r.Amount.Median),
		},
		top,
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: describe table next to the monthly chart
	describeW, chartW := describeWidth, cw-describeWidth
	if a.isCompactLayout() || len(r.Monthly) == 0 {
		describeW, chartW = cw, cw
	}
	describe := components.ContentCard("Amount statistics", a.describeBody(), describeW)

	switch {
	case len(r.Monthly) == 0:
		b.WriteString(describe)
	default:
		vals, labels := monthlySeries(r.Monthly)
		chart := components.ContentCard(
			fmt.Sprintf("Records per month (%s dated)", cli.FormatNumber(int64(r.Dated))),
			components.BarChart(vals, labels, t.SeriesColor(0), components.CardInnerWidth(chartW), 10),
			chartW,
		)
		if a.isCompactLayout() {
			b.WriteString(describe + "\n" + chart)
		} else {
			b.WriteString(components.CardRow([]string{describe, chart}))
		}
	}
	b.WriteString("\n")

	b.WriteString(a.skipNotice(model.ViewAmount, model.ViewMonthly))
	return b.String()
}

func (a App) describeBody() string {
	t := theme.Active
	r := a.report
	if !r.HasAmount {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("no amount column")
	}

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	money := lipgloss.NewStyle().Foreground(t.Money).Background(t.Surface)
	s := r.Amount
	rows := []struct {
		name  string
		value string
	}{
		{"count", cli.FormatNumber(int64(s.Count))},
		{"sum", cli.FormatMoney(s.Sum)},
		{"mean", cli.FormatMoney(s.Mean)},
		{"std", cli.FormatMoney(s.Std)},
		{"min", cli.FormatMoney(s.Min)},
		{"25%", cli.FormatMoney(s.P25)},
		{"50%", cli.FormatMoney(s.Median)},
		{"75%", cli.FormatMoney(s.P75)},
		{"max", cli.FormatMoney(s.Max)},
	}
	valueW := 0
	for _, row := range rows {
		valueW = max(valueW, len(row.value))
	}
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = label.Render(fmt.Sprintf("%-6s", row.name)) + money.Render(fmt.Sprintf("%*s", valueW, row.value))
	}
	return strings.Join(lines, "\n")
}

// monthlySeries turns gap-filled month counts into chart values and labels.
// Labels name the month on January and on the first point, else nothing.
func monthlySeries(months []model.MonthCount) ([]float64, []string) {
	vals := make([]float64, len(months))
	labels := make([]string, len(months))
	for i, m := range months {
		vals[i] = float64(m.Count)
		switch {
		case i == 0 || m.Month.Month() == 1:
			labels[i] = m.Month.Format("Jan06")
		default:
			labels[i] = m.Month.Format("Jan")
		}
	}
	return vals, labels
}
