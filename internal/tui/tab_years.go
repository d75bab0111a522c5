package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/model"
	"github.com/theirongolddev/compras/internal/tui/components"
	"github.com/theirongolddev/compras/internal/tui/theme"
)

func (a App) renderYearsTab(cw int) string {
	t := theme.Active
	r := a.report
	var b strings.Builder

	if len(r.Yearly) > 0 {
		bars := make([]components.HBar, len(r.Yearly))
		title := "Records per year"
		for i, y := range r.Yearly {
			bars[i] = components.HBar{
				Label: strconv.Itoa(y.Year),
				Value: float64(y.Count),
				Text:  cli.FormatNumber(int64(y.Count)),
				Color: t.SeriesColor(0),
			}
			if r.HasTotal {
				bars[i].Value = y.Total
				bars[i].Text = fmt.Sprintf("%s · %s records", cli.FormatMoney(y.Total), cli.FormatNumber(int64(y.Count)))
				bars[i].Color = t.Money
			}
		}
		if r.HasTotal {
			title = "Total per year"
		}
		b.WriteString(components.ContentCard(title, components.HBarChart(bars, components.CardInnerWidth(cw)), cw))
		b.WriteString("\n")
	}

	if r.Heatmap != nil {
		b.WriteString(components.ContentCard("Records by year and month", components.HeatGrid(r.Heatmap), cw))
		b.WriteString("\n")
	}

	b.WriteString(a.skipNotice(model.ViewYearly, model.ViewHeatmap))
	return b.String()
}
