package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/model"
	"github.com/theirongolddev/compras/internal/tui/components"
	"github.com/theirongolddev/compras/internal/tui/theme"
)

func (a App) renderProvidersTab(cw int) string {
	t := theme.Active
	r := a.report
	if len(r.Providers) == 0 {
		return a.skipNotice(model.ViewProviders)
	}

	bars := make([]components.HBar, len(r.Providers))
	for i, p := range r.Providers {
		text := cli.FormatNumber(int64(p.Count))
		if r.Records > 0 {
			text += fmt.Sprintf(" (%s)", cli.FormatPercent(float64(p.Count)/float64(r.Records)))
		}
		bars[i] = components.HBar{
			Label: fmt.Sprintf("%2d. %s", i+1, p.Provider),
			Value: float64(p.Count),
			Text:  text,
			Color: t.SeriesColor(0),
		}
	}

	var b strings.Builder
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Top %d providers by records", len(bars)),
		components.HBarChart(bars, components.CardInnerWidth(cw)),
		cw,
	))
	return b.String()
}
