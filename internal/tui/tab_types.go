package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/compras/internal/model"
	"github.com/theirongolddev/compras/internal/tui/components"
	"github.com/theirongolddev/compras/internal/tui/theme"
)

func (a App) renderTypesTab(cw int) string {
	t := theme.Active
	r := a.report
	if len(r.Types) == 0 {
		return a.skipNotice(model.ViewTypes)
	}

	total := 0
	labelW := 0
	for _, tc := range r.Types {
		total += tc.Count
		labelW = max(labelW, lipgloss.Width(tc.Type))
	}
	barW := max(components.CardInnerWidth(cw)-labelW-22, 10)

	lines := make([]string, len(r.Types))
	for i, tc := range r.Types {
		lines[i] = components.ShareBar(tc.Type, tc.Count, total, t.SeriesColor(typeIndex(tc.Type)), labelW, barW)
	}
	return components.ContentCard("Share of records by process type", strings.Join(lines, "\n"), cw)
}
