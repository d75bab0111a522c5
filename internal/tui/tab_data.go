package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/tui/components"
	"github.com/theirongolddev/compras/internal/tui/theme"
)

const (
	maxColumnWidth = 40
	minColumnWidth = 6
	// dataChrome is the card border, title and footer around the rows table.
	dataChrome = 8
)

func newRowsTable() table.Model {
	t := theme.Active
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(t.Accent).
		BorderForeground(t.Border).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(t.TextPrimary).
		Background(t.SurfaceHover).
		Bold(false)
	styles.Cell = styles.Cell.Foreground(t.TextMuted)

	return table.New(
		table.WithFocused(true),
		table.WithStyles(styles),
	)
}

// fillRows loads the current table's columns and cells into the rows widget.
func (a *App) fillRows() {
	a.rows.SetRows(nil)
	if a.table == nil {
		a.rows.SetColumns(nil)
		return
	}

	widths := make([]int, len(a.table.Columns))
	for i, c := range a.table.Columns {
		widths[i] = max(lipgloss.Width(c), minColumnWidth)
	}
	rows := make([]table.Row, len(a.table.Rows))
	for r, row := range a.table.Rows {
		cells := make(table.Row, len(a.table.Columns))
		for i, c := range a.table.Columns {
			cells[i] = row.Cells[c]
			widths[i] = min(max(widths[i], lipgloss.Width(cells[i])), maxColumnWidth)
		}
		rows[r] = cells
	}

	cols := make([]table.Column, len(a.table.Columns))
	for i, c := range a.table.Columns {
		cols[i] = table.Column{Title: c, Width: widths[i]}
	}
	a.rows.SetColumns(cols)
	a.rows.SetRows(rows)
	a.rows.GotoTop()
	a.resizeRows()
}

func (a *App) resizeRows() {
	if a.height == 0 {
		return
	}
	a.rows.SetWidth(components.CardInnerWidth(a.contentWidth()))
	a.rows.SetHeight(max(a.height-dataChrome-3, 3))
}

func (a App) renderDataTab(cw int) string {
	t := theme.Active
	footer := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	n := len(a.rows.Rows())
	pos := 0
	if n > 0 {
		pos = a.rows.Cursor() + 1
	}
	body := a.rows.View() + "\n" +
		footer.Render(fmt.Sprintf("row %s of %s · j/k to move · e exports %d columns",
			cli.FormatNumber(int64(pos)), cli.FormatNumber(int64(n)), len(a.rows.Columns())))
	return components.ContentCard("Filtered records", body, cw)
}
