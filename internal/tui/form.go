package tui

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/compras/internal/config"
	"github.com/theirongolddev/compras/internal/model"
	"github.com/theirongolddev/compras/internal/tui/theme"
)

// firstFormYear is the oldest year offered by the filter form.
const firstFormYear = 2019

// filterValues backs the huh filter form.
type filterValues struct {
	Year   int
	Region string
	Type   string
}

func valuesFromFilter(f model.Filter) filterValues {
	return filterValues{Year: f.Year, Region: f.Region, Type: f.Type}
}

// apply returns base with the form values, keeping fields the form does
// not edit.
func (v filterValues) apply(base model.Filter) model.Filter {
	base.Year = v.Year
	base.Region = strings.TrimSpace(v.Region)
	base.Type = v.Type
	return base
}

// yearOptions lists years from the current one back to firstFormYear.
func yearOptions(now time.Time) []huh.Option[int] {
	var opts []huh.Option[int]
	for y := now.Year(); y >= firstFormYear; y-- {
		opts = append(opts, huh.NewOption(strconv.Itoa(y), y))
	}
	return opts
}

func newFilterForm(v *filterValues, now time.Time) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Year").
				Options(yearOptions(now)...).
				Value(&v.Year),
			huh.NewInput().
				Title("Region").
				Description("Province or search text sent to the endpoint").
				CharLimit(120).
				Value(&v.Region),
			huh.NewSelect[string]().
				Title("Process type").
				Options(huh.NewOptions(model.ProcessTypes...)...).
				Value(&v.Type),
		),
	).WithShowHelp(true).WithTheme(huh.ThemeCharm())
}

func (a App) openFilterForm() (tea.Model, tea.Cmd) {
	a.formVals = valuesFromFilter(a.filter)
	a.filterForm = newFilterForm(&a.formVals, time.Now())
	if a.width > 0 {
		a.filterForm = a.filterForm.WithWidth(min(a.width, 60))
	}
	return a, a.filterForm.Init()
}

func (a App) updateFilterForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		a.filterForm = nil
		return a, nil
	}

	form, cmd := a.filterForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.filterForm = f
	}

	switch a.filterForm.State {
	case huh.StateCompleted:
		a.filterForm = nil
		next := a.formVals.apply(a.filter)
		if err := config.ValidateFilter(next); err != nil {
			a.setNotice(err.Error(), true)
			return a, nil
		}
		a.filter = next
		a.loading = true
		a.loadSeq++
		a.notice = ""
		a.rows.GotoTop()
		return a, tea.Batch(a.spinner.Tick, loadReportCmd(a.reporter, a.loadSeq, next, false, a.timeout))
	case huh.StateAborted:
		a.filterForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) viewFilterForm() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)
	title := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	hint := lipgloss.NewStyle().Foreground(t.TextDim)

	body := title.Render("◈ Filter") + "\n\n" + a.filterForm.View() + "\n" + hint.Render("esc to cancel")
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}
