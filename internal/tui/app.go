// Package tui provides the interactive Bubble Tea dashboard for compras.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/export"
	"github.com/theirongolddev/compras/internal/model"
	"github.com/theirongolddev/compras/internal/pipeline"
	"github.com/theirongolddev/compras/internal/tui/components"
	"github.com/theirongolddev/compras/internal/tui/theme"
)

// Reporter builds reports for a filter. *pipeline.Loader satisfies it.
type Reporter interface {
	Report(ctx context.Context, f model.Filter) (*model.Report, *model.Table, *pipeline.LoadResult, error)
	RefreshReport(ctx context.Context, f model.Filter) (*model.Report, *model.Table, *pipeline.LoadResult, error)
}

// ReportLoadedMsg is sent when a report load finishes, successfully or not.
type ReportLoadedMsg struct {
	Seq      int // load sequence number; stale loads are dropped
	Filter   model.Filter
	Report   *model.Report
	Table    *model.Table
	Source   string
	FetchErr error // transport failure behind an empty result
	Err      error
	Elapsed  time.Duration
}

// ExportedMsg is sent when a CSV export finishes.
type ExportedMsg struct {
	Path string
	Err  error
}

// Options configures the dashboard.
type Options struct {
	Filter    model.Filter
	ExportDir string        // where `e` writes the CSV; defaults to the working dir
	Timeout   time.Duration // per-load deadline; zero means none
	Log       *zap.Logger
}

// App is the root Bubble Tea model.
type App struct {
	reporter  Reporter
	log       *zap.Logger
	exportDir string
	timeout   time.Duration

	// Data for the current filter
	filter   model.Filter
	report   *model.Report
	table    *model.Table
	source   string
	fetchErr error
	loadErr  error
	noData   bool
	loaded   bool
	loading  bool
	loadSeq  int // sequence of the most recent load request

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	notice    string
	noticeBad bool

	// Filter form (huh), open while non-nil
	filterForm *huh.Form
	formVals   filterValues

	rows    table.Model
	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5

	tabData = 5
)

// NewApp creates the dashboard for the given filter.
func NewApp(r Reporter, opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	return App{
		reporter:  r,
		log:       log,
		exportDir: opts.ExportDir,
		timeout:   opts.Timeout,
		filter:    opts.Filter,
		loading:   true,
		spinner:   sp,
		rows:      newRowsTable(),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		loadReportCmd(a.reporter, a.loadSeq, a.filter, false, a.timeout),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.filterForm != nil {
			a.filterForm = a.filterForm.WithWidth(min(msg.Width, 60))
		}
		a.resizeRows()
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.filterForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabData {
				a.rows.MoveUp(1)
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabData {
				a.rows.MoveDown(1)
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if a.filterForm != nil {
			return a.updateFilterForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "f":
			return a.openFilterForm()
		}

		if !a.loaded || a.loading {
			return a, nil
		}

		switch key {
		case "r":
			a.loading = true
			a.loadSeq++
			a.notice = ""
			return a, tea.Batch(a.spinner.Tick, loadReportCmd(a.reporter, a.loadSeq, a.filter, true, a.timeout))
		case "e":
			if a.table == nil {
				a.setNotice("nothing to export", true)
				return a, nil
			}
			return a, exportCSVCmd(a.table, a.exportDir)
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		}

		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				a.activeTab = idx
				return a, nil
			}
		}

		if a.activeTab == tabData {
			var cmd tea.Cmd
			a.rows, cmd = a.rows.Update(msg)
			return a, cmd
		}
		return a, nil

	case ReportLoadedMsg:
		a.applyReport(msg)
		return a, nil

	case ExportedMsg:
		if msg.Err != nil {
			a.log.Warn("csv export failed", zap.Error(msg.Err))
			a.setNotice("export failed: "+msg.Err.Error(), true)
		} else {
			a.setNotice("exported "+msg.Path, false)
		}
		return a, nil

	case spinner.TickMsg:
		if a.loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Cursor blinks and other form internals.
	if a.filterForm != nil {
		return a.updateFilterForm(msg)
	}
	return a, nil
}

func (a *App) applyReport(msg ReportLoadedMsg) {
	if msg.Seq != a.loadSeq {
		a.log.Debug("dropping superseded report",
			zap.Stringer("key", msg.Filter.Key()),
			zap.Int("seq", msg.Seq),
			zap.Int("current", a.loadSeq))
		return
	}
	a.loaded = true
	a.loading = false
	a.filter = msg.Filter
	a.source = msg.Source
	a.fetchErr = msg.FetchErr
	a.noData = errors.Is(msg.Err, pipeline.ErrNoData)
	a.loadErr = nil
	if msg.Err != nil && !a.noData {
		a.loadErr = msg.Err
	}

	a.report = msg.Report
	a.table = msg.Table
	a.fillRows()

	a.log.Debug("report loaded",
		zap.Stringer("key", msg.Filter.Key()),
		zap.String("source", msg.Source),
		zap.Bool("no_data", a.noData),
		zap.Duration("elapsed", msg.Elapsed))
}

func (a *App) setNotice(s string, bad bool) {
	a.notice = s
	a.noticeBad = bad
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.filterForm != nil {
		return a.viewFilterForm()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  compras needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sub := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logo.Render("◈ compras"))
	b.WriteString(sub.Render(" · Public procurement"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(sub.Render(" Fetching " + cli.FormatFilter(a.filter) + "…"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	title := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	section := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(title.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	groups := []struct {
		name     string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o p t y a d", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Move through rows (Data)"},
		}},
		{"Actions", [][2]string{
			{"f", "Change year, region or type"},
			{"e", "Export rows to " + export.CSVFilename},
			{"r", "Fetch again, skipping caches"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for gi, g := range groups {
		if gi > 0 {
			b.WriteString("\n")
		}
		b.WriteString(section.Render(g.name))
		b.WriteString("\n")
		for _, bind := range g.bindings {
			fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-12s", bind[0])), desc.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	pill := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pillAccent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	filterLine := pill.Render(" ") + pillAccent.Render(cli.FormatFilter(a.filter))
	if a.report != nil {
		filterLine += pill.Render(fmt.Sprintf("  │  %s of %s records",
			cli.FormatNumber(int64(a.report.Records)), cli.FormatNumber(int64(a.report.Fetched))))
	}
	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(filterLine)

	status := components.Status{
		Source:  a.source,
		Notice:  a.notice,
		Warning: a.noticeBad,
		Busy:    a.loading,
	}
	if a.report != nil && !a.report.FetchedAt.IsZero() {
		status.Age = cli.FormatAge(a.report.FetchedAt)
	}
	statusBar := components.RenderStatusBar(w, status)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.loadErr != nil:
		content = a.renderMessage("Could not build the report", a.loadErr.Error(), cw)
	case a.noData:
		detail := "Press f to choose another year, region or type."
		if a.fetchErr != nil {
			detail = a.fetchErr.Error() + "\n" + detail
		}
		content = a.renderMessage(cli.NoDataMessage, detail, cw)
	default:
		switch a.activeTab {
		case 0:
			content = a.renderOverviewTab(cw)
		case 1:
			content = a.renderProvidersTab(cw)
		case 2:
			content = a.renderTimelineTab(cw)
		case 3:
			content = a.renderTypesTab(cw)
		case 4:
			content = a.renderYearsTab(cw)
		case tabData:
			content = a.renderDataTab(cw)
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderMessage(title, detail string, cw int) string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface).Bold(true)
	detailStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	return "\n" + components.ContentCard("", titleStyle.Render(title)+"\n\n"+detailStyle.Render(detail), cw)
}

// skipNotice returns a rendered line for every skipped view in views.
func (a App) skipNotice(views ...string) string {
	if a.report == nil {
		return ""
	}
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)
	var lines []string
	for _, s := range a.report.Skipped {
		for _, v := range views {
			if s.View == v {
				lines = append(lines, style.Render("• "+cli.FormatSkip(s)))
			}
		}
	}
	return strings.Join(lines, "\n")
}

// ─── Commands ───────────────────────────────────────────────────

func loadReportCmd(r Reporter, seq int, f model.Filter, refresh bool, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		load := r.Report
		if refresh {
			load = r.RefreshReport
		}

		start := time.Now()
		report, tbl, res, err := load(ctx, f)
		msg := ReportLoadedMsg{
			Seq:     seq,
			Filter:  f,
			Report:  report,
			Table:   tbl,
			Err:     err,
			Elapsed: time.Since(start),
		}
		if res != nil {
			msg.Source = res.Source
			msg.FetchErr = res.Err
		}
		return msg
	}
}

func exportCSVCmd(tbl *model.Table, dir string) tea.Cmd {
	return func() tea.Msg {
		path := filepath.Join(dir, export.CSVFilename)
		f, err := os.Create(path) //nolint:gosec // fixed file name in the chosen dir
		if err != nil {
			return ExportedMsg{Err: err}
		}
		if err := export.WriteCSV(f, tbl); err != nil {
			_ = f.Close()
			return ExportedMsg{Err: err}
		}
		if err := f.Close(); err != nil {
			return ExportedMsg{Err: err}
		}
		return ExportedMsg{Path: path}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the widths used by RenderTabBar, with a one-column
// separator between tabs.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1
	}
	return -1
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
