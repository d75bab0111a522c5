package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/compras/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests.
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, total := range []int{80, 81, 119, 180} {
		sum := 0
		for _, w := range LayoutRow(total, 4) {
			sum += w
		}
		if sum != total {
			t.Errorf("LayoutRow(%d, 4) sums to %d", total, sum)
		}
	}
	if LayoutRow(80, 0) != nil {
		t.Error("LayoutRow(80, 0) should be nil")
	}
}

func TestCardRowPadsShortCards(t *testing.T) {
	theme.SetActive("flexoki-dark")

	short := ContentCard("Proveedores", "10", 22)
	tall := ContentCard("Monto", "a\nb\nc\nd\ne", 22)
	shortLines := lipgloss.Height(short)
	tallLines := lipgloss.Height(tall)
	if shortLines >= tallLines {
		t.Fatal("short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tall, short}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("line %d has no styling under the short card", i)
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	row := MetricCardRow([]Metric{
		{Label: "Contratos", Value: "1,204"},
		{Label: "Monto total", Value: "$3.4M", Note: "1,198 con monto"},
		{Label: "Proveedores", Value: "312"},
	}, 90)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
}
