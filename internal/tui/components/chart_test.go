package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/compras/internal/model"
)

func TestChartTickStep(t *testing.T) {
	cases := map[float64]float64{
		0:    1,
		3:    1,
		10:   2,
		48:   5,
		1200: 200,
	}
	for in, want := range cases {
		if got := chartTickStep(in); got != want {
			t.Errorf("chartTickStep(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestHeatLevel(t *testing.T) {
	if got := heatLevel(0, 10, 5); got != 0 {
		t.Errorf("empty cell level = %d, want 0", got)
	}
	if got := heatLevel(1, 10, 5); got != 1 {
		t.Errorf("sparse cell level = %d, want 1", got)
	}
	if got := heatLevel(10, 10, 5); got != 4 {
		t.Errorf("peak cell level = %d, want 4", got)
	}
}

func TestHeatGridRows(t *testing.T) {
	hm := &model.Heatmap{Years: []int{2023, 2024}, Counts: make([][12]int, 2), Max: 3}
	hm.Counts[1][2] = 3
	lines := strings.Split(HeatGrid(hm), "\n")
	if len(lines) != 4 { // header, two years, legend
		t.Fatalf("lines = %d, want 4", len(lines))
	}
	if !strings.Contains(lines[0], "Jan") || !strings.Contains(lines[2], "2024") {
		t.Errorf("unexpected grid:\n%s", strings.Join(lines, "\n"))
	}
	if HeatGrid(nil) != "" {
		t.Error("nil heatmap should render nothing")
	}
}

func TestHBarChartScales(t *testing.T) {
	out := HBarChart([]HBar{
		{Label: "a", Value: 10},
		{Label: "b", Value: 5},
		{Label: "c", Value: 0},
	}, 40)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	a, b, c := strings.Count(lines[0], "█"), strings.Count(lines[1], "█"), strings.Count(lines[2], "█")
	if a <= b || b == 0 || c != 0 {
		t.Errorf("bar lengths = %d/%d/%d", a, b, c)
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w > 40 {
			t.Errorf("line %d width = %d, exceeds 40", i, w)
		}
	}
}

func TestXAxisLabelsSkipsOverlaps(t *testing.T) {
	got := xAxisLabels([]string{"Jan24", "Feb", "Mar"}, 2, 6)
	if got != "Jan24" {
		t.Errorf("labels = %q, want %q", got, "Jan24")
	}
}
