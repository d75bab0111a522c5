package pipeline

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/theirongolddev/compras/internal/model"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregateAmount_SkipsUnparseable(t *testing.T) {
	table := Normalize([]model.Record{
		rec("amount", "100"),
		rec("amount", "abc"),
		rec("amount", "50"),
	})

	got := AggregateAmount(table)
	if got.Sum != 150 {
		t.Errorf("Sum = %v, want 150", got.Sum)
	}
	if got.Mean != 75 {
		t.Errorf("Mean = %v, want 75", got.Mean)
	}
	if got.Max != 100 || got.Min != 50 {
		t.Errorf("Max/Min = %v/%v, want 100/50", got.Max, got.Min)
	}
	if got.Count != 2 {
		t.Errorf("Count = %d, want 2", got.Count)
	}
}

func TestAggregateAmount_NoValidValues(t *testing.T) {
	table := Normalize([]model.Record{
		rec("amount", ""),
		rec("amount", "n/a"),
		rec("title", "sin monto"),
	})

	got := AggregateAmount(table)
	if diff := cmp.Diff(model.AmountStats{}, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateAmount_Describe(t *testing.T) {
	table := Normalize([]model.Record{
		rec("amount", "#4"),
		rec("amount", "#1"),
		rec("amount", "#3"),
		rec("amount", "#2"),
	})

	got := AggregateAmount(table)
	if !approx(got.P25, 1.75) || !approx(got.Median, 2.5) || !approx(got.P75, 3.25) {
		t.Errorf("quartiles = %v/%v/%v, want 1.75/2.5/3.25", got.P25, got.Median, got.P75)
	}
	if !approx(got.Std, math.Sqrt(5.0/3.0)) {
		t.Errorf("Std = %v, want %v", got.Std, math.Sqrt(5.0/3.0))
	}
}

func TestAggregateAmount_DecimalSum(t *testing.T) {
	table := Normalize([]model.Record{
		rec("amount", "0.1"),
		rec("amount", "0.2"),
	})
	if got := AggregateAmount(table).Sum; got != 0.3 {
		t.Errorf("Sum = %v, want 0.3", got)
	}
}

func TestTopProviders_StableTies(t *testing.T) {
	table := Normalize([]model.Record{
		rec("single_provider", "A"),
		rec("single_provider", "B"),
		rec("single_provider", "B"),
		rec("single_provider", "C"),
		rec("single_provider", "A"),
		rec("single_provider", "D"),
		rec("single_provider", ""),
		rec("title", "sin proveedor"),
	})

	want := []model.ProviderCount{
		{Provider: "A", Count: 2},
		{Provider: "B", Count: 2},
		{Provider: "C", Count: 1},
		{Provider: "D", Count: 1},
	}
	if diff := cmp.Diff(want, TopProviders(table, TopProviderLimit)); diff != "" {
		t.Errorf("providers mismatch (-want +got):\n%s", diff)
	}
}

func TestTopProviders_Limit(t *testing.T) {
	var batch []model.Record
	for i := 0; i < 12; i++ {
		batch = append(batch, rec("single_provider", fmt.Sprintf("P%02d", i)))
	}
	batch = append(batch, rec("single_provider", "P11"))

	got := TopProviders(Normalize(batch), TopProviderLimit)
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	if got[0].Provider != "P11" || got[0].Count != 2 {
		t.Errorf("first = %+v, want P11 x2", got[0])
	}
	if got[9].Provider != "P08" {
		t.Errorf("last = %s, want P08", got[9].Provider)
	}
}

func TestAggregateMonthly_GapFill(t *testing.T) {
	table := Normalize([]model.Record{
		rec("date", "2024-04-02"),
		rec("date", "2024-01-10"),
		rec("date", "2024-01-31T23:00:00Z"),
		rec("date", "bad"),
	})

	want := []model.MonthCount{
		{Month: month(2024, time.January), Count: 2},
		{Month: month(2024, time.February), Count: 0},
		{Month: month(2024, time.March), Count: 0},
		{Month: month(2024, time.April), Count: 1},
	}
	if diff := cmp.Diff(want, AggregateMonthly(table)); diff != "" {
		t.Errorf("monthly mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateMonthly_NoDatedRows(t *testing.T) {
	table := Normalize([]model.Record{rec("date", "bad")})
	if got := AggregateMonthly(table); got != nil {
		t.Errorf("monthly = %v, want nil", got)
	}
}

func TestAggregateMonthType_Order(t *testing.T) {
	table := Normalize([]model.Record{
		rec("date", "2024-02-01", "internal_type", "Servicios"),
		rec("date", "2024-01-01", "internal_type", "Obras"),
		rec("date", "2024-01-20", "internal_type", "Bienes"),
		rec("date", "2024-01-21", "internal_type", "Bienes"),
		rec("date", "2024-01-22"),
	})

	want := []model.MonthTypeCount{
		{Month: month(2024, time.January), Type: "Bienes", Count: 2},
		{Month: month(2024, time.January), Type: "Obras", Count: 1},
		{Month: month(2024, time.February), Type: "Servicios", Count: 1},
	}
	if diff := cmp.Diff(want, AggregateMonthType(table)); diff != "" {
		t.Errorf("month/type mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateTypes(t *testing.T) {
	table := Normalize([]model.Record{
		rec("internal_type", "Obras"),
		rec("internal_type", "Bienes"),
		rec("internal_type", "Bienes"),
		rec("internal_type", "Servicios"),
		rec("internal_type", "  "),
	})

	want := []model.TypeCount{
		{Type: "Bienes", Count: 2},
		{Type: "Obras", Count: 1},
		{Type: "Servicios", Count: 1},
	}
	if diff := cmp.Diff(want, AggregateTypes(table)); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateYearly(t *testing.T) {
	table := Normalize([]model.Record{
		rec("date", "2025-01-01", "total", "#10.5"),
		rec("date", "2024-06-01", "total", "#2"),
		rec("date", "2024-07-01", "total", "x"),
		rec("date", "2024-08-01", "total", "#3"),
		rec("date", "", "total", "#100"),
	})

	want := []model.YearTotal{
		{Year: 2024, Count: 3, Total: 5},
		{Year: 2025, Count: 1, Total: 10.5},
	}
	if diff := cmp.Diff(want, AggregateYearly(table, true)); diff != "" {
		t.Errorf("yearly mismatch (-want +got):\n%s", diff)
	}

	for _, y := range AggregateYearly(table, false) {
		if y.Total != 0 {
			t.Errorf("year %d total = %v without totals, want 0", y.Year, y.Total)
		}
	}
}

func TestAggregateHeatmap(t *testing.T) {
	table := Normalize([]model.Record{
		rec("date", "2022-03-01"),
		rec("date", "2024-03-05"),
		rec("date", "2024-03-06"),
		rec("date", "2024-12-31"),
	})

	hm := AggregateHeatmap(table)
	if hm == nil {
		t.Fatal("heatmap is nil")
	}
	if diff := cmp.Diff([]int{2022, 2023, 2024}, hm.Years); diff != "" {
		t.Errorf("years mismatch (-want +got):\n%s", diff)
	}
	if hm.Counts[0][2] != 1 || hm.Counts[2][2] != 2 || hm.Counts[2][11] != 1 {
		t.Errorf("counts = %v", hm.Counts)
	}
	if hm.Counts[1] != [12]int{} {
		t.Errorf("gap year counts = %v, want zeros", hm.Counts[1])
	}
	if hm.Max != 2 {
		t.Errorf("Max = %d, want 2", hm.Max)
	}
}

func TestAggregateHeatmap_KeepsYearZero(t *testing.T) {
	table := Normalize([]model.Record{
		rec("date", "0001-02-01"),
		rec("date", "0000-05-01"),
	})

	hm := AggregateHeatmap(table)
	if hm == nil {
		t.Fatal("heatmap is nil")
	}
	if diff := cmp.Diff([]int{0, 1}, hm.Years); diff != "" {
		t.Errorf("years mismatch (-want +got):\n%s", diff)
	}
	if hm.Counts[0][4] != 1 || hm.Counts[1][1] != 1 {
		t.Errorf("counts = %v", hm.Counts)
	}
}

func TestAggregateMonthly_KeepsEarliestMonth(t *testing.T) {
	table := Normalize([]model.Record{
		rec("date", "0001-03-01"),
		rec("date", "0001-01-15"),
	})

	got := AggregateMonthly(table)
	if len(got) != 3 {
		t.Fatalf("months = %d, want 3", len(got))
	}
	if got[0].Month.Year() != 1 || got[0].Month.Month() != time.January || got[0].Count != 1 {
		t.Errorf("first month = %+v, want 0001-01 with 1 row", got[0])
	}
	if got[2].Count != 1 {
		t.Errorf("last month count = %d, want 1", got[2].Count)
	}
}

func TestFilterType(t *testing.T) {
	table := Normalize([]model.Record{
		rec("internal_type", "Bienes"),
		rec("internal_type", "Obras"),
		rec("title", "sin tipo"),
	})

	got := FilterType(table, "Bienes")
	if got.Len() != 1 {
		t.Errorf("rows = %d, want 1", got.Len())
	}

	untyped := Normalize([]model.Record{rec("title", "a"), rec("title", "b")})
	if got := FilterType(untyped, "Bienes"); got.Len() != 2 {
		t.Errorf("rows without type column = %d, want 2", got.Len())
	}
}

func TestFilterSinceYear(t *testing.T) {
	table := Normalize([]model.Record{
		rec("date", "2023-12-31"),
		rec("date", "2024-01-01"),
		rec("date", "garbage"),
	})

	got := FilterSinceYear(table, 2024)
	if got.Len() != 2 {
		t.Fatalf("rows = %d, want 2", got.Len())
	}
	if got.Rows[0].Year() != 2024 || got.Rows[1].HasDate {
		t.Errorf("unexpected rows kept: %+v", got.Rows)
	}
	if FilterSinceYear(table, 0).Len() != 3 {
		t.Error("since year 0 should not filter")
	}
}
