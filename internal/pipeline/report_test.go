package pipeline

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/theirongolddev/compras/internal/model"
)

var filter2024 = model.Filter{Year: 2024, Region: "Azuay", Type: model.TypeGoods}

func TestBuild_EmptyBatch(t *testing.T) {
	report, table, err := Build(nil, filter2024)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
	if report != nil || table != nil {
		t.Error("expected no report or table on empty batch")
	}
}

func TestBuild_NoDateField(t *testing.T) {
	report, _, err := Build([]model.Record{
		rec("single_provider", "P1", "internal_type", "Bienes"),
		rec("single_provider", "P1", "internal_type", "Bienes"),
		rec("single_provider", "P2", "internal_type", "Bienes"),
	}, filter2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, view := range []string{model.ViewMonthly, model.ViewMonthType, model.ViewYearly, model.ViewHeatmap} {
		if !report.Skips(view) {
			t.Errorf("view %s not skipped", view)
		}
	}
	if report.Monthly != nil || report.Yearly != nil || report.Heatmap != nil {
		t.Error("date views computed without a date column")
	}

	want := []model.ProviderCount{{Provider: "P1", Count: 2}, {Provider: "P2", Count: 1}}
	if diff := cmp.Diff(want, report.Providers); diff != "" {
		t.Errorf("providers mismatch (-want +got):\n%s", diff)
	}
	if !report.Skips(model.ViewAmount) {
		t.Error("amount stats not skipped without amount column")
	}
}

func TestBuild_UnparseableDatesOnlyLeaveDateViews(t *testing.T) {
	report, table, err := Build([]model.Record{
		rec("date", "2024-01-10", "amount", "#10", "single_provider", "A", "internal_type", "Bienes"),
		rec("date", "31/31/2024", "amount", "#20", "single_provider", "A", "internal_type", "Bienes"),
		rec("date", "2024-02-10", "amount", "#30", "single_provider", "B", "internal_type", "Bienes"),
	}, filter2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Records != 3 || table.Len() != 3 {
		t.Errorf("Records = %d, table = %d, want 3", report.Records, table.Len())
	}
	if report.Dated != 2 {
		t.Errorf("Dated = %d, want 2", report.Dated)
	}
	if report.Amount.Count != 3 || report.Amount.Sum != 60 {
		t.Errorf("amount = %+v, want 3 values summing to 60", report.Amount)
	}
	if report.Providers[0].Count != 2 {
		t.Errorf("provider A = %d, want 2", report.Providers[0].Count)
	}
	if report.Types[0].Count != 3 {
		t.Errorf("type count = %d, want 3", report.Types[0].Count)
	}

	monthly := 0
	for _, m := range report.Monthly {
		monthly += m.Count
	}
	monthType := 0
	for _, m := range report.MonthType {
		monthType += m.Count
	}
	yearly := 0
	for _, y := range report.Yearly {
		yearly += y.Count
	}
	if monthly != 2 || monthType != 2 || yearly != 2 {
		t.Errorf("date view totals = %d/%d/%d, want 2 each", monthly, monthType, yearly)
	}
}

func TestBuild_TypeFilterAndEmptyResult(t *testing.T) {
	batch := []model.Record{
		rec("internal_type", "Obras", "amount", "#5"),
		rec("internal_type", "Servicios", "amount", "#7"),
	}

	report, _, err := Build(batch, filter2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Fetched != 2 || report.Records != 0 {
		t.Errorf("Fetched/Records = %d/%d, want 2/0", report.Fetched, report.Records)
	}
	if diff := cmp.Diff(model.AmountStats{}, report.Amount); diff != "" {
		t.Errorf("amount on empty table (-want +got):\n%s", diff)
	}

	f := filter2024
	f.Type = model.TypeWorks
	report, _, err = Build(batch, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Records != 1 || report.Amount.Sum != 5 {
		t.Errorf("Records/Sum = %d/%v, want 1/5", report.Records, report.Amount.Sum)
	}
}

func TestBuild_MonthTypeSkipNamesMissingType(t *testing.T) {
	report, _, err := Build([]model.Record{rec("date", "2024-01-01")}, filter2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []model.Skip
	for _, s := range report.Skipped {
		if s.View == model.ViewMonthType || s.View == model.ViewTypes {
			got = append(got, s)
		}
	}
	want := []model.Skip{
		{View: model.ViewMonthType, Field: model.FieldType},
		{View: model.ViewTypes, Field: model.FieldType},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("skips mismatch (-want +got):\n%s", diff)
	}
	if report.Monthly == nil {
		t.Error("monthly view should still be computed")
	}
}

func TestBuild_YearlyTotalsOnlyWithTotalColumn(t *testing.T) {
	report, _, err := Build([]model.Record{rec("date", "2024-05-01")}, filter2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.HasTotal {
		t.Error("HasTotal set without total column")
	}
	if len(report.Yearly) != 1 || report.Yearly[0].Count != 1 {
		t.Errorf("yearly = %+v", report.Yearly)
	}
}
