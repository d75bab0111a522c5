package pipeline

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/theirongolddev/compras/internal/model"
)

func TestNormalize_ColumnOrder(t *testing.T) {
	table := Normalize([]model.Record{
		rec("zeta", "z", "date", "2024-01-05", "title", "Obra"),
		rec("amount", "#10", "alpha", "a"),
	})

	want := []string{"title", "amount", "date", "alpha", "zeta", "month", "year"}
	if diff := cmp.Diff(want, table.Columns); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}
	if !table.Has("alpha") || table.Has("buyerName") {
		t.Errorf("Has: alpha=%v buyerName=%v, want true false", table.Has("alpha"), table.Has("buyerName"))
	}
}

func TestNormalize_NoDateNoDerivedColumns(t *testing.T) {
	table := Normalize([]model.Record{rec("title", "x")})
	if table.Has(model.FieldMonth) || table.Has(model.FieldYear) {
		t.Errorf("derived columns present without date: %v", table.Columns)
	}
}

func TestNormalize_CellsAndTypedValues(t *testing.T) {
	table := Normalize([]model.Record{
		rec("amount", "100", "date", "2024-03-15T10:00:00-05:00", "single_provider", "  P1  "),
		rec("amount", "abc", "date", "not a date"),
		{"amount": json.Number("2.5"), "extra": map[string]any{"k": 1.0}, "date": nil},
	})

	r0 := table.Rows[0]
	if !r0.HasAmount || r0.Amount != 100 {
		t.Errorf("row0 amount = %v (%v), want 100", r0.Amount, r0.HasAmount)
	}
	if r0.Provider != "P1" {
		t.Errorf("row0 provider = %q, want P1", r0.Provider)
	}
	if r0.Cells[model.FieldMonth] != "3" || r0.Cells[model.FieldYear] != "2024" {
		t.Errorf("row0 month/year = %q/%q, want 3/2024", r0.Cells[model.FieldMonth], r0.Cells[model.FieldYear])
	}
	if r0.Cells[model.FieldDate] != "2024-03-15T10:00:00-05:00" {
		t.Errorf("row0 date cell = %q", r0.Cells[model.FieldDate])
	}

	r1 := table.Rows[1]
	if r1.HasAmount || r1.Cells[model.FieldAmount] != "" {
		t.Errorf("row1 amount should be missing, got %q", r1.Cells[model.FieldAmount])
	}
	if r1.HasDate || r1.Cells[model.FieldMonth] != "" {
		t.Errorf("row1 date should be missing")
	}

	r2 := table.Rows[2]
	if !r2.HasAmount || r2.Amount != 2.5 {
		t.Errorf("row2 amount = %v, want 2.5", r2.Amount)
	}
	if r2.Cells["extra"] != `{"k":1}` {
		t.Errorf("row2 extra = %q, want JSON object", r2.Cells["extra"])
	}
	if r2.Cells[model.FieldDate] != "" {
		t.Errorf("row2 date cell = %q, want empty", r2.Cells[model.FieldDate])
	}
}

func TestParseDate_Layouts(t *testing.T) {
	for _, s := range []string{
		"2024-02-10T08:30:00Z",
		"2024-02-10T08:30:00.123-05:00",
		"2024-02-10T08:30:00",
		"2024-02-10 08:30:00",
		"2024-02-10",
		"2024/02/10",
	} {
		got, ok := parseDate(s)
		if !ok {
			t.Errorf("parseDate(%q) failed", s)
			continue
		}
		if got.Year() != 2024 || got.Month() != time.February || got.Day() != 10 {
			t.Errorf("parseDate(%q) = %v", s, got)
		}
	}

	for _, v := range []any{"", "10/02/2024", "yesterday", 20240210, nil} {
		if _, ok := parseDate(v); ok {
			t.Errorf("parseDate(%v) succeeded, want failure", v)
		}
	}
}

func TestParseNumber(t *testing.T) {
	good := map[any]float64{
		"100":             100,
		" 1.5 ":           1.5,
		json.Number("-3"): -3,
		42.0:              42,
		7:                 7,
		"1e3":             1000,
	}
	for in, want := range good {
		got, ok := parseNumber(in)
		if !ok || got != want {
			t.Errorf("parseNumber(%v) = %v, %v; want %v", in, got, ok, want)
		}
	}

	for _, in := range []any{"", "abc", "NaN", "Inf", math.Inf(1), true, nil, []any{1.0}} {
		if _, ok := parseNumber(in); ok {
			t.Errorf("parseNumber(%v) succeeded, want missing", in)
		}
	}
}
