package cmd

import (
	"testing"

	"github.com/theirongolddev/compras/internal/model"
)

func TestPickColumns(t *testing.T) {
	tbl := model.NewTable([]string{model.FieldBuyer, model.FieldProvider, model.FieldDate})

	got := pickColumns(tbl, " date, amount ,buyerName,,")
	want := []string{model.FieldDate, model.FieldBuyer}
	if len(got) != len(want) {
		t.Fatalf("pickColumns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pickColumns[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"corto", 10, "corto"},
		{"Ministerio de Salud", 8, "Ministe…"},
		{"año", 3, "año"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestPluralize(t *testing.T) {
	if got := pluralize(1, "batch", "batches"); got != "batch" {
		t.Errorf("pluralize(1) = %q, want batch", got)
	}
	if got := pluralize(0, "batch", "batches"); got != "batches" {
		t.Errorf("pluralize(0) = %q, want batches", got)
	}
}
