// Package model defines domain types for compras records, filters and reports.
package model

import "time"

// Field names observed in the search_ocds payload.
const (
	FieldBuyer     = "buyerName"
	FieldTitle     = "title"
	FieldProvider  = "single_provider"
	FieldType      = "internal_type"
	FieldAmount    = "amount"
	FieldContracts = "contracts"
	FieldTotal     = "total"
	FieldDate      = "date"

	// Derived columns appended to the table when FieldDate is present.
	FieldMonth = "month"
	FieldYear  = "year"
)

// Record is one raw procurement entry as decoded from the endpoint.
// No key is guaranteed to be present.
type Record map[string]any

// Row is a normalized record. Cells holds the exported string form of every
// table column; the typed fields carry coerced values and their validity.
type Row struct {
	Cells map[string]string

	Buyer    string
	Title    string
	Provider string
	Type     string

	Date    time.Time
	HasDate bool

	Amount    float64
	HasAmount bool

	Total    float64
	HasTotal bool

	Contracts    float64
	HasContracts bool
}

// Month returns the calendar month of the row's date (1-12), or 0 without a date.
func (r Row) Month() int {
	if !r.HasDate {
		return 0
	}
	return int(r.Date.Month())
}

// Year returns the calendar year of the row's date, or 0 without a date.
func (r Row) Year() int {
	if !r.HasDate {
		return 0
	}
	return r.Date.Year()
}

// MonthStart returns the first day of the row's calendar month as a UTC
// timestamp, so rows with different offsets share one key per month.
func (r Row) MonthStart() time.Time {
	if !r.HasDate {
		return time.Time{}
	}
	return time.Date(r.Date.Year(), r.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Table is the normalized, filtered form of a fetched batch.
type Table struct {
	// Columns lists the known fields in canonical order, then any other
	// source keys sorted by name, then the derived month and year columns
	// when dates are present.
	Columns []string
	Rows    []Row

	present map[string]bool
}

// NewTable creates an empty table with the given columns marked present.
func NewTable(columns []string) *Table {
	t := &Table{
		Columns: columns,
		present: make(map[string]bool, len(columns)),
	}
	for _, c := range columns {
		t.present[c] = true
	}
	return t
}

// Has reports whether the column was present in the source batch.
func (t *Table) Has(column string) bool {
	if t == nil {
		return false
	}
	return t.present[column]
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// WithRows returns a table sharing t's columns but holding rows.
func (t *Table) WithRows(rows []Row) *Table {
	return &Table{
		Columns: t.Columns,
		Rows:    rows,
		present: t.present,
	}
}
