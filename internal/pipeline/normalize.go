package pipeline

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/compras/internal/model"
)

// knownColumns fixes the leading column order of every table.
var knownColumns = []string{
	model.FieldBuyer,
	model.FieldTitle,
	model.FieldProvider,
	model.FieldType,
	model.FieldAmount,
	model.FieldContracts,
	model.FieldTotal,
	model.FieldDate,
}

// dateLayouts are tried in order when coercing the date field.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	"2006/01/02",
}

// Normalize converts a raw batch into a table. Every field is optional: a
// column exists when at least one record carries the key, and values that
// fail coercion become missing for that row only.
func Normalize(batch []model.Record) *model.Table {
	seen := make(map[string]bool)
	for _, rec := range batch {
		for k := range rec {
			seen[k] = true
		}
	}

	columns := make([]string, 0, len(seen)+2)
	for _, c := range knownColumns {
		if seen[c] {
			columns = append(columns, c)
		}
	}
	var extra []string
	for k := range seen {
		if !isKnownColumn(k) && k != model.FieldMonth && k != model.FieldYear {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	columns = append(columns, extra...)

	hasDate := seen[model.FieldDate]
	if hasDate {
		columns = append(columns, model.FieldMonth, model.FieldYear)
	}

	t := model.NewTable(columns)
	t.Rows = make([]model.Row, 0, len(batch))
	for _, rec := range batch {
		t.Rows = append(t.Rows, normalizeRecord(rec, columns, hasDate))
	}
	return t
}

func normalizeRecord(rec model.Record, columns []string, hasDate bool) model.Row {
	row := model.Row{Cells: make(map[string]string, len(columns))}

	row.Buyer = textValue(rec[model.FieldBuyer])
	row.Title = textValue(rec[model.FieldTitle])
	row.Provider = textValue(rec[model.FieldProvider])
	row.Type = textValue(rec[model.FieldType])

	row.Amount, row.HasAmount = parseNumber(rec[model.FieldAmount])
	row.Total, row.HasTotal = parseNumber(rec[model.FieldTotal])
	row.Contracts, row.HasContracts = parseNumber(rec[model.FieldContracts])
	row.Date, row.HasDate = parseDate(rec[model.FieldDate])

	for _, c := range columns {
		switch c {
		case model.FieldAmount:
			row.Cells[c] = numberCell(row.Amount, row.HasAmount)
		case model.FieldTotal:
			row.Cells[c] = numberCell(row.Total, row.HasTotal)
		case model.FieldContracts:
			row.Cells[c] = numberCell(row.Contracts, row.HasContracts)
		case model.FieldDate:
			if row.HasDate {
				row.Cells[c] = row.Date.Format(time.RFC3339)
			} else {
				row.Cells[c] = ""
			}
		case model.FieldMonth:
			if hasDate && row.HasDate {
				row.Cells[c] = strconv.Itoa(row.Month())
			} else {
				row.Cells[c] = ""
			}
		case model.FieldYear:
			if hasDate && row.HasDate {
				row.Cells[c] = strconv.Itoa(row.Year())
			} else {
				row.Cells[c] = ""
			}
		default:
			row.Cells[c] = cellString(rec[c])
		}
	}
	return row
}

func isKnownColumn(name string) bool {
	for _, c := range knownColumns {
		if c == name {
			return true
		}
	}
	return false
}

// parseNumber coerces JSON numbers and numeric strings. Empty, non-numeric
// and non-finite values are reported as missing.
func parseNumber(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case json.Number:
		n, err := strconv.ParseFloat(x.String(), 64)
		if err != nil {
			return 0, false
		}
		f = n
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseDate coerces a date string using dateLayouts.
func parseDate(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// textValue returns the trimmed string form of a scalar, or "" for
// missing, null and composite values.
func textValue(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// cellString renders any decoded JSON value for export. Composite values
// are re-encoded as JSON.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func numberCell(v float64, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
