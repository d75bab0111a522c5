package pipeline

import (
	"errors"

	"github.com/theirongolddev/compras/internal/model"
)

// ErrNoData is returned when the fetched batch holds no records.
var ErrNoData = errors.New("pipeline: no data")

// Build normalizes batch, applies the post-fetch filters of f and computes
// every view the present columns allow. Views whose field is absent are
// listed in Report.Skipped instead. An empty batch yields ErrNoData before
// anything is computed.
func Build(batch []model.Record, f model.Filter) (*model.Report, *model.Table, error) {
	if len(batch) == 0 {
		return nil, nil, ErrNoData
	}

	table := Normalize(batch)
	table = FilterSinceYear(table, f.SinceYear)
	table = FilterType(table, f.Type)

	r := &model.Report{
		Filter:  f,
		Fetched: len(batch),
		Records: table.Len(),
	}
	for _, row := range table.Rows {
		if row.HasDate {
			r.Dated++
		}
	}

	skip := func(view, field string) {
		r.Skipped = append(r.Skipped, model.Skip{View: view, Field: field})
	}

	if table.Has(model.FieldAmount) {
		r.Amount = AggregateAmount(table)
		r.HasAmount = true
	} else {
		skip(model.ViewAmount, model.FieldAmount)
	}

	if table.Has(model.FieldProvider) {
		r.Providers = TopProviders(table, TopProviderLimit)
	} else {
		skip(model.ViewProviders, model.FieldProvider)
	}

	hasDate := table.Has(model.FieldDate)
	hasType := table.Has(model.FieldType)

	if hasDate {
		r.Monthly = AggregateMonthly(table)
	} else {
		skip(model.ViewMonthly, model.FieldDate)
	}

	switch {
	case !hasDate:
		skip(model.ViewMonthType, model.FieldDate)
	case !hasType:
		skip(model.ViewMonthType, model.FieldType)
	default:
		r.MonthType = AggregateMonthType(table)
	}

	if hasType {
		r.Types = AggregateTypes(table)
	} else {
		skip(model.ViewTypes, model.FieldType)
	}

	if hasDate {
		r.HasTotal = table.Has(model.FieldTotal)
		r.Yearly = AggregateYearly(table, r.HasTotal)
		r.Heatmap = AggregateHeatmap(table)
	} else {
		skip(model.ViewYearly, model.FieldDate)
		skip(model.ViewHeatmap, model.FieldDate)
	}

	return r, table, nil
}
