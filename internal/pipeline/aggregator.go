// Package pipeline normalizes fetched procurement batches, applies the
// post-fetch filters and computes the aggregate views of a report.
package pipeline

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/compras/internal/model"
)

// TopProviderLimit is the number of providers kept in the ranking.
const TopProviderLimit = 10

// FilterType keeps rows whose process type equals typ. Tables without the
// internal_type column, or an empty typ, pass through unchanged.
func FilterType(t *model.Table, typ string) *model.Table {
	if typ == "" || !t.Has(model.FieldType) {
		return t
	}
	var rows []model.Row
	for _, r := range t.Rows {
		if r.Type == typ {
			rows = append(rows, r)
		}
	}
	return t.WithRows(rows)
}

// FilterSinceYear drops dated rows from years before year. Rows without a
// parsed date are kept; they never reach date-keyed views anyway.
func FilterSinceYear(t *model.Table, year int) *model.Table {
	if year <= 0 || !t.Has(model.FieldDate) {
		return t
	}
	var rows []model.Row
	for _, r := range t.Rows {
		if r.HasDate && r.Year() < year {
			continue
		}
		rows = append(rows, r)
	}
	return t.WithRows(rows)
}

// AggregateAmount computes null-aware statistics over the amount column.
// Missing values are ignored; with no valid value every field is zero.
func AggregateAmount(t *model.Table) model.AmountStats {
	var values []float64
	for _, r := range t.Rows {
		if r.HasAmount {
			values = append(values, r.Amount)
		}
	}

	var stats model.AmountStats
	if len(values) == 0 {
		return stats
	}

	sum := decimal.Zero
	stats.Max = values[0]
	stats.Min = values[0]
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
		stats.Max = math.Max(stats.Max, v)
		stats.Min = math.Min(stats.Min, v)
	}
	n := decimal.NewFromInt(int64(len(values)))

	stats.Count = len(values)
	stats.Sum = sum.InexactFloat64()
	stats.Mean = sum.Div(n).InexactFloat64()

	if len(values) > 1 {
		var sq float64
		for _, v := range values {
			d := v - stats.Mean
			sq += d * d
		}
		stats.Std = math.Sqrt(sq / float64(len(values)-1))
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	stats.P25 = percentile(sorted, 0.25)
	stats.Median = percentile(sorted, 0.50)
	stats.P75 = percentile(sorted, 0.75)

	return stats
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// TopProviders ranks providers by row count, descending. Providers with
// equal counts keep the order in which they first appear. Rows without a
// provider are not counted.
func TopProviders(t *model.Table, n int) []model.ProviderCount {
	counts := make(map[string]int)
	var order []string
	for _, r := range t.Rows {
		if r.Provider == "" {
			continue
		}
		if _, ok := counts[r.Provider]; !ok {
			order = append(order, r.Provider)
		}
		counts[r.Provider]++
	}

	ranked := make([]model.ProviderCount, 0, len(order))
	for _, p := range order {
		ranked = append(ranked, model.ProviderCount{Provider: p, Count: counts[p]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// AggregateMonthly counts dated rows per calendar month. Months between the
// first and last observed month with no rows appear with a zero count.
func AggregateMonthly(t *model.Table) []model.MonthCount {
	counts := make(map[time.Time]int)
	var first, last time.Time
	seen := false
	for _, r := range t.Rows {
		if !r.HasDate {
			continue
		}
		m := r.MonthStart()
		counts[m]++
		if !seen || m.Before(first) {
			first = m
		}
		if !seen || m.After(last) {
			last = m
		}
		seen = true
	}
	if len(counts) == 0 {
		return nil
	}

	var months []model.MonthCount
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		months = append(months, model.MonthCount{Month: m, Count: counts[m]})
	}
	return months
}

// AggregateMonthType counts dated rows per (month, process type) pair,
// ordered by month and then type.
func AggregateMonthType(t *model.Table) []model.MonthTypeCount {
	type key struct {
		month time.Time
		typ   string
	}
	counts := make(map[key]int)
	for _, r := range t.Rows {
		if !r.HasDate || r.Type == "" {
			continue
		}
		counts[key{r.MonthStart(), r.Type}]++
	}

	out := make([]model.MonthTypeCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, model.MonthTypeCount{Month: k.month, Type: k.typ, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Month.Equal(out[j].Month) {
			return out[i].Month.Before(out[j].Month)
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// AggregateTypes counts rows per process type, descending, ties in
// first-seen order.
func AggregateTypes(t *model.Table) []model.TypeCount {
	counts := make(map[string]int)
	var order []string
	for _, r := range t.Rows {
		if r.Type == "" {
			continue
		}
		if _, ok := counts[r.Type]; !ok {
			order = append(order, r.Type)
		}
		counts[r.Type]++
	}

	out := make([]model.TypeCount, 0, len(order))
	for _, typ := range order {
		out = append(out, model.TypeCount{Type: typ, Count: counts[typ]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// AggregateYearly counts dated rows per calendar year, ascending. When
// withTotal is set the valid total values of each year are summed.
func AggregateYearly(t *model.Table, withTotal bool) []model.YearTotal {
	counts := make(map[int]int)
	totals := make(map[int]decimal.Decimal)
	for _, r := range t.Rows {
		if !r.HasDate {
			continue
		}
		y := r.Year()
		counts[y]++
		if withTotal && r.HasTotal {
			totals[y] = totals[y].Add(decimal.NewFromFloat(r.Total))
		}
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]model.YearTotal, 0, len(years))
	for _, y := range years {
		yt := model.YearTotal{Year: y, Count: counts[y]}
		if withTotal {
			yt.Total = totals[y].InexactFloat64()
		}
		out = append(out, yt)
	}
	return out
}

// AggregateHeatmap builds the (year, month) density grid over dated rows.
// Years between the first and last observed year are included even when
// empty. Returns nil when no row is dated.
func AggregateHeatmap(t *model.Table) *model.Heatmap {
	grid := make(map[int]*[12]int)
	minYear, maxYear := 0, 0
	seen := false
	for _, r := range t.Rows {
		if !r.HasDate {
			continue
		}
		y := r.Year()
		row, ok := grid[y]
		if !ok {
			row = new([12]int)
			grid[y] = row
		}
		row[r.Month()-1]++
		if !seen || y < minYear {
			minYear = y
		}
		if !seen || y > maxYear {
			maxYear = y
		}
		seen = true
	}
	if len(grid) == 0 {
		return nil
	}

	hm := &model.Heatmap{}
	for y := minYear; y <= maxYear; y++ {
		var counts [12]int
		if row, ok := grid[y]; ok {
			counts = *row
		}
		for _, c := range counts {
			if c > hm.Max {
				hm.Max = c
			}
		}
		hm.Years = append(hm.Years, y)
		hm.Counts = append(hm.Counts, counts)
	}
	return hm
}
