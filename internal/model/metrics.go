package model

import "time"

// AmountStats holds null-aware reductions over the amount column.
// All values are zero when no valid amount exists.
type AmountStats struct {
	Count int     `json:"count"` // valid (non-missing) amounts
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	Max   float64 `json:"max"`
	Min   float64 `json:"min"`

	Std    float64 `json:"std"` // sample standard deviation, 0 below two values
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
}

// ProviderCount is one entry of the provider frequency ranking.
type ProviderCount struct {
	Provider string `json:"provider"`
	Count    int    `json:"count"`
}

// MonthCount holds the number of rows dated within one calendar month.
type MonthCount struct {
	Month time.Time `json:"month"` // first day of the month
	Count int       `json:"count"`
}

// MonthTypeCount holds the row count for one (month, process type) pair.
type MonthTypeCount struct {
	Month time.Time `json:"month"`
	Type  string    `json:"type"`
	Count int       `json:"count"`
}

// TypeCount holds the row count for one process type.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// YearTotal holds the row count and summed total for one calendar year.
type YearTotal struct {
	Year  int     `json:"year"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// Heatmap is a (year, month) density grid. Counts[i][m-1] is the number of
// rows dated in Years[i], month m.
type Heatmap struct {
	Years  []int     `json:"years"`
	Counts [][12]int `json:"counts"`
	Max    int       `json:"max"`
}

// View names used in skip notices.
const (
	ViewAmount    = "amount_stats"
	ViewProviders = "providers"
	ViewMonthly   = "monthly"
	ViewMonthType = "month_type"
	ViewTypes     = "types"
	ViewYearly    = "yearly"
	ViewHeatmap   = "heatmap"
)

// Skip records an aggregation that was not produced because a field is absent.
type Skip struct {
	View  string `json:"view"`
	Field string `json:"field"`
}

// Report bundles every derived view for one filter. A nil view slice means
// the view was skipped; see Skipped for the reason.
type Report struct {
	ID        string    `json:"report_id,omitempty"`
	Filter    Filter    `json:"filter"`
	Fetched   int       `json:"fetched"` // records in the raw batch
	Records   int       `json:"records"` // rows after filtering
	Dated     int       `json:"dated"`   // rows with a parsed date
	FetchedAt time.Time `json:"fetched_at,omitzero"`

	Amount    AmountStats `json:"amount"`
	HasAmount bool        `json:"has_amount"`

	Providers []ProviderCount  `json:"providers,omitempty"`
	Monthly   []MonthCount     `json:"monthly,omitempty"`
	MonthType []MonthTypeCount `json:"month_type,omitempty"`
	Types     []TypeCount      `json:"types,omitempty"`
	Yearly    []YearTotal      `json:"yearly,omitempty"`
	HasTotal  bool             `json:"has_total"`
	Heatmap   *Heatmap         `json:"heatmap,omitempty"`

	Skipped []Skip `json:"skipped,omitempty"`
}

// Skips reports whether the named view was skipped.
func (r *Report) Skips(view string) bool {
	for _, s := range r.Skipped {
		if s.View == view {
			return true
		}
	}
	return false
}
