// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/theirongolddev/compras/internal/model"
)

// FormatCompact formats a value with human-readable suffixes.
// e.g., 1234 -> "1.2K", 1234567 -> "1.2M", 1234567890 -> "1.2B"
func FormatCompact(v float64) string {
	abs := math.Abs(v)

	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
	}
}

// FormatMoney formats an amount in US dollars with thousands separators
// and two decimals.
func FormatMoney(v float64) string {
	if v < 0 {
		return "-" + FormatMoney(-v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// FormatCompactMoney formats an amount for narrow cells, e.g. "$1.2M".
func FormatCompactMoney(v float64) string {
	if math.Abs(v) < 1000 {
		return FormatMoney(v)
	}
	if v < 0 {
		return "-$" + FormatCompact(-v)
	}
	return "$" + FormatCompact(v)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatMonth formats a month key, e.g. "Mar 2024".
func FormatMonth(t time.Time) string {
	return t.Format("Jan 2006")
}

// FormatMonthAbbrev returns a 3-letter month abbreviation for 1-12.
func FormatMonthAbbrev(m int) string {
	if m < 1 || m > 12 {
		return "???"
	}
	return time.Month(m).String()[:3]
}

// FormatAge describes how long ago t was, e.g. "3 hours ago".
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// NoDataMessage is shown when a filter yields no records.
const NoDataMessage = "No se encontraron datos para los filtros seleccionados."

// FormatFilter describes a filter in one line, e.g. "2024 · Azuay · Bienes".
func FormatFilter(f model.Filter) string {
	parts := []string{strconv.Itoa(f.Year), f.Region, f.Type}
	if f.SinceYear > 0 {
		parts = append(parts, "since "+strconv.Itoa(f.SinceYear))
	}
	return strings.Join(parts, " · ")
}

// FormatSkip explains why a view was not produced.
func FormatSkip(s model.Skip) string {
	return fmt.Sprintf("%s skipped: field %q not present", s.View, s.Field)
}
