// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatMoney formats a dollar amount with thousands separators and two
// decimals, e.g. 4519.38 -> "$4,519.38".
func FormatMoney(v float64) string {
	if v < 0 {
		return "-" + FormatMoney(-v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// FormatMetric renders an averaged metric the way the dashboard cards show it:
// the rounded value followed by a dollar sign, e.g. "318.25 $". Whole values
// keep one decimal, "400.0 $".
func FormatMetric(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s + " $"
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-100 share as a percentage string.
func FormatPercent(pct float64) string {
	if math.IsNaN(pct) {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatFloat formats v with two decimals and no grouping, for CSV output.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
