package exporter

import (
	"fmt"
	"strconv"
)

// formatCount formats a registration count for CSV output. Counts are whole
// numbers in the source data, so drop the fractional part when it is zero.
func formatCount(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatPercent formats a growth percentage, writing "n/a" when no rate
// could be computed.
func formatPercent(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *p)
}
