package dataprocessing

import (
	"fmt"
	"math"
	"sort"

	"vahanpulse/pkg/contracts/domain"
)

// GrowthRate computes the fractional change between the last two points of a
// time series: (latest - previous) / previous. The series is sorted ascending
// by period before the comparison. ok is false when the growth is not
// computable: fewer than two points, or a zero baseline. Not computable is
// not an error; it renders as "n/a".
func GrowthRate(series []domain.SeriesPoint) (growth float64, ok bool) {
	if len(series) < 2 {
		return 0, false
	}

	sorted := make([]domain.SeriesPoint, len(series))
	copy(sorted, series)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Period.Before(sorted[j].Period)
	})

	previous := sorted[len(sorted)-2].Registrations
	latest := sorted[len(sorted)-1].Registrations
	if previous == 0 {
		return 0, false
	}
	return (latest - previous) / previous, true
}

// FormatGrowth renders a growth figure as a percentage string with one
// decimal place and an explicit leading sign for non-negative values, e.g.
// "+12.3%" or "-4.0%". Not-computable, infinite and undefined values render
// as "n/a".
func FormatGrowth(growth float64, ok bool) string {
	if !ok || math.IsInf(growth, 0) || math.IsNaN(growth) {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", growth*100)
}

// GrowthPointer converts a (growth, ok) pair into the nullable representation
// used by the API payload types.
func GrowthPointer(growth float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &growth
}
