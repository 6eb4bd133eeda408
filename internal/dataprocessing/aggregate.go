package dataprocessing

import (
	"sort"
	"time"

	"vahanpulse/pkg/contracts/domain"
)

// Granularity selects the calendar bucket used for aggregation.
type Granularity string

const (
	// GranularityMonthly buckets by calendar month.
	GranularityMonthly Granularity = "monthly"
	// GranularityQuarterly buckets by calendar quarter.
	GranularityQuarterly Granularity = "quarterly"
	// GranularityYearly buckets by calendar year.
	GranularityYearly Granularity = "yearly"
)

// PeriodStart truncates a date to the start of its calendar bucket.
func PeriodStart(t time.Time, g Granularity) time.Time {
	switch g {
	case GranularityMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case GranularityQuarterly:
		quarterMonth := time.Month(((int(t.Month())-1)/3)*3 + 1)
		return time.Date(t.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

type groupKey struct {
	period time.Time
	group  domain.VehicleGroup
	maker  string
}

// AggregateGroups sums registrations by (period, vehicle group). The vehicle
// group is derived from each record's category via the classifier. Output is
// sorted ascending by period, then group, for deterministic presentation.
func AggregateGroups(records []domain.Record, g Granularity) []domain.GroupTotal {
	return aggregate(records, g, false)
}

// AggregateGroupMakers sums registrations by (period, vehicle group, maker).
// Only meaningful for datasets that carry maker detail.
func AggregateGroupMakers(records []domain.Record, g Granularity) []domain.GroupTotal {
	return aggregate(records, g, true)
}

func aggregate(records []domain.Record, g Granularity, byMaker bool) []domain.GroupTotal {
	totals := make(map[groupKey]float64)
	for _, r := range records {
		key := groupKey{
			period: PeriodStart(r.Date, g),
			group:  ClassifyCategory(r.Category),
		}
		if byMaker {
			key.maker = r.Maker
		}
		totals[key] += r.Registrations
	}

	out := make([]domain.GroupTotal, 0, len(totals))
	for key, sum := range totals {
		out = append(out, domain.GroupTotal{
			Period:        key.period,
			Group:         key.group,
			Maker:         key.maker,
			Registrations: sum,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Period.Equal(out[j].Period) {
			return out[i].Period.Before(out[j].Period)
		}
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Maker < out[j].Maker
	})
	return out
}

// AggregateMakers sums registrations by (period, maker). Records without a
// maker value fold into the empty-string maker; callers on maker-less
// datasets should not use this view.
func AggregateMakers(records []domain.Record, g Granularity) []domain.MakerTotal {
	type makerKey struct {
		period time.Time
		maker  string
	}
	totals := make(map[makerKey]float64)
	for _, r := range records {
		key := makerKey{period: PeriodStart(r.Date, g), maker: r.Maker}
		totals[key] += r.Registrations
	}

	out := make([]domain.MakerTotal, 0, len(totals))
	for key, sum := range totals {
		out = append(out, domain.MakerTotal{
			Period:        key.period,
			Maker:         key.maker,
			Registrations: sum,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Period.Equal(out[j].Period) {
			return out[i].Period.Before(out[j].Period)
		}
		return out[i].Maker < out[j].Maker
	})
	return out
}

// GroupSeries extracts the time series of one vehicle group from aggregated
// group totals, summing across any remaining dimensions. The result is
// sorted ascending and unique per period.
func GroupSeries(totals []domain.GroupTotal, group domain.VehicleGroup) []domain.SeriesPoint {
	byPeriod := make(map[time.Time]float64)
	for _, t := range totals {
		if t.Group == group {
			byPeriod[t.Period] += t.Registrations
		}
	}
	return toSeries(byPeriod)
}

// MakerSeries extracts the time series of one maker from aggregated maker
// totals.
func MakerSeries(totals []domain.MakerTotal, maker string) []domain.SeriesPoint {
	byPeriod := make(map[time.Time]float64)
	for _, t := range totals {
		if t.Maker == maker {
			byPeriod[t.Period] += t.Registrations
		}
	}
	return toSeries(byPeriod)
}

func toSeries(byPeriod map[time.Time]float64) []domain.SeriesPoint {
	series := make([]domain.SeriesPoint, 0, len(byPeriod))
	for period, sum := range byPeriod {
		series = append(series, domain.SeriesPoint{Period: period, Registrations: sum})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Period.Before(series[j].Period)
	})
	return series
}

// TopMakers ranks makers by total registrations over the trailing window
// ending at the latest period (the latest period's year and the one before
// it) and returns up to n maker names, best first.
func TopMakers(totals []domain.MakerTotal, n int) []string {
	if len(totals) == 0 || n <= 0 {
		return nil
	}

	maxPeriod := totals[0].Period
	for _, t := range totals[1:] {
		if t.Period.After(maxPeriod) {
			maxPeriod = t.Period
		}
	}
	cutoff := time.Date(maxPeriod.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)

	sums := make(map[string]float64)
	for _, t := range totals {
		if !t.Period.Before(cutoff) {
			sums[t.Maker] += t.Registrations
		}
	}

	makers := make([]string, 0, len(sums))
	for maker := range sums {
		makers = append(makers, maker)
	}
	sort.Slice(makers, func(i, j int) bool {
		if sums[makers[i]] != sums[makers[j]] {
			return sums[makers[i]] > sums[makers[j]]
		}
		return makers[i] < makers[j]
	})

	if len(makers) > n {
		makers = makers[:n]
	}
	return makers
}

// MakerGrowthTable computes year-over-year growth per maker from yearly maker
// totals. Rows are sorted by growth descending with not-computable rows last,
// matching the dashboard's growth-table ordering.
func MakerGrowthTable(totals []domain.MakerTotal) []domain.MakerGrowthRow {
	makers := make(map[string]bool)
	for _, t := range totals {
		makers[t.Maker] = true
	}

	rows := make([]domain.MakerGrowthRow, 0, len(makers))
	for maker := range makers {
		series := MakerSeries(totals, maker)
		growth, ok := GrowthRate(series)

		var latest float64
		if len(series) > 0 {
			latest = series[len(series)-1].Registrations
		}

		rows = append(rows, domain.MakerGrowthRow{
			Maker:         maker,
			ChangePercent: GrowthPointer(growth*100, ok),
			Delta:         FormatGrowth(growth, ok),
			Latest:        latest,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		gi, gj := rows[i].ChangePercent, rows[j].ChangePercent
		switch {
		case gi != nil && gj != nil && *gi != *gj:
			return *gi > *gj
		case gi != nil && gj == nil:
			return true
		case gi == nil && gj != nil:
			return false
		default:
			return rows[i].Maker < rows[j].Maker
		}
	})
	return rows
}
