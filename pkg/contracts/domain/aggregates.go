package domain

import (
	"time"
)

// SeriesPoint is one bucket of an aggregated registration time series.
// Period is the first day of the calendar bucket (month, quarter or year).
type SeriesPoint struct {
	Period        time.Time `json:"period"`
	Registrations float64   `json:"registrations"`
}

// GroupTotal is the aggregate of registrations for one (period, vehicle group)
// bucket. Maker is populated only for maker-level aggregations.
type GroupTotal struct {
	Period        time.Time    `json:"period"`
	Group         VehicleGroup `json:"vehicle_group"`
	Maker         string       `json:"maker,omitempty"`
	Registrations float64      `json:"registrations"`
}

// MakerTotal is the aggregate of registrations for one (period, maker) bucket.
type MakerTotal struct {
	Period        time.Time `json:"period"`
	Maker         string    `json:"maker"`
	Registrations float64   `json:"registrations"`
}

// GroupKPI is the headline block for one vehicle group: the latest quarterly
// total with quarter-over-quarter growth (from monthly data) and the latest
// yearly total with year-over-year growth (from yearly data). Growth fields
// are nil when not computable (fewer than two periods, zero baseline); the
// matching Delta strings then read "n/a".
type GroupKPI struct {
	Group VehicleGroup `json:"vehicle_group"`

	QuarterlyLatest      float64  `json:"quarterly_latest"`
	QuarterlyLatestLabel string   `json:"quarterly_latest_label"`
	QoQGrowth            *float64 `json:"qoq_growth,omitempty"`
	QoQDelta             string   `json:"qoq_delta"`

	YearlyLatest      float64  `json:"yearly_latest"`
	YearlyLatestLabel string   `json:"yearly_latest_label"`
	YoYGrowth         *float64 `json:"yoy_growth,omitempty"`
	YoYDelta          string   `json:"yoy_delta"`
}

// MakerGrowthRow is one row of the maker growth table: year-over-year change
// for a single maker with its latest yearly total. ChangePercent is nil when
// growth is not computable.
type MakerGrowthRow struct {
	Maker         string   `json:"maker"`
	ChangePercent *float64 `json:"change_percent,omitempty"`
	Delta         string   `json:"delta"`
	Latest        float64  `json:"latest"`
}
