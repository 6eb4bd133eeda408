package domain

import (
	"time"
)

// Record represents a single vehicle-registration row after loading and
// canonicalization. Optional fields (State, RTO, Maker) are empty strings
// when the source does not carry them.
type Record struct {
	Date          time.Time `json:"date" validate:"required"`
	State         string    `json:"state,omitempty"`
	RTO           string    `json:"rto,omitempty"`
	Maker         string    `json:"maker,omitempty"`
	Category      string    `json:"category" validate:"required"`
	Registrations float64   `json:"registrations" validate:"min=0"`
}

// VehicleGroup is the derived four-bucket vehicle classification.
type VehicleGroup string

const (
	GroupTwoWheeler   VehicleGroup = "2W"
	GroupThreeWheeler VehicleGroup = "3W"
	GroupFourWheeler  VehicleGroup = "4W"
	GroupOther        VehicleGroup = "Other"
)

// VehicleGroups lists every group in display order.
var VehicleGroups = []VehicleGroup{
	GroupTwoWheeler,
	GroupThreeWheeler,
	GroupFourWheeler,
	GroupOther,
}

// Dataset is the result of one load pass over a registration source.
// HasMaker is schema metadata, not a per-record property: it records whether
// the source carried a maker column at all, which downstream consumers use
// to decide whether maker-level analysis is available.
type Dataset struct {
	Records  []Record `json:"records"`
	HasMaker bool     `json:"has_maker"`
}

// TotalRegistrations sums registrations across all records in the dataset.
func (d *Dataset) TotalRegistrations() float64 {
	var total float64
	for _, r := range d.Records {
		total += r.Registrations
	}
	return total
}

// Years returns the minimum and maximum calendar year present in the dataset.
// ok is false for an empty dataset.
func (d *Dataset) Years() (min, max int, ok bool) {
	if len(d.Records) == 0 {
		return 0, 0, false
	}
	min, max = d.Records[0].Date.Year(), d.Records[0].Date.Year()
	for _, r := range d.Records[1:] {
		y := r.Date.Year()
		if y < min {
			min = y
		}
		if y > max {
			max = y
		}
	}
	return min, max, true
}
