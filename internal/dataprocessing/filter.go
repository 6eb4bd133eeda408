package dataprocessing

import (
	"vahanpulse/pkg/contracts/domain"
)

// FilterYearRange retains records whose date falls within [from, to],
// inclusive whole years. A zero bound on either side leaves that side open.
func FilterYearRange(records []domain.Record, from, to int) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		year := r.Date.Year()
		if from != 0 && year < from {
			continue
		}
		if to != 0 && year > to {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterGroups retains records whose derived vehicle group is in the
// selection. An empty selection retains everything.
func FilterGroups(records []domain.Record, groups []domain.VehicleGroup) []domain.Record {
	if len(groups) == 0 {
		return records
	}
	selected := make(map[domain.VehicleGroup]bool, len(groups))
	for _, g := range groups {
		selected[g] = true
	}

	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if selected[ClassifyCategory(r.Category)] {
			out = append(out, r)
		}
	}
	return out
}

// FilterMakers retains records whose maker is in the selection. An empty
// selection retains everything.
func FilterMakers(records []domain.Record, makers []string) []domain.Record {
	if len(makers) == 0 {
		return records
	}
	selected := make(map[string]bool, len(makers))
	for _, m := range makers {
		selected[m] = true
	}

	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if selected[r.Maker] {
			out = append(out, r)
		}
	}
	return out
}
