package exporter

import (
	"fmt"
	"sort"

	"vahanpulse/pkg/contracts/domain"
)

// ReportExporter writes aggregated registration tables to CSV files under
// the reports directory.
type ReportExporter struct {
	csvWriter *CSVWriter
}

// NewReportExporter creates a new report exporter
func NewReportExporter(reportsDir string) *ReportExporter {
	return &ReportExporter{
		csvWriter: NewCSVWriter(reportsDir),
	}
}

// ExportGroupTotals writes one row per (period, vehicle group) bucket.
func (e *ReportExporter) ExportGroupTotals(totals []domain.GroupTotal, filePath string) error {
	headers := []string{"period", "vehicle_group", "registrations"}

	records := make([][]string, 0, len(totals))
	for _, t := range totals {
		records = append(records, []string{
			t.Period.Format("2006-01-02"),
			string(t.Group),
			formatCount(t.Registrations),
		})
	}

	return e.csvWriter.WriteSimpleCSV(filePath, headers, records)
}

// ExportMakerGrowth writes the manufacturer growth table sorted as computed,
// fastest growing first.
func (e *ReportExporter) ExportMakerGrowth(rows []domain.MakerGrowthRow, filePath string) error {
	headers := []string{"maker", "latest_registrations", "change_percent", "delta"}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Maker,
			formatCount(row.Latest),
			formatPercent(row.ChangePercent),
			row.Delta,
		})
	}

	return e.csvWriter.WriteSimpleCSV(filePath, headers, records)
}

// ExportTrendSeries writes per-group trend files, one CSV per vehicle group,
// named trend_<group>.csv.
func (e *ReportExporter) ExportTrendSeries(series map[domain.VehicleGroup][]domain.SeriesPoint, dir string) error {
	groups := make([]domain.VehicleGroup, 0, len(series))
	for g := range series {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })

	for _, g := range groups {
		points := series[g]
		records := make([][]string, 0, len(points))
		for _, p := range points {
			records = append(records, []string{
				p.Period.Format("2006-01-02"),
				formatCount(p.Registrations),
			})
		}

		filename := fmt.Sprintf("%s/trend_%s.csv", dir, sanitizeGroup(g))
		if err := e.csvWriter.WriteSimpleCSV(filename, []string{"period", "registrations"}, records); err != nil {
			return fmt.Errorf("export trend for %s: %w", g, err)
		}
	}

	return nil
}

// sanitizeGroup maps a vehicle group label to a filename-safe token
func sanitizeGroup(g domain.VehicleGroup) string {
	switch g {
	case domain.GroupTwoWheeler:
		return "2w"
	case domain.GroupThreeWheeler:
		return "3w"
	case domain.GroupFourWheeler:
		return "4w"
	default:
		return "other"
	}
}
