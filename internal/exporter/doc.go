// Package exporter provides CSV export functionality for aggregated
// vehicle registration data.
//
// CSVWriter handles the low-level writing, including UTF-8 BOM output for
// Excel compatibility. ReportExporter builds on it to write the aggregate
// tables the batch processor produces: period totals per vehicle group,
// the manufacturer growth table, and per-group trend series.
package exporter
