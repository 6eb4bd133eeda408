// Package dataprocessing implements the reproducible core of the VAHAN Pulse
// dashboard: column canonicalization, vehicle-category classification, source
// loading, period aggregation and growth computation.
//
// The package is organized as a small pipeline over local tabular sources:
//
//	canonical.go  - maps raw column headers to the canonical schema
//	classifier.go - buckets free-text categories into {2W, 3W, 4W, Other}
//	loader.go     - reads the yearly and monthly source tables into Records
//	aggregate.go  - groups Records by calendar period and dimension
//	growth.go     - period-over-period growth and KPI delta formatting
//	filter.go     - record-level filters applied per interaction cycle
//
// All functions are pure over their inputs except the Loader, which reads
// from the filesystem. Records are recreated fresh on every load; derived
// views carry no independent state.
package dataprocessing
