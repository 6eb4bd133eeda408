// Package services contains the business logic layer of the VAHAN Pulse
// dashboard. DashboardService orchestrates one interaction cycle per call:
// cached source loads, filter application, aggregation and view assembly.
// HealthService reports service and source availability.
//
// Load results are memoized in a time-bounded cache keyed by (mode, ev_only);
// entries expire after the configured TTL and are recomputed on next access,
// with concurrent population collapsed per key.
package services
