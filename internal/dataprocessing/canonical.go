package dataprocessing

import (
	"regexp"
	"strings"
)

// canonicalNames maps cleaned header variants to the canonical schema
// {date, state, rto, maker, category, registrations}. Built once at process
// start; headers absent from the table pass through in their cleaned form so
// unexpected extra columns survive without being misclassified.
var canonicalNames = map[string]string{
	"date": "date",
	"year": "date",

	"state":      "state",
	"state name": "state",
	"state_name": "state",

	"rto":         "rto",
	"rto name":    "rto",
	"rto_name":    "rto",
	"office_name": "rto",

	"maker":        "maker",
	"type":         "maker",
	"make":         "maker",
	"make_name":    "maker",
	"manufacturer": "maker",
	"company":      "maker",
	"oem":          "maker",

	"category":         "category",
	"veh_category":     "category",
	"vehicle_category": "category",

	"registrations":   "registrations",
	"count":           "registrations",
	"no_of_vehicles":  "registrations",
	"total_vehicles":  "registrations",
}

// headerRuns collapses internal whitespace and hyphen runs to a single space.
var headerRuns = regexp.MustCompile(`[\s\-]+`)

// CanonicalizeHeader maps a single raw column header to its canonical name.
// Cleanup: lowercase, trim, collapse whitespace/hyphen runs, strip the
// literal unit suffix "(nos.)". Unknown headers return their cleaned form.
func CanonicalizeHeader(header string) string {
	c := strings.ToLower(strings.TrimSpace(header))
	c = headerRuns.ReplaceAllString(c, " ")
	c = strings.TrimSpace(strings.ReplaceAll(c, "(nos.)", ""))
	if canonical, ok := canonicalNames[c]; ok {
		return canonical
	}
	return c
}

// CanonicalizeHeaders maps a sequence of raw headers to canonical names,
// preserving order and length. Duplicate handling is left to the caller:
// the loader keeps the first occurrence of each canonical name.
func CanonicalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = CanonicalizeHeader(h)
	}
	return out
}
