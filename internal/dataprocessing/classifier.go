package dataprocessing

import (
	"regexp"
	"strings"

	"vahanpulse/pkg/contracts/domain"
)

// Keyword fragments per vehicle group, evaluated in priority order
// 2W > 3W > 4W. Matching is substring containment on the normalized
// category text, not whole-word matching, so incidental fragments inside
// longer tokens also match. That is intentional for parity with the
// upstream dataset conventions.
var (
	twoWheelerKeywords = []string{
		"two wheeler", "twowheeler", "2w", "motor cycle", "motorcycle", "m cycle", "mcycle",
		"scooter", "sctr", "moped", "bike", "l1", "l2",
	}
	threeWheelerKeywords = []string{
		"three wheeler", "threewheeler", "3w", "auto rickshaw", "autorickshaw", "rickshaw",
		"e rickshaw", "erickshaw", "l5", "e rick",
	}
	fourWheelerKeywords = []string{
		"four wheeler", "fourwheeler", "4w", "lmv", "car", "motor car", "passenger car",
		"jeep", "van", "suv", "quadricycle", "qute", "lgv", "lcv", "mcv", "hcv", "hgv",
		"goods", "goods carrier", "truck", "bus", "omni bus", "omnibus", "taxi", "cab",
		"pickup", "tractor", "tempo", "lorry",
	}
)

// nonAlphanumeric matches runs of characters outside [a-z0-9] in
// already-lowercased text.
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeCategory lowercases the text and replaces every run of
// non-alphanumeric characters with a single space.
func normalizeCategory(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlphanumeric.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ClassifyCategory buckets a free-text vehicle category into one of the four
// vehicle groups. Blank input classifies as Other. The first matching bucket
// wins.
func ClassifyCategory(raw string) domain.VehicleGroup {
	if strings.TrimSpace(raw) == "" {
		return domain.GroupOther
	}

	normalized := normalizeCategory(raw)

	if containsAny(normalized, twoWheelerKeywords) {
		return domain.GroupTwoWheeler
	}
	if containsAny(normalized, threeWheelerKeywords) {
		return domain.GroupThreeWheeler
	}
	if containsAny(normalized, fourWheelerKeywords) {
		return domain.GroupFourWheeler
	}
	return domain.GroupOther
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
