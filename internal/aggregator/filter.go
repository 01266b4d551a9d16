package aggregator

import "strings"

// Restrictive terms reject a listing outright; rejection takes priority
// over acceptance when both match ("Remote (US Only)" is rejected).
var restrictiveTerms = []string{
	"us only",
	"usa only",
	"u.s. only",
	"us-only",
	"united states only",
	"uk only",
	"canada only",
	"europe only",
	"north america only",
}

// Friendly terms accept a listing reachable from Brazil.
var friendlyTerms = []string{
	"brazil",
	"brasil",
	"latin america",
	"latam",
	"south america",
	"americas",
	"worldwide",
	"anywhere",
	"global",
	"remote",
}

// LocationAllowed decides whether a remote listing's location string is
// acceptable. An absent location is permissive by default; otherwise the
// string must contain no restrictive term and at least one friendly one.
func LocationAllowed(location string) bool {
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" {
		return true
	}
	for _, term := range restrictiveTerms {
		if strings.Contains(loc, term) {
			return false
		}
	}
	for _, term := range friendlyTerms {
		if strings.Contains(loc, term) {
			return true
		}
	}
	return false
}
