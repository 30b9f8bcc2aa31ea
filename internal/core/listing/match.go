package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// containsFold reports whether needle occurs in haystack after lowercasing
// both, rune by rune like ILIKE. Full folding ("ß" to "ss") is not applied.
// A Caser is stateful, so each call gets its own.
func containsFold(haystack, needle string) bool {
	lower := cases.Lower(language.Und)
	return strings.Contains(lower.String(haystack), lower.String(needle))
}

// Matches evaluates the criteria against a single listing with the same
// semantics as BuildQuery.
func (c Criteria) Matches(l *Listing) bool {
	if c.Term != "" && !containsFold(l.Title, c.Term) {
		return false
	}
	if c.Location != "" && !containsFold(l.Location, c.Location) {
		return false
	}
	if c.Type != "" && l.Type != c.Type {
		return false
	}
	if c.MinBedrooms != nil && l.Bedrooms < *c.MinBedrooms {
		return false
	}
	if c.MinBathrooms != nil && l.Bathrooms < *c.MinBathrooms {
		return false
	}

	switch c.SuitesMode {
	case SuitesNone:
		if l.Suites != 0 {
			return false
		}
	case SuitesAtLeast:
		if l.Suites < c.MinSuites {
			return false
		}
	}

	if c.GarageRequired && !l.CoveredGarage {
		return false
	}
	if c.PriceMin != nil && l.PriceValue.LessThan(*c.PriceMin) {
		return false
	}
	if c.PriceMax != nil && l.PriceValue.GreaterThan(*c.PriceMax) {
		return false
	}
	return true
}

// SortPublic orders listings featured first, then newest first.
func SortPublic(listings []*Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		a, b := listings[i], listings[j]
		if a.Featured != b.Featured {
			return a.Featured
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

// SortNewest orders listings newest first, as the admin list shows them.
func SortNewest(listings []*Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
}
