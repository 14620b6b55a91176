// Package services: services/filter.go
// Search/Filter Engine: derives the filtered view the console renders from
// the full cache snapshot. Filtering is a pure function of (items, query,
// facets); it never patches a previous filtered result, so the view cannot
// drift from the cache.
package services

import (
	"strings"

	"go-footy-trivia/models"
)

// FacetAll is the sentinel facet value meaning "no constraint".
const FacetAll = "All"

// Filter returns the ordered subsequence of items that match the free-text
// query against the given searchable fields AND every active facet. Order is
// cache order. A nil or missing field never matches and never panics.
func Filter(items []models.Doc, query string, searchFields []string, facets map[string]string) []models.Doc {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]models.Doc, 0, len(items))
	for _, d := range items {
		if !matchesQuery(d, q, searchFields) {
			continue
		}
		if !matchesFacets(d, facets) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// matchesQuery does a case-insensitive substring match against each
// searchable field. Values are coerced to their string form first; an empty
// coercion is treated as non-matching.
func matchesQuery(d models.Doc, q string, fields []string) bool {
	if q == "" {
		return true
	}
	for _, f := range fields {
		v, ok := d[f]
		if !ok || v == nil {
			continue
		}
		s := models.Stringify(v)
		if s == "" {
			continue
		}
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// matchesFacets checks exact equality for every facet not set to "All".
func matchesFacets(d models.Doc, facets map[string]string) bool {
	for field, want := range facets {
		if want == "" || want == FacetAll {
			continue
		}
		if models.Stringify(d[field]) != want {
			return false
		}
	}
	return true
}

// Categories collects the distinct values of a field across items, in first-
// seen order, prefixed by the "All" sentinel. Used to populate facet
// dropdowns (e.g. question categories).
func Categories(items []models.Doc, field string) []string {
	seen := map[string]bool{}
	out := []string{FacetAll}
	for _, d := range items {
		v := models.Stringify(d[field])
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
