// Package query evaluates declarative filter/search/sort parameters over a
// materialized entity list. The engine is entity-agnostic: each entity
// contributes a Config describing which fields are searchable, which are
// facets, and how to compare sort keys. Filtering and sorting always
// produce a fresh slice; the input is never mutated.
package query

import (
	"sort"
	"strings"
)

// Params is the caller's declarative description of a view. It is the unit
// the preset store serializes, so it only uses shapes that round-trip
// through JSON exactly: strings, string slices and integers.
type Params struct {
	Search    string              `json:"searchTerm,omitempty"`
	Facets    map[string][]string `json:"facets,omitempty"`
	SortField string              `json:"sortField,omitempty"`
	SortDesc  bool                `json:"sortDescending,omitempty"`

	// Year and Month carry the personnel period selection. They are not an
	// engine predicate: period filtering is a distinct fetch against the
	// period index, but presets must restore the selection.
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
}

// FacetValues returns the selected values for a facet, nil when the facet
// is unset.
func (p Params) FacetValues(name string) []string {
	if p.Facets == nil {
		return nil
	}
	return p.Facets[name]
}

// WithFacet returns a copy of the params with one facet selection replaced.
func (p Params) WithFacet(name string, values []string) Params {
	facets := make(map[string][]string, len(p.Facets)+1)
	for k, v := range p.Facets {
		facets[k] = v
	}
	facets[name] = values
	p.Facets = facets
	return p
}

// Config describes how the engine reads one entity type.
type Config[T any] struct {
	// SearchFields are the string fields matched by the free-text search.
	// A record matches if the term appears in any of them.
	SearchFields []func(T) string

	// Facets maps facet name to the field value it filters on.
	Facets map[string]func(T) string

	// Sorts maps sort field name to a three-way comparison. The engine
	// sorts stably, so equal keys keep their insertion order.
	Sorts map[string]func(a, b T) int
}

// Apply evaluates the params over the records and returns a fresh slice.
// Unknown facet and sort names are ignored rather than rejected: a preset
// saved against an older field set should still load.
func Apply[T any](cfg Config[T], records []T, p Params) []T {
	out := make([]T, 0, len(records))

	term := strings.ToLower(strings.TrimSpace(p.Search))
	for _, rec := range records {
		if term != "" && !matchesSearch(cfg, rec, term) {
			continue
		}
		if !matchesFacets(cfg, rec, p.Facets) {
			continue
		}
		out = append(out, rec)
	}

	if p.SortField != "" {
		if cmp, ok := cfg.Sorts[p.SortField]; ok {
			sort.SliceStable(out, func(i, j int) bool {
				if p.SortDesc {
					return cmp(out[i], out[j]) > 0
				}
				return cmp(out[i], out[j]) < 0
			})
		}
	}
	return out
}

func matchesSearch[T any](cfg Config[T], rec T, term string) bool {
	for _, field := range cfg.SearchFields {
		if strings.Contains(strings.ToLower(field(rec)), term) {
			return true
		}
	}
	return false
}

// matchesFacets combines facets with AND. An empty selection means the
// facet is not applied, not that nothing matches.
func matchesFacets[T any](cfg Config[T], rec T, facets map[string][]string) bool {
	for name, selected := range facets {
		if len(selected) == 0 {
			continue
		}
		getter, ok := cfg.Facets[name]
		if !ok {
			continue
		}
		value := getter(rec)
		found := false
		for _, want := range selected {
			if value == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// CompareStrings is a case-insensitive three-way string comparison for
// sort configs.
func CompareStrings(a, b string) int {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	switch {
	case la < lb:
		return -1
	case la > lb:
		return 1
	default:
		return 0
	}
}

// CompareInts is a three-way integer comparison for sort configs.
func CompareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CompareFloats is a three-way float comparison for sort configs.
func CompareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
