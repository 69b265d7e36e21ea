package core

import "strings"

// MatchesSearch reports whether row passes the free-text term.
// An empty term matches everything; otherwise at least one searchable
// column's stringified value must contain the term, ignoring case.
func MatchesSearch(row Row, schema Schema, term string) bool {
	if term == "" {
		return true
	}
	return matchesFolded(row, schema.searchable(), strings.ToLower(term))
}

func matchesFolded(row Row, cols []Column, folded string) bool {
	for _, col := range cols {
		if strings.Contains(strings.ToLower(row.Get(col.Key).String()), folded) {
			return true
		}
	}
	return false
}

// MatchesFilters reports whether row satisfies every column filter.
// Keys combine with AND, values within a key with OR. Empty sets and keys
// outside the schema impose no constraint.
func MatchesFilters(row Row, schema Schema, filters FilterState) bool {
	for key, accepted := range filters {
		if len(accepted) == 0 || !schema.Has(key) {
			continue
		}
		if _, ok := accepted[row.Get(key).String()]; !ok {
			return false
		}
	}
	return true
}

// Visible reports whether row passes both the search term and the filters.
func Visible(row Row, schema Schema, term string, filters FilterState) bool {
	return MatchesFilters(row, schema, filters) && MatchesSearch(row, schema, term)
}

// predicate is a prepared form of Visible that folds the term once.
type predicate struct {
	schema     Schema
	searchCols []Column
	folded     string
	filters    FilterState
}

func newPredicate(schema Schema, term string, filters FilterState) predicate {
	return predicate{
		schema:     schema,
		searchCols: schema.searchable(),
		folded:     strings.ToLower(term),
		filters:    filters,
	}
}

func (p predicate) match(row Row) bool {
	if !MatchesFilters(row, p.schema, p.filters) {
		return false
	}
	if p.folded == "" {
		return true
	}
	return matchesFolded(row, p.searchCols, p.folded)
}
