// Package search builds the WHERE plan for store_data lookups. A query is
// tokenized on whitespace; all-digit tokens match the tail of item_no (the
// identifiers are often entered with leading padding) and the remaining
// tokens become a required-prefix boolean full-text search over the indexed
// text columns.
package search

import (
	"fmt"
	"strings"

	"github.com/storeops/replenish-backend/internal/domain"
)

// ScopeAll searches every indexed column at once.
const ScopeAll = "all"

// Columns covered by the store_data FULLTEXT index. Also the whitelist of
// single-column scopes.
var SearchableColumns = []string{
	"item_no",
	"variant_code",
	"brand",
	"description",
	"sub_description",
	"vendor_no",
}

// Plan is a parameterized predicate over store_data. Empty means the query
// had nothing to search for and the caller should return no rows without
// touching the database.
type Plan struct {
	Where string
	Args  []any
	Empty bool
}

func matchPredicate() string {
	return fmt.Sprintf("MATCH (%s) AGAINST (? IN BOOLEAN MODE)", strings.Join(SearchableColumns, ", "))
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Build validates the scope and produces the query plan. An unknown scope is
// rejected with domain.ErrInvalidSearchTerm before anything touches the
// database; there is no fallback scope.
func Build(scope, query string) (Plan, error) {
	if scope == ScopeAll {
		return buildAll(query), nil
	}

	ok := false
	for _, col := range SearchableColumns {
		if scope == col {
			ok = true
			break
		}
	}
	if !ok {
		return Plan{}, fmt.Errorf("scope %q: %w", scope, domain.ErrInvalidSearchTerm)
	}

	value := strings.TrimSpace(query)
	if value == "" {
		return Plan{Empty: true}, nil
	}

	// Numeric item numbers are end-matched: "123" finds "00123" but never
	// "12399". Everything else is a contains match.
	like := "%" + value + "%"
	if scope == "item_no" && isNumeric(value) {
		like = "%" + value
	}
	return Plan{
		Where: fmt.Sprintf("%s LIKE ?", scope),
		Args:  []any{like},
	}, nil
}

func buildAll(query string) Plan {
	var numeric, textual []string
	for _, word := range strings.Fields(query) {
		if isNumeric(word) {
			numeric = append(numeric, word)
		} else {
			textual = append(textual, word)
		}
	}

	if len(numeric) == 0 && len(textual) == 0 {
		// No implicit wildcard: an empty query returns nothing.
		return Plan{Empty: true}
	}

	// The final predicate is the AND of only the clauses that are present.
	// An unconditional-true stand-in for the missing full-text clause would
	// leak unrelated rows on numeric-only queries.
	var clauses []string
	var args []any

	if len(textual) > 0 {
		terms := make([]string, len(textual))
		for i, w := range textual {
			terms[i] = "+" + w + "*"
		}
		clauses = append(clauses, matchPredicate())
		args = append(args, strings.Join(terms, " "))
	}

	for _, n := range numeric {
		clauses = append(clauses, "item_no LIKE ?")
		args = append(args, "%"+n)
	}

	return Plan{
		Where: strings.Join(clauses, " AND "),
		Args:  args,
	}
}
