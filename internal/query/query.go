// Package query builds the filter and pagination fragments shared by the
// list endpoints. Fragments are plain SQL snippets with positional args, in
// the same style the repositories assemble their WHERE clauses.
package query

import (
	"fmt"
	"strings"
)

// Pagination defaults and bounds.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// likeEscaper neutralizes characters with special meaning in LIKE patterns.
// Keywords come straight from query strings and are untrusted.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters in s.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// KeywordFilter returns a clause matching records where at least one of
// fields contains keyword as a case-insensitive substring. The pattern is
// appended to args and referenced positionally. An empty keyword restricts
// nothing and yields an empty clause. Field order is preserved in the
// generated SQL.
func KeywordFilter(keyword string, fields []string, args *[]any) string {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || len(fields) == 0 {
		return ""
	}

	*args = append(*args, "%"+strings.ToLower(EscapeLike(keyword))+"%")
	placeholder := fmt.Sprintf("$%d", len(*args))

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = fmt.Sprintf("LOWER(%s) LIKE %s", field, placeholder)
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// Page describes one page of a sorted result set.
type Page struct {
	Page      int
	PerPage   int
	SortField string
	SortOrder string
}

// Normalize clamps page and page size to sane bounds. Page sizes above
// MaxPerPage are capped rather than honored.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Skip returns the number of records preceding this page.
func (p Page) Skip() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

// Limit returns the page size.
func (p Page) Limit() int {
	return p.Normalize().PerPage
}

// Direction maps a sort order to SQL. Only the exact string "asc" sorts
// ascending; anything else, including absent, sorts descending.
func Direction(sortOrder string) string {
	if sortOrder == "asc" {
		return "ASC"
	}
	return "DESC"
}

// OrderClause resolves the requested sort field against the sortable
// whitelist and returns an ORDER BY clause. Unknown fields fall back to the
// provided column.
func (p Page) OrderClause(sortable map[string]string, fallback string) string {
	column, ok := sortable[p.SortField]
	if !ok {
		column = fallback
	}
	return fmt.Sprintf("ORDER BY %s %s", column, Direction(p.SortOrder))
}

// LimitOffsetClause returns the bounded-slice clause for this page.
func (p Page) LimitOffsetClause() string {
	return fmt.Sprintf("LIMIT %d OFFSET %d", p.Limit(), p.Skip())
}
