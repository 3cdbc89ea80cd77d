package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordFilter_EmptyKeywordRestrictsNothing(t *testing.T) {
	t.Parallel()

	args := []any{}
	clause := KeywordFilter("", []string{"title", "description"}, &args)

	assert.Empty(t, clause)
	assert.Empty(t, args)
}

func TestKeywordFilter_WhitespaceKeywordRestrictsNothing(t *testing.T) {
	t.Parallel()

	args := []any{}
	clause := KeywordFilter("   ", []string{"title"}, &args)

	assert.Empty(t, clause)
	assert.Empty(t, args)
}

func TestKeywordFilter_BuildsDisjunctionInFieldOrder(t *testing.T) {
	t.Parallel()

	args := []any{}
	clause := KeywordFilter("Widget", []string{"title", "description"}, &args)

	assert.Equal(t, "(LOWER(title) LIKE $1 OR LOWER(description) LIKE $1)", clause)
	require.Len(t, args, 1)
	assert.Equal(t, "%widget%", args[0])
}

func TestKeywordFilter_ContinuesExistingPlaceholders(t *testing.T) {
	t.Parallel()

	args := []any{"existing"}
	clause := KeywordFilter("x", []string{"name"}, &args)

	assert.Equal(t, "(LOWER(name) LIKE $2)", clause)
	assert.Len(t, args, 2)
}

func TestKeywordFilter_EscapesLikeMetacharacters(t *testing.T) {
	t.Parallel()

	args := []any{}
	KeywordFilter(`50%_off\now`, []string{"title"}, &args)

	require.Len(t, args, 1)
	assert.Equal(t, `%50\%\_off\\now%`, args[0])
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `\%`, EscapeLike(`%`))
	assert.Equal(t, `\_`, EscapeLike(`_`))
	assert.Equal(t, `\\`, EscapeLike(`\`))
	assert.Equal(t, "plain", EscapeLike("plain"))
}

func TestPage_SkipMatchesPageArithmetic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Page{Page: 1, PerPage: 10}.Skip())
	assert.Equal(t, 20, Page{Page: 3, PerPage: 10}.Skip())
	assert.Equal(t, 25, Page{Page: 6, PerPage: 5}.Skip())
}

func TestPage_NormalizeDefaultsAndCaps(t *testing.T) {
	t.Parallel()

	n := Page{Page: 0, PerPage: 0}.Normalize()
	assert.Equal(t, DefaultPage, n.Page)
	assert.Equal(t, DefaultPerPage, n.PerPage)

	n = Page{Page: -3, PerPage: -1}.Normalize()
	assert.Equal(t, DefaultPage, n.Page)
	assert.Equal(t, DefaultPerPage, n.PerPage)

	n = Page{Page: 2, PerPage: 10_000}.Normalize()
	assert.Equal(t, 2, n.Page)
	assert.Equal(t, MaxPerPage, n.PerPage)
}

func TestDirection_OnlyAscIsAscending(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ASC", Direction("asc"))
	assert.Equal(t, "DESC", Direction("desc"))
	assert.Equal(t, "DESC", Direction(""))
	assert.Equal(t, "DESC", Direction("ASC"))
	assert.Equal(t, "DESC", Direction("ascending"))
}

func TestPage_OrderClauseUsesWhitelist(t *testing.T) {
	t.Parallel()

	sortable := map[string]string{"createdAt": "created_at", "title": "title"}

	p := Page{SortField: "title", SortOrder: "asc"}
	assert.Equal(t, "ORDER BY title ASC", p.OrderClause(sortable, "created_at"))

	p = Page{SortField: "createdAt", SortOrder: "desc"}
	assert.Equal(t, "ORDER BY created_at DESC", p.OrderClause(sortable, "created_at"))
}

func TestPage_OrderClauseRejectsUnknownField(t *testing.T) {
	t.Parallel()

	sortable := map[string]string{"createdAt": "created_at"}

	p := Page{SortField: "password_hash; DROP TABLE users", SortOrder: "asc"}
	assert.Equal(t, "ORDER BY created_at ASC", p.OrderClause(sortable, "created_at"))
}

func TestPage_LimitOffsetClause(t *testing.T) {
	t.Parallel()

	p := Page{Page: 2, PerPage: 10}
	assert.Equal(t, "LIMIT 10 OFFSET 10", p.LimitOffsetClause())

	p = Page{}
	assert.Equal(t, "LIMIT 10 OFFSET 0", p.LimitOffsetClause())
}
