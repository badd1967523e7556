package rest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSelectNoFilters(t *testing.T) {
	sql, args := buildSelect("customers", nil, nil, QueryParams{Page: 1, PageSize: 100})

	assert.Equal(t, "SELECT * FROM customers LIMIT 100 OFFSET 0", sql)
	assert.Empty(t, args)
}

func TestBuildSelectFilters(t *testing.T) {
	conds := []Condition{
		{Column: "age", Operator: ">=", Value: "21"},
		{Column: "name", Operator: "=", Value: "bob"},
	}
	sql, args := buildSelect("customers", conds, nil, QueryParams{Page: 1, PageSize: 100})

	assert.Equal(t,
		"SELECT * FROM customers WHERE age::text >= $1::text AND name::text = $2::text LIMIT 100 OFFSET 0",
		sql)
	assert.Equal(t, []any{"21", "bob"}, args)
}

func TestBuildSelectSortAndPagination(t *testing.T) {
	conds := []Condition{{Column: "amount", Operator: ">", Value: "1000"}}
	sort := &SortClause{Column: "created_at", Order: "DESC"}
	sql, args := buildSelect("loans", conds, sort, QueryParams{Page: 3, PageSize: 50})

	assert.Equal(t,
		"SELECT * FROM loans WHERE amount::text > $1::text ORDER BY created_at DESC LIMIT 50 OFFSET 100",
		sql)
	assert.Equal(t, []any{"1000"}, args)
}

func TestBuildCount(t *testing.T) {
	sql, args := buildCount("customers", nil)
	assert.Equal(t, "SELECT COUNT(*) AS count FROM customers", sql)
	assert.Empty(t, args)

	conds := []Condition{
		{Column: "age", Operator: ">=", Value: "21"},
		{Column: "name", Operator: "=", Value: "bob"},
	}
	sql, args = buildCount("customers", conds)
	assert.Equal(t,
		"SELECT COUNT(*) AS count FROM customers WHERE age::text >= $1::text AND name::text = $2::text",
		sql)
	assert.Equal(t, []any{"21", "bob"}, args)
}

// Both statements must bind the same values in the same positional
// order.
func TestBuildBindOrderMatches(t *testing.T) {
	conds := []Condition{
		{Column: "a", Operator: "=", Value: "1"},
		{Column: "b", Operator: "!=", Value: "2"},
		{Column: "c", Operator: "<", Value: "3"},
	}
	_, selectArgs := buildSelect("t", conds, nil, QueryParams{Page: 1, PageSize: 10})
	_, countArgs := buildCount("t", conds)

	assert.Equal(t, selectArgs, countArgs)
	assert.Equal(t, []any{"1", "2", "3"}, selectArgs)
}
