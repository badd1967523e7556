package rest

import (
	"fmt"
	"strings"
)

// Condition is a filter predicate whose column already passed
// sanitization. The value is never interpolated into SQL text; it is
// emitted as a positional bind parameter.
type Condition struct {
	Column   Identifier
	Operator string
	Value    string
}

// SortClause is a sanitized sort column with a validated direction.
type SortClause struct {
	Column Identifier
	Order  string // ASC or DESC
}

// buildSelect composes the paginated SELECT statement and its bind
// values. Both sides of each comparison are cast to text, so inequality
// operators compare lexicographically on non-text columns; typing of
// the bound value is left to the database.
func buildSelect(table Identifier, conds []Condition, sort *SortClause, params QueryParams) (string, []any) {
	var query strings.Builder
	query.WriteString("SELECT * FROM ")
	query.WriteString(string(table))

	args := writeWhere(&query, conds)

	if sort != nil {
		fmt.Fprintf(&query, " ORDER BY %s %s", sort.Column, sort.Order)
	}

	// page size and offset are validated integers, not request text
	fmt.Fprintf(&query, " LIMIT %d OFFSET %d", params.PageSize, params.Offset())

	return query.String(), args
}

// buildCount composes the COUNT statement mirroring the WHERE clause of
// buildSelect, without ordering or pagination. Bind values are in the
// same positional order as for the SELECT.
func buildCount(table Identifier, conds []Condition) (string, []any) {
	var query strings.Builder
	query.WriteString("SELECT COUNT(*) AS count FROM ")
	query.WriteString(string(table))

	args := writeWhere(&query, conds)

	return query.String(), args
}

// writeWhere appends the WHERE clause for conds and returns the bind
// values in filter order. No clause is written for an empty filter
// list.
func writeWhere(query *strings.Builder, conds []Condition) []any {
	if len(conds) == 0 {
		return nil
	}

	query.WriteString(" WHERE ")

	clauses := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))
	for i, cond := range conds {
		clauses = append(clauses, fmt.Sprintf("%s::text %s $%d::text", cond.Column, cond.Operator, i+1))
		args = append(args, cond.Value)
	}
	query.WriteString(strings.Join(clauses, " AND "))

	return args
}
