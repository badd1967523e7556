package rest

import (
	"fmt"
	"net/url"
	"strings"
)

// FilterCondition is a single column-operator-value predicate parsed
// from the request path. Column is untrusted at this point; the caller
// must run it through SanitizeIdentifier before building SQL.
type FilterCondition struct {
	Column   string
	Operator string
	Value    string
}

// filterOperators in probe order. The two-character operators must come
// before "=", ">" and "<", which are substrings of them; probing "="
// first would misparse "age>=21" as column "age>" value "21".
var filterOperators = []string{">=", "<=", "!=", "=", ">", "<"}

// ParseFilter parses a single URL-encoded filter expression like
// "age%3E%3D21" (age>=21).
func ParseFilter(raw string) (FilterCondition, error) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return FilterCondition{}, fmt.Errorf("%w: %v", ErrFilterDecode, err)
	}
	return parseCondition(decoded)
}

// ParseFilters parses a URL-encoded expression holding one or more
// conditions joined by a literal "&". A "&" inside a filter value
// cannot be escaped; it is always treated as a separator.
func ParseFilters(raw string) ([]FilterCondition, error) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFilterDecode, err)
	}

	parts := strings.Split(decoded, "&")
	conditions := make([]FilterCondition, 0, len(parts))
	for _, part := range parts {
		cond, err := parseCondition(part)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
	}
	return conditions, nil
}

func parseCondition(expr string) (FilterCondition, error) {
	for _, op := range filterOperators {
		idx := strings.Index(expr, op)
		if idx < 0 {
			continue
		}

		column := strings.TrimSpace(expr[:idx])
		value := strings.TrimSpace(expr[idx+len(op):])
		if column == "" || value == "" {
			return FilterCondition{}, fmt.Errorf("%w: %q", ErrFilterFormat, expr)
		}

		return FilterCondition{
			Column:   column,
			Operator: op,
			Value:    value,
		}, nil
	}
	return FilterCondition{}, fmt.Errorf("%w in %q", ErrNoOperator, expr)
}
