package rest

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultPage     = 1
	defaultPageSize = 100
	maxPageSize     = 1000
)

// QueryParams holds parsed pagination and sorting parameters. Sort and
// Order are raw request values; the handler sanitizes and validates
// them before use.
type QueryParams struct {
	Page     int
	PageSize int
	Sort     string
	Order    string
}

// Offset returns the row offset for the requested page.
func (p QueryParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// parseQueryParams parses pagination and sorting query parameters.
// Invalid or missing numbers fall back to defaults; page_size is capped
// at maxPageSize.
func parseQueryParams(r *http.Request) QueryParams {
	q := r.URL.Query()

	params := QueryParams{
		Page:     defaultPage,
		PageSize: defaultPageSize,
		Sort:     q.Get("sort"),
		Order:    q.Get("order"),
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page >= 1 {
		params.Page = page
	}
	if size, err := strconv.Atoi(q.Get("page_size")); err == nil && size > 0 {
		params.PageSize = size
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	return params
}

// validateSortOrder normalizes an order token to "ASC" or "DESC",
// case-insensitively.
func validateSortOrder(order string) (string, error) {
	switch upper := strings.ToUpper(order); upper {
	case "ASC", "DESC":
		return upper, nil
	default:
		return "", fmt.Errorf("%w, got %q", ErrInvalidSortOrder, order)
	}
}
