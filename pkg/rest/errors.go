package rest

import "errors"

var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrFilterDecode      = errors.New("failed to decode filter")
	ErrFilterFormat      = errors.New("invalid filter format")
	ErrNoOperator        = errors.New("no valid operator found")
	ErrInvalidSortOrder  = errors.New("invalid sort order: use 'asc' or 'desc'")
)
