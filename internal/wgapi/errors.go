package wgapi

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatch reports a search that returned no result matching the query.
	ErrNoMatch = errors.New("wgapi: no matching result")
	// ErrTagTooLong reports a gamer tag longer than MaxGamerTagLength.
	ErrTagTooLong = errors.New("wgapi: gamer tag too long")
)

// APIError is the error envelope returned with status "error".
type APIError struct {
	Operation string
	Code      int
	Field     string
	Message   string
	Value     string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("wgapi: %s: %s (%d) on field %s", e.Operation, e.Message, e.Code, e.Field)
	}
	return fmt.Sprintf("wgapi: %s: %s (%d)", e.Operation, e.Message, e.Code)
}
