package fetcher

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports an HTTP 404. It is never retried.
	ErrNotFound = errors.New("fetcher: resource not found")
	// ErrRetriesExhausted wraps the last transient error once every attempt failed.
	ErrRetriesExhausted = errors.New("fetcher: retries exhausted")
)

// HTTPError captures a non-success HTTP response.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetcher: GET %s: %s", e.URL, e.Status)
}

// Is lets errors.Is(err, ErrNotFound) match a 404 response.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == 404
}
