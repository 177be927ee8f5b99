package riot

import (
	"errors"
	"fmt"
)

// ErrNotFound covers the expected-absence responses: no active game for a
// summoner, or no ranked entries. Callers treat it as steady state, not a
// failure.
var ErrNotFound = errors.New("riot: not found")

// ErrRateLimited maps upstream 429 responses.
var ErrRateLimited = errors.New("riot: rate limited")

// StatusError is any other non-200 response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("riot: API error: %d", e.Code)
}

// IsServerError reports whether err is an upstream 5xx.
func IsServerError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code >= 500
}
