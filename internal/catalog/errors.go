package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidRequest  = errors.New("catalog: invalid page request")
	ErrMalformedRecord = errors.New("catalog: malformed record")
	ErrBusy            = errors.New("catalog: a fetch is already in flight")
	ErrNoMorePages     = errors.New("catalog: no more pages")
	ErrNotLoaded       = errors.New("catalog: view has not loaded yet")
	ErrWrongMode       = errors.New("catalog: operation not supported in this mode")
	ErrStale           = errors.New("catalog: response superseded by a newer request")
)

// TransportError is a failed call to the upstream listing: network failure,
// timeout or a non-2xx answer.
type TransportError struct {
	Op         string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s: timed out: %v", e.Op, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: upstream status %d: %v", e.Op, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Message is the text shown in the list-level error banner.
func (e *TransportError) Message() string {
	switch {
	case e.Timeout:
		return "GitHub took too long to answer. Please try again."
	case e.StatusCode == http.StatusForbidden || e.StatusCode == http.StatusTooManyRequests:
		return "GitHub rate limit reached. Please try again in a few minutes."
	case e.StatusCode == http.StatusNotFound:
		return "GitHub account not found."
	case e.StatusCode != 0:
		return fmt.Sprintf("GitHub API error: %d", e.StatusCode)
	default:
		return "Failed to load repositories. Please try again."
	}
}

// UserMessage renders any fetch error as banner text.
func UserMessage(err error) string {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Message()
	}
	return "Failed to load repositories. Please try again."
}
