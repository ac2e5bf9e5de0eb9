package models

import (
	"errors"
	"strings"
)

var (
	ErrSessionComplete = errors.New("conversation already completed; start a new session")
	ErrSessionNotFound = errors.New("conversation session not found")
)

// ConfigurationError reports missing operator configuration. It is not retryable.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "missing configuration: " + strings.Join(e.Missing, ", ")
}

// InvalidDateError is returned when the departure side of a date expression
// cannot be resolved to a calendar date.
type InvalidDateError struct {
	Expression string
}

func (e *InvalidDateError) Error() string {
	return "could not understand departure date " + `"` + e.Expression + `"`
}

// NetworkError wraps transport, DNS and proxy failures while fetching a page.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return "fetch " + e.URL + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func NewNetworkError(url string, err error) *NetworkError {
	return &NetworkError{
		URL: url,
		Err: err,
	}
}
