package models

import "strings"

const DefaultFlightClass = "economy"

// StructuredQuery is the canonical search request a provider URL is built from.
type StructuredQuery struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Dates       string `json:"dates"`
	Passengers  int    `json:"passengers"`
	FlightClass string `json:"flightClass,omitempty"`
}

func (q *StructuredQuery) Validate() error {
	q.Origin = strings.TrimSpace(q.Origin)
	q.Destination = strings.TrimSpace(q.Destination)
	q.Dates = strings.TrimSpace(q.Dates)
	q.FlightClass = strings.TrimSpace(q.FlightClass)

	if q.Origin == "" {
		return ErrMissingOrigin
	}
	if q.Destination == "" {
		return ErrMissingDestination
	}
	if q.Dates == "" {
		return ErrMissingDates
	}
	if q.Passengers < 1 {
		return ErrInvalidPassengers
	}
	return nil
}

type FreeFormQuery struct {
	Query string `json:"query"`
}

type ConverseRequest struct {
	Transcript string `json:"transcript"`
}

type MessageRequest struct {
	Message string `json:"message"`
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin      ValidationError = "origin is required"
	ErrMissingDestination ValidationError = "destination is required"
	ErrMissingDates       ValidationError = "dates are required"
	ErrInvalidPassengers  ValidationError = "passengers must be at least 1"
	ErrEmptyQuery         ValidationError = "query is required"
	ErrEmptyMessage       ValidationError = "message is required"
	ErrEmptyTranscript    ValidationError = "transcript is required"
)
