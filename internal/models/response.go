package models

import "time"

type ResultStatus string

const (
	// StatusPriceOnly means a price was extracted but no itinerary details are available.
	StatusPriceOnly ResultStatus = "price_only"
	// StatusNoPrice is the extraction-miss soft failure.
	StatusNoPrice ResultStatus = "no_price"
)

type SearchResult struct {
	Flights       []Flight     `json:"flights"`
	RedirectURL   string       `json:"redirectUrl"`
	RawContent    string       `json:"htmlContent"`
	CheapestPrice *float64     `json:"cheapestPrice"`
	Status        ResultStatus `json:"status"`
	DepartureDate string       `json:"departureDate"`
	ReturnDate    *string      `json:"returnDate,omitempty"`
}

type QuerySearchResponse struct {
	SearchResult
	ParsedQuery StructuredQuery `json:"parsedQuery"`
}

// ExtractedFields are the slots the extraction collaborator reports.
type ExtractedFields struct {
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	Dates       string `json:"dates,omitempty"`
	Passengers  int    `json:"passengers,omitempty"`
	FlightClass string `json:"flightClass,omitempty"`
}

// Missing lists the required slots that are still empty.
func (f *ExtractedFields) Missing() []string {
	if f == nil {
		return []string{"origin", "destination", "dates", "passengers"}
	}
	var missing []string
	if f.Origin == "" {
		missing = append(missing, "origin")
	}
	if f.Destination == "" {
		missing = append(missing, "destination")
	}
	if f.Dates == "" {
		missing = append(missing, "dates")
	}
	if f.Passengers < 1 {
		missing = append(missing, "passengers")
	}
	return missing
}

func (f *ExtractedFields) Query() StructuredQuery {
	return StructuredQuery{
		Origin:      f.Origin,
		Destination: f.Destination,
		Dates:       f.Dates,
		Passengers:  f.Passengers,
		FlightClass: f.FlightClass,
	}
}

// Extraction is the collaborator's answer for one transcript.
type Extraction struct {
	Reply      string           `json:"reply"`
	IsComplete bool             `json:"isComplete"`
	Fields     *ExtractedFields `json:"fields,omitempty"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

type TurnResponse struct {
	SessionID  string           `json:"sessionId"`
	Reply      string           `json:"reply"`
	IsComplete bool             `json:"isComplete"`
	Fields     *ExtractedFields `json:"fields,omitempty"`
	Summary    string           `json:"summary,omitempty"`
	Result     *SearchResult    `json:"result,omitempty"`
}

type SessionResponse struct {
	ID         string `json:"id"`
	IsComplete bool   `json:"isComplete"`
	Turns      []Turn `json:"turns"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
