package models

// Leg describes one segment of an itinerary. Values are display strings as scraped;
// "N/A" marks data the page did not expose.
type Leg struct {
	Airline       string `json:"airline"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
	Duration      string `json:"duration"`
	Stops         string `json:"stops"`
	FromCode      string `json:"fromCode,omitempty"`
	ToCode        string `json:"toCode,omitempty"`
}

type Endpoint struct {
	Code string `json:"code"`
	Time string `json:"time"`
}

type Emissions struct {
	CO2 float64 `json:"co2"`
}

type Flight struct {
	ID        string     `json:"id"`
	Price     float64    `json:"price"`
	Provider  string     `json:"provider"`
	Legs      []Leg      `json:"legs"`
	From      *Endpoint  `json:"from,omitempty"`
	To        *Endpoint  `json:"to,omitempty"`
	Duration  string     `json:"duration,omitempty"`
	Stops     *int       `json:"stops,omitempty"`
	Emissions *Emissions `json:"emissions,omitempty"`
}
