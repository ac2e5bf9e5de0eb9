// Package querybuilder composes the provider search URL for a structured query.
package querybuilder

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dharmasatrya/flyhigh/internal/dates"
	"github.com/dharmasatrya/flyhigh/internal/models"
)

const (
	searchPath = "/travel/flights"
	rangeSep   = " to "
)

// Locale parameters are fixed so identical queries always yield identical URLs.
const (
	paramLanguage = "en-gb"
	paramCountry  = "gb"
	paramCurrency = "GBP"
)

type DateResolver interface {
	Resolve(expr string) (string, bool)
}

var _ DateResolver = (*dates.Resolver)(nil)

type Builder struct {
	baseURL  string
	resolver DateResolver
}

type Built struct {
	URL           string
	Phrase        string
	DepartureDate string
	ReturnDate    *string
}

func NewBuilder(baseURL string, resolver DateResolver) *Builder {
	return &Builder{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		resolver: resolver,
	}
}

func (b *Builder) Build(q models.StructuredQuery) (*Built, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	departureExpr, returnExpr := SplitDates(q.Dates)

	departure, ok := b.resolver.Resolve(departureExpr)
	if !ok {
		return nil, &models.InvalidDateError{Expression: departureExpr}
	}

	var returnDate *string
	if returnExpr != "" {
		// An unresolvable return side turns the search into a one-way.
		if r, ok := b.resolver.Resolve(returnExpr); ok {
			returnDate = &r
		}
	}

	phrase := Phrase(q, departure, returnDate)

	return &Built{
		URL:           b.baseURL + searchPath + "?" + encodeParams(phrase),
		Phrase:        phrase,
		DepartureDate: departure,
		ReturnDate:    returnDate,
	}, nil
}

// SplitDates splits a "A to B" range into at most two trimmed sides.
func SplitDates(expr string) (string, string) {
	parts := strings.SplitN(expr, rangeSep, 2)
	if len(parts) == 1 {
		return strings.TrimSpace(parts[0]), ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}

// Phrase is the natural-language query the provider understands, e.g.
// "Flights to Chennai from Glasgow on 2026-10-25 through 2026-11-01 business 2 adults".
func Phrase(q models.StructuredQuery, departure string, returnDate *string) string {
	parts := []string{"Flights", "to", q.Destination, "from", q.Origin, "on", departure}
	if returnDate != nil {
		parts = append(parts, "through", *returnDate)
	}
	if class := strings.ToLower(q.FlightClass); class != "" && class != models.DefaultFlightClass {
		parts = append(parts, class)
	}
	if q.Passengers == 1 {
		parts = append(parts, "1 adult")
	} else {
		parts = append(parts, fmt.Sprintf("%d adults", q.Passengers))
	}
	return strings.Join(parts, " ")
}

// uriComponentFix undoes the escapes url.QueryEscape applies to characters that
// encodeURIComponent-style encoders leave alone, keeping deep links stable.
var uriComponentFix = strings.NewReplacer(
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeParams(phrase string) string {
	q := uriComponentFix.Replace(url.QueryEscape(phrase))
	return "q=" + q + "&hl=" + paramLanguage + "&gl=" + paramCountry + "&currency=" + paramCurrency
}
