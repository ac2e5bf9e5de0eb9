// Package orchestrator runs one flight search end to end:
// build URL -> fetch through the proxy -> convert -> extract price -> shape result.
package orchestrator

import (
	"context"
	"log"

	"github.com/dharmasatrya/flyhigh/internal/models"
	"github.com/dharmasatrya/flyhigh/internal/pricing"
	"github.com/dharmasatrya/flyhigh/internal/querybuilder"
)

type URLBuilder interface {
	Build(q models.StructuredQuery) (*querybuilder.Built, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type Converter interface {
	ToText(markup string) string
}

type Limiter interface {
	Wait(ctx context.Context, url string) error
}

type Config struct {
	ProviderName string
	// Limiter is optional.
	Limiter Limiter
}

type Orchestrator struct {
	builder   URLBuilder
	fetcher   Fetcher
	converter Converter
	config    Config
}

func New(builder URLBuilder, fetcher Fetcher, converter Converter, config Config) *Orchestrator {
	if config.ProviderName == "" {
		config.ProviderName = "Google Flights"
	}
	return &Orchestrator{
		builder:   builder,
		fetcher:   fetcher,
		converter: converter,
		config:    config,
	}
}

// Search is a single sequential attempt. A page without a recognisable price is
// not an error: the result carries a nil CheapestPrice and no flights.
func (o *Orchestrator) Search(ctx context.Context, q models.StructuredQuery) (*models.SearchResult, error) {
	built, err := o.builder.Build(q)
	if err != nil {
		return nil, err
	}

	if o.config.Limiter != nil {
		if err := o.config.Limiter.Wait(ctx, built.URL); err != nil {
			return nil, models.NewNetworkError(built.URL, err)
		}
	}

	log.Printf("[SEARCH] %s", built.Phrase)
	markup, err := o.fetcher.Fetch(ctx, built.URL)
	if err != nil {
		return nil, err
	}

	text := o.converter.ToText(markup)
	cheapest := pricing.ExtractCheapest(text)

	result := &models.SearchResult{
		Flights:       []models.Flight{},
		RedirectURL:   built.URL,
		RawContent:    text,
		CheapestPrice: cheapest,
		Status:        models.StatusNoPrice,
		DepartureDate: built.DepartureDate,
		ReturnDate:    built.ReturnDate,
	}

	if cheapest == nil {
		log.Printf("[SEARCH] no price found on %s", built.URL)
		return result, nil
	}

	result.Status = models.StatusPriceOnly
	result.Flights = append(result.Flights, o.syntheticFlight(*cheapest))
	return result, nil
}

// syntheticFlight stands in for the itinerary the page did not expose.
func (o *Orchestrator) syntheticFlight(price float64) models.Flight {
	return models.Flight{
		ID:       "flight-0",
		Price:    price,
		Provider: o.config.ProviderName,
		Legs: []models.Leg{
			{
				Airline:       "Various",
				DepartureTime: "N/A",
				ArrivalTime:   "N/A",
				Duration:      "N/A",
				Stops:         "N/A",
			},
		},
	}
}
