package llm

import (
	"context"
	"fmt"

	"github.com/dharmasatrya/flyhigh/internal/models"
)

// Extract asks the model for the next assistant reply and whatever flight
// details the transcript already settles.
func (c *Client) Extract(ctx context.Context, transcript string) (*models.Extraction, error) {
	out, err := c.complete(ctx, extractionPrompt, "Conversation history:\n"+transcript+"\n\nAssistant's next reply:")
	if err != nil {
		return nil, err
	}
	return parseExtraction(out)
}

func parseExtraction(output string) (*models.Extraction, error) {
	obj, err := decodeObject(output)
	if err != nil {
		return nil, err
	}

	reply, err := stringField(obj, "reply")
	if err != nil {
		return nil, err
	}
	complete, err := boolField(obj, "isFlightDetailsComplete")
	if err != nil {
		return nil, err
	}

	extraction := &models.Extraction{Reply: reply, IsComplete: complete}

	raw, ok := obj["flightDetails"]
	if !ok || raw == nil {
		return extraction, nil
	}
	details, ok := raw.(map[string]any)
	if !ok {
		return nil, &ShapeError{Field: "flightDetails", Reason: "must be an object"}
	}
	fields, err := parseFields(details)
	if err != nil {
		return nil, err
	}
	extraction.Fields = fields
	return extraction, nil
}

func parseFields(obj map[string]any) (*models.ExtractedFields, error) {
	var (
		f   models.ExtractedFields
		err error
	)
	if f.Origin, err = stringField(obj, "origin"); err != nil {
		return nil, err
	}
	if f.Destination, err = stringField(obj, "destination"); err != nil {
		return nil, err
	}
	if f.Dates, err = stringField(obj, "dates"); err != nil {
		return nil, err
	}
	if f.Passengers, err = intField(obj, "passengers"); err != nil {
		return nil, err
	}
	if f.FlightClass, err = stringField(obj, "flightClass"); err != nil {
		return nil, err
	}
	return &f, nil
}

// ParseQuery turns one free-form request such as "flights to Chennai" into a
// structured query, filling origin, dates and passengers with defaults.
func (c *Client) ParseQuery(ctx context.Context, query string) (*models.StructuredQuery, error) {
	system := fmt.Sprintf(queryPrompt, c.defaultOrigin, c.now().Format("2006-01-02"))
	out, err := c.complete(ctx, system, "User query: "+query)
	if err != nil {
		return nil, err
	}

	obj, err := decodeObject(out)
	if err != nil {
		return nil, err
	}
	fields, err := parseFields(obj)
	if err != nil {
		return nil, err
	}

	q := fields.Query()
	if q.Origin == "" {
		q.Origin = c.defaultOrigin
	}
	if q.Dates == "" {
		q.Dates = "next week"
	}
	if q.Passengers == 0 {
		q.Passengers = 1
	}
	return &q, nil
}
