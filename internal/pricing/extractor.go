// Package pricing pulls fare amounts out of converted page text.
package pricing

import (
	"regexp"

	"github.com/shopspring/decimal"
)

const Symbol = "£"

// Any symbol-prefixed amount counts, wherever it sits on the page; flight numbers or
// unrelated figures carrying the symbol are indistinguishable from fares.
var pricePattern = regexp.MustCompile(Symbol + `(\d+(\.\d{1,2})?)`)

// ExtractCheapest returns the smallest amount found, or nil when there is none.
func ExtractCheapest(text string) *float64 {
	amounts := ExtractAll(text)
	if len(amounts) == 0 {
		return nil
	}

	cheapest := amounts[0]
	for _, a := range amounts[1:] {
		if a.LessThan(cheapest) {
			cheapest = a
		}
	}

	f := cheapest.InexactFloat64()
	return &f
}

// ExtractAll returns every amount in order of appearance.
func ExtractAll(text string) []decimal.Decimal {
	matches := pricePattern.FindAllStringSubmatch(text, -1)
	amounts := make([]decimal.Decimal, 0, len(matches))
	for _, m := range matches {
		d, err := decimal.NewFromString(m[1])
		if err != nil {
			continue
		}
		amounts = append(amounts, d)
	}
	return amounts
}
