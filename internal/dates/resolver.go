// Package dates turns free-form date phrases into calendar dates.
//
// Resolution runs an ordered list of strategies and the first match wins:
//
//  1. KeywordStrategy   "today", "anytime", "tomorrow", "next week"
//  2. MonthWeekStrategy "a week in <month>"
//  3. LayoutStrategy    explicit layouts (ISO, US, EU, month names, year-less)
//  4. FallbackStrategy  generic parse of the raw phrase
//
// Dates from strategies 3 and 4 whose phrase carries no year are moved into the
// current year, and into the next one if that would put them before today.
package dates

import (
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/dharmasatrya/flyhigh/internal/timezone"
)

const ISOLayout = "2006-01-02"

var (
	ordinalSuffix = regexp.MustCompile(`\b(\d{1,2})(st|nd|rd|th)\b`)
	spaces        = regexp.MustCompile(`\s+`)
	explicitYear  = regexp.MustCompile(`\d{4}|'\d{2}`)
)

// Input is what every strategy sees for one phrase.
type Input struct {
	Raw        string
	Normalized string
	Today      time.Time
}

// Match is a strategy result. Anchored dates are final and skip the missing-year rule.
type Match struct {
	Date     time.Time
	Anchored bool
}

type Strategy interface {
	Name() string
	Resolve(in Input) (Match, bool)
}

type Resolver struct {
	loc        *time.Location
	now        func() time.Time
	strategies []Strategy
}

// NewResolver builds a resolver for loc. A nil now uses time.Now.
func NewResolver(loc *time.Location, now func() time.Time) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Resolver{
		loc:        loc,
		now:        now,
		strategies: DefaultStrategies(loc),
	}
}

func DefaultStrategies(loc *time.Location) []Strategy {
	return []Strategy{
		KeywordStrategy{},
		MonthWeekStrategy{},
		LayoutStrategy{Layouts: DefaultLayouts, Location: loc},
		FallbackStrategy{Location: loc},
	}
}

func (r *Resolver) Today() time.Time {
	return timezone.StartOfDay(r.now(), r.loc)
}

// Resolve returns the ISO date for expr, or false when nothing could parse it.
func (r *Resolver) Resolve(expr string) (string, bool) {
	d, ok := r.ResolveDate(expr)
	if !ok {
		return "", false
	}
	return d.Format(ISOLayout), true
}

func (r *Resolver) ResolveDate(expr string) (time.Time, bool) {
	d, _, ok := r.resolve(expr)
	return d, ok
}

// Explain is Resolve plus the name of the strategy that matched.
func (r *Resolver) Explain(expr string) (string, string, bool) {
	d, strategy, ok := r.resolve(expr)
	if !ok {
		return "", "", false
	}
	return d.Format(ISOLayout), strategy, true
}

func (r *Resolver) resolve(expr string) (time.Time, string, bool) {
	raw := strings.TrimSpace(expr)
	if raw == "" {
		return time.Time{}, "", false
	}

	in := Input{
		Raw:        raw,
		Normalized: Normalize(raw),
		Today:      r.Today(),
	}

	for _, s := range r.strategies {
		m, ok := s.Resolve(in)
		if !ok {
			continue
		}
		log.Printf("[DATES] %q matched %s", raw, s.Name())
		if m.Anchored || explicitYear.MatchString(in.Normalized) {
			return timezone.StartOfDay(m.Date, r.loc), s.Name(), true
		}
		d, ok := applyMissingYear(m.Date, in.Today)
		return d, s.Name(), ok
	}

	return time.Time{}, "", false
}

// Normalize trims, lowercases and strips ordinal suffixes ("1st" -> "1").
func Normalize(expr string) string {
	s := strings.ToLower(strings.TrimSpace(expr))
	s = spaces.ReplaceAllString(s, " ")
	return ordinalSuffix.ReplaceAllString(s, "$1")
}

// applyMissingYear places month/day in the first year, starting with today's,
// where the date exists and is not before today.
func applyMissingYear(d, today time.Time) (time.Time, bool) {
	month, day := d.Month(), d.Day()
	for year := today.Year(); year <= today.Year()+4; year++ {
		candidate := time.Date(year, month, day, 0, 0, 0, 0, today.Location())
		if candidate.Month() != month {
			// Feb 29 outside a leap year.
			continue
		}
		if candidate.Before(today) {
			continue
		}
		return candidate, true
	}
	return time.Time{}, false
}
