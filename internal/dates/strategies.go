package dates

import (
	"log"
	"regexp"
	"time"

	"github.com/araddon/dateparse"
)

// KeywordStrategy handles fixed words relative to today.
type KeywordStrategy struct{}

func (KeywordStrategy) Name() string { return "keyword" }

func (KeywordStrategy) Resolve(in Input) (Match, bool) {
	switch in.Normalized {
	case "anytime", "today":
		return Match{Date: in.Today, Anchored: true}, true
	case "tomorrow":
		return Match{Date: in.Today.AddDate(0, 0, 1), Anchored: true}, true
	case "next week":
		return Match{Date: nextWeekday(in.Today, time.Sunday), Anchored: true}, true
	}
	return Match{}, false
}

// nextWeekday returns the first wd strictly after day.
func nextWeekday(day time.Time, wd time.Weekday) time.Time {
	n := (7 + int(wd) - int(day.Weekday())) % 7
	if n == 0 {
		n = 7
	}
	return day.AddDate(0, 0, n)
}

var monthWeek = regexp.MustCompile(`\ba week in ([a-z]+)\b`)

// MonthWeekStrategy maps "a week in <month>" to the first of that month this year.
type MonthWeekStrategy struct{}

func (MonthWeekStrategy) Name() string { return "month-week" }

func (MonthWeekStrategy) Resolve(in Input) (Match, bool) {
	m := monthWeek.FindStringSubmatch(in.Normalized)
	if m == nil {
		return Match{}, false
	}
	month, ok := parseMonth(m[1])
	if !ok {
		return Match{}, false
	}
	first := time.Date(in.Today.Year(), month, 1, 0, 0, 0, 0, in.Today.Location())
	return Match{Date: first, Anchored: true}, true
}

func parseMonth(s string) (time.Month, bool) {
	for _, layout := range []string{"January", "Jan"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Month(), true
		}
	}
	return 0, false
}

// DefaultLayouts is tried in order; US forms precede EU forms, so "03/04/2026" is March 4.
var DefaultLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"1/2/2006",
	"2/1/2006",
	"01-02-2006",
	"02-01-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2 January, 2006",
	"2006/01/02",
	"2 January '06",
	"2 Jan '06",
	"January 2 '06",
	"Jan 2 '06",
	"January 2",
	"Jan 2",
	"1/2",
	"2 January",
	"2 Jan",
}

// LayoutStrategy tries explicit layouts against the normalized phrase.
type LayoutStrategy struct {
	Layouts  []string
	Location *time.Location
}

func (LayoutStrategy) Name() string { return "layout" }

func (s LayoutStrategy) Resolve(in Input) (Match, bool) {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range s.Layouts {
		if t, err := time.ParseInLocation(layout, in.Normalized, loc); err == nil {
			return Match{Date: t}, true
		}
	}
	return Match{}, false
}

// FallbackStrategy hands the raw phrase to a generic date parser.
type FallbackStrategy struct {
	Location *time.Location
}

func (FallbackStrategy) Name() string { return "fallback" }

func (s FallbackStrategy) Resolve(in Input) (m Match, ok bool) {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[DATES] fallback parser panicked on %q: %v", in.Raw, r)
			m, ok = Match{}, false
		}
	}()

	t, err := dateparse.ParseIn(in.Raw, loc)
	if err != nil || t.IsZero() {
		return Match{}, false
	}
	return Match{Date: t.In(loc)}, true
}
